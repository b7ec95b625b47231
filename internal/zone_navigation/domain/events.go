package domain

import (
	"encoding/json"
	"time"
)

// EventKind names the state change carried by a ZoneEvent.
type EventKind string

const (
	EventZoneStatus         EventKind = "zone_status"
	EventZoneClassification EventKind = "zone_classification"
	EventDoorStatus         EventKind = "door_status"
	EventSnapshot           EventKind = "snapshot"
)

// Event sources, recorded on events and incidents.
const (
	SourceOperator = "operator"
	SourceAgent    = "agent"
	SourceAudio    = "audio"
	SourceSchedule = "schedule"
)

// ZoneEvent is what the live dashboard feed receives after every applied mutation.
type ZoneEvent struct {
	ID             string          `json:"id"`
	Kind           EventKind       `json:"kind"`
	Source         string          `json:"source"`
	ZoneID         *ZoneID         `json:"zone_id,omitempty"`
	DoorID         *DoorID         `json:"door_id,omitempty"`
	Status         Status          `json:"status,omitempty"`
	Classification Classification  `json:"classification,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	At             time.Time       `json:"at"`
}

// Incident is a persisted record of a danger marking.
type Incident struct {
	ID             string         `json:"id"`
	ZoneID         ZoneID         `json:"zone_id"`
	Classification Classification `json:"classification"`
	Source         string         `json:"source"`
	Label          string         `json:"label,omitempty"`
	Confidence     *float64       `json:"confidence,omitempty"`
	Note           string         `json:"note,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ToolCall is an already-parsed function call issued by the voice agent.
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	// Location is the caller's current zone, when the agent knows it.
	Location *ZoneID `json:"location,omitempty"`
}

// Tool names understood by the navigation service.
const (
	ToolOpenDoor  = "open_door"
	ToolCloseDoor = "close_door"
	ToolMarkZone  = "mark_zone"
)

func KnownTool(name string) bool {
	switch name {
	case ToolOpenDoor, ToolCloseDoor, ToolMarkZone:
		return true
	}
	return false
}

// ToolResult is returned to the agent; it decides what to say.
type ToolResult struct {
	Tool    string `json:"tool"`
	Applied bool   `json:"applied"`
	Zone    *Zone  `json:"zone,omitempty"`
	Door    *Door  `json:"door,omitempty"`
	Route   *Route `json:"route,omitempty"`
}

// AudioEvent is a classified audio segment reported by the scream detector.
type AudioEvent struct {
	ZoneID      ZoneID  `json:"zone_id"`
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Audio labels produced by the detector.
const (
	LabelScream    = "scream"
	LabelNonScream = "non-scream"
	LabelClear     = "clear"
)

// KnownAudioLabel reports whether label is one the detector emits or an explicit "safe".
func KnownAudioLabel(label string) bool {
	switch label {
	case LabelScream, LabelNonScream, LabelClear, string(ClassSafe):
		return true
	}
	return false
}
