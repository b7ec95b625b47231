package domain

type ZoneID int

type DoorID int

// Zone is a navigable area: a store, a corridor or the outside.
type Zone struct {
	ID             ZoneID         `json:"id" yaml:"id"`
	Name           string         `json:"name,omitempty" yaml:"name,omitempty"`
	Kind           ZoneKind       `json:"kind" yaml:"kind"`
	Status         Status         `json:"status" yaml:"status"`
	Classification Classification `json:"classification" yaml:"classification"`
}

// ZoneState is the mutable part of a zone.
type ZoneState struct {
	Status         Status         `json:"status"`
	Classification Classification `json:"classification"`
}

func (z Zone) State() ZoneState {
	return ZoneState{Status: z.Status, Classification: z.Classification}
}

// Door is an undirected connection between two zones. A == B is a tolerated no-op edge.
type Door struct {
	ID     DoorID `json:"id"`
	A      ZoneID `json:"a"`
	B      ZoneID `json:"b"`
	Status Status `json:"status"`
}

// Other returns the endpoint opposite z.
func (d Door) Other(z ZoneID) ZoneID {
	if d.A == z {
		return d.B
	}
	return d.A
}

// Route is the outcome of a planning request. The zero value is NoRoute.
type Route struct {
	Path []ZoneID `json:"path"`
	// Admission is the least preferred tier the planner had to admit along Path.
	Admission Classification `json:"admission,omitempty"`
}

// NoRoute means no admissible path exists under the current zone state.
var NoRoute = Route{}

func (r Route) Found() bool { return len(r.Path) > 0 }

func (r Route) Hops() int {
	if len(r.Path) == 0 {
		return -1
	}
	return len(r.Path) - 1
}
