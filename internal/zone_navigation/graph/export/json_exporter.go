package export

import (
	"encoding/json"
	"os"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph"
)

// Snapshot is the dashboard view of the building: every zone and door with its live state.
type Snapshot struct {
	Zones []domain.Zone   `json:"zones"`
	Doors []domain.Door   `json:"doors"`
	Exits []domain.ZoneID `json:"exits"`
}

func ToSnapshot(g *graph.ZoneGraph) Snapshot {
	return Snapshot{
		Zones: g.Zones(),
		Doors: g.Doors(),
		Exits: g.Exits(),
	}
}

func ToJSON(g *graph.ZoneGraph) ([]byte, error) {
	return json.MarshalIndent(ToSnapshot(g), "", "  ")
}

func WriteJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
