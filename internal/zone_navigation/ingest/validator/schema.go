package validator

import (
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/ingest/parser"
)

// Validate checks the parts of a topology the graph builder cannot: enum spelling,
// door arity and exit references. Reference checks for doors happen in graph.Build.
func Validate(t *parser.YTopology) error {
	if t == nil {
		return domain.Configurationf("topology is nil")
	}
	if len(t.Zones) == 0 && len(t.Doors) == 0 && len(t.Connections) == 0 {
		return domain.Configurationf("topology declares no zones and no doors")
	}

	declared := map[int]bool{}
	for _, z := range t.Zones {
		if declared[z.ID] {
			return domain.Configurationf("duplicate zone %d", z.ID)
		}
		declared[z.ID] = true

		if _, err := domain.ParseZoneKind(z.Kind); err != nil {
			return domain.Configurationf("zone %d: %v", z.ID, err)
		}
		if z.Status != "" {
			if _, err := domain.ParseStatus(z.Status); err != nil {
				return domain.Configurationf("zone %d: %v", z.ID, err)
			}
		}
		if z.Classification != "" {
			if _, err := domain.ParseClassification(z.Classification); err != nil {
				return domain.Configurationf("zone %d: %v", z.ID, err)
			}
		}
	}

	for id, ends := range t.Doors {
		if len(ends) != 2 {
			return domain.Configurationf("door %d must connect exactly two zones, got %d", id, len(ends))
		}
	}
	for id, st := range t.DoorStatus {
		if _, ok := t.Doors[id]; !ok && len(t.Connections) == 0 {
			return domain.Configurationf("door_status names unknown door %d", id)
		}
		if _, err := domain.ParseStatus(st); err != nil {
			return domain.Configurationf("door %d: %v", id, err)
		}
	}

	if len(t.Zones) > 0 {
		for _, id := range t.Exits {
			if !declared[id] {
				return domain.Configurationf("exit references unknown zone %d", id)
			}
		}
	}

	return nil
}
