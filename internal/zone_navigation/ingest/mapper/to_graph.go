package mapper

import (
	"sort"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/ingest/parser"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/ingest/validator"
)

// ToGraph validates t and builds the live zone graph from it.
func ToGraph(t *parser.YTopology) (*graph.ZoneGraph, error) {
	if err := validator.Validate(t); err != nil {
		return nil, err
	}

	zones := make([]domain.Zone, 0, len(t.Zones))
	for _, yz := range t.Zones {
		z := domain.Zone{ID: domain.ZoneID(yz.ID), Name: yz.Name}
		z.Kind, _ = domain.ParseZoneKind(yz.Kind)
		if yz.Status != "" {
			z.Status, _ = domain.ParseStatus(yz.Status)
		}
		if yz.Classification != "" {
			z.Classification, _ = domain.ParseClassification(yz.Classification)
		}
		zones = append(zones, z)
	}

	doors := Doors(t)
	if len(zones) == 0 {
		zones = implicitZones(t, doors)
	}
	known := make(map[int]bool, len(doors))
	for i := range doors {
		known[int(doors[i].ID)] = true
		if st, ok := t.DoorStatus[int(doors[i].ID)]; ok {
			doors[i].Status, _ = domain.ParseStatus(st)
		}
	}
	for _, id := range sortedKeys(t.DoorStatus) {
		if !known[id] {
			return nil, domain.Configurationf("door_status names unknown door %d", id)
		}
	}

	g, err := graph.Build(zones, doors)
	if err != nil {
		return nil, err
	}

	exits := make([]domain.ZoneID, 0, len(t.Exits))
	for _, id := range t.Exits {
		exits = append(exits, domain.ZoneID(id))
	}
	if err := g.DeclareExits(exits...); err != nil {
		return nil, domain.Configurationf("%v", err)
	}
	return g, nil
}

// Doors flattens the explicit door table and the connection shorthand into one
// door list. Connection doors are numbered after the highest explicit id, in
// ascending (zone, neighbor) order so ids are stable across loads.
func Doors(t *parser.YTopology) []domain.Door {
	ids := make([]int, 0, len(t.Doors))
	next := 0
	for id := range t.Doors {
		ids = append(ids, id)
		if id >= next {
			next = id + 1
		}
	}
	sort.Ints(ids)

	out := make([]domain.Door, 0, len(t.Doors)+len(t.Connections))
	for _, id := range ids {
		ends := t.Doors[id]
		out = append(out, domain.Door{
			ID: domain.DoorID(id),
			A:  domain.ZoneID(ends[0]),
			B:  domain.ZoneID(ends[1]),
		})
	}

	from := make([]int, 0, len(t.Connections))
	for z := range t.Connections {
		from = append(from, z)
	}
	sort.Ints(from)
	for _, z := range from {
		for _, to := range t.Connections[z] {
			out = append(out, domain.Door{
				ID: domain.DoorID(next),
				A:  domain.ZoneID(z),
				B:  domain.ZoneID(to),
			})
			next++
		}
	}
	return out
}

// implicitZones declares every id the topology mentions when it has no zone table,
// including isolated zones that only appear as a connections key.
func implicitZones(t *parser.YTopology, doors []domain.Door) []domain.Zone {
	seen := map[domain.ZoneID]bool{}
	var ids []domain.ZoneID
	add := func(id domain.ZoneID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, d := range doors {
		add(d.A)
		add(d.B)
	}
	for z := range t.Connections {
		add(domain.ZoneID(z))
	}
	for _, z := range t.Exits {
		add(domain.ZoneID(z))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.Zone, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Zone{ID: id})
	}
	return out
}

func sortedKeys(m map[int]string) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
