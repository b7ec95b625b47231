package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/ingest/parser"
)

func TestValidate(t *testing.T) {
	ok := &parser.YTopology{
		Zones:       []parser.YZone{{ID: 1}, {ID: 2, Kind: "exterior", Classification: "danger"}},
		Doors:       map[int][]int{0: {1, 2}},
		DoorStatus:  map[int]string{0: "locked"},
		Connections: map[int][]int{},
		Exits:       []int{2},
	}
	assert.NoError(t, Validate(ok))

	// connection doors get ids at load time, so door_status may name them
	assert.NoError(t, Validate(&parser.YTopology{
		Connections: map[int][]int{1: {2}},
		DoorStatus:  map[int]string{0: "closed"},
	}))

	// without a zone table exits are declared implicitly
	assert.NoError(t, Validate(&parser.YTopology{Connections: map[int][]int{1: {2}}, Exits: []int{7}}))

	bad := []*parser.YTopology{
		nil,
		{},
		{Zones: []parser.YZone{{ID: 1}, {ID: 1}}},
		{Zones: []parser.YZone{{ID: 1, Kind: "attic"}}},
		{Doors: map[int][]int{0: {1}}},
		{Zones: []parser.YZone{{ID: 1}}, Exits: []int{3}},
	}
	for i, topo := range bad {
		err := Validate(topo)
		assert.ErrorIs(t, err, domain.ErrConfiguration, "case %d", i)
	}
}
