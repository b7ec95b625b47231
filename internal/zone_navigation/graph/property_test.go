package graph

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
)

// genDoors generates door tables over a small id space so cycles, parallel
// doors and self-loops all show up.
func genDoors() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 15*15-1)).Map(func(pairs []int) []domain.Door {
		doors := make([]domain.Door, len(pairs))
		for i, p := range pairs {
			doors[i] = door(i, p/15, p%15)
		}
		return doors
	})
}

func TestAdjacencyInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("neighbors are symmetric", prop.ForAll(
		func(doors []domain.Door) bool {
			g, err := Build(nil, doors)
			if err != nil {
				return false
			}
			for _, z := range g.Zones() {
				na, _ := g.Neighbors(z.ID)
				for _, b := range na {
					nb, _ := g.Neighbors(b)
					if !containsZone(nb, z.ID) {
						return false
					}
				}
			}
			return true
		},
		genDoors(),
	))

	properties.Property("no zone is its own neighbor", prop.ForAll(
		func(doors []domain.Door) bool {
			g, err := Build(nil, doors)
			if err != nil {
				return false
			}
			for _, z := range g.Zones() {
				nbrs, _ := g.Neighbors(z.ID)
				if containsZone(nbrs, z.ID) {
					return false
				}
			}
			return true
		},
		genDoors(),
	))

	properties.Property("every door endpoint is a zone", prop.ForAll(
		func(doors []domain.Door) bool {
			g, err := Build(nil, doors)
			if err != nil {
				return false
			}
			for _, d := range doors {
				if !g.HasZone(d.A) || !g.HasZone(d.B) {
					return false
				}
			}
			return len(g.Doors()) == len(doors)
		},
		genDoors(),
	))

	properties.TestingRun(t)
}

func containsZone(list []domain.ZoneID, id domain.ZoneID) bool {
	for _, z := range list {
		if z == id {
			return true
		}
	}
	return false
}
