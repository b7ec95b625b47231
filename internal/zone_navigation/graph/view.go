package graph

import "github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"

// View is a lock-free read handle valid only inside Read. It lets a traversal see
// one consistent state even while mutators are waiting.
type View struct {
	g *ZoneGraph
}

// Read runs fn with the graph read-locked.
func (g *ZoneGraph) Read(fn func(v View)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn(View{g: g})
}

func (v View) HasZone(id domain.ZoneID) bool {
	_, ok := v.g.zones[id]
	return ok
}

func (v View) State(id domain.ZoneID) (domain.ZoneState, bool) {
	z, ok := v.g.zones[id]
	if !ok {
		return domain.ZoneState{}, false
	}
	return z.State(), true
}

func (v View) PassableNeighbors(id domain.ZoneID) []domain.ZoneID {
	return v.g.neighbors(id, true)
}

func (v View) Exits() []domain.ZoneID {
	return append([]domain.ZoneID(nil), v.g.exits...)
}
