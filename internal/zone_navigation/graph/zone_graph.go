// Package graph holds the building topology and the live per-zone attributes.
//
// A ZoneGraph is built once from the static door/zone tables and then only its
// zone status, zone classification and door status change. All methods are safe
// for concurrent use; a single RWMutex guards the whole structure.
package graph

import (
	"sort"
	"sync"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
)

// incidence is one door seen from one of its endpoints.
type incidence struct {
	door domain.DoorID
	zone domain.ZoneID
}

type ZoneGraph struct {
	mu    sync.RWMutex
	zones map[domain.ZoneID]*domain.Zone
	doors map[domain.DoorID]*domain.Door
	// adj keeps parallel doors; each door appears once per direction.
	adj   map[domain.ZoneID][]incidence
	exits []domain.ZoneID
}

// Build constructs the bidirectional adjacency from the door table.
//
// When zones is empty every id named by a door is an implicitly declared zone,
// open and safe. Otherwise a door naming an undeclared zone is a ConfigurationError.
func Build(zones []domain.Zone, doors []domain.Door) (*ZoneGraph, error) {
	g := &ZoneGraph{
		zones: make(map[domain.ZoneID]*domain.Zone, len(zones)),
		doors: make(map[domain.DoorID]*domain.Door, len(doors)),
		adj:   make(map[domain.ZoneID][]incidence, len(zones)),
	}

	for _, z := range zones {
		if _, dup := g.zones[z.ID]; dup {
			return nil, domain.Configurationf("duplicate zone %d", z.ID)
		}
		z := z
		if z.Status == "" {
			z.Status = domain.StatusOpen
		}
		if z.Classification == "" {
			z.Classification = domain.ClassSafe
		}
		if z.Kind == "" {
			z.Kind = domain.KindStore
		}
		if !z.Status.Valid() {
			return nil, domain.Configurationf("zone %d: invalid status %q", z.ID, z.Status)
		}
		if !z.Classification.Valid() {
			return nil, domain.Configurationf("zone %d: invalid classification %q", z.ID, z.Classification)
		}
		g.zones[z.ID] = &z
		g.adj[z.ID] = nil
	}
	implicit := len(zones) == 0

	for _, d := range doors {
		if _, dup := g.doors[d.ID]; dup {
			return nil, domain.Configurationf("duplicate door %d", d.ID)
		}
		for _, end := range [2]domain.ZoneID{d.A, d.B} {
			if _, ok := g.zones[end]; ok {
				continue
			}
			if !implicit {
				return nil, domain.Configurationf("door %d references unknown zone %d", d.ID, end)
			}
			g.zones[end] = &domain.Zone{
				ID:             end,
				Kind:           domain.KindStore,
				Status:         domain.StatusOpen,
				Classification: domain.ClassSafe,
			}
		}
		d := d
		if d.Status == "" {
			d.Status = domain.StatusOpen
		}
		if !d.Status.Valid() {
			return nil, domain.Configurationf("door %d: invalid status %q", d.ID, d.Status)
		}
		g.doors[d.ID] = &d

		// self-loop: kept in the door table, contributes no neighbor
		if d.A == d.B {
			continue
		}
		g.adj[d.A] = append(g.adj[d.A], incidence{door: d.ID, zone: d.B})
		g.adj[d.B] = append(g.adj[d.B], incidence{door: d.ID, zone: d.A})
	}

	for id, z := range g.zones {
		if z.Kind == domain.KindExterior {
			g.exits = append(g.exits, id)
		}
	}
	sortZoneIDs(g.exits)

	return g, nil
}

// DeclareExits marks additional zones as building exits.
func (g *ZoneGraph) DeclareExits(ids ...domain.ZoneID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range ids {
		if _, ok := g.zones[id]; !ok {
			return &domain.UnknownZoneError{ID: id}
		}
	}
	seen := make(map[domain.ZoneID]bool, len(g.exits))
	for _, id := range g.exits {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			g.exits = append(g.exits, id)
			seen[id] = true
		}
	}
	sortZoneIDs(g.exits)
	return nil
}

// Neighbors returns every zone one door away from id, regardless of door or zone state.
func (g *ZoneGraph) Neighbors(id domain.ZoneID) ([]domain.ZoneID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.zones[id]; !ok {
		return nil, &domain.UnknownZoneError{ID: id}
	}
	return g.neighbors(id, false), nil
}

// PassableNeighbors is Neighbors restricted to zones behind at least one open door.
func (g *ZoneGraph) PassableNeighbors(id domain.ZoneID) ([]domain.ZoneID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.zones[id]; !ok {
		return nil, &domain.UnknownZoneError{ID: id}
	}
	return g.neighbors(id, true), nil
}

// neighbors collapses parallel doors into a sorted set. Caller holds the lock.
func (g *ZoneGraph) neighbors(id domain.ZoneID, openDoorsOnly bool) []domain.ZoneID {
	inc := g.adj[id]
	seen := make(map[domain.ZoneID]bool, len(inc))
	out := make([]domain.ZoneID, 0, len(inc))
	for _, in := range inc {
		if openDoorsOnly && g.doors[in.door].Status != domain.StatusOpen {
			continue
		}
		if seen[in.zone] {
			continue
		}
		seen[in.zone] = true
		out = append(out, in.zone)
	}
	sortZoneIDs(out)
	return out
}

func (g *ZoneGraph) SetStatus(id domain.ZoneID, status domain.Status) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	z, ok := g.zones[id]
	if !ok {
		return &domain.UnknownZoneError{ID: id}
	}
	z.Status = status
	return nil
}

func (g *ZoneGraph) SetClassification(id domain.ZoneID, c domain.Classification) error {
	if !c.Valid() {
		return domain.ErrInvalidClassification
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	z, ok := g.zones[id]
	if !ok {
		return &domain.UnknownZoneError{ID: id}
	}
	z.Classification = c
	return nil
}

// SwapClassification sets the classification and returns the previous one with
// the updated zone, under one lock so concurrent markings see distinct transitions.
func (g *ZoneGraph) SwapClassification(id domain.ZoneID, c domain.Classification) (domain.Classification, domain.Zone, error) {
	if !c.Valid() {
		return "", domain.Zone{}, domain.ErrInvalidClassification
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	z, ok := g.zones[id]
	if !ok {
		return "", domain.Zone{}, &domain.UnknownZoneError{ID: id}
	}
	prev := z.Classification
	z.Classification = c
	return prev, *z, nil
}

// SetDoorStatus locks or unlocks a door. A closed door is never traversed.
func (g *ZoneGraph) SetDoorStatus(id domain.DoorID, status domain.Status) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	d, ok := g.doors[id]
	if !ok {
		return &domain.UnknownDoorError{ID: id}
	}
	d.Status = status
	return nil
}

func (g *ZoneGraph) Get(id domain.ZoneID) (domain.ZoneState, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	z, ok := g.zones[id]
	if !ok {
		return domain.ZoneState{}, &domain.UnknownZoneError{ID: id}
	}
	return z.State(), nil
}

func (g *ZoneGraph) Zone(id domain.ZoneID) (domain.Zone, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	z, ok := g.zones[id]
	if !ok {
		return domain.Zone{}, &domain.UnknownZoneError{ID: id}
	}
	return *z, nil
}

func (g *ZoneGraph) Door(id domain.DoorID) (domain.Door, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	d, ok := g.doors[id]
	if !ok {
		return domain.Door{}, &domain.UnknownDoorError{ID: id}
	}
	return *d, nil
}

func (g *ZoneGraph) HasZone(id domain.ZoneID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.zones[id]
	return ok
}

// Zones returns a copy of every zone, ordered by id.
func (g *ZoneGraph) Zones() []domain.Zone {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.Zone, 0, len(g.zones))
	for _, z := range g.zones {
		out = append(out, *z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Doors returns a copy of every door, ordered by id.
func (g *ZoneGraph) Doors() []domain.Door {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.Door, 0, len(g.doors))
	for _, d := range g.doors {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (g *ZoneGraph) Exits() []domain.ZoneID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.ZoneID(nil), g.exits...)
}

// DoorsBetween lists the doors joining a and b, parallel doors included.
func (g *ZoneGraph) DoorsBetween(a, b domain.ZoneID) []domain.DoorID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []domain.DoorID
	for _, in := range g.adj[a] {
		if in.zone == b {
			out = append(out, in.door)
		}
	}
	return out
}

func sortZoneIDs(ids []domain.ZoneID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
