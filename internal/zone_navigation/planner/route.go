// Package planner computes evacuation routes over a graph.ZoneGraph.
//
// The search is a breadth-first search whose expansion is gated per node by tier:
// a node enqueues its open safe neighbors; only when it has none does it enqueue
// open cautious neighbors; only when it has neither does it enqueue open dangerous
// neighbors (PolicyDangerFallback) or give up on that branch (PolicyStrict).
// Closed zones are never enqueued.
//
// The returned path is shortest by door count within the tiers each node had to
// admit. Because the gating is decided locally, a cautious detour early on that
// would have unlocked a shorter all-safe path is not found. This is a known
// limitation of the greedy policy, not a global optimum search.
package planner

import (
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph"
)

// queueItem is one frontier entry: a zone, the path that reached it and the
// least preferred tier admitted on that path.
type queueItem struct {
	zone      domain.ZoneID
	path      []domain.ZoneID
	admission domain.Classification
}

type walker struct {
	view    graph.View
	opts    Options
	goals   map[domain.ZoneID]bool
	queue   []queueItem
	visited map[domain.ZoneID]bool
}

// FindRoute returns a path from start to goal, or domain.NoRoute when the current
// open/closed and tier state admits none. A closed goal is unreachable unless
// start == goal. Unknown zones yield *domain.UnknownZoneError.
func FindRoute(g *graph.ZoneGraph, start, goal domain.ZoneID, opts ...Option) (domain.Route, error) {
	return FindRouteToAny(g, start, []domain.ZoneID{goal}, opts...)
}

// FindRouteToAny returns the route to whichever goal the search reaches first,
// which is the nearest one under the tier policy.
func FindRouteToAny(g *graph.ZoneGraph, start domain.ZoneID, goals []domain.ZoneID, opts ...Option) (domain.Route, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var (
		route domain.Route
		err   error
	)
	g.Read(func(v graph.View) {
		route, err = search(v, start, goals, o)
	})
	return route, err
}

// NearestExit routes from start to the closest declared exit.
func NearestExit(g *graph.ZoneGraph, start domain.ZoneID, opts ...Option) (domain.Route, error) {
	exits := g.Exits()
	if len(exits) == 0 {
		if !g.HasZone(start) {
			return domain.NoRoute, &domain.UnknownZoneError{ID: start}
		}
		return domain.NoRoute, nil
	}
	return FindRouteToAny(g, start, exits, opts...)
}

func search(v graph.View, start domain.ZoneID, goals []domain.ZoneID, o Options) (domain.Route, error) {
	if !v.HasZone(start) {
		return domain.NoRoute, &domain.UnknownZoneError{ID: start}
	}
	goalSet := make(map[domain.ZoneID]bool, len(goals))
	for _, id := range goals {
		if !v.HasZone(id) {
			return domain.NoRoute, &domain.UnknownZoneError{ID: id}
		}
		goalSet[id] = true
	}
	if goalSet[start] {
		return domain.Route{Path: []domain.ZoneID{start}, Admission: domain.ClassSafe}, nil
	}

	w := &walker{
		view:    v,
		opts:    o,
		goals:   goalSet,
		visited: map[domain.ZoneID]bool{start: true},
	}
	w.queue = append(w.queue, queueItem{
		zone:      start,
		path:      []domain.ZoneID{start},
		admission: domain.ClassSafe,
	})
	return w.loop(), nil
}

func (w *walker) loop() domain.Route {
	for len(w.queue) > 0 {
		item := w.queue[0]
		w.queue = w.queue[1:]
		w.opts.OnVisit(item.zone, len(item.path)-1)

		if w.goals[item.zone] {
			return domain.Route{Path: item.path, Admission: item.admission}
		}
		w.expand(item)
	}
	return domain.NoRoute
}

// expand partitions the unvisited open neighbors of item into tiers and
// enqueues the most preferred non-empty one.
func (w *walker) expand(item queueItem) {
	var safe, cautious, dangerous []domain.ZoneID
	for _, nbr := range w.view.PassableNeighbors(item.zone) {
		if w.visited[nbr] {
			continue
		}
		st, ok := w.view.State(nbr)
		if !ok || st.Status != domain.StatusOpen {
			continue
		}
		switch st.Classification {
		case domain.ClassSafe:
			safe = append(safe, nbr)
		case domain.ClassCautious:
			cautious = append(cautious, nbr)
		case domain.ClassDangerous:
			dangerous = append(dangerous, nbr)
		}
	}

	switch {
	case len(safe) > 0:
		w.enqueueAll(item, safe, domain.ClassSafe)
	case len(cautious) > 0:
		w.enqueueAll(item, cautious, domain.ClassCautious)
	case len(dangerous) > 0 && w.opts.Policy == PolicyDangerFallback:
		w.enqueueAll(item, dangerous, domain.ClassDangerous)
	}
}

// enqueueAll marks each zone visited as it is enqueued so no zone enters the
// queue twice on a cyclic graph.
func (w *walker) enqueueAll(from queueItem, zones []domain.ZoneID, tier domain.Classification) {
	depth := len(from.path)
	for _, z := range zones {
		w.visited[z] = true
		path := make([]domain.ZoneID, depth+1)
		copy(path, from.path)
		path[depth] = z
		w.opts.OnEnqueue(z, tier, depth)
		w.queue = append(w.queue, queueItem{
			zone:      z,
			path:      path,
			admission: from.admission.Worse(tier),
		})
	}
}
