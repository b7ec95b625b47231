package service

import (
	"context"
	"errors"
	"log"

	"github.com/sentinelai/sentinel-backend/internal/metrics"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph/export"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/planner"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
	ErrFeatureDisabled  = errors.New("feature not configured")
)

// DefaultScreamThreshold is the detector probability above which a scream marks a zone dangerous.
const DefaultScreamThreshold = 0.5

// EventPublisher receives every applied state change.
type EventPublisher interface {
	Publish(ctx context.Context, ev *domain.ZoneEvent) error
	PublishSnapshot(ctx context.Context, snapshot any) error
	Recent(ctx context.Context, n int) ([]domain.ZoneEvent, error)
}

// IncidentStore records danger markings.
type IncidentStore interface {
	Create(ctx context.Context, inc *domain.Incident) error
	List(ctx context.Context, limit int) ([]domain.Incident, error)
	ListByZone(ctx context.Context, zone domain.ZoneID, limit int) ([]domain.Incident, error)
}

type Config struct {
	Policy          planner.Policy
	ScreamThreshold float64
}

// Deps are the optional collaborators; nil fields disable the feature.
type Deps struct {
	Events    EventPublisher
	Incidents IncidentStore
	Metrics   *metrics.Registry
}

// NavigationService applies operator, agent and detector commands to the zone
// graph and plans routes over it. The graph stays the authority: collaborator
// failures are logged and never undo a mutation.
type NavigationService struct {
	graph     *graph.ZoneGraph
	cfg       Config
	events    EventPublisher
	incidents IncidentStore
	metrics   *metrics.Registry
}

func NewNavigationService(g *graph.ZoneGraph, cfg Config, deps Deps) *NavigationService {
	if cfg.ScreamThreshold <= 0 {
		cfg.ScreamThreshold = DefaultScreamThreshold
	}
	s := &NavigationService{
		graph:     g,
		cfg:       cfg,
		events:    deps.Events,
		incidents: deps.Incidents,
		metrics:   deps.Metrics,
	}
	s.refreshGauges()
	return s
}

func (s *NavigationService) Graph() *graph.ZoneGraph { return s.graph }

func (s *NavigationService) Zones() []domain.Zone { return s.graph.Zones() }

func (s *NavigationService) Doors() []domain.Door { return s.graph.Doors() }

func (s *NavigationService) Zone(id domain.ZoneID) (domain.Zone, error) { return s.graph.Zone(id) }

func (s *NavigationService) Neighbors(id domain.ZoneID) ([]domain.ZoneID, error) {
	return s.graph.Neighbors(id)
}

// Route plans from one zone to another, or to the nearest exit when to is nil.
func (s *NavigationService) Route(ctx context.Context, from domain.ZoneID, to *domain.ZoneID) (domain.Route, error) {
	var (
		route domain.Route
		err   error
	)
	if to == nil {
		route, err = planner.NearestExit(s.graph, from, planner.WithPolicy(s.cfg.Policy))
	} else {
		route, err = planner.FindRoute(s.graph, from, *to, planner.WithPolicy(s.cfg.Policy))
	}

	switch {
	case err != nil:
		s.metrics.RecordRoute("error", "", -1)
	case route.Found():
		s.metrics.RecordRoute("found", string(route.Admission), route.Hops())
	default:
		s.metrics.RecordRoute("no_route", "", -1)
	}
	return route, err
}

// MarkZone changes a zone's classification and records an incident when the
// zone becomes dangerous.
func (s *NavigationService) MarkZone(ctx context.Context, id domain.ZoneID, c domain.Classification, source string) (domain.Zone, error) {
	return s.markZone(ctx, id, c, source, "", nil)
}

func (s *NavigationService) markZone(ctx context.Context, id domain.ZoneID, c domain.Classification, source, label string, confidence *float64) (domain.Zone, error) {
	prev, zone, err := s.graph.SwapClassification(id, c)
	if err != nil {
		return domain.Zone{}, err
	}

	log.Printf("[nav] zone %d marked %s (was %s) by %s", id, c, prev, source)
	s.metrics.RecordMutation(string(domain.EventZoneClassification), source)
	s.refreshGauges()

	zid := id
	s.publish(ctx, &domain.ZoneEvent{
		Kind:           domain.EventZoneClassification,
		Source:         source,
		ZoneID:         &zid,
		Classification: c,
	})

	if c == domain.ClassDangerous && prev != domain.ClassDangerous {
		s.recordIncident(ctx, &domain.Incident{
			ZoneID:         id,
			Classification: c,
			Source:         source,
			Label:          label,
			Confidence:     confidence,
		})
	}
	return zone, nil
}

func (s *NavigationService) SetZoneStatus(ctx context.Context, id domain.ZoneID, st domain.Status, source string) (domain.Zone, error) {
	if err := s.graph.SetStatus(id, st); err != nil {
		return domain.Zone{}, err
	}
	zone, err := s.graph.Zone(id)
	if err != nil {
		return domain.Zone{}, err
	}

	log.Printf("[nav] zone %d set %s by %s", id, st, source)
	s.metrics.RecordMutation(string(domain.EventZoneStatus), source)

	zid := id
	s.publish(ctx, &domain.ZoneEvent{
		Kind:   domain.EventZoneStatus,
		Source: source,
		ZoneID: &zid,
		Status: st,
	})
	return zone, nil
}

func (s *NavigationService) SetDoorStatus(ctx context.Context, id domain.DoorID, st domain.Status, source string) (domain.Door, error) {
	if err := s.graph.SetDoorStatus(id, st); err != nil {
		return domain.Door{}, err
	}
	door, err := s.graph.Door(id)
	if err != nil {
		return domain.Door{}, err
	}

	log.Printf("[nav] door %d set %s by %s", id, st, source)
	s.metrics.RecordMutation(string(domain.EventDoorStatus), source)
	s.refreshGauges()

	did := id
	s.publish(ctx, &domain.ZoneEvent{
		Kind:   domain.EventDoorStatus,
		Source: source,
		DoorID: &did,
		Status: st,
	})
	return door, nil
}

// HandleAudioEvent turns a classified audio segment into a zone marking. It
// reports whether the zone state was touched.
func (s *NavigationService) HandleAudioEvent(ctx context.Context, ev domain.AudioEvent) (bool, domain.Zone, error) {
	if !s.graph.HasZone(ev.ZoneID) {
		return false, domain.Zone{}, &domain.UnknownZoneError{ID: ev.ZoneID}
	}

	var target domain.Classification
	switch ev.Label {
	case domain.LabelScream:
		if ev.Probability < s.cfg.ScreamThreshold {
			s.metrics.RecordAudioEvent(audioMetricLabel(ev.Label), false)
			zone, err := s.graph.Zone(ev.ZoneID)
			return false, zone, err
		}
		target = domain.ClassDangerous
	case domain.LabelClear, string(domain.ClassSafe):
		target = domain.ClassSafe
	default:
		s.metrics.RecordAudioEvent(audioMetricLabel(ev.Label), false)
		zone, err := s.graph.Zone(ev.ZoneID)
		return false, zone, err
	}

	p := ev.Probability
	zone, err := s.markZone(ctx, ev.ZoneID, target, domain.SourceAudio, ev.Label, &p)
	if err != nil {
		return false, domain.Zone{}, err
	}
	s.metrics.RecordAudioEvent(audioMetricLabel(ev.Label), true)
	return true, zone, nil
}

// audioMetricLabel keeps the metric's label set bounded against arbitrary detector input.
func audioMetricLabel(label string) string {
	if domain.KnownAudioLabel(label) {
		return label
	}
	return "unknown"
}

// PublishSnapshot pushes the full building state to the event feed.
func (s *NavigationService) PublishSnapshot(ctx context.Context) error {
	if s.events == nil {
		return ErrFeatureDisabled
	}
	return s.events.PublishSnapshot(ctx, export.ToSnapshot(s.graph))
}

func (s *NavigationService) RecentEvents(ctx context.Context, n int) ([]domain.ZoneEvent, error) {
	if s.events == nil {
		return nil, ErrFeatureDisabled
	}
	return s.events.Recent(ctx, n)
}

// Incidents lists recorded incidents, optionally for a single zone.
func (s *NavigationService) Incidents(ctx context.Context, zone *domain.ZoneID, limit int) ([]domain.Incident, error) {
	if s.incidents == nil {
		return nil, ErrFeatureDisabled
	}
	if zone != nil {
		if !s.graph.HasZone(*zone) {
			return nil, &domain.UnknownZoneError{ID: *zone}
		}
		return s.incidents.ListByZone(ctx, *zone, limit)
	}
	return s.incidents.List(ctx, limit)
}

func (s *NavigationService) publish(ctx context.Context, ev *domain.ZoneEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("[nav] failed to publish %s event: %v", ev.Kind, err)
	}
}

func (s *NavigationService) recordIncident(ctx context.Context, inc *domain.Incident) {
	if s.incidents == nil {
		return
	}
	if err := s.incidents.Create(ctx, inc); err != nil {
		log.Printf("[nav] failed to record incident for zone %d: %v", inc.ZoneID, err)
	}
}

func (s *NavigationService) refreshGauges() {
	if s.metrics == nil {
		return
	}
	dangerous, closed := 0, 0
	for _, z := range s.graph.Zones() {
		if z.Classification == domain.ClassDangerous {
			dangerous++
		}
	}
	for _, d := range s.graph.Doors() {
		if d.Status == domain.StatusClosed {
			closed++
		}
	}
	s.metrics.SetBuildingState(dangerous, closed)
}

func (s *NavigationService) ZoneCount() int { return len(s.graph.Zones()) }
