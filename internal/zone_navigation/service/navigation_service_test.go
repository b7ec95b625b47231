package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelai/sentinel-backend/internal/metrics"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/planner"
)

type fakePublisher struct {
	mu        sync.Mutex
	events    []domain.ZoneEvent
	snapshots []any
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, ev *domain.ZoneEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakePublisher) PublishSnapshot(_ context.Context, snapshot any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *fakePublisher) Recent(_ context.Context, n int) ([]domain.ZoneEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ZoneEvent, 0, len(f.events))
	for i := len(f.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.events[i])
	}
	return out, nil
}

type fakeStore struct {
	mu      sync.Mutex
	created []domain.Incident
	err     error
}

func (f *fakeStore) Create(_ context.Context, inc *domain.Incident) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *inc)
	return nil
}

func (f *fakeStore) List(_ context.Context, limit int) ([]domain.Incident, error) {
	return f.created, nil
}

func (f *fakeStore) ListByZone(_ context.Context, zone domain.ZoneID, limit int) ([]domain.Incident, error) {
	var out []domain.Incident
	for _, inc := range f.created {
		if inc.ZoneID == zone {
			out = append(out, inc)
		}
	}
	return out, nil
}

func mallGraph(t *testing.T) *graph.ZoneGraph {
	t.Helper()
	pairs := [][2]int{
		{0, 8}, {1, 8}, {2, 8}, {3, 8}, {4, 8}, {4, 6}, {4, 7}, {5, 7}, {6, 8}, {6, 7}, {7, 9}, {8, 9},
	}
	doors := make([]domain.Door, len(pairs))
	for i, p := range pairs {
		doors[i] = domain.Door{ID: domain.DoorID(i), A: domain.ZoneID(p[0]), B: domain.ZoneID(p[1])}
	}
	g, err := graph.Build(nil, doors)
	require.NoError(t, err)
	require.NoError(t, g.DeclareExits(9))
	return g
}

type fixture struct {
	svc       *NavigationService
	events    *fakePublisher
	incidents *fakeStore
	metrics   *metrics.Registry
}

func newFixture(t *testing.T) fixture {
	f := fixture{
		events:    &fakePublisher{},
		incidents: &fakeStore{},
		metrics:   metrics.NewRegistry(),
	}
	f.svc = NewNavigationService(mallGraph(t), Config{}, Deps{
		Events:    f.events,
		Incidents: f.incidents,
		Metrics:   f.metrics,
	})
	return f
}

func zid(id int) *domain.ZoneID {
	z := domain.ZoneID(id)
	return &z
}

func TestRoute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("to a goal", func(t *testing.T) {
		r, err := f.svc.Route(ctx, 0, zid(9))
		require.NoError(t, err)
		assert.Equal(t, []domain.ZoneID{0, 8, 9}, r.Path)
	})

	t.Run("to nearest exit", func(t *testing.T) {
		r, err := f.svc.Route(ctx, 5, nil)
		require.NoError(t, err)
		assert.Equal(t, []domain.ZoneID{5, 7, 9}, r.Path)
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, err := f.svc.Route(ctx, 99, zid(0))
		assert.ErrorIs(t, err, domain.ErrUnknownZone)
	})

	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.RoutesTotal.WithLabelValues("found", "safe")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.RoutesTotal.WithLabelValues("error", "")))
}

func TestRoute_StrictPolicy(t *testing.T) {
	g := mallGraph(t)
	require.NoError(t, g.SetClassification(8, domain.ClassDangerous))
	svc := NewNavigationService(g, Config{Policy: planner.PolicyStrict}, Deps{})

	r, err := svc.Route(context.Background(), 0, zid(9))
	require.NoError(t, err)
	assert.False(t, r.Found())
}

func TestMarkZone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	zone, err := f.svc.MarkZone(ctx, 8, domain.ClassDangerous, domain.SourceOperator)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassDangerous, zone.Classification)

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, domain.EventZoneClassification, ev.Kind)
	assert.Equal(t, domain.ZoneID(8), *ev.ZoneID)

	require.Len(t, f.incidents.created, 1)
	assert.Equal(t, domain.ZoneID(8), f.incidents.created[0].ZoneID)

	// re-marking an already dangerous zone records no second incident
	_, err = f.svc.MarkZone(ctx, 8, domain.ClassDangerous, domain.SourceAgent)
	require.NoError(t, err)
	assert.Len(t, f.incidents.created, 1)
	assert.Len(t, f.events.events, 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.DangerousZones))

	// the planner now avoids the zone
	r, err := f.svc.Route(ctx, 4, zid(9))
	require.NoError(t, err)
	assert.Equal(t, []domain.ZoneID{4, 7, 9}, r.Path)
}

func TestMarkZone_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.MarkZone(ctx, 42, domain.ClassDangerous, domain.SourceOperator)
	assert.ErrorIs(t, err, domain.ErrUnknownZone)

	_, err = f.svc.MarkZone(ctx, 1, "spooky", domain.SourceOperator)
	assert.ErrorIs(t, err, domain.ErrInvalidClassification)

	assert.Empty(t, f.events.events)
}

func TestMutationSurvivesCollaboratorFailure(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("redis down")
	f.incidents.err = errors.New("db down")

	zone, err := f.svc.MarkZone(context.Background(), 3, domain.ClassDangerous, domain.SourceOperator)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassDangerous, zone.Classification)

	st, err := f.svc.Graph().Get(3)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassDangerous, st.Classification)
}

func TestSetZoneAndDoorStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	zone, err := f.svc.SetZoneStatus(ctx, 8, domain.StatusClosed, domain.SourceOperator)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, zone.Status)

	r, err := f.svc.Route(ctx, 0, zid(9))
	require.NoError(t, err)
	assert.False(t, r.Found())

	door, err := f.svc.SetDoorStatus(ctx, 10, domain.StatusClosed, domain.SourceOperator)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, door.Status)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ClosedDoors))

	_, err = f.svc.SetDoorStatus(ctx, 77, domain.StatusClosed, domain.SourceOperator)
	assert.ErrorIs(t, err, domain.ErrUnknownDoor)

	require.Len(t, f.events.events, 2)
	assert.Equal(t, domain.EventDoorStatus, f.events.events[1].Kind)
}

func TestHandleAudioEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("scream below threshold is ignored", func(t *testing.T) {
		applied, zone, err := f.svc.HandleAudioEvent(ctx, domain.AudioEvent{ZoneID: 2, Label: domain.LabelScream, Probability: 0.3})
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, domain.ClassSafe, zone.Classification)
	})

	t.Run("scream marks zone dangerous", func(t *testing.T) {
		applied, zone, err := f.svc.HandleAudioEvent(ctx, domain.AudioEvent{ZoneID: 2, Label: domain.LabelScream, Probability: 0.91})
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, domain.ClassDangerous, zone.Classification)

		require.Len(t, f.incidents.created, 1)
		inc := f.incidents.created[0]
		assert.Equal(t, domain.SourceAudio, inc.Source)
		assert.Equal(t, domain.LabelScream, inc.Label)
		require.NotNil(t, inc.Confidence)
		assert.InDelta(t, 0.91, *inc.Confidence, 1e-9)
	})

	t.Run("non-scream is ignored", func(t *testing.T) {
		applied, zone, err := f.svc.HandleAudioEvent(ctx, domain.AudioEvent{ZoneID: 2, Label: domain.LabelNonScream, Probability: 0.99})
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, domain.ClassDangerous, zone.Classification)
	})

	t.Run("clear resets zone", func(t *testing.T) {
		applied, zone, err := f.svc.HandleAudioEvent(ctx, domain.AudioEvent{ZoneID: 2, Label: domain.LabelClear, Probability: 1})
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, domain.ClassSafe, zone.Classification)
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, _, err := f.svc.HandleAudioEvent(ctx, domain.AudioEvent{ZoneID: 99, Label: domain.LabelScream, Probability: 1})
		assert.ErrorIs(t, err, domain.ErrUnknownZone)
	})

	t.Run("unrecognised labels share one metric series", func(t *testing.T) {
		for _, label := range []string{"gunshot", "glass-break", "GLASS"} {
			applied, _, err := f.svc.HandleAudioEvent(ctx, domain.AudioEvent{ZoneID: 2, Label: label, Probability: 1})
			require.NoError(t, err)
			assert.False(t, applied)
		}
		assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.AudioEventsTotal.WithLabelValues("unknown", "false")))
		assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.AudioEventsTotal.WithLabelValues("gunshot", "false")))
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AudioEventsTotal.WithLabelValues(domain.LabelScream, "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AudioEventsTotal.WithLabelValues(domain.LabelScream, "false")))
}

func TestApplyToolCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("close door", func(t *testing.T) {
		res, err := f.svc.ApplyToolCall(ctx, domain.ToolCall{
			Name:      domain.ToolCloseDoor,
			Arguments: json.RawMessage(`{"door_id": 11}`),
		})
		require.NoError(t, err)
		assert.True(t, res.Applied)
		require.NotNil(t, res.Door)
		assert.Equal(t, domain.StatusClosed, res.Door.Status)
		assert.Nil(t, res.Route)
	})

	t.Run("mark zone with stringified arguments and location", func(t *testing.T) {
		res, err := f.svc.ApplyToolCall(ctx, domain.ToolCall{
			Name:      domain.ToolMarkZone,
			Arguments: json.RawMessage(`"{\"zone_id\": 7, \"status\": \"danger\"}"`),
			Location:  zid(5),
		})
		require.NoError(t, err)
		require.NotNil(t, res.Zone)
		assert.Equal(t, domain.ClassDangerous, res.Zone.Classification)

		// door 8-9 is closed and 7 is dangerous: the only way out is through 7
		require.NotNil(t, res.Route)
		assert.Equal(t, []domain.ZoneID{5, 7, 9}, res.Route.Path)
		assert.Equal(t, domain.ClassDangerous, res.Route.Admission)
	})

	t.Run("open door", func(t *testing.T) {
		res, err := f.svc.ApplyToolCall(ctx, domain.ToolCall{
			Name:      domain.ToolOpenDoor,
			Arguments: json.RawMessage(`{"door_id": 11}`),
			Location:  zid(5),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOpen, res.Door.Status)
		require.NotNil(t, res.Route)
		assert.Equal(t, []domain.ZoneID{5, 7, 9}, res.Route.Path)
	})

	t.Run("repairs malformed arguments", func(t *testing.T) {
		res, err := f.svc.ApplyToolCall(ctx, domain.ToolCall{
			Name:      domain.ToolCloseDoor,
			Arguments: json.RawMessage(`{'door_id': 3,}`),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DoorID(3), res.Door.ID)
		assert.Equal(t, domain.StatusClosed, res.Door.Status)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := f.svc.ApplyToolCall(ctx, domain.ToolCall{Name: "launch_rocket", Arguments: json.RawMessage(`{}`)})
		assert.ErrorIs(t, err, ErrUnknownTool)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		cases := []domain.ToolCall{
			{Name: domain.ToolOpenDoor},
			{Name: domain.ToolOpenDoor, Arguments: json.RawMessage(`{}`)},
			{Name: domain.ToolOpenDoor, Arguments: json.RawMessage(`[1,2]`)},
			{Name: domain.ToolMarkZone, Arguments: json.RawMessage(`{"zone_id": 1, "status": "spooky"}`)},
			{Name: domain.ToolMarkZone, Arguments: json.RawMessage(`{"status": "safe"}`)},
		}
		for _, call := range cases {
			_, err := f.svc.ApplyToolCall(ctx, call)
			assert.ErrorIs(t, err, ErrInvalidArguments, string(call.Arguments))
		}
	})

	t.Run("unknown door", func(t *testing.T) {
		_, err := f.svc.ApplyToolCall(ctx, domain.ToolCall{Name: domain.ToolCloseDoor, Arguments: json.RawMessage(`{"door_id": 404}`)})
		assert.ErrorIs(t, err, domain.ErrUnknownDoor)
	})

	t.Run("unknown location leaves the building untouched", func(t *testing.T) {
		published := len(f.events.events)
		failed := testutil.ToFloat64(f.metrics.ToolCallsTotal.WithLabelValues(domain.ToolCloseDoor, "error"))

		res, err := f.svc.ApplyToolCall(ctx, domain.ToolCall{
			Name:      domain.ToolCloseDoor,
			Arguments: json.RawMessage(`{"door_id": 0}`),
			Location:  zid(42),
		})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrUnknownZone)

		door, err := f.svc.Graph().Door(0)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOpen, door.Status)
		assert.Len(t, f.events.events, published)
		assert.Equal(t, failed+1, testutil.ToFloat64(f.metrics.ToolCallsTotal.WithLabelValues(domain.ToolCloseDoor, "error")))
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ToolCallsTotal.WithLabelValues("unknown", "error")))
}

func TestOptionalCollaborators(t *testing.T) {
	svc := NewNavigationService(mallGraph(t), Config{}, Deps{})
	ctx := context.Background()

	_, err := svc.MarkZone(ctx, 1, domain.ClassDangerous, domain.SourceOperator)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.PublishSnapshot(ctx), ErrFeatureDisabled)
	_, err = svc.RecentEvents(ctx, 5)
	assert.ErrorIs(t, err, ErrFeatureDisabled)
	_, err = svc.Incidents(ctx, nil, 5)
	assert.ErrorIs(t, err, ErrFeatureDisabled)
}

func TestSnapshotsAndFeeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.PublishSnapshot(ctx))
	assert.Len(t, f.events.snapshots, 1)

	_, err := f.svc.MarkZone(ctx, 1, domain.ClassDangerous, domain.SourceOperator)
	require.NoError(t, err)
	_, err = f.svc.MarkZone(ctx, 2, domain.ClassDangerous, domain.SourceOperator)
	require.NoError(t, err)

	events, err := f.svc.RecentEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ZoneID(2), *events[0].ZoneID)

	incidents, err := f.svc.Incidents(ctx, zid(1), 10)
	require.NoError(t, err)
	assert.Len(t, incidents, 1)

	_, err = f.svc.Incidents(ctx, zid(99), 10)
	assert.ErrorIs(t, err, domain.ErrUnknownZone)

	assert.Equal(t, 10, f.svc.ZoneCount())
}

func TestMarkZone_ConcurrentDangerRecordsOneIncident(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.MarkZone(ctx, 3, domain.ClassDangerous, domain.SourceOperator)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	f.incidents.mu.Lock()
	defer f.incidents.mu.Unlock()
	assert.Len(t, f.incidents.created, 1)
}
