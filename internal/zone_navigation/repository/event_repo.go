package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
)

const (
	eventChannel   = "nav:events"        // Pub/Sub channel the dashboard subscribes to
	recentEventKey = "nav:events:recent" // Capped list of the latest events, newest first
	snapshotKey    = "nav:snapshot"      // Latest full building state
	recentEventCap = 200
	snapshotTTL    = 24 * time.Hour
)

// EventRepository fans zone and door changes out through Redis.
type EventRepository struct {
	client *redis.Client
}

func NewEventRepository(client *redis.Client) *EventRepository {
	return &EventRepository{client: client}
}

// Publish stores ev in the recent list and announces it on the events channel.
func (r *EventRepository) Publish(ctx context.Context, ev *domain.ZoneEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, recentEventKey, data)
	pipe.LTrim(ctx, recentEventKey, 0, recentEventCap-1)
	pipe.Publish(ctx, eventChannel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// PublishSnapshot replaces the stored building snapshot and announces it.
func (r *EventRepository) PublishSnapshot(ctx context.Context, snapshot any) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	ev := domain.ZoneEvent{
		ID:      uuid.New().String(),
		Kind:    domain.EventSnapshot,
		Source:  domain.SourceSchedule,
		Payload: payload,
		At:      time.Now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, snapshotKey, payload, snapshotTTL)
	pipe.Publish(ctx, eventChannel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return nil
}

// Recent returns up to n events, newest first.
func (r *EventRepository) Recent(ctx context.Context, n int) ([]domain.ZoneEvent, error) {
	if n <= 0 || n > recentEventCap {
		n = recentEventCap
	}
	raw, err := r.client.LRange(ctx, recentEventKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	out := make([]domain.ZoneEvent, 0, len(raw))
	for _, s := range raw {
		var ev domain.ZoneEvent
		if err := json.Unmarshal([]byte(s), &ev); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// Subscribe returns a Pub/Sub handle on the events channel. Callers must Close it.
func (r *EventRepository) Subscribe(ctx context.Context) *redis.PubSub {
	return r.client.Subscribe(ctx, eventChannel)
}

func EventChannel() string { return eventChannel }
