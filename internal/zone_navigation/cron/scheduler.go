package cronjob

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/service"
)

// DefaultSnapshotSpec publishes the building state every 30 seconds.
const DefaultSnapshotSpec = "@every 30s"

// SnapshotPublisher is the part of the navigation service the scheduler drives.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context) error
}

type Scheduler struct {
	publisher SnapshotPublisher
	spec      string
	timeout   time.Duration
	cron      *cron.Cron
}

func NewScheduler(publisher SnapshotPublisher, spec string) *Scheduler {
	if spec == "" {
		spec = DefaultSnapshotSpec
	}
	return &Scheduler{
		publisher: publisher,
		spec:      spec,
		timeout:   5 * time.Second,
		cron:      cron.New(cron.WithSeconds()),
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		log.Printf("[cron] failed to create snapshot job: %v", err)
		return err
	}
	s.cron.Start()
	log.Printf("[cron] snapshot scheduler started (%s)", s.spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce publishes a single snapshot.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.publisher.PublishSnapshot(ctx)
	switch {
	case errors.Is(err, service.ErrFeatureDisabled):
		// no event feed configured
	case err != nil:
		log.Printf("[cron] snapshot publish failed: %v", err)
	}
}
