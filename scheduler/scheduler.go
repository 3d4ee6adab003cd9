package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/phillip/sports-academy-go/logger"
	models "github.com/phillip/sports-academy-go/models"
)

const jobTimeout = 30 * time.Second

// Snapshotter appends a fresh dashboard snapshot.
type Snapshotter interface {
	ComputeSnapshot(ctx context.Context) (*models.Dashboard, error)
}

// Scheduler runs the periodic dashboard snapshot.
type Scheduler struct {
	cron *cron.Cron
	dash Snapshotter
}

// NewScheduler registers the snapshot job on spec, a standard five-field
// cron expression evaluated in UTC.
func NewScheduler(spec string, dash Snapshotter) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	s := &Scheduler{cron: c, dash: dash}
	if _, err := c.AddFunc(spec, s.TakeSnapshot); err != nil {
		return nil, fmt.Errorf("register dashboard snapshot job: %w", err)
	}
	logger.Info("dashboard snapshot job registered", "schedule", spec)
	return s, nil
}

// TakeSnapshot is the job body.
func (s *Scheduler) TakeSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	snapshot, err := s.dash.ComputeSnapshot(ctx)
	if err != nil {
		logger.Error("scheduled dashboard snapshot failed", "error", err)
		return
	}
	logger.Info("scheduled dashboard snapshot taken", "net_balance", snapshot.NetBalance)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
