package rate

import (
	"context"
	"errors"
	"fxhistory/internal/backfill"
	"fxhistory/internal/domain"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRefreshInterval = time.Hour

// Backfiller runs one backfill over a date range.
type Backfiller interface {
	Run(ctx context.Context, start time.Time, end time.Time) (backfill.Report, error)
}

// Scheduler periodically backfills the current date, so every pair gets a rate for today.
type Scheduler struct {
	backfiller      Backfiller
	refreshInterval time.Duration
	now             func() time.Time
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.refreshInterval),
		gocron.NewTask(s.refreshToday),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) refreshToday(jobCtx context.Context) {
	execID := uuid.NewString()
	today := domain.Day(s.now())

	report, err := s.backfiller.Run(jobCtx, today, today)
	switch {
	case errors.Is(err, domain.ErrBackfillRunning):
		logrus.Infof("Backfill already in progress, skipping refresh; execID: %s", execID)
	case err != nil:
		logrus.Errorf("Refresh rates job %s failed: %v", execID, err)
	default:
		logrus.Infof("Refreshed rates for %s: %d stored, %d failed; execID: %s",
			today.Format(domain.DateLayout), report.Stored, report.Failed, execID)
	}
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func NewScheduler(backfiller Backfiller, refreshInterval time.Duration) *Scheduler {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	return &Scheduler{backfiller: backfiller, refreshInterval: refreshInterval, now: time.Now}
}
