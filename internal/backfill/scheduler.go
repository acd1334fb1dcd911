package backfill

import (
	"context"
	"errors"
	"fmt"
	"fxhistory/internal/adapters"
	"fxhistory/internal/domain"
	"fxhistory/internal/metrics"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultConcurrency = 10
	defaultTaskTimeout = 30 * time.Second
)

// Report summarises one backfill run. Per-task failures are only counted here and logged.
type Report struct {
	RunID     string
	Scheduled int
	Stored    int
	Existing  int
	Failed    int
	NotIssued int
}

func (r *Report) add(outcome string) {
	switch outcome {
	case metrics.OutcomeSuccess:
		r.Stored++
	case metrics.OutcomeExists:
		r.Existing++
	default:
		r.Failed++
	}
}

// Scheduler fills the rate store for every ordered currency pair over a date range.
type Scheduler struct {
	currencies  adapters.CurrencyRepository
	store       adapters.RateStore
	resolver    adapters.RateResolver
	metrics     *metrics.Metrics
	concurrency int64
	taskTimeout time.Duration

	running atomic.Bool
}

// Run backfills [start, end] and returns once every issued task has finished.
// It refuses to start while another run of the same scheduler is in progress.
// When ctx ends no further tasks are issued; tasks already running are not interrupted.
func (s *Scheduler) Run(ctx context.Context, start time.Time, end time.Time) (Report, error) {
	if err := checkRange(start, end); err != nil {
		return Report{}, err
	}
	if !s.running.CompareAndSwap(false, true) {
		return Report{}, domain.ErrBackfillRunning
	}
	defer s.running.Store(false)

	return s.run(ctx, uuid.NewString(), start, end)
}

// Start launches a run in the background and returns its id.
func (s *Scheduler) Start(ctx context.Context, start time.Time, end time.Time) (string, error) {
	if err := checkRange(start, end); err != nil {
		return "", err
	}
	if !s.running.CompareAndSwap(false, true) {
		return "", domain.ErrBackfillRunning
	}

	runID := uuid.NewString()
	go func() {
		defer s.running.Store(false)
		if _, err := s.run(ctx, runID, start, end); err != nil {
			logrus.WithError(err).WithField("run_id", runID).Error("Backfill run failed")
		}
	}()
	return runID, nil
}

// Running reports whether a run is in progress.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) run(ctx context.Context, runID string, start time.Time, end time.Time) (Report, error) {
	began := time.Now()
	report := Report{RunID: runID}
	log := logrus.WithFields(logrus.Fields{
		"run_id": runID,
		"start":  start.Format(domain.DateLayout),
		"end":    end.Format(domain.DateLayout),
	})

	currencies, err := s.currencies.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load currencies: %w", err)
	}
	if len(currencies) == 0 {
		log.Info("No currencies found, nothing to backfill")
		return report, nil
	}

	tasks, failed, err := s.plan(ctx, runID, currencies, start, end)
	report.Failed += failed
	if err != nil {
		return report, err
	}
	report.Scheduled = len(tasks)
	log.Infof("%d backfill tasks scheduled", len(tasks))

	s.execute(ctx, runID, tasks, &report)

	s.metrics.RunDone(time.Since(began).Seconds())
	log.WithFields(logrus.Fields{
		"stored":     report.Stored,
		"existing":   report.Existing,
		"failed":     report.Failed,
		"not_issued": report.NotIssued,
	}).Info("Backfill run completed")
	return report, nil
}

// plan enumerates date × ordered pair and keeps the triples missing from the store.
func (s *Scheduler) plan(ctx context.Context, runID string, currencies []domain.Currency, start time.Time, end time.Time) ([]domain.Triple, int, error) {
	tasks := make([]domain.Triple, 0, len(currencies)*len(currencies))
	failed := 0
	for d := domain.Day(start); !d.After(domain.Day(end)); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return tasks, failed, fmt.Errorf("backfill planning interrupted: %w", err)
		}
		for _, source := range currencies {
			for _, target := range currencies {
				if source.Code == target.Code {
					continue
				}
				exists, err := s.store.Exists(ctx, source.Code, target.Code, d)
				if err != nil {
					// an unreadable triple is reported and left for the next run
					failed++
					s.metrics.TaskDone(metrics.OutcomeFailure)
					taskLog(runID, domain.Triple{Source: source.Code, Target: target.Code, Date: d}).
						WithError(err).Warn("Existence check failed, skipping")
					continue
				}
				if !exists {
					tasks = append(tasks, domain.Triple{Source: source.Code, Target: target.Code, Date: d})
				}
			}
		}
	}
	return tasks, failed, nil
}

// execute drives tasks through a counting permit and waits for all issued ones.
func (s *Scheduler) execute(ctx context.Context, runID string, tasks []domain.Triple, report *Report) {
	sem := semaphore.NewWeighted(s.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, task := range tasks {
		if ctx.Err() != nil || sem.Acquire(ctx, 1) != nil {
			mu.Lock()
			report.NotIssued = len(tasks) - i
			mu.Unlock()
			logrus.WithField("run_id", runID).Warnf("Backfill stopped issuing tasks, %d left unscheduled", len(tasks)-i)
			break
		}

		wg.Add(1)
		go func(task domain.Triple) {
			defer wg.Done()
			defer sem.Release(1)
			s.metrics.TaskStarted()
			defer s.metrics.TaskFinished()

			outcome := s.runTask(ctx, runID, task)
			s.metrics.TaskDone(outcome)
			mu.Lock()
			report.add(outcome)
			mu.Unlock()
		}(task)
	}

	wg.Wait()
}

// runTask resolves and stores one triple. It never returns an error: the outcome is logged.
func (s *Scheduler) runTask(ctx context.Context, runID string, task domain.Triple) (outcome string) {
	log := taskLog(runID, task)
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Backfill task panicked: %v", r)
			outcome = metrics.OutcomeFailure
		}
	}()

	// the run deadline stops issuing, it does not cut short a task in flight
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.taskTimeout)
	defer cancel()

	rate, err := s.resolver.Resolve(taskCtx, task.Source, task.Target, task.Date, "")
	if err != nil {
		log.WithError(err).Warn("Error fetching rate")
		return metrics.OutcomeFailure
	}

	if _, err = s.store.Insert(taskCtx, task.Source, task.Target, task.Date, rate); err != nil {
		if errors.Is(err, domain.ErrRateExists) {
			log.Info("Rate stored concurrently, discarding fetched value")
			return metrics.OutcomeExists
		}
		log.WithError(err).Warn("Error saving rate")
		return metrics.OutcomeFailure
	}

	log.Debugf("Saved rate %s", rate.StringFixed(domain.RateScale))
	return metrics.OutcomeSuccess
}

func taskLog(runID string, task domain.Triple) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"run_id": runID,
		"source": task.Source,
		"target": task.Target,
		"date":   task.Date.Format(domain.DateLayout),
	})
}

func checkRange(start time.Time, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidDateRange)
	}
	if domain.Day(end).Before(domain.Day(start)) {
		return fmt.Errorf("%w: start %s is after end %s", domain.ErrInvalidDateRange,
			start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}
	return nil
}

// ParseRange parses YYYY-MM-DD start and end dates of a backfill request.
func ParseRange(start string, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: please provide both start and end dates in YYYY-MM-DD format", domain.ErrInvalidDateRange)
	}
	startDate, err := domain.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start date %q, use YYYY-MM-DD", domain.ErrInvalidDateRange, start)
	}
	endDate, err := domain.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end date %q, use YYYY-MM-DD", domain.ErrInvalidDateRange, end)
	}
	if err = checkRange(startDate, endDate); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startDate, endDate, nil
}

func NewScheduler(currencies adapters.CurrencyRepository, store adapters.RateStore, resolver adapters.RateResolver, m *metrics.Metrics, concurrency int) *Scheduler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Scheduler{
		currencies:  currencies,
		store:       store,
		resolver:    resolver,
		metrics:     m,
		concurrency: int64(concurrency),
		taskTimeout: defaultTaskTimeout,
	}
}
