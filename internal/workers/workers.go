package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/config"
	"fitChallengeAPI/internal/metrics"
)

const (
	BackfillJob = "backfill_sweep"
	ReminderJob = "progress_reminder"
)

// Sweeper reconstructs every participant's ledger.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Reminder pushes "log today" to participants who have not.
type Reminder interface {
	SendReminders(ctx context.Context) (int, error)
}

type Workers struct {
	scheduler gocron.Scheduler
	log       *zap.Logger
	timeout   time.Duration
}

func New(log *zap.Logger, sweeper Sweeper, reminder Reminder, backfillAt, reminderAt config.ClockTime) (*Workers, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	w := &Workers{
		scheduler: scheduler,
		log:       log,
		timeout:   10 * time.Minute,
	}

	if err := w.daily(BackfillJob, backfillAt, sweeper.Sweep); err != nil {
		return nil, err
	}
	if err := w.daily(ReminderJob, reminderAt, reminder.SendReminders); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *Workers) daily(name string, at config.ClockTime, fn func(context.Context) (int, error)) error {
	_, err := w.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(at.Hour, at.Minute, 0))),
		gocron.NewTask(func() { w.run(name, fn) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	w.log.Info("scheduled job", zap.String("job", name), zap.Stringer("at", at))
	return nil
}

func (w *Workers) run(name string, fn func(context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	n, err := fn(ctx)
	if err != nil {
		metrics.JobRuns.WithLabelValues(name, "failed").Inc()
		w.log.Error("job failed", zap.String("job", name), zap.Int("processed", n), zap.Error(err))
		return
	}

	metrics.JobRuns.WithLabelValues(name, "ok").Inc()
	w.log.Info("job finished",
		zap.String("job", name),
		zap.Int("processed", n),
		zap.Duration("took", time.Since(start)),
	)
}

func (w *Workers) Start() {
	w.scheduler.Start()
}

// RunNow triggers a scheduled job outside its slot.
func (w *Workers) RunNow(name string) error {
	for _, job := range w.scheduler.Jobs() {
		if job.Name() == name {
			return job.RunNow()
		}
	}
	return fmt.Errorf("no job named %s", name)
}

func (w *Workers) Shutdown() error {
	return w.scheduler.Shutdown()
}
