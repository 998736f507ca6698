package rate

import (
	"context"
	"fxsync/internal/domain"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

type SyncRunner interface {
	Run(ctx context.Context, mode domain.SyncMode) (domain.BatchSummary, error)
}

// Scheduler runs the current and historical syncs on cron schedules. Only one
// sync runs at a time; a sync still running when its next tick comes is rescheduled.
type Scheduler struct {
	runner         SyncRunner
	currentCron    string
	historicalCron string
	location       *time.Location
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(s.location),
		gocron.WithLimitConcurrentJobs(1, gocron.LimitModeWait),
	)
	if err != nil {
		return err
	}

	jobs := []struct {
		mode domain.SyncMode
		cron string
	}{
		{mode: domain.ModeCurrent, cron: s.currentCron},
		{mode: domain.ModeHistorical, cron: s.historicalCron},
	}
	for _, j := range jobs {
		mode := j.mode
		task := func(jobCtx context.Context) {
			if _, runErr := s.runner.Run(jobCtx, mode); runErr != nil {
				logrus.Errorf("Scheduled %s sync failed: %v", mode, runErr)
			}
		}
		_, err = scheduler.NewJob(
			gocron.CronJob(j.cron, false),
			gocron.NewTask(task),
			gocron.WithName(string(mode)+"-sync"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = scheduler.Shutdown()
			return err
		}
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

func NewScheduler(runner SyncRunner, currentCron, historicalCron string, location *time.Location) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{runner: runner, currentCron: currentCron, historicalCron: historicalCron, location: location}
}
