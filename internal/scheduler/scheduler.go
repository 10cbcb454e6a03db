package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Job interface {
	Run(ctx context.Context) error
}

// Scheduler fires the auto-order job on two independent policies: every
// hour, and once daily at a fixed time. Both triggers push into a shared
// queue drained by a single worker, so overlapping fires serialize
// instead of running the job twice; a fire arriving while the queue is
// already full is dropped.
type Scheduler struct {
	cron   *cron.Cron
	job    Job
	logger *zap.Logger

	queue chan string
	done  chan struct{}
}

func New(job Job, dailySpec string, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		job:    job,
		logger: logger,
		queue:  make(chan string, 1),
		done:   make(chan struct{}),
	}

	if _, err := s.cron.AddFunc("@every 1h", func() { s.enqueue("hourly") }); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(dailySpec, func() { s.enqueue("daily") }); err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the worker and the cron entries.
func (s *Scheduler) Start(ctx context.Context) {
	go s.work(ctx)
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop halts the cron entries and waits for the worker to drain.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	close(s.queue)
	<-s.done
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) enqueue(trigger string) {
	select {
	case s.queue <- trigger:
	default:
		s.logger.Warn("auto-order trigger dropped, queue full", zap.String("trigger", trigger))
	}
}

func (s *Scheduler) work(ctx context.Context) {
	defer close(s.done)
	for trigger := range s.queue {
		s.logger.Info("auto-order triggered", zap.String("trigger", trigger))
		if err := s.job.Run(ctx); err != nil {
			s.logger.Warn("auto-order run rejected", zap.String("trigger", trigger), zap.Error(err))
		}
	}
}
