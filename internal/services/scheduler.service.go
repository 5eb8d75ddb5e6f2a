package services

import (
	"context"
	"errors"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

var ErrJobNotFound = errors.New("job not found")

type Schedule int

const (
	Hourly Schedule = iota
	Daily           // 02:00 UTC
)

// Job is a unit of scheduled work. Jobs should stay thin and delegate to
// services.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService() *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: gocron.NewScheduler(time.UTC),
		jobs:      make([]Job, 0),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *SchedulerService) executeJob(ctx context.Context, job Job, log logger.Logger) {
	done := log.Timer("Scheduled job")
	defer done()

	if err := job.Execute(ctx); err != nil {
		_ = log.Err("Job execution failed", err, "job", job.Name())
		return
	}

	log.Info("Job execution completed", "job", job.Name())
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	var err error
	switch job.Schedule() {
	case Daily:
		_, err = s.scheduler.Every(1).Day().At("02:00").Do(func() {
			s.executeJob(s.ctx, job, log)
		})
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(func() {
			s.executeJob(s.ctx, job, log)
		})
	default:
		return log.Error("unknown job schedule", "job", job.Name(), "schedule", job.Schedule())
	}

	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	log.Info("Job registered", "job", job.Name())

	return nil
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.TraceFromContext(ctx).Function("Start")

	if s.started {
		log.Info("Scheduler already started")
		return nil
	}

	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	s.scheduler.StartAsync()
	s.started = true

	for _, job := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "nextRun", job.NextRun())
	}

	log.Info("Scheduler started", "jobCount", len(s.jobs))
	return nil
}

func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.TraceFromContext(ctx).Function("Stop")

	if !s.started {
		return nil
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false

	log.Info("Scheduler stopped")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// TriggerJobByName runs a registered job immediately, outside its schedule.
func (s *SchedulerService) TriggerJobByName(ctx context.Context, jobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.TraceFromContext(ctx).Function("TriggerJobByName")

	for _, job := range s.jobs {
		if job.Name() == jobName {
			log.Info("Manually triggering job", "job", jobName)
			go s.executeJob(context.WithoutCancel(ctx), job, log)
			return nil
		}
	}

	return log.ErrorWithType(ErrJobNotFound, "job not registered", "job", jobName)
}
