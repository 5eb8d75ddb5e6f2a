package jobs

import (
	"tastebuddin/config"
	"tastebuddin/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	service services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	refreshJob := NewLeaderboardRefreshJob(service.Leaderboard, Hourly)
	if err := schedulerService.AddJob(refreshJob); err != nil {
		return log.Err("failed to register leaderboard refresh job", err)
	}
	log.Info("Registered leaderboard refresh job", "schedule", "hourly")

	return nil
}
