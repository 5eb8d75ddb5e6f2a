package jobs

import (
	"context"

	"tastebuddin/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type boardWarmer interface {
	Warm(ctx context.Context) error
}

// LeaderboardRefreshJob clears and recomputes the default boards.
type LeaderboardRefreshJob struct {
	boards   boardWarmer
	log      logger.Logger
	schedule services.Schedule
}

func NewLeaderboardRefreshJob(boards boardWarmer, schedule services.Schedule) *LeaderboardRefreshJob {
	log := logger.New("leaderboardRefreshJob")
	log.Info("Creating leaderboard refresh job", "schedule", schedule)

	return &LeaderboardRefreshJob{
		boards:   boards,
		log:      log,
		schedule: schedule,
	}
}

func (j *LeaderboardRefreshJob) Name() string {
	return "LeaderboardRefresh"
}

func (j *LeaderboardRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if err := j.boards.Warm(ctx); err != nil {
		return log.Err("leaderboard refresh failed", err)
	}

	log.Info("Leaderboards refreshed")
	return nil
}

func (j *LeaderboardRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
