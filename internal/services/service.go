package services

import (
	"tastebuddin/config"
	"tastebuddin/internal/database"
	"tastebuddin/internal/leaderboard"
	"tastebuddin/internal/repositories"
)

type Service struct {
	Transaction       *TransactionService
	Scheduler         *SchedulerService
	Leaderboard       *LeaderboardService
	CacheInvalidation *CacheInvalidationService
}

func New(db database.DB, config config.Config, repos repositories.Repository) Service {
	leaderboardService := NewLeaderboardService(
		db.SQL,
		repos,
		leaderboard.New(),
		config.LeaderboardTTL(),
		config.LeaderboardLimit,
	)

	return Service{
		Transaction:       NewTransactionService(db.SQL),
		Scheduler:         NewSchedulerService(),
		Leaderboard:       leaderboardService,
		CacheInvalidation: NewCacheInvalidationService(leaderboardService),
	}
}
