package app

import (
	"context"

	"tastebuddin/config"
	"tastebuddin/internal/controllers"
	"tastebuddin/internal/database"
	"tastebuddin/internal/events"
	"tastebuddin/internal/feed"
	"tastebuddin/internal/handlers/middleware"
	"tastebuddin/internal/jobs"
	"tastebuddin/internal/repositories"
	"tastebuddin/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	EventBus    *events.EventBus
	Config      config.Config
	Engine      *feed.Engine
	Repos       repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	canon, err := config.Canonicalizer()
	if err != nil {
		return &App{}, log.Err("failed to load allergen synonyms", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)
	engine := feed.New(canon)

	repos := repositories.New(db)
	service := services.New(db, config, repos)

	if err := service.CacheInvalidation.Listen(eventBus); err != nil {
		return &App{}, log.Err("failed to subscribe cache invalidation", err)
	}

	if err := jobs.RegisterAllJobs(service.Scheduler, config, service); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	if config.SchedulerEnabled {
		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware.New(config),
		EventBus:    eventBus,
		Engine:      engine,
		Repos:       repos,
		Services:    service,
		Controllers: controllers.New(service, repos, eventBus, engine, config, db),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Engine,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Leaderboard,
		a.Services.CacheInvalidation,
		a.Repos.Recipe,
		a.Repos.User,
		a.Repos.Leaderboard,
		a.Controllers.Feed,
		a.Controllers.Recipes,
		a.Controllers.Users,
		a.Controllers.Leaderboard,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil && a.Services.Scheduler.IsRunning() {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
