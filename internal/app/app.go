package app

import (
	"context"

	"annualreports/config"
	"annualreports/internal/database"
	"annualreports/internal/handlers/middleware"
	"annualreports/internal/jobs"
	"annualreports/internal/repositories"
	"annualreports/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Config     config.Config
	Services   services.Service
	Repos      repositories.Repository
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(config)
}

// NewWithConfig wires the daemon. Optional stores stay disabled unless the
// config names them.
func NewWithConfig(config config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	repos := repositories.New(db)

	svc, err := services.New(db, config, repos)
	if err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to create services", err)
	}

	if err := jobs.RegisterAllJobs(svc.Scheduler, config, svc); err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:   db,
		Middleware: middleware.New(config),
		Config:     config,
		Services:   svc,
		Repos:      repos,
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	switch {
	case a.Services.Session == nil:
		return log.ErrMsg("browser session is nil")
	case a.Services.Sweep == nil:
		return log.ErrMsg("sweep service is nil")
	case a.Services.Scheduler == nil:
		return log.ErrMsg("scheduler service is nil")
	case a.Services.FileCleanup == nil:
		return log.ErrMsg("file cleanup service is nil")
	case a.Repos.DownloadAttempt == nil:
		return log.ErrMsg("download attempt repository is nil")
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
