package services

import (
	"annualreports/config"
	"annualreports/internal/database"
	"annualreports/internal/repositories"
)

type Service struct {
	Session     *BrowserSession
	Sweep       *SweepService
	Scheduler   *SchedulerService
	FileCleanup *FileCleanupService
}

func New(db database.DB, config config.Config, repos repositories.Repository) (Service, error) {
	session, err := NewBrowserSession(config)
	if err != nil {
		return Service{}, err
	}

	sweepService := NewSweepService(config, session, NewRetryPolicy(config))
	if repos.DownloadAttempt != nil && repos.DownloadAttempt.Enabled() {
		sweepService.WithRecorder(repos.DownloadAttempt)
	}
	if missing := NewMissingReportService(db.Cache.Archive, config.MissingCacheTTL()); missing != nil {
		sweepService.WithMissingCache(missing)
	}

	return Service{
		Session:     session,
		Sweep:       sweepService,
		Scheduler:   NewSchedulerService(),
		FileCleanup: NewFileCleanupService(config),
	}, nil
}
