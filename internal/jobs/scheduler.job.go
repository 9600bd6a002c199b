package jobs

import (
	"annualreports/config"
	"annualreports/internal/constants"
	"annualreports/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	svc services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	schedule := services.ScheduleFromConfig(config.SweepSchedule)

	sweepJob := NewAnnualReportSweepJob(
		svc.Sweep,
		constants.Companies,
		schedule,
	)
	if err := schedulerService.AddJob(sweepJob); err != nil {
		return log.Err("failed to register annual report sweep job", err)
	}
	log.Info("Registered annual report sweep job", "schedule", schedule.String())

	fileCleanupJob := NewFileCleanupJob(
		svc.FileCleanup,
		schedule,
	)
	if err := schedulerService.AddJob(fileCleanupJob); err != nil {
		return log.Err("failed to register file cleanup job", err)
	}
	log.Info("Registered file cleanup job", "schedule", schedule.String())

	return nil
}
