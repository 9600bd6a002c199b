package jobs

import (
	"context"
	"time"

	"annualreports/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	StalePartCleanupJobName = "StalePartCleanup"
	stalePartMaxAge         = 24 * time.Hour
)

// PartFileCleaner is satisfied by services.FileCleanupService.
type PartFileCleaner interface {
	RemoveStaleParts(ctx context.Context, maxAge time.Duration) (int, error)
}

type FileCleanupJob struct {
	fileCleanup PartFileCleaner
	log         logger.Logger
	schedule    services.Schedule
}

func NewFileCleanupJob(
	fileCleanup PartFileCleaner,
	schedule services.Schedule,
) *FileCleanupJob {
	log := logger.New("fileCleanupJob")
	log.Info("Creating new file cleanup job", "schedule", schedule.String())

	return &FileCleanupJob{
		fileCleanup: fileCleanup,
		log:         log,
		schedule:    schedule,
	}
}

func (j *FileCleanupJob) Name() string {
	return StalePartCleanupJobName
}

func (j *FileCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting scheduled part file cleanup")

	removed, err := j.fileCleanup.RemoveStaleParts(ctx, stalePartMaxAge)
	if err != nil {
		return log.Err("scheduled cleanup failed", err)
	}

	log.Info("Scheduled part file cleanup completed", "removed", removed)
	return nil
}

func (j *FileCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
