package jobs

import (
	"context"
	"errors"

	"annualreports/internal/models"
	"annualreports/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const AnnualReportSweepJobName = "AnnualReportSweep"

// SweepRunner is satisfied by services.SweepService.
type SweepRunner interface {
	Run(ctx context.Context, companies []models.CompanyRecord) (*models.SweepSummary, error)
}

type AnnualReportSweepJob struct {
	sweep     SweepRunner
	companies func() []models.CompanyRecord
	log       logger.Logger
	schedule  services.Schedule
}

func NewAnnualReportSweepJob(
	sweep SweepRunner,
	companies func() []models.CompanyRecord,
	schedule services.Schedule,
) *AnnualReportSweepJob {
	log := logger.New("annualReportSweepJob")
	log.Info("Creating new annual report sweep job", "schedule", schedule.String())

	return &AnnualReportSweepJob{
		sweep:     sweep,
		companies: companies,
		log:       log,
		schedule:  schedule,
	}
}

func (j *AnnualReportSweepJob) Name() string {
	return AnnualReportSweepJobName
}

func (j *AnnualReportSweepJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting scheduled annual report sweep")

	summary, err := j.sweep.Run(ctx, j.companies())
	if errors.Is(err, services.ErrSweepInProgress) {
		log.Info("Previous sweep still running, skipping this run")
		return nil
	}
	if err != nil {
		return log.Err("annual report sweep stopped early", err)
	}

	log.Info("Scheduled annual report sweep completed",
		"runID", summary.RunID,
		"downloaded", summary.Counts[models.AttemptOutcomeDownloaded],
		"requests", summary.Requests())
	return nil
}

func (j *AnnualReportSweepJob) Schedule() services.Schedule {
	return j.schedule
}
