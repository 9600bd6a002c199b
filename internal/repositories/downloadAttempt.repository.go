package repositories

import (
	"context"
	"errors"

	"annualreports/internal/database"
	"annualreports/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultAttemptLimit = 100

type DownloadAttemptRepository interface {
	Enabled() bool
	Create(ctx context.Context, attempt *models.DownloadAttempt) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*models.DownloadAttempt, error)
	ListByCompany(ctx context.Context, company string, limit int) ([]*models.DownloadAttempt, error)
	LatestRunID(ctx context.Context) (uuid.UUID, error)
}

type downloadAttemptRepository struct {
	db  database.DB
	log logger.Logger
}

func NewDownloadAttemptRepository(db database.DB) DownloadAttemptRepository {
	return &downloadAttemptRepository{
		db:  db,
		log: logger.New("downloadAttemptRepository"),
	}
}

func (r *downloadAttemptRepository) Enabled() bool {
	return r.db.SQL != nil
}

func (r *downloadAttemptRepository) Create(ctx context.Context, attempt *models.DownloadAttempt) error {
	log := r.log.Function("Create")
	if !r.Enabled() {
		return ErrLedgerDisabled
	}

	if err := r.db.SQLWithContext(ctx).Create(attempt).Error; err != nil {
		return log.Err("failed to record download attempt", err,
			"company", attempt.Company,
			"year", attempt.Year,
			"outcome", attempt.Outcome)
	}

	return nil
}

func (r *downloadAttemptRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]*models.DownloadAttempt, error) {
	log := r.log.Function("ListByRun")
	if !r.Enabled() {
		return nil, ErrLedgerDisabled
	}

	var attempts []*models.DownloadAttempt
	if err := r.db.SQLWithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&attempts).Error; err != nil {
		return nil, log.Err("failed to list attempts for run", err, "runID", runID)
	}

	return attempts, nil
}

func (r *downloadAttemptRepository) ListByCompany(ctx context.Context, company string, limit int) ([]*models.DownloadAttempt, error) {
	log := r.log.Function("ListByCompany")
	if !r.Enabled() {
		return nil, ErrLedgerDisabled
	}

	if limit <= 0 || limit > defaultAttemptLimit {
		limit = defaultAttemptLimit
	}

	var attempts []*models.DownloadAttempt
	if err := r.db.SQLWithContext(ctx).
		Where("company = ?", company).
		Order("created_at DESC").
		Limit(limit).
		Find(&attempts).Error; err != nil {
		return nil, log.Err("failed to list attempts for company", err, "company", company)
	}

	return attempts, nil
}

// LatestRunID returns uuid.Nil when no attempt has been recorded yet.
func (r *downloadAttemptRepository) LatestRunID(ctx context.Context) (uuid.UUID, error) {
	log := r.log.Function("LatestRunID")
	if !r.Enabled() {
		return uuid.Nil, ErrLedgerDisabled
	}

	var attempt models.DownloadAttempt
	err := r.db.SQLWithContext(ctx).
		Select("run_id").
		Order("created_at DESC").
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, log.Err("failed to find latest run", err)
	}

	return attempt.RunID, nil
}
