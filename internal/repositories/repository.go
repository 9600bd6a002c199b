package repositories

import (
	"errors"

	"annualreports/internal/database"
)

// ErrLedgerDisabled is returned by ledger reads and writes when no database is configured.
var ErrLedgerDisabled = errors.New("attempt ledger is disabled")

type Repository struct {
	DownloadAttempt DownloadAttemptRepository
}

func New(db database.DB) Repository {
	return Repository{
		DownloadAttempt: NewDownloadAttemptRepository(db),
	}
}
