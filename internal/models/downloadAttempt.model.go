package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AttemptOutcome string

const (
	AttemptOutcomeDownloaded          AttemptOutcome = "downloaded"
	AttemptOutcomeSkippedExisting     AttemptOutcome = "skipped_existing"
	AttemptOutcomeSkippedKnownMissing AttemptOutcome = "skipped_known_missing"
	AttemptOutcomeNotFound            AttemptOutcome = "not_found"
	AttemptOutcomeRateLimited         AttemptOutcome = "rate_limited"
	AttemptOutcomeNotPDF              AttemptOutcome = "not_pdf"
	AttemptOutcomeUnexpectedStatus    AttemptOutcome = "unexpected_status"
	AttemptOutcomeError               AttemptOutcome = "error"
	AttemptOutcomeLocalError          AttemptOutcome = "local_error"
)

// AttemptOutcomes lists every outcome in the order summaries report them.
var AttemptOutcomes = []AttemptOutcome{
	AttemptOutcomeDownloaded,
	AttemptOutcomeSkippedExisting,
	AttemptOutcomeSkippedKnownMissing,
	AttemptOutcomeNotFound,
	AttemptOutcomeRateLimited,
	AttemptOutcomeNotPDF,
	AttemptOutcomeUnexpectedStatus,
	AttemptOutcomeError,
	AttemptOutcomeLocalError,
}

// Requested reports whether the outcome involved a request to the archive.
// AttemptOutcomeLocalError is a failure on disk before any request was sent.
func (o AttemptOutcome) Requested() bool {
	switch o {
	case AttemptOutcomeSkippedExisting, AttemptOutcomeSkippedKnownMissing, AttemptOutcomeLocalError:
		return false
	default:
		return true
	}
}

// AttemptDetail is the diagnostic payload stored alongside a ledger row.
type AttemptDetail struct {
	ContentType string `json:"contentType,omitempty"`
	PageTitle   string `json:"pageTitle,omitempty"`
	BodySize    int    `json:"bodySize,omitempty"`
}

// DownloadAttempt is the ledger row written for every target a sweep visits.
type DownloadAttempt struct {
	BaseUUIDModel
	RunID        uuid.UUID                         `gorm:"type:uuid;index;not null" json:"runId"`
	Company      string                            `gorm:"index;not null"           json:"company"`
	Slug         string                            `gorm:"not null"                 json:"slug"`
	Year         int                               `gorm:"not null"                 json:"year"`
	URL          string                            `                                json:"url"`
	Outcome      AttemptOutcome                    `gorm:"index;not null"           json:"outcome"`
	StatusCode   int                               `                                json:"statusCode"`
	Bytes        int64                             `                                json:"bytes"`
	Detail       datatypes.JSONType[AttemptDetail] `                                json:"detail"`
	ErrorMessage *string                           `                                json:"errorMessage,omitempty"`
}

func (DownloadAttempt) TableName() string {
	return "download_attempts"
}
