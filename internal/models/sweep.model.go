package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AttemptResult is what fetching a single target produced.
type AttemptResult struct {
	Target     DownloadTarget
	Outcome    AttemptOutcome
	StatusCode int
	Bytes      int64
	Detail     AttemptDetail
	Err        error
}

// ToAttempt converts the result into a ledger row for the given run.
func (r AttemptResult) ToAttempt(runID uuid.UUID) *DownloadAttempt {
	attempt := &DownloadAttempt{
		RunID:      runID,
		Company:    r.Target.Company.Name,
		Slug:       r.Target.Slug,
		Year:       r.Target.Year,
		URL:        r.Target.URL,
		Outcome:    r.Outcome,
		StatusCode: r.StatusCode,
		Bytes:      r.Bytes,
		Detail:     datatypes.NewJSONType(r.Detail),
	}
	if r.Err != nil {
		msg := r.Err.Error()
		attempt.ErrorMessage = &msg
	}
	return attempt
}

// SweepSummary aggregates the outcomes of one full company x year pass.
type SweepSummary struct {
	RunID            uuid.UUID              `json:"runId"`
	StartedAt        time.Time              `json:"startedAt"`
	FinishedAt       time.Time              `json:"finishedAt"`
	Companies        int                    `json:"companies"`
	SkippedCompanies []string               `json:"skippedCompanies"`
	Counts           map[AttemptOutcome]int `json:"counts"`
	BytesWritten     int64                  `json:"bytesWritten"`
	Cancelled        bool                   `json:"cancelled"`
}

func NewSweepSummary(runID uuid.UUID, startedAt time.Time) *SweepSummary {
	return &SweepSummary{
		RunID:            runID,
		StartedAt:        startedAt,
		SkippedCompanies: []string{},
		Counts:           make(map[AttemptOutcome]int, len(AttemptOutcomes)),
	}
}

func (s *SweepSummary) Add(result AttemptResult) {
	s.Counts[result.Outcome]++
	if result.Outcome == AttemptOutcomeDownloaded {
		s.BytesWritten += result.Bytes
	}
}

// Requests counts the attempts that reached the archive.
func (s *SweepSummary) Requests() int {
	total := 0
	for outcome, count := range s.Counts {
		if outcome.Requested() {
			total += count
		}
	}
	return total
}

func (s *SweepSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
