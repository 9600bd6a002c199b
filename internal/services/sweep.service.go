package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"annualreports/config"
	"annualreports/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var ErrSweepInProgress = errors.New("a sweep is already running")

// AttemptRecorder persists attempt rows. The ledger repository satisfies it.
type AttemptRecorder interface {
	Create(ctx context.Context, attempt *models.DownloadAttempt) error
}

type sessionWarmer interface {
	Warm(ctx context.Context) error
}

// SweepService walks every company and year in order, one request at a time.
type SweepService struct {
	config   config.Config
	resolver *SlugResolver
	fetcher  ArchiveFetcher
	download *DownloadService
	policy   *RetryPolicy
	recorder AttemptRecorder
	missing  MissingReportCache
	log      logger.Logger

	running atomic.Bool
	mu      sync.RWMutex
	last    *models.SweepSummary
}

func NewSweepService(cfg config.Config, fetcher ArchiveFetcher, policy *RetryPolicy) *SweepService {
	return &SweepService{
		config:   cfg,
		resolver: NewSlugResolver(),
		fetcher:  fetcher,
		download: NewDownloadService(cfg, fetcher),
		policy:   policy,
		log:      logger.New("sweepService"),
	}
}

func (s *SweepService) WithResolver(resolver *SlugResolver) *SweepService {
	s.resolver = resolver
	return s
}

// WithRecorder enables the attempt ledger; nil disables it.
func (s *SweepService) WithRecorder(recorder AttemptRecorder) *SweepService {
	s.recorder = recorder
	return s
}

// WithMissingCache enables skipping of known 404s; nil disables it.
func (s *SweepService) WithMissingCache(cache MissingReportCache) *SweepService {
	s.missing = cache
	return s
}

// Running reports whether a sweep is in progress.
func (s *SweepService) Running() bool {
	return s.running.Load()
}

// LastSummary returns the summary of the most recent finished run, or nil.
func (s *SweepService) LastSummary() *models.SweepSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *SweepService) setLastSummary(summary *models.SweepSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = summary
}

// Plan resolves every target a sweep would visit without touching the network
// or the filesystem. Companies without a usable slug are returned by name.
func (s *SweepService) Plan(companies []models.CompanyRecord) ([]models.DownloadTarget, []string) {
	log := s.log.Function("Plan")

	var targets []models.DownloadTarget
	skipped := []string{}
	for _, company := range companies {
		slug, ok := s.resolver.Resolve(company)
		if !ok {
			skipped = append(skipped, company.Name)
			continue
		}

		letter, err := PathLetter(slug)
		if err != nil {
			log.Er("cannot derive archive folder", err, "company", company.Name, "slug", slug)
			skipped = append(skipped, company.Name)
			continue
		}

		for year := s.config.YearStart; year <= s.config.YearEnd; year++ {
			targets = append(targets, s.buildTarget(company, slug, letter, year))
		}
	}

	return targets, skipped
}

func (s *SweepService) buildTarget(company models.CompanyRecord, slug, letter string, year int) models.DownloadTarget {
	filename := ReportFilename(slug, year)
	return models.DownloadTarget{
		Company:  company,
		Year:     year,
		Slug:     slug,
		Filename: filename,
		URL:      ArchiveURL(s.config.ArchiveBaseURL, letter, filename),
		SavePath: filepath.Join(s.config.OutputDir, company.Name, filename),
	}
}

// Run performs one full sweep. Individual target failures never stop it; only
// context cancellation does, in which case the partial summary is returned
// together with the context error.
func (s *SweepService) Run(ctx context.Context, companies []models.CompanyRecord) (*models.SweepSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSweepInProgress
	}
	defer s.running.Store(false)

	runID := uuid.New()
	ctx = logger.ContextWithTraceID(ctx, runID.String())
	log := s.log.TraceFromContext(ctx).Function("Run")

	summary := models.NewSweepSummary(runID, time.Now().UTC())
	summary.Companies = len(companies)

	log.Info("Starting sweep",
		"runID", runID,
		"companies", len(companies),
		"years", fmt.Sprintf("%d-%d", s.config.YearStart, s.config.YearEnd),
		"outputDir", s.config.OutputDir,
		"writeMode", s.config.WriteMode)

	if err := ensureDirectory(s.config.OutputDir, s.log); err != nil {
		log.Er("output directory unavailable", err, "outputDir", s.config.OutputDir)
	}

	if warmer, ok := s.fetcher.(sessionWarmer); ok && ctx.Err() == nil {
		if err := warmer.Warm(ctx); err != nil {
			log.Warn("Session warm-up failed, continuing without cookies", "error", err)
		}
	}

	err := s.sweep(ctx, companies, summary)

	summary.FinishedAt = time.Now().UTC()
	summary.Cancelled = err != nil
	s.setLastSummary(summary)
	s.logSummary(ctx, summary)

	if err != nil {
		return summary, fmt.Errorf("sweep %s stopped early: %w", runID, err)
	}
	return summary, nil
}

func (s *SweepService) sweep(ctx context.Context, companies []models.CompanyRecord, summary *models.SweepSummary) error {
	log := s.log.TraceFromContext(ctx).Function("sweep")

	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			return err
		}

		slug, ok := s.resolver.Resolve(company)
		if !ok {
			log.Info("Skipping company without archive slug", "company", company.Name)
			summary.SkippedCompanies = append(summary.SkippedCompanies, company.Name)
			continue
		}

		letter, err := PathLetter(slug)
		if err != nil {
			log.Er("Skipping company, cannot derive archive folder", err, "company", company.Name, "slug", slug)
			summary.SkippedCompanies = append(summary.SkippedCompanies, company.Name)
			continue
		}

		companyDir := filepath.Join(s.config.OutputDir, company.Name)
		if err := ensureDirectory(companyDir, s.log); err != nil {
			log.Er("Skipping company, folder unavailable", err, "company", company.Name)
			summary.SkippedCompanies = append(summary.SkippedCompanies, company.Name)
			continue
		}

		log.Info("Processing company", "company", company.Name, "slug", slug)

		for year := s.config.YearStart; year <= s.config.YearEnd; year++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			target := s.buildTarget(company, slug, letter, year)
			result, err := s.visit(ctx, target)
			if result.Outcome != "" {
				summary.Add(result)
				s.record(ctx, summary.RunID, result)
			}
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// visit handles one target. The returned error is only ever a context error;
// a zero Outcome means the target was abandoned before a request was made.
func (s *SweepService) visit(ctx context.Context, target models.DownloadTarget) (models.AttemptResult, error) {
	log := s.log.TraceFromContext(ctx).Function("visit")
	result := models.AttemptResult{Target: target}

	exists, size, err := s.download.CheckExistingFile(target.SavePath)
	if err != nil {
		result.Outcome = models.AttemptOutcomeLocalError
		result.Err = err
		return result, nil
	}
	if exists {
		log.Info("Report already on disk, skipping", "file", target.Filename, "size", size)
		result.Outcome = models.AttemptOutcomeSkippedExisting
		result.Bytes = size
		return result, nil
	}

	if s.missing != nil {
		known, err := s.missing.IsKnownMissing(ctx, target)
		if err == nil && known {
			log.Debug("Report known to be missing, skipping", "file", target.Filename)
			result.Outcome = models.AttemptOutcomeSkippedKnownMissing
			return result, nil
		}
	}

	if _, err := s.policy.Throttle(ctx); err != nil {
		return models.AttemptResult{}, err
	}

	log.Info("Requesting report", "company", target.Company.Name, "year", target.Year, "url", target.URL)
	result = s.download.Fetch(ctx, target)

	if result.Outcome == models.AttemptOutcomeNotFound && s.missing != nil {
		_ = s.missing.MarkMissing(ctx, target)
	}

	return result, s.policy.AfterResult(ctx, result.Outcome)
}

func (s *SweepService) record(ctx context.Context, runID uuid.UUID, result models.AttemptResult) {
	if s.recorder == nil {
		return
	}

	if err := s.recorder.Create(context.WithoutCancel(ctx), result.ToAttempt(runID)); err != nil {
		s.log.TraceFromContext(ctx).Function("record").Warn("Failed to record attempt",
			"target", result.Target.String(),
			"outcome", result.Outcome,
			"error", err)
	}
}

func (s *SweepService) logSummary(ctx context.Context, summary *models.SweepSummary) {
	log := s.log.TraceFromContext(ctx).Function("logSummary")

	counts := make([]any, 0, len(models.AttemptOutcomes)*2)
	for _, outcome := range models.AttemptOutcomes {
		counts = append(counts, string(outcome), summary.Counts[outcome])
	}

	log.Info("Sweep finished",
		append([]any{
			"runID", summary.RunID,
			"duration", summary.Duration().Round(time.Second),
			"requests", summary.Requests(),
			"bytesWritten", summary.BytesWritten,
			"skippedCompanies", summary.SkippedCompanies,
			"cancelled", summary.Cancelled,
		}, counts...)...)
}
