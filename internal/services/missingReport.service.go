package services

import (
	"context"
	"time"

	"annualreports/internal/constants"
	"annualreports/internal/database"
	"annualreports/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MissingReportCache remembers targets the archive answered with 404 so later
// sweeps within the TTL can skip them without a request.
type MissingReportCache interface {
	IsKnownMissing(ctx context.Context, target models.DownloadTarget) (bool, error)
	MarkMissing(ctx context.Context, target models.DownloadTarget) error
}

type missingReportService struct {
	cache database.CacheClient
	ttl   time.Duration
	log   logger.Logger
}

// NewMissingReportService returns nil when no cache client is configured.
func NewMissingReportService(cache database.CacheClient, ttl time.Duration) MissingReportCache {
	if cache == nil || ttl <= 0 {
		return nil
	}

	return &missingReportService{
		cache: cache,
		ttl:   ttl,
		log:   logger.New("missingReportService"),
	}
}

func (s *missingReportService) builder(ctx context.Context, target models.DownloadTarget) *database.CacheBuilder {
	return database.NewCacheBuilder(s.cache, target.CacheKey()).
		WithHash(constants.MissingReportCachePrefix).
		WithContext(ctx).
		WithTimeout(constants.CacheOperationTimeout)
}

func (s *missingReportService) IsKnownMissing(ctx context.Context, target models.DownloadTarget) (bool, error) {
	log := s.log.Function("IsKnownMissing")

	found, err := s.builder(ctx, target).Exists()
	if err != nil {
		return false, log.Err("failed to check missing-report cache", err, "target", target.CacheKey())
	}

	return found, nil
}

func (s *missingReportService) MarkMissing(ctx context.Context, target models.DownloadTarget) error {
	log := s.log.Function("MarkMissing")

	err := s.builder(ctx, target).
		WithValue(constants.MissingReportCacheValue).
		WithTTL(s.ttl).
		Set()
	if err != nil {
		return log.Err("failed to mark report missing", err, "target", target.CacheKey())
	}

	log.Debug("Marked report missing", "target", target.CacheKey(), "ttl", s.ttl)
	return nil
}
