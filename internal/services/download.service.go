package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"annualreports/config"
	"annualreports/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// ArchiveFetcher is satisfied by BrowserSession and by test doubles.
type ArchiveFetcher interface {
	Get(ctx context.Context, url string) (*ArchiveResponse, error)
}

type DownloadService struct {
	config  config.Config
	fetcher ArchiveFetcher
	log     logger.Logger
}

func NewDownloadService(cfg config.Config, fetcher ArchiveFetcher) *DownloadService {
	return &DownloadService{
		config:  cfg,
		fetcher: fetcher,
		log:     logger.New("downloadService"),
	}
}

// Fetch requests one target and classifies the reply. It never returns an
// error: every failure is folded into the result so the sweep can continue.
func (ds *DownloadService) Fetch(ctx context.Context, target models.DownloadTarget) models.AttemptResult {
	log := ds.log.TraceFromContext(ctx).Function("Fetch")
	result := models.AttemptResult{Target: target}

	resp, err := ds.fetcher.Get(ctx, target.URL)
	if err != nil {
		result.Outcome = models.AttemptOutcomeError
		result.Err = err
		log.Warn("Request failed", "company", target.Company.Name, "year", target.Year, "error", err)
		return result
	}
	result.StatusCode = resp.StatusCode

	switch resp.StatusCode {
	case http.StatusOK:
		if !IsPDF(resp.Body) {
			result.Outcome = models.AttemptOutcomeNotPDF
			result.Bytes = int64(len(resp.Body))
			result.Detail = DescribeNonPDF(resp.ContentType, resp.Body)
			result.Err = fmt.Errorf("response is not a PDF (%d bytes)", len(resp.Body))
			log.Warn("Content was not a PDF",
				"file", target.Filename,
				"contentType", resp.ContentType,
				"pageTitle", result.Detail.PageTitle,
				"size", len(resp.Body))
			return result
		}

		if err := ds.Persist(target.SavePath, resp.Body); err != nil {
			result.Outcome = models.AttemptOutcomeError
			result.Err = err
			return result
		}

		result.Outcome = models.AttemptOutcomeDownloaded
		result.Bytes = int64(len(resp.Body))
		result.Detail.ContentType = resp.ContentType
		log.Info("Downloaded report",
			"file", target.Filename,
			"sizeKB", len(resp.Body)/1024,
			"savePath", target.SavePath)

	case http.StatusNotFound:
		result.Outcome = models.AttemptOutcomeNotFound
		log.Info("Report not found", "company", target.Company.Name, "year", target.Year)

	case http.StatusTooManyRequests:
		result.Outcome = models.AttemptOutcomeRateLimited
		log.Warn("Rate limited", "company", target.Company.Name, "year", target.Year)

	default:
		result.Outcome = models.AttemptOutcomeUnexpectedStatus
		result.Err = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		log.Warn("Unexpected status from archive",
			"company", target.Company.Name,
			"year", target.Year,
			"statusCode", resp.StatusCode)
	}

	return result
}

// Persist writes body to path using the configured write mode.
func (ds *DownloadService) Persist(path string, body []byte) error {
	if ds.config.WriteMode == config.WriteModeDirect {
		return ds.writeDirect(path, body)
	}
	return ds.writeAtomic(path, body)
}

// writeDirect writes in place. An interrupted write leaves a truncated file
// that later runs treat as complete.
func (ds *DownloadService) writeDirect(path string, body []byte) error {
	log := ds.log.Function("writeDirect")

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return log.Err("failed to write report", err, "path", path)
	}
	return nil
}

// writeAtomic stages the body in a temp file beside path and renames it into
// place, so path only ever holds a complete document.
func (ds *DownloadService) writeAtomic(path string, body []byte) error {
	log := ds.log.Function("writeAtomic")

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.part")
	if err != nil {
		return log.Err("failed to create temp file", err, "path", path)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Warn("failed to remove temp file", "error", removeErr, "tmpPath", tmpPath)
		}
	}

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		cleanup()
		return log.Err("failed to write temp file", err, "tmpPath", tmpPath)
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return log.Err("failed to close temp file", err, "tmpPath", tmpPath)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		log.Warn("failed to set report permissions", "error", err, "tmpPath", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return log.Err("failed to move report into place", err, "tmpPath", tmpPath, "path", path)
	}

	return nil
}

// CheckExistingFile reports whether a report is already on disk. Presence is
// the only completion marker; contents are not inspected.
func (ds *DownloadService) CheckExistingFile(filePath string) (exists bool, size int64, err error) {
	log := ds.log.Function("CheckExistingFile")

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, log.Err("failed to stat file", err, "filePath", filePath)
	}

	return true, info.Size(), nil
}

// ensureDirectory creates directory if it doesn't exist
func ensureDirectory(dir string, log logger.Logger) error {
	log = log.Function("ensureDirectory")

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return log.Err("failed to create directory", err, "directory", dir)
		}
		log.Info("Created report directory", "directory", dir)
	}
	return nil
}
