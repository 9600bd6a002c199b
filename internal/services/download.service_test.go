package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"annualreports/config"
	"annualreports/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeArchive answers Get from a URL-keyed table and counts requests.
type fakeArchive struct {
	responses map[string]*ArchiveResponse
	errs      map[string]error
	fallback  *ArchiveResponse
	requests  []string
	traceIDs  []string
	onGet     func(url string)
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{
		responses: map[string]*ArchiveResponse{},
		errs:      map[string]error{},
		fallback:  &ArchiveResponse{StatusCode: http.StatusNotFound},
	}
}

func (f *fakeArchive) Get(ctx context.Context, url string) (*ArchiveResponse, error) {
	f.requests = append(f.requests, url)
	f.traceIDs = append(f.traceIDs, logger.TraceIDFromContext(ctx))
	if f.onGet != nil {
		f.onGet(url)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if resp, ok := f.responses[url]; ok {
		return resp, nil
	}
	return f.fallback, nil
}

func pdfResponse(body string) *ArchiveResponse {
	return &ArchiveResponse{StatusCode: http.StatusOK, ContentType: "application/pdf", Body: []byte(body)}
}

func testTarget(dir string) models.DownloadTarget {
	return models.DownloadTarget{
		Company:  models.CompanyRecord{Name: "Apple", Ticker: "AAPL", Exchange: "NASDAQ"},
		Year:     2021,
		Slug:     "NASDAQ_AAPL",
		Filename: "NASDAQ_AAPL_2021.pdf",
		URL:      "https://archive.test/HostedData/AnnualReportArchive/a/NASDAQ_AAPL_2021.pdf",
		SavePath: filepath.Join(dir, "NASDAQ_AAPL_2021.pdf"),
	}
}

func partFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.part"))
	require.NoError(t, err)
	return matches
}

func TestDownloadService_Fetch(t *testing.T) {
	tests := []struct {
		name        string
		response    *ArchiveResponse
		err         error
		wantOutcome models.AttemptOutcome
		wantFile    bool
		wantErr     bool
	}{
		{
			name:        "pdf is saved",
			response:    pdfResponse("%PDF-1.7 annual report"),
			wantOutcome: models.AttemptOutcomeDownloaded,
			wantFile:    true,
		},
		{
			name:        "html page is rejected",
			response:    &ArchiveResponse{StatusCode: http.StatusOK, ContentType: "text/html", Body: []byte("<title>Oops</title>")},
			wantOutcome: models.AttemptOutcomeNotPDF,
			wantErr:     true,
		},
		{
			name:        "not found",
			response:    &ArchiveResponse{StatusCode: http.StatusNotFound},
			wantOutcome: models.AttemptOutcomeNotFound,
		},
		{
			name:        "rate limited",
			response:    &ArchiveResponse{StatusCode: http.StatusTooManyRequests},
			wantOutcome: models.AttemptOutcomeRateLimited,
		},
		{
			name:        "server error",
			response:    &ArchiveResponse{StatusCode: http.StatusServiceUnavailable},
			wantOutcome: models.AttemptOutcomeUnexpectedStatus,
			wantErr:     true,
		},
		{
			name:        "transport error",
			err:         errors.New("dial tcp: connection refused"),
			wantOutcome: models.AttemptOutcomeError,
			wantErr:     true,
		},
	}

	for _, mode := range []string{config.WriteModeAtomic, config.WriteModeDirect} {
		for _, tt := range tests {
			t.Run(mode+"/"+tt.name, func(t *testing.T) {
				dir := t.TempDir()
				target := testTarget(dir)

				archive := newFakeArchive()
				if tt.err != nil {
					archive.errs[target.URL] = tt.err
				} else {
					archive.responses[target.URL] = tt.response
				}

				cfg := config.Default()
				cfg.WriteMode = mode
				service := NewDownloadService(cfg, archive)

				result := service.Fetch(context.Background(), target)

				assert.Equal(t, tt.wantOutcome, result.Outcome)
				assert.Equal(t, tt.wantErr, result.Err != nil)
				assert.Equal(t, []string{target.URL}, archive.requests)

				content, readErr := os.ReadFile(target.SavePath)
				if tt.wantFile {
					require.NoError(t, readErr)
					assert.Equal(t, tt.response.Body, content)
					assert.Equal(t, int64(len(tt.response.Body)), result.Bytes)
				} else {
					assert.True(t, os.IsNotExist(readErr), "no file expected at %s", target.SavePath)
				}
				assert.Empty(t, partFiles(t, dir))
			})
		}
	}
}

func TestDownloadService_FetchNotPDFDetail(t *testing.T) {
	dir := t.TempDir()
	target := testTarget(dir)

	archive := newFakeArchive()
	archive.responses[target.URL] = &ArchiveResponse{
		StatusCode:  http.StatusOK,
		ContentType: "text/html",
		Body:        []byte("<html><head><title>Report Viewer</title></head></html>"),
	}

	result := NewDownloadService(config.Default(), archive).Fetch(context.Background(), target)

	assert.Equal(t, models.AttemptOutcomeNotPDF, result.Outcome)
	assert.Equal(t, "Report Viewer", result.Detail.PageTitle)
	assert.Equal(t, "text/html", result.Detail.ContentType)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestDownloadService_PersistFailure(t *testing.T) {
	dir := t.TempDir()
	target := testTarget(filepath.Join(dir, "missing-folder"))

	archive := newFakeArchive()
	archive.responses[target.URL] = pdfResponse("%PDF-1.4")

	for _, mode := range []string{config.WriteModeAtomic, config.WriteModeDirect} {
		t.Run(mode, func(t *testing.T) {
			cfg := config.Default()
			cfg.WriteMode = mode

			result := NewDownloadService(cfg, archive).Fetch(context.Background(), target)

			assert.Equal(t, models.AttemptOutcomeError, result.Outcome)
			assert.Error(t, result.Err)
		})
	}
}

func TestDownloadService_PersistOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	service := NewDownloadService(config.Default(), newFakeArchive())
	require.NoError(t, service.Persist(path, []byte("%PDF-new")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-new", string(content))
	assert.Empty(t, partFiles(t, dir))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestDownloadService_CheckExistingFile(t *testing.T) {
	dir := t.TempDir()
	service := NewDownloadService(config.Default(), newFakeArchive())

	exists, size, err := service.CheckExistingFile(filepath.Join(dir, "absent.pdf"))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Zero(t, size)

	path := filepath.Join(dir, "present.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1"), 0o644))

	exists, size, err = service.CheckExistingFile(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, int64(6), size)
}

func TestEnsureDirectory_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Apple")
	service := NewDownloadService(config.Default(), newFakeArchive())

	require.NoError(t, ensureDirectory(dir, service.log))
	require.NoError(t, ensureDirectory(dir, service.log))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
