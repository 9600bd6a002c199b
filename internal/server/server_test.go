package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"annualreports/config"
	"annualreports/internal/app"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AppliesSecurityHeaders(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.GeneralVersion = "1.2.3"

	a, err := app.NewWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv, err := New(a)
	require.NoError(t, err)

	resp, err := srv.FiberApp.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "AnnualReports/1.2.3", resp.Header.Get("Server"))
}

func TestListen_RejectsZeroPort(t *testing.T) {
	srv := &AppServer{log: logger.New("server")}
	assert.Error(t, srv.Listen(0))
}
