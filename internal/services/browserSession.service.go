package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"annualreports/config"

	logger "github.com/Bparsons0904/goLogger"
	"golang.org/x/net/publicsuffix"
)

// HTTPDoer is the only capability the fetch loop needs from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ArchiveResponse is a fully-read archive reply.
type ArchiveResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// BrowserSession sends every archive request with the same browser-like
// headers and cookie jar. It is created once per sweep and used serially.
type BrowserSession struct {
	client  HTTPDoer
	baseURL string
	headers http.Header
	log     logger.Logger
}

func NewBrowserSession(cfg config.Config) (*BrowserSession, error) {
	log := logger.New("browserSession").Function("NewBrowserSession")

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, log.Err("failed to create cookie jar", err)
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout(),
		Jar:     jar,
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			MaxIdleConns:    2,
			MaxConnsPerHost: 1,
		},
	}

	return NewBrowserSessionWithClient(cfg, httpClient), nil
}

// NewBrowserSessionWithClient lets callers supply any conforming client.
func NewBrowserSessionWithClient(cfg config.Config, client HTTPDoer) *BrowserSession {
	baseURL := strings.TrimRight(cfg.ArchiveBaseURL, "/")

	headers := http.Header{}
	headers.Set("User-Agent", cfg.UserAgent)
	headers.Set("Accept", "application/pdf,text/html;q=0.9,*/*;q=0.8")
	headers.Set("Accept-Language", "en-US,en;q=0.9")
	headers.Set("Referer", baseURL+"/")

	return &BrowserSession{
		client:  client,
		baseURL: baseURL,
		headers: headers,
		log:     logger.New("browserSession"),
	}
}

// Warm visits the archive home page once so the jar holds whatever cookies
// the site hands to a first-time visitor.
func (s *BrowserSession) Warm(ctx context.Context) error {
	log := s.log.Function("Warm")

	resp, err := s.Get(ctx, s.baseURL+"/")
	if err != nil {
		return log.Err("failed to warm browser session", err, "url", s.baseURL)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return log.Err("archive home page rejected warm-up",
			fmt.Errorf("status code: %d", resp.StatusCode),
			"url", s.baseURL)
	}

	log.Info("Browser session warmed", "url", s.baseURL, "statusCode", resp.StatusCode)
	return nil
}

// Get issues a GET and reads the whole body. Non-2xx statuses are returned as
// responses, not errors; only transport failures produce an error.
func (s *BrowserSession) Get(ctx context.Context, url string) (*ArchiveResponse, error) {
	log := s.log.Function("Get")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for key, values := range s.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &ArchiveResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
