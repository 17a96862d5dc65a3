package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dailyyoga/syndict/logger"
	"go.uber.org/zap"
)

// HTTPConfig is the configuration for an HTTP-backed source
type HTTPConfig struct {
	// URL of the dictionary file, served with a Last-Modified header
	URL string `mapstructure:"url"`
}

// Validate validates the configuration for the HTTP source
func (c *HTTPConfig) Validate() error {
	if c == nil {
		return ErrInvalidConfig("http config is required")
	}
	if c.URL == "" {
		return ErrInvalidConfig("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return ErrInvalidConfig(fmt.Sprintf("url %q is not valid: %v", c.URL, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidConfig(fmt.Sprintf("url scheme %q must be http or https", u.Scheme))
	}
	return nil
}

type httpSource struct {
	logger logger.Logger
	client *http.Client
	config *HTTPConfig
}

// NewHTTP creates a source that reads a dictionary file over HTTP.
// The version probe issues a HEAD request and uses the Last-Modified
// header as the version token. A nil client falls back to
// http.DefaultClient; deadlines are governed by the caller's context.
func NewHTTP(log logger.Logger, client *http.Client, cfg *HTTPConfig) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &httpSource{
		logger: log,
		client: client,
		config: cfg,
	}, nil
}

func (s *httpSource) Version(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.config.URL, nil)
	if err != nil {
		return 0, Protocol(err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, Unavailable(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return 0, err
	}

	lastModified := resp.Header.Get("Last-Modified")
	if lastModified == "" {
		return 0, Protocol(fmt.Errorf("response carries no Last-Modified header"))
	}
	t, err := http.ParseTime(lastModified)
	if err != nil {
		return 0, Protocol(fmt.Errorf("malformed Last-Modified header %q: %w", lastModified, err))
	}
	return t.Unix(), nil
}

func (s *httpSource) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
	if err != nil {
		return nil, Protocol(err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, Unavailable(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Unavailable(err)
	}

	rules := splitLines(body)
	s.logger.Debug("fetched rules over http", zap.Int("count", len(rules)))
	return rules, nil
}

// checkStatus maps HTTP status codes into the source taxonomy
// Server-side failures count as unavailability, everything else
// non-200 as a contract violation
func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 500:
		return Unavailable(fmt.Errorf("server replied %d", code))
	default:
		return Protocol(fmt.Errorf("server replied %d", code))
	}
}
