// Package portal talks HTTP to the timekeeping portal.
package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/infra/metrics"
)

// DefaultHosts are the portal deployments, indexed by site id.
var DefaultHosts = []string{
	"https://www.4628.jp/",
	"https://www.e4628.jp/",
}

const (
	formContentType = "application/x-www-form-urlencoded; charset=UTF-8"
	maxPageSize     = 4 << 20
)

// SiteSelector reports which deployment the user belongs to.
type SiteSelector interface {
	SiteID(ctx context.Context) (int, error)
}

// Session keeps the portal cookies between requests.
type Session struct {
	client *http.Client
	hosts  []string
	sites  SiteSelector
	logger *logrus.Entry
}

func NewSession(hosts []string, sites SiteSelector, timeout time.Duration, logger *logrus.Entry) (*Session, error) {
	if len(hosts) == 0 {
		return nil, fmt.Errorf("no portal hosts configured")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Session{
		client: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: timeout,
				MaxIdleConns:          4,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		hosts:  hosts,
		sites:  sites,
		logger: logger,
	}, nil
}

// baseURL falls back to the first host for an unknown site id.
func (s *Session) baseURL(ctx context.Context) string {
	siteID, err := s.sites.SiteID(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read site id, using default host")
	}
	if siteID < 0 || siteID >= len(s.hosts) {
		siteID = 0
	}
	return s.hosts[siteID]
}

// Get fetches the portal root with query appended ("" for the top page).
func (s *Session) Get(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL(ctx)+query, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	return s.do(req)
}

// Post submits form to the portal root.
func (s *Session) Post(ctx context.Context, form map[string]string) (string, error) {
	values := url.Values{}
	for k, v := range form {
		values.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL(ctx), strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", formContentType)
	return s.do(req)
}

func (s *Session) do(req *http.Request) (string, error) {
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	log := s.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"query":  req.URL.RawQuery,
	})

	body, err := s.fetch(req)
	if err != nil {
		metrics.PortalRequests.WithLabelValues(req.Method, "error").Inc()
		log.WithError(err).Warn("Portal request failed")
		return "", fmt.Errorf("%w: %w", attendance.ErrTransport, err)
	}
	metrics.PortalRequests.WithLabelValues(req.Method, "ok").Inc()
	log.WithField("bytes", len(body)).Debug("Portal page received")
	return body, nil
}

func (s *Session) fetch(req *http.Request) (string, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	// pages are Shift_JIS or EUC-JP depending on the deployment
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(reader, maxPageSize+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxPageSize {
		return "", fmt.Errorf("page too large (exceeds %d bytes)", maxPageSize)
	}
	return string(data), nil
}
