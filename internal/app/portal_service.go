package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/domain/credential"
	"time_recorder_bot/internal/infra/metrics"
)

// PortalSession performs requests against the portal and returns page HTML.
// Get sends the query string relative to the portal root; Post sends an
// url-encoded form to the root.
type PortalSession interface {
	Get(ctx context.Context, query string) (string, error)
	Post(ctx context.Context, form map[string]string) (string, error)
}

// PortalService handles login and the authenticated pages.
type PortalService struct {
	session PortalSession
	parser  attendance.Parser
	creds   credential.Store
	prefs   *Preferences
	logger  *logrus.Entry
}

func NewPortalService(
	session PortalSession,
	parser attendance.Parser,
	creds credential.Store,
	prefs *Preferences,
	logger *logrus.Entry,
) *PortalService {
	return &PortalService{
		session: session,
		parser:  parser,
		creds:   creds,
		prefs:   prefs,
		logger:  logger,
	}
}

// MyTop returns the authorized top page, logging in when the session is gone.
func (p *PortalService) MyTop(ctx context.Context) (string, error) {
	html, err := p.session.Get(ctx, "")
	if err != nil {
		return "", err
	}
	if p.parser.Scrape(html, "").Authorized {
		return html, nil
	}
	p.logger.Debug("Top page is not authorized, logging in")
	return p.Login(ctx)
}

// Login posts the credentials. A session-timeout page is retried once.
func (p *PortalService) Login(ctx context.Context) (string, error) {
	return p.login(ctx, false)
}

func (p *PortalService) login(ctx context.Context, isRetry bool) (string, error) {
	cred, err := p.creds.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}
	if !cred.Valid() {
		return "", attendance.ErrCredentialsMissing
	}

	html, err := p.session.Post(ctx, map[string]string{
		"module":      "login",
		"y_companycd": cred.AccountID,
		"y_logincd":   cred.UserID,
		"password":    cred.Password,
	})
	if err != nil {
		return "", err
	}

	status := p.parser.Scrape(html, "")
	if status.Authorized {
		if err := p.prefs.UpdateMenuList(ctx, status.Menus); err != nil {
			p.logger.WithError(err).Warn("Failed to store menu list")
		}
		p.logger.WithField("retry", isRetry).Info("Logged in to portal")
		return html, nil
	}

	if p.parser.SessionTimedOut(html) {
		if !isRetry {
			p.logger.Warn("Session timeout on login, retrying once")
			metrics.LoginRetries.Inc()
			return p.login(ctx, true)
		}
		return "", fmt.Errorf("%w: %w", attendance.ErrAuthenticationFailed, attendance.ErrSessionTimeout)
	}
	return "", attendance.ErrAuthenticationFailed
}

// CSRFToken reads the stamping form token from the top page.
func (p *PortalService) CSRFToken(ctx context.Context) (string, string, error) {
	html, err := p.MyTop(ctx)
	if err != nil {
		return "", "", err
	}
	key, value, ok := p.parser.CSRFToken(html)
	if !ok {
		return "", "", fmt.Errorf("csrf token: %w", attendance.ErrStructuralScrape)
	}
	return key, value, nil
}

func (p *PortalService) Get(ctx context.Context, query string) (string, error) {
	return p.session.Get(ctx, query)
}

func (p *PortalService) Post(ctx context.Context, form map[string]string) (string, error) {
	return p.session.Post(ctx, form)
}
