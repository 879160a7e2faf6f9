package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/domain/credential"
	"time_recorder_bot/internal/infra/metrics"
)

// StatusObserver is told about every status change. A nil status means there
// is no usable status and the user has to set up or log in.
type StatusObserver func(ctx context.Context, status *attendance.Status)

// StatusService owns the attendance status lifecycle.
type StatusService struct {
	parser    attendance.Parser
	portal    *PortalService
	cache     *StatusCache
	prefs     *Preferences
	creds     credential.Store
	sink      NotificationSink
	observers []StatusObserver
	logger    *logrus.Entry
}

func NewStatusService(
	parser attendance.Parser,
	portal *PortalService,
	cache *StatusCache,
	prefs *Preferences,
	creds credential.Store,
	sink NotificationSink,
	logger *logrus.Entry,
) *StatusService {
	return &StatusService{
		parser: parser,
		portal: portal,
		cache:  cache,
		prefs:  prefs,
		creds:  creds,
		sink:   sink,
		logger: logger,
	}
}

// Observe registers an observer. Call during setup only.
func (s *StatusService) Observe(o StatusObserver) {
	s.observers = append(s.observers, o)
}

func (s *StatusService) notify(ctx context.Context, status *attendance.Status) {
	for _, o := range s.observers {
		o(ctx, status)
	}
}

// Scan scrapes html and applies the result.
func (s *StatusService) Scan(ctx context.Context, html string) *attendance.Status {
	lastRead, err := s.prefs.LastInfo(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read notice watermark")
	}
	return s.Change(ctx, s.parser.Scrape(html, lastRead))
}

// Change caches an authorized status, or drops the cache otherwise, and
// notifies observers.
func (s *StatusService) Change(ctx context.Context, status *attendance.Status) *attendance.Status {
	metrics.StatusScans.WithLabelValues(strconv.Itoa(int(status.Code))).Inc()

	if !status.Authorized {
		if err := s.cache.Write(ctx, nil); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate status cache")
		}
		s.notify(ctx, nil)
		return status
	}

	if err := s.cache.Write(ctx, status); err != nil {
		s.logger.WithError(err).Warn("Failed to write status cache")
	}
	s.notify(ctx, status)
	return status
}

// Invalidate drops the cached status so the next Refresh asks the portal.
func (s *StatusService) Invalidate(ctx context.Context) error {
	return s.cache.Write(ctx, nil)
}

// Refresh returns the current status. Without usable credentials it yields
// the unauthorized status without any request. A live cache entry is served
// unless forceConnect is set.
func (s *StatusService) Refresh(ctx context.Context, forceConnect bool) (*attendance.Status, error) {
	cred, err := s.creds.Get(ctx)
	if err != nil || !cred.Valid() {
		return s.Scan(ctx, ""), nil
	}

	if !forceConnect {
		if cached := s.cache.Read(ctx); cached != nil {
			s.notify(ctx, cached)
			return cached, nil
		}
	}

	html, err := s.portal.MyTop(ctx)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, html), nil
}

// Acknowledge marks the pending notice as read.
func (s *StatusService) Acknowledge(ctx context.Context, status *attendance.Status) error {
	if status == nil || !status.Information.Recent {
		return nil
	}
	if err := s.prefs.SetLastInfo(ctx, status.Information.Latest); err != nil {
		return fmt.Errorf("failed to store notice watermark: %w", err)
	}
	status.Information = attendance.StableNotice
	return s.cache.Write(ctx, status)
}

// Stamp presses the clock-in or clock-out button on the portal.
func (s *StatusService) Stamp(ctx context.Context, stampType attendance.StampType) (*attendance.Status, error) {
	key, value, err := s.portal.CSRFToken(ctx)
	if err != nil {
		return nil, err
	}

	html, err := s.portal.Post(ctx, map[string]string{
		"module":                     "timerecorder",
		"action":                     "timerecorder",
		"scrollbody_tr":              "200",
		"timerecorder_stamping_type": strconv.Itoa(int(stampType)),
		key:                          value,
	})
	if err != nil {
		return nil, err
	}

	status := s.Scan(ctx, html)

	var stampedAt string
	switch stampType {
	case attendance.StampOn:
		stampedAt = status.Start
	case attendance.StampOff:
		stampedAt = status.Leave
	}
	if stampedAt == "" {
		return status, attendance.ErrStampFailed
	}

	s.logger.WithFields(logrus.Fields{
		"stamp": stampType.Label(),
		"time":  stampedAt,
	}).Info("Stamp recorded")
	s.sink.Notify(ctx, Notification{
		Message:        stampType.Label() + "しました。",
		ContextMessage: stampedAt,
	})
	s.sink.Clear(ctx, AnnounceID)
	return status, nil
}

// Logout ends the portal session.
func (s *StatusService) Logout(ctx context.Context) error {
	html, err := s.portal.Post(ctx, map[string]string{
		"kihon_settei": "#",
		"module":       "logout",
		"logout":       "ログアウト",
	})
	if err != nil {
		return err
	}
	s.Scan(ctx, html)
	return nil
}
