package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/domain/worktime"
)

// WorkInfoService fetches the work-time page and projects the month.
type WorkInfoService struct {
	portal *PortalService
	parser attendance.Parser
	prefs  *Preferences
	query  string
	now    func() time.Time
	logger *logrus.Entry
}

func NewWorkInfoService(
	portal *PortalService,
	parser attendance.Parser,
	prefs *Preferences,
	query string,
	now func() time.Time,
	logger *logrus.Entry,
) *WorkInfoService {
	if now == nil {
		now = time.Now
	}
	return &WorkInfoService{
		portal: portal,
		parser: parser,
		prefs:  prefs,
		query:  query,
		now:    now,
		logger: logger,
	}
}

// Summary returns the projection for the current month.
func (w *WorkInfoService) Summary(ctx context.Context) (*worktime.Projection, error) {
	// make sure the session is logged in before asking for the time sheet
	if _, err := w.portal.MyTop(ctx); err != nil {
		return nil, err
	}

	html, err := w.portal.Get(ctx, w.query)
	if err != nil {
		return nil, err
	}

	holidays, err := w.prefs.Holidays(ctx)
	if err != nil {
		w.logger.WithError(err).Warn("Failed to read holiday columns, counting none")
	}

	now := w.now()
	snapshot, err := w.parser.ExtractWorkInfo(html, holidays, now.Day())
	if err != nil {
		return nil, fmt.Errorf("failed to extract work info: %w", err)
	}

	projection := worktime.Project(snapshot, now)
	w.logger.WithFields(logrus.Fields{
		"need_days": projection.Days.Need,
		"need_time": projection.Times.Need.Display,
	}).Debug("Work time projected")
	return &projection, nil
}
