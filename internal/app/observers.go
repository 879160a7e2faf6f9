package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/infra/metrics"
)

// AnnounceID identifies the "not stamped yet" notification.
const AnnounceID = "KTR-Announce"

// Announcer reminds the user once per day while nothing is stamped yet.
type Announcer struct {
	prefs  *Preferences
	sink   NotificationSink
	now    func() time.Time
	logger *logrus.Entry
}

func NewAnnouncer(prefs *Preferences, sink NotificationSink, now func() time.Time, logger *logrus.Entry) *Announcer {
	if now == nil {
		now = time.Now
	}
	return &Announcer{prefs: prefs, sink: sink, now: now, logger: logger}
}

// Observe implements StatusObserver.
func (a *Announcer) Observe(ctx context.Context, status *attendance.Status) {
	if status == nil || status.Code != attendance.CodeBefore {
		return
	}

	today := a.now().Format("2006-01-02")
	last, err := a.prefs.LastAnnounce(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Failed to read last announcement date")
	}
	if last == today {
		return
	}

	a.sink.Notify(ctx, Notification{
		ID:      AnnounceID,
		Message: "今日はまだWeb勤怠をつけていません。",
		Stamp:   attendance.StampOn,
	})
	if err := a.prefs.SetLastAnnounce(ctx, today); err != nil {
		a.logger.WithError(err).Warn("Failed to store announcement date")
	}
}

// TransitionNotifier tells the user when the attendance code changes,
// including the drop to "no usable status".
type TransitionNotifier struct {
	sink NotificationSink
	last atomic.Int32 // -1 until the first observation
}

func NewTransitionNotifier(sink NotificationSink) *TransitionNotifier {
	t := &TransitionNotifier{sink: sink}
	t.last.Store(-1)
	return t
}

// Observe implements StatusObserver.
func (t *TransitionNotifier) Observe(ctx context.Context, status *attendance.Status) {
	code := attendance.CodeUnknown
	if status != nil {
		code = status.Code
	}
	metrics.AttendanceCode.Set(float64(code))

	prev := t.last.Swap(int32(code))
	if prev == int32(code) {
		return
	}
	// first observation after start only records the state
	if prev == -1 && code != attendance.CodeUnknown {
		return
	}

	n := Notification{Message: code.Title()}
	if status != nil {
		switch code {
		case attendance.CodeOnTheJob:
			n.ContextMessage = status.Start
		case attendance.CodeAfter:
			n.ContextMessage = status.Start + " - " + status.Leave
		}
	}
	t.sink.Notify(ctx, n)
}
