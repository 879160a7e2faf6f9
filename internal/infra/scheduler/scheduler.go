package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"time_recorder_bot/internal/app"
	"time_recorder_bot/internal/domain/attendance"
)

// StatusRefresher is the part of app.StatusService the jobs use.
type StatusRefresher interface {
	Refresh(ctx context.Context, forceConnect bool) (*attendance.Status, error)
}

// MessageSource provides the reminder texts.
type MessageSource interface {
	Messages(ctx context.Context) (app.Messages, error)
}

// ErrorSink surfaces job failures to the user.
type ErrorSink interface {
	Report(ctx context.Context, err error)
}

type RecorderScheduler struct {
	cronEngine *cron.Cron
	status     StatusRefresher
	messages   MessageSource
	sink       app.NotificationSink
	errors     ErrorSink
	logger     *logrus.Entry

	cronSpecRefresh string
	cronSpecStart   string
	cronSpecLeave   string

	mu        sync.Mutex
	lastError string // last refresh error reported, to avoid repeating it every tick
}

func NewRecorderScheduler(
	status StatusRefresher,
	messages MessageSource,
	sink app.NotificationSink,
	errors ErrorSink,
	logger *logrus.Entry,
	cronSpecRefresh string, // e.g., "*/10 * * * *"
	cronSpecStart string, // e.g., "0 9 * * 1-5"
	cronSpecLeave string, // e.g., "0 18 * * 1-5"
) *RecorderScheduler {
	return &RecorderScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		status:          status,
		messages:        messages,
		sink:            sink,
		errors:          errors,
		logger:          logger,
		cronSpecRefresh: cronSpecRefresh,
		cronSpecStart:   cronSpecStart,
		cronSpecLeave:   cronSpecLeave,
	}
}

// Start registers the jobs and starts the cron engine. An empty spec disables
// its job.
func (s *RecorderScheduler) Start() error {
	s.logger.Info("Starting recorder scheduler...")

	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context)
	}{
		{name: "refresh", spec: s.cronSpecRefresh, run: s.RunRefresh},
		{name: "start_reminder", spec: s.cronSpecStart, run: func(ctx context.Context) {
			s.RunReminder(ctx, attendance.StampOn)
		}},
		{name: "leave_reminder", spec: s.cronSpecLeave, run: func(ctx context.Context) {
			s.RunReminder(ctx, attendance.StampOff)
		}},
	}

	for _, job := range jobs {
		if job.spec == "" {
			s.logger.WithField("job", job.name).Info("Job disabled")
			continue
		}
		_, err := s.cronEngine.AddFunc(job.spec, func() {
			s.logger.WithField("job", job.name).Debug("Cron job triggered")
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			job.run(ctx)
		})
		if err != nil {
			return fmt.Errorf("could not add %s cron job: %w", job.name, err)
		}
	}

	s.cronEngine.Start()
	s.logger.Info("Recorder scheduler started with jobs.")
	return nil
}

// RunRefresh polls the portal, bypassing the status cache. A failure is reported once until the refresh
// succeeds again or fails differently.
func (s *RecorderScheduler) RunRefresh(ctx context.Context) {
	_, err := s.status.Refresh(ctx, true)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.lastError = ""
		return
	}
	s.logger.WithError(err).Warn("Scheduled refresh failed")
	if err.Error() == s.lastError {
		return
	}
	s.lastError = err.Error()
	s.errors.Report(ctx, err)
}

// RunReminder asks the user to stamp when the status still expects it. The
// status is re-read from the portal so a stamp made in the browser since the
// last poll suppresses the reminder.
func (s *RecorderScheduler) RunReminder(ctx context.Context, stampType attendance.StampType) {
	status, err := s.status.Refresh(ctx, true)
	if err != nil {
		s.logger.WithError(err).Warn("Refresh before reminder failed")
		s.errors.Report(ctx, err)
		return
	}

	msgs, err := s.messages.Messages(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read reminder texts, using defaults")
	}

	var text string
	switch {
	case stampType == attendance.StampOn && status.Code == attendance.CodeBefore:
		text = msgs.Start
	case stampType == attendance.StampOff && status.Code == attendance.CodeOnTheJob:
		text = msgs.Leave
	default:
		s.logger.WithFields(logrus.Fields{
			"stamp": stampType.Label(),
			"code":  status.Code,
		}).Debug("Reminder not needed")
		return
	}

	s.sink.Notify(ctx, app.Notification{Message: text, Stamp: stampType})
}

func (s *RecorderScheduler) Stop() {
	s.logger.Info("Stopping recorder scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Recorder scheduler gracefully stopped.")
}
