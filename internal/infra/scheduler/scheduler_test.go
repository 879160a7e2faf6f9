package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time_recorder_bot/internal/app"
	"time_recorder_bot/internal/domain/attendance"
)

type stubRefresher struct {
	status *attendance.Status
	errs   []error
	calls  int
	forced []bool
}

func (s *stubRefresher) Refresh(_ context.Context, force bool) (*attendance.Status, error) {
	s.calls++
	s.forced = append(s.forced, force)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.status, nil
}

type stubMessages struct{}

func (stubMessages) Messages(context.Context) (app.Messages, error) {
	return app.Messages{Start: "おはようございます", Leave: "お疲れさまです"}, nil
}

type recorder struct {
	notes    []app.Notification
	reported []error
}

func (r *recorder) Notify(_ context.Context, n app.Notification) { r.notes = append(r.notes, n) }
func (r *recorder) Clear(context.Context, string)                {}
func (r *recorder) Report(_ context.Context, err error)          { r.reported = append(r.reported, err) }

func newScheduler(status *stubRefresher, rec *recorder, specs ...string) *RecorderScheduler {
	l, _ := test.NewNullLogger()
	for len(specs) < 3 {
		specs = append(specs, "")
	}
	return NewRecorderScheduler(status, stubMessages{}, rec, rec, logrus.NewEntry(l), specs[0], specs[1], specs[2])
}

func TestRunReminder(t *testing.T) {
	tests := []struct {
		name  string
		code  attendance.Code
		stamp attendance.StampType
		want  string
	}{
		{name: "start while before", code: attendance.CodeBefore, stamp: attendance.StampOn, want: "おはようございます"},
		{name: "start after clock in", code: attendance.CodeOnTheJob, stamp: attendance.StampOn},
		{name: "leave while on the job", code: attendance.CodeOnTheJob, stamp: attendance.StampOff, want: "お疲れさまです"},
		{name: "leave after clock out", code: attendance.CodeAfter, stamp: attendance.StampOff},
		{name: "unconfigured", code: attendance.CodeUnknown, stamp: attendance.StampOn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := newScheduler(&stubRefresher{status: &attendance.Status{Code: tt.code, Authorized: true}}, rec)

			s.RunReminder(context.Background(), tt.stamp)

			if tt.want == "" {
				assert.Empty(t, rec.notes)
				return
			}
			require.Len(t, rec.notes, 1)
			assert.Equal(t, tt.want, rec.notes[0].Message)
			assert.Equal(t, tt.stamp, rec.notes[0].Stamp)
		})
	}
}

func TestRunRefresh_ReportsRepeatedErrorOnce(t *testing.T) {
	boom := errors.New("dial tcp: timeout")
	status := &stubRefresher{
		status: &attendance.Status{Authorized: true},
		errs:   []error{boom, boom, nil, boom},
	}
	rec := &recorder{}
	s := newScheduler(status, rec)

	for i := 0; i < 4; i++ {
		s.RunRefresh(context.Background())
	}

	assert.Equal(t, 4, status.calls)
	assert.Len(t, rec.reported, 2)
}

func TestJobsBypassStatusCache(t *testing.T) {
	status := &stubRefresher{status: &attendance.Status{Code: attendance.CodeBefore, Authorized: true}}
	s := newScheduler(status, &recorder{})

	s.RunRefresh(context.Background())
	s.RunReminder(context.Background(), attendance.StampOn)
	s.RunReminder(context.Background(), attendance.StampOff)

	assert.Equal(t, []bool{true, true, true}, status.forced, "stamps made in the browser must be seen")
}

func TestStart_InvalidSpec(t *testing.T) {
	s := newScheduler(&stubRefresher{}, &recorder{}, "not a cron spec")
	assert.Error(t, s.Start())
}

func TestStart_StopWithDisabledJobs(t *testing.T) {
	s := newScheduler(&stubRefresher{}, &recorder{}, "*/10 * * * *")
	require.NoError(t, s.Start())
	s.Stop()
}
