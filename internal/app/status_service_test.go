package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/domain/credential"
	"time_recorder_bot/internal/infra/scraper"
)

type statusFixture struct {
	store   *memoryStore
	session *scriptedSession
	sink    *recordingSink
	clock   *clock
	svc     *StatusService
	seen    []*attendance.Status
}

func newStatusFixture(cred credential.Credential, pages ...string) *statusFixture {
	f := &statusFixture{
		store:   newMemoryStore(),
		session: &scriptedSession{pages: pages},
		sink:    &recordingSink{},
		clock:   &clock{t: time.Date(2024, 3, 14, 9, 10, 0, 0, time.UTC)},
	}
	creds := fixedCreds{cred: cred}
	prefs := NewPreferences(f.store, 0)
	parser := scraper.New()
	portal := NewPortalService(f.session, parser, creds, prefs, testLogger())
	cache := NewStatusCache(f.store, f.clock.Now, testLogger())
	f.svc = NewStatusService(parser, portal, cache, prefs, creds, f.sink, testLogger())
	f.svc.Observe(func(_ context.Context, s *attendance.Status) {
		f.seen = append(f.seen, s)
	})
	return f
}

func TestStatusService_RefreshWithoutCredentials(t *testing.T) {
	f := newStatusFixture(credential.Credential{})

	status, err := f.svc.Refresh(context.Background(), true)
	require.NoError(t, err)

	assert.False(t, status.Authorized)
	assert.Equal(t, attendance.CodeUnknown, status.Code)
	assert.Empty(t, f.session.requests)
	require.Len(t, f.seen, 1)
	assert.Nil(t, f.seen[0])
}

func TestStatusService_RefreshClockedIn(t *testing.T) {
	ctx := context.Background()
	f := newStatusFixture(validCreds, topPage(`<button>出社<br/>(09:05)</button><button>退社</button>`))

	status, err := f.svc.Refresh(ctx, true)
	require.NoError(t, err)

	assert.True(t, status.Authorized)
	assert.Equal(t, attendance.CodeOnTheJob, status.Code)
	assert.Equal(t, "09:05", status.Start)
	assert.Len(t, status.Menus, 1)

	// the next non-forced refresh is served from the cache
	cached, err := f.svc.Refresh(ctx, false)
	require.NoError(t, err)
	assert.Len(t, f.session.requests, 1)
	assert.Equal(t, "09:05", cached.Start)
	assert.Nil(t, cached.Menus)
	assert.Len(t, f.seen, 2)
}

func TestStatusService_UnauthorizedScanDropsCache(t *testing.T) {
	ctx := context.Background()
	f := newStatusFixture(validCreds, topPage(""))

	_, err := f.svc.Refresh(ctx, true)
	require.NoError(t, err)
	require.Contains(t, f.store.data, attendance.KeyStatusCache)

	status := f.svc.Scan(ctx, loginPage)

	assert.False(t, status.Authorized)
	assert.NotContains(t, f.store.data, attendance.KeyStatusCache)
	assert.Nil(t, f.seen[len(f.seen)-1])
}

func TestStatusService_Acknowledge(t *testing.T) {
	ctx := context.Background()
	notice := "<div class=\"notice_header\">\nお知らせ (2024年03月01日&nbsp;10:30)</div>"
	f := newStatusFixture(validCreds)

	status := f.svc.Scan(ctx, topPage(notice))
	require.True(t, status.Information.Recent)
	assert.Equal(t, "2024/03/01 10:30", status.Information.Latest)

	require.NoError(t, f.svc.Acknowledge(ctx, status))
	assert.Equal(t, attendance.StableNotice, status.Information)

	again := f.svc.Scan(ctx, topPage(notice))
	assert.False(t, again.Information.Recent)
}

func TestStatusService_AcknowledgeWithoutNotice(t *testing.T) {
	f := newStatusFixture(validCreds)
	status := &attendance.Status{Authorized: true}

	require.NoError(t, f.svc.Acknowledge(context.Background(), status))
	assert.NotContains(t, f.store.data, attendance.KeyLastInfo)
}

func TestStatusService_StampOn(t *testing.T) {
	ctx := context.Background()
	f := newStatusFixture(validCreds,
		topPage(`<button>出社</button><button>退社</button>`),
		topPage(`<button>出社<br/>(09:10)</button><button>退社</button>`),
	)

	status, err := f.svc.Stamp(ctx, attendance.StampOn)
	require.NoError(t, err)

	assert.Equal(t, attendance.CodeOnTheJob, status.Code)
	require.Len(t, f.session.requests, 2)
	assert.Equal(t, map[string]string{
		"module":                     "timerecorder",
		"action":                     "timerecorder",
		"scrollbody_tr":              "200",
		"timerecorder_stamping_type": "1",
		"__sectag_0a1b":              "deadbeef",
	}, f.session.requests[1].form)

	require.Len(t, f.sink.sent, 1)
	assert.Equal(t, "出社しました。", f.sink.sent[0].Message)
	assert.Equal(t, "09:10", f.sink.sent[0].ContextMessage)
	assert.Equal(t, []string{AnnounceID}, f.sink.cleared)
}

func TestStatusService_StampNotRecorded(t *testing.T) {
	f := newStatusFixture(validCreds,
		topPage(`<button>出社<br/>(09:10)</button><button>退社</button>`),
		topPage(`<button>出社<br/>(09:10)</button><button>退社</button>`),
	)

	_, err := f.svc.Stamp(context.Background(), attendance.StampOff)

	assert.ErrorIs(t, err, attendance.ErrStampFailed)
	assert.Empty(t, f.sink.sent)
}

func TestStatusService_Logout(t *testing.T) {
	f := newStatusFixture(validCreds, loginPage)

	require.NoError(t, f.svc.Logout(context.Background()))

	require.Len(t, f.session.requests, 1)
	assert.Equal(t, "logout", f.session.requests[0].form["module"])
	assert.Nil(t, f.seen[0])
}

func TestStatusService_InvalidateForcesPortalRequest(t *testing.T) {
	ctx := context.Background()
	f := newStatusFixture(validCreds, topPage(""), topPage(`<button>出社<br/>(09:05)</button>`))

	_, err := f.svc.Refresh(ctx, true)
	require.NoError(t, err)
	require.NoError(t, f.svc.Invalidate(ctx))

	status, err := f.svc.Refresh(ctx, false)
	require.NoError(t, err)

	assert.Len(t, f.session.requests, 2)
	assert.Equal(t, "09:05", status.Start)
}
