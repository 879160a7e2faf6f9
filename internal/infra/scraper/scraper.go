// internal/infra/scraper/scraper.go
package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"time_recorder_bot/internal/domain/attendance"
)

// Pre-compiled patterns for the portal markup.
var (
	userNameRe   = regexp.MustCompile(`<div class="user_name">`)
	recorderRe   = regexp.MustCompile(`<input type="hidden" name="action" value="timerecorder"`)
	startStampRe = regexp.MustCompile(`>出社<br(?:\s*/)?>\((\d\d:\d\d)\)`)
	leaveStampRe = regexp.MustCompile(`>退社<br(?:\s*/)?>\((\d\d:\d\d)\)`)
	menuIconRe   = regexp.MustCompile(`<img src="([^"]+)" alt="([^"]+)"`)
	menuLinkRe   = regexp.MustCompile(`href="\./\?module=(.+?)&(?:amp;)?action=(.+?)"`)
	noticeRe     = regexp.MustCompile(`<div class="notice_header">\n[^(]+\((\d{4})年(\d\d)月(\d\d)日&nbsp;(\d\d:\d\d)`)
	timeoutRe    = regexp.MustCompile(`セッションタイムアウト`)
	csrfTokenRe  = regexp.MustCompile(`name="(__sectag_[0-9a-f]+)" value="([0-9a-f]+)"`)
	rowEndRe     = regexp.MustCompile(`</tr>`) // ends layout A, splits layout B
	tableEndRe   = regexp.MustCompile(`</table>`)
	cellSplitRe  = regexp.MustCompile(`</td>`)
)

// menuLayout describes one of the navigation layouts seen across deployments.
type menuLayout struct {
	marker string
	end    *regexp.Regexp
	split  *regexp.Regexp
}

var menuLayouts = []menuLayout{
	{marker: `<td align="center" valign="top" width="72">`, end: rowEndRe, split: cellSplitRe},
	{marker: `<table border="0" cellpadding="0" cellspacing="0" width="120">`, end: tableEndRe, split: rowEndRe},
}

// Scraper is the regular-expression implementation of attendance.Parser.
// It holds no state; every method depends on its input only.
type Scraper struct{}

// New returns a Scraper. The zero value is equally usable.
func New() *Scraper {
	return &Scraper{}
}

var _ attendance.Parser = (*Scraper)(nil)

// Scrape derives the attendance status from a portal page.
func (s *Scraper) Scrape(html, lastRead string) *attendance.Status {
	status := &attendance.Status{
		Code:        attendance.CodeUnknown,
		Authorized:  userNameRe.MatchString(html),
		Information: attendance.NoticeState(s.LatestNotice(html), lastRead),
	}

	if recorderRe.MatchString(html) {
		status.Code = attendance.CodeBefore
		if m := startStampRe.FindStringSubmatch(html); m != nil {
			status.Start = m[1]
			status.Code = attendance.CodeOnTheJob
		}
		if m := leaveStampRe.FindStringSubmatch(html); m != nil {
			status.Leave = m[1]
			status.Code = attendance.CodeAfter
		}
	}

	status.Menus = scrapeMenus(html)
	return status
}

// scrapeMenus returns nil when neither menu layout is present, so callers can
// tell a page without navigation from a navigation with no usable entries.
func scrapeMenus(html string) []attendance.MenuEntry {
	var fragments []string
	for _, layout := range menuLayouts {
		pos := strings.Index(html, layout.marker)
		if pos == -1 {
			continue
		}
		part := html[pos:]
		if loc := layout.end.FindStringIndex(part); loc != nil {
			part = part[:loc[0]]
		}
		fragments = layout.split.Split(part, -1)
		break
	}
	if fragments == nil {
		return nil
	}

	menus := make([]attendance.MenuEntry, 0, len(fragments))
	for _, fragment := range fragments {
		icon := menuIconRe.FindStringSubmatch(fragment)
		if icon == nil {
			continue
		}
		link := menuLinkRe.FindStringSubmatch(fragment)
		if link == nil {
			continue
		}
		menus = append(menus, attendance.MenuEntry{
			Title:  icon[2],
			Icon:   icon[1],
			Module: link[1],
			Action: link[2],
		})
	}
	return menus
}

// LatestNotice returns the newest announcement timestamp as "YYYY/MM/DD HH:MM".
func (s *Scraper) LatestNotice(html string) string {
	m := noticeRe.FindStringSubmatch(html)
	if len(m) != 5 {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s %s", m[1], m[2], m[3], m[4])
}

// SessionTimedOut reports whether the portal answered with its timeout page.
func (s *Scraper) SessionTimedOut(html string) bool {
	return timeoutRe.MatchString(html)
}

// CSRFToken finds the per-session form token.
func (s *Scraper) CSRFToken(html string) (string, string, bool) {
	m := csrfTokenRe.FindStringSubmatch(html)
	if len(m) != 3 {
		return "", "", false
	}
	return m[1], m[2], true
}
