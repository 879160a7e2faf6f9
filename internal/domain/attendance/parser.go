package attendance

import "time_recorder_bot/internal/domain/worktime"

// Parser turns raw portal HTML into typed facts. The scraping strategy
// (regular expressions, DOM queries) stays behind this interface.
type Parser interface {
	// Scrape derives the attendance status. lastRead is the notice watermark.
	Scrape(html, lastRead string) *Status
	// LatestNotice returns "YYYY/MM/DD HH:MM" of the newest announcement, or "".
	LatestNotice(html string) string
	// WorkTableColumns maps header labels to 1-based column positions.
	WorkTableColumns(html string, table worktime.TableType) (worktime.ColumnMap, error)
	// ExtractWorkInfo reads the summary row and today's calendar row.
	ExtractWorkInfo(html string, holidays []string, day int) (worktime.Snapshot, error)
	// SessionTimedOut reports whether the page is the session-timeout notice.
	SessionTimedOut(html string) bool
	// CSRFToken finds the form token required for stamping.
	CSRFToken(html string) (key, value string, ok bool)
}
