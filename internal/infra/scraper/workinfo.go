package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/domain/worktime"
)

const (
	summaryRowSelector     = "table#total_list0 tr:nth-child(2)"
	calendarRowSelectorFmt = "#fix_0_%d"
)

// ExtractWorkInfo reads the month summary row and the calendar row of the
// given day of month. Column positions come from the table headers; a
// required label that is missing there is a structural error, while cells
// that do not parse degrade to zero.
func (s *Scraper) ExtractWorkInfo(html string, holidays []string, day int) (worktime.Snapshot, error) {
	summaryCols, err := s.WorkTableColumns(html, worktime.TableSummary)
	if err != nil {
		return worktime.Snapshot{}, err
	}
	calendarCols, err := s.WorkTableColumns(html, worktime.TableCalendar)
	if err != nil {
		return worktime.Snapshot{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return worktime.Snapshot{}, fmt.Errorf("parse work page: %w", err)
	}

	summary := &row{sel: doc.Find(summaryRowSelector).First(), cols: summaryCols}
	calendar := &row{sel: doc.Find(fmt.Sprintf(calendarRowSelectorFmt, day)).First(), cols: calendarCols}

	snapshot := worktime.Snapshot{
		FixedDay:         parseDays(summary.cell(worktime.ColumnFixedDays)),
		ActualDay:        parseDays(summary.cell(worktime.ColumnActualDays)),
		FixedTimes:       worktime.FromClock(parseClock(summary.cell(worktime.ColumnFixedTimes))),
		ActualTimes:      worktime.FromClock(parseClock(summary.cell(worktime.ColumnActualTimes))),
		TodayStartTimes:  worktime.FromClock(parseClock(calendar.cell(worktime.ColumnStart))),
		TodayActualTimes: worktime.FromClock(parseClock(calendar.cell(worktime.ColumnActualTimes))),
	}
	for _, label := range holidays {
		snapshot.Holiday += parseDays(summary.cell(label))
	}

	if summary.err != nil {
		return worktime.Snapshot{}, summary.err
	}
	if calendar.err != nil {
		return worktime.Snapshot{}, calendar.err
	}
	return snapshot, nil
}

// row reads cells by header label and keeps the first lookup failure.
type row struct {
	sel  *goquery.Selection
	cols worktime.ColumnMap
	err  error
}

func (r *row) cell(label string) string {
	idx, ok := r.cols[label]
	if !ok {
		if r.err == nil {
			r.err = fmt.Errorf("column %q: %w", label, attendance.ErrStructuralScrape)
		}
		return ""
	}
	return strings.TrimSpace(r.sel.Find(fmt.Sprintf("td:nth-child(%d)", idx)).First().Text())
}

// parseClock splits "H:MM". Anything but two numeric parts is 0:00.
func parseClock(text string) [2]int {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return [2]int{0, 0}
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return [2]int{0, 0}
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return [2]int{0, 0}
	}
	return [2]int{h, m}
}

func parseDays(text string) float64 {
	if text == "" {
		return 0
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return v
}
