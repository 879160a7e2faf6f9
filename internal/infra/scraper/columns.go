package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/domain/worktime"
)

// headerCellTag opens every header cell of the work tables.
const headerCellTag = `<td align="center" nowrap="nowrap" class="txt_10">`

// headerMarkers is the content of the first header cell per table.
var headerMarkers = map[worktime.TableType]string{
	worktime.TableSummary:  `<b>所定労働<br/>日数</b>`,
	worktime.TableCalendar: `<b>日</b>`,
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	labelReplacer = strings.NewReplacer("<br/>", "", "<b>", "", "</b>", "")
)

// WorkTableColumns reads the header row of the summary or calendar table and
// maps each non-empty label to its 1-based column position.
func (s *Scraper) WorkTableColumns(html string, table worktime.TableType) (worktime.ColumnMap, error) {
	marker, ok := headerMarkers[table]
	if !ok {
		return nil, fmt.Errorf("unknown work table %q", table)
	}

	pos := strings.Index(html, headerCellTag+marker)
	if pos == -1 {
		return nil, fmt.Errorf("%s table header: %w", table, attendance.ErrStructuralScrape)
	}
	part := html[pos:]
	if end := strings.Index(part, "</tr>"); end != -1 {
		part = part[:end]
	}

	columns := worktime.ColumnMap{}
	for i, tag := range strings.Split(part, "</td>") {
		label := strings.ReplaceAll(tag, headerCellTag, "")
		label = whitespaceRe.ReplaceAllString(label, "")
		label = labelReplacer.Replace(label)
		if label != "" {
			columns[label] = i + 1
		}
	}
	return columns, nil
}
