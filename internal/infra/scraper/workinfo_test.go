package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/domain/worktime"
)

func header(labels ...string) string {
	row := "<tr>"
	for _, l := range labels {
		row += headerCellTag + "<b>" + l + "</b></td>\n"
	}
	return row + "</tr>"
}

var workPage = page(
	`<table id="total_list0">`,
	header("所定労働<br/>日数", "出勤<br/>日数", "有休", "特別<br/>休暇", "所定労働<br/>時間", "実働<br/>時間"),
	`<tr><td>20</td><td>10</td><td>1.5</td><td>1</td><td>160:00</td><td>80:30</td></tr>`,
	`</table>`,
	`<table id="calendar">`,
	header("日", "出社", "退社", "実働<br/>時間"),
	`<tr id="fix_0_14"><td>14</td><td>09:00</td><td></td><td></td></tr>`,
	`<tr id="fix_0_15"><td>15</td><td>--:--</td><td></td><td></td></tr>`,
	`<tr id="fix_0_16"><td>16</td><td>08:45</td><td>17:50</td><td>8:05</td></tr>`,
	`</table>`,
)

func TestWorkTableColumns_Summary(t *testing.T) {
	cols, err := New().WorkTableColumns(workPage, worktime.TableSummary)
	require.NoError(t, err)

	assert.Equal(t, worktime.ColumnMap{
		"所定労働日数": 1,
		"出勤日数":   2,
		"有休":     3,
		"特別休暇":   4,
		"所定労働時間": 5,
		"実働時間":   6,
	}, cols)
}

func TestWorkTableColumns_TwoColumns(t *testing.T) {
	html := page("<table>", header("所定労働<br/>日数", "出勤日数"), "</table>")

	cols, err := New().WorkTableColumns(html, worktime.TableSummary)
	require.NoError(t, err)

	assert.Equal(t, worktime.ColumnMap{"所定労働日数": 1, "出勤日数": 2}, cols)
}

func TestWorkTableColumns_Calendar(t *testing.T) {
	cols, err := New().WorkTableColumns(workPage, worktime.TableCalendar)
	require.NoError(t, err)

	assert.Equal(t, 1, cols["日"])
	assert.Equal(t, 2, cols["出社"])
	assert.Equal(t, 4, cols["実働時間"])
}

func TestWorkTableColumns_MissingHeader(t *testing.T) {
	_, err := New().WorkTableColumns(page("<table></table>"), worktime.TableCalendar)

	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrStructuralScrape)
}

func TestExtractWorkInfo(t *testing.T) {
	snapshot, err := New().ExtractWorkInfo(workPage, []string{"有休", "特別休暇"}, 14)
	require.NoError(t, err)

	assert.Equal(t, 20.0, snapshot.FixedDay)
	assert.Equal(t, 10.0, snapshot.ActualDay)
	assert.Equal(t, 2.5, snapshot.Holiday)
	assert.Equal(t, 9600, snapshot.FixedTimes.Minutes)
	assert.Equal(t, "80:30", snapshot.ActualTimes.Display)
	assert.Equal(t, 540, snapshot.TodayStartTimes.Minutes)
	assert.Equal(t, 0, snapshot.TodayActualTimes.Minutes)
}

func TestExtractWorkInfo_ClosedDay(t *testing.T) {
	snapshot, err := New().ExtractWorkInfo(workPage, nil, 16)
	require.NoError(t, err)

	assert.Equal(t, 0.0, snapshot.Holiday)
	assert.Equal(t, "8:45", snapshot.TodayStartTimes.Display)
	assert.Equal(t, "8:05", snapshot.TodayActualTimes.Display)
}

func TestExtractWorkInfo_UnparseableCellsAreZero(t *testing.T) {
	snapshot, err := New().ExtractWorkInfo(workPage, nil, 15)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.TodayStartTimes.Minutes)

	// no calendar row for the day at all
	snapshot, err = New().ExtractWorkInfo(workPage, nil, 31)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.TodayStartTimes.Minutes)
	assert.Equal(t, 0, snapshot.TodayActualTimes.Minutes)
}

func TestExtractWorkInfo_UnknownHolidayColumn(t *testing.T) {
	_, err := New().ExtractWorkInfo(workPage, []string{"代休"}, 14)

	assert.ErrorIs(t, err, attendance.ErrStructuralScrape)
}

func TestExtractWorkInfo_MissingTables(t *testing.T) {
	_, err := New().ExtractWorkInfo(page("<p>maintenance</p>"), nil, 14)

	assert.ErrorIs(t, err, attendance.ErrStructuralScrape)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want [2]int
	}{
		{"09:05", [2]int{9, 5}},
		{"160:00", [2]int{160, 0}},
		{"", [2]int{0, 0}},
		{"--:--", [2]int{0, 0}},
		{"1:2:3", [2]int{0, 0}},
		{"8", [2]int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseClock(tt.in))
		})
	}
}
