package worktime

// TableType selects one of the two work tables on the portal.
type TableType string

const (
	TableSummary  TableType = "summary"
	TableCalendar TableType = "calendar"
)

// ColumnMap maps a header label to its 1-based column index.
// It is rebuilt for every document.
type ColumnMap map[string]int

// Column labels read from the work tables.
const (
	ColumnFixedDays   = "所定労働日数"
	ColumnActualDays  = "出勤日数"
	ColumnFixedTimes  = "所定労働時間"
	ColumnActualTimes = "実働時間"
	ColumnStart       = "出社"
)

// Snapshot is what one scrape of the work-time page yields.
// Day counts are fractional because the portal records half-day leave.
type Snapshot struct {
	FixedDay         float64
	ActualDay        float64
	Holiday          float64
	FixedTimes       TimeValue
	ActualTimes      TimeValue
	TodayStartTimes  TimeValue
	TodayActualTimes TimeValue
}
