// internal/domain/attendance/status.go
package attendance

// Code is the attendance state of the current day.
// Within one scrape it only moves forward: BEFORE -> ON_THE_JOB -> AFTER.
type Code int

const (
	CodeUnknown  Code = 0 // No usable status (not configured or not logged in)
	CodeBefore   Code = 1 // Stamping widget present, no stamp yet
	CodeOnTheJob Code = 2 // Clocked in
	CodeAfter    Code = 3 // Clocked out
)

// codeTitles are the labels the portal itself uses for each state.
var codeTitles = []string{"設定をしてください", "未出社", "出社", "退社"}

// Title returns the human readable label for the code.
func (c Code) Title() string {
	if c < CodeUnknown || int(c) >= len(codeTitles) {
		return codeTitles[CodeUnknown]
	}
	return codeTitles[c]
}

// MenuEntry is a navigation item extracted from the portal top page.
type MenuEntry struct {
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	Module string `json:"module"`
	Action string `json:"action"`
}

// Notice tracks whether the portal published an announcement newer than the
// last one the user marked as read.
type Notice struct {
	Recent bool   `json:"recent"`
	Latest string `json:"latest,omitempty"` // "YYYY/MM/DD HH:MM"
}

// StableNotice is the notice state when nothing new is waiting.
var StableNotice = Notice{Recent: false}

// NoticeState compares the latest announcement date against the read
// watermark. Both values are "YYYY/MM/DD HH:MM" so string order is date order.
func NoticeState(latest, lastRead string) Notice {
	if latest != "" && (lastRead == "" || lastRead < latest) {
		return Notice{Recent: true, Latest: latest}
	}
	return StableNotice
}

// Status is the derived attendance state for one scrape.
type Status struct {
	Code        Code        `json:"code"`
	Authorized  bool        `json:"authorized"`
	Start       string      `json:"start,omitempty"` // "HH:MM"
	Leave       string      `json:"leave,omitempty"` // "HH:MM"
	Information Notice      `json:"information"`
	Menus       []MenuEntry `json:"menus,omitempty"` // nil when the page carries no menu region
}

// WithoutMenus returns a shallow copy with the menu list stripped.
func (s Status) WithoutMenus() Status {
	s.Menus = nil
	return s
}

// CachedStatus is the persisted cache record.
type CachedStatus struct {
	Data    Status `json:"data"`
	Expires int64  `json:"expires"` // unix milliseconds
}

// StampType selects the time recorder button.
type StampType int

const (
	StampOn  StampType = 1
	StampOff StampType = 2
)

// Label is the verb shown to the user for the stamp.
func (t StampType) Label() string {
	switch t {
	case StampOn:
		return "出社"
	case StampOff:
		return "退社"
	default:
		return ""
	}
}
