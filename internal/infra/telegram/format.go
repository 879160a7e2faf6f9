package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"time_recorder_bot/internal/domain/attendance"
	"time_recorder_bot/internal/domain/worktime"
)

// FormatStatus renders the attendance status for a chat reply.
func FormatStatus(status *attendance.Status) string {
	if status == nil || !status.Authorized {
		return attendance.CodeUnknown.Title()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "状態: %s\n", status.Code.Title())
	if status.Start != "" {
		fmt.Fprintf(&b, "出社: %s\n", status.Start)
	}
	if status.Leave != "" {
		fmt.Fprintf(&b, "退社: %s\n", status.Leave)
	}
	if status.Information.Recent {
		fmt.Fprintf(&b, "新しいお知らせがあります (%s) /read で既読にします\n", status.Information.Latest)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatProjection renders the monthly work-time forecast.
func FormatProjection(p *worktime.Projection) string {
	sign := "不足"
	if p.Times.ExpectSign == worktime.SignExcess {
		sign = "超過"
	}

	var b strings.Builder
	b.WriteString("今月の勤務状況\n")
	fmt.Fprintf(&b, "所定日数: %s / 出勤: %s / 休暇: %s / 残り: %s\n",
		days(p.Days.Fixed), days(p.Days.Actual), days(p.Days.Holiday), days(p.Days.Need))
	fmt.Fprintf(&b, "所定時間: %s\n", p.Times.Fixed.Display)
	fmt.Fprintf(&b, "実働時間: %s (本日 %s)\n", p.Times.Actual.Display, p.Times.Today.Display)
	fmt.Fprintf(&b, "残り時間: %s\n", p.Times.Need.Display)
	fmt.Fprintf(&b, "1日あたり: 所定 %s / 必要 %s\n", p.Times.PerDay.Display, p.Times.ExpectPerDay.Display)
	fmt.Fprintf(&b, "見込み: %s (%s)", p.Times.Expect.Display, sign)
	return b.String()
}

func days(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMenus lists the portal menu links under baseURL.
func FormatMenus(menus []attendance.MenuEntry, baseURL string) string {
	if len(menus) == 0 {
		return "メニューがまだ取得されていません。/refresh を実行してください。"
	}
	var b strings.Builder
	for i, m := range menus {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s?module=%s&action=%s", m.Title, baseURL, m.Module, m.Action)
	}
	return b.String()
}
