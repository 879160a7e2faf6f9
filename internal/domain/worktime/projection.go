package worktime

import (
	"math"
	"time"
)

// Sign labels for Times.Expect.
const (
	SignExcess    = "excess"
	SignShortfall = "shortfall"
)

// Days aggregates the day counts of the month.
type Days struct {
	Fixed   float64 `json:"fixed"`
	Actual  float64 `json:"actual"`
	Need    float64 `json:"need"`
	Holiday float64 `json:"holiday"`
}

// Times aggregates the durations of the month.
type Times struct {
	Fixed        TimeValue `json:"fixed"`
	Actual       TimeValue `json:"actual"`
	Today        TimeValue `json:"today"`
	PerDay       TimeValue `json:"perday"`
	Need         TimeValue `json:"need"`
	Expect       TimeValue `json:"expect"`
	ExpectSign   string    `json:"expectSign"`
	ExpectPerDay TimeValue `json:"expectPerday"`
}

// Projection is the remaining-work forecast for the month.
type Projection struct {
	Days  Days  `json:"days"`
	Times Times `json:"times"`
}

// Project computes how much work remains this month assuming the scheduled
// time is worked on each remaining day. now supplies the wall clock for a
// day that is in progress.
func Project(s Snapshot, now time.Time) Projection {
	nowMinutes := now.Hour()*60 + now.Minute()

	today := FromMinutes(0)
	subtime := 0     // worked so far today, taken off the remaining time
	inProgress := 0. // today provisionally counted as a worked day

	switch {
	case s.TodayActualTimes.Minutes != 0:
		// day closed out
		today = s.TodayActualTimes
	case s.TodayStartTimes.Minutes != s.TodayActualTimes.Minutes:
		// clocked in, not out
		today = FromMinutes(nowMinutes - s.TodayStartTimes.Minutes)
		subtime = today.Minutes
		inProgress = 1
	}

	needDay := s.FixedDay - s.ActualDay - s.Holiday - inProgress

	var perday float64
	if s.FixedDay != 0 {
		perday = float64(s.FixedTimes.Minutes) / s.FixedDay
	}

	needRaw := s.FixedTimes.Minutes - s.ActualTimes.Minutes - subtime
	need := max(0, needRaw)

	// The unclamped need feeds the surplus/shortfall figure.
	expectRaw := float64(needRaw) - perday*needDay
	sign := SignShortfall
	if expectRaw < 0 {
		sign = SignExcess
	}

	expectPerDay := need
	if needDay > 0 {
		expectPerDay = int(math.Floor(float64(need) / needDay))
	}

	return Projection{
		Days: Days{
			Fixed:   s.FixedDay,
			Actual:  s.ActualDay + inProgress,
			Need:    needDay,
			Holiday: s.Holiday,
		},
		Times: Times{
			Fixed:        s.FixedTimes,
			Actual:       s.ActualTimes,
			Today:        today,
			PerDay:       fromReal(perday),
			Need:         FromMinutes(need),
			Expect:       fromReal(expectRaw),
			ExpectSign:   sign,
			ExpectPerDay: FromMinutes(expectPerDay),
		},
	}
}
