package worktime

import (
	"fmt"
	"math"
)

// TimeValue is the canonical duration / time-of-day representation.
// Minutes may be negative; the hour component uses floor division so that
// -5 minutes is displayed as "-1:55".
type TimeValue struct {
	Minutes int    `json:"minutes"`
	Hour    int    `json:"hour"` // magnitude of the floored hour
	Min     string `json:"min"`  // two digits, 00-59
	Display string `json:"display"`
}

// FromMinutes builds a TimeValue from a signed minute count.
func FromMinutes(minutes int) TimeValue {
	hour := floorDiv(minutes, 60)
	rem := minutes - hour*60
	return TimeValue{
		Minutes: minutes,
		Hour:    abs(hour),
		Min:     fmt.Sprintf("%02d", rem),
		Display: fmt.Sprintf("%d:%02d", hour, rem),
	}
}

// FromClock builds a TimeValue from an [hours, minutes] pair.
func FromClock(hm [2]int) TimeValue {
	return FromMinutes(hm[0]*60 + hm[1])
}

// fromReal rounds a fractional minute count to the nearest minute.
func fromReal(minutes float64) TimeValue {
	return FromMinutes(int(math.Round(minutes)))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
