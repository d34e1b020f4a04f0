package goalcalc

import (
	"math"
	"time"
)

const (
	lbPerKg   = 2.20462
	cmPerInch = 2.54
)

// NormalizeHeight returns total height in inches. heightIn of 12 or more is
// summed as-is rather than rejected.
func NormalizeHeight(heightFt, heightIn float64) float64 {
	return heightFt*12 + heightIn
}

func poundsToKg(lb float64) float64 { return lb / lbPerKg }

func inchesToCm(in float64) float64 { return in * cmPerInch }

// positive reports whether x is a usable positive measurement (rejects NaN and +Inf).
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// calendarDay drops the time of day and zone, keeping the y/m/d the caller saw.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
