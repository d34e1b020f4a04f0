package goalcalc

import (
	"math"
	"time"
)

// GoalDelta is the plan's pace. RawWeeklyRate is what hitting the target
// exactly on EndDate would take; WeeklyChange is that rate after the safety
// clamp, and the one every calorie figure is derived from.
type GoalDelta struct {
	RawWeeklyRate float64
	WeeklyChange  float64
	DailyDelta    int
	TotalWeeks    float64
}

// TotalWeeks returns the calendar-day span from start to end in weeks.
func TotalWeeks(start, end time.Time) (float64, error) {
	if start.IsZero() {
		return 0, invalid("start_date", "is required")
	}
	if end.IsZero() {
		return 0, invalid("end_date", "is required")
	}
	days := calendarDay(end).Sub(calendarDay(start)).Hours() / 24
	weeks := days / 7
	if weeks <= 0 {
		return 0, invalid("end_date", "must be after start_date (%s is not after %s)",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return weeks, nil
}

// ComputeGoalDelta derives the weekly rate from the weight gap and date range,
// clamps it into the safe band for its direction, and converts it to a daily
// calorie delta. Direction comes from the sign of TargetWeight - Weight; the
// GoalType label never overrides it.
func (e *Engine) ComputeGoalDelta(p UserProfile) (GoalDelta, error) {
	weeks, err := TotalWeeks(p.StartDate, p.EndDate)
	if err != nil {
		return GoalDelta{}, err
	}
	if !positive(p.Weight) {
		return GoalDelta{}, invalid("weight", "must be positive (got %v)", p.Weight)
	}
	if !positive(p.TargetWeight) {
		return GoalDelta{}, invalid("target_weight", "must be positive (got %v)", p.TargetWeight)
	}

	raw := (p.TargetWeight - p.Weight) / weeks
	weekly := e.clampWeeklyRate(raw)
	daily := int(math.Round(weekly * e.tables.Safety.KcalPerPound / 7))
	return GoalDelta{
		RawWeeklyRate: raw,
		WeeklyChange:  weekly,
		DailyDelta:    daily,
		TotalWeeks:    weeks,
	}, nil
}

// clampWeeklyRate raises a too-slow rate to its band's minimum and caps a
// too-fast one at the maximum. A rate already inside the band is returned
// unchanged, bit for bit.
func (e *Engine) clampWeeklyRate(raw float64) float64 {
	s := e.tables.Safety
	switch {
	case raw < 0:
		return -clampMagnitude(-raw, s.LossMin, s.LossMax)
	case raw > 0:
		return clampMagnitude(raw, s.GainMin, s.GainMax)
	default:
		return 0
	}
}

func clampMagnitude(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DirectionOf maps the arithmetic sign of the weight gap to the goal it implies.
// Compute flags GoalMismatch when the stated GoalType differs from it.
func DirectionOf(weight, target float64) GoalType {
	switch {
	case target < weight:
		return Lose
	case target > weight:
		return Gain
	default:
		return Maintain
	}
}
