// Package goalcalc turns a body profile and weight goal into a daily calorie
// target, macro split, BMI classification, and weight-change projection.
//
// Every function is a pure computation over its arguments and the Engine's
// read-only Tables. An Engine is safe for concurrent use.
package goalcalc

import (
	"math"
	"time"
)

// Engine computes plans against one fixed set of Tables.
type Engine struct {
	tables Tables
}

// New validates t and returns an Engine holding a private copy of it.
func New(t Tables) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Engine{tables: t.clone()}, nil
}

var defaultEngine = func() *Engine {
	e, err := New(DefaultTables())
	if err != nil {
		panic(err)
	}
	return e
}()

// Default returns the Engine built from DefaultTables.
func Default() *Engine { return defaultEngine }

// Compute runs the default Engine.
func Compute(p UserProfile) (CalculatedResults, error) {
	return defaultEngine.Compute(p)
}

// Tables returns a copy of the tables e computes with.
func (e *Engine) Tables() Tables { return e.tables.clone() }

// Compute runs the full pipeline: height normalization, BMR, TDEE, BMI, goal
// delta, then calorie and macro allocation. The first stage to reject the
// profile stops the pipeline and its *ValidationError is returned as-is.
// Enum fields are parsed first, so "Male" or " moderate " compute exactly like
// their canonical forms.
func (e *Engine) Compute(p UserProfile) (CalculatedResults, error) {
	p, err := p.canonical()
	if err != nil {
		return CalculatedResults{}, err
	}

	heightIn := NormalizeHeight(p.HeightFt, p.HeightIn)
	bmr, err := e.EstimateBMR(p)
	if err != nil {
		return CalculatedResults{}, err
	}
	tdee, err := e.EstimateTDEE(bmr, p.Activity)
	if err != nil {
		return CalculatedResults{}, err
	}
	bmi, err := e.ClassifyBMI(p.Weight, heightIn)
	if err != nil {
		return CalculatedResults{}, err
	}
	delta, err := e.ComputeGoalDelta(p)
	if err != nil {
		return CalculatedResults{}, err
	}
	alloc, err := e.Allocate(tdee, delta.DailyDelta, p.Sex)
	if err != nil {
		return CalculatedResults{}, err
	}

	return CalculatedResults{
		BMR:          bmr,
		TDEE:         tdee,
		BMI:          bmi.BMI,
		BMICategory:  bmi.Category,
		WeeklyChange: delta.WeeklyChange,
		DailyDelta:   delta.DailyDelta,
		Calories:     alloc.Calories,
		Protein:      alloc.Protein,
		Carbs:        alloc.Carbs,
		Fat:          alloc.Fat,
		TotalWeeks:   delta.TotalWeeks,

		ProjectedWeight:     projectWeight(p.Weight, p.TargetWeight, delta.WeeklyChange, delta.TotalWeeks),
		WeeksToGoal:         weeksToGoal(p.Weight, p.TargetWeight, delta.WeeklyChange),
		GoalMismatch:        DirectionOf(p.Weight, p.TargetWeight) != p.GoalType,
		CalorieFloorApplied: alloc.FloorApplied,
	}, nil
}

/* ─── Projection ─────────────────────────────────────────────────────── */

// ProjectionPoint is the expected weight on one date of the plan.
type ProjectionPoint struct {
	Date   time.Time `json:"date"`
	Week   float64   `json:"week"`
	Weight float64   `json:"weight"`
}

// Projection lays out the plan week by week from StartDate, with a final point
// on EndDate when the range is not a whole number of weeks. Weight moves at
// r.WeeklyChange and holds at TargetWeight once reached: a clamp that raised a
// slow rate to the band minimum must not project past the goal.
func Projection(p UserProfile, r CalculatedResults) []ProjectionPoint {
	start := calendarDay(p.StartDate)
	fullWeeks := int(math.Floor(r.TotalWeeks))
	points := make([]ProjectionPoint, 0, fullWeeks+2)
	for i := 0; i <= fullWeeks; i++ {
		wk := float64(i)
		points = append(points, ProjectionPoint{
			Date:   start.AddDate(0, 0, 7*i),
			Week:   wk,
			Weight: projectWeight(p.Weight, p.TargetWeight, r.WeeklyChange, wk),
		})
	}
	if r.TotalWeeks > float64(fullWeeks) {
		points = append(points, ProjectionPoint{
			Date:   calendarDay(p.EndDate),
			Week:   r.TotalWeeks,
			Weight: r.ProjectedWeight,
		})
	}
	return points
}

func projectWeight(weight, target, weeklyChange, weeks float64) float64 {
	w := weight + weeklyChange*weeks
	switch {
	case weeklyChange < 0:
		return math.Max(w, target)
	case weeklyChange > 0:
		return math.Min(w, target)
	default:
		return weight
	}
}

func weeksToGoal(weight, target, weeklyChange float64) float64 {
	if weeklyChange == 0 {
		return 0
	}
	return math.Abs(target-weight) / math.Abs(weeklyChange)
}
