package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"lg/goal-engine-api/goalcalc"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(time.DateOnly) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL zeroes the time.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// goalProfile maps to goal_profiles (one row per user) and doubles as the
// request body for PUT /api/goal-profile and POST /api/goal-plan/preview.
// Enum fields stay plain strings here; toUserProfile validates them.
type goalProfile struct {
	UserID          int        `json:"user_id"           db:"user_id"`
	Age             int        `json:"age"               db:"age"`
	Sex             string     `json:"sex"               db:"sex"`
	HeightFt        float64    `json:"height_ft"         db:"height_ft"`
	HeightIn        float64    `json:"height_in"         db:"height_in"`
	WeightLBS       float64    `json:"weight_lbs"        db:"weight_lbs"`
	TargetWeightLBS float64    `json:"target_weight_lbs" db:"target_weight_lbs"`
	ActivityLevel   string     `json:"activity_level"    db:"activity_level"`
	GoalType        string     `json:"goal_type"         db:"goal_type"`
	StartDate       DateOnly   `json:"start_date"        db:"start_date"`
	EndDate         DateOnly   `json:"end_date"          db:"end_date"`
	UpdatedAt       *time.Time `json:"updated_at"        db:"updated_at"`
}

// toUserProfile converts the stored/request shape into the engine's input,
// rejecting unknown enum values before any computation runs.
func (g goalProfile) toUserProfile() (goalcalc.UserProfile, error) {
	sex, err := goalcalc.ParseSex(g.Sex)
	if err != nil {
		return goalcalc.UserProfile{}, err
	}
	activity, err := goalcalc.ParseActivityLevel(g.ActivityLevel)
	if err != nil {
		return goalcalc.UserProfile{}, err
	}
	goal, err := goalcalc.ParseGoalType(g.GoalType)
	if err != nil {
		return goalcalc.UserProfile{}, err
	}
	return goalcalc.UserProfile{
		Age:          g.Age,
		Sex:          sex,
		HeightFt:     g.HeightFt,
		HeightIn:     g.HeightIn,
		Weight:       g.WeightLBS,
		TargetWeight: g.TargetWeightLBS,
		Activity:     activity,
		GoalType:     goal,
		StartDate:    g.StartDate.Time,
		EndDate:      g.EndDate.Time,
	}, nil
}

// goalPlan maps to goal_plans: an immutable snapshot of a computed plan and
// the profile it was computed from. Profile and Results are JSONB columns.
type goalPlan struct {
	ID        uuid.UUID                  `json:"id"         db:"id"`
	UserID    int                        `json:"user_id"    db:"user_id"`
	Profile   goalProfile                `json:"profile"    db:"profile"`
	Results   goalcalc.CalculatedResults `json:"results"    db:"results"`
	CreatedAt *time.Time                 `json:"created_at" db:"created_at"`
}

// weightEntry maps to weight_log. One row per user per date.
type weightEntry struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	WeightLBS float64    `json:"weight_lbs" db:"weight_lbs"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// goalPlanResponse is the shape of GET /api/goal-plan: the results plus the
// profile actually computed from (its weight may come from the weight log).
type goalPlanResponse struct {
	Profile goalProfile                `json:"profile"`
	Results goalcalc.CalculatedResults `json:"results"`
}

// progressResponse is the shape of GET /api/goal-plan/progress.
// Weights holds logged entries inside the plan's date range, oldest first.
type progressResponse struct {
	Projection []goalcalc.ProjectionPoint `json:"projection"`
	Weights    []weightEntry              `json:"weights"`
	Results    goalcalc.CalculatedResults `json:"results"`
}
