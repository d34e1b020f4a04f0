package goalcalc

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Sex selects the sex-specific BMR constant and calorie floor.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex accepts "male" or "female" (case-insensitive, surrounding space ignored).
func ParseSex(s string) (Sex, error) {
	switch v := Sex(strings.ToLower(strings.TrimSpace(s))); v {
	case Male, Female:
		return v, nil
	}
	return "", invalid("sex", "must be one of: male, female (got %q)", s)
}

// ActivityLevel keys into Tables.ActivityMultipliers.
type ActivityLevel string

const (
	Sedentary ActivityLevel = "sedentary"
	Light     ActivityLevel = "light"
	Moderate  ActivityLevel = "moderate"
	Very      ActivityLevel = "very"
	Extra     ActivityLevel = "extra"
)

// ActivityLevels lists the known levels from least to most active.
var ActivityLevels = []ActivityLevel{Sedentary, Light, Moderate, Very, Extra}

// ParseActivityLevel rejects anything outside ActivityLevels. Defaulting an
// unknown key to some multiplier would hide a caller bug behind a plausible number.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	v := ActivityLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, lvl := range ActivityLevels {
		if v == lvl {
			return v, nil
		}
	}
	return "", invalid("activity", "must be one of: sedentary, light, moderate, very, extra (got %q)", s)
}

// GoalType is the user's stated intent. It is advisory: the arithmetic sign of
// targetWeight - weight decides the direction of the plan.
type GoalType string

const (
	Lose     GoalType = "lose"
	Maintain GoalType = "maintain"
	Gain     GoalType = "gain"
)

// ParseGoalType accepts "lose", "maintain", or "gain" (case-insensitive).
func ParseGoalType(s string) (GoalType, error) {
	switch v := GoalType(strings.ToLower(strings.TrimSpace(s))); v {
	case Lose, Maintain, Gain:
		return v, nil
	}
	return "", invalid("goal_type", "must be one of: lose, maintain, gain (got %q)", s)
}

// UserProfile is the body profile and goal a plan is computed from.
// Weights are in pounds. Only the calendar day of StartDate/EndDate is used.
type UserProfile struct {
	Age          int           `json:"age"`
	Sex          Sex           `json:"sex"`
	HeightFt     float64       `json:"height_ft"`
	HeightIn     float64       `json:"height_in"`
	Weight       float64       `json:"weight"`
	TargetWeight float64       `json:"target_weight"`
	Activity     ActivityLevel `json:"activity"`
	GoalType     GoalType      `json:"goal_type"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
}

// canonical returns p with Sex, Activity, and GoalType replaced by their
// parsed values.
func (p UserProfile) canonical() (UserProfile, error) {
	sex, err := ParseSex(string(p.Sex))
	if err != nil {
		return p, err
	}
	lvl, err := ParseActivityLevel(string(p.Activity))
	if err != nil {
		return p, err
	}
	goal, err := ParseGoalType(string(p.GoalType))
	if err != nil {
		return p, err
	}
	p.Sex, p.Activity, p.GoalType = sex, lvl, goal
	return p, nil
}

// BMICategory is one row of the ordered BMI table. A BMI belongs to the first
// row whose Max is strictly greater than it.
type BMICategory struct {
	Name  string  `json:"name"  yaml:"name"`
	Class string  `json:"class" yaml:"class"`
	Color string  `json:"color" yaml:"color"`
	Max   float64 `json:"max"   yaml:"max"`
}

// CalculatedResults is everything Compute derives from one UserProfile.
// WeeklyChange is the safety-clamped rate, not the naive target/date rate.
type CalculatedResults struct {
	BMR          float64     `json:"bmr"`
	TDEE         float64     `json:"tdee"`
	BMI          float64     `json:"bmi"`
	BMICategory  BMICategory `json:"bmi_category"`
	WeeklyChange float64     `json:"weekly_change"`
	DailyDelta   int         `json:"daily_delta"`
	Calories     int         `json:"calories"`
	Protein      int         `json:"protein"`
	Carbs        int         `json:"carbs"`
	Fat          int         `json:"fat"`
	TotalWeeks   float64     `json:"total_weeks"`

	ProjectedWeight     float64 `json:"projected_weight"`
	WeeksToGoal         float64 `json:"weeks_to_goal"`
	GoalMismatch        bool    `json:"goal_mismatch"`
	CalorieFloorApplied bool    `json:"calorie_floor_applied"`
}

// bmiCategoryJSON mirrors BMICategory with a nullable Max: encoding/json
// cannot represent +Inf, so the open-ended top row travels as null.
type bmiCategoryJSON struct {
	Name  string   `json:"name"`
	Class string   `json:"class"`
	Color string   `json:"color"`
	Max   *float64 `json:"max"`
}

func (c BMICategory) MarshalJSON() ([]byte, error) {
	out := bmiCategoryJSON{Name: c.Name, Class: c.Class, Color: c.Color}
	if !math.IsInf(c.Max, 1) {
		out.Max = &c.Max
	}
	return json.Marshal(out)
}

func (c *BMICategory) UnmarshalJSON(b []byte) error {
	var in bmiCategoryJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*c = BMICategory{Name: in.Name, Class: in.Class, Color: in.Color, Max: math.Inf(1)}
	if in.Max != nil {
		c.Max = *in.Max
	}
	return nil
}
