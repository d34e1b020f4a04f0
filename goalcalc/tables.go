package goalcalc

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SafetyBounds is the weekly weight-change envelope (lb/week, magnitudes) and
// the absolute calorie floor a plan may never go below.
type SafetyBounds struct {
	LossMin      float64     `yaml:"loss_min"`
	LossMax      float64     `yaml:"loss_max"`
	GainMin      float64     `yaml:"gain_min"`
	GainMax      float64     `yaml:"gain_max"`
	CalorieFloor map[Sex]int `yaml:"calorie_floor"`
	KcalPerPound float64     `yaml:"kcal_per_pound"`
}

// MacroSplit is the share of daily calories given to each macro. Shares sum to 1.
type MacroSplit struct {
	Protein float64 `yaml:"protein"`
	Carbs   float64 `yaml:"carbs"`
	Fat     float64 `yaml:"fat"`
}

// Tables holds every constant the engine computes with. An Engine keeps its
// own copy, so callers may reuse or mutate the value they passed to New.
type Tables struct {
	ActivityMultipliers map[ActivityLevel]float64 `yaml:"activity_multipliers"`
	BMICategories       []BMICategory             `yaml:"bmi_categories"`
	Safety              SafetyBounds              `yaml:"safety"`
	Macros              MacroSplit                `yaml:"macros"`
}

// Energy density in kcal per gram.
const (
	KcalPerGramProtein = 4
	KcalPerGramCarbs   = 4
	KcalPerGramFat     = 9
)

// MacroToleranceKcal bounds |calories - (protein*4 + carbs*4 + fat*9)|. Each
// macro is rounded independently, so the worst case is 0.5*4 + 0.5*4 + 0.5*9 = 8.5.
const MacroToleranceKcal = 10

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		ActivityMultipliers: map[ActivityLevel]float64{
			Sedentary: 1.2,
			Light:     1.375,
			Moderate:  1.55,
			Very:      1.725,
			Extra:     1.9,
		},
		BMICategories: []BMICategory{
			{Name: "Underweight", Class: "bmi-underweight", Color: "#4FC3F7", Max: 18.5},
			{Name: "Normal", Class: "bmi-normal", Color: "#4CAF50", Max: 25},
			{Name: "Overweight", Class: "bmi-overweight", Color: "#FFB300", Max: 30},
			{Name: "Obese", Class: "bmi-obese", Color: "#E53935", Max: math.Inf(1)},
		},
		Safety: SafetyBounds{
			LossMin:      0.5,
			LossMax:      2.0,
			GainMin:      0.25,
			GainMax:      0.5,
			CalorieFloor: map[Sex]int{Male: 1500, Female: 1200},
			KcalPerPound: 3500,
		},
		Macros: MacroSplit{Protein: 0.30, Carbs: 0.40, Fat: 0.30},
	}
}

// LoadTables decodes YAML on top of DefaultTables and validates the result.
// Map entries are merged key by key; a bmi_categories list replaces the whole table.
func LoadTables(r io.Reader) (Tables, error) {
	t := DefaultTables()
	if err := yaml.NewDecoder(r).Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tables{}, fmt.Errorf("decode tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// LoadTablesFile reads a tables file, expanding $VAR references from the
// environment before decoding.
func LoadTablesFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read tables file: %w", err)
	}
	return LoadTables(strings.NewReader(os.ExpandEnv(string(data))))
}

// Validate checks the invariants the engine relies on: tdee >= bmr, a BMI
// table that always matches, ordered safety bands, and a complete macro split.
func (t Tables) Validate() error {
	for _, lvl := range ActivityLevels {
		m, ok := t.ActivityMultipliers[lvl]
		if !ok {
			return fmt.Errorf("tables: missing activity multiplier for %q", lvl)
		}
		if !finite(m) || m < 1.2 || m > 1.9 {
			return fmt.Errorf("tables: activity multiplier for %q is %v, want within [1.2, 1.9]", lvl, m)
		}
	}

	if len(t.BMICategories) == 0 {
		return errors.New("tables: bmi_categories is empty")
	}
	// Every row but the last is finite and above its predecessor; the last is
	// +Inf, so it is above them all.
	for i, c := range t.BMICategories[:len(t.BMICategories)-1] {
		if !finite(c.Max) {
			return fmt.Errorf("tables: bmi category %q has max %v; only the last row may be .inf", c.Name, c.Max)
		}
		if i > 0 && c.Max <= t.BMICategories[i-1].Max {
			return fmt.Errorf("tables: bmi_categories not strictly ascending at %q", c.Name)
		}
	}
	if last := t.BMICategories[len(t.BMICategories)-1]; !math.IsInf(last.Max, 1) {
		return fmt.Errorf("tables: last bmi category %q must have max .inf", last.Name)
	}

	s := t.Safety
	for name, v := range map[string]float64{
		"loss_min": s.LossMin, "loss_max": s.LossMax,
		"gain_min": s.GainMin, "gain_max": s.GainMax,
		"kcal_per_pound": s.KcalPerPound,
	} {
		if !finite(v) {
			return fmt.Errorf("tables: %s is %v, want a finite number", name, v)
		}
	}
	if s.LossMin <= 0 || s.LossMax < s.LossMin {
		return fmt.Errorf("tables: loss band [%v, %v] must be positive and ordered", s.LossMin, s.LossMax)
	}
	if s.GainMin <= 0 || s.GainMax < s.GainMin {
		return fmt.Errorf("tables: gain band [%v, %v] must be positive and ordered", s.GainMin, s.GainMax)
	}
	if s.KcalPerPound <= 0 {
		return errors.New("tables: kcal_per_pound must be positive")
	}
	for _, sex := range []Sex{Male, Female} {
		if s.CalorieFloor[sex] <= 0 {
			return fmt.Errorf("tables: calorie floor for %q must be positive", sex)
		}
	}

	m := t.Macros
	if !finite(m.Protein) || !finite(m.Carbs) || !finite(m.Fat) {
		return errors.New("tables: macro shares must be finite")
	}
	if m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
		return errors.New("tables: macro shares must be non-negative")
	}
	if sum := m.Protein + m.Carbs + m.Fat; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("tables: macro shares sum to %v, want 1", sum)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func (t Tables) clone() Tables {
	t.ActivityMultipliers = maps.Clone(t.ActivityMultipliers)
	t.BMICategories = slices.Clone(t.BMICategories)
	t.Safety.CalorieFloor = maps.Clone(t.Safety.CalorieFloor)
	return t
}
