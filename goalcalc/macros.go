package goalcalc

import "math"

// Allocation is the daily calorie target and its macro split in grams.
type Allocation struct {
	Calories     int
	Protein      int
	Carbs        int
	Fat          int
	FloorApplied bool
}

// Allocate applies dailyDelta to tdee, raises the result to the calorie floor
// for sex, and splits it into macro grams by the table's calorie shares. Each
// macro is rounded on its own; grams are not reconciled afterwards, so the
// reconstructed energy may differ from Calories by up to MacroToleranceKcal.
func (e *Engine) Allocate(tdee float64, dailyDelta int, sex Sex) (Allocation, error) {
	s, err := ParseSex(string(sex))
	if err != nil {
		return Allocation{}, err
	}
	floor := e.tables.Safety.CalorieFloor[s]

	a := Allocation{Calories: int(math.Round(tdee + float64(dailyDelta)))}
	if a.Calories < floor {
		a.Calories = floor
		a.FloorApplied = true
	}

	kcal := float64(a.Calories)
	m := e.tables.Macros
	a.Protein = int(math.Round(kcal * m.Protein / KcalPerGramProtein))
	a.Carbs = int(math.Round(kcal * m.Carbs / KcalPerGramCarbs))
	a.Fat = int(math.Round(kcal * m.Fat / KcalPerGramFat))
	return a, nil
}

// MacroKcal is the energy the macro grams add back up to.
func MacroKcal(protein, carbs, fat int) int {
	return protein*KcalPerGramProtein + carbs*KcalPerGramCarbs + fat*KcalPerGramFat
}
