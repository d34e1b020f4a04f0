package goalcalc

// BMIResult is a BMI value and the table row it falls in.
type BMIResult struct {
	BMI      float64
	Category BMICategory
}

// ClassifyBMI computes 703 * lb / in² and scans the category table top to
// bottom for the first row whose Max exceeds it. A BMI exactly on a threshold
// belongs to the next row up.
func (e *Engine) ClassifyBMI(weightLb, heightInches float64) (BMIResult, error) {
	if !positive(weightLb) {
		return BMIResult{}, invalid("weight", "must be positive (got %v)", weightLb)
	}
	if !positive(heightInches) {
		return BMIResult{}, invalid("height_ft", "total height must be positive (got %v in)", heightInches)
	}

	bmi := 703 * weightLb / (heightInches * heightInches)
	cats := e.tables.BMICategories
	for _, c := range cats {
		if c.Max > bmi {
			return BMIResult{BMI: bmi, Category: c}, nil
		}
	}
	// Unreachable with a validated table; the +Inf row always matches.
	return BMIResult{BMI: bmi, Category: cats[len(cats)-1]}, nil
}
