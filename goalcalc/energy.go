package goalcalc

// EstimateBMR computes Basal Metabolic Rate (kcal/day) with Mifflin-St Jeor:
// 10*kg + 6.25*cm - 5*age, then +5 for male or -161 for female.
func (e *Engine) EstimateBMR(p UserProfile) (float64, error) {
	if p.Age <= 0 {
		return 0, invalid("age", "must be positive (got %d)", p.Age)
	}
	sex, err := ParseSex(string(p.Sex))
	if err != nil {
		return 0, err
	}
	if !positive(p.Weight) {
		return 0, invalid("weight", "must be positive (got %v)", p.Weight)
	}
	if p.HeightFt < 0 {
		return 0, invalid("height_ft", "must not be negative (got %v)", p.HeightFt)
	}
	if p.HeightIn < 0 {
		return 0, invalid("height_in", "must not be negative (got %v)", p.HeightIn)
	}
	heightIn := NormalizeHeight(p.HeightFt, p.HeightIn)
	if !positive(heightIn) {
		return 0, invalid("height_ft", "total height must be positive (got %v in)", heightIn)
	}

	bmr := 10*poundsToKg(p.Weight) + 6.25*inchesToCm(heightIn) - 5*float64(p.Age)
	if sex == Male {
		bmr += 5
	} else {
		bmr -= 161
	}
	// Very small or very old bodies can drive the linear formula to zero or below.
	if bmr <= 0 {
		return 0, invalid("weight", "profile yields a non-positive BMR (%.1f kcal)", bmr)
	}
	return bmr, nil
}

// EstimateTDEE scales bmr by the multiplier for level. Unknown levels are an
// error, never a default multiplier.
func (e *Engine) EstimateTDEE(bmr float64, level ActivityLevel) (float64, error) {
	lvl, err := ParseActivityLevel(string(level))
	if err != nil {
		return 0, err
	}
	return bmr * e.tables.ActivityMultipliers[lvl], nil
}
