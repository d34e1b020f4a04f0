// Command goalcalc computes a goal plan from flags and prints it.
// Usage:
//
//	go run ./cmd/goalcalc -age 30 -sex male -ft 5 -in 10 -weight 200 -target 180 \
//	    -activity moderate -goal lose -start 2026-01-05 -end 2026-05-25
//
// Exits 1 when the profile is rejected, 2 on bad flags.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"lg/goal-engine-api/goalcalc"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("goalcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	age := fs.Int("age", 0, "age in years")
	sex := fs.String("sex", "", "male or female")
	ft := fs.Float64("ft", 0, "height, feet part")
	in := fs.Float64("in", 0, "height, inches part")
	weight := fs.Float64("weight", 0, "current weight (lb)")
	target := fs.Float64("target", 0, "target weight (lb)")
	activity := fs.String("activity", "sedentary", "sedentary|light|moderate|very|extra")
	goal := fs.String("goal", "", "lose|maintain|gain (defaults to the direction of -target)")
	start := fs.String("start", time.Now().Format(time.DateOnly), "plan start date (YYYY-MM-DD)")
	end := fs.String("end", "", "plan end date (YYYY-MM-DD)")
	tables := fs.String("tables", "", "YAML tables file overriding the built-in defaults")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	p, err := buildProfile(*age, *sex, *ft, *in, *weight, *target, *activity, *goal, *start, *end)
	if err != nil {
		return fail(stderr, err)
	}

	engine := goalcalc.Default()
	if *tables != "" {
		t, err := goalcalc.LoadTablesFile(*tables)
		if err != nil {
			return fail(stderr, err)
		}
		if engine, err = goalcalc.New(t); err != nil {
			return fail(stderr, err)
		}
	}

	r, err := engine.Compute(p)
	if err != nil {
		return fail(stderr, err)
	}
	printResults(stdout, r)
	return 0
}

// buildProfile parses the string flags. Enum and date errors surface as
// *goalcalc.ValidationError like the engine's own.
func buildProfile(age int, sex string, ft, in, weight, target float64, activity, goal, start, end string) (goalcalc.UserProfile, error) {
	s, err := goalcalc.ParseSex(sex)
	if err != nil {
		return goalcalc.UserProfile{}, err
	}
	lvl, err := goalcalc.ParseActivityLevel(activity)
	if err != nil {
		return goalcalc.UserProfile{}, err
	}
	if goal == "" {
		goal = string(goalcalc.DirectionOf(weight, target))
	}
	g, err := goalcalc.ParseGoalType(goal)
	if err != nil {
		return goalcalc.UserProfile{}, err
	}
	startDate, err := parseDate("start_date", start)
	if err != nil {
		return goalcalc.UserProfile{}, err
	}
	endDate, err := parseDate("end_date", end)
	if err != nil {
		return goalcalc.UserProfile{}, err
	}
	return goalcalc.UserProfile{
		Age:          age,
		Sex:          s,
		HeightFt:     ft,
		HeightIn:     in,
		Weight:       weight,
		TargetWeight: target,
		Activity:     lvl,
		GoalType:     g,
		StartDate:    startDate,
		EndDate:      endDate,
	}, nil
}

// parseDate leaves an empty value as the zero time so the engine reports it
// as required.
func parseDate(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, &goalcalc.ValidationError{Field: field, Reason: fmt.Sprintf("expected YYYY-MM-DD (got %q)", v)}
	}
	return t, nil
}

func fail(w io.Writer, err error) int {
	var ve *goalcalc.ValidationError
	if errors.As(err, &ve) {
		color.New(color.FgRed).Fprintf(w, "%v\n", ve)
		return 1
	}
	color.New(color.FgRed).Fprintf(w, "error: %v\n", err)
	return 1
}

func printResults(w io.Writer, r goalcalc.CalculatedResults) {
	label := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %.0f kcal\n", label("BMR:     "), r.BMR)
	fmt.Fprintf(w, "%s %.0f kcal\n", label("TDEE:    "), r.TDEE)
	fmt.Fprintf(w, "%s %.1f (%s)\n", label("BMI:     "), r.BMI, r.BMICategory.Name)
	fmt.Fprintf(w, "%s %+.2f lb/week over %.1f weeks\n", label("Rate:    "), r.WeeklyChange, r.TotalWeeks)
	fmt.Fprintf(w, "%s %s kcal/day (%+d)\n", label("Calories:"), bold(r.Calories), r.DailyDelta)
	fmt.Fprintf(w, "%s %dg protein, %dg carbs, %dg fat\n", label("Macros:  "), r.Protein, r.Carbs, r.Fat)
	fmt.Fprintf(w, "%s %.1f lb at end date", label("Projects:"), r.ProjectedWeight)
	if r.WeeksToGoal > 0 {
		fmt.Fprintf(w, ", goal in %.1f weeks", r.WeeksToGoal)
	}
	fmt.Fprintln(w)

	warn := color.New(color.FgYellow)
	if r.GoalMismatch {
		warn.Fprintln(w, "note: goal type disagrees with the target weight; the plan follows the target")
	}
	if r.CalorieFloorApplied {
		warn.Fprintln(w, "note: calories raised to the safety floor")
	}
}
