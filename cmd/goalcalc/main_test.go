package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestRun_ReferenceProfile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-age", "30", "-sex", "male", "-ft", "5", "-in", "10",
		"-weight", "200", "-target", "180", "-activity", "moderate",
		"-start", "2026-01-05", "-end", "2026-05-25",
	}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"2404 kcal/day (-500)",
		"180g protein, 240g carbs, 80g fat",
		"-1.00 lb/week over 20.0 weeks",
		"(Overweight)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "note:") {
		t.Errorf("unexpected note in output:\n%s", out)
	}
}

func TestRun_ValidationErrorExitsOne(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"bad sex", []string{"-sex", "x", "-end", "2026-05-25"}, "sex"},
		{"bad activity", []string{"-sex", "female", "-activity", "couch", "-end", "2026-05-25"}, "activity"},
		{"bad end date", []string{"-sex", "female", "-end", "25/05/2026"}, "end_date"},
		{"missing end date", []string{"-age", "30", "-sex", "female", "-ft", "5", "-in", "4",
			"-weight", "150", "-target", "140", "-start", "2026-01-05"}, "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr.String(), "invalid "+tt.field) {
				t.Errorf("stderr = %q, want mention of %s", stderr.String(), tt.field)
			}
		})
	}
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-nope"}, &stdout, &stderr); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

// TestRun_DefaultGoalFollowsTarget verifies an omitted -goal never produces a
// mismatch note, whichever way the target points.
func TestRun_DefaultGoalFollowsTarget(t *testing.T) {
	for _, target := range []string{"180", "210", "200"} {
		var stdout, stderr bytes.Buffer
		code := run([]string{
			"-age", "30", "-sex", "male", "-ft", "5", "-in", "10",
			"-weight", "200", "-target", target,
			"-start", "2026-01-05", "-end", "2026-05-25",
		}, &stdout, &stderr)
		if code != 0 {
			t.Fatalf("target %s: exit code = %d, stderr: %s", target, code, stderr.String())
		}
		if strings.Contains(stdout.String(), "goal type disagrees") {
			t.Errorf("target %s: unexpected mismatch note:\n%s", target, stdout.String())
		}
	}
}
