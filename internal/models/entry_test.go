// ABOUTME: Tests for Entry completion scoring and the mark-complete gate.
// ABOUTME: Verifies the four-step rules stay consistent with each other.
package models

import (
	"reflect"
	"testing"
)

func TestCompletionEmpty(t *testing.T) {
	e := NewEntry()
	if got := e.Completion(); got != 0 {
		t.Errorf("Completion() = %d, want 0", got)
	}
}

func TestCompletionStepValues(t *testing.T) {
	e := NewEntry()

	e.ExperienceText = "stood up in the meeting"
	if got := e.Completion(); got != 25 {
		t.Errorf("after experience: Completion() = %d, want 25", got)
	}

	e.ReflectionText = "felt defensive"
	if got := e.Completion(); got != 50 {
		t.Errorf("after reflection: Completion() = %d, want 50", got)
	}

	e.AbstractionText = "I assume shared context"
	if got := e.Completion(); got != 75 {
		t.Errorf("after abstraction: Completion() = %d, want 75", got)
	}

	e.Experiments = []Experiment{{Text: "write a context summary"}}
	if got := e.Completion(); got != 100 {
		t.Errorf("after experiment: Completion() = %d, want 100", got)
	}
}

func TestCompletionMonotonicAnyOrder(t *testing.T) {
	// Each step contributes 25 regardless of which other steps are set.
	steps := []func(*Entry){
		func(e *Entry) { e.ExperienceText = "x" },
		func(e *Entry) { e.ReflectionText = "x" },
		func(e *Entry) { e.AbstractionText = "x" },
		func(e *Entry) { e.NoExperimentNeeded = true },
	}

	orders := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	for _, order := range orders {
		e := NewEntry()
		prev := e.Completion()
		for _, i := range order {
			steps[i](e)
			got := e.Completion()
			if got != prev+25 {
				t.Errorf("order %v: Completion() = %d after step %d, want %d", order, got, i, prev+25)
			}
			prev = got
		}
	}
}

func TestNoExperimentNeededSatisfiesFourthStep(t *testing.T) {
	e := NewEntry()
	e.NoExperimentNeeded = true
	if got := e.Completion(); got != 25 {
		t.Errorf("Completion() = %d, want 25", got)
	}
}

func TestMissingStepsOrder(t *testing.T) {
	e := NewEntry()
	want := []string{"Experience", "Reflection", "Abstraction", "Experimentation"}
	if got := e.MissingSteps(); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingSteps() = %v, want %v", got, want)
	}

	// Filling a middle step keeps the others in fixed order.
	e.ReflectionText = "thoughts"
	want = []string{"Experience", "Abstraction", "Experimentation"}
	if got := e.MissingSteps(); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingSteps() = %v, want %v", got, want)
	}
}

func TestMissingStepsNoneWhenComplete(t *testing.T) {
	e := NewEntry()
	e.ExperienceText = "a"
	e.ReflectionText = "b"
	e.AbstractionText = "c"
	e.Experiments = []Experiment{{Text: "write notes"}}
	if got := e.MissingSteps(); len(got) != 0 {
		t.Errorf("MissingSteps() = %v, want empty", got)
	}
}

func TestCanMarkCompleteMatchesCompletion(t *testing.T) {
	// Exhaustively toggle the four conditions; the gate must pass
	// exactly when the score is 100.
	for mask := 0; mask < 16; mask++ {
		e := NewEntry()
		if mask&1 != 0 {
			e.ExperienceText = "a"
		}
		if mask&2 != 0 {
			e.ReflectionText = "b"
		}
		if mask&4 != 0 {
			e.AbstractionText = "c"
		}
		if mask&8 != 0 {
			e.NoExperimentNeeded = true
		}

		ok, reason := e.CanMarkComplete()
		if ok != (e.Completion() == 100) {
			t.Errorf("mask %04b: CanMarkComplete() = %v but Completion() = %d", mask, ok, e.Completion())
		}
		if !ok && reason == "" {
			t.Errorf("mask %04b: failed gate returned no reason", mask)
		}
		if ok && reason != "" {
			t.Errorf("mask %04b: passing gate returned reason %q", mask, reason)
		}
	}
}

func TestCanMarkCompleteReasons(t *testing.T) {
	e := NewEntry()
	_, reason := e.CanMarkComplete()
	if reason != "Experience text is required" {
		t.Errorf("reason = %q, want experience-required message", reason)
	}

	e.ExperienceText = "a"
	e.ReflectionText = "b"
	e.AbstractionText = "c"
	_, reason = e.CanMarkComplete()
	if reason != "At least one experiment is required (or mark 'No experiment needed')" {
		t.Errorf("reason = %q, want experiment-required message", reason)
	}
}

func TestIsValidValence(t *testing.T) {
	for _, v := range []string{"positive", "negative", "neutral"} {
		if !IsValidValence(v) {
			t.Errorf("IsValidValence(%q) = false, want true", v)
		}
	}
	if IsValidValence("ecstatic") {
		t.Error("IsValidValence(\"ecstatic\") = true, want false")
	}
}
