package clinical

import (
	"testing"

	"github.com/smartmri/planner/analyze"
)

func TestEvaluateEGFRThresholds(t *testing.T) {
	tests := []struct {
		egfr        string
		wantReduced bool
		wantNoGad   bool
	}{
		{"75", false, false},
		{"60", false, false},
		{"59.9", true, false},
		{"45", true, false},
		{"30", true, false},
		{"29.9", true, true},
		{"15", true, true},
	}
	for _, tt := range tests {
		profile := analyze.PatientProfile{
			Measurements: map[string]string{"eGFR": tt.egfr + " mL/min"},
		}
		flags := Evaluate(profile)
		if flags.EGFR == nil {
			t.Fatalf("egfr %s: value not parsed", tt.egfr)
		}
		if flags.ReducedRenalFunction != tt.wantReduced {
			t.Errorf("egfr %s: reduced = %v, want %v", tt.egfr, flags.ReducedRenalFunction, tt.wantReduced)
		}
		if flags.ContrastContraindicated != tt.wantNoGad {
			t.Errorf("egfr %s: contraindicated = %v, want %v", tt.egfr, flags.ContrastContraindicated, tt.wantNoGad)
		}
	}
}

func TestEvaluateNoEGFR(t *testing.T) {
	flags := Evaluate(analyze.PatientProfile{Conditions: []string{"hypertension"}})
	if flags.EGFR != nil {
		t.Errorf("expected nil eGFR, got %v", *flags.EGFR)
	}
	if flags.ReducedRenalFunction || flags.ContrastContraindicated {
		t.Error("renal flags must stay false without an eGFR")
	}
}

func TestEvaluateLastEGFRWins(t *testing.T) {
	profile := analyze.PatientProfile{
		Conditions:   []string{"eGFR 80 at baseline", "repeat eGFR 25 this week"},
		Measurements: map[string]string{},
	}
	flags := Evaluate(profile)
	if flags.EGFR == nil || *flags.EGFR != 25 {
		t.Fatalf("expected last value 25, got %v", flags.EGFR)
	}
	if !flags.ContrastContraindicated {
		t.Error("expected contrast contraindicated at eGFR 25")
	}
}

func TestEvaluateEGFRInConditionText(t *testing.T) {
	flags := Evaluate(analyze.PatientProfile{Conditions: []string{"CKD with eGFR of 42.5"}})
	if flags.EGFR == nil || *flags.EGFR != 42.5 {
		t.Fatalf("expected 42.5, got %v", flags.EGFR)
	}
	if !flags.ReducedRenalFunction || flags.ContrastContraindicated {
		t.Errorf("flags: %+v", flags)
	}
}

func TestEvaluateNumberedAssayName(t *testing.T) {
	profile := analyze.PatientProfile{
		Measurements: map[string]string{"eGFR (CKD-EPI 2021)": "45 mL/min/1.73m2"},
	}
	flags := Evaluate(profile)
	if flags.EGFR == nil || *flags.EGFR != 45 {
		t.Fatalf("expected the value 45, not a number from the assay name, got %v", flags.EGFR)
	}
	if !flags.ReducedRenalFunction || flags.ContrastContraindicated {
		t.Errorf("flags: %+v", flags)
	}
}

func TestEvaluateEGFRValueWithoutNumberFallsBackToName(t *testing.T) {
	profile := analyze.PatientProfile{
		Measurements: map[string]string{"eGFR 28": "below reporting range"},
	}
	flags := Evaluate(profile)
	if flags.EGFR == nil || *flags.EGFR != 28 {
		t.Fatalf("expected 28 from the measurement name, got %v", flags.EGFR)
	}
	if !flags.ContrastContraindicated {
		t.Error("expected contrast contraindicated at eGFR 28")
	}
}

func TestEvaluateConditionFlags(t *testing.T) {
	profile := analyze.PatientProfile{
		Conditions: []string{
			"Essential hypertension",
			"Type 2 diabetes mellitus",
			"coronary artery disease",
		},
		AssessmentGoal: "staging of liver fibrosis",
	}
	flags := Evaluate(profile)
	if !flags.Hypertension || !flags.Diabetes || !flags.CardiacDisease || !flags.FibrosisAssessment {
		t.Errorf("flags: %+v", flags)
	}
}

func TestEvaluateCardiacSynonyms(t *testing.T) {
	for _, cond := range []string{"heart failure", "cardiac arrhythmia", "coronary stenosis"} {
		flags := Evaluate(analyze.PatientProfile{Conditions: []string{cond}})
		if !flags.CardiacDisease {
			t.Errorf("condition %q should set cardiac flag", cond)
		}
	}
}

func TestEvaluateFibrosisFromConditions(t *testing.T) {
	flags := Evaluate(analyze.PatientProfile{Conditions: []string{"hepatic fibrosis stage F2"}})
	if !flags.FibrosisAssessment {
		t.Error("fibrosis condition should set the flag")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	profile := analyze.PatientProfile{
		Conditions: []string{"diabetes", "eGFR 55"},
		Measurements: map[string]string{
			"eGFR":           "48 mL/min",
			"blood pressure": "150/90",
		},
	}
	first := Evaluate(profile)
	if first.EGFR == nil || *first.EGFR != 48 {
		t.Fatalf("expected measurement value 48 to win, got %v", first.EGFR)
	}
	for i := 0; i < 20; i++ {
		got := Evaluate(profile)
		if *got.EGFR != *first.EGFR || got.ReducedRenalFunction != first.ReducedRenalFunction ||
			got.ContrastContraindicated != first.ContrastContraindicated || got.Diabetes != first.Diabetes {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}
