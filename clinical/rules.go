// Package clinical derives safety and planning flags from a patient
// profile with deterministic rules. No reasoning engine is involved:
// identical input always yields identical flags, and the contrast
// decision in particular must never depend on model output.
package clinical

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/smartmri/planner/analyze"
)

// Renal thresholds in mL/min/1.73m². Below reducedFunctionEGFR
// gadolinium dosing needs review; below contrastCutoffEGFR
// gadolinium-based agents are contraindicated.
const (
	reducedFunctionEGFR = 60.0
	contrastCutoffEGFR  = 30.0
)

// Flags are the deterministic clinical facts the planner acts on.
type Flags struct {
	// EGFR is the parsed value, nil when the profile mentions none.
	EGFR *float64 `json:"egfr,omitempty"`

	ReducedRenalFunction    bool `json:"reduced_renal_function"`
	ContrastContraindicated bool `json:"contrast_contraindicated"`

	Hypertension       bool `json:"hypertension"`
	Diabetes           bool `json:"diabetes"`
	CardiacDisease     bool `json:"cardiac_disease"`
	FibrosisAssessment bool `json:"fibrosis_assessment"`
}

// numberRe matches the first decimal number in a string.
var numberRe = regexp.MustCompile(`(\d+(\.\d+)?)`)

// Evaluate derives flags from a profile. When eGFR appears more than
// once the last mention wins: conditions are scanned in order, then
// measurements by sorted key, so the result is stable.
func Evaluate(profile analyze.PatientProfile) Flags {
	var flags Flags

	if v, ok := lastEGFR(profile); ok {
		flags.EGFR = &v
		flags.ReducedRenalFunction = v < reducedFunctionEGFR
		flags.ContrastContraindicated = v < contrastCutoffEGFR
	}

	for _, cond := range profile.Conditions {
		c := strings.ToLower(cond)
		if strings.Contains(c, "hypertension") {
			flags.Hypertension = true
		}
		if strings.Contains(c, "diabetes") {
			flags.Diabetes = true
		}
		if strings.Contains(c, "cardiac") || strings.Contains(c, "heart") || strings.Contains(c, "coronary") {
			flags.CardiacDisease = true
		}
		if strings.Contains(c, "fibrosis") {
			flags.FibrosisAssessment = true
		}
	}
	if strings.Contains(strings.ToLower(profile.AssessmentGoal), "fibrosis") {
		flags.FibrosisAssessment = true
	}

	return flags
}

// lastEGFR finds the final eGFR value mentioned in the profile.
func lastEGFR(profile analyze.PatientProfile) (float64, bool) {
	var val float64
	found := false

	record := func(num string) {
		if v, err := strconv.ParseFloat(num, 64); err == nil {
			val, found = v, true
		}
	}

	for _, cond := range profile.Conditions {
		if !strings.Contains(strings.ToLower(cond), "egfr") {
			continue
		}
		if m := numberRe.FindString(cond); m != "" {
			record(m)
		}
	}

	keys := make([]string, 0, len(profile.Measurements))
	for k := range profile.Measurements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := profile.Measurements[k]
		if !strings.Contains(strings.ToLower(k), "egfr") &&
			!strings.Contains(strings.ToLower(v), "egfr") {
			continue
		}
		// The value holds the reading; the name only labels it. A number
		// in an assay name like "eGFR (CKD-EPI 2021)" must not shadow it.
		m := numberRe.FindString(v)
		if m == "" {
			m = numberRe.FindString(k)
		}
		if m != "" {
			record(m)
		}
	}

	return val, found
}
