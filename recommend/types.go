package recommend

import (
	"time"

	"github.com/smartmri/planner/analyze"
	"github.com/smartmri/planner/clinical"
	"github.com/smartmri/planner/docpipe"
)

// Request is one planning job: the patient note plus the literature to
// ground the protocol in.
type Request struct {
	// PatientText is the free-text patient information. Required.
	PatientText string `json:"patient_text"`

	// Sources are document references: file paths, URLs, or inline text.
	Sources []string `json:"sources"`
}

// Recommendation is the MRI protocol proposal.
type Recommendation struct {
	Sequences     []string `json:"sequences"`
	FieldStrength string   `json:"field_strength"`

	// ContrastAgent is nil when no contrast is proposed or when the
	// clinical flags forbid it.
	ContrastAgent *string `json:"contrast_agent,omitempty"`

	SpecialConsiderations []string      `json:"special_considerations,omitempty"`
	Rationale             string        `json:"rationale"`
	AlternativeOptions    []Alternative `json:"alternative_options,omitempty"`
	Contraindications     []string      `json:"contraindications,omitempty"`
}

// Alternative is a secondary protocol option.
type Alternative struct {
	Sequences     []string `json:"sequences"`
	FieldStrength string   `json:"field_strength"`
	Rationale     string   `json:"rationale"`
}

// Result is the full planning output, including the evidence trail.
type Result struct {
	RunID          string                 `json:"run_id"`
	Recommendation Recommendation         `json:"recommendation"`
	Profile        analyze.PatientProfile `json:"profile"`
	Flags          clinical.Flags         `json:"flags"`
	Documents      []docpipe.Document     `json:"documents"`
	Findings       analyze.FindingsRecord `json:"findings"`

	// SynthesisFallback is set when the final synthesis call failed and
	// the recommendation is the conservative default protocol.
	SynthesisFallback bool `json:"synthesis_fallback"`
}

// Report summarizes one run for the run log.
type Report struct {
	RunID                   string
	StartedAt               time.Time
	Duration                time.Duration
	SourcesTotal            int
	SourcesOK               int
	EGFR                    *float64
	ReducedRenalFunction    bool
	ContrastContraindicated bool
	SynthesisFallback       bool
	Err                     string
}
