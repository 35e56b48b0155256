package analyze

// FindingsRecord aggregates MRI-relevant facts extracted from document
// text. Every field is a deduplicated list; records from different
// chunks or documents merge by set union.
type FindingsRecord struct {
	Protocols             []string `json:"protocols"`
	FieldStrengths        []string `json:"field_strengths"`
	Sequences             []string `json:"sequences"`
	Conditions            []string `json:"conditions"`
	SpecialConsiderations []string `json:"special_considerations"`
	KeyFindings           []string `json:"key_findings"`
}

// Empty reports whether the record holds no findings at all.
func (r FindingsRecord) Empty() bool {
	return len(r.Protocols) == 0 && len(r.FieldStrengths) == 0 &&
		len(r.Sequences) == 0 && len(r.Conditions) == 0 &&
		len(r.SpecialConsiderations) == 0 && len(r.KeyFindings) == 0
}

// PatientProfile is the structured view of free-text patient
// information. Absent values stay empty; nothing is inferred.
type PatientProfile struct {
	Age            string            `json:"age,omitempty"`
	Gender         string            `json:"gender,omitempty"`
	Conditions     []string          `json:"conditions,omitempty"`
	Measurements   map[string]string `json:"measurements,omitempty"`
	Medications    []string          `json:"medications,omitempty"`
	Procedures     []string          `json:"procedures,omitempty"`
	AssessmentGoal string            `json:"assessment_goal,omitempty"`
}

// MedicalEntity is one named clinical item found in text.
type MedicalEntity struct {
	// Type classifies the entity: "condition", "measurement",
	// "medication", "procedure".
	Type string `json:"type"`
	Name string `json:"name"`

	// Value holds the magnitude for measurements ("45 mL/min"), empty
	// otherwise.
	Value string `json:"value,omitempty"`

	// Context is the surrounding phrase the entity was found in.
	Context string `json:"context,omitempty"`
}
