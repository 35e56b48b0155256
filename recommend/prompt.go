package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smartmri/planner/analyze"
	"github.com/smartmri/planner/clinical"
)

// recommendationSchema constrains the synthesis response.
var recommendationSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "sequences": {"type": "array", "items": {"type": "string"}},
    "field_strength": {"type": "string"},
    "contrast_agent": {"type": ["string", "null"]},
    "special_considerations": {"type": "array", "items": {"type": "string"}},
    "rationale": {"type": "string"},
    "alternative_options": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "sequences": {"type": "array", "items": {"type": "string"}},
          "field_strength": {"type": "string"},
          "rationale": {"type": "string"}
        },
        "required": ["sequences", "field_strength", "rationale"]
      }
    },
    "contraindications": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["sequences", "field_strength", "rationale"],
  "additionalProperties": false
}`)

const synthesisSystem = "You are an MRI protocol planning assistant. Propose a protocol " +
	"grounded in the supplied literature findings and constrained by the clinical flags. " +
	"Never propose gadolinium-based contrast when it is flagged as contraindicated. " +
	"Respond with JSON only."

// synthesisPrompt assembles the single synthesis call: patient profile,
// deterministic flags, and the merged literature findings.
func synthesisPrompt(profile analyze.PatientProfile, flags clinical.Flags, findings analyze.FindingsRecord) string {
	var sb strings.Builder

	sb.WriteString("## Patient profile\n")
	writeJSON(&sb, profile)

	sb.WriteString("\n## Clinical flags (authoritative, do not override)\n")
	writeJSON(&sb, flags)

	sb.WriteString("\n## Findings from the literature\n")
	writeJSON(&sb, findings)

	sb.WriteString("\nPropose an MRI protocol for this patient: pulse sequences, field strength, ")
	sb.WriteString("contrast agent (or null), special considerations, rationale, alternative options, ")
	sb.WriteString("and contraindications. Ground every choice in the findings above.")
	return sb.String()
}

func writeJSON(sb *strings.Builder, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(sb, "%+v\n", v)
		return
	}
	sb.Write(data)
	sb.WriteByte('\n')
}
