package analyze

import "encoding/json"

// findingsSchema constrains the per-chunk extraction response.
var findingsSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "protocols": {"type": "array", "items": {"type": "string"}},
    "field_strengths": {"type": "array", "items": {"type": "string"}},
    "sequences": {"type": "array", "items": {"type": "string"}},
    "conditions": {"type": "array", "items": {"type": "string"}},
    "special_considerations": {"type": "array", "items": {"type": "string"}},
    "key_findings": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["protocols", "field_strengths", "sequences", "conditions", "special_considerations", "key_findings"],
  "additionalProperties": false
}`)

// profileSchema constrains the patient-information response.
var profileSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "age": {"type": "string"},
    "gender": {"type": "string"},
    "conditions": {"type": "array", "items": {"type": "string"}},
    "measurements": {"type": "object", "additionalProperties": {"type": "string"}},
    "medications": {"type": "array", "items": {"type": "string"}},
    "procedures": {"type": "array", "items": {"type": "string"}},
    "assessment_goal": {"type": "string"}
  },
  "additionalProperties": false
}`)

// entitiesSchema constrains the entity-extraction response.
var entitiesSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string", "enum": ["condition", "measurement", "medication", "procedure"]},
          "name": {"type": "string"},
          "value": {"type": "string"},
          "context": {"type": "string"}
        },
        "required": ["type", "name"]
      }
    }
  },
  "required": ["entities"],
  "additionalProperties": false
}`)
