// Package analyze extracts structured MRI findings and patient
// information from document text using a reasoning engine.
//
// Extraction is chunk-at-a-time: each chunk yields a FindingsRecord and
// records merge by set union, so a fact stated in several chunks appears
// once. A chunk whose response cannot be parsed contributes an empty
// record instead of failing the document.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smartmri/planner/docpipe"
	"github.com/smartmri/planner/llm"
)

// Config configures the Analyzer.
type Config struct {
	// Engine performs the structured-extraction calls. Required.
	Engine llm.Engine

	// MaxParallel bounds concurrent chunk extractions (default: 4).
	MaxParallel int `json:"max_parallel" yaml:"max_parallel"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxParallel <= 0 {
		c.MaxParallel = 4
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Analyzer runs structured extraction over chunks and patient text.
type Analyzer struct {
	cfg    Config
	engine llm.Engine
	logger *slog.Logger
}

// New creates an Analyzer.
func New(cfg Config) (*Analyzer, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("analyze: Engine is required")
	}
	cfg.defaults()
	return &Analyzer{cfg: cfg, engine: cfg.Engine, logger: cfg.Logger}, nil
}

const findingsSystem = "You are a medical research analyst. Extract MRI-relevant facts " +
	"from research text. Report only what the text states; never invent values. " +
	"Respond with JSON only."

// AnalyzeChunk extracts findings from one chunk of document text. A call
// or parse failure yields an empty record, never an error: one bad chunk
// must not sink the document.
func (a *Analyzer) AnalyzeChunk(ctx context.Context, text string) FindingsRecord {
	prompt := "Extract MRI protocols, field strengths, pulse sequences, medical conditions, " +
		"special considerations, and key findings from the following text.\n\n" + text

	raw, err := a.engine.Complete(ctx, llm.Request{
		System:     findingsSystem,
		Prompt:     prompt,
		Schema:     findingsSchema,
		SchemaName: "findings",
	})
	if err != nil {
		a.logger.Warn("chunk extraction failed", "error", err)
		return FindingsRecord{}
	}

	var rec FindingsRecord
	if !DecodeLenient(raw, &rec) {
		a.logger.Warn("chunk response unparseable", "chars", len(raw))
		return FindingsRecord{}
	}
	return rec
}

// AnalyzeChunks extracts findings from every chunk, at most MaxParallel
// at a time, and merges the results. Chunk order does not affect the
// merged content.
func (a *Analyzer) AnalyzeChunks(ctx context.Context, chunks []docpipe.Chunk) FindingsRecord {
	if len(chunks) == 0 {
		return FindingsRecord{}
	}

	records := make([]FindingsRecord, len(chunks))
	sem := make(chan struct{}, a.cfg.MaxParallel)
	done := make(chan int, len(chunks))

	for i, ch := range chunks {
		go func(i int, text string) {
			sem <- struct{}{}
			defer func() { <-sem }()
			records[i] = a.AnalyzeChunk(ctx, text)
			done <- i
		}(i, ch.Text)
	}
	for range chunks {
		<-done
	}

	return Merge(records...)
}

// ExtractProfile turns free-text patient information into a structured
// profile.
func (a *Analyzer) ExtractProfile(ctx context.Context, patientText string) (PatientProfile, error) {
	raw, err := a.engine.Complete(ctx, llm.Request{
		System: "You are a clinical intake assistant. Extract patient facts from the note. " +
			"Leave out anything the note does not state. Respond with JSON only.",
		Prompt:     "Extract age, gender, conditions, measurements (name to value, e.g. eGFR), medications, procedures, and the assessment goal from this patient information:\n\n" + patientText,
		Schema:     profileSchema,
		SchemaName: "patient_profile",
	})
	if err != nil {
		return PatientProfile{}, fmt.Errorf("analyze: profile extraction: %w", err)
	}

	var profile PatientProfile
	if !DecodeLenient(raw, &profile) {
		return PatientProfile{}, fmt.Errorf("analyze: profile response unparseable")
	}
	return profile, nil
}

// ExtractEntities lists the clinical entities mentioned in text.
func (a *Analyzer) ExtractEntities(ctx context.Context, text string) ([]MedicalEntity, error) {
	raw, err := a.engine.Complete(ctx, llm.Request{
		System:     "You are a clinical NLP tagger. Respond with JSON only.",
		Prompt:     "List the medical conditions, measurements, medications, and procedures mentioned in this text:\n\n" + text,
		Schema:     entitiesSchema,
		SchemaName: "entities",
	})
	if err != nil {
		return nil, fmt.Errorf("analyze: entity extraction: %w", err)
	}

	var out struct {
		Entities []MedicalEntity `json:"entities"`
	}
	if !DecodeLenient(raw, &out) {
		return nil, fmt.Errorf("analyze: entity response unparseable")
	}
	return out.Entities, nil
}

// DecodeLenient unmarshals engine output that may be wrapped in code
// fences or prose. It strips fences, then tries the first '{' through
// the last '}'.
func DecodeLenient(raw string, v any) bool {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	if json.Unmarshal([]byte(s), v) == nil {
		return true
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return false
	}
	return json.Unmarshal([]byte(s[start:end+1]), v) == nil
}
