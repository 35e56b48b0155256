// Package recommend orchestrates the full planning run: document
// processing, per-chunk findings extraction, patient profiling,
// deterministic clinical flags, and one final synthesis call.
//
// The planner degrades instead of failing: individual sources may fail,
// profile extraction may come back empty, and a failed synthesis yields
// the conservative default protocol with the failure noted. The only
// hard errors are an empty patient note and a run where no source
// produced any text.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/smartmri/planner/analyze"
	"github.com/smartmri/planner/clinical"
	"github.com/smartmri/planner/docpipe"
	"github.com/smartmri/planner/idgen"
	"github.com/smartmri/planner/llm"
)

// Config configures the Planner.
type Config struct {
	// Engine performs the synthesis call. Required.
	Engine llm.Engine

	// Pipeline processes document sources. Required.
	Pipeline *docpipe.Pipeline

	// Analyzer extracts findings and the patient profile. Required.
	Analyzer *analyze.Analyzer

	// MaxParallelSources bounds concurrent source processing (default: 3).
	MaxParallelSources int `json:"max_parallel_sources" yaml:"max_parallel_sources"`

	// NewRunID generates run identifiers (default: idgen.RunID).
	NewRunID idgen.Generator `json:"-" yaml:"-"`

	// OnRun, when set, receives a report after every run.
	OnRun func(Report) `json:"-" yaml:"-"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxParallelSources <= 0 {
		c.MaxParallelSources = 3
	}
	if c.NewRunID == nil {
		c.NewRunID = idgen.RunID
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Planner produces MRI protocol recommendations.
type Planner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Planner.
func New(cfg Config) (*Planner, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("recommend: Engine is required")
	}
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("recommend: Pipeline is required")
	}
	if cfg.Analyzer == nil {
		return nil, fmt.Errorf("recommend: Analyzer is required")
	}
	cfg.defaults()
	return &Planner{cfg: cfg, logger: cfg.Logger}, nil
}

// Plan runs one full planning job.
func (p *Planner) Plan(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	runID := p.cfg.NewRunID()
	logger := p.logger.With("run", runID)

	result, err := p.plan(ctx, logger, runID, req)

	if p.cfg.OnRun != nil {
		report := Report{
			RunID:        runID,
			StartedAt:    started,
			Duration:     time.Since(started),
			SourcesTotal: len(req.Sources),
		}
		if err != nil {
			report.Err = err.Error()
		}
		if result != nil {
			for _, d := range result.Documents {
				if d.OK {
					report.SourcesOK++
				}
			}
			report.EGFR = result.Flags.EGFR
			report.ReducedRenalFunction = result.Flags.ReducedRenalFunction
			report.ContrastContraindicated = result.Flags.ContrastContraindicated
			report.SynthesisFallback = result.SynthesisFallback
		}
		p.cfg.OnRun(report)
	}
	return result, err
}

func (p *Planner) plan(ctx context.Context, logger *slog.Logger, runID string, req Request) (*Result, error) {
	if strings.TrimSpace(req.PatientText) == "" {
		return nil, ErrEmptyPatientText
	}

	sources := docpipe.ResolveAll(req.Sources)
	if len(sources) == 0 {
		return nil, ErrNoUsableSources
	}

	docs, perDoc := p.processSources(ctx, logger, sources)

	usable := 0
	for _, d := range docs {
		if d.OK {
			usable++
		}
	}
	if usable == 0 {
		return &Result{RunID: runID, Documents: docs}, ErrNoUsableSources
	}
	logger.Info("sources processed", "total", len(docs), "ok", usable)

	profile, err := p.cfg.Analyzer.ExtractProfile(ctx, req.PatientText)
	if err != nil {
		// An unreadable profile is not fatal: the synthesis still sees
		// the raw flags (all false) and the literature findings.
		logger.Warn("profile extraction failed, continuing with empty profile", "error", err)
		profile = analyze.PatientProfile{}
	}

	flags := clinical.Evaluate(profile)
	findings := analyze.Merge(perDoc...)

	rec, fallback := p.synthesize(ctx, logger, profile, flags, findings)
	rec = applyContrastGate(rec, flags)

	return &Result{
		RunID:             runID,
		Recommendation:    rec,
		Profile:           profile,
		Flags:             flags,
		Documents:         docs,
		Findings:          findings,
		SynthesisFallback: fallback,
	}, nil
}

// processSources extracts and analyzes every source, at most
// MaxParallelSources at a time. Output slices are parallel to sources.
func (p *Planner) processSources(ctx context.Context, logger *slog.Logger, sources []docpipe.Source) ([]docpipe.Document, []analyze.FindingsRecord) {
	docs := make([]docpipe.Document, len(sources))
	perDoc := make([]analyze.FindingsRecord, len(sources))

	sem := make(chan struct{}, p.cfg.MaxParallelSources)
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src docpipe.Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			doc := p.cfg.Pipeline.ProcessSource(ctx, src)
			docs[i] = doc
			if !doc.OK {
				return
			}
			chunks := p.cfg.Pipeline.Chunks(doc)
			logger.Debug("analyzing document", "source", src.ID, "chunks", len(chunks))
			perDoc[i] = p.cfg.Analyzer.AnalyzeChunks(ctx, chunks)
		}(i, src)
	}
	wg.Wait()
	return docs, perDoc
}

// synthesize makes the single recommendation call. On any failure it
// returns the conservative default protocol and marks the fallback.
func (p *Planner) synthesize(ctx context.Context, logger *slog.Logger, profile analyze.PatientProfile, flags clinical.Flags, findings analyze.FindingsRecord) (Recommendation, bool) {
	raw, err := p.cfg.Engine.Complete(ctx, llm.Request{
		System:     synthesisSystem,
		Prompt:     synthesisPrompt(profile, flags, findings),
		Schema:     recommendationSchema,
		SchemaName: "recommendation",
	})
	if err != nil {
		logger.Warn("synthesis call failed", "error", err)
		return fallbackRecommendation(flags), true
	}

	var rec Recommendation
	if !analyze.DecodeLenient(raw, &rec) || len(rec.Sequences) == 0 || rec.FieldStrength == "" {
		logger.Warn("synthesis response unusable", "chars", len(raw))
		return fallbackRecommendation(flags), true
	}
	return rec, false
}

// fallbackRecommendation is the conservative default protocol used when
// synthesis fails: basic anatomical sequences at the widely available
// field strength, no contrast.
func fallbackRecommendation(flags clinical.Flags) Recommendation {
	rec := Recommendation{
		Sequences:     []string{"T1-weighted", "T2-weighted"},
		FieldStrength: "1.5T",
		Rationale: "Protocol synthesis was unavailable; this is the default anatomical " +
			"protocol. Review against the source literature before use.",
	}
	if flags.ReducedRenalFunction {
		rec.SpecialConsiderations = append(rec.SpecialConsiderations,
			"Reduced renal function: review any contrast use with nephrology.")
	}
	return rec
}

// applyContrastGate enforces the deterministic contrast rule on top of
// whatever the synthesis proposed.
func applyContrastGate(rec Recommendation, flags clinical.Flags) Recommendation {
	if !flags.ContrastContraindicated {
		return rec
	}
	rec.ContrastAgent = nil

	note := "Gadolinium-based contrast agents contraindicated (eGFR below 30)"
	for _, c := range rec.Contraindications {
		if c == note {
			return rec
		}
	}
	rec.Contraindications = append(rec.Contraindications, note)
	return rec
}
