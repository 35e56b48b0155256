package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smartmri/planner/analyze"
	"github.com/smartmri/planner/docpipe"
	"github.com/smartmri/planner/llm"
	"github.com/smartmri/planner/recommend"
	"github.com/smartmri/planner/runlog"
	"github.com/smartmri/planner/safeio"
)

// deps holds the wired application graph for one command invocation.
type deps struct {
	planner  *recommend.Planner
	pipeline *docpipe.Pipeline
	store    *runlog.Store
	remote   *runlog.RemoteStore
}

// buildDeps wires the engine, pipeline, analyzer, planner, and run log
// from the config. Call close when done.
func buildDeps(cfg AppConfig) (*deps, error) {
	engine, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, err
	}

	pipeCfg := cfg.Docpipe
	if pipeCfg.ValidateURL == nil {
		pipeCfg.ValidateURL = safeio.ValidateURL
	}
	pipeline, err := docpipe.New(pipeCfg)
	if err != nil {
		return nil, err
	}

	analyzer, err := analyze.New(analyze.Config{
		Engine:      engine,
		MaxParallel: cfg.AnalyzeMaxParallel,
	})
	if err != nil {
		pipeline.Close()
		return nil, err
	}

	d := &deps{pipeline: pipeline}

	if cfg.RunLogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.RunLogPath), 0o755); err != nil {
			pipeline.Close()
			return nil, fmt.Errorf("runlog dir: %w", err)
		}
		store, err := runlog.Open(cfg.RunLogPath)
		if err != nil {
			pipeline.Close()
			return nil, fmt.Errorf("runlog: %w", err)
		}
		d.store = store
	}
	if cfg.RunLogRemote != "" {
		d.remote = runlog.NewRemoteStore(cfg.RunLogRemote, nil)
	}

	planner, err := recommend.New(recommend.Config{
		Engine:             engine,
		Pipeline:           pipeline,
		Analyzer:           analyzer,
		MaxParallelSources: cfg.MaxParallelSources,
		OnRun: func(r recommend.Report) {
			entry := runlog.FromReport(r)
			if d.store != nil {
				d.store.RecordAsync(entry)
			}
			if d.remote != nil {
				d.remote.RecordAsync(entry)
			}
		},
	})
	if err != nil {
		d.close()
		return nil, err
	}
	d.planner = planner
	return d, nil
}

func (d *deps) close() {
	if d.remote != nil {
		if err := d.remote.Close(); err != nil {
			slog.Warn("runlog remote close", "error", err)
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			slog.Warn("runlog close", "error", err)
		}
	}
	if d.pipeline != nil {
		if err := d.pipeline.Close(); err != nil {
			slog.Warn("pipeline close", "error", err)
		}
	}
}
