package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smartmri/planner/docpipe"
	"github.com/smartmri/planner/llm"
)

// AppConfig is the YAML configuration for all mriplan commands.
type AppConfig struct {
	LLM     llm.Config     `yaml:"llm"`
	Docpipe docpipe.Config `yaml:"docpipe"`

	// AnalyzeMaxParallel bounds concurrent chunk extractions.
	AnalyzeMaxParallel int `yaml:"analyze_max_parallel"`

	// MaxParallelSources bounds concurrent source processing.
	MaxParallelSources int `yaml:"max_parallel_sources"`

	// RunLogPath is the SQLite file for run records. Empty disables the
	// local run log.
	RunLogPath string `yaml:"runlog_path"`

	// RunLogRemote, when set, ships run records to this ingest URL
	// instead of (or in addition to) the local file.
	RunLogRemote string `yaml:"runlog_remote"`

	// ListenAddr for the serve command.
	ListenAddr string `yaml:"listen_addr"`
}

func (c *AppConfig) defaults() {
	if c.RunLogPath == "" {
		c.RunLogPath = "data/runs.db"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
}

// loadConfig reads the YAML config at path. A missing path yields the
// defaults.
func loadConfig(path string) (AppConfig, error) {
	var cfg AppConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.defaults()
	return cfg, nil
}
