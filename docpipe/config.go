package docpipe

import (
	"log/slog"
	"time"

	"github.com/smartmri/planner/safeio"
)

// Config configures the document pipeline.
type Config struct {
	// MinTextLen is the minimum number of characters an extraction method
	// must yield before its result is accepted; shorter output triggers
	// the next method in the chain (default: 100).
	MinTextLen int `json:"min_text_len" yaml:"min_text_len"`

	// ChunkSize is the maximum chunk length in characters (default: 4000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the number of trailing characters repeated at the
	// start of the next chunk (default: 200).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`

	// MaxFileSize is the maximum local file size to process (default: 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// LocalRoot, when set, confines local file sources to this directory:
	// paths are resolved against it and anything escaping it is rejected.
	// Empty allows any readable path, which suits one-shot CLI use.
	LocalRoot string `json:"local_root" yaml:"local_root"`

	// FetchTimeout bounds one remote fetch (default: 30s).
	FetchTimeout time.Duration `json:"fetch_timeout" yaml:"fetch_timeout"`

	// MaxFetchBytes caps a remote response body
	// (default: safeio.MaxResponseBody).
	MaxFetchBytes int64 `json:"max_fetch_bytes" yaml:"max_fetch_bytes"`

	// UserAgent sent on remote fetches.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// PdftotextPath is the external pdftotext binary used as the last
	// PDF extraction method (default: "pdftotext", resolved via PATH).
	PdftotextPath string `json:"pdftotext_path" yaml:"pdftotext_path"`

	// BrowserURL is a DevTools websocket endpoint for browser-rendered
	// fetches of script-heavy pages. Empty disables the browser fallback.
	BrowserURL string `json:"browser_url" yaml:"browser_url"`

	// ValidateURL rejects unsafe fetch targets before any connection is
	// made. Nil means no validation (tests only).
	ValidateURL func(rawURL string) error `json:"-" yaml:"-"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MinTextLen <= 0 {
		c.MinTextLen = 100
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 4000
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = 200
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.MaxFetchBytes <= 0 {
		c.MaxFetchBytes = safeio.MaxResponseBody
	}
	if c.UserAgent == "" {
		c.UserAgent = "smartmri-planner/1.0"
	}
	if c.PdftotextPath == "" {
		c.PdftotextPath = "pdftotext"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
