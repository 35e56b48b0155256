// Package docpipe turns heterogeneous document references into clean,
// sectioned, chunked text.
//
// A source can be a local file, a remote URL, or the document text
// itself; Resolve classifies raw strings and Pipeline.Process extracts
// each one. PDF extraction runs an ordered chain of methods and accepts
// the first result long enough to be useful. Remote fetches are routed
// by media type (PDF vs markup) and guarded against private-network
// targets.
//
// Per-source failures never abort a batch: each Document records its own
// OK flag and error, and downstream stages work with whatever succeeded.
package docpipe

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/smartmri/planner/safeio"
)

// Pipeline is the document extraction engine.
type Pipeline struct {
	cfg     Config
	logger  *slog.Logger
	client  *http.Client
	browser *browserPool
	tmpDir  string
}

// New creates a Pipeline. Close must be called to release the spool
// directory and any browser connection.
func New(cfg Config) (*Pipeline, error) {
	cfg.defaults()

	tmpDir, err := os.MkdirTemp("", "docpipe-*")
	if err != nil {
		return nil, fmt.Errorf("docpipe: temp dir: %w", err)
	}

	p := &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
		tmpDir: tmpDir,
	}
	p.client = p.newHTTPClient()
	if cfg.BrowserURL != "" {
		p.browser = &browserPool{url: cfg.BrowserURL}
	}
	return p, nil
}

// Close releases the pipeline's resources.
func (p *Pipeline) Close() error {
	if p.browser != nil {
		p.browser.close()
	}
	return os.RemoveAll(p.tmpDir)
}

// Process extracts every source. The result slice is parallel to the
// input; failed sources come back with OK false and the error message
// recorded, never as a missing entry.
func (p *Pipeline) Process(ctx context.Context, sources []Source) []Document {
	docs := make([]Document, len(sources))
	for i, src := range sources {
		docs[i] = p.ProcessSource(ctx, src)
	}
	return docs
}

// ProcessSource extracts one source. It does not return an error: any
// failure is recorded on the Document.
func (p *Pipeline) ProcessSource(ctx context.Context, src Source) Document {
	doc := Document{SourceID: src.ID, Kind: src.Kind, Locator: src.Locator}

	var text, method, title string
	var err error

	switch src.Kind {
	case KindInlineText:
		text, method = src.Locator, "inline"
	case KindLocalFile:
		text, method, title, err = p.extractLocalFile(ctx, src.Locator)
	case KindRemoteURL:
		text, method, title, err = p.fetchRemote(ctx, src.Locator)
	default:
		err = ErrUnresolvableSource
	}

	if err != nil {
		p.logger.Warn("source failed", "source", src.ID, "kind", src.Kind, "error", err)
		doc.Err = err.Error()
		return doc
	}

	normalized := Normalize(text)
	if normalized == "" {
		doc.Err = "no text content after normalization"
		return doc
	}

	doc.Text = normalized
	doc.Method = method
	doc.Title = title
	doc.Sections = Segment(normalized)
	doc.OK = true
	p.logger.Debug("source processed", "source", src.ID, "method", method,
		"chars", len(normalized), "sections", len(doc.Sections))
	return doc
}

// extractLocalFile routes a local path by extension. With LocalRoot set
// the path is confined to that directory first.
func (p *Pipeline) extractLocalFile(ctx context.Context, path string) (text, method, title string, err error) {
	if p.cfg.LocalRoot != "" {
		safe, err := safeio.SafePath(p.cfg.LocalRoot, path)
		if err != nil {
			return "", "", "", err
		}
		path = safe
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", "", "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > p.cfg.MaxFileSize {
		return "", "", "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), p.cfg.MaxFileSize)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, method, err = p.extractLocalPDF(ctx, path)
		return text, method, "", err
	case ".html", ".htm":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", "", "", err
		}
		text, title, err = extractHTML(string(raw))
		return text, "html", title, err
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", "", "", err
		}
		return string(raw), "plain", "", nil
	}
}

// Chunks splits a processed document into overlapping windows using the
// pipeline's configured chunk size.
func (p *Pipeline) Chunks(doc Document) []Chunk {
	if !doc.OK {
		return nil
	}
	return Chunkify(doc.Text, p.cfg.ChunkSize, p.cfg.ChunkOverlap)
}
