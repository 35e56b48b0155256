package docpipe

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartmri/planner/safeio"
)

func TestProcessInlineText(t *testing.T) {
	p := testPipeline(t, Config{})
	src, err := Resolve("Patient presents with chronic liver disease.  Suspected fibrosis [4].")
	if err != nil {
		t.Fatal(err)
	}

	doc := p.ProcessSource(context.Background(), src)
	if !doc.OK {
		t.Fatalf("expected OK, got error %q", doc.Err)
	}
	if doc.Method != "inline" {
		t.Errorf("expected inline method, got %q", doc.Method)
	}
	if strings.Contains(doc.Text, "[4]") || strings.Contains(doc.Text, "  ") {
		t.Errorf("text not normalized: %q", doc.Text)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Name != "full_text" {
		t.Errorf("expected single full_text section, got %+v", doc.Sections)
	}
}

func TestProcessLocalTextFile(t *testing.T) {
	p := testPipeline(t, Config{})
	path := filepath.Join(t.TempDir(), "protocol.txt")
	content := "Abstract\nShort summary.\nMethods\nImaging at 1.5T."
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	src, err := Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := p.ProcessSource(context.Background(), src)
	if !doc.OK {
		t.Fatalf("expected OK, got %q", doc.Err)
	}
	if doc.Method != "plain" {
		t.Errorf("expected plain, got %q", doc.Method)
	}
	if len(doc.Sections) != 2 {
		t.Errorf("expected 2 sections, got %+v", doc.Sections)
	}
}

func TestProcessLocalHTMLFile(t *testing.T) {
	p := testPipeline(t, Config{})
	path := filepath.Join(t.TempDir(), "page.html")
	content := `<html><head><title>Renal MRI Safety</title></head><body>
<h1>Contrast guidance</h1><p>Avoid gadolinium when eGFR is below 30.</p>
<script>alert("x")</script></body></html>`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	src, _ := Resolve(path)
	doc := p.ProcessSource(context.Background(), src)
	if !doc.OK {
		t.Fatalf("expected OK, got %q", doc.Err)
	}
	if doc.Title != "Renal MRI Safety" {
		t.Errorf("expected title, got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "gadolinium") {
		t.Errorf("body text missing: %q", doc.Text)
	}
	if strings.Contains(doc.Text, "alert") {
		t.Errorf("script content leaked: %q", doc.Text)
	}
}

func TestProcessFileTooLarge(t *testing.T) {
	p := testPipeline(t, Config{MaxFileSize: 8})
	path := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(path, []byte("more than eight bytes"), 0o600); err != nil {
		t.Fatal(err)
	}

	src, _ := Resolve(path)
	doc := p.ProcessSource(context.Background(), src)
	if doc.OK {
		t.Fatal("expected failure for oversized file")
	}
	if !strings.Contains(doc.Err, "too large") {
		t.Errorf("unexpected error: %q", doc.Err)
	}
}

func TestProcessLocalFileConfinedToRoot(t *testing.T) {
	root := t.TempDir()
	content := "Abstract\nShort summary of the paper.\nMethods\nImaging at 3T."
	if err := os.WriteFile(filepath.Join(root, "paper.txt"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	p := testPipeline(t, Config{LocalRoot: root})

	doc := p.ProcessSource(context.Background(), Source{
		ID: "src_inside", Kind: KindLocalFile, Locator: "paper.txt",
	})
	if !doc.OK {
		t.Fatalf("file inside the root should process: %q", doc.Err)
	}

	doc = p.ProcessSource(context.Background(), Source{
		ID: "src_escape", Kind: KindLocalFile, Locator: "../outside.txt",
	})
	if doc.OK {
		t.Fatal("path escaping the root must be rejected")
	}
	if !strings.Contains(doc.Err, "traversal") {
		t.Errorf("unexpected error: %q", doc.Err)
	}
}

func TestDefaultFetchCap(t *testing.T) {
	var cfg Config
	cfg.defaults()
	if cfg.MaxFetchBytes != safeio.MaxResponseBody {
		t.Errorf("default fetch cap = %d, want %d", cfg.MaxFetchBytes, safeio.MaxResponseBody)
	}
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	p := testPipeline(t, Config{})
	sources := ResolveAll([]string{
		"inline text about spine imaging protocols and sequences",
		"/nonexistent/paper.pdf",
	})
	// The missing path resolves as inline text, so force the kind.
	sources[1].Kind = KindLocalFile

	docs := p.Process(context.Background(), sources)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if !docs[0].OK {
		t.Errorf("first source should succeed: %q", docs[0].Err)
	}
	if docs[1].OK {
		t.Error("second source should fail")
	}
	if docs[1].Err == "" {
		t.Error("failed document should record its error")
	}
}

func TestChunksOnFailedDocument(t *testing.T) {
	p := testPipeline(t, Config{})
	if got := p.Chunks(Document{OK: false}); got != nil {
		t.Fatalf("expected nil chunks, got %v", got)
	}
}
