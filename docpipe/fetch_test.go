package docpipe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchRemoteHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "smartmri") {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Cardiac MRI Review</title></head>
<body><p>Cine imaging remains the reference standard for ventricular function.</p></body></html>`))
	}))
	defer srv.Close()

	p := testPipeline(t, Config{})
	doc := p.ProcessSource(context.Background(), Source{ID: "src_test", Locator: srv.URL, Kind: KindRemoteURL})
	if !doc.OK {
		t.Fatalf("expected OK, got %q", doc.Err)
	}
	if doc.Method != "html" {
		t.Errorf("expected html method, got %q", doc.Method)
	}
	if doc.Title != "Cardiac MRI Review" {
		t.Errorf("title: %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "ventricular function") {
		t.Errorf("body missing: %q", doc.Text)
	}
}

func TestFetchRemotePlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("Plain protocol notes for abdominal imaging at 3T."))
	}))
	defer srv.Close()

	p := testPipeline(t, Config{})
	text, method, _, err := p.fetchRemote(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if method != "plain" {
		t.Errorf("expected plain, got %q", method)
	}
	if !strings.Contains(text, "abdominal imaging") {
		t.Errorf("text: %q", text)
	}
}

func TestFetchRemoteUnsupportedType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 0x50, 0x4E, 0x47})
	}))
	defer srv.Close()

	p := testPipeline(t, Config{})
	_, _, _, err := p.fetchRemote(context.Background(), srv.URL)
	if !errors.Is(err, ErrUnsupportedContentType) {
		t.Fatalf("expected ErrUnsupportedContentType, got %v", err)
	}
}

func TestFetchRemoteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := testPipeline(t, Config{})
	_, _, _, err := p.fetchRemote(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFetchRemoteValidatorRejects(t *testing.T) {
	called := false
	p := testPipeline(t, Config{
		ValidateURL: func(string) error {
			called = true
			return errors.New("target resolves to private address")
		},
	})
	_, _, _, err := p.fetchRemote(context.Background(), "http://169.254.169.254/latest/meta-data/")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !called {
		t.Fatal("validator was not invoked")
	}
}

func TestResponseContentTypeFallback(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	if got := responseContentType(resp, "https://example.org/paper.pdf"); got != "application/pdf" {
		t.Errorf("pdf extension: got %q", got)
	}
	if got := responseContentType(resp, "https://example.org/page"); got != "text/html" {
		t.Errorf("default: got %q", got)
	}
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if got := responseContentType(resp, "https://example.org/x"); got != "text/plain" {
		t.Errorf("header: got %q", got)
	}
}
