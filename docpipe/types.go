package docpipe

// SourceKind classifies how a source locator is interpreted.
type SourceKind string

const (
	KindLocalFile  SourceKind = "local-file"
	KindRemoteURL  SourceKind = "remote-url"
	KindInlineText SourceKind = "inline-text"
)

// Source is one resolved document input.
type Source struct {
	// ID is a stable content-derived identifier ("src_" + short hash of
	// the locator). Two references to the same locator share an ID.
	ID string `json:"id"`

	// Locator is the original path, URL, or inline text.
	Locator string `json:"locator"`

	Kind SourceKind `json:"kind"`
}

// Document is the result of processing one source. When OK is false the
// source failed and Err holds the reason; Text and Sections are empty.
type Document struct {
	SourceID string     `json:"source_id"`
	Kind     SourceKind `json:"kind"`
	Locator  string     `json:"locator"`

	// Text is the normalized full text of the document.
	Text string `json:"text"`

	// Method names the extraction path that produced Text
	// (e.g. "pdf-content-stream", "pdf-layout", "pdftotext", "html",
	// "browser", "plain").
	Method string `json:"method,omitempty"`

	// Title is a best-effort document title, empty when none was found.
	Title string `json:"title,omitempty"`

	Sections []Section `json:"sections,omitempty"`

	OK  bool   `json:"ok"`
	Err string `json:"error,omitempty"`
}

// Section is one labeled region of a document. When no recognizable
// headings exist, the whole text appears as a single "full_text" section.
type Section struct {
	// Name is the canonical section label (lowercase, e.g. "methods").
	Name string `json:"name"`
	Text string `json:"text"`
}

// Chunk is one window of text sized for a single reasoning-engine call.
type Chunk struct {
	// Index is the 0-based position of the chunk within its document.
	Index int    `json:"index"`
	Text  string `json:"text"`

	// OverlapWithPrevious reports whether this chunk begins with text
	// repeated from the tail of the previous chunk.
	OverlapWithPrevious bool `json:"overlap_with_previous"`
}
