package docpipe

import "errors"

var (
	// ErrUnresolvableSource means a locator could not be classified as a
	// file, URL, or inline text.
	ErrUnresolvableSource = errors.New("docpipe: unresolvable source")

	// ErrExtractionExhausted means every extraction method in the chain
	// failed or produced text below the minimum length.
	ErrExtractionExhausted = errors.New("docpipe: all extraction methods exhausted")

	// ErrFileTooLarge means a local file exceeds Config.MaxFileSize.
	ErrFileTooLarge = errors.New("docpipe: file too large")

	// ErrUnsupportedContentType means a remote response carried a media
	// type the pipeline cannot extract text from.
	ErrUnsupportedContentType = errors.New("docpipe: unsupported content type")
)
