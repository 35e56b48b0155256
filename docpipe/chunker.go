package docpipe

import (
	"strings"
	"unicode/utf8"
)

// chunkSeparators is the split hierarchy, coarsest first. The empty
// string means a hard cut on rune boundaries.
var chunkSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunkify splits text into chunks of at most size bytes, with roughly
// overlap bytes repeated from the tail of each chunk at the head of the
// next. Splitting prefers paragraph breaks, then lines, sentences, and
// words; a hard cut happens only when a single word exceeds size.
//
// The output is deterministic, and whenever OverlapWithPrevious is set
// the chunk's text begins with an exact suffix of the previous chunk.
func Chunkify(text string, size, overlap int) []Chunk {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = 4000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	if len(text) <= size {
		return []Chunk{{Index: 0, Text: text}}
	}

	pieces := splitPieces(text, size, overlap, chunkSeparators)

	var chunks []Chunk
	var window []string
	total := 0
	carried := false

	for _, piece := range pieces {
		if total > 0 && total+len(piece) > size {
			chunks = append(chunks, Chunk{
				Index:               len(chunks),
				Text:                strings.Join(window, ""),
				OverlapWithPrevious: carried,
			})
			for len(window) > 0 && (total > overlap || total+len(piece) > size) {
				total -= len(window[0])
				window = window[1:]
			}
			carried = len(window) > 0
		}
		window = append(window, piece)
		total += len(piece)
	}
	if total > 0 {
		chunks = append(chunks, Chunk{
			Index:               len(chunks),
			Text:                strings.Join(window, ""),
			OverlapWithPrevious: carried,
		})
	}
	return chunks
}

// splitPieces breaks text into fragments no longer than size, keeping
// separators attached to the fragment they terminate so that joining the
// fragments reproduces the input exactly.
func splitPieces(text string, size, overlap int, seps []string) []string {
	if len(text) <= size {
		return []string{text}
	}

	sep := seps[0]
	if sep == "" {
		// Hard cut. Use a small granule so the merge loop can still
		// carry an overlap window across cut points.
		gran := overlap
		if gran <= 0 || gran > size {
			gran = size
		}
		return cutRunes(text, gran)
	}

	var out []string
	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}
		if len(part) > size {
			out = append(out, splitPieces(part, size, overlap, seps[1:])...)
		} else {
			out = append(out, part)
		}
	}
	return out
}

// cutRunes slices text into pieces of about n bytes, never splitting a
// rune.
func cutRunes(text string, n int) []string {
	var out []string
	for len(text) > n {
		cut := n
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = n
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}
