package docpipe

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse spaces", "MRI   protocols  for  liver", "MRI protocols for liver"},
		{"collapse newlines", "line one\n\n\nline two", "line one\nline two"},
		{"space around newline", "line one  \n  line two", "line one\nline two"},
		{"citation marker", "Gadolinium is contraindicated [12] in renal failure.", "Gadolinium is contraindicated in renal failure."},
		{"citation range", "See prior work [3-7] on T2 mapping.", "See prior work on T2 mapping."},
		{"nested citations", "findings [1[2]3] here", "findings here"},
		{"tabs", "a\tb", "a b"},
		{"crlf", "a\r\nb", "a\nb"},
		{"trim", "  padded  ", "padded"},
		{"control chars", "ab\x00\x01c", "abc"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Protocol  [1]  recommends\n\n  1.5T [2-4] field strength.\t\r\n",
		"plain text",
		"a [1[2]3] b   c\n\n\nd",
		"\uFFFD\uE000 broken glyphs \uF8FF here",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestNormalizeDropsGarbageRunes(t *testing.T) {
	got := Normalize("T1\uFFFD weighted \uE123imaging")
	want := "T1 weighted imaging"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
