package docpipe

import "strings"

// sectionVocabulary lists the headings recognized in research papers.
var sectionVocabulary = []string{
	"abstract",
	"introduction",
	"background",
	"methods",
	"methodology",
	"materials and methods",
	"results",
	"discussion",
	"conclusion",
	"conclusions",
	"references",
	"acknowledgements",
	"acknowledgments",
}

// Segment splits normalized text into labeled sections by scanning for
// known heading lines. Section names are unique: a repeated heading
// replaces the content recorded under that name. Text before the first
// recognized heading is front matter and is dropped; only documents with
// no recognizable headings at all come back as a single "full_text"
// section holding everything.
func Segment(text string) []Section {
	lines := strings.Split(text, "\n")

	var sections []Section
	var name string
	var body []string

	flush := func() {
		t := strings.TrimSpace(strings.Join(body, "\n"))
		body = body[:0]
		if name == "" || t == "" {
			return
		}
		for i := range sections {
			if sections[i].Name == name {
				sections[i].Text = t
				return
			}
		}
		sections = append(sections, Section{Name: name, Text: t})
	}

	sawHeading := false
	for _, line := range lines {
		if n := headingName(line); n != "" {
			flush()
			name = n
			sawHeading = true
			continue
		}
		body = append(body, line)
	}
	flush()

	if !sawHeading {
		if t := strings.TrimSpace(text); t != "" {
			return []Section{{Name: "full_text", Text: t}}
		}
		return nil
	}
	return sections
}

// headingName reports the canonical section name when the line is a
// recognized heading, "" otherwise. Headings are short lines matching
// the vocabulary after stripping numbering ("2. Methods") and a trailing
// colon.
func headingName(line string) string {
	s := strings.TrimSpace(strings.ToLower(line))
	if s == "" || len(s) > 60 {
		return ""
	}
	s = strings.TrimSuffix(s, ":")
	s = strings.TrimSpace(strings.TrimLeft(s, "0123456789.·)- "))

	for _, name := range sectionVocabulary {
		if s == name {
			return name
		}
	}
	return ""
}
