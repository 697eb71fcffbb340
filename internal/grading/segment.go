package grading

import (
	"regexp"
	"strings"
)

var markerPattern = regexp.MustCompile(`\(\d+\)`)

// Split cuts a numbered text blob into per-item segments. Items are delimited
// by "(N)" markers located left-to-right; each segment spans from just after
// its marker to just before the next one (or end of text), with surrounding
// whitespace trimmed and internal whitespace preserved. A blob without any
// marker yields no segments.
//
// The same splitter is applied to question, reference-answer, and submission
// blobs so that item N lines up across all three.
func Split(text string) []string {
	locations := markerPattern.FindAllStringIndex(text, -1)
	if len(locations) == 0 {
		return nil
	}

	segments := make([]string, 0, len(locations))
	for i, loc := range locations {
		end := len(text)
		if i+1 < len(locations) {
			end = locations[i+1][0]
		}
		segments = append(segments, strings.TrimSpace(text[loc[1]:end]))
	}

	return segments
}
