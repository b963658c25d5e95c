package metrics

import (
	"math"
	"regexp"
	"strings"

	"github.com/blackwell-systems/codegauge/internal/lang"
)

// blockComment matches /* ... */ spans non-greedily, across lines. Nested
// block comments are not supported: the first */ closes the span.
var blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

// lineCommentMarker returns the single-line comment prefix for l.
func lineCommentMarker(l lang.Language) string {
	if l == lang.Python {
		return "#"
	}
	return "//"
}

// ClassifyLines splits text into blank, comment and code lines.
//
// An empty string is one empty line. Each block comment span counts as a
// single comment unit, while every line fully covered by a span is excluded
// from CodeLines.
func ClassifyLines(text string, l lang.Language) LineMetrics {
	marker := lineCommentMarker(l)
	lines := strings.Split(text, "\n")

	spans := blockComment.FindAllStringIndex(text, -1)
	masked := maskSpans(text, spans)
	maskedLines := strings.Split(masked, "\n")

	var m LineMetrics
	m.TotalLines = len(lines)

	singleLine := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			m.BlankLines++
			continue
		}
		if strings.HasPrefix(trimmed, marker) {
			singleLine++
			continue
		}

		rest := strings.TrimSpace(maskedLines[i])
		if rest == "" || strings.HasPrefix(rest, marker) {
			continue
		}
		m.CodeLines++
	}

	m.CommentLines = singleLine + len(spans)

	if m.TotalLines > 0 {
		total := float64(m.TotalLines)
		m.CommentsRatio = round2(float64(m.CommentLines) / total * 100)
		m.CodeRatio = round2(float64(m.CodeLines) / total * 100)
		m.BlankRatio = round2(float64(m.BlankLines) / total * 100)
	}
	if m.CodeLines > 0 {
		m.AvgLineLength = round2(float64(len(text)) / float64(m.CodeLines))
	}

	return m
}

// maskSpans blanks every byte inside spans except newlines, so line indexes
// stay aligned with the original text.
func maskSpans(text string, spans [][]int) string {
	if len(spans) == 0 {
		return text
	}
	b := []byte(text)
	for _, s := range spans {
		for i := s[0]; i < s[1]; i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
	}
	return string(b)
}

// round2 rounds to two decimal places.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
