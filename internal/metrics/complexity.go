package metrics

import (
	"regexp"
	"strings"

	"github.com/blackwell-systems/codegauge/internal/lang"
)

// Estimator produces a complexity estimate for source text. Implementations
// are pure functions of their input.
type Estimator interface {
	Estimate(text string) ComplexityMetrics
}

// patternEstimator counts regular-expression matches over raw text. It is
// not a parser: matches inside string literals and comments are counted too.
type patternEstimator struct {
	conditionals []*regexp.Regexp
	loops        []*regexp.Regexp
	depth        func(text string) int
}

// Estimate implements Estimator.
func (e *patternEstimator) Estimate(text string) ComplexityMetrics {
	conditionals := countMatches(text, e.conditionals)
	loops := countMatches(text, e.loops)

	depth := 0
	if e.depth != nil {
		depth = e.depth(text)
	}

	return ComplexityMetrics{
		CyclomaticComplexity: 1 + conditionals + loops,
		NestingDepth:         depth,
		ConditionalCount:     conditionals,
		LoopCount:            loops,
	}
}

func countMatches(text string, patterns []*regexp.Regexp) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllStringIndex(text, -1))
	}
	return n
}

var jsEstimator = &patternEstimator{
	conditionals: []*regexp.Regexp{
		regexp.MustCompile(`\bif\s*\(`),
		regexp.MustCompile(`\belse\s+if\s*\(`),
		regexp.MustCompile(`\bswitch\s*\(`),
		regexp.MustCompile(`\bcase\s+`),
		regexp.MustCompile(`\?\s*.*\s*:`),
		regexp.MustCompile(`&&`),
		regexp.MustCompile(`\|\|`),
	},
	loops: []*regexp.Regexp{
		regexp.MustCompile(`\bfor\s*\(`),
		regexp.MustCompile(`\bwhile\s*\(`),
		regexp.MustCompile(`\bdo\s*\{`),
		regexp.MustCompile(`\.forEach\s*\(`),
		regexp.MustCompile(`\.map\s*\(`),
		regexp.MustCompile(`\.filter\s*\(`),
		regexp.MustCompile(`\.reduce\s*\(`),
	},
	depth: braceDepth,
}

var pythonEstimator = &patternEstimator{
	conditionals: []*regexp.Regexp{
		regexp.MustCompile(`\bif\s+`),
		regexp.MustCompile(`\belif\s+`),
		regexp.MustCompile(`\bexcept\s+`),
		regexp.MustCompile(`\band\b`),
		regexp.MustCompile(`\bor\b`),
	},
	loops: []*regexp.Regexp{
		regexp.MustCompile(`\bfor\s+.*\bin\s+`),
		regexp.MustCompile(`\bwhile\s+`),
	},
	depth: indentDepth,
}

var genericEstimator = &patternEstimator{
	conditionals: []*regexp.Regexp{
		regexp.MustCompile(`\bif\b`),
	},
	loops: []*regexp.Regexp{
		regexp.MustCompile(`\b(for|while)\b`),
	},
}

// EstimatorFor returns the estimator for l. Languages without dedicated
// support fall back to the generic estimator.
func EstimatorFor(l lang.Language) Estimator {
	switch l {
	case lang.JavaScript, lang.TypeScript:
		return jsEstimator
	case lang.Python:
		return pythonEstimator
	default:
		return genericEstimator
	}
}

// EstimateComplexity is shorthand for EstimatorFor(l).Estimate(text).
func EstimateComplexity(text string, l lang.Language) ComplexityMetrics {
	return EstimatorFor(l).Estimate(text)
}

// braceDepth returns the maximum running { } depth. Unbalanced closing
// braces never push the depth below zero.
func braceDepth(text string) int {
	depth, maxDepth := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return maxDepth
}

// indentDepth returns the maximum indent level over non-blank lines, where a
// level is four leading whitespace characters.
func indentDepth(text string) int {
	maxDepth := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		leading := len(line) - len(strings.TrimLeft(line, " \t\r\f\v"))
		if level := leading / 4; level > maxDepth {
			maxDepth = level
		}
	}
	return maxDepth
}
