// Package suggest turns project analysis results into ranked, actionable
// recommendations.
package suggest

import "github.com/blackwell-systems/codegauge/internal/metrics"

// Priority levels for suggestions.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// Suggestion represents an actionable improvement recommendation.
type Suggestion struct {
	Category    string   `json:"category" yaml:"category"`
	Priority    int      `json:"priority" yaml:"priority"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	ImpactScore float64  `json:"impact_score" yaml:"impact_score"`
	Files       []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// AnalysisContext is the project view the rules work on. Build it from a
// pipeline aggregate with FromAggregate.
type AnalysisContext struct {
	Root              string
	TotalFiles        int
	TotalLines        int
	TotalCommentLines int
	TestFileCount     int
	AvgQualityScore   int
	AvgComplexity     float64

	Files    []FileContext
	Failures []FailureContext

	// Thresholds are the same limits the per-file scorer used.
	Thresholds metrics.Thresholds
}

// FileContext is the per-file data rules look at. Path is relative to Root
// when possible.
type FileContext struct {
	Path         string
	CodeLines    int
	CommentRatio float64
	Complexity   int
	NestingDepth int
	QualityScore int
}

// FailureContext describes a file the pipeline could not analyze.
type FailureContext struct {
	Path string
	Code string
}

// Rule examines the analysis context and produces zero or more suggestions.
type Rule func(ctx *AnalysisContext) []Suggestion
