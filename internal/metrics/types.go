// Package metrics implements the static metrics and scoring engine: line
// classification, complexity estimation and quality scoring for a single
// source file.
package metrics

import (
	"time"

	"github.com/blackwell-systems/codegauge/internal/lang"
)

// LineMetrics holds line classification counts and ratios for one file.
// Ratios are percentages in [0,100] rounded to two decimals.
type LineMetrics struct {
	TotalLines    int     `json:"total_lines" yaml:"total_lines"`
	CodeLines     int     `json:"code_lines" yaml:"code_lines"`
	CommentLines  int     `json:"comment_lines" yaml:"comment_lines"`
	BlankLines    int     `json:"blank_lines" yaml:"blank_lines"`
	CommentsRatio float64 `json:"comments_ratio" yaml:"comments_ratio"`
	CodeRatio     float64 `json:"code_ratio" yaml:"code_ratio"`
	BlankRatio    float64 `json:"blank_ratio" yaml:"blank_ratio"`

	// AvgLineLength is the content size in bytes divided by CodeLines.
	AvgLineLength float64 `json:"avg_line_length" yaml:"avg_line_length"`
}

// ComplexityMetrics holds the pattern-based complexity estimate for one file.
// CyclomaticComplexity is always 1 + ConditionalCount + LoopCount.
type ComplexityMetrics struct {
	CyclomaticComplexity int `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	NestingDepth         int `json:"nesting_depth" yaml:"nesting_depth"`
	ConditionalCount     int `json:"conditional_count" yaml:"conditional_count"`
	LoopCount            int `json:"loop_count" yaml:"loop_count"`
}

// QualityAssessment is the bounded score derived from line and complexity
// metrics. Issues and Suggestions are parallel, in rule order.
type QualityAssessment struct {
	QualityScore         int      `json:"quality_score" yaml:"quality_score"`
	Issues               []string `json:"issues" yaml:"issues"`
	Suggestions          []string `json:"suggestions" yaml:"suggestions"`
	MaintainabilityIndex int      `json:"maintainability_index" yaml:"maintainability_index"`
}

// FileMetrics is the complete analysis record for one file. It is created
// once by Engine.Analyze and never mutated afterwards.
type FileMetrics struct {
	Path        string            `json:"path" yaml:"path"`
	Language    lang.Language     `json:"language" yaml:"language"`
	Lines       LineMetrics       `json:"lines" yaml:"lines"`
	Complexity  ComplexityMetrics `json:"complexity" yaml:"complexity"`
	Quality     QualityAssessment `json:"quality" yaml:"quality"`
	FileSize    int64             `json:"file_size" yaml:"file_size"`
	ContentHash string            `json:"content_hash" yaml:"content_hash"`
	AnalyzedAt  time.Time         `json:"analyzed_at" yaml:"analyzed_at"`
}
