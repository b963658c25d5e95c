// Package pipeline analyzes a list of files in sequential batches, running
// the files of each batch concurrently, and folds the results into a
// project aggregate.
package pipeline

import (
	"github.com/blackwell-systems/codegauge/internal/errs"
	"github.com/blackwell-systems/codegauge/internal/lang"
	"github.com/blackwell-systems/codegauge/internal/metrics"
)

// Progress is reported after each successfully analyzed file.
type Progress struct {
	// Current counts every completed file so far, failures included.
	Current int `json:"current"`
	Total   int `json:"total"`

	// Percentage is round(Current/Total*100).
	Percentage  int    `json:"percentage"`
	CurrentFile string `json:"current_file"`
}

// Hooks are optional callbacks invoked as files complete. Calls are
// serialized; a hook never runs concurrently with another hook of the same
// run.
type Hooks struct {
	OnFileDone func(*metrics.FileMetrics)
	OnProgress func(Progress)
}

// Failure records a file that was skipped.
type Failure struct {
	Path    string    `json:"path" yaml:"path"`
	Code    errs.Code `json:"code" yaml:"code"`
	Message string    `json:"message" yaml:"message"`
}

// Aggregate holds project-level statistics over every successfully analyzed
// file. Failed files contribute only to Failures.
type Aggregate struct {
	// Root is set by callers that know the scanned directory.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	TotalFiles           int                   `json:"total_files" yaml:"total_files"`
	TotalLines           int                   `json:"total_lines" yaml:"total_lines"`
	TotalCodeLines       int                   `json:"total_code_lines" yaml:"total_code_lines"`
	TotalCommentLines    int                   `json:"total_comment_lines" yaml:"total_comment_lines"`
	TestFileCount        int                   `json:"test_file_count" yaml:"test_file_count"`
	DirectoryCount       int                   `json:"directory_count" yaml:"directory_count"`
	LanguageDistribution map[lang.Language]int `json:"language_distribution" yaml:"language_distribution"`

	// AvgQualityScore is the rounded mean quality score.
	AvgQualityScore int `json:"avg_quality_score" yaml:"avg_quality_score"`

	// AvgComplexity is the mean cyclomatic complexity, two decimals.
	AvgComplexity float64 `json:"avg_complexity" yaml:"avg_complexity"`

	// IssueSummary counts files per issue text.
	IssueSummary map[string]int `json:"issue_summary" yaml:"issue_summary"`

	Files    []*metrics.FileMetrics `json:"files" yaml:"files"`
	Failures []Failure              `json:"failures,omitempty" yaml:"failures,omitempty"`
}

func newAggregate() *Aggregate {
	return &Aggregate{
		LanguageDistribution: make(map[lang.Language]int),
		IssueSummary:         make(map[string]int),
	}
}
