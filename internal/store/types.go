package store

import "time"

// Analysis is one saved project analysis.
type Analysis struct {
	ID                string    `json:"id" yaml:"id"`
	Root              string    `json:"root" yaml:"root"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
	Version           string    `json:"version" yaml:"version"`
	TotalFiles        int       `json:"total_files" yaml:"total_files"`
	TotalLines        int       `json:"total_lines" yaml:"total_lines"`
	TotalCodeLines    int       `json:"total_code_lines" yaml:"total_code_lines"`
	TotalCommentLines int       `json:"total_comment_lines" yaml:"total_comment_lines"`
	TestFileCount     int       `json:"test_file_count" yaml:"test_file_count"`
	DirectoryCount    int       `json:"directory_count" yaml:"directory_count"`
	AvgQualityScore   int       `json:"avg_quality_score" yaml:"avg_quality_score"`
	AvgComplexity     float64   `json:"avg_complexity" yaml:"avg_complexity"`
	FailedFiles       int       `json:"failed_files" yaml:"failed_files"`
}

// FileRecord is the stored summary of one analyzed file.
type FileRecord struct {
	AnalysisID           string  `json:"analysis_id"`
	Path                 string  `json:"path"`
	Language             string  `json:"language"`
	TotalLines           int     `json:"total_lines"`
	CodeLines            int     `json:"code_lines"`
	CommentLines         int     `json:"comment_lines"`
	BlankLines           int     `json:"blank_lines"`
	CommentsRatio        float64 `json:"comments_ratio"`
	CyclomaticComplexity int     `json:"cyclomatic_complexity"`
	NestingDepth         int     `json:"nesting_depth"`
	QualityScore         int     `json:"quality_score"`
	MaintainabilityIndex int     `json:"maintainability_index"`
	FileSize             int64   `json:"file_size"`
	ContentHash          string  `json:"content_hash"`
}
