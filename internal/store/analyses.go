package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/codegauge/internal/pipeline"
)

// SaveAnalysis stores agg together with its per-file metrics, language
// distribution and issue summary in one transaction, and returns the new
// record.
func (db *DB) SaveAnalysis(agg *pipeline.Aggregate, version string) (*Analysis, error) {
	a := &Analysis{
		ID:                uuid.NewString(),
		Root:              agg.Root,
		CreatedAt:         time.Now().UTC(),
		Version:           version,
		TotalFiles:        agg.TotalFiles,
		TotalLines:        agg.TotalLines,
		TotalCodeLines:    agg.TotalCodeLines,
		TotalCommentLines: agg.TotalCommentLines,
		TestFileCount:     agg.TestFileCount,
		DirectoryCount:    agg.DirectoryCount,
		AvgQualityScore:   agg.AvgQualityScore,
		AvgComplexity:     agg.AvgComplexity,
		FailedFiles:       len(agg.Failures),
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO analyses
		(id, root, created_at, version, total_files, total_lines, total_code_lines,
		 total_comment_lines, test_file_count, directory_count, avg_quality_score,
		 avg_complexity, failed_files)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Root, a.CreatedAt.Format(timeLayout), a.Version, a.TotalFiles,
		a.TotalLines, a.TotalCodeLines, a.TotalCommentLines, a.TestFileCount,
		a.DirectoryCount, a.AvgQualityScore, a.AvgComplexity, a.FailedFiles,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting analysis: %w", err)
	}

	for language, n := range agg.LanguageDistribution {
		if _, err := tx.Exec(
			"INSERT INTO analysis_languages (analysis_id, language, file_count) VALUES (?, ?, ?)",
			a.ID, string(language), n,
		); err != nil {
			return nil, fmt.Errorf("inserting language %s: %w", language, err)
		}
	}

	for issue, n := range agg.IssueSummary {
		if _, err := tx.Exec(
			"INSERT INTO analysis_issues (analysis_id, issue, file_count) VALUES (?, ?, ?)",
			a.ID, issue, n,
		); err != nil {
			return nil, fmt.Errorf("inserting issue %q: %w", issue, err)
		}
	}

	stmt, err := tx.Prepare(
		`INSERT INTO file_metrics
		(analysis_id, path, language, total_lines, code_lines, comment_lines, blank_lines,
		 comments_ratio, cyclomatic_complexity, nesting_depth, quality_score,
		 maintainability_index, file_size, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, fm := range agg.Files {
		if _, err := stmt.Exec(
			a.ID, fm.Path, string(fm.Language), fm.Lines.TotalLines, fm.Lines.CodeLines,
			fm.Lines.CommentLines, fm.Lines.BlankLines, fm.Lines.CommentsRatio,
			fm.Complexity.CyclomaticComplexity, fm.Complexity.NestingDepth,
			fm.Quality.QualityScore, fm.Quality.MaintainabilityIndex, fm.FileSize,
			fm.ContentHash,
		); err != nil {
			return nil, fmt.Errorf("inserting file %s: %w", fm.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

// timeLayout has a fixed width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const analysisColumns = `id, root, created_at, version, total_files, total_lines,
	total_code_lines, total_comment_lines, test_file_count, directory_count,
	avg_quality_score, avg_complexity, failed_files`

// ListAnalyses returns the most recent analyses first. An empty root lists
// every project; limit <= 0 means no limit.
func (db *DB) ListAnalyses(root string, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(
		`SELECT `+analysisColumns+` FROM analyses
		WHERE ? = '' OR root = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`,
		root, root, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// GetAnalysis returns an analysis by ID, or nil if it does not exist.
func (db *DB) GetAnalysis(id string) (*Analysis, error) {
	row := db.conn.QueryRow(`SELECT `+analysisColumns+` FROM analyses WHERE id = ?`, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// GetFileMetrics returns the stored files of an analysis sorted by path.
func (db *DB) GetFileMetrics(analysisID string) ([]FileRecord, error) {
	rows, err := db.conn.Query(
		`SELECT analysis_id, path, language, total_lines, code_lines, comment_lines,
		 blank_lines, comments_ratio, cyclomatic_complexity, nesting_depth,
		 quality_score, maintainability_index, file_size, content_hash
		FROM file_metrics WHERE analysis_id = ? ORDER BY path`,
		analysisID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var r FileRecord
		if err := rows.Scan(
			&r.AnalysisID, &r.Path, &r.Language, &r.TotalLines, &r.CodeLines,
			&r.CommentLines, &r.BlankLines, &r.CommentsRatio, &r.CyclomaticComplexity,
			&r.NestingDepth, &r.QualityScore, &r.MaintainabilityIndex, &r.FileSize,
			&r.ContentHash,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetLanguageDistribution returns file counts per language for an analysis.
func (db *DB) GetLanguageDistribution(analysisID string) (map[string]int, error) {
	return db.countMap("SELECT language, file_count FROM analysis_languages WHERE analysis_id = ?", analysisID)
}

// GetIssueSummary returns file counts per issue for an analysis.
func (db *DB) GetIssueSummary(analysisID string) (map[string]int, error) {
	return db.countMap("SELECT issue, file_count FROM analysis_issues WHERE analysis_id = ?", analysisID)
}

// DeleteAnalysis removes an analysis and its child rows.
func (db *DB) DeleteAnalysis(id string) error {
	_, err := db.conn.Exec("DELETE FROM analyses WHERE id = ?", id)
	return err
}

func (db *DB) countMap(query, id string) (map[string]int, error) {
	rows, err := db.conn.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*Analysis, error) {
	var a Analysis
	var createdAt string
	err := row.Scan(
		&a.ID, &a.Root, &createdAt, &a.Version, &a.TotalFiles, &a.TotalLines,
		&a.TotalCodeLines, &a.TotalCommentLines, &a.TestFileCount, &a.DirectoryCount,
		&a.AvgQualityScore, &a.AvgComplexity, &a.FailedFiles,
	)
	if err != nil {
		return nil, err
	}
	a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &a, nil
}
