package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// SchemaVersion returns the applied schema version, 0 for a fresh database.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// migrateV1 creates the analysis tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id                  TEXT PRIMARY KEY,
			root                TEXT NOT NULL,
			created_at          TEXT NOT NULL,
			version             TEXT NOT NULL,
			total_files         INTEGER NOT NULL,
			total_lines         INTEGER NOT NULL,
			total_code_lines    INTEGER NOT NULL,
			total_comment_lines INTEGER NOT NULL,
			test_file_count     INTEGER NOT NULL,
			directory_count     INTEGER NOT NULL,
			avg_quality_score   INTEGER NOT NULL,
			avg_complexity      REAL NOT NULL,
			failed_files        INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS analysis_languages (
			analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			language    TEXT NOT NULL,
			file_count  INTEGER NOT NULL,
			PRIMARY KEY (analysis_id, language)
		)`,

		`CREATE TABLE IF NOT EXISTS file_metrics (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id           TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			path                  TEXT NOT NULL,
			language              TEXT NOT NULL,
			total_lines           INTEGER NOT NULL,
			code_lines            INTEGER NOT NULL,
			comment_lines         INTEGER NOT NULL,
			blank_lines           INTEGER NOT NULL,
			comments_ratio        REAL NOT NULL,
			cyclomatic_complexity INTEGER NOT NULL,
			nesting_depth         INTEGER NOT NULL,
			quality_score         INTEGER NOT NULL,
			maintainability_index INTEGER NOT NULL,
			file_size             INTEGER NOT NULL,
			content_hash          TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS analysis_issues (
			analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			issue       TEXT NOT NULL,
			file_count  INTEGER NOT NULL,
			PRIMARY KEY (analysis_id, issue)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_analyses_root ON analyses(root, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_file_metrics_analysis ON file_metrics(analysis_id)`,
		`CREATE INDEX IF NOT EXISTS idx_file_metrics_hash ON file_metrics(content_hash)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
