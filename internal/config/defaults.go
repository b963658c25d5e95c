// Package config provides configuration loading and defaults for codegauge.
package config

// DefaultConfigDir is the default location for codegauge configuration.
const DefaultConfigDir = "~/.config/codegauge"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "codegauge.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. CODEGAUGE_BATCH_SIZE.
const EnvPrefix = "CODEGAUGE"

// DefaultUploadRoot is the directory scan roots must stay inside of.
const DefaultUploadRoot = "."

// DefaultMaxFileSize is the largest file analyzed, in bytes (1 MiB).
const DefaultMaxFileSize int64 = 1024 * 1024

// DefaultBatchSize is the number of files analyzed concurrently per batch.
const DefaultBatchSize = 10

// DefaultSupportedExtensions are the extensions picked up by project scans.
var DefaultSupportedExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".py"}

// DefaultIgnoredDirectories are never descended into.
var DefaultIgnoredDirectories = []string{"node_modules", ".git", "dist", "build", ".next", "coverage"}

// DefaultIgnoredFiles are skipped by name.
var DefaultIgnoredFiles = []string{".DS_Store", "Thumbs.db", ".gitignore", ".env"}

// DefaultQuality holds the default quality rule thresholds.
var DefaultQuality = Quality{
	MinCommentRatio:  10,
	MaxCommentRatio:  50,
	MaxComplexity:    10,
	MaxNesting:       4,
	MaxCodeLines:     500,
	MaxAvgLineLength: 120,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
