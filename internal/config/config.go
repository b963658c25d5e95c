package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level codegauge configuration.
type Config struct {
	UploadRoot          string   `mapstructure:"upload_root"`
	MaxFileSize         int64    `mapstructure:"max_file_size"`
	BatchSize           int      `mapstructure:"batch_size"`
	SupportedExtensions []string `mapstructure:"supported_extensions"`
	IgnoredDirectories  []string `mapstructure:"ignored_directories"`
	IgnoredFiles        []string `mapstructure:"ignored_files"`
	RespectGitignore    bool     `mapstructure:"respect_gitignore"`
	Quality             Quality  `mapstructure:"quality"`
	Output              Output   `mapstructure:"output"`
	DBPath              string   `mapstructure:"db_path"`
}

// Quality holds the thresholds of the quality rule ladder.
type Quality struct {
	MinCommentRatio  float64 `mapstructure:"min_comment_ratio"`
	MaxCommentRatio  float64 `mapstructure:"max_comment_ratio"`
	MaxComplexity    int     `mapstructure:"max_complexity"`
	MaxNesting       int     `mapstructure:"max_nesting"`
	MaxCodeLines     int     `mapstructure:"max_code_lines"`
	MaxAvgLineLength float64 `mapstructure:"max_avg_line_length"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location),
// applies CODEGAUGE_* environment overrides and returns a validated Config.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("upload_root", DefaultUploadRoot)
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("supported_extensions", DefaultSupportedExtensions)
	v.SetDefault("ignored_directories", DefaultIgnoredDirectories)
	v.SetDefault("ignored_files", DefaultIgnoredFiles)
	v.SetDefault("respect_gitignore", true)
	v.SetDefault("quality.min_comment_ratio", DefaultQuality.MinCommentRatio)
	v.SetDefault("quality.max_comment_ratio", DefaultQuality.MaxCommentRatio)
	v.SetDefault("quality.max_complexity", DefaultQuality.MaxComplexity)
	v.SetDefault("quality.max_nesting", DefaultQuality.MaxNesting)
	v.SetDefault("quality.max_code_lines", DefaultQuality.MaxCodeLines)
	v.SetDefault("quality.max_avg_line_length", DefaultQuality.MaxAvgLineLength)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("db_path", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.UploadRoot = expandPath(cfg.UploadRoot)
	cfg.DBPath = expandPath(cfg.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the analysis core cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.UploadRoot) == "" {
		problems = append(problems, "upload_root must not be empty")
	}
	if c.BatchSize <= 0 {
		problems = append(problems, fmt.Sprintf("batch_size must be positive, got %d", c.BatchSize))
	}
	if c.MaxFileSize < 0 {
		problems = append(problems, fmt.Sprintf("max_file_size must not be negative, got %d", c.MaxFileSize))
	}
	if c.Quality.MinCommentRatio > c.Quality.MaxCommentRatio {
		problems = append(problems, "quality.min_comment_ratio exceeds quality.max_comment_ratio")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Database returns the SQLite path: db_path when set, otherwise the default
// location under the config directory.
func (c *Config) Database() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return DBPath()
}

// DBPath returns the default full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
