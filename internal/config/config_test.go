package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.UploadRoot != DefaultUploadRoot {
		t.Errorf("UploadRoot = %q, want %q", cfg.UploadRoot, DefaultUploadRoot)
	}
	if cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("MaxFileSize = %d, want %d", cfg.MaxFileSize, DefaultMaxFileSize)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", cfg.BatchSize, DefaultBatchSize)
	}
	if len(cfg.SupportedExtensions) != len(DefaultSupportedExtensions) {
		t.Errorf("SupportedExtensions = %v", cfg.SupportedExtensions)
	}
	if !cfg.RespectGitignore {
		t.Error("RespectGitignore should default to true")
	}
	if cfg.Quality != DefaultQuality {
		t.Errorf("Quality = %+v, want %+v", cfg.Quality, DefaultQuality)
	}
	if !strings.HasSuffix(cfg.Database(), DefaultDBName) {
		t.Errorf("Database() = %q", cfg.Database())
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
upload_root: /srv/uploads
batch_size: 4
max_file_size: 2048
ignored_directories: [vendor]
quality:
  max_complexity: 15
output:
  color: false
db_path: /tmp/cg.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.UploadRoot != "/srv/uploads" {
		t.Errorf("UploadRoot = %q", cfg.UploadRoot)
	}
	if cfg.BatchSize != 4 {
		t.Errorf("BatchSize = %d, want 4", cfg.BatchSize)
	}
	if cfg.MaxFileSize != 2048 {
		t.Errorf("MaxFileSize = %d, want 2048", cfg.MaxFileSize)
	}
	if len(cfg.IgnoredDirectories) != 1 || cfg.IgnoredDirectories[0] != "vendor" {
		t.Errorf("IgnoredDirectories = %v", cfg.IgnoredDirectories)
	}
	if cfg.Quality.MaxComplexity != 15 {
		t.Errorf("MaxComplexity = %d, want 15", cfg.Quality.MaxComplexity)
	}
	// Unset keys keep their defaults.
	if cfg.Quality.MaxNesting != DefaultQuality.MaxNesting {
		t.Errorf("MaxNesting = %d, want %d", cfg.Quality.MaxNesting, DefaultQuality.MaxNesting)
	}
	if cfg.Output.Color {
		t.Error("Output.Color should be false")
	}
	if cfg.Database() != "/tmp/cg.db" {
		t.Errorf("Database() = %q", cfg.Database())
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CODEGAUGE_BATCH_SIZE", "3")
	t.Setenv("CODEGAUGE_QUALITY_MAX_NESTING", "6")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BatchSize != 3 {
		t.Errorf("BatchSize = %d, want 3", cfg.BatchSize)
	}
	if cfg.Quality.MaxNesting != 6 {
		t.Errorf("MaxNesting = %d, want 6", cfg.Quality.MaxNesting)
	}
}

func TestLoad_MissingFileIsNotError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "batch_size: 0\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for zero batch size")
	}
	if !strings.Contains(err.Error(), "batch_size") {
		t.Errorf("error should mention batch_size: %v", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "batch_size: [unclosed\n")

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"empty root", func(c *Config) { c.UploadRoot = " " }, "upload_root"},
		{"negative size", func(c *Config) { c.MaxFileSize = -1 }, "max_file_size"},
		{"inverted comment ratios", func(c *Config) { c.Quality.MinCommentRatio = 60 }, "min_comment_ratio"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				UploadRoot: ".",
				BatchSize:  DefaultBatchSize,
				Quality:    DefaultQuality,
			}
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("expandPath = %q", got)
	}
	if got := expandPath("/abs"); got != "/abs" {
		t.Errorf("expandPath = %q", got)
	}
}
