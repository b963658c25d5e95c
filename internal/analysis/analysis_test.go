package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/codegauge/internal/config"
	"github.com/blackwell-systems/codegauge/internal/errs"
	"github.com/blackwell-systems/codegauge/internal/lang"
	"github.com/blackwell-systems/codegauge/internal/metrics"
	"github.com/blackwell-systems/codegauge/internal/pipeline"
)

func testConfig(uploadRoot string) *config.Config {
	return &config.Config{
		UploadRoot:          uploadRoot,
		MaxFileSize:         config.DefaultMaxFileSize,
		BatchSize:           config.DefaultBatchSize,
		SupportedExtensions: config.DefaultSupportedExtensions,
		IgnoredDirectories:  config.DefaultIgnoredDirectories,
		IgnoredFiles:        config.DefaultIgnoredFiles,
		RespectGitignore:    true,
		Quality:             config.DefaultQuality,
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// failingReader fails for paths ending in the given suffix and reads the
// rest from disk.
type failingReader struct{ suffix string }

func (r failingReader) ReadFile(_ context.Context, path string) ([]byte, error) {
	if strings.HasSuffix(path, r.suffix) {
		return nil, errors.New("device not ready")
	}
	return os.ReadFile(path)
}

func TestAnalyzeFile(t *testing.T) {
	svc := New(testConfig(t.TempDir()), nil)

	fm, err := svc.AnalyzeFile("a.js", "// a\nconst x = 1;\n")
	require.NoError(t, err)
	assert.Equal(t, lang.JavaScript, fm.Language)
	assert.Equal(t, 3, fm.Lines.TotalLines)

	_, err = svc.AnalyzeFile("", "x")
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestAnalyzeFile_UsesConfiguredThresholds(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Quality.MaxComplexity = 1

	fm, err := New(cfg, nil).AnalyzeFile("b.js", "// check\nif (a) { b(); }\n")
	require.NoError(t, err)
	assert.Contains(t, fm.Quality.Issues, metrics.IssueHighComplexity)
}

func TestAnalyzeProject(t *testing.T) {
	upload := t.TempDir()
	writeTree(t, upload, map[string]string{
		"app/src/a.js":                "// a\nconst a = 1;\n",
		"app/src/__tests__/a.test.js": "test('a', () => {});\n",
		"app/node_modules/dep/x.js":   "module.exports = 1;\n",
	})

	var done int
	agg, err := New(testConfig(upload), nil).AnalyzeProject(context.Background(), "app", 0, pipeline.Hooks{
		OnFileDone: func(*metrics.FileMetrics) { done++ },
	})
	require.NoError(t, err)

	assert.Equal(t, 2, agg.TotalFiles)
	assert.Equal(t, 2, done)
	assert.Equal(t, 1, agg.TestFileCount)
	assert.Equal(t, 2, agg.DirectoryCount)
	assert.Equal(t, 2, agg.LanguageDistribution[lang.JavaScript])
	assert.True(t, filepath.IsAbs(agg.Root))
	assert.Empty(t, agg.Failures)
}

func TestAnalyzeProject_PartialFailure(t *testing.T) {
	upload := t.TempDir()
	writeTree(t, upload, map[string]string{
		"p/1.js": "a;",
		"p/2.js": "b;",
		"p/3.js": "c;",
		"p/4.js": "d;",
		"p/5.js": "e;",
	})

	var done int
	svc := New(testConfig(upload), nil, WithReader(failingReader{suffix: "3.js"}))
	agg, err := svc.AnalyzeProject(context.Background(), "p", 2, pipeline.Hooks{
		OnFileDone: func(*metrics.FileMetrics) { done++ },
	})
	require.NoError(t, err)

	assert.Equal(t, 4, agg.TotalFiles)
	assert.Equal(t, 4, done)
	require.Len(t, agg.Failures, 1)
	assert.Equal(t, errs.CodeFileReadFailure, agg.Failures[0].Code)
	assert.True(t, strings.HasSuffix(agg.Failures[0].Path, "3.js"))
}

func TestAnalyzeProject_PathTraversal(t *testing.T) {
	parent := t.TempDir()
	upload := filepath.Join(parent, "uploads")
	writeTree(t, parent, map[string]string{"other/x.js": "x;"})
	require.NoError(t, os.MkdirAll(upload, 0o755))

	called := false
	agg, err := New(testConfig(upload), nil).AnalyzeProject(context.Background(), "../other", 0, pipeline.Hooks{
		OnFileDone: func(*metrics.FileMetrics) { called = true },
	})

	assert.Nil(t, agg)
	assert.True(t, errors.Is(err, errs.ErrPathTraversal))
	assert.False(t, called)
}

func TestThresholds(t *testing.T) {
	got := Thresholds(config.DefaultQuality)
	assert.Equal(t, metrics.DefaultThresholds, got)
}
