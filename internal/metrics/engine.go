package metrics

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/minio/highwayhash"

	"github.com/blackwell-systems/codegauge/internal/errs"
	"github.com/blackwell-systems/codegauge/internal/lang"
)

// hashKey is the fixed HighwayHash key. Content hashes only need to be stable
// across runs, not secret.
var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Options configures an Engine.
type Options struct {
	// MaxFileSize rejects content larger than this many bytes. Zero disables
	// the check.
	MaxFileSize int64
	Thresholds  Thresholds
}

// Engine runs the full per-file analysis: language detection, line
// classification, complexity estimation and scoring.
type Engine struct {
	opts   Options
	scorer *Scorer
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates an Engine. A nil logger falls back to slog.Default().
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		opts:   opts,
		scorer: NewScorer(opts.Thresholds),
		logger: logger.With("component", "metrics"),
		now:    time.Now,
	}
}

// Analyze computes FileMetrics for one file. It fails with INVALID_INPUT for a
// blank filename or non-text content, and with FILE_TOO_BIG when the content
// exceeds the configured limit.
func (e *Engine) Analyze(filename, content string) (*FileMetrics, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, errs.InvalidInput(filename, "filename is empty")
	}
	if !utf8.ValidString(content) || strings.IndexByte(content, 0) >= 0 {
		return nil, errs.InvalidInput(filename, "content is not text")
	}
	size := int64(len(content))
	if e.opts.MaxFileSize > 0 && size > e.opts.MaxFileSize {
		return nil, errs.New(errs.CodeFileTooBig, filename,
			fmt.Sprintf("file size %d exceeds limit %d", size, e.opts.MaxFileSize))
	}
	if strings.TrimSpace(content) == "" {
		e.logger.Warn("analyzing empty file", "path", filename)
	}

	language := lang.Detect(filename)
	lines := ClassifyLines(content, language)
	complexity := EstimatorFor(language).Estimate(content)
	quality := e.scorer.Score(lines, complexity)

	hash, err := contentHash(content)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", filename, err)
	}

	e.logger.Debug("file analyzed",
		"path", filename,
		"language", language,
		"quality", quality.QualityScore,
		"complexity", complexity.CyclomaticComplexity,
	)

	return &FileMetrics{
		Path:        filename,
		Language:    language,
		Lines:       lines,
		Complexity:  complexity,
		Quality:     quality,
		FileSize:    size,
		ContentHash: hash,
		AnalyzedAt:  e.now().UTC(),
	}, nil
}

func contentHash(content string) (string, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return "", err
	}
	if _, err := h.Write([]byte(content)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
