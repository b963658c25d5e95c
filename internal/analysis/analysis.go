// Package analysis is the entry point to the metrics core. It wires the
// engine, scanner and pipeline together from a Config and exposes the two
// operations hosts call: AnalyzeFile and AnalyzeProject.
package analysis

import (
	"context"
	"log/slog"

	"github.com/blackwell-systems/codegauge/internal/config"
	"github.com/blackwell-systems/codegauge/internal/metrics"
	"github.com/blackwell-systems/codegauge/internal/pipeline"
	"github.com/blackwell-systems/codegauge/internal/scanner"
)

// Service runs single-file and project analyses.
type Service struct {
	engine    *metrics.Engine
	scanner   *scanner.Scanner
	pipeline  *pipeline.Pipeline
	batchSize int
	logger    *slog.Logger
}

// Option customizes a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	reader pipeline.FileReader
}

// WithReader makes project analyses read files through r.
func WithReader(r pipeline.FileReader) Option {
	return func(o *serviceOptions) { o.reader = r }
}

// New builds a Service from cfg. A nil logger falls back to slog.Default().
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	var so serviceOptions
	for _, opt := range opts {
		opt(&so)
	}

	engine := metrics.NewEngine(metrics.Options{
		MaxFileSize: cfg.MaxFileSize,
		Thresholds:  Thresholds(cfg.Quality),
	}, logger)

	sc := scanner.New(scanner.Options{
		UploadRoot:          cfg.UploadRoot,
		SupportedExtensions: cfg.SupportedExtensions,
		IgnoredDirectories:  cfg.IgnoredDirectories,
		IgnoredFiles:        cfg.IgnoredFiles,
		RespectGitignore:    cfg.RespectGitignore,
	}, logger)

	pipeOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if so.reader != nil {
		pipeOpts = append(pipeOpts, pipeline.WithReader(so.reader))
	}

	return &Service{
		engine:    engine,
		scanner:   sc,
		pipeline:  pipeline.New(engine, cfg.BatchSize, pipeOpts...),
		batchSize: cfg.BatchSize,
		logger:    logger.With("component", "analysis"),
	}
}

// Thresholds converts configured quality thresholds for the scorer.
func Thresholds(q config.Quality) metrics.Thresholds {
	return metrics.Thresholds{
		MinCommentRatio:  q.MinCommentRatio,
		MaxCommentRatio:  q.MaxCommentRatio,
		MaxComplexity:    q.MaxComplexity,
		MaxNesting:       q.MaxNesting,
		MaxCodeLines:     q.MaxCodeLines,
		MaxAvgLineLength: q.MaxAvgLineLength,
	}
}

// AnalyzeFile analyzes one file's content. It fails with INVALID_INPUT or
// FILE_TOO_BIG.
func (s *Service) AnalyzeFile(filename, content string) (*metrics.FileMetrics, error) {
	return s.engine.Analyze(filename, content)
}

// AnalyzeProject scans rootPath and analyzes every qualifying file. It fails
// with PATH_TRAVERSAL or SCAN_FAILURE before any file is analyzed; per-file
// problems end up in Aggregate.Failures instead. A non-positive batchSize
// uses the configured default.
func (s *Service) AnalyzeProject(ctx context.Context, rootPath string, batchSize int, hooks pipeline.Hooks) (*pipeline.Aggregate, error) {
	res, err := s.scanner.Scan(rootPath)
	if err != nil {
		return nil, err
	}

	if batchSize <= 0 {
		batchSize = s.batchSize
	}
	s.logger.Info("analyzing project", "path", res.Root, "files", len(res.Files), "batch_size", batchSize)

	agg, err := s.pipeline.Run(ctx, res.Files, batchSize, hooks)
	if agg != nil {
		agg.Root = res.Root
		agg.TestFileCount = res.TestFileCount
		agg.DirectoryCount = res.DirectoryCount
	}
	if err != nil {
		return agg, err
	}

	s.logger.Info("project analyzed",
		"path", res.Root,
		"analyzed", agg.TotalFiles,
		"failed", len(agg.Failures),
		"avg_quality", agg.AvgQualityScore,
	)
	return agg, nil
}
