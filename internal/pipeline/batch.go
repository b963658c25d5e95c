package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/codegauge/internal/errs"
	"github.com/blackwell-systems/codegauge/internal/metrics"
)

// Analyzer computes metrics for one file's content.
type Analyzer interface {
	Analyze(filename, content string) (*metrics.FileMetrics, error)
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithReader replaces the default afs-backed reader.
func WithReader(r FileReader) Option {
	return func(p *Pipeline) { p.reader = r }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Pipeline runs an Analyzer over many files.
type Pipeline struct {
	analyzer         Analyzer
	reader           FileReader
	defaultBatchSize int
	logger           *slog.Logger
}

// New creates a Pipeline. defaultBatchSize is used when Run is given a
// non-positive batch size.
func New(analyzer Analyzer, defaultBatchSize int, opts ...Option) *Pipeline {
	p := &Pipeline{
		analyzer:         analyzer,
		defaultBatchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.reader == nil {
		p.reader = NewAFSReader()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("component", "pipeline")
	if p.defaultBatchSize <= 0 {
		p.defaultBatchSize = 1
	}
	return p
}

// Run analyzes files in consecutive batches of at most batchSize. Batches run
// one after another; the files inside a batch run concurrently.
//
// A file that cannot be read or analyzed is logged, recorded in
// Aggregate.Failures and skipped. Run itself only fails when ctx is
// cancelled, which is checked between batches; in that case the partial
// aggregate is returned together with ctx.Err().
func (p *Pipeline) Run(ctx context.Context, files []string, batchSize int, hooks Hooks) (*Aggregate, error) {
	if batchSize <= 0 {
		batchSize = p.defaultBatchSize
	}

	acc := &accumulator{
		agg:   newAggregate(),
		total: len(files),
		hooks: hooks,
	}

	for start := 0; start < len(files); start += batchSize {
		if err := ctx.Err(); err != nil {
			p.logger.Info("run cancelled", "completed", acc.current, "total", acc.total)
			return acc.finish(), err
		}

		end := min(start+batchSize, len(files))
		batch := files[start:end]

		p.logger.Debug("starting batch", "from", start+1, "to", end, "total", len(files))

		var g errgroup.Group
		g.SetLimit(batchSize)
		for _, path := range batch {
			g.Go(func() error {
				fm, fail := p.process(ctx, path)
				acc.record(path, fm, fail)
				return nil
			})
		}
		_ = g.Wait()
	}

	return acc.finish(), nil
}

// process reads and analyzes one file. Panics inside the analyzer are
// converted into failures.
func (p *Pipeline) process(ctx context.Context, path string) (fm *metrics.FileMetrics, fail *Failure) {
	defer func() {
		if r := recover(); r != nil {
			fm = nil
			fail = &Failure{Path: path, Code: errs.CodeFileReadFailure, Message: fmt.Sprintf("panic: %v", r)}
			p.logger.Error("analysis panicked", "path", path, "panic", r)
		}
	}()

	data, err := p.reader.ReadFile(ctx, path)
	if err != nil {
		p.logger.Warn("file skipped", "path", path, "code", errs.CodeFileReadFailure, "error", err)
		return nil, &Failure{Path: path, Code: errs.CodeFileReadFailure, Message: err.Error()}
	}

	fm, err = p.analyzer.Analyze(path, string(data))
	if err != nil {
		code := errs.CodeOf(err)
		if code == "" {
			code = errs.CodeFileReadFailure
		}
		p.logger.Warn("file skipped", "path", path, "code", code, "error", err)
		return nil, &Failure{Path: path, Code: code, Message: err.Error()}
	}
	return fm, nil
}

// accumulator folds completed files into the aggregate. Every completion is
// one locked call to record, so hooks fire serialized and in completion order.
type accumulator struct {
	mu    sync.Mutex
	agg   *Aggregate
	hooks Hooks

	total      int
	current    int
	sumQuality int
	sumCC      int
}

func (a *accumulator) record(path string, fm *metrics.FileMetrics, fail *Failure) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.current++
	if fail != nil {
		a.agg.Failures = append(a.agg.Failures, *fail)
		return
	}

	agg := a.agg
	agg.TotalFiles++
	agg.TotalLines += fm.Lines.TotalLines
	agg.TotalCodeLines += fm.Lines.CodeLines
	agg.TotalCommentLines += fm.Lines.CommentLines
	agg.LanguageDistribution[fm.Language]++
	for _, issue := range fm.Quality.Issues {
		agg.IssueSummary[issue]++
	}
	agg.Files = append(agg.Files, fm)
	a.sumQuality += fm.Quality.QualityScore
	a.sumCC += fm.Complexity.CyclomaticComplexity

	if a.hooks.OnFileDone != nil {
		a.hooks.OnFileDone(fm)
	}
	if a.hooks.OnProgress != nil {
		a.hooks.OnProgress(Progress{
			Current:     a.current,
			Total:       a.total,
			Percentage:  int(math.Round(float64(a.current) / float64(a.total) * 100)),
			CurrentFile: path,
		})
	}
}

// finish computes averages and sorts files and failures by path.
func (a *accumulator) finish() *Aggregate {
	a.mu.Lock()
	defer a.mu.Unlock()

	agg := a.agg
	if agg.TotalFiles > 0 {
		n := float64(agg.TotalFiles)
		agg.AvgQualityScore = int(math.Round(float64(a.sumQuality) / n))
		agg.AvgComplexity = math.Round(float64(a.sumCC)/n*100) / 100
	}
	sort.Slice(agg.Files, func(i, j int) bool { return agg.Files[i].Path < agg.Files[j].Path })
	sort.Slice(agg.Failures, func(i, j int) bool { return agg.Failures[i].Path < agg.Failures[j].Path })
	return agg
}
