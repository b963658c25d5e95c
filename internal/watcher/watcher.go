// Package watcher re-analyzes a project at a regular interval and emits
// alerts when its quality changes.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/codegauge/internal/pipeline"
)

// Analyzer runs a project analysis. *analysis.Service satisfies it.
type Analyzer interface {
	AnalyzeProject(ctx context.Context, rootPath string, batchSize int, hooks pipeline.Hooks) (*pipeline.Aggregate, error)
}

// WatchState captures the analysis of a project at one point in time.
type WatchState struct {
	Timestamp       time.Time
	Root            string
	TotalFiles      int
	AvgQualityScore int
	AvgComplexity   float64
	FailedFiles     int

	files    map[string]fileState
	failures map[string]string // path -> error code
}

// fileState is what the watcher remembers about one analyzed file.
type fileState struct {
	Hash       string
	Score      int
	Complexity int
	Issues     []string
}

// Alert represents a notable change detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Watcher analyzes a project at a regular interval and emits alerts when
// notable changes are detected.
type Watcher struct {
	analyzer      Analyzer
	root          string
	interval      time.Duration
	previous      *WatchState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts

	// MinQuality raises a critical alert while the average quality score is
	// below it. 0 disables the check.
	MinQuality int

	// BatchSize is passed to every analysis; 0 uses the analyzer default.
	BatchSize int
}

// New creates a Watcher for the project at root.
func New(analyzer Analyzer, root string, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		analyzer:      analyzer,
		root:          root,
		interval:      interval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
}

// Run takes an initial snapshot, then checks at every interval. Blocks until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial analysis: %w", err)
	}
	w.previous = initial
	for _, a := range w.thresholdAlerts(initial) {
		w.emit(a)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check(ctx) {
				w.emit(a)
			}
		}
	}
}

func (w *Watcher) emit(a Alert) {
	if w.alertFn != nil {
		w.alertFn(a)
	}
}

// Check performs a single cycle: analyzes the project again, compares it
// against the previous state and returns any alerts. Identical alerts are
// suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr, err := w.Snapshot(ctx)
	if err != nil {
		return []Alert{{
			Level:   "warning",
			Title:   "Analysis failed",
			Message: fmt.Sprintf("Could not analyze %s: %v", w.root, err),
			Time:    time.Now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}
	raw = append(raw, w.thresholdAlerts(curr)...)

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	return alerts
}

func (w *Watcher) thresholdAlerts(s *WatchState) []Alert {
	if w.MinQuality <= 0 || s.TotalFiles == 0 || s.AvgQualityScore >= w.MinQuality {
		return nil
	}
	return []Alert{{
		Level:   "critical",
		Title:   "Quality below minimum",
		Message: fmt.Sprintf("Average quality is %d (minimum: %d)", s.AvgQualityScore, w.MinQuality),
		Time:    time.Now(),
	}}
}

// Snapshot analyzes the project and captures the result.
func (w *Watcher) Snapshot(ctx context.Context) (*WatchState, error) {
	agg, err := w.analyzer.AnalyzeProject(ctx, w.root, w.BatchSize, pipeline.Hooks{})
	if err != nil {
		return nil, err
	}
	return StateFromAggregate(agg, time.Now()), nil
}

// StateFromAggregate converts an analysis result into a WatchState.
func StateFromAggregate(agg *pipeline.Aggregate, at time.Time) *WatchState {
	s := &WatchState{
		Timestamp:       at,
		Root:            agg.Root,
		TotalFiles:      agg.TotalFiles,
		AvgQualityScore: agg.AvgQualityScore,
		AvgComplexity:   agg.AvgComplexity,
		FailedFiles:     len(agg.Failures),
		files:           make(map[string]fileState, len(agg.Files)),
		failures:        make(map[string]string, len(agg.Failures)),
	}
	for _, fm := range agg.Files {
		s.files[fm.Path] = fileState{
			Hash:       fm.ContentHash,
			Score:      fm.Quality.QualityScore,
			Complexity: fm.Complexity.CyclomaticComplexity,
			Issues:     fm.Quality.Issues,
		}
	}
	for _, f := range agg.Failures {
		s.failures[f.Path] = string(f.Code)
	}
	return s
}
