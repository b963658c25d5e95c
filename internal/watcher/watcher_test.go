package watcher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/codegauge/internal/errs"
	"github.com/blackwell-systems/codegauge/internal/metrics"
	"github.com/blackwell-systems/codegauge/internal/pipeline"
)

// scriptedAnalyzer returns its aggregates in order, repeating the last one.
type scriptedAnalyzer struct {
	results []*pipeline.Aggregate
	err     error
	calls   int
	roots   []string
}

func (a *scriptedAnalyzer) AnalyzeProject(_ context.Context, root string, _ int, _ pipeline.Hooks) (*pipeline.Aggregate, error) {
	a.roots = append(a.roots, root)
	if a.err != nil {
		return nil, a.err
	}
	i := min(a.calls, len(a.results)-1)
	a.calls++
	return a.results[i], nil
}

func file(path, hash string, score, complexity int, issues ...string) *metrics.FileMetrics {
	return &metrics.FileMetrics{
		Path:        path,
		ContentHash: hash,
		Complexity:  metrics.ComplexityMetrics{CyclomaticComplexity: complexity},
		Quality:     metrics.QualityAssessment{QualityScore: score, Issues: issues},
	}
}

func aggregate(avg int, files ...*metrics.FileMetrics) *pipeline.Aggregate {
	return &pipeline.Aggregate{
		Root:            "/srv/app",
		TotalFiles:      len(files),
		AvgQualityScore: avg,
		Files:           files,
	}
}

func TestSnapshot_FromAnalyzer(t *testing.T) {
	a := &scriptedAnalyzer{results: []*pipeline.Aggregate{
		aggregate(85, file("/srv/app/a.js", "h1", 100, 2), file("/srv/app/b.js", "h2", 70, 12)),
	}}
	w := New(a, "/srv/app", time.Minute, nil)

	state, err := w.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.TotalFiles != 2 || state.AvgQualityScore != 85 {
		t.Errorf("unexpected state: %+v", state)
	}
	if got := state.files["/srv/app/b.js"]; got.Score != 70 || got.Complexity != 12 {
		t.Errorf("file state = %+v", got)
	}
	if len(a.roots) != 1 || a.roots[0] != "/srv/app" {
		t.Errorf("analyzer called with %v", a.roots)
	}
}

func TestSnapshot_Error(t *testing.T) {
	a := &scriptedAnalyzer{err: errs.PathTraversal("../etc")}
	w := New(a, "../etc", time.Minute, nil)

	if _, err := w.Snapshot(context.Background()); !errors.Is(err, a.err) {
		t.Errorf("expected analyzer error, got %v", err)
	}
}

func TestCheck_AnalysisFailureAlerts(t *testing.T) {
	a := &scriptedAnalyzer{err: errors.New("boom")}
	w := New(a, "/srv/app", time.Minute, nil)

	alerts := w.Check(context.Background())
	if len(alerts) != 1 || alerts[0].Level != "warning" || !strings.Contains(alerts[0].Message, "boom") {
		t.Errorf("unexpected alerts: %+v", alerts)
	}
}

func TestCheck_DeduplicatesAlerts(t *testing.T) {
	a := &scriptedAnalyzer{results: []*pipeline.Aggregate{aggregate(50, file("/srv/app/a.js", "h1", 50, 15))}}
	w := New(a, "/srv/app", time.Minute, nil)
	w.MinQuality = 70

	first := w.Check(context.Background())
	if len(first) != 1 || first[0].Title != "Quality below minimum" {
		t.Fatalf("expected minimum-quality alert, got %+v", first)
	}

	if second := w.Check(context.Background()); len(second) != 0 {
		t.Errorf("identical alert should be suppressed, got %+v", second)
	}
}

func TestCheck_ComparesAgainstPrevious(t *testing.T) {
	a := &scriptedAnalyzer{results: []*pipeline.Aggregate{
		aggregate(90, file("/srv/app/a.js", "h1", 100, 2)),
		aggregate(60, file("/srv/app/a.js", "h2", 60, 25, metrics.IssueHighComplexity)),
	}}
	w := New(a, "/srv/app", time.Minute, nil)

	if alerts := w.Check(context.Background()); len(alerts) != 0 {
		t.Fatalf("first check has nothing to compare, got %+v", alerts)
	}

	alerts := w.Check(context.Background())
	var titles []string
	for _, al := range alerts {
		titles = append(titles, al.Title)
	}
	want := []string{"Quality drop: a.js", "Average quality decreased", "New issue: a.js"}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	a := &scriptedAnalyzer{results: []*pipeline.Aggregate{aggregate(90)}}
	var got []Alert
	w := New(a, "/srv/app", 10*time.Millisecond, func(al Alert) { got = append(got, al) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if a.calls < 2 {
		t.Errorf("expected repeated analyses, got %d", a.calls)
	}
	if len(got) != 0 {
		t.Errorf("unchanged project should not alert, got %+v", got)
	}
}

func TestRun_InitialFailure(t *testing.T) {
	a := &scriptedAnalyzer{err: errors.New("no such directory")}
	w := New(a, "/missing", time.Minute, nil)

	err := w.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "initial analysis") {
		t.Errorf("expected initial analysis error, got %v", err)
	}
}
