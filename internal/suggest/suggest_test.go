package suggest

import (
	"math"
	"strings"
	"testing"

	"github.com/blackwell-systems/codegauge/internal/errs"
	"github.com/blackwell-systems/codegauge/internal/lang"
	"github.com/blackwell-systems/codegauge/internal/metrics"
	"github.com/blackwell-systems/codegauge/internal/pipeline"
)

func baseContext() *AnalysisContext {
	return &AnalysisContext{
		Root:              "/srv/app",
		TotalFiles:        4,
		TotalLines:        400,
		TotalCommentLines: 60,
		TestFileCount:     1,
		AvgQualityScore:   90,
		Thresholds:        metrics.DefaultThresholds,
		Files: []FileContext{
			{Path: "a.js", CodeLines: 80, CommentRatio: 15, Complexity: 3, NestingDepth: 2, QualityScore: 100},
			{Path: "b.js", CodeLines: 90, CommentRatio: 15, Complexity: 5, NestingDepth: 2, QualityScore: 100},
			{Path: "c.py", CodeLines: 70, CommentRatio: 15, Complexity: 2, NestingDepth: 1, QualityScore: 100},
			{Path: "a.test.js", CodeLines: 60, CommentRatio: 15, Complexity: 1, NestingDepth: 2, QualityScore: 100},
		},
	}
}

// --- Engine.Run ---

func TestEngineRun_HealthyProjectHasNoSuggestions(t *testing.T) {
	if got := NewEngine().Run(baseContext()); len(got) != 0 {
		t.Errorf("expected no suggestions, got %+v", got)
	}
}

func TestEngineRun_EmptyContext(t *testing.T) {
	got := NewEngine().Run(&AnalysisContext{Thresholds: metrics.DefaultThresholds})
	if len(got) != 0 {
		t.Errorf("expected no suggestions for an empty project, got %+v", got)
	}
}

func TestEngineRun_SortedByImpact(t *testing.T) {
	ctx := baseContext()
	ctx.TestFileCount = 0
	ctx.AvgQualityScore = 50
	ctx.TotalCommentLines = 0
	ctx.Files[0].Complexity = 40
	ctx.Files[1].CodeLines = 900
	ctx.Failures = []FailureContext{{Path: "broken.js", Code: string(errs.CodeFileReadFailure)}}

	got := NewEngine().Run(ctx)
	if len(got) < 5 {
		t.Fatalf("expected several suggestions, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ImpactScore > got[i-1].ImpactScore {
			t.Errorf("not sorted at %d: %.2f > %.2f", i, got[i].ImpactScore, got[i-1].ImpactScore)
		}
	}
}

func TestEngineRun_CategoryAndLimit(t *testing.T) {
	ctx := baseContext()
	ctx.TestFileCount = 0
	ctx.Files[0].Complexity = 40
	ctx.Files[1].Complexity = 35

	got := NewEngine(WithCategory(" Complexity ")).Run(ctx)
	if len(got) == 0 {
		t.Fatal("expected complexity suggestions")
	}
	for _, s := range got {
		if s.Category != "complexity" {
			t.Errorf("unexpected category %q", s.Category)
		}
	}

	if got := NewEngine(WithLimit(1)).Run(ctx); len(got) != 1 {
		t.Errorf("expected 1 suggestion after limit, got %d", len(got))
	}
	if got := NewEngine(WithCategory("nope")).Run(ctx); len(got) != 0 {
		t.Errorf("expected nothing for unknown category, got %d", len(got))
	}
}

func TestEngineRun_CustomRules(t *testing.T) {
	rule := func(*AnalysisContext) []Suggestion {
		return []Suggestion{{Category: "quality", ImpactScore: 1}, {Category: "quality", ImpactScore: 3}}
	}
	got := NewEngine(WithRules(rule)).Run(baseContext())
	if len(got) != 2 || got[0].ImpactScore != 3 {
		t.Errorf("expected the custom rule's output ranked, got %+v", got)
	}
	if NewEngine().Run(nil) != nil {
		t.Error("expected nil for a nil context")
	}
}

// --- MissingTests ---

func TestMissingTests(t *testing.T) {
	ctx := baseContext()
	ctx.TestFileCount = 0

	got := MissingTests(ctx)
	if len(got) != 1 || got[0].Priority != PriorityHigh {
		t.Fatalf("expected one high-priority suggestion, got %+v", got)
	}

	ctx.TotalFiles = 20
	ctx.TestFileCount = 1
	got = MissingTests(ctx)
	if len(got) != 1 || got[0].Title != "Increase test coverage" {
		t.Errorf("expected coverage suggestion, got %+v", got)
	}

	ctx.TestFileCount = 5
	if got := MissingTests(ctx); len(got) != 0 {
		t.Errorf("expected nothing at 25%% tests, got %+v", got)
	}
}

// --- ComplexityHotspots ---

func TestComplexityHotspots(t *testing.T) {
	ctx := baseContext()
	ctx.Files[0].Complexity = 12
	ctx.Files[2].Complexity = 25

	got := ComplexityHotspots(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	s := got[0]
	if s.Priority != PriorityHigh {
		t.Errorf("expected high priority above twice the limit, got %d", s.Priority)
	}
	if len(s.Files) != 2 || s.Files[0] != "c.py" {
		t.Errorf("expected hottest file first, got %v", s.Files)
	}
	if !strings.Contains(s.Description, "c.py (25)") {
		t.Errorf("description should name the file: %q", s.Description)
	}
}

func TestComplexityHotspots_ListsAtMostFive(t *testing.T) {
	ctx := baseContext()
	ctx.Files = nil
	for i := range 8 {
		ctx.Files = append(ctx.Files, FileContext{Path: string(rune('a'+i)) + ".js", Complexity: 11 + i})
	}
	ctx.TotalFiles = 8

	s := ComplexityHotspots(ctx)[0]
	if !strings.Contains(s.Description, "and 3 more") {
		t.Errorf("expected truncation note, got %q", s.Description)
	}
	if len(s.Files) != 8 {
		t.Errorf("Files should list all 8, got %d", len(s.Files))
	}
}

// --- DocumentationGap ---

func TestDocumentationGap(t *testing.T) {
	ctx := baseContext()
	ctx.TotalCommentLines = 20
	ctx.Files[1].CommentRatio = 2

	got := DocumentationGap(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if len(got[0].Files) != 1 || got[0].Files[0] != "b.js" {
		t.Errorf("expected b.js, got %v", got[0].Files)
	}
}

// --- OversizedFiles and DeepNesting ---

func TestOversizedFilesAndDeepNesting(t *testing.T) {
	ctx := baseContext()
	ctx.Files[2].CodeLines = 501
	ctx.Files[3].NestingDepth = 5

	if got := OversizedFiles(ctx); len(got) != 1 || got[0].Files[0] != "c.py" {
		t.Errorf("OversizedFiles = %+v", got)
	}
	if got := DeepNesting(ctx); len(got) != 1 || got[0].Files[0] != "a.test.js" {
		t.Errorf("DeepNesting = %+v", got)
	}
}

// --- LowAverageQuality ---

func TestLowAverageQuality(t *testing.T) {
	tests := []struct {
		avg      int
		wantLen  int
		priority int
	}{
		{90, 0, 0},
		{75, 0, 0},
		{70, 1, PriorityMedium},
		{40, 1, PriorityCritical},
	}

	for _, tc := range tests {
		ctx := baseContext()
		ctx.AvgQualityScore = tc.avg
		got := LowAverageQuality(ctx)
		if len(got) != tc.wantLen {
			t.Errorf("avg %d: expected %d suggestions, got %d", tc.avg, tc.wantLen, len(got))
			continue
		}
		if tc.wantLen > 0 && got[0].Priority != tc.priority {
			t.Errorf("avg %d: priority = %d, want %d", tc.avg, got[0].Priority, tc.priority)
		}
	}
}

// --- ReadFailures ---

func TestReadFailures(t *testing.T) {
	ctx := baseContext()
	ctx.Failures = []FailureContext{
		{Path: "x.js", Code: string(errs.CodeFileReadFailure)},
		{Path: "y.js", Code: string(errs.CodeFileTooBig)},
	}

	got := ReadFailures(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if !strings.Contains(got[0].Description, "y.js (FILE_TOO_BIG)") {
		t.Errorf("description = %q", got[0].Description)
	}
}

// --- FromAggregate ---

func TestFromAggregate(t *testing.T) {
	agg := &pipeline.Aggregate{
		Root:          "/srv/app",
		TotalFiles:    1,
		TestFileCount: 0,
		Files: []*metrics.FileMetrics{{
			Path:       "/srv/app/src/a.js",
			Language:   lang.JavaScript,
			Lines:      metrics.LineMetrics{CodeLines: 12, CommentsRatio: 4},
			Complexity: metrics.ComplexityMetrics{CyclomaticComplexity: 7, NestingDepth: 3},
			Quality:    metrics.QualityAssessment{QualityScore: 80},
		}},
		Failures: []pipeline.Failure{{Path: "/srv/app/bad.py", Code: errs.CodeFileReadFailure}},
	}

	ctx := FromAggregate(agg, metrics.DefaultThresholds)

	if len(ctx.Files) != 1 || ctx.Files[0].Path != "src/a.js" {
		t.Fatalf("Files = %+v", ctx.Files)
	}
	if ctx.Files[0].Complexity != 7 || ctx.Files[0].NestingDepth != 3 {
		t.Errorf("file metrics not copied: %+v", ctx.Files[0])
	}
	if len(ctx.Failures) != 1 || ctx.Failures[0].Path != "bad.py" || ctx.Failures[0].Code != "FILE_READ_FAILURE" {
		t.Errorf("Failures = %+v", ctx.Failures)
	}
}

// --- RankSuggestions / ComputeImpact ---

func TestRankSuggestions_TieBreak(t *testing.T) {
	in := []Suggestion{
		{Title: "b", Priority: PriorityLow, ImpactScore: 1},
		{Title: "a", Priority: PriorityLow, ImpactScore: 1},
		{Title: "c", Priority: PriorityHigh, ImpactScore: 1},
		{Title: "d", Priority: PriorityLow, ImpactScore: 2},
	}

	got := RankSuggestions(in)
	want := []string{"d", "c", "a", "b"}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, w)
		}
	}
	if in[0].Title != "b" {
		t.Error("input slice must not be reordered")
	}
}

func TestComputeImpact(t *testing.T) {
	if got := ComputeImpact(10, 0.5, 6, 3); math.Abs(got-10) > 1e-9 {
		t.Errorf("ComputeImpact = %f, want 10", got)
	}
	if got := ComputeImpact(10, 1, 1, 0); got != 0 {
		t.Errorf("zero effort should give 0, got %f", got)
	}
}
