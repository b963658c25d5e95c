package suggest

import (
	"path/filepath"

	"github.com/blackwell-systems/codegauge/internal/metrics"
	"github.com/blackwell-systems/codegauge/internal/pipeline"
)

// FromAggregate builds an AnalysisContext from a finished project run.
func FromAggregate(agg *pipeline.Aggregate, th metrics.Thresholds) *AnalysisContext {
	ctx := &AnalysisContext{
		Root:              agg.Root,
		TotalFiles:        agg.TotalFiles,
		TotalLines:        agg.TotalLines,
		TotalCommentLines: agg.TotalCommentLines,
		TestFileCount:     agg.TestFileCount,
		AvgQualityScore:   agg.AvgQualityScore,
		AvgComplexity:     agg.AvgComplexity,
		Thresholds:        th,
	}
	for _, fm := range agg.Files {
		ctx.Files = append(ctx.Files, FileContext{
			Path:         relative(agg.Root, fm.Path),
			CodeLines:    fm.Lines.CodeLines,
			CommentRatio: fm.Lines.CommentsRatio,
			Complexity:   fm.Complexity.CyclomaticComplexity,
			NestingDepth: fm.Complexity.NestingDepth,
			QualityScore: fm.Quality.QualityScore,
		})
	}
	for _, f := range agg.Failures {
		ctx.Failures = append(ctx.Failures, FailureContext{
			Path: relative(agg.Root, f.Path),
			Code: string(f.Code),
		})
	}
	return ctx
}

func relative(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
