package suggest

import (
	"fmt"
	"sort"
	"strings"
)

// maxListedFiles caps how many files a suggestion names in its description.
const maxListedFiles = 5

// MissingTests suggests adding tests when a project has none, or very few
// relative to its source files.
func MissingTests(ctx *AnalysisContext) []Suggestion {
	if ctx.TotalFiles == 0 {
		return nil
	}

	source := ctx.TotalFiles - ctx.TestFileCount
	if ctx.TestFileCount == 0 {
		return []Suggestion{{
			Category: "testing",
			Priority: PriorityHigh,
			Title:    "Add automated tests",
			Description: fmt.Sprintf(
				"None of the %d analyzed files look like tests. "+
					"Start with the most complex modules so regressions in risky code are caught first.",
				ctx.TotalFiles,
			),
			ImpactScore: ComputeImpact(source, 1.0, 30.0, 60.0),
		}}
	}

	ratio := float64(ctx.TestFileCount) / float64(ctx.TotalFiles)
	if ratio < 0.1 {
		return []Suggestion{{
			Category: "testing",
			Priority: PriorityMedium,
			Title:    "Increase test coverage",
			Description: fmt.Sprintf(
				"Only %d of %d files are tests (%.0f%%). Aim for at least one test file per module.",
				ctx.TestFileCount, ctx.TotalFiles, ratio*100,
			),
			ImpactScore: ComputeImpact(source, 1.0-ratio, 15.0, 45.0),
		}}
	}
	return nil
}

// ComplexityHotspots flags files whose cyclomatic complexity exceeds the
// configured limit.
func ComplexityHotspots(ctx *AnalysisContext) []Suggestion {
	hot := filterFiles(ctx.Files, func(f FileContext) bool {
		return f.Complexity > ctx.Thresholds.MaxComplexity
	})
	if len(hot) == 0 {
		return nil
	}
	sort.Slice(hot, func(i, j int) bool { return hot[i].Complexity > hot[j].Complexity })

	priority := PriorityMedium
	if hot[0].Complexity > 2*ctx.Thresholds.MaxComplexity {
		priority = PriorityHigh
	}

	return []Suggestion{{
		Category: "complexity",
		Priority: priority,
		Title:    fmt.Sprintf("Simplify %d complex file(s)", len(hot)),
		Description: fmt.Sprintf(
			"These files exceed a cyclomatic complexity of %d: %s. "+
				"Split large functions and replace nested conditionals with early returns.",
			ctx.Thresholds.MaxComplexity,
			describe(hot, func(f FileContext) string { return fmt.Sprintf("%d", f.Complexity) }),
		),
		ImpactScore: ComputeImpact(len(hot), share(len(hot), ctx.TotalFiles), 20.0, 30.0),
		Files:       paths(hot),
	}}
}

// DocumentationGap suggests documenting code when the project-wide comment
// ratio is below the per-file minimum.
func DocumentationGap(ctx *AnalysisContext) []Suggestion {
	if ctx.TotalLines == 0 {
		return nil
	}
	ratio := float64(ctx.TotalCommentLines) / float64(ctx.TotalLines) * 100
	if ratio >= ctx.Thresholds.MinCommentRatio {
		return nil
	}

	under := filterFiles(ctx.Files, func(f FileContext) bool {
		return f.CodeLines > 0 && f.CommentRatio < ctx.Thresholds.MinCommentRatio
	})

	return []Suggestion{{
		Category: "documentation",
		Priority: PriorityMedium,
		Title:    "Document undocumented code",
		Description: fmt.Sprintf(
			"Comments make up %.1f%% of all lines, below the %.0f%% target. "+
				"%d file(s) fall short; start with public entry points.",
			ratio, ctx.Thresholds.MinCommentRatio, len(under),
		),
		ImpactScore: ComputeImpact(len(under), share(len(under), ctx.TotalFiles), 5.0, 10.0),
		Files:       paths(under),
	}}
}

// OversizedFiles flags files with more code lines than the configured limit.
func OversizedFiles(ctx *AnalysisContext) []Suggestion {
	big := filterFiles(ctx.Files, func(f FileContext) bool {
		return f.CodeLines > ctx.Thresholds.MaxCodeLines
	})
	if len(big) == 0 {
		return nil
	}
	sort.Slice(big, func(i, j int) bool { return big[i].CodeLines > big[j].CodeLines })

	return []Suggestion{{
		Category: "structure",
		Priority: PriorityMedium,
		Title:    fmt.Sprintf("Split %d oversized file(s)", len(big)),
		Description: fmt.Sprintf(
			"These files have more than %d code lines: %s. Move cohesive parts into their own modules.",
			ctx.Thresholds.MaxCodeLines,
			describe(big, func(f FileContext) string { return fmt.Sprintf("%d lines", f.CodeLines) }),
		),
		ImpactScore: ComputeImpact(len(big), share(len(big), ctx.TotalFiles), 15.0, 45.0),
		Files:       paths(big),
	}}
}

// DeepNesting flags files nested deeper than the configured limit.
func DeepNesting(ctx *AnalysisContext) []Suggestion {
	deep := filterFiles(ctx.Files, func(f FileContext) bool {
		return f.NestingDepth > ctx.Thresholds.MaxNesting
	})
	if len(deep) == 0 {
		return nil
	}
	sort.Slice(deep, func(i, j int) bool { return deep[i].NestingDepth > deep[j].NestingDepth })

	return []Suggestion{{
		Category: "complexity",
		Priority: PriorityLow,
		Title:    fmt.Sprintf("Flatten deeply nested code in %d file(s)", len(deep)),
		Description: fmt.Sprintf(
			"Nesting deeper than %d levels: %s. Extract inner blocks into functions.",
			ctx.Thresholds.MaxNesting,
			describe(deep, func(f FileContext) string { return fmt.Sprintf("depth %d", f.NestingDepth) }),
		),
		ImpactScore: ComputeImpact(len(deep), share(len(deep), ctx.TotalFiles), 10.0, 20.0),
		Files:       paths(deep),
	}}
}

// LowAverageQuality raises an overall warning when the mean quality score
// is poor.
func LowAverageQuality(ctx *AnalysisContext) []Suggestion {
	if ctx.TotalFiles == 0 || ctx.AvgQualityScore >= 75 {
		return nil
	}

	priority := PriorityMedium
	if ctx.AvgQualityScore < 60 {
		priority = PriorityCritical
	}

	worst := make([]FileContext, len(ctx.Files))
	copy(worst, ctx.Files)
	sort.Slice(worst, func(i, j int) bool { return worst[i].QualityScore < worst[j].QualityScore })
	if len(worst) > maxListedFiles {
		worst = worst[:maxListedFiles]
	}

	return []Suggestion{{
		Category: "quality",
		Priority: priority,
		Title:    fmt.Sprintf("Raise average quality score (%d/100)", ctx.AvgQualityScore),
		Description: fmt.Sprintf(
			"The lowest-scoring files are %s. Fixing their reported issues moves the average the most.",
			describe(worst, func(f FileContext) string { return fmt.Sprintf("%d", f.QualityScore) }),
		),
		ImpactScore: ComputeImpact(ctx.TotalFiles, float64(100-ctx.AvgQualityScore)/100, 10.0, 30.0),
		Files:       paths(worst),
	}}
}

// ReadFailures reports files that were skipped during analysis.
func ReadFailures(ctx *AnalysisContext) []Suggestion {
	if len(ctx.Failures) == 0 {
		return nil
	}

	var names []string
	for i, f := range ctx.Failures {
		if i == maxListedFiles {
			names = append(names, fmt.Sprintf("and %d more", len(ctx.Failures)-maxListedFiles))
			break
		}
		names = append(names, fmt.Sprintf("%s (%s)", f.Path, f.Code))
	}

	var files []string
	for _, f := range ctx.Failures {
		files = append(files, f.Path)
	}

	return []Suggestion{{
		Category: "coverage",
		Priority: PriorityLow,
		Title:    fmt.Sprintf("%d file(s) could not be analyzed", len(ctx.Failures)),
		Description: fmt.Sprintf(
			"Skipped: %s. Check permissions, encodings and the max_file_size setting.",
			strings.Join(names, ", "),
		),
		ImpactScore: ComputeImpact(len(ctx.Failures), 1.0, 2.0, 5.0),
		Files:       files,
	}}
}

func filterFiles(files []FileContext, keep func(FileContext) bool) []FileContext {
	var out []FileContext
	for _, f := range files {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// describe lists up to maxListedFiles files as "path (detail)".
func describe(files []FileContext, detail func(FileContext) string) string {
	var parts []string
	for i, f := range files {
		if i == maxListedFiles {
			parts = append(parts, fmt.Sprintf("and %d more", len(files)-maxListedFiles))
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Path, detail(f)))
	}
	return strings.Join(parts, ", ")
}

func paths(files []FileContext) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

// share returns n/total, or 0 when total is zero.
func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
