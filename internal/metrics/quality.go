package metrics

import "math"

// Issue texts emitted by the built-in quality rules.
const (
	IssueLowCommentCoverage = "Low comment coverage"
	IssueExcessiveComments  = "Excessive comments"
	IssueHighComplexity     = "High cyclomatic complexity"
	IssueDeepNesting        = "Deep nesting detected"
	IssueLargeFile          = "Large file size"
	IssueLongLines          = "Long average line length"
)

// Thresholds configures the quality rule ladder. A file triggers a rule when
// its metric is strictly beyond the threshold.
type Thresholds struct {
	MinCommentRatio  float64
	MaxCommentRatio  float64
	MaxComplexity    int
	MaxNesting       int
	MaxCodeLines     int
	MaxAvgLineLength float64
}

// DefaultThresholds are the standard rule thresholds.
var DefaultThresholds = Thresholds{
	MinCommentRatio:  10,
	MaxCommentRatio:  50,
	MaxComplexity:    10,
	MaxNesting:       4,
	MaxCodeLines:     500,
	MaxAvgLineLength: 120,
}

// Finding is the outcome of one triggered quality rule.
type Finding struct {
	Deduction  int
	Issue      string
	Suggestion string
}

// Rule examines file metrics and reports a finding when triggered.
type Rule func(lines LineMetrics, cx ComplexityMetrics, th Thresholds) (Finding, bool)

// LowCommentCoverage fires when comments are scarce. Files without any code
// lines are exempt.
func LowCommentCoverage(lines LineMetrics, _ ComplexityMetrics, th Thresholds) (Finding, bool) {
	if lines.CodeLines == 0 || lines.CommentsRatio >= th.MinCommentRatio {
		return Finding{}, false
	}
	return Finding{
		Deduction:  20,
		Issue:      IssueLowCommentCoverage,
		Suggestion: "Add more comments to improve code documentation",
	}, true
}

// ExcessiveComments fires when comments dominate the file, including files
// made only of comments.
func ExcessiveComments(lines LineMetrics, _ ComplexityMetrics, th Thresholds) (Finding, bool) {
	if lines.CommentsRatio <= th.MaxCommentRatio {
		return Finding{}, false
	}
	return Finding{
		Deduction:  10,
		Issue:      IssueExcessiveComments,
		Suggestion: "Consider if all comments are necessary",
	}, true
}

// HighComplexity fires on too many decision points.
func HighComplexity(_ LineMetrics, cx ComplexityMetrics, th Thresholds) (Finding, bool) {
	if cx.CyclomaticComplexity <= th.MaxComplexity {
		return Finding{}, false
	}
	return Finding{
		Deduction:  25,
		Issue:      IssueHighComplexity,
		Suggestion: "Consider breaking down complex functions",
	}, true
}

// DeepNesting fires on deeply nested blocks.
func DeepNesting(_ LineMetrics, cx ComplexityMetrics, th Thresholds) (Finding, bool) {
	if cx.NestingDepth <= th.MaxNesting {
		return Finding{}, false
	}
	return Finding{
		Deduction:  15,
		Issue:      IssueDeepNesting,
		Suggestion: "Reduce nesting depth by extracting functions or using early returns",
	}, true
}

// LargeFile fires on files with many code lines.
func LargeFile(lines LineMetrics, _ ComplexityMetrics, th Thresholds) (Finding, bool) {
	if lines.CodeLines <= th.MaxCodeLines {
		return Finding{}, false
	}
	return Finding{
		Deduction:  10,
		Issue:      IssueLargeFile,
		Suggestion: "Consider splitting large files into smaller modules",
	}, true
}

// LongLines fires when the average code line is too long.
func LongLines(lines LineMetrics, _ ComplexityMetrics, th Thresholds) (Finding, bool) {
	if lines.AvgLineLength <= th.MaxAvgLineLength {
		return Finding{}, false
	}
	return Finding{
		Deduction:  5,
		Issue:      IssueLongLines,
		Suggestion: "Consider breaking long lines for better readability",
	}, true
}

// Scorer runs the quality rule ladder.
type Scorer struct {
	rules      []Rule
	thresholds Thresholds
}

// NewScorer creates a Scorer with all built-in rules in their fixed order.
func NewScorer(th Thresholds) *Scorer {
	return &Scorer{
		rules: []Rule{
			LowCommentCoverage,
			ExcessiveComments,
			HighComplexity,
			DeepNesting,
			LargeFile,
			LongLines,
		},
		thresholds: th,
	}
}

// Score starts at 100 and applies every triggered rule once. The result is
// never negative.
func (s *Scorer) Score(lines LineMetrics, cx ComplexityMetrics) QualityAssessment {
	score := 100
	issues := []string{}
	suggestions := []string{}

	for _, rule := range s.rules {
		f, ok := rule(lines, cx, s.thresholds)
		if !ok {
			continue
		}
		score -= f.Deduction
		issues = append(issues, f.Issue)
		suggestions = append(suggestions, f.Suggestion)
	}

	return QualityAssessment{
		QualityScore:         max(0, score),
		Issues:               issues,
		Suggestions:          suggestions,
		MaintainabilityIndex: MaintainabilityIndex(lines, cx),
	}
}

// MaintainabilityIndex blends complexity, size and comment density into a
// 0-100 index.
func MaintainabilityIndex(lines LineMetrics, cx ComplexityMetrics) int {
	complexityPenalty := math.Min(50, float64(cx.CyclomaticComplexity)*5)
	sizePenalty := math.Min(30, math.Max(0, float64(lines.CodeLines-100)/20))
	commentBonus := math.Min(20, lines.CommentsRatio)

	index := math.Round(100 - complexityPenalty - sizePenalty + commentBonus)
	return int(math.Max(0, math.Min(100, index)))
}
