package suggest

import "strings"

// Engine runs rules against an AnalysisContext and returns the ranked,
// filtered result.
type Engine struct {
	rules    []Rule
	category string
	limit    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCategory keeps only suggestions in category (case-insensitive).
// An empty category keeps everything.
func WithCategory(category string) Option {
	return func(e *Engine) { e.category = strings.ToLower(strings.TrimSpace(category)) }
}

// WithLimit caps the number of suggestions returned. Zero or less means no cap.
func WithLimit(n int) Option {
	return func(e *Engine) { e.limit = n }
}

// WithRules replaces the built-in rule set.
func WithRules(rules ...Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// NewEngine creates an engine with the built-in rules.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules: []Rule{
			MissingTests,
			ComplexityHotspots,
			DocumentationGap,
			OversizedFiles,
			DeepNesting,
			LowAverageQuality,
			ReadFailures,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run applies every rule to ctx. Suggestions come back highest impact first,
// after the category filter and the limit.
func (e *Engine) Run(ctx *AnalysisContext) []Suggestion {
	if ctx == nil {
		return nil
	}
	var all []Suggestion
	for _, rule := range e.rules {
		for _, s := range rule(ctx) {
			if e.category == "" || s.Category == e.category {
				all = append(all, s)
			}
		}
	}
	all = RankSuggestions(all)
	if e.limit > 0 && len(all) > e.limit {
		all = all[:e.limit]
	}
	return all
}
