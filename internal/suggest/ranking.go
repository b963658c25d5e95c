package suggest

import "sort"

// RankSuggestions sorts suggestions by ImpactScore, highest first. Ties go
// to the more urgent priority, then to the title.
func RankSuggestions(suggestions []Suggestion) []Suggestion {
	sorted := make([]Suggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore > b.ImpactScore
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.Title < b.Title
	})
	return sorted
}

// ComputeImpact calculates an impact score for a suggestion.
// Formula: (affectedFiles * frequency * timeSaved) / effort
//
// Parameters:
//   - affectedFiles: number of files the suggestion applies to
//   - frequency: share of the project affected (0.0-1.0)
//   - timeSaved: estimated minutes saved per file once addressed
//   - effort: estimated minutes of effort to implement the suggestion
//
// Returns 0 if effort is zero to avoid division by zero.
func ComputeImpact(affectedFiles int, frequency float64, timeSaved float64, effort float64) float64 {
	if effort <= 0 {
		return 0
	}
	return (float64(affectedFiles) * frequency * timeSaved) / effort
}
