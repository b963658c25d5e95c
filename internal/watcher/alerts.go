package watcher

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"time"
)

// scoreDropCritical is the per-file score drop that raises a critical alert.
const scoreDropCritical = 20

// Compare detects notable changes between two watch states and returns
// alerts, critical first. Files are reported in path order.
func Compare(prev, curr *WatchState) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareCritical detects critical-level changes.
func compareCritical(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	for _, path := range changedFiles(prev, curr) {
		p, c := prev.files[path], curr.files[path]
		if drop := p.Score - c.Score; drop >= scoreDropCritical {
			alerts = append(alerts, Alert{
				Level:   "critical",
				Title:   fmt.Sprintf("Quality drop: %s", filepath.Base(path)),
				Message: fmt.Sprintf("Score fell from %d to %d in %s", p.Score, c.Score, rel(curr.Root, path)),
				Time:    now,
			})
		}
	}

	return alerts
}

// compareWarning detects warning-level changes.
func compareWarning(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	if curr.AvgQualityScore < prev.AvgQualityScore {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   "Average quality decreased",
			Message: fmt.Sprintf("From %d to %d across %d files", prev.AvgQualityScore, curr.AvgQualityScore, curr.TotalFiles),
			Time:    now,
		})
	}

	// New issues in files that changed.
	for _, path := range changedFiles(prev, curr) {
		p, c := prev.files[path], curr.files[path]
		for _, issue := range c.Issues {
			if !slices.Contains(p.Issues, issue) {
				alerts = append(alerts, Alert{
					Level:   "warning",
					Title:   fmt.Sprintf("New issue: %s", filepath.Base(path)),
					Message: fmt.Sprintf("%s in %s", issue, rel(curr.Root, path)),
					Time:    now,
				})
			}
		}
	}

	// Files that stopped being readable.
	for _, path := range sortedKeys(curr.failures) {
		if _, failed := prev.failures[path]; failed {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   fmt.Sprintf("File skipped: %s", filepath.Base(path)),
			Message: fmt.Sprintf("%s could not be analyzed (%s)", rel(curr.Root, path), curr.failures[path]),
			Time:    now,
		})
	}

	return alerts
}

// compareInfo detects informational changes.
func compareInfo(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	if curr.AvgQualityScore > prev.AvgQualityScore {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "Average quality improved",
			Message: fmt.Sprintf("From %d to %d across %d files", prev.AvgQualityScore, curr.AvgQualityScore, curr.TotalFiles),
			Time:    now,
		})
	}

	for _, path := range sortedKeys(curr.files) {
		if _, existed := prev.files[path]; existed {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   fmt.Sprintf("New file: %s", filepath.Base(path)),
			Message: fmt.Sprintf("%s scored %d", rel(curr.Root, path), curr.files[path].Score),
			Time:    now,
		})
	}

	for _, path := range sortedKeys(prev.files) {
		_, stillThere := curr.files[path]
		_, failing := curr.failures[path]
		if stillThere || failing {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   fmt.Sprintf("File removed: %s", filepath.Base(path)),
			Message: fmt.Sprintf("%s is no longer analyzed", rel(prev.Root, path)),
			Time:    now,
		})
	}

	return alerts
}

// changedFiles returns paths present in both states whose content hash
// differs.
func changedFiles(prev, curr *WatchState) []string {
	var out []string
	for path, c := range curr.files {
		if p, ok := prev.files[path]; ok && p.Hash != c.Hash {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func rel(root, path string) string {
	if root == "" {
		return path
	}
	if r, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(r)
	}
	return path
}
