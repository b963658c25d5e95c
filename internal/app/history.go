package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codegauge/internal/output"
	"github.com/blackwell-systems/codegauge/internal/store"
)

var (
	historyRoot    string
	historyLimit   int
	historyCompare int
	historyShow    string
	historyDelete  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and compare saved analyses",
	Long: `List analyses stored with 'codegauge scan --save', newest first.

With --compare N the newest analysis is compared against the Nth previous one
of the same project and the deltas are shown with trend arrows. --show prints
the stored languages, issues and files of one analysis.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyRoot, "root", "", "Only analyses of this project directory")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of analyses to list")
	historyCmd.Flags().IntVar(&historyCompare, "compare", 0, "Compare the newest analysis against the Nth previous one (1 = most recent)")
	historyCmd.Flags().StringVar(&historyShow, "show", "", "Show the details of one analysis ID")
	historyCmd.Flags().StringVar(&historyDelete, "delete", "", "Delete one analysis ID")
	rootCmd.AddCommand(historyCmd)
}

// metricDelta is the change of one project metric between two analyses.
type metricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"`
}

// metricDirection maps metric names to whether higher values are better.
var metricDirection = map[string]bool{
	"Files":          true,
	"Lines":          true,
	"Code lines":     true,
	"Comment lines":  true,
	"Test files":     true,
	"Avg quality":    true,
	"Avg complexity": false,
	"Failed files":   false,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Database())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	w := cmd.OutOrStdout()
	switch {
	case historyDelete != "":
		if err := db.DeleteAnalysis(historyDelete); err != nil {
			return fmt.Errorf("deleting analysis: %w", err)
		}
		fmt.Fprintf(w, " Deleted analysis %s\n", historyDelete)
		return nil
	case historyShow != "":
		return showAnalysis(w, db, historyShow)
	}

	root := historyRoot
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		// Saved roots are symlink-resolved.
		if real, err := filepath.EvalSymlinks(root); err == nil {
			root = real
		}
	}

	if historyCompare > 0 {
		return compareHistory(w, db, root, historyCompare)
	}

	analyses, err := db.ListAnalyses(root, historyLimit)
	if err != nil {
		return fmt.Errorf("listing analyses: %w", err)
	}
	if flagJSON {
		return output.Export(w, output.FormatJSON, analyses)
	}
	if len(analyses) == 0 {
		fmt.Fprintln(w, " No saved analyses. Run 'codegauge scan --save <dir>' to create one.")
		return nil
	}

	fmt.Fprintln(w, output.Section("History"))
	tbl := output.NewTable("ID", "Date", "Project", "Files", "Quality", "Complexity", "Failed").AlignRight(3, 4, 5, 6)
	for _, a := range analyses {
		tbl.AddRow(
			shortID(a.ID),
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.Root,
			output.Count(a.TotalFiles),
			output.ScoreStyle(a.AvgQualityScore).Render(fmt.Sprintf("%d", a.AvgQualityScore)),
			fmt.Sprintf("%.2f", a.AvgComplexity),
			fmt.Sprintf("%d", a.FailedFiles),
		)
	}
	tbl.Fprint(w)
	return nil
}

func compareHistory(w io.Writer, db *store.DB, root string, n int) error {
	analyses, err := db.ListAnalyses(root, n+1)
	if err != nil {
		return fmt.Errorf("listing analyses: %w", err)
	}
	if len(analyses) == 0 {
		fmt.Fprintln(w, " No saved analyses. Run 'codegauge scan --save <dir>' to create one.")
		return nil
	}

	current := analyses[0]
	if root == "" {
		// Compare within the newest analysis's project.
		analyses, err = db.ListAnalyses(current.Root, n+1)
		if err != nil {
			return fmt.Errorf("listing analyses: %w", err)
		}
	}
	if len(analyses) <= n {
		fmt.Fprintf(w, " Only %d analyses of %s are saved; nothing to compare.\n", len(analyses), current.Root)
		return nil
	}
	previous := analyses[n]
	deltas := computeDeltas(&previous, &current)

	if flagJSON {
		return output.Export(w, output.FormatJSON, map[string]any{
			"previous": previous,
			"current":  current,
			"deltas":   deltas,
		})
	}

	fmt.Fprintln(w, output.Section("Compare: "+current.Root))
	fmt.Fprintf(w, " %s (%s) against %s (%s)\n\n",
		shortID(current.ID), current.CreatedAt.Local().Format("2006-01-02 15:04"),
		shortID(previous.ID), previous.CreatedAt.Local().Format("2006-01-02 15:04"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend").AlignRight(1, 2, 3)
	for _, d := range deltas {
		tbl.AddRow(
			d.Name,
			formatMetric(d.Previous),
			formatMetric(d.Current),
			fmt.Sprintf("%+.2f", d.Delta),
			output.TrendArrow(d.Delta, metricDirection[d.Name]),
		)
	}
	tbl.Fprint(w)
	return nil
}

// computeDeltas compares the project metrics of two analyses, in display
// order.
func computeDeltas(prev, curr *store.Analysis) []metricDelta {
	values := func(a *store.Analysis) []float64 {
		return []float64{
			float64(a.TotalFiles),
			float64(a.TotalLines),
			float64(a.TotalCodeLines),
			float64(a.TotalCommentLines),
			float64(a.TestFileCount),
			float64(a.AvgQualityScore),
			a.AvgComplexity,
			float64(a.FailedFiles),
		}
	}
	names := []string{"Files", "Lines", "Code lines", "Comment lines", "Test files", "Avg quality", "Avg complexity", "Failed files"}

	pv, cv := values(prev), values(curr)
	deltas := make([]metricDelta, 0, len(names))
	for i, name := range names {
		delta := cv[i] - pv[i]
		direction := "unchanged"
		if delta != 0 {
			if (delta > 0) == metricDirection[name] {
				direction = "improved"
			} else {
				direction = "regressed"
			}
		}
		deltas = append(deltas, metricDelta{
			Name:      name,
			Previous:  pv[i],
			Current:   cv[i],
			Delta:     delta,
			Direction: direction,
		})
	}
	return deltas
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return output.Count(int(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func showAnalysis(w io.Writer, db *store.DB, id string) error {
	a, err := db.GetAnalysis(id)
	if err != nil {
		return fmt.Errorf("loading analysis: %w", err)
	}
	if a == nil {
		return fmt.Errorf("analysis %s not found", id)
	}
	langs, err := db.GetLanguageDistribution(id)
	if err != nil {
		return fmt.Errorf("loading languages: %w", err)
	}
	issues, err := db.GetIssueSummary(id)
	if err != nil {
		return fmt.Errorf("loading issues: %w", err)
	}
	files, err := db.GetFileMetrics(id)
	if err != nil {
		return fmt.Errorf("loading files: %w", err)
	}

	if flagJSON {
		return output.Export(w, output.FormatJSON, map[string]any{
			"analysis":  a,
			"languages": langs,
			"issues":    issues,
			"files":     files,
		})
	}

	fmt.Fprintln(w, output.Section("Analysis "+a.ID))
	fmt.Fprintln(w, output.KeyValue("Project", a.Root))
	fmt.Fprintln(w, output.KeyValue("Date", a.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	fmt.Fprintln(w, output.KeyValue("Version", a.Version))
	fmt.Fprintln(w, output.KeyValue("Files", output.Count(a.TotalFiles)))
	fmt.Fprintln(w, output.KeyValue("Avg quality", output.ScoreBar(a.AvgQualityScore, 20)))

	if len(langs) > 0 {
		fmt.Fprintln(w, output.Section("Languages"))
		t := output.NewTable("Language", "Files").AlignRight(1)
		for _, e := range sortedCounts(langs) {
			t.AddRow(e.key, output.Count(e.n))
		}
		t.Fprint(w)
	}
	if len(issues) > 0 {
		fmt.Fprintln(w, output.Section("Issues"))
		t := output.NewTable("Issue", "Files").AlignRight(1)
		for _, e := range sortedCounts(issues) {
			t.AddRow(e.key, output.Count(e.n))
		}
		t.Fprint(w)
	}
	if len(files) > 0 {
		fmt.Fprintln(w, output.Section("Files"))
		t := output.NewTable("File", "Language", "Score", "Complexity", "Code", "Size").AlignRight(2, 3, 4, 5)
		for _, f := range files {
			t.AddRow(
				relPath(a.Root, f.Path),
				f.Language,
				output.ScoreStyle(f.QualityScore).Render(fmt.Sprintf("%d", f.QualityScore)),
				fmt.Sprintf("%d", f.CyclomaticComplexity),
				output.Count(f.CodeLines),
				output.Bytes(f.FileSize),
			)
		}
		t.Fprint(w)
	}
	return nil
}
