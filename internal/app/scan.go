package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codegauge/internal/analysis"
	"github.com/blackwell-systems/codegauge/internal/config"
	"github.com/blackwell-systems/codegauge/internal/metrics"
	"github.com/blackwell-systems/codegauge/internal/output"
	"github.com/blackwell-systems/codegauge/internal/pipeline"
	"github.com/blackwell-systems/codegauge/internal/store"
)

var (
	scanBatchSize int
	scanSave      bool
	scanFormat    string
	scanOutput    string
	scanTop       int
	scanQuiet     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Analyze every source file in a project",
	Long: `Walk a project directory, analyze each supported file in concurrent
batches and print project totals, the language breakdown, the most common
issues and the lowest-scoring files.

The directory must lie inside the configured upload_root. Use --save to keep
the result for 'codegauge history'.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanBatchSize, "batch-size", 0, "Files analyzed concurrently per batch (default: batch_size from config)")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Store the result in the local history database")
	scanCmd.Flags().StringVar(&scanFormat, "format", "table", "Output format: table, json or yaml")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Write the report to a file instead of stdout")
	scanCmd.Flags().IntVar(&scanTop, "top", 10, "Number of lowest-scoring files to list")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "Do not print progress")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(scanFormat)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// An interrupted run still reports what it finished; it is never saved.
	agg, interrupted := analyzeProject(cmd, cfg, args[0], scanBatchSize, scanQuiet)
	if agg == nil {
		return interrupted
	}

	if scanSave && interrupted == nil {
		saved, err := saveAnalysis(cfg, agg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), output.StyleMuted.Render("Saved analysis "+saved.ID))
	}

	w := cmd.OutOrStdout()
	if scanOutput != "" {
		f, err := os.Create(scanOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", scanOutput, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if format != output.FormatTable {
		if err := output.Export(w, format, agg); err != nil {
			return err
		}
		return interrupted
	}
	renderAggregate(w, agg, scanTop)
	return interrupted
}

// analyzeProject runs a project analysis with progress on stderr. Ctrl-C
// stops the run after the current batch; the partial aggregate is then
// returned together with the error.
func analyzeProject(cmd *cobra.Command, cfg *config.Config, dir string, batchSize int, quiet bool) (*pipeline.Aggregate, error) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	svc := analysis.New(cfg, newLogger(cmd.ErrOrStderr()))

	var hooks pipeline.Hooks
	var progress *output.ProgressPrinter
	if !quiet {
		progress = output.NewProgressPrinter(cmd.ErrOrStderr(), output.StderrIsTerminal())
		hooks.OnProgress = func(p pipeline.Progress) {
			progress.Update(p.Current, p.Total, p.Percentage, p.CurrentFile)
		}
	}

	agg, err := svc.AnalyzeProject(ctx, dir, batchSize, hooks)
	if progress != nil {
		progress.Done()
	}
	if err != nil {
		if ctx.Err() != nil && agg != nil {
			return agg, fmt.Errorf("interrupted after %d files: %w", agg.TotalFiles, err)
		}
		return nil, err
	}
	return agg, nil
}

func saveAnalysis(cfg *config.Config, agg *pipeline.Aggregate) (*store.Analysis, error) {
	db, err := store.Open(cfg.Database())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	saved, err := db.SaveAnalysis(agg, appVersion)
	if err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	return saved, nil
}

func renderAggregate(w io.Writer, agg *pipeline.Aggregate, top int) {
	fmt.Fprintln(w, output.Section("Project "+agg.Root))
	fmt.Fprintln(w, output.KeyValue("Files analyzed", output.Count(agg.TotalFiles)))
	if len(agg.Failures) > 0 {
		fmt.Fprintln(w, output.KeyValue("Files skipped", output.StyleWarning.Render(output.Count(len(agg.Failures)))))
	}
	fmt.Fprintln(w, output.KeyValue("Directories", output.Count(agg.DirectoryCount)))
	fmt.Fprintln(w, output.KeyValue("Test files", output.Count(agg.TestFileCount)))
	fmt.Fprintln(w, output.KeyValue("Lines", output.Count(agg.TotalLines)))
	fmt.Fprintln(w, output.KeyValue("Code lines", output.Count(agg.TotalCodeLines)))
	fmt.Fprintln(w, output.KeyValue("Comment lines", output.Count(agg.TotalCommentLines)))
	fmt.Fprintln(w, output.KeyValue("Avg complexity", fmt.Sprintf("%.2f", agg.AvgComplexity)))
	fmt.Fprintln(w, output.KeyValue("Avg quality", output.ScoreBar(agg.AvgQualityScore, 20)+" "+output.Grade(agg.AvgQualityScore)))

	if agg.TotalFiles == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, " "+output.StyleMuted.Render("No supported files found."))
		return
	}

	fmt.Fprintln(w, output.Section("Languages"))
	langs := output.NewTable("Language", "Files", "Share").AlignRight(1, 2)
	for _, e := range sortedCounts(agg.LanguageDistribution) {
		langs.AddRow(e.key, output.Count(e.n), fmt.Sprintf("%.1f%%", float64(e.n)/float64(agg.TotalFiles)*100))
	}
	langs.Fprint(w)

	if len(agg.IssueSummary) > 0 {
		fmt.Fprintln(w, output.Section("Issues"))
		issues := output.NewTable("Issue", "Files").AlignRight(1)
		for _, e := range sortedCounts(agg.IssueSummary) {
			issues.AddRow(e.key, output.Count(e.n))
		}
		issues.Fprint(w)
	}

	if top > 0 {
		fmt.Fprintln(w, output.Section("Lowest scores"))
		worst := worstFiles(agg.Files, top)
		t := output.NewTable("File", "Score", "Complexity", "Nesting", "Code", "Comments").AlignRight(1, 2, 3, 4, 5)
		for _, fm := range worst {
			t.AddRow(
				relPath(agg.Root, fm.Path),
				output.ScoreStyle(fm.Quality.QualityScore).Render(fmt.Sprintf("%d", fm.Quality.QualityScore)),
				fmt.Sprintf("%d", fm.Complexity.CyclomaticComplexity),
				fmt.Sprintf("%d", fm.Complexity.NestingDepth),
				output.Count(fm.Lines.CodeLines),
				fmt.Sprintf("%.1f%%", fm.Lines.CommentsRatio),
			)
		}
		t.Fprint(w)
	}

	if len(agg.Failures) > 0 {
		fmt.Fprintln(w, output.Section("Skipped"))
		t := output.NewTable("File", "Code", "Reason")
		for _, f := range agg.Failures {
			t.AddRow(relPath(agg.Root, f.Path), string(f.Code), f.Message)
		}
		t.Fprint(w)
	}
}

type countEntry struct {
	key string
	n   int
}

// sortedCounts orders a count map by descending count, then key.
func sortedCounts[K ~string](m map[K]int) []countEntry {
	out := make([]countEntry, 0, len(m))
	for k, n := range m {
		out = append(out, countEntry{key: string(k), n: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].key < out[j].key
	})
	return out
}

// worstFiles returns up to n files with the lowest quality scores, highest
// complexity first among ties.
func worstFiles(files []*metrics.FileMetrics, n int) []*metrics.FileMetrics {
	sorted := make([]*metrics.FileMetrics, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Quality.QualityScore != b.Quality.QualityScore {
			return a.Quality.QualityScore < b.Quality.QualityScore
		}
		return a.Complexity.CyclomaticComplexity > b.Complexity.CyclomaticComplexity
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func relPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
