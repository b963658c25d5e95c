package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codegauge/internal/analysis"
	"github.com/blackwell-systems/codegauge/internal/metrics"
	"github.com/blackwell-systems/codegauge/internal/output"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single source file",
	Long: `Read one file and report its line breakdown, estimated complexity,
quality score and the issues that lowered it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "table", "Output format: table, json or yaml")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(analyzeFormat)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	svc := analysis.New(cfg, newLogger(cmd.ErrOrStderr()))
	fm, err := svc.AnalyzeFile(args[0], string(content))
	if err != nil {
		return err
	}

	if format != output.FormatTable {
		return output.Export(cmd.OutOrStdout(), format, fm)
	}
	renderFileMetrics(cmd.OutOrStdout(), fm)
	return nil
}

// resolveFormat parses a --format value; the global --json flag wins.
func resolveFormat(s string) (output.Format, error) {
	if flagJSON {
		return output.FormatJSON, nil
	}
	return output.ParseFormat(s)
}

func renderFileMetrics(w io.Writer, fm *metrics.FileMetrics) {
	fmt.Fprintln(w, output.Section(fm.Path))
	fmt.Fprintln(w, output.KeyValue("Language", string(fm.Language)))
	fmt.Fprintln(w, output.KeyValue("Size", output.Bytes(fm.FileSize)))
	fmt.Fprintln(w, output.KeyValue("Quality", output.ScoreBar(fm.Quality.QualityScore, 20)+" "+output.Grade(fm.Quality.QualityScore)))
	fmt.Fprintln(w, output.KeyValue("Maintainability", fmt.Sprintf("%d", fm.Quality.MaintainabilityIndex)))

	fmt.Fprintln(w, output.Section("Lines"))
	l := fm.Lines
	fmt.Fprintln(w, output.KeyValue("Total", output.Count(l.TotalLines)))
	fmt.Fprintln(w, output.KeyValue("Code", fmt.Sprintf("%s (%.2f%%)", output.Count(l.CodeLines), l.CodeRatio)))
	fmt.Fprintln(w, output.KeyValue("Comments", fmt.Sprintf("%s (%.2f%%)", output.Count(l.CommentLines), l.CommentsRatio)))
	fmt.Fprintln(w, output.KeyValue("Blank", fmt.Sprintf("%s (%.2f%%)", output.Count(l.BlankLines), l.BlankRatio)))
	fmt.Fprintln(w, output.KeyValue("Avg line length", fmt.Sprintf("%.1f", l.AvgLineLength)))

	fmt.Fprintln(w, output.Section("Complexity"))
	c := fm.Complexity
	fmt.Fprintln(w, output.KeyValue("Cyclomatic", fmt.Sprintf("%d", c.CyclomaticComplexity)))
	fmt.Fprintln(w, output.KeyValue("Nesting depth", fmt.Sprintf("%d", c.NestingDepth)))
	fmt.Fprintln(w, output.KeyValue("Conditionals", fmt.Sprintf("%d", c.ConditionalCount)))
	fmt.Fprintln(w, output.KeyValue("Loops", fmt.Sprintf("%d", c.LoopCount)))

	if len(fm.Quality.Issues) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, " "+output.StyleSuccess.Render("No issues found."))
		return
	}

	fmt.Fprintln(w, output.Section("Issues"))
	for i, issue := range fm.Quality.Issues {
		fmt.Fprintf(w, " %s %s\n", output.StyleWarning.Render("!"), issue)
		if i < len(fm.Quality.Suggestions) {
			fmt.Fprintf(w, "   %s\n", output.StyleMuted.Render(strings.TrimSpace(fm.Quality.Suggestions[i])))
		}
	}
}
