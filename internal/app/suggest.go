package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codegauge/internal/analysis"
	"github.com/blackwell-systems/codegauge/internal/output"
	"github.com/blackwell-systems/codegauge/internal/suggest"
)

var (
	suggestLimit    int
	suggestCategory string
	suggestFormat   string
	suggestBatch    int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <dir>",
	Short: "Generate ranked improvement recommendations",
	Long: `Analyze a project and turn the results into actionable recommendations:
missing tests, complexity hotspots, documentation gaps, oversized or deeply
nested files and files that could not be read. Suggestions are scored by
impact and sorted from highest to lowest.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 10, "Maximum number of suggestions to show")
	suggestCmd.Flags().StringVar(&suggestCategory, "category", "", "Filter by category (testing, complexity, documentation, structure, quality, coverage)")
	suggestCmd.Flags().StringVar(&suggestFormat, "format", "table", "Output format: table, json or yaml")
	suggestCmd.Flags().IntVar(&suggestBatch, "batch-size", 0, "Files analyzed concurrently per batch (default: batch_size from config)")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(suggestFormat)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	agg, err := analyzeProject(cmd, cfg, args[0], suggestBatch, true)
	if err != nil {
		return err
	}

	engine := suggest.NewEngine(suggest.WithCategory(suggestCategory), suggest.WithLimit(suggestLimit))
	suggestions := engine.Run(suggest.FromAggregate(agg, analysis.Thresholds(cfg.Quality)))

	if format != output.FormatTable {
		return output.Export(cmd.OutOrStdout(), format, suggestions)
	}
	renderSuggestions(cmd.OutOrStdout(), suggestions)
	return nil
}

func renderSuggestions(w io.Writer, suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, output.Section("Suggestions"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, " No suggestions. The project looks healthy!")
		return
	}

	fmt.Fprintln(w, output.Section("Improvement Suggestions"))
	fmt.Fprintln(w)

	for i, s := range suggestions {
		label := priorityToLabel(s.Priority)
		fmt.Fprintf(w, " #%d %s %s\n", i+1, stylePriority(s.Priority, label), output.StyleBold.Render(s.Title))
		fmt.Fprintf(w, "    Impact: %.1f  |  Category: %s\n", s.ImpactScore, s.Category)
		fmt.Fprintf(w, "    %s\n", s.Description)
		fmt.Fprintln(w)
	}
}

func priorityToLabel(priority int) string {
	switch priority {
	case suggest.PriorityCritical:
		return "[CRITICAL]"
	case suggest.PriorityHigh:
		return "[HIGH]"
	case suggest.PriorityMedium:
		return "[MEDIUM]"
	case suggest.PriorityLow:
		return "[LOW]"
	default:
		return "[UNKNOWN]"
	}
}

func stylePriority(priority int, label string) string {
	switch priority {
	case suggest.PriorityCritical, suggest.PriorityHigh:
		return output.StyleError.Render(label)
	case suggest.PriorityMedium:
		return output.StyleWarning.Render(label)
	default:
		return output.StyleMuted.Render(label)
	}
}
