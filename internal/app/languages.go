package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codegauge/internal/lang"
	"github.com/blackwell-systems/codegauge/internal/output"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List recognized languages and their extensions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagNoColor {
			output.SetNoColor(true)
		}
		langs := lang.Languages()
		if flagJSON {
			return output.Export(cmd.OutOrStdout(), output.FormatJSON, langs)
		}

		tbl := output.NewTable("Language", "Extensions", "Rules")
		for _, d := range langs {
			rules := "generic"
			if d.Dedicated {
				rules = "dedicated"
			}
			tbl.AddRow(string(d.Name), strings.Join(d.Extensions, " "), rules)
		}
		fmt.Fprintln(cmd.OutOrStdout(), output.Section("Languages"))
		tbl.Fprint(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
