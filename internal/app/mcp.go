package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codegauge/internal/analysis"
	"github.com/blackwell-systems/codegauge/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve analysis tools over MCP stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing
analyze_file, analyze_project, suggest_improvements and list_languages.
Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr)
	svc := analysis.New(cfg, logger)
	server := mcp.NewServer(svc, analysis.Thresholds(cfg.Quality), appVersion, mcp.WithLogger(logger))

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, os.Stdin, os.Stdout)
}
