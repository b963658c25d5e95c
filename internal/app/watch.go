package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codegauge/internal/analysis"
	"github.com/blackwell-systems/codegauge/internal/output"
	"github.com/blackwell-systems/codegauge/internal/watcher"
)

var (
	watchInterval   time.Duration
	watchNotify     bool
	watchMinQuality int
	watchBatchSize  int
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-analyze a project periodically and alert on quality changes",
	Long: `Analyze a project at a fixed interval and report what changed since the
previous run: files whose score dropped sharply, new issues, files that can no
longer be read, added and removed files. Stops on Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Time between analyses")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications for warnings and critical alerts")
	watchCmd.Flags().IntVar(&watchMinQuality, "min-quality", 0, "Alert while the average quality is below this score")
	watchCmd.Flags().IntVar(&watchBatchSize, "batch-size", 0, "Files analyzed concurrently per batch (default: batch_size from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc := analysis.New(cfg, newLogger(cmd.ErrOrStderr()))
	w := cmd.OutOrStdout()

	wt := watcher.New(svc, args[0], watchInterval, func(a watcher.Alert) {
		printAlert(w, a)
		if watchNotify && a.Level != "info" {
			_ = watcher.Notify(a)
		}
	})
	wt.MinQuality = watchMinQuality
	wt.BatchSize = watchBatchSize

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(w, " Watching %s every %s. Press Ctrl-C to stop.\n", args[0], watchInterval)
	if err := wt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printAlert(w io.Writer, a watcher.Alert) {
	var level string
	switch a.Level {
	case "critical":
		level = output.StyleError.Render("[CRITICAL]")
	case "warning":
		level = output.StyleWarning.Render("[WARNING]")
	default:
		level = output.StyleMuted.Render("[INFO]")
	}
	fmt.Fprintf(w, " %s %s %s\n", output.StyleMuted.Render(a.Time.Format("15:04:05")), level, output.StyleBold.Render(a.Title))
	fmt.Fprintf(w, "   %s\n", a.Message)
}
