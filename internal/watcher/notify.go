package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// notifier is a platform command that raises a desktop notification.
type notifier struct {
	bin  string
	args func(Alert) []string
}

var notifiers = map[string]notifier{
	"darwin": {
		bin: "osascript",
		args: func(a Alert) []string {
			return []string{"-e", fmt.Sprintf(`display notification %q with title "codegauge" subtitle %q`, a.Message, a.Title)}
		},
	},
	"linux": {
		bin: "notify-send",
		args: func(a Alert) []string {
			urgency := "normal"
			if a.Level == "critical" {
				urgency = "critical"
			}
			return []string{"-u", urgency, "codegauge: " + a.Title, a.Message}
		},
	},
}

// Notify raises a desktop notification for a. When the platform has no
// notifier, or the notifier fails, the alert is written to stderr instead.
func Notify(a Alert) error {
	return notify(runtime.GOOS, a, os.Stderr)
}

func notify(goos string, a Alert, fallback io.Writer) error {
	if n, ok := notifiers[goos]; ok {
		if bin, err := exec.LookPath(n.bin); err == nil {
			if exec.Command(bin, n.args(a)...).Run() == nil {
				return nil
			}
		}
	}
	return writeAlert(fallback, a)
}

func writeAlert(w io.Writer, a Alert) error {
	_, err := fmt.Fprintf(w, "codegauge [%s] %s: %s\n", a.Level, a.Title, a.Message)
	return err
}
