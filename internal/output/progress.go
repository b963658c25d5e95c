package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// ScoreBar renders a bar for a 0-100 score, e.g. "████████░░ 80/100".
func ScoreBar(score int, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := min(max(score*width/100, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s", ScoreStyle(score).Render(bar), StyleMuted.Render(fmt.Sprintf("%d/100", score)))
}

// TrendArrow returns a styled indicator for a delta between two runs.
// higherIsBetter decides whether a rise is shown as an improvement.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	rising := delta > 0
	var arrow string
	if rising {
		arrow = fmt.Sprintf("▲ +%.1f", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.1f", delta)
	}

	if rising == higherIsBetter {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// Section returns a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// KeyValue renders one "label  value" line for summaries.
func KeyValue(label, value string) string {
	return fmt.Sprintf(" %s%s", StyleLabel.Render(label), StyleValue.Render(value))
}

// Bytes formats a byte count for humans, e.g. "1.2 MB".
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// ProgressLine formats one progress update. Long paths are shortened to
// their last two segments.
func ProgressLine(current, total, percentage int, file string) string {
	return fmt.Sprintf("[%3d%%] %s/%s %s",
		percentage,
		Count(current),
		Count(total),
		StyleMuted.Render(shortPath(file)),
	)
}

// ProgressPrinter redraws a single progress line on a terminal, or prints
// one line per update otherwise.
type ProgressPrinter struct {
	w       io.Writer
	inPlace bool
	last    int
}

// NewProgressPrinter writes progress to w. inPlace redraws with a carriage
// return instead of emitting new lines.
func NewProgressPrinter(w io.Writer, inPlace bool) *ProgressPrinter {
	return &ProgressPrinter{w: w, inPlace: inPlace}
}

// Update prints one progress update.
func (p *ProgressPrinter) Update(current, total, percentage int, file string) {
	line := ProgressLine(current, total, percentage, file)
	if !p.inPlace {
		fmt.Fprintln(p.w, line)
		return
	}
	padding := ""
	if n := visualLen(line); n < p.last {
		padding = strings.Repeat(" ", p.last-n)
	}
	p.last = visualLen(line)
	fmt.Fprintf(p.w, "\r%s%s", line, padding)
}

// Done terminates an in-place progress line.
func (p *ProgressPrinter) Done() {
	if p.inPlace && p.last > 0 {
		fmt.Fprintln(p.w)
	}
}

func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return path
	}
	return ".../" + strings.Join(parts[len(parts)-2:], "/")
}
