package app

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitLines truncates every line to width and drops lines past maxLines.
func fitLines(text string, width, maxLines int) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = append(lines[:maxLines-1], "…")
	}
	if width <= 0 {
		return strings.Join(lines, "\n")
	}
	for i, line := range lines {
		if xansi.StringWidth(line) > width {
			lines[i] = xansi.Truncate(line, width, "…")
		}
	}
	return strings.Join(lines, "\n")
}
