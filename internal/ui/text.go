package ui

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// truncateLine clips a styled line to the given cell width, keeping escape
// sequences intact and marking the cut with an ellipsis.
func truncateLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if visibleWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// visibleWidth is the on-screen cell width of a styled string.
func visibleWidth(s string) int {
	if s == "" {
		return 0
	}
	return runewidth.StringWidth(ansi.Strip(s))
}
