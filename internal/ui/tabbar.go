package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	tabExtensions = iota
	tabProfiles
	tabSettings
)

var tabTitles = []string{"Extensions [1]", "Profiles [2]", "Settings [3]"}

// renderTabBar draws the top-level tab strip with the active tab highlighted.
func renderTabBar(rc RenderContext, active int) string {
	rendered := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		style := rc.Theme.TabInactive
		if i == active {
			style = rc.Theme.TabActive
		}
		rendered = append(rendered, style.Render(title))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)
	if rc.Width > lipgloss.Width(row) {
		row += rc.Theme.TabBar.Render(strings.Repeat(" ", rc.Width-lipgloss.Width(row)))
	}
	return row
}
