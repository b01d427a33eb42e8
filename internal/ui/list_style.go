package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/gemman/internal/theme"
)

// newListModel builds a list with chrome trimmed down to what the shell
// draws itself. Titles, status bars and help come from the surrounding view.
func newListModel(items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// applyListTheme restyles the list delegate from the active theme. Called on
// every draw so a theme change takes effect without rebuilding the list.
func applyListTheme(l *list.Model, th theme.Theme) {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = th.ListSelected.
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(th.ListSelected.GetForeground()).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle.
		Bold(false).
		Foreground(th.Muted.GetForeground())
	delegate.Styles.NormalTitle = th.ListNormal.Padding(0, 0, 0, 2)
	delegate.Styles.NormalDesc = th.Muted.Padding(0, 0, 0, 2)
	l.SetDelegate(delegate)
}
