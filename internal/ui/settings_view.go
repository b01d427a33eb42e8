package ui

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/bindings"
	"github.com/unkn0wn-root/gemman/internal/config"
	"github.com/unkn0wn-root/gemman/internal/settings"
	"github.com/unkn0wn-root/gemman/internal/theme"
)

var settingsIntro = heredoc.Doc(`
	Themes apply immediately. Select a keybinding row and press Enter,
	then hit the key you want bound. Changes are saved to settings.json
	as you make them.
`)

// SettingsView lets the user switch themes and rebind keys.
type SettingsView struct {
	settings *settings.Store
	catalog  theme.Catalog
	dispatch Dispatcher

	cursor    int
	capturing bool
}

func NewSettingsView(st *settings.Store, catalog theme.Catalog) *SettingsView {
	return &SettingsView{settings: st, catalog: catalog}
}

func (v *SettingsView) SetDispatcher(d Dispatcher) { v.dispatch = d }

func (v *SettingsView) Init() error { return nil }

// CapturingInput is true while the view waits for the key to bind, so the
// captured key cannot trigger a global chord instead.
func (v *SettingsView) CapturingInput() bool { return v.capturing }

// rowCount is the theme row plus one row per logical action.
func (v *SettingsView) rowCount() int { return 1 + len(config.KnownActions()) }

func (v *SettingsView) selectedAction() string {
	if v.cursor == 0 {
		return ""
	}
	actions := config.KnownActions()
	if v.cursor-1 < len(actions) {
		return actions[v.cursor-1]
	}
	return ""
}

func (v *SettingsView) cycleTheme(step int) {
	keys := v.catalog.Keys()
	if len(keys) == 0 {
		return
	}
	current := v.settings.Theme()
	index := 0
	for i, key := range keys {
		if key == current {
			index = i
			break
		}
	}
	index = (index + step + len(keys)) % len(keys)
	v.dispatch(action.ChangeTheme{Name: keys[index]})
}

func (v *SettingsView) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if v.capturing {
		v.capturing = false
		if msg.Type == tea.KeyEsc {
			return true, nil
		}
		chord := bindings.FormatKey(msg)
		name := v.selectedAction()
		if chord == "" || name == "" {
			return true, nil
		}
		v.dispatch(action.UpdateKeybinding{Action: name, Chords: []string{chord}})
		return true, nil
	}

	switch {
	case v.settings.Matches(msg, "up"):
		if v.cursor > 0 {
			v.cursor--
		}
	case v.settings.Matches(msg, "down"):
		if v.cursor < v.rowCount()-1 {
			v.cursor++
		}
	case v.settings.Matches(msg, "left"):
		if v.cursor == 0 {
			v.cycleTheme(-1)
		}
	case v.settings.Matches(msg, "right"):
		if v.cursor == 0 {
			v.cycleTheme(1)
		}
	case v.settings.Matches(msg, "select"):
		if v.cursor == 0 {
			v.cycleTheme(1)
		} else {
			v.capturing = true
		}
	case msg.String() == "r":
		v.dispatch(action.ResetKeybindings{})
	default:
		return false, nil
	}
	return true, nil
}

func (v *SettingsView) Apply(action.Action) {}

func (v *SettingsView) View(rc RenderContext) string {
	snapshot := v.settings.Snapshot()

	var rows []string

	themeRow := fmt.Sprintf("Theme            < %s >", snapshot.Theme)
	if v.cursor == 0 {
		themeRow = rc.Theme.ListSelected.Render("> " + themeRow)
	} else {
		themeRow = rc.Theme.ListNormal.Render("  " + themeRow)
	}
	rows = append(rows, themeRow, "")

	for i, name := range config.KnownActions() {
		chords := snapshot.Keybindings.ChordsFor(name)
		value := strings.Join(chords, ", ")
		if value == "" {
			value = "(unbound)"
		}
		row := fmt.Sprintf("%-16s %s", name, value)
		switch {
		case v.cursor == i+1 && v.capturing:
			row = rc.Theme.InputFocused.Render("> " + fmt.Sprintf("%-16s press a key...", name))
		case v.cursor == i+1:
			row = rc.Theme.ListSelected.Render("> " + row)
		default:
			row = rc.Theme.ListNormal.Render("  " + row)
		}
		rows = append(rows, row)
	}

	help := rc.Theme.HelpText.Render("Enter: rebind | r: reset bindings | Esc: back")

	return lipgloss.JoinVertical(lipgloss.Left,
		rc.Theme.ViewTitle.Render("Settings"),
		rc.Theme.Muted.Render(strings.TrimSpace(settingsIntro)),
		"",
		strings.Join(rows, "\n"),
		"",
		help,
	)
}
