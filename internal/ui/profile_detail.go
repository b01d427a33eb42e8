package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/history"
	"github.com/unkn0wn-root/gemman/internal/model"
	"github.com/unkn0wn-root/gemman/internal/settings"
	"github.com/unkn0wn-root/gemman/internal/storage"
)

// ProfileDetail shows one profile: its extensions by name, environment
// variables and launch configuration.
type ProfileDetail struct {
	store    *storage.Store
	settings *settings.Store
	launches *history.Store
	dispatch Dispatcher

	profile  model.Profile
	extNames []string
	loaded   bool
	viewport viewport.Model
	width    int
}

func NewProfileDetail(store *storage.Store, st *settings.Store, launches *history.Store) *ProfileDetail {
	return &ProfileDetail{
		store:    store,
		settings: st,
		launches: launches,
		viewport: viewport.New(0, 0),
	}
}

func (v *ProfileDetail) SetDispatcher(d Dispatcher) { v.dispatch = d }

func (v *ProfileDetail) Init() error { return nil }

func (v *ProfileDetail) ProfileID() string { return v.profile.ID }

func (v *ProfileDetail) show(id string) {
	profile, err := v.store.LoadProfile(id)
	if err != nil {
		v.loaded = false
		v.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}

	v.profile = profile
	v.extNames = v.extNames[:0]
	for _, extID := range profile.ExtensionIDs {
		ext, err := v.store.LoadExtension(extID)
		if err != nil {
			// Keep rendering: a dangling reference shows as its raw id.
			v.extNames = append(v.extNames, extID+" (missing)")
			continue
		}
		v.extNames = append(v.extNames, ext.DisplayName())
	}

	v.loaded = true
	v.viewport.SetContent(v.content())
	v.viewport.GotoTop()
}

func (v *ProfileDetail) content() string {
	var b strings.Builder

	b.WriteString("Extensions:\n")
	if len(v.extNames) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, name := range v.extNames {
		b.WriteString("  - " + name + "\n")
	}

	if len(v.profile.EnvironmentVariables) > 0 {
		b.WriteString("\nEnvironment:\n")
		keys := make([]string, 0, len(v.profile.EnvironmentVariables))
		for k := range v.profile.EnvironmentVariables {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("  " + k + "=" + v.profile.EnvironmentVariables[k] + "\n")
		}
	}

	if v.profile.WorkingDirectory != "" {
		b.WriteString("\nWorking directory: " + v.profile.WorkingDirectory + "\n")
	}

	lc := v.profile.LaunchConfig
	b.WriteString("\nLaunch:\n")
	b.WriteString(fmt.Sprintf("  clean launch:    %v\n", lc.CleanLaunch))
	b.WriteString(fmt.Sprintf("  cleanup on exit: %v\n", lc.CleanupOnExit))
	if len(lc.PreserveExtensions) > 0 {
		b.WriteString("  preserves: " + strings.Join(lc.PreserveExtensions, ", ") + "\n")
	}

	if v.launches != nil {
		if last, ok := v.launches.LastLaunch(v.profile.ID); ok {
			b.WriteString("\nLast launch: " + last.LaunchedAt.Local().Format("2006-01-02 15:04"))
			if last.Error != "" {
				b.WriteString(" (failed: " + last.Error + ")")
			} else {
				b.WriteString(fmt.Sprintf(" (ran %s)", last.Duration.Round(time.Second)))
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (v *ProfileDetail) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case v.settings.Matches(msg, "up"):
		v.viewport.ScrollUp(1)
	case v.settings.Matches(msg, "down"):
		v.viewport.ScrollDown(1)
	case v.settings.Matches(msg, "edit"):
		if v.loaded {
			v.dispatch(action.EditProfile{ID: v.profile.ID})
		}
	case v.settings.Matches(msg, "delete"):
		if v.loaded {
			v.dispatch(action.DeleteProfile{ID: v.profile.ID})
		}
	case v.settings.Matches(msg, "launch"):
		if v.loaded {
			v.dispatch(action.LaunchWithProfile{ID: v.profile.ID})
		}
	case msg.String() == "s":
		if !v.loaded {
			return true, nil
		}
		if err := v.store.SetDefaultProfile(v.profile.ID); err != nil {
			v.dispatch(action.Error{Message: errdef.Message(err)})
			return true, nil
		}
		v.dispatch(action.Success{Message: v.profile.DisplayName() + " is now the default profile"})
		v.dispatch(action.RefreshProfiles{})
		v.show(v.profile.ID)
	case msg.String() == "y":
		if !v.loaded {
			return true, nil
		}
		if err := clipboard.WriteAll(v.profile.ID); err != nil {
			v.dispatch(action.Error{Message: "clipboard unavailable: " + err.Error()})
			return true, nil
		}
		v.dispatch(action.Success{Message: "Copied profile id"})
	default:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return false, cmd
	}
	return true, nil
}

func (v *ProfileDetail) Apply(act action.Action) {
	switch a := act.(type) {
	case action.ViewProfileDetails:
		v.show(a.ID)
	case action.RefreshProfiles:
		if v.loaded {
			v.show(v.profile.ID)
		}
	case action.Resize:
		v.width = a.Width
		v.viewport.Width = a.Width - 2
		v.viewport.Height = a.Height - 9
		if v.loaded {
			v.viewport.SetContent(v.content())
		}
	}
}

func (v *ProfileDetail) View(rc RenderContext) string {
	if !v.loaded {
		return rc.Theme.Muted.Render("No profile selected.")
	}

	title := rc.Theme.ViewTitle.Render(v.profile.DisplayName())
	if v.profile.Metadata.IsDefault {
		title += " " + rc.Theme.Badge.Render("default")
	}

	var meta []string
	if v.profile.Description != "" {
		meta = append(meta, rc.Theme.FieldValue.Render(v.profile.Description))
	}
	meta = append(meta, rc.Theme.Muted.Render("id: "+v.profile.ID))

	help := rc.Theme.HelpText.Render(v.settings.HelpText([]settings.HelpPair{
		{Action: "launch", Label: "launch"},
		{Action: "edit", Label: "edit"},
		{Action: "delete", Label: "delete"},
		{Action: "back", Label: "back"},
	}) + " | s: set default | y: copy id")
	if rc.Width > 0 {
		help = truncateLine(help, rc.Width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(meta, "\n"),
		"",
		rc.Theme.Border.Render(v.viewport.View()),
		help,
	)
}
