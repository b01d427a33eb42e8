package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/model"
	"github.com/unkn0wn-root/gemman/internal/storage"
	"github.com/unkn0wn-root/gemman/internal/util"
)

const (
	profFieldName = iota
	profFieldDescription
	profFieldWorkdir
	profFieldEnv
	profFieldExtensions
	profFieldCleanLaunch
	profFieldCleanup
	profFieldCount
)

type extensionChoice struct {
	id       string
	name     string
	selected bool
}

// ProfileForm creates or edits a profile. Extensions are picked from the
// installed set; environment variables are edited as KEY=VALUE lines.
type ProfileForm struct {
	store    *storage.Store
	dispatch Dispatcher

	editing  bool
	original model.Profile

	name        textinput.Model
	description textinput.Model
	workdir     textinput.Model
	env         textarea.Model

	choices   []extensionChoice
	extCursor int

	cleanLaunch   bool
	cleanupOnExit bool

	focus int
}

func NewProfileForm(store *storage.Store, existing *model.Profile) (*ProfileForm, error) {
	f := &ProfileForm{store: store}

	f.name = textinput.New()
	f.name.Placeholder = "my-profile"
	f.name.CharLimit = 120
	f.name.Focus()

	f.description = textinput.New()
	f.description.Placeholder = "What this profile is for"
	f.description.CharLimit = 200

	f.workdir = textinput.New()
	f.workdir.Placeholder = "~/projects/app (empty for workspace)"
	f.workdir.CharLimit = 250

	f.env = textarea.New()
	f.env.Placeholder = "API_KEY=$API_KEY"
	f.env.SetHeight(4)

	lc := model.DefaultLaunchConfig()
	f.cleanLaunch = lc.CleanLaunch
	f.cleanupOnExit = lc.CleanupOnExit

	extensions, err := store.ListExtensions()
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeStorage, err, "list extensions for profile form")
	}
	for _, ext := range extensions {
		f.choices = append(f.choices, extensionChoice{id: ext.ID, name: ext.DisplayName()})
	}

	if existing != nil {
		f.editing = true
		f.original = *existing
		f.name.SetValue(existing.Name)
		f.description.SetValue(existing.Description)
		f.workdir.SetValue(existing.WorkingDirectory)
		f.env.SetValue(formatEnvLines(existing.EnvironmentVariables))
		f.cleanLaunch = existing.LaunchConfig.CleanLaunch
		f.cleanupOnExit = existing.LaunchConfig.CleanupOnExit
		for i := range f.choices {
			if existing.References(f.choices[i].id) {
				f.choices[i].selected = true
			}
		}
	}
	return f, nil
}

func formatEnvLines(env map[string]string) string {
	if len(env) == 0 {
		return ""
	}
	lines := make([]string, 0, len(env))
	for k, v := range env {
		lines = append(lines, k+"="+v)
	}
	// Stable order keeps edit round-trips from reshuffling the document.
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func parseEnvLines(text string) (map[string]string, error) {
	env := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, errdef.New(errdef.CodeParse, "invalid environment line %q, want KEY=VALUE", line)
		}
		env[key] = value
	}
	if len(env) == 0 {
		return nil, nil
	}
	return env, nil
}

func (f *ProfileForm) SetDispatcher(d Dispatcher) { f.dispatch = d }

func (f *ProfileForm) Init() error { return nil }

func (f *ProfileForm) CapturingInput() bool { return true }

func (f *ProfileForm) setFocus(focus int) tea.Cmd {
	f.focus = (focus + profFieldCount) % profFieldCount
	f.name.Blur()
	f.description.Blur()
	f.workdir.Blur()
	f.env.Blur()

	switch f.focus {
	case profFieldName:
		return f.name.Focus()
	case profFieldDescription:
		return f.description.Focus()
	case profFieldWorkdir:
		return f.workdir.Focus()
	case profFieldEnv:
		return f.env.Focus()
	default:
		return nil
	}
}

func (f *ProfileForm) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		f.dispatch(action.NavigateBack{})
		return true, nil
	case tea.KeyCtrlS:
		f.submit()
		return true, nil
	case tea.KeyTab:
		return true, f.setFocus(f.focus + 1)
	case tea.KeyShiftTab:
		return true, f.setFocus(f.focus - 1)
	}

	switch f.focus {
	case profFieldExtensions:
		f.handleChoiceKey(msg)
		return true, nil
	case profFieldCleanLaunch:
		if msg.Type == tea.KeySpace || msg.Type == tea.KeyEnter {
			f.cleanLaunch = !f.cleanLaunch
		}
		return true, nil
	case profFieldCleanup:
		if msg.Type == tea.KeySpace || msg.Type == tea.KeyEnter {
			f.cleanupOnExit = !f.cleanupOnExit
		}
		return true, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case profFieldName:
		f.name, cmd = f.name.Update(msg)
	case profFieldDescription:
		f.description, cmd = f.description.Update(msg)
	case profFieldWorkdir:
		f.workdir, cmd = f.workdir.Update(msg)
	case profFieldEnv:
		f.env, cmd = f.env.Update(msg)
	}
	return true, cmd
}

func (f *ProfileForm) handleChoiceKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyUp:
		if f.extCursor > 0 {
			f.extCursor--
		}
	case tea.KeyDown:
		if f.extCursor < len(f.choices)-1 {
			f.extCursor++
		}
	case tea.KeySpace, tea.KeyEnter:
		if f.extCursor < len(f.choices) {
			f.choices[f.extCursor].selected = !f.choices[f.extCursor].selected
		}
	}
}

func (f *ProfileForm) submit() {
	name := strings.TrimSpace(f.name.Value())
	if name == "" {
		f.dispatch(action.Error{Message: "Profile name is required"})
		return
	}

	env, err := parseEnvLines(f.env.Value())
	if err != nil {
		f.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}

	var extIDs []string
	for _, choice := range f.choices {
		if choice.selected {
			extIDs = append(extIDs, choice.id)
		}
	}
	extIDs = util.DedupeNonEmptyStrings(extIDs)

	profile := model.Profile{
		ID:                   uuid.NewString(),
		Name:                 name,
		Description:          strings.TrimSpace(f.description.Value()),
		ExtensionIDs:         extIDs,
		EnvironmentVariables: env,
		WorkingDirectory:     strings.TrimSpace(f.workdir.Value()),
		LaunchConfig: model.LaunchConfig{
			CleanLaunch:   f.cleanLaunch,
			CleanupOnExit: f.cleanupOnExit,
		},
		Metadata: model.NewProfileMetadata(),
	}
	if f.editing {
		profile.ID = f.original.ID
		profile.Metadata = f.original.Metadata
		profile.Metadata.Touch()
		profile.LaunchConfig.PreserveExtensions = f.original.LaunchConfig.PreserveExtensions
	}

	if err := f.store.SaveProfile(profile); err != nil {
		f.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}

	verb := "created"
	if f.editing {
		verb = "updated"
	}
	f.dispatch(action.Success{Message: "Profile " + profile.DisplayName() + " " + verb})
	f.dispatch(action.RefreshProfiles{})
	f.dispatch(action.NavigateBack{})
}

func (f *ProfileForm) HandleMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case profFieldName:
		f.name, cmd = f.name.Update(msg)
	case profFieldDescription:
		f.description, cmd = f.description.Update(msg)
	case profFieldWorkdir:
		f.workdir, cmd = f.workdir.Update(msg)
	case profFieldEnv:
		f.env, cmd = f.env.Update(msg)
	}
	return cmd
}

func (f *ProfileForm) Apply(act action.Action) {
	if a, ok := act.(action.Resize); ok {
		width := a.Width - 6
		if width < 20 {
			width = 20
		}
		f.name.Width = width
		f.description.Width = width
		f.workdir.Width = width
		f.env.SetWidth(width)
	}
}

func (f *ProfileForm) label(rc RenderContext, field int, text string) string {
	if f.focus == field {
		return rc.Theme.InputFocused.Render(text)
	}
	return rc.Theme.InputLabel.Render(text)
}

func (f *ProfileForm) choicesView(rc RenderContext) string {
	if len(f.choices) == 0 {
		return rc.Theme.Muted.Render("  no extensions installed")
	}

	var b strings.Builder
	for i, choice := range f.choices {
		mark := "[ ]"
		if choice.selected {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, choice.name)
		if f.focus == profFieldExtensions && i == f.extCursor {
			line = rc.Theme.ListSelected.Render("> " + line)
		} else {
			line = rc.Theme.ListNormal.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *ProfileForm) toggleView(rc RenderContext, field int, label string, value bool) string {
	mark := "[ ]"
	if value {
		mark = "[x]"
	}
	text := mark + " " + label
	if f.focus == field {
		return rc.Theme.InputFocused.Render("> " + text)
	}
	return rc.Theme.InputLabel.Render("  " + text)
}

func (f *ProfileForm) View(rc RenderContext) string {
	title := "New Profile"
	if f.editing {
		title = "Edit " + f.original.DisplayName()
	}

	help := rc.Theme.HelpText.Render("Tab: next field | Space: toggle | Ctrl+s: save | Esc: cancel")

	return lipgloss.JoinVertical(lipgloss.Left,
		rc.Theme.ViewTitle.Render(title),
		"",
		f.label(rc, profFieldName, "Name"),
		f.name.View(),
		f.label(rc, profFieldDescription, "Description"),
		f.description.View(),
		f.label(rc, profFieldWorkdir, "Working directory"),
		f.workdir.View(),
		f.label(rc, profFieldEnv, "Environment (KEY=VALUE per line)"),
		f.env.View(),
		f.label(rc, profFieldExtensions, "Extensions"),
		f.choicesView(rc),
		f.toggleView(rc, profFieldCleanLaunch, "Clean launch (wipe workspace first)", f.cleanLaunch),
		f.toggleView(rc, profFieldCleanup, "Clean up on exit", f.cleanupOnExit),
		"",
		help,
	)
}
