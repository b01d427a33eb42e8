package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/model"
	"github.com/unkn0wn-root/gemman/internal/settings"
	"github.com/unkn0wn-root/gemman/internal/storage"
)

type profileItem struct {
	profile model.Profile
}

func (i profileItem) Title() string {
	name := i.profile.DisplayName()
	if i.profile.Metadata.IsDefault {
		name += " (default)"
	}
	return name
}

func (i profileItem) Description() string { return i.profile.Summary() }

func (i profileItem) FilterValue() string { return i.profile.Name }

// ProfileList is the profiles tab landing view.
type ProfileList struct {
	store    *storage.Store
	settings *settings.Store
	dispatch Dispatcher
	list     list.Model
}

func NewProfileList(store *storage.Store, st *settings.Store) *ProfileList {
	return &ProfileList{
		store:    store,
		settings: st,
		list:     newListModel(nil),
	}
}

func (v *ProfileList) SetDispatcher(d Dispatcher) { v.dispatch = d }

func (v *ProfileList) Init() error { return v.reload() }

func (v *ProfileList) reload() error {
	profiles, err := v.store.ListProfiles()
	if err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "list profiles")
	}
	items := make([]list.Item, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, profileItem{profile: profile})
	}
	v.list.SetItems(items)
	return nil
}

func (v *ProfileList) selectedID() string {
	item, ok := v.list.SelectedItem().(profileItem)
	if !ok {
		return ""
	}
	return item.profile.ID
}

func (v *ProfileList) CapturingInput() bool {
	return v.list.FilterState() == list.Filtering
}

func (v *ProfileList) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if v.CapturingInput() {
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return true, cmd
	}

	switch {
	case v.settings.Matches(msg, "up"):
		v.list.CursorUp()
	case v.settings.Matches(msg, "down"):
		v.list.CursorDown()
	case v.settings.Matches(msg, "select"):
		if id := v.selectedID(); id != "" {
			v.dispatch(action.ViewProfileDetails{ID: id})
		}
	case v.settings.Matches(msg, "edit"):
		if id := v.selectedID(); id != "" {
			v.dispatch(action.EditProfile{ID: id})
		}
	case v.settings.Matches(msg, "delete"):
		if id := v.selectedID(); id != "" {
			v.dispatch(action.DeleteProfile{ID: id})
		}
	case v.settings.Matches(msg, "create"):
		v.dispatch(action.CreateProfile{})
	case v.settings.Matches(msg, "launch"):
		if id := v.selectedID(); id != "" {
			v.dispatch(action.LaunchWithProfile{ID: id})
		}
	case v.settings.Matches(msg, "search"):
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
		return true, cmd
	default:
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return false, cmd
	}
	return true, nil
}

func (v *ProfileList) HandleMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *ProfileList) Apply(act action.Action) {
	switch a := act.(type) {
	case action.RefreshProfiles:
		if err := v.reload(); err != nil {
			v.dispatch(action.Error{Message: errdef.Message(err)})
		}
	case action.Resize:
		v.list.SetSize(a.Width-2, a.Height-6)
	}
}

func (v *ProfileList) View(rc RenderContext) string {
	applyListTheme(&v.list, rc.Theme)

	title := rc.Theme.ViewTitle.Render("Profiles")
	count := rc.Theme.Muted.Render(fmt.Sprintf(" %d configured", len(v.list.Items())))

	body := v.list.View()
	if len(v.list.Items()) == 0 {
		body = rc.Theme.Muted.Render("No profiles yet. Press n to create one.")
	}

	help := rc.Theme.HelpText.Render(v.settings.HelpText([]settings.HelpPair{
		{Action: "select", Label: "details"},
		{Action: "launch", Label: "launch"},
		{Action: "create", Label: "new"},
		{Action: "edit", Label: "edit"},
		{Action: "delete", Label: "delete"},
		{Action: "search", Label: "filter"},
	}))
	if rc.Width > 0 {
		help = truncateLine(help, rc.Width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title+count, "", body, "", help)
}
