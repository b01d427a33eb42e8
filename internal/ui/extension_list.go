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

type extensionItem struct {
	ext model.Extension
}

func (i extensionItem) Title() string { return i.ext.DisplayName() }

func (i extensionItem) Description() string {
	desc := i.ext.Description
	if desc == "" {
		desc = "no description"
	}
	if i.ext.Version != "" {
		return fmt.Sprintf("v%s  %s", i.ext.Version, desc)
	}
	return desc
}

func (i extensionItem) FilterValue() string { return i.ext.Name }

// ExtensionList is the extensions tab landing view.
type ExtensionList struct {
	store    *storage.Store
	settings *settings.Store
	dispatch Dispatcher
	list     list.Model
}

func NewExtensionList(store *storage.Store, st *settings.Store) *ExtensionList {
	return &ExtensionList{
		store:    store,
		settings: st,
		list:     newListModel(nil),
	}
}

func (v *ExtensionList) SetDispatcher(d Dispatcher) { v.dispatch = d }

func (v *ExtensionList) Init() error { return v.reload() }

func (v *ExtensionList) reload() error {
	extensions, err := v.store.ListExtensions()
	if err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "list extensions")
	}
	items := make([]list.Item, 0, len(extensions))
	for _, ext := range extensions {
		items = append(items, extensionItem{ext: ext})
	}
	v.list.SetItems(items)
	return nil
}

func (v *ExtensionList) selectedID() string {
	item, ok := v.list.SelectedItem().(extensionItem)
	if !ok {
		return ""
	}
	return item.ext.ID
}

func (v *ExtensionList) CapturingInput() bool {
	return v.list.FilterState() == list.Filtering
}

func (v *ExtensionList) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
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
			v.dispatch(action.ViewExtensionDetails{ID: id})
		}
	case v.settings.Matches(msg, "edit"):
		if id := v.selectedID(); id != "" {
			v.dispatch(action.EditExtension{ID: id})
		}
	case v.settings.Matches(msg, "delete"):
		if id := v.selectedID(); id != "" {
			v.dispatch(action.DeleteExtension{ID: id})
		}
	case v.settings.Matches(msg, "create"):
		v.dispatch(action.CreateNewExtension{})
	case v.settings.Matches(msg, "import"):
		v.dispatch(action.ImportExtension{})
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

func (v *ExtensionList) HandleMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *ExtensionList) Apply(act action.Action) {
	switch a := act.(type) {
	case action.RefreshExtensions:
		if err := v.reload(); err != nil {
			v.dispatch(action.Error{Message: errdef.Message(err)})
		}
	case action.Resize:
		v.list.SetSize(a.Width-2, a.Height-6)
	}
}

func (v *ExtensionList) View(rc RenderContext) string {
	applyListTheme(&v.list, rc.Theme)

	title := rc.Theme.ViewTitle.Render("Extensions")
	count := rc.Theme.Muted.Render(fmt.Sprintf(" %d installed", len(v.list.Items())))

	body := v.list.View()
	if len(v.list.Items()) == 0 {
		body = rc.Theme.Muted.Render("No extensions yet. Press n to create one or i to import.")
	}

	help := rc.Theme.HelpText.Render(v.settings.HelpText([]settings.HelpPair{
		{Action: "select", Label: "details"},
		{Action: "create", Label: "new"},
		{Action: "import", Label: "import"},
		{Action: "edit", Label: "edit"},
		{Action: "delete", Label: "delete"},
		{Action: "search", Label: "filter"},
	}))
	if rc.Width > 0 {
		help = truncateLine(help, rc.Width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title+count, "", body, "", help)
}
