package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/launcher"
	"github.com/unkn0wn-root/gemman/internal/storage"
)

// ImportDialog prompts for the path of a gemini-extension.json package and
// imports it into the store.
type ImportDialog struct {
	store    *storage.Store
	dispatch Dispatcher
	path     textinput.Model
	width    int
	height   int
}

func NewImportDialog(store *storage.Store) *ImportDialog {
	input := textinput.New()
	input.Placeholder = "~/extensions/my-extension/gemini-extension.json"
	input.CharLimit = 300
	input.Focus()
	return &ImportDialog{store: store, path: input}
}

func (d *ImportDialog) SetDispatcher(disp Dispatcher) { d.dispatch = disp }

func (d *ImportDialog) Init() error { return nil }

func (d *ImportDialog) CapturingInput() bool { return true }

func (d *ImportDialog) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		d.dispatch(action.NavigateBack{})
		return true, nil
	case tea.KeyEnter:
		d.submit()
		return true, nil
	}

	var cmd tea.Cmd
	d.path, cmd = d.path.Update(msg)
	return true, cmd
}

func (d *ImportDialog) submit() {
	path := strings.TrimSpace(d.path.Value())
	if path == "" {
		d.dispatch(action.Error{Message: "Enter the path of an extension package"})
		return
	}

	ext, err := launcher.ImportExtension(path)
	if err != nil {
		d.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}
	if err := d.store.SaveExtension(ext); err != nil {
		d.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}

	d.dispatch(action.Success{Message: "Imported " + ext.DisplayName()})
	d.dispatch(action.RefreshExtensions{})
	d.dispatch(action.NavigateBack{})
}

func (d *ImportDialog) HandleMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.path, cmd = d.path.Update(msg)
	return cmd
}

func (d *ImportDialog) Apply(act action.Action) {
	if a, ok := act.(action.Resize); ok {
		d.width, d.height = a.Width, a.Height
		width := a.Width - 10
		if width > 80 {
			width = 80
		}
		if width < 20 {
			width = 20
		}
		d.path.Width = width
	}
}

func (d *ImportDialog) View(rc RenderContext) string {
	box := rc.Theme.DialogBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		rc.Theme.ViewTitle.Render("Import Extension"),
		"",
		rc.Theme.InputLabel.Render("Path to gemini-extension.json or its directory"),
		d.path.View(),
		"",
		rc.Theme.HelpText.Render("Enter: import | Esc: cancel"),
	))

	width, height := rc.Width, rc.Height
	if width <= 0 {
		width = lipgloss.Width(box)
	}
	if height <= 0 {
		height = lipgloss.Height(box)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
