package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/gemman/internal/action"
)

// ConfirmDialog asks the user to confirm a destructive operation. The
// cancel button starts focused so a stray Enter does not delete anything.
type ConfirmDialog struct {
	dispatch Dispatcher
	prompt   string
	confirm  bool
	width    int
	height   int
}

func NewConfirmDialog(prompt string) *ConfirmDialog {
	return &ConfirmDialog{prompt: prompt}
}

func (d *ConfirmDialog) SetDispatcher(disp Dispatcher) { d.dispatch = disp }

func (d *ConfirmDialog) Init() error { return nil }

func (d *ConfirmDialog) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		d.confirm = !d.confirm
		return true, nil
	case tea.KeyEnter:
		if d.confirm {
			d.dispatch(action.ConfirmDelete{})
		} else {
			d.dispatch(action.CancelDelete{})
		}
		return true, nil
	case tea.KeyEsc:
		d.dispatch(action.CancelDelete{})
		return true, nil
	}

	switch msg.String() {
	case "y":
		d.dispatch(action.ConfirmDelete{})
		return true, nil
	case "n":
		d.dispatch(action.CancelDelete{})
		return true, nil
	case "h", "l":
		d.confirm = !d.confirm
		return true, nil
	}
	return true, nil
}

func (d *ConfirmDialog) Apply(act action.Action) {
	if a, ok := act.(action.Resize); ok {
		d.width, d.height = a.Width, a.Height
	}
}

func (d *ConfirmDialog) View(rc RenderContext) string {
	yes := rc.Theme.DialogButton.Render("Delete")
	no := rc.Theme.DialogFocused.Render("Cancel")
	if d.confirm {
		yes = rc.Theme.DialogFocused.Render("Delete")
		no = rc.Theme.DialogButton.Render("Cancel")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no)
	box := rc.Theme.DialogBox.Render(
		lipgloss.JoinVertical(lipgloss.Center, d.prompt, "", buttons))

	width, height := rc.Width, rc.Height
	if width <= 0 {
		width = lipgloss.Width(box)
	}
	if height <= 0 {
		height = lipgloss.Height(box)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
