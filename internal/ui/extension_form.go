package ui

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/model"
	"github.com/unkn0wn-root/gemman/internal/storage"
)

const (
	extFieldName = iota
	extFieldVersion
	extFieldDescription
	extFieldContextName
	extFieldServers
	extFieldContext
	extFieldCount
)

// ExtensionForm creates or edits an extension. MCP servers are edited as a
// JSON document, the same shape stored in gemini-extension.json.
type ExtensionForm struct {
	store    *storage.Store
	dispatch Dispatcher

	editing  bool
	original model.Extension

	name        textinput.Model
	version     textinput.Model
	description textinput.Model
	contextName textinput.Model
	servers     textarea.Model
	context     textarea.Model
	focus       int
}

// NewExtensionForm builds a create form, or an edit form when an existing
// extension is given.
func NewExtensionForm(store *storage.Store, existing *model.Extension) *ExtensionForm {
	f := &ExtensionForm{store: store}

	f.name = textinput.New()
	f.name.Placeholder = "my-extension"
	f.name.CharLimit = 120
	f.name.Focus()

	f.version = textinput.New()
	f.version.Placeholder = "1.0.0"
	f.version.CharLimit = 40

	f.description = textinput.New()
	f.description.Placeholder = "What this extension provides"
	f.description.CharLimit = 200

	f.contextName = textinput.New()
	f.contextName.Placeholder = "GEMINI.md"
	f.contextName.CharLimit = 80

	f.servers = textarea.New()
	f.servers.Placeholder = "{\n  \"server-name\": {\"command\": \"npx\", \"args\": [\"...\"]}\n}"
	f.servers.SetHeight(6)

	f.context = textarea.New()
	f.context.Placeholder = "# Context for Gemini"
	f.context.SetHeight(6)

	if existing != nil {
		f.editing = true
		f.original = *existing
		f.name.SetValue(existing.Name)
		f.version.SetValue(existing.Version)
		f.description.SetValue(existing.Description)
		f.contextName.SetValue(existing.ContextFileName)
		if len(existing.MCPServers) > 0 {
			if raw, err := json.MarshalIndent(existing.MCPServers, "", "  "); err == nil {
				f.servers.SetValue(string(raw))
			}
		}
		f.context.SetValue(existing.ContextContent)
	}
	return f
}

func (f *ExtensionForm) SetDispatcher(d Dispatcher) { f.dispatch = d }

func (f *ExtensionForm) Init() error { return nil }

func (f *ExtensionForm) CapturingInput() bool { return true }

func (f *ExtensionForm) setFocus(focus int) tea.Cmd {
	f.focus = (focus + extFieldCount) % extFieldCount
	f.name.Blur()
	f.version.Blur()
	f.description.Blur()
	f.contextName.Blur()
	f.servers.Blur()
	f.context.Blur()

	switch f.focus {
	case extFieldName:
		return f.name.Focus()
	case extFieldVersion:
		return f.version.Focus()
	case extFieldDescription:
		return f.description.Focus()
	case extFieldContextName:
		return f.contextName.Focus()
	case extFieldServers:
		return f.servers.Focus()
	default:
		return f.context.Focus()
	}
}

func (f *ExtensionForm) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
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

	var cmd tea.Cmd
	switch f.focus {
	case extFieldName:
		f.name, cmd = f.name.Update(msg)
	case extFieldVersion:
		f.version, cmd = f.version.Update(msg)
	case extFieldDescription:
		f.description, cmd = f.description.Update(msg)
	case extFieldContextName:
		f.contextName, cmd = f.contextName.Update(msg)
	case extFieldServers:
		f.servers, cmd = f.servers.Update(msg)
	default:
		f.context, cmd = f.context.Update(msg)
	}
	return true, cmd
}

func (f *ExtensionForm) submit() {
	name := strings.TrimSpace(f.name.Value())
	if name == "" {
		f.dispatch(action.Error{Message: "Extension name is required"})
		return
	}

	var servers map[string]model.MCPServerConfig
	if raw := strings.TrimSpace(f.servers.Value()); raw != "" {
		if err := json.Unmarshal([]byte(raw), &servers); err != nil {
			f.dispatch(action.Error{Message: "MCP servers must be valid JSON: " + err.Error()})
			return
		}
	}

	ext := model.Extension{
		ID:              uuid.NewString(),
		Name:            name,
		Version:         strings.TrimSpace(f.version.Value()),
		Description:     strings.TrimSpace(f.description.Value()),
		MCPServers:      servers,
		ContextFileName: strings.TrimSpace(f.contextName.Value()),
		ContextContent:  f.context.Value(),
		Metadata:        model.ExtensionMetadata{ImportedAt: time.Now().UTC()},
	}
	if f.editing {
		ext.ID = f.original.ID
		ext.Metadata = f.original.Metadata
	}

	if err := f.store.SaveExtension(ext); err != nil {
		f.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}

	verb := "created"
	if f.editing {
		verb = "updated"
	}
	f.dispatch(action.Success{Message: "Extension " + ext.DisplayName() + " " + verb})
	f.dispatch(action.RefreshExtensions{})
	f.dispatch(action.NavigateBack{})
}

func (f *ExtensionForm) HandleMsg(msg tea.Msg) tea.Cmd {
	// Blink and other widget housekeeping go to the focused field.
	var cmd tea.Cmd
	switch f.focus {
	case extFieldName:
		f.name, cmd = f.name.Update(msg)
	case extFieldVersion:
		f.version, cmd = f.version.Update(msg)
	case extFieldDescription:
		f.description, cmd = f.description.Update(msg)
	case extFieldContextName:
		f.contextName, cmd = f.contextName.Update(msg)
	case extFieldServers:
		f.servers, cmd = f.servers.Update(msg)
	default:
		f.context, cmd = f.context.Update(msg)
	}
	return cmd
}

func (f *ExtensionForm) Apply(act action.Action) {
	if a, ok := act.(action.Resize); ok {
		width := a.Width - 6
		if width < 20 {
			width = 20
		}
		f.name.Width = width
		f.version.Width = width
		f.description.Width = width
		f.contextName.Width = width
		f.servers.SetWidth(width)
		f.context.SetWidth(width)
	}
}

func (f *ExtensionForm) label(rc RenderContext, field int, text string) string {
	if f.focus == field {
		return rc.Theme.InputFocused.Render(text)
	}
	return rc.Theme.InputLabel.Render(text)
}

func (f *ExtensionForm) View(rc RenderContext) string {
	title := "New Extension"
	if f.editing {
		title = "Edit " + f.original.DisplayName()
	}

	help := rc.Theme.HelpText.Render("Tab: next field | Ctrl+s: save | Esc: cancel")

	return lipgloss.JoinVertical(lipgloss.Left,
		rc.Theme.ViewTitle.Render(title),
		"",
		f.label(rc, extFieldName, "Name"),
		f.name.View(),
		f.label(rc, extFieldVersion, "Version"),
		f.version.View(),
		f.label(rc, extFieldDescription, "Description"),
		f.description.View(),
		f.label(rc, extFieldContextName, "Context file name"),
		f.contextName.View(),
		f.label(rc, extFieldServers, "MCP servers (JSON)"),
		f.servers.View(),
		f.label(rc, extFieldContext, "Context content"),
		f.context.View(),
		"",
		help,
	)
}
