package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/model"
	"github.com/unkn0wn-root/gemman/internal/settings"
	"github.com/unkn0wn-root/gemman/internal/storage"
)

// ExtensionDetail shows a single extension: its MCP server block as
// highlighted JSON, the rendered context document and import metadata.
type ExtensionDetail struct {
	store    *storage.Store
	settings *settings.Store
	dispatch Dispatcher

	ext      model.Extension
	loaded   bool
	viewport viewport.Model
	width    int
	height   int
}

func NewExtensionDetail(store *storage.Store, st *settings.Store) *ExtensionDetail {
	return &ExtensionDetail{
		store:    store,
		settings: st,
		viewport: viewport.New(0, 0),
	}
}

func (v *ExtensionDetail) SetDispatcher(d Dispatcher) { v.dispatch = d }

func (v *ExtensionDetail) Init() error { return nil }

func (v *ExtensionDetail) ExtensionID() string { return v.ext.ID }

func (v *ExtensionDetail) show(id string) {
	ext, err := v.store.LoadExtension(id)
	if err != nil {
		v.loaded = false
		v.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}
	v.ext = ext
	v.loaded = true
	v.viewport.SetContent(v.content())
	v.viewport.GotoTop()
}

func (v *ExtensionDetail) content() string {
	var sections []string

	if len(v.ext.MCPServers) > 0 {
		raw, err := json.MarshalIndent(v.ext.MCPServers, "", "  ")
		if err == nil {
			sections = append(sections, "MCP Servers:\n"+highlightJSON(string(raw)))
		}
	}

	if v.ext.ContextContent != "" {
		name := v.ext.ContextFileName
		if name == "" {
			name = "GEMINI.md"
		}
		width := v.width - 4
		sections = append(sections, name+":\n"+renderMarkdown(v.ext.ContextContent, width))
	}

	if len(sections) == 0 {
		return "This extension has no MCP servers or context file."
	}
	return strings.Join(sections, "\n\n")
}

func (v *ExtensionDetail) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case v.settings.Matches(msg, "up"):
		v.viewport.ScrollUp(1)
	case v.settings.Matches(msg, "down"):
		v.viewport.ScrollDown(1)
	case v.settings.Matches(msg, "edit"):
		if v.loaded {
			v.dispatch(action.EditExtension{ID: v.ext.ID})
		}
	case v.settings.Matches(msg, "delete"):
		if v.loaded {
			v.dispatch(action.DeleteExtension{ID: v.ext.ID})
		}
	case msg.String() == "y":
		if !v.loaded {
			return true, nil
		}
		if err := clipboard.WriteAll(v.ext.ID); err != nil {
			v.dispatch(action.Error{Message: "clipboard unavailable: " + err.Error()})
			return true, nil
		}
		v.dispatch(action.Success{Message: "Copied extension id"})
	default:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return false, cmd
	}
	return true, nil
}

func (v *ExtensionDetail) Apply(act action.Action) {
	switch a := act.(type) {
	case action.ViewExtensionDetails:
		v.show(a.ID)
	case action.RefreshExtensions:
		if v.loaded {
			v.show(v.ext.ID)
		}
	case action.Resize:
		v.width, v.height = a.Width, a.Height
		v.viewport.Width = a.Width - 2
		v.viewport.Height = a.Height - 9
		if v.loaded {
			v.viewport.SetContent(v.content())
		}
	}
}

func (v *ExtensionDetail) View(rc RenderContext) string {
	if !v.loaded {
		return rc.Theme.Muted.Render("No extension selected.")
	}

	title := rc.Theme.ViewTitle.Render(v.ext.DisplayName())
	if v.ext.Version != "" {
		title += " " + rc.Theme.Badge.Render("v"+v.ext.Version)
	}

	var meta []string
	if v.ext.Description != "" {
		meta = append(meta, rc.Theme.FieldValue.Render(v.ext.Description))
	}
	meta = append(meta, rc.Theme.Muted.Render("id: "+v.ext.ID))
	if v.ext.Metadata.SourcePath != "" {
		meta = append(meta, rc.Theme.Muted.Render("imported from "+v.ext.Metadata.SourcePath))
	}
	if !v.ext.Metadata.ImportedAt.IsZero() {
		meta = append(meta, rc.Theme.Muted.Render(
			fmt.Sprintf("imported %s", v.ext.Metadata.ImportedAt.Format("2006-01-02 15:04"))))
	}

	help := rc.Theme.HelpText.Render(v.settings.HelpText([]settings.HelpPair{
		{Action: "edit", Label: "edit"},
		{Action: "delete", Label: "delete"},
		{Action: "back", Label: "back"},
	}) + " | y: copy id")
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
