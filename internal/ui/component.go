package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/theme"
)

// Dispatcher queues an action for the app loop. Components never mutate
// shared state directly; they describe intent and let the loop apply it.
type Dispatcher func(act action.Action)

// RenderContext carries the terminal geometry and resolved theme into every
// draw call so no component reads styling from package state.
type RenderContext struct {
	Width  int
	Height int
	Theme  theme.Theme
}

// Component is a screen region owned by the view manager.
type Component interface {
	SetDispatcher(d Dispatcher)

	// Init loads whatever the component needs before first render.
	Init() error

	// HandleKey reacts to a key event, returning true when consumed plus
	// any command the embedded widgets need run.
	HandleKey(msg tea.KeyMsg) (bool, tea.Cmd)

	// Apply reacts to an action fanned out by the view manager.
	Apply(act action.Action)

	View(rc RenderContext) string
}

// rawInputter marks components that need raw key events, bypassing the
// global keymap, while they capture text or a new binding.
type rawInputter interface {
	CapturingInput() bool
}

// msgSink receives non-key runtime messages (filter results, viewport
// scroll, markdown render completions) destined for embedded widgets.
type msgSink interface {
	HandleMsg(msg tea.Msg) tea.Cmd
}
