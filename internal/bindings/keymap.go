package bindings

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/gemman/internal/action"
)

// Keymap resolves key events to application actions.
type Keymap struct {
	resolver *Resolver
	actions  map[string]action.Action
}

func NewKeymap() *Keymap {
	return &Keymap{
		resolver: NewResolver(),
		actions:  make(map[string]action.Action),
	}
}

func (k *Keymap) Bind(chord string, act action.Action) {
	if act == nil {
		return
	}
	k.resolver.Bind(chord, chord)
	k.actions[chord] = act
}

// Resolve matches a key event against the bound chords. The returned action
// is shared, so variants carrying per-event data should not be bound here.
func (k *Keymap) Resolve(msg tea.KeyMsg) (action.Action, bool) {
	chord, ok := k.resolver.Resolve(FormatKey(msg))
	if !ok {
		return nil, false
	}
	act, ok := k.actions[chord]
	return act, ok
}

func (k *Keymap) Reset() {
	k.resolver.Reset()
}

// DefaultAppKeymap binds the chords that work everywhere outside form
// input: hard quit, suspend, repaint, tab switching and the "g" prefixed
// navigation sequences. The remappable bindings live in user settings and
// are matched per view.
func DefaultAppKeymap() *Keymap {
	k := NewKeymap()
	k.Bind("Ctrl+c", action.Quit{})
	k.Bind("Ctrl+z", action.Suspend{})
	k.Bind("Ctrl+l", action.ClearScreen{})
	k.Bind("1", action.NavigateToExtensions{})
	k.Bind("2", action.NavigateToProfiles{})
	k.Bind("3", action.NavigateToSettings{})
	k.Bind("Tab", action.CycleTab{})
	k.Bind("g e", action.NavigateToExtensions{})
	k.Bind("g p", action.NavigateToProfiles{})
	k.Bind("g s", action.NavigateToSettings{})
	return k
}
