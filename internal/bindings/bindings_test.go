package bindings

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/gemman/internal/action"
)

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestFormatKey(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{"plain rune", keyRunes('q'), "q"},
		{"uppercase rune", keyRunes('Q'), "Q"},
		{"ctrl combo", tea.KeyMsg{Type: tea.KeyCtrlC}, "Ctrl+c"},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "Space"},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, "Esc"},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, "Enter"},
		{"arrow", tea.KeyMsg{Type: tea.KeyUp}, "Up"},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, "Alt+x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatKey(tc.msg); got != tc.want {
				t.Fatalf("FormatKey(%v) = %q, want %q", tc.msg, got, tc.want)
			}
		})
	}
}

func TestResolverSingleKey(t *testing.T) {
	r := NewResolver()
	r.Bind("q", "quit")

	act, ok := r.Resolve("q")
	if !ok || act != "quit" {
		t.Fatalf("Resolve(q) = %q, %v; want quit, true", act, ok)
	}
	if r.Pending() {
		t.Fatal("single key match should not buffer")
	}
}

func TestResolverSequence(t *testing.T) {
	r := NewResolver()
	r.Bind("g e", "go-extensions")

	if _, ok := r.Resolve("g"); ok {
		t.Fatal("prefix alone should not match")
	}
	if !r.Pending() {
		t.Fatal("prefix should be buffered")
	}
	act, ok := r.Resolve("e")
	if !ok || act != "go-extensions" {
		t.Fatalf("Resolve(e) after g = %q, %v; want go-extensions, true", act, ok)
	}
}

func TestResolverResetClearsSequence(t *testing.T) {
	r := NewResolver()
	r.Bind("g e", "go-extensions")

	r.Resolve("g")
	r.Reset()
	if _, ok := r.Resolve("e"); ok {
		t.Fatal("sequence should not survive a reset")
	}
}

func TestResolverStaleBufferBlocksMatch(t *testing.T) {
	r := NewResolver()
	r.Bind("g e", "go-extensions")

	r.Resolve("x")
	r.Resolve("g")
	if _, ok := r.Resolve("e"); ok {
		t.Fatal("buffer with stray prefix should not match g e")
	}
}

func TestDefaultAppKeymap(t *testing.T) {
	k := DefaultAppKeymap()

	act, ok := k.Resolve(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !ok {
		t.Fatal("Ctrl+c should resolve")
	}
	if _, isQuit := act.(action.Quit); !isQuit {
		t.Fatalf("Ctrl+c resolved to %T, want action.Quit", act)
	}

	if _, ok := k.Resolve(keyRunes('g')); ok {
		t.Fatal("g alone should not resolve")
	}
	act, ok = k.Resolve(keyRunes('p'))
	if !ok {
		t.Fatal("g p should resolve")
	}
	if _, isNav := act.(action.NavigateToProfiles); !isNav {
		t.Fatalf("g p resolved to %T, want action.NavigateToProfiles", act)
	}
}
