package settings

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/gemman/internal/config"
)

func TestMatches(t *testing.T) {
	store := NewStore(config.DefaultSettings())

	edit := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}}
	if !store.Matches(edit, "edit") {
		t.Fatal("e should match edit")
	}
	if store.Matches(edit, "delete") {
		t.Fatal("e should not match delete")
	}

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	if !store.Matches(enter, "select") {
		t.Fatal("Enter should match select")
	}

	up := tea.KeyMsg{Type: tea.KeyUp}
	if !store.Matches(up, "up") {
		t.Fatal("Up should match up")
	}
	vimUp := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	if !store.Matches(vimUp, "up") {
		t.Fatal("k should match up")
	}
}

func TestUpdateBindingVisibleToReaders(t *testing.T) {
	t.Setenv("GEMMAN_CONFIG_DIR", t.TempDir())
	store := NewStore(config.DefaultSettings())

	if err := store.UpdateBinding("edit", []string{"E"}); err != nil {
		t.Fatalf("UpdateBinding: %v", err)
	}

	old := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}}
	if store.Matches(old, "edit") {
		t.Fatal("old binding should be gone")
	}
	now := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'E'}}
	if !store.Matches(now, "edit") {
		t.Fatal("new binding should match")
	}

	loaded, err := config.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	chords := loaded.Keybindings.ChordsFor("edit")
	if len(chords) != 1 || chords[0] != "E" {
		t.Fatalf("persisted edit chords = %v, want [E]", chords)
	}
}

func TestUpdateBindingUnknownAction(t *testing.T) {
	t.Setenv("GEMMAN_CONFIG_DIR", t.TempDir())
	store := NewStore(config.DefaultSettings())

	if err := store.UpdateBinding("warp", []string{"w"}); err == nil {
		t.Fatal("unknown action should error")
	}
}

func TestResetKeybindingsKeepsTheme(t *testing.T) {
	t.Setenv("GEMMAN_CONFIG_DIR", t.TempDir())

	settings := config.DefaultSettings()
	settings.Theme = "latte"
	store := NewStore(settings)

	if err := store.UpdateBinding("quit", []string{"Ctrl+q"}); err != nil {
		t.Fatalf("UpdateBinding: %v", err)
	}
	if err := store.ResetKeybindings(); err != nil {
		t.Fatalf("ResetKeybindings: %v", err)
	}

	snapshot := store.Snapshot()
	if snapshot.Theme != "latte" {
		t.Fatalf("theme = %q, want latte", snapshot.Theme)
	}
	chords := snapshot.Keybindings.ChordsFor("quit")
	if len(chords) != 2 || chords[0] != "q" {
		t.Fatalf("quit chords = %v, want defaults", chords)
	}
}

func TestHelpTextSkipsUnbound(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Keybindings.Actions.Launch = nil
	store := NewStore(settings)

	help := store.HelpText([]HelpPair{
		{Action: "edit", Label: "edit"},
		{Action: "launch", Label: "launch"},
		{Action: "delete", Label: "delete"},
	})
	if help != "e: edit | d: delete" {
		t.Fatalf("help = %q", help)
	}
}
