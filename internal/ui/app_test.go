package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/config"
	"github.com/unkn0wn-root/gemman/internal/history"
	"github.com/unkn0wn-root/gemman/internal/launcher"
	"github.com/unkn0wn-root/gemman/internal/settings"
	"github.com/unkn0wn-root/gemman/internal/storage"
	"github.com/unkn0wn-root/gemman/internal/theme"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("GEMMAN_CONFIG_DIR", t.TempDir())

	store := storage.NewStore(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("store init: %v", err)
	}

	catalog, err := theme.LoadCatalog(nil)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	launches := history.NewStore(filepath.Join(t.TempDir(), "launches.json"), 50)
	app, err := NewApp(store, settings.NewStore(config.DefaultSettings()),
		launcher.New(t.TempDir(), store), launches, catalog)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

func pressKey(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

func pressRune(app *App, r rune) tea.Cmd {
	return pressKey(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// containsQuit walks a possibly batched command looking for tea.Quit.
func containsQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, sub := range msg {
			if containsQuit(sub) {
				return true
			}
		}
	}
	return false
}

func TestNumberKeysSwitchTabs(t *testing.T) {
	app := newTestApp(t)

	pressRune(app, '2')
	if app.vm.Active() != ViewProfileList {
		t.Fatalf("active = %v, want profile list", app.vm.Active())
	}
	pressRune(app, '3')
	if app.vm.Active() != ViewSettings {
		t.Fatalf("active = %v, want settings", app.vm.Active())
	}
	pressRune(app, '1')
	if app.vm.Active() != ViewExtensionList {
		t.Fatalf("active = %v, want extension list", app.vm.Active())
	}
}

func TestTabKeyCyclesTabs(t *testing.T) {
	app := newTestApp(t)

	pressKey(app, tea.KeyMsg{Type: tea.KeyTab})
	if app.vm.Active() != ViewProfileList {
		t.Fatalf("active = %v, want profile list", app.vm.Active())
	}
	pressKey(app, tea.KeyMsg{Type: tea.KeyTab})
	if app.vm.Active() != ViewSettings {
		t.Fatalf("active = %v, want settings", app.vm.Active())
	}
	pressKey(app, tea.KeyMsg{Type: tea.KeyTab})
	if app.vm.Active() != ViewExtensionList {
		t.Fatalf("active = %v, want extension list", app.vm.Active())
	}
}

func TestChordNavigation(t *testing.T) {
	app := newTestApp(t)

	pressRune(app, 'g')
	if app.vm.Active() != ViewExtensionList {
		t.Fatal("g alone should not navigate")
	}
	pressRune(app, 'p')
	if app.vm.Active() != ViewProfileList {
		t.Fatalf("active = %v, want profile list after g p", app.vm.Active())
	}
}

func TestTickClearsPendingChord(t *testing.T) {
	app := newTestApp(t)

	pressRune(app, 'g')
	app.Update(tickMsg(time.Now()))
	pressRune(app, 'e')

	// The prefix died with the tick, so "e" was a plain key, not "g e".
	// On the extension list a plain "e" means edit, which with nothing
	// selected does nothing.
	if app.vm.Active() != ViewExtensionList {
		t.Fatalf("active = %v, want extension list", app.vm.Active())
	}
}

func TestQuitKey(t *testing.T) {
	app := newTestApp(t)

	if !containsQuit(pressRune(app, 'q')) {
		t.Fatal("q should produce tea.Quit")
	}

	app = newTestApp(t)
	if !containsQuit(pressKey(app, tea.KeyMsg{Type: tea.KeyCtrlC})) {
		t.Fatal("Ctrl+c should produce tea.Quit")
	}
}

func TestFormInputBypassesGlobalKeymap(t *testing.T) {
	app := newTestApp(t)

	pressRune(app, 'n')
	if app.vm.Active() != ViewExtensionCreate {
		t.Fatalf("active = %v, want create form", app.vm.Active())
	}

	// Keys that would switch tabs or quit elsewhere are just text here.
	pressRune(app, '2')
	pressRune(app, 'q')
	if app.vm.Active() != ViewExtensionCreate {
		t.Fatalf("active = %v, form should keep focus", app.vm.Active())
	}

	form := app.vm.components[ViewExtensionCreate].(*ExtensionForm)
	if form.name.Value() != "2q" {
		t.Fatalf("form name = %q, want the typed text", form.name.Value())
	}
}

func TestRebindQuitKey(t *testing.T) {
	app := newTestApp(t)

	app.enqueue(action.UpdateKeybinding{Action: "quit", Chords: []string{"Q"}})
	app.Update(tickMsg(time.Now()))

	if containsQuit(pressRune(app, 'q')) {
		t.Fatal("old quit binding should no longer apply")
	}
	if !containsQuit(pressRune(app, 'Q')) {
		t.Fatal("new quit binding should apply")
	}
}

func TestLaunchMissingProfileShowsError(t *testing.T) {
	app := newTestApp(t)

	app.enqueue(action.LaunchWithProfile{ID: "nope"})
	app.Update(tickMsg(time.Now()))

	if !app.vm.OverlayVisible() {
		t.Fatal("launching a missing profile should raise an error overlay")
	}
}
