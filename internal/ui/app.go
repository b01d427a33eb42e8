package ui

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/bindings"
	"github.com/unkn0wn-root/gemman/internal/config"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/history"
	"github.com/unkn0wn-root/gemman/internal/launcher"
	"github.com/unkn0wn-root/gemman/internal/model"
	"github.com/unkn0wn-root/gemman/internal/settings"
	"github.com/unkn0wn-root/gemman/internal/storage"
	"github.com/unkn0wn-root/gemman/internal/theme"
	"github.com/unkn0wn-root/gemman/internal/watcher"
)

const (
	// tickInterval drives chord expiry and overlay timeouts.
	tickInterval = 250 * time.Millisecond

	// maxActionsPerUpdate bounds the drain loop in case two handlers ever
	// feed each other actions forever.
	maxActionsPerUpdate = 512
)

type tickMsg time.Time

// launchFinishedMsg arrives when the gemini process handed to
// tea.ExecProcess has exited and the terminal is ours again.
type launchFinishedMsg struct {
	profile   model.Profile
	startedAt time.Time
	err       error
}

// App is the root bubbletea model. It normalizes every terminal event into
// an action, then drains the action queue until it is empty so follow-up
// actions dispatched by handlers run in the same update.
type App struct {
	store    *storage.Store
	settings *settings.Store
	launcher *launcher.Launcher
	history  *history.Store
	catalog  theme.Catalog
	keymap   *bindings.Keymap
	vm       *ViewManager
	watcher  *watcher.Watcher

	queue  []action.Action
	width  int
	height int
}

func NewApp(store *storage.Store, st *settings.Store, l *launcher.Launcher, launches *history.Store, catalog theme.Catalog) (*App, error) {
	app := &App{
		store:    store,
		settings: st,
		launcher: l,
		history:  launches,
		catalog:  catalog,
		keymap:   bindings.DefaultAppKeymap(),
		vm:       NewViewManager(store, st, launches, catalog),
	}
	app.vm.SetDispatcher(app.enqueue)
	if err := app.vm.Init(); err != nil {
		return nil, err
	}

	// Pick up records changed outside the TUI, e.g. by hand or a script.
	app.watcher = watcher.New(watcher.Options{Interval: time.Second})
	app.watcher.Watch(store.ExtensionsDir())
	app.watcher.Watch(store.ProfilesDir())

	return app, nil
}

// recordsChangedMsg reports an on-disk change under the data dir.
type recordsChangedMsg watcher.Event

func (a *App) waitForRecordChange() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.watcher.Events()
		if !ok {
			return nil
		}
		return recordsChangedMsg(ev)
	}
}

func (a *App) enqueue(act action.Action) {
	if act == nil {
		return
	}
	a.queue = append(a.queue, act)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) Init() tea.Cmd {
	a.watcher.Start()
	return tea.Batch(tickCmd(), a.waitForRecordChange())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.enqueue(action.Resize{Width: msg.Width, Height: msg.Height})

	case tickMsg:
		// Pending chord prefixes do not survive a tick.
		a.keymap.Reset()
		a.enqueue(action.Tick{})
		cmds = append(cmds, tickCmd())

	case tea.KeyMsg:
		if a.vm.WantsRawInput() {
			if cmd := a.vm.HandleKey(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		} else if act, ok := a.keymap.Resolve(msg); ok {
			a.enqueue(act)
		} else if cmd := a.vm.HandleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.ResumeMsg:
		a.enqueue(action.Resume{})

	case recordsChangedMsg:
		switch msg.Dir {
		case a.store.ExtensionsDir():
			a.enqueue(action.RefreshExtensions{})
		case a.store.ProfilesDir():
			a.enqueue(action.RefreshProfiles{})
		}
		cmds = append(cmds, a.waitForRecordChange())

	case launchFinishedMsg:
		a.launcher.CleanupAfterExit(msg.profile)
		a.recordLaunch(msg)
		a.enqueue(action.Render{})
		a.enqueue(action.RefreshProfiles{})
		if msg.err != nil {
			a.enqueue(action.Error{Message: "gemini exited with error: " + msg.err.Error()})
		} else {
			a.enqueue(action.Success{Message: "Gemini session ended"})
		}

	default:
		if cmd := a.vm.HandleMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	// Drain the queue until empty. Handlers enqueue follow-ups, which are
	// appended and processed after everything already queued, so dispatch
	// order is preserved.
	for processed := 0; len(a.queue) > 0 && processed < maxActionsPerUpdate; processed++ {
		act := a.queue[0]
		a.queue = a.queue[1:]
		if cmd := a.apply(act); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// apply runs one action through the view manager, then handles the app-level
// effects (quit, suspend, launching, settings persistence).
func (a *App) apply(act action.Action) tea.Cmd {
	a.vm.HandleAction(act)

	switch act := act.(type) {
	case action.Quit:
		if a.watcher != nil {
			a.watcher.Close()
		}
		return tea.Quit
	case action.Suspend:
		return tea.Suspend
	case action.Render, action.Resume, action.ClearScreen:
		// The terminal may hold output from a suspended shell or an
		// external process, so force a full repaint.
		return tea.ClearScreen

	case action.LaunchWithProfile:
		return a.launch(act.ID)

	case action.ChangeTheme:
		if _, ok := a.catalog.Get(act.Name); !ok {
			a.enqueue(action.Error{Message: "unknown theme " + act.Name})
			return nil
		}
		if err := a.settings.SetTheme(act.Name); err != nil {
			a.enqueue(action.Error{Message: errdef.Message(err)})
		}
	case action.UpdateKeybinding:
		if err := a.settings.UpdateBinding(act.Action, act.Chords); err != nil {
			a.enqueue(action.Error{Message: errdef.Message(err)})
			return nil
		}
		a.enqueue(action.Success{Message: "Rebound " + act.Action})
	case action.ResetKeybindings:
		if err := a.settings.ResetKeybindings(); err != nil {
			a.enqueue(action.Error{Message: errdef.Message(err)})
			return nil
		}
		a.enqueue(action.Success{Message: "Keybindings reset to defaults"})
	case action.SaveSettings:
		if err := config.SaveSettings(a.settings.Snapshot()); err != nil {
			a.enqueue(action.Error{Message: errdef.Message(err)})
		}
	}
	return nil
}

func (a *App) launch(profileID string) tea.Cmd {
	profile, err := a.store.LoadProfile(profileID)
	if err != nil {
		a.enqueue(action.Error{Message: errdef.Message(err)})
		return nil
	}

	cmd, err := a.launcher.Command(profile)
	if err != nil {
		a.enqueue(action.Error{Message: errdef.Message(err)})
		return nil
	}

	startedAt := time.Now()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return launchFinishedMsg{profile: profile, startedAt: startedAt, err: err}
	})
}

func (a *App) recordLaunch(msg launchFinishedMsg) {
	if a.history == nil {
		return
	}
	entry := history.NewEntry(
		msg.profile.ID,
		msg.profile.DisplayName(),
		a.launcher.WorkspacePath(msg.profile),
		msg.startedAt,
		time.Since(msg.startedAt),
		msg.err,
	)
	if err := a.history.Append(entry); err != nil {
		log.Printf("history: recording launch failed: %v", err)
	}
}

func (a *App) View() string {
	rc := RenderContext{
		Width:  a.width,
		Height: a.height,
		Theme:  a.catalog.Resolve(a.settings.Theme()),
	}
	return a.vm.View(rc)
}
