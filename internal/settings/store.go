package settings

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/gemman/internal/bindings"
	"github.com/unkn0wn-root/gemman/internal/config"
	"github.com/unkn0wn-root/gemman/internal/util"
)

// Store holds the live user settings shared by every view. Reads happen on
// each key event and render, writes only from the settings screen, so a
// read/write mutex keeps the hot path cheap.
type Store struct {
	mu       sync.RWMutex
	settings config.UserSettings
}

func NewStore(settings config.UserSettings) *Store {
	return &Store{settings: settings}
}

// Load builds a store from the persisted settings document. The load error
// is returned alongside the store so callers can surface it while still
// running with defaults.
func Load() (*Store, error) {
	settings, err := config.LoadSettings()
	return NewStore(settings), err
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() config.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Theme
}

// ChordsFor returns the chords bound to a logical action name.
func (s *Store) ChordsFor(action string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Keybindings.ChordsFor(action)
}

// Matches reports whether the key event is bound to the named action.
func (s *Store) Matches(msg tea.KeyMsg, action string) bool {
	chord := bindings.FormatKey(msg)
	if chord == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, bound := range s.settings.Keybindings.ChordsFor(action) {
		if bound == chord {
			return true
		}
	}
	return false
}

// HelpPair names a logical action and the label shown for it in help lines.
type HelpPair struct {
	Action string
	Label  string
}

// HelpText renders a status-bar help line like "e: edit | d: delete".
// Actions with no bound chord are skipped rather than shown blank.
func (s *Store) HelpText(pairs []HelpPair) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		chords := s.settings.Keybindings.ChordsFor(pair.Action)
		if len(chords) == 0 {
			continue
		}
		parts = append(parts, chords[0]+": "+pair.Label)
	}
	return strings.Join(parts, " | ")
}

// SetTheme updates the active theme and persists the settings document.
func (s *Store) SetTheme(name string) error {
	s.mu.Lock()
	s.settings.Theme = name
	snapshot := s.settings
	s.mu.Unlock()

	return config.SaveSettings(snapshot)
}

// UpdateBinding replaces the chords for a logical action and persists.
func (s *Store) UpdateBinding(action string, chords []string) error {
	chords = util.DedupeNonEmptyStrings(chords)

	s.mu.Lock()
	if err := s.settings.Keybindings.SetChords(action, chords); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.settings
	s.mu.Unlock()

	return config.SaveSettings(snapshot)
}

// ResetKeybindings restores the default bindings, keeping the theme.
func (s *Store) ResetKeybindings() error {
	s.mu.Lock()
	s.settings.Keybindings = config.DefaultKeybindings()
	snapshot := s.settings
	s.mu.Unlock()

	return config.SaveSettings(snapshot)
}
