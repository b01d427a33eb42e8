package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/unkn0wn-root/gemman/internal/errdef"
)

// UserSettings is the persisted settings document. The on-disk shape is
// stable: {"theme": "...", "keybindings": {"navigation": {...}, "actions": {...}}}.
type UserSettings struct {
	Theme       string           `json:"theme"`
	Keybindings KeybindingConfig `json:"keybindings"`
}

type KeybindingConfig struct {
	Navigation NavigationKeys `json:"navigation"`
	Actions    ActionKeys     `json:"actions"`
}

type NavigationKeys struct {
	Up    []string `json:"up"`
	Down  []string `json:"down"`
	Left  []string `json:"left"`
	Right []string `json:"right"`
	Back  []string `json:"back"`
	Quit  []string `json:"quit"`
}

type ActionKeys struct {
	Edit   []string `json:"edit"`
	Delete []string `json:"delete"`
	Create []string `json:"create"`
	Import []string `json:"import"`
	Launch []string `json:"launch"`
	Select []string `json:"select"`
	Search []string `json:"search"`
}

func DefaultSettings() UserSettings {
	return UserSettings{
		Theme:       "mocha",
		Keybindings: DefaultKeybindings(),
	}
}

func DefaultKeybindings() KeybindingConfig {
	return KeybindingConfig{
		Navigation: NavigationKeys{
			Up:    []string{"Up", "k"},
			Down:  []string{"Down", "j"},
			Left:  []string{"Left", "h"},
			Right: []string{"Right", "l"},
			Back:  []string{"Esc", "b"},
			Quit:  []string{"q", "Ctrl+c"},
		},
		Actions: ActionKeys{
			Edit:   []string{"e"},
			Delete: []string{"d"},
			Create: []string{"n"},
			Import: []string{"i"},
			Launch: []string{"l"},
			Select: []string{"Enter", "Space"},
			Search: []string{"/"},
		},
	}
}

// ChordsFor returns the chord strings bound to a logical action name.
// Unknown names resolve to nil, which callers treat as "unbound".
func (k KeybindingConfig) ChordsFor(action string) []string {
	switch action {
	case "up":
		return k.Navigation.Up
	case "down":
		return k.Navigation.Down
	case "left":
		return k.Navigation.Left
	case "right":
		return k.Navigation.Right
	case "back":
		return k.Navigation.Back
	case "quit":
		return k.Navigation.Quit
	case "edit":
		return k.Actions.Edit
	case "delete":
		return k.Actions.Delete
	case "create":
		return k.Actions.Create
	case "import":
		return k.Actions.Import
	case "launch":
		return k.Actions.Launch
	case "select":
		return k.Actions.Select
	case "search":
		return k.Actions.Search
	default:
		return nil
	}
}

// SetChords replaces the bindings for a logical action name.
func (k *KeybindingConfig) SetChords(action string, chords []string) error {
	switch action {
	case "up":
		k.Navigation.Up = chords
	case "down":
		k.Navigation.Down = chords
	case "left":
		k.Navigation.Left = chords
	case "right":
		k.Navigation.Right = chords
	case "back":
		k.Navigation.Back = chords
	case "quit":
		k.Navigation.Quit = chords
	case "edit":
		k.Actions.Edit = chords
	case "delete":
		k.Actions.Delete = chords
	case "create":
		k.Actions.Create = chords
	case "import":
		k.Actions.Import = chords
	case "launch":
		k.Actions.Launch = chords
	case "select":
		k.Actions.Select = chords
	case "search":
		k.Actions.Search = chords
	default:
		return errdef.New(errdef.CodeSettings, "unknown action %q", action)
	}
	return nil
}

// KnownActions lists every logical action name, navigation keys first.
func KnownActions() []string {
	return []string{
		"up", "down", "left", "right", "back", "quit",
		"edit", "delete", "create", "import", "launch", "select", "search",
	}
}

func SettingsPath() string {
	return filepath.Join(Dir(), "settings.json")
}

// LoadSettings reads settings.json from the config dir. A missing or
// unparsable file falls back to defaults so startup never hard-fails on
// a bad settings document.
func LoadSettings() (UserSettings, error) {
	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), errdef.Wrap(errdef.CodeSettings, err, "read settings")
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), errdef.Wrap(errdef.CodeParse, err, "parse settings")
	}
	return settings, nil
}

// SaveSettings rewrites the whole settings document atomically.
func SaveSettings(settings UserSettings) error {
	path := SettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "ensure settings directory")
	}

	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(settings); err != nil {
		return errdef.Wrap(errdef.CodeSettings, err, "encode settings")
	}

	if err := writeFileAtomic(path, buffer.Bytes(), 0o644); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write settings %q", path)
	}
	return nil
}

// write to temp file then rename so readers never see partial/corrupt data.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".gemman-settings-*.tmp")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		closeErr := tmp.Close()
		if closeErr != nil {
			return errors.Join(err, closeErr)
		}
		return err
	}

	if err := tmp.Chmod(perm); err != nil {
		closeErr := tmp.Close()
		if closeErr != nil {
			return errors.Join(err, closeErr)
		}
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
