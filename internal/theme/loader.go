package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceUser    Source = "user"
)

type Definition struct {
	Key         string
	DisplayName string
	Palette     Palette
	Source      Source
	Path        string
}

// Catalog holds every known theme, builtins first, keyed for lookup.
type Catalog struct {
	order []Definition
	index map[string]int
}

func (c Catalog) All() []Definition {
	out := make([]Definition, len(c.order))
	copy(out, c.order)
	return out
}

func (c Catalog) Keys() []string {
	keys := make([]string, len(c.order))
	for i, def := range c.order {
		keys[i] = def.Key
	}
	return keys
}

func (c Catalog) Get(key string) (Definition, bool) {
	if c.index == nil {
		return Definition{}, false
	}
	idx, ok := c.index[key]
	if !ok {
		return Definition{}, false
	}
	return c.order[idx], true
}

// Resolve returns the theme for key, falling back to the default when the
// key is unknown (e.g. settings reference a deleted user theme).
func (c Catalog) Resolve(key string) Theme {
	if def, ok := c.Get(strings.TrimSpace(key)); ok {
		return FromPalette(def.Palette)
	}
	def, _ := c.Get(DefaultKey)
	return FromPalette(def.Palette)
}

func (c *Catalog) add(def Definition) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if idx, exists := c.index[def.Key]; exists {
		c.order[idx] = def
		return
	}
	c.index[def.Key] = len(c.order)
	c.order = append(c.order, def)
}

type themeFile struct {
	Name    string  `json:"name"    toml:"name"`
	Palette Palette `json:"palette" toml:"palette"`
}

// LoadCatalog builds the catalog from builtins plus user theme files
// (*.toml or *.json) found in dirs. Unreadable files are reported but do
// not prevent the rest of the catalog from loading.
func LoadCatalog(dirs []string) (Catalog, error) {
	var catalog Catalog

	builtinKeys := make([]string, 0, len(builtinPalettes()))
	for key := range builtinPalettes() {
		builtinKeys = append(builtinKeys, key)
	}
	sort.Strings(builtinKeys)
	for _, key := range builtinKeys {
		catalog.add(Definition{
			Key:         key,
			DisplayName: strings.ToUpper(key[:1]) + key[1:],
			Palette:     builtinPalettes()[key],
			Source:      SourceBuiltin,
		})
	}

	var combinedErr error
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			combinedErr = errors.Join(combinedErr, fmt.Errorf("themes: read directory %q: %w", dir, err))
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext != ".toml" && ext != ".json" {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			def, err := loadUserTheme(path, ext)
			if err != nil {
				combinedErr = errors.Join(combinedErr, err)
				continue
			}
			catalog.add(def)
		}
	}
	return catalog, combinedErr
}

func loadUserTheme(path, ext string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("themes: read %q: %w", path, err)
	}

	var file themeFile
	switch ext {
	case ".toml":
		err = toml.Unmarshal(data, &file)
	case ".json":
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return Definition{}, fmt.Errorf("themes: parse %q: %w", path, err)
	}

	key := strings.TrimSuffix(filepath.Base(path), ext)
	display := strings.TrimSpace(file.Name)
	if display == "" {
		display = key
	}
	return Definition{
		Key:         key,
		DisplayName: display,
		Palette:     file.Palette,
		Source:      SourceUser,
		Path:        path,
	}, nil
}
