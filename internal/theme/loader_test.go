package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalogBuiltinsOnly(t *testing.T) {
	catalog, err := LoadCatalog(nil)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	for _, key := range []string{"mocha", "macchiato", "frappe", "latte"} {
		if _, ok := catalog.Get(key); !ok {
			t.Fatalf("builtin theme %q missing", key)
		}
	}
}

func TestLoadCatalogUserTOMLTheme(t *testing.T) {
	dir := t.TempDir()
	body := `
name = "Midnight"

[palette]
background = "#000000"
foreground = "#ffffff"
primary = "#00ffff"
`
	if err := os.WriteFile(filepath.Join(dir, "midnight.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write theme file: %v", err)
	}

	catalog, err := LoadCatalog([]string{dir})
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	def, ok := catalog.Get("midnight")
	if !ok {
		t.Fatalf("user theme not loaded")
	}
	if def.DisplayName != "Midnight" || def.Source != SourceUser {
		t.Fatalf("unexpected definition %+v", def)
	}
	if def.Palette.Primary != "#00ffff" {
		t.Fatalf("palette not parsed, got %q", def.Palette.Primary)
	}
}

func TestLoadCatalogReportsBadFileButKeepsRest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("= nope"), 0o644); err != nil {
		t.Fatalf("write theme file: %v", err)
	}

	catalog, err := LoadCatalog([]string{dir})
	if err == nil {
		t.Fatalf("expected parse error for broken theme")
	}
	if _, ok := catalog.Get("mocha"); !ok {
		t.Fatalf("builtins should survive a broken user theme")
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	catalog, err := LoadCatalog(nil)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	// Unknown keys resolve to the default palette rather than zero styles.
	th := catalog.Resolve("does-not-exist")
	def, _ := catalog.Get(DefaultKey)
	if th.Background != def.Palette.Background {
		t.Fatalf("expected default background, got %q", th.Background)
	}
}
