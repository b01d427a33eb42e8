package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/unkn0wn-root/gemman/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func testExtension(id string) model.Extension {
	return model.Extension{
		ID:      id,
		Name:    "Test " + id,
		Version: "1.0.0",
		MCPServers: map[string]model.MCPServerConfig{
			"github": {Command: "npx", Args: []string{"-y", "@modelcontextprotocol/server-github"}},
		},
		Metadata: model.ExtensionMetadata{ImportedAt: time.Now().UTC(), Tags: []string{"test"}},
	}
}

func testProfile(id string, extIDs ...string) model.Profile {
	return model.Profile{
		ID:                   id,
		Name:                 "Profile " + id,
		ExtensionIDs:         extIDs,
		EnvironmentVariables: map[string]string{"API_KEY": "secret"},
		LaunchConfig:         model.DefaultLaunchConfig(),
		Metadata: model.ProfileMetadata{
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
			Tags:      []string{},
		},
	}
}

func TestSaveAndLoadExtension(t *testing.T) {
	store := testStore(t)
	ext := testExtension("test-ext")
	if err := store.SaveExtension(ext); err != nil {
		t.Fatalf("SaveExtension failed: %v", err)
	}

	loaded, err := store.LoadExtension("test-ext")
	if err != nil {
		t.Fatalf("LoadExtension failed: %v", err)
	}
	if loaded.ID != ext.ID || loaded.Name != ext.Name {
		t.Fatalf("loaded extension mismatch: %+v", loaded)
	}
	if loaded.MCPServers["github"].Command != "npx" {
		t.Fatalf("mcp server config lost on round trip: %+v", loaded.MCPServers)
	}
}

func TestLoadExtensionNotFound(t *testing.T) {
	store := testStore(t)
	if _, err := store.LoadExtension("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListExtensionsSkipsCorruptFiles(t *testing.T) {
	store := testStore(t)
	if err := store.SaveExtension(testExtension("good")); err != nil {
		t.Fatalf("SaveExtension failed: %v", err)
	}
	corrupt := filepath.Join(store.DataDir(), "extensions", "bad.json")
	if err := os.WriteFile(corrupt, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	exts, err := store.ListExtensions()
	if err != nil {
		t.Fatalf("ListExtensions failed: %v", err)
	}
	if len(exts) != 1 || exts[0].ID != "good" {
		t.Fatalf("expected only the good extension, got %+v", exts)
	}
}

func TestDeleteExtensionIdempotent(t *testing.T) {
	store := testStore(t)
	if err := store.SaveExtension(testExtension("gone")); err != nil {
		t.Fatalf("SaveExtension failed: %v", err)
	}
	if err := store.DeleteExtension("gone"); err != nil {
		t.Fatalf("DeleteExtension failed: %v", err)
	}
	if err := store.DeleteExtension("gone"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
}

func TestReferencingProfiles(t *testing.T) {
	store := testStore(t)
	if err := store.SaveProfile(testProfile("p1", "ext-a")); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := store.SaveProfile(testProfile("p2", "ext-b")); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	refs, err := store.ReferencingProfiles("ext-a")
	if err != nil {
		t.Fatalf("ReferencingProfiles failed: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != "p1" {
		t.Fatalf("expected p1 to reference ext-a, got %+v", refs)
	}

	refs, err = store.ReferencingProfiles("ext-c")
	if err != nil {
		t.Fatalf("ReferencingProfiles failed: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no references, got %+v", refs)
	}
}

func TestDefaultProfile(t *testing.T) {
	store := testStore(t)
	if _, ok, err := store.DefaultProfile(); err != nil || ok {
		t.Fatalf("expected no default profile, got ok=%v err=%v", ok, err)
	}

	p1 := testProfile("p1")
	p1.Metadata.IsDefault = true
	if err := store.SaveProfile(p1); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := store.SaveProfile(testProfile("p2")); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	def, ok, err := store.DefaultProfile()
	if err != nil || !ok {
		t.Fatalf("expected default profile, got ok=%v err=%v", ok, err)
	}
	if def.ID != "p1" {
		t.Fatalf("expected p1 as default, got %q", def.ID)
	}

	if err := store.SetDefaultProfile("p2"); err != nil {
		t.Fatalf("SetDefaultProfile failed: %v", err)
	}
	def, ok, err = store.DefaultProfile()
	if err != nil || !ok || def.ID != "p2" {
		t.Fatalf("expected p2 as new default, got %+v ok=%v err=%v", def, ok, err)
	}
}

func TestSaveExtensionRequiresID(t *testing.T) {
	store := testStore(t)
	if err := store.SaveExtension(model.Extension{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}
