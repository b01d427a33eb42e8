package launcher

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/unkn0wn-root/gemman/internal/model"
	"github.com/unkn0wn-root/gemman/internal/storage"
)

func testSetup(t *testing.T) (*Launcher, *storage.Store) {
	t.Helper()
	store := storage.NewStore(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("store init: %v", err)
	}
	return New(t.TempDir(), store), store
}

func TestPrepareWorkspaceInstallsExtensions(t *testing.T) {
	l, store := testSetup(t)

	ext := model.Extension{
		ID:      "github-tools",
		Name:    "GitHub Tools",
		Version: "2.1.0",
		MCPServers: map[string]model.MCPServerConfig{
			"github": {Command: "npx", Args: []string{"-y", "server-github"}},
		},
		ContextFileName: "GITHUB.md",
		ContextContent:  "# GitHub context\n",
		Metadata:        model.ExtensionMetadata{ImportedAt: time.Now().UTC()},
	}
	if err := store.SaveExtension(ext); err != nil {
		t.Fatalf("save extension: %v", err)
	}

	profile := model.Profile{
		ID:           "dev",
		Name:         "Dev",
		ExtensionIDs: []string{"github-tools"},
		LaunchConfig: model.DefaultLaunchConfig(),
	}

	workspace, err := l.PrepareWorkspace(profile)
	if err != nil {
		t.Fatalf("PrepareWorkspace failed: %v", err)
	}

	manifestPath := filepath.Join(workspace, ".gemini", "extensions", "github-tools", "gemini-extension.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	var manifest map[string]json.RawMessage
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("manifest not valid JSON: %v", err)
	}
	if _, ok := manifest["mcpServers"]; !ok {
		t.Fatalf("manifest missing camelCase mcpServers key: %s", data)
	}

	contextPath := filepath.Join(workspace, ".gemini", "extensions", "github-tools", "GITHUB.md")
	if _, err := os.Stat(contextPath); err != nil {
		t.Fatalf("context file not written: %v", err)
	}
}

func TestPrepareWorkspaceSkipsMissingExtensions(t *testing.T) {
	l, _ := testSetup(t)
	profile := model.Profile{ID: "p", ExtensionIDs: []string{"ghost"}}
	if _, err := l.PrepareWorkspace(profile); err != nil {
		t.Fatalf("missing extension should be skipped, got %v", err)
	}
}

func TestCleanLaunchRemovesStaleExtensions(t *testing.T) {
	l, store := testSetup(t)
	if err := store.SaveExtension(model.Extension{ID: "keep", Name: "Keep", Version: "1"}); err != nil {
		t.Fatalf("save extension: %v", err)
	}

	profile := model.Profile{
		ID:           "p",
		ExtensionIDs: []string{"keep"},
		LaunchConfig: model.LaunchConfig{CleanLaunch: true, PreserveExtensions: []string{"pinned"}},
	}

	extensionsDir := filepath.Join(l.workspaceRoot, "p", ".gemini", "extensions")
	for _, stale := range []string{"stale", "pinned"} {
		if err := os.MkdirAll(filepath.Join(extensionsDir, stale), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	if _, err := l.PrepareWorkspace(profile); err != nil {
		t.Fatalf("PrepareWorkspace failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(extensionsDir, "stale")); !os.IsNotExist(err) {
		t.Fatalf("stale extension should have been removed")
	}
	if _, err := os.Stat(filepath.Join(extensionsDir, "pinned")); err != nil {
		t.Fatalf("preserved extension should survive clean launch: %v", err)
	}
}

func TestEnvironmentForExpandsReferences(t *testing.T) {
	t.Setenv("HOST_TOKEN", "tok-123")
	profile := model.Profile{
		ID: "p",
		EnvironmentVariables: map[string]string{
			"API_TOKEN": "$HOST_TOKEN",
			"PLAIN":     "value",
		},
	}

	env := environmentFor(profile, "/tmp/ws")
	assertEnv(t, env, "API_TOKEN=tok-123")
	assertEnv(t, env, "PLAIN=value")
	assertEnv(t, env, "GEMINI_PROFILE=p")
}

func TestWriteLaunchScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launch.sh")
	profile := model.Profile{
		ID:                   "p",
		Name:                 "Dev",
		EnvironmentVariables: map[string]string{"KEY": "val"},
		WorkingDirectory:     "/tmp/project",
	}
	if err := WriteLaunchScript(profile, path); err != nil {
		t.Fatalf("WriteLaunchScript failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	script := string(data)
	for _, want := range []string{`export GEMINI_PROFILE="p"`, `export KEY="val"`, `cd "/tmp/project"`, "exec gemini"} {
		if !strings.Contains(script, want) {
			t.Fatalf("script missing %q:\n%s", want, script)
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat script: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Fatalf("script should be executable, mode %v", info.Mode())
	}
}

func assertEnv(t *testing.T, env []string, want string) {
	t.Helper()
	for _, entry := range env {
		if entry == want {
			return
		}
	}
	t.Fatalf("environment missing %q", want)
}
