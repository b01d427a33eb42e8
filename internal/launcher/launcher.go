package launcher

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/model"
	"github.com/unkn0wn-root/gemman/internal/storage"
	"github.com/unkn0wn-root/gemman/internal/util"
)

const geminiBinary = "gemini"

// Launcher materializes a per-profile workspace and builds the command that
// runs the Gemini CLI inside it.
type Launcher struct {
	workspaceRoot string
	store         *storage.Store
}

func New(workspaceRoot string, store *storage.Store) *Launcher {
	return &Launcher{workspaceRoot: workspaceRoot, store: store}
}

// extensionManifest is the gemini-extension.json document the CLI reads.
// The CLI expects camelCase keys, unlike our record files.
type extensionManifest struct {
	Name       string                           `json:"name"`
	Version    string                           `json:"version"`
	MCPServers map[string]model.MCPServerConfig `json:"mcpServers"`
}

// Command prepares the workspace for the profile and returns the ready-to-run
// gemini command. The caller owns process lifecycle (the TUI hands it to
// tea.ExecProcess so the terminal is released first).
func (l *Launcher) Command(profile model.Profile) (*exec.Cmd, error) {
	if _, err := exec.LookPath(geminiBinary); err != nil {
		return nil, errdef.New(errdef.CodeLaunch,
			"Gemini CLI not found. Please ensure %q is installed and in your PATH", geminiBinary)
	}

	workspace, err := l.PrepareWorkspace(profile)
	if err != nil {
		return nil, err
	}

	workingDir, err := resolveWorkingDir(profile)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(geminiBinary)
	cmd.Dir = workingDir
	cmd.Env = environmentFor(profile, workspace)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// WorkspacePath is where the profile's workspace materializes on launch.
func (l *Launcher) WorkspacePath(profile model.Profile) string {
	return filepath.Join(l.workspaceRoot, profile.ID)
}

// PrepareWorkspace creates <root>/<profile-id>/.gemini/extensions and installs
// every extension the profile references.
func (l *Launcher) PrepareWorkspace(profile model.Profile) (string, error) {
	workspace := filepath.Join(l.workspaceRoot, profile.ID)
	extensionsDir := filepath.Join(workspace, ".gemini", "extensions")

	if profile.LaunchConfig.CleanLaunch {
		if err := cleanExtensions(extensionsDir, profile.LaunchConfig.PreserveExtensions); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(extensionsDir, 0o755); err != nil {
		return "", errdef.Wrap(errdef.CodeFilesystem, err, "create workspace")
	}

	for _, extID := range util.DedupeNonEmptyStrings(profile.ExtensionIDs) {
		ext, err := l.store.LoadExtension(extID)
		if err != nil {
			log.Printf("launcher: extension %q not found, skipping", extID)
			continue
		}
		if err := installExtension(ext, extensionsDir); err != nil {
			return "", err
		}
	}
	return workspace, nil
}

// CleanupAfterExit removes the installed extensions when the profile asks
// for it. Failures are non-fatal; the next launch overwrites the tree.
func (l *Launcher) CleanupAfterExit(profile model.Profile) {
	if !profile.LaunchConfig.CleanupOnExit {
		return
	}
	extensionsDir := filepath.Join(l.workspaceRoot, profile.ID, ".gemini", "extensions")
	if err := os.RemoveAll(extensionsDir); err != nil {
		log.Printf("launcher: cleanup of %s failed: %v", extensionsDir, err)
	}
}

func installExtension(ext model.Extension, extensionsDir string) error {
	extDir := filepath.Join(extensionsDir, ext.ID)
	if err := os.MkdirAll(extDir, 0o755); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "create extension dir %q", ext.ID)
	}

	manifest := extensionManifest{
		Name:       ext.Name,
		Version:    ext.Version,
		MCPServers: ext.MCPServers,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errdef.Wrap(errdef.CodeLaunch, err, "encode manifest for %q", ext.ID)
	}
	if err := os.WriteFile(filepath.Join(extDir, "gemini-extension.json"), data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write manifest for %q", ext.ID)
	}

	if ext.ContextFileName != "" && ext.ContextContent != "" {
		contextPath := filepath.Join(extDir, filepath.Base(ext.ContextFileName))
		if err := os.WriteFile(contextPath, []byte(ext.ContextContent), 0o644); err != nil {
			return errdef.Wrap(errdef.CodeFilesystem, err, "write context file for %q", ext.ID)
		}
	}
	return nil
}

func cleanExtensions(extensionsDir string, preserve []string) error {
	entries, err := os.ReadDir(extensionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errdef.Wrap(errdef.CodeFilesystem, err, "read extensions dir")
	}
	preserved := make(map[string]struct{}, len(preserve))
	for _, id := range preserve {
		preserved[id] = struct{}{}
	}
	for _, entry := range entries {
		if _, keep := preserved[entry.Name()]; keep {
			continue
		}
		if err := os.RemoveAll(filepath.Join(extensionsDir, entry.Name())); err != nil {
			return errdef.Wrap(errdef.CodeFilesystem, err, "remove extension %q", entry.Name())
		}
	}
	return nil
}

func resolveWorkingDir(profile model.Profile) (string, error) {
	dir := strings.TrimSpace(profile.WorkingDirectory)
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errdef.Wrap(errdef.CodeFilesystem, err, "resolve working dir")
		}
		return cwd, nil
	}
	dir = ExpandHome(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errdef.Wrap(errdef.CodeFilesystem, err, "create working dir %q", dir)
	}
	return dir, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

// environmentFor builds the child process environment: the parent env plus
// profile variables (values starting with $ expand against the parent env)
// and GEMINI_PROFILE for the CLI itself.
func environmentFor(profile model.Profile, workspace string) []string {
	env := os.Environ()

	overrides := make(map[string]string, len(profile.EnvironmentVariables)+2)
	for key, value := range profile.EnvironmentVariables {
		if strings.HasPrefix(value, "$") {
			if expanded, ok := os.LookupEnv(strings.TrimPrefix(value, "$")); ok {
				value = expanded
			}
		}
		overrides[key] = value
	}
	overrides["GEMINI_PROFILE"] = profile.ID
	overrides["GEMINI_WORKSPACE"] = workspace

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, key+"="+overrides[key])
	}
	return env
}

// WriteLaunchScript exports a standalone shell script reproducing the
// profile launch outside the TUI.
func WriteLaunchScript(profile model.Profile, path string) error {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "# Launch script for Gemini CLI profile: %s\n\n", profile.Name)
	fmt.Fprintf(&b, "export GEMINI_PROFILE=%q\n", profile.ID)

	keys := make([]string, 0, len(profile.EnvironmentVariables))
	for key := range profile.EnvironmentVariables {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "export %s=%q\n", key, profile.EnvironmentVariables[key])
	}

	if profile.WorkingDirectory != "" {
		fmt.Fprintf(&b, "cd %q\n", ExpandHome(profile.WorkingDirectory))
	}
	b.WriteString("\nexec gemini\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write launch script")
	}
	return nil
}
