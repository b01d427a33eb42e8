package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDirName = "gemman"

// Dir returns the configuration directory. GEMMAN_CONFIG_DIR overrides the
// platform default so tests and portable setups can redirect everything.
func Dir() string {
	if custom := strings.TrimSpace(os.Getenv("GEMMAN_CONFIG_DIR")); custom != "" {
		return custom
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(base, appDirName)
}

// DataDir returns the directory holding extension and profile records.
// GEMMAN_DATA_DIR overrides it; otherwise records live under the config dir.
func DataDir() string {
	if custom := strings.TrimSpace(os.Getenv("GEMMAN_DATA_DIR")); custom != "" {
		return custom
	}
	return filepath.Join(Dir(), "data")
}

// ThemeDirs returns the directories scanned for user theme files.
func ThemeDirs() []string {
	return []string{filepath.Join(Dir(), "themes")}
}

// HistoryPath returns the file holding the launch log.
func HistoryPath() string {
	return filepath.Join(Dir(), "launches.json")
}

// WorkspaceRoot returns the root under which per-profile launch workspaces
// are materialized. GEMMAN_WORKSPACE_DIR overrides the home default.
func WorkspaceRoot() string {
	if custom := strings.TrimSpace(os.Getenv("GEMMAN_WORKSPACE_DIR")); custom != "" {
		return custom
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gemini-workspace"
	}
	return filepath.Join(home, ".gemini-workspace")
}
