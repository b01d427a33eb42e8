package model

import (
	"fmt"
	"time"
)

// Profile bundles extensions with environment configuration for a launch.
type Profile struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Description          string            `json:"description,omitempty"`
	ExtensionIDs         []string          `json:"extension_ids"`
	EnvironmentVariables map[string]string `json:"environment_variables"`
	WorkingDirectory     string            `json:"working_directory,omitempty"`
	LaunchConfig         LaunchConfig      `json:"launch_config"`
	Metadata             ProfileMetadata   `json:"metadata"`
}

type LaunchConfig struct {
	// CleanLaunch removes previously installed extensions before launching.
	CleanLaunch bool `json:"clean_launch"`
	// CleanupOnExit removes the workspace extensions dir after gemini exits.
	CleanupOnExit bool `json:"cleanup_on_exit"`
	// PreserveExtensions are kept in place even during a clean launch.
	PreserveExtensions []string `json:"preserve_extensions"`
}

func DefaultLaunchConfig() LaunchConfig {
	return LaunchConfig{CleanupOnExit: true}
}

type ProfileMetadata struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tags      []string  `json:"tags"`
	IsDefault bool      `json:"is_default"`
	Icon      string    `json:"icon,omitempty"`
}

// NewProfileMetadata stamps creation and update times for a new profile.
func NewProfileMetadata() ProfileMetadata {
	now := time.Now().UTC()
	return ProfileMetadata{CreatedAt: now, UpdatedAt: now}
}

// Touch records that the profile was modified.
func (m *ProfileMetadata) Touch() {
	m.UpdatedAt = time.Now().UTC()
}

// DisplayName prefixes the profile name with its icon when one is set.
func (p Profile) DisplayName() string {
	if p.Metadata.Icon != "" {
		return p.Metadata.Icon + " " + p.Name
	}
	return p.Name
}

// Summary is a one-line description of what the profile bundles.
func (p Profile) Summary() string {
	return fmt.Sprintf("%d extension%s, %d env var%s",
		len(p.ExtensionIDs), plural(len(p.ExtensionIDs)),
		len(p.EnvironmentVariables), plural(len(p.EnvironmentVariables)))
}

func (p Profile) References(extensionID string) bool {
	for _, id := range p.ExtensionIDs {
		if id == extensionID {
			return true
		}
	}
	return false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
