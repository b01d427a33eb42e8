package model

import "time"

// Extension is an imported Gemini CLI extension, originally described by a
// gemini-extension.json package file.
type Extension struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Version         string                     `json:"version"`
	Description     string                     `json:"description,omitempty"`
	MCPServers      map[string]MCPServerConfig `json:"mcp_servers"`
	ContextFileName string                     `json:"context_file_name,omitempty"`
	ContextContent  string                     `json:"context_content,omitempty"`
	Metadata        ExtensionMetadata          `json:"metadata"`
}

// MCPServerConfig describes one MCP (Model Context Protocol) server an
// extension exposes.
type MCPServerConfig struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Cwd     string            `json:"cwd,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Timeout int64             `json:"timeout,omitempty"`
	Trust   bool              `json:"trust,omitempty"`
}

type ExtensionMetadata struct {
	ImportedAt time.Time `json:"imported_at"`
	SourcePath string    `json:"source_path,omitempty"`
	Tags       []string  `json:"tags"`
}

func (e Extension) DisplayName() string {
	if e.Name == "" {
		return e.ID
	}
	return e.Name
}
