package launcher

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/model"
)

const manifestFileName = "gemini-extension.json"

// importManifest is extensionManifest plus the optional fields an extension
// package may carry alongside the server block.
type importManifest struct {
	Name            string                           `json:"name"`
	Version         string                           `json:"version"`
	Description     string                           `json:"description"`
	MCPServers      map[string]model.MCPServerConfig `json:"mcpServers"`
	ContextFileName string                           `json:"contextFileName"`
}

// ImportExtension reads a gemini-extension.json package from disk and turns
// it into a record ready to save. The path may point at the manifest itself
// or at the directory containing it.
func ImportExtension(path string) (model.Extension, error) {
	path = ExpandHome(path)

	info, err := os.Stat(path)
	if err != nil {
		return model.Extension{}, errdef.Wrap(errdef.CodeFilesystem, err, "stat %q", path)
	}

	manifestPath := path
	if info.IsDir() {
		manifestPath = filepath.Join(path, manifestFileName)
	}

	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return model.Extension{}, errdef.Wrap(errdef.CodeFilesystem, err, "read %q", manifestPath)
	}

	var manifest importManifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return model.Extension{}, errdef.Wrap(errdef.CodeParse, err, "parse %q", manifestPath)
	}
	if manifest.Name == "" {
		return model.Extension{}, errdef.New(errdef.CodeParse, "manifest %q has no name", manifestPath)
	}

	ext := model.Extension{
		ID:              uuid.NewString(),
		Name:            manifest.Name,
		Version:         manifest.Version,
		Description:     manifest.Description,
		MCPServers:      manifest.MCPServers,
		ContextFileName: manifest.ContextFileName,
		Metadata: model.ExtensionMetadata{
			ImportedAt: time.Now().UTC(),
			SourcePath: manifestPath,
		},
	}

	// Pick up the context document shipped next to the manifest, defaulting
	// to GEMINI.md when the manifest does not name one.
	contextName := manifest.ContextFileName
	if contextName == "" {
		contextName = "GEMINI.md"
	}
	contextPath := filepath.Join(filepath.Dir(manifestPath), contextName)
	if content, err := os.ReadFile(contextPath); err == nil {
		ext.ContextContent = string(content)
		if ext.ContextFileName == "" {
			ext.ContextFileName = contextName
		}
	}

	return ext, nil
}
