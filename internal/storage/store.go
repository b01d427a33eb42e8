package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/model"
)

// ErrNotFound is returned when a record id has no file on disk.
var ErrNotFound = errors.New("record not found")

const (
	extensionsDir = "extensions"
	profilesDir   = "profiles"
)

// Store persists extensions and profiles as one JSON document per record
// under dataDir/extensions and dataDir/profiles.
type Store struct {
	dataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) DataDir() string { return s.dataDir }

// ExtensionsDir is where extension records live, for change watching.
func (s *Store) ExtensionsDir() string { return filepath.Join(s.dataDir, extensionsDir) }

// ProfilesDir is where profile records live, for change watching.
func (s *Store) ProfilesDir() string { return filepath.Join(s.dataDir, profilesDir) }

// Init creates the record directories.
func (s *Store) Init() error {
	for _, sub := range []string{extensionsDir, profilesDir} {
		if err := os.MkdirAll(filepath.Join(s.dataDir, sub), 0o755); err != nil {
			return errdef.Wrap(errdef.CodeFilesystem, err, "create %s dir", sub)
		}
	}
	return nil
}

func (s *Store) SaveExtension(ext model.Extension) error {
	if strings.TrimSpace(ext.ID) == "" {
		return errdef.New(errdef.CodeStorage, "extension id must not be empty")
	}
	return s.saveJSON(s.recordPath(extensionsDir, ext.ID), ext)
}

func (s *Store) LoadExtension(id string) (model.Extension, error) {
	var ext model.Extension
	if err := s.loadJSON(s.recordPath(extensionsDir, id), &ext); err != nil {
		return model.Extension{}, err
	}
	return ext, nil
}

// ListExtensions loads every readable extension record, sorted by file name.
// Corrupt records are skipped with a warning so one bad file cannot take
// down the whole list.
func (s *Store) ListExtensions() ([]model.Extension, error) {
	paths, err := s.recordPaths(extensionsDir)
	if err != nil {
		return nil, err
	}
	out := make([]model.Extension, 0, len(paths))
	for _, path := range paths {
		var ext model.Extension
		if err := s.loadJSON(path, &ext); err != nil {
			log.Printf("storage: skipping unreadable extension %s: %v", filepath.Base(path), err)
			continue
		}
		out = append(out, ext)
	}
	return out, nil
}

// DeleteExtension removes the record file. Deleting a missing id is a no-op.
func (s *Store) DeleteExtension(id string) error {
	return s.deleteRecord(s.recordPath(extensionsDir, id))
}

func (s *Store) SaveProfile(profile model.Profile) error {
	if strings.TrimSpace(profile.ID) == "" {
		return errdef.New(errdef.CodeStorage, "profile id must not be empty")
	}
	return s.saveJSON(s.recordPath(profilesDir, profile.ID), profile)
}

func (s *Store) LoadProfile(id string) (model.Profile, error) {
	var profile model.Profile
	if err := s.loadJSON(s.recordPath(profilesDir, id), &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

func (s *Store) ListProfiles() ([]model.Profile, error) {
	paths, err := s.recordPaths(profilesDir)
	if err != nil {
		return nil, err
	}
	out := make([]model.Profile, 0, len(paths))
	for _, path := range paths {
		var profile model.Profile
		if err := s.loadJSON(path, &profile); err != nil {
			log.Printf("storage: skipping unreadable profile %s: %v", filepath.Base(path), err)
			continue
		}
		out = append(out, profile)
	}
	return out, nil
}

func (s *Store) DeleteProfile(id string) error {
	return s.deleteRecord(s.recordPath(profilesDir, id))
}

// ReferencingProfiles returns every profile that includes the extension.
func (s *Store) ReferencingProfiles(extensionID string) ([]model.Profile, error) {
	profiles, err := s.ListProfiles()
	if err != nil {
		return nil, err
	}
	var matched []model.Profile
	for _, profile := range profiles {
		if profile.References(extensionID) {
			matched = append(matched, profile)
		}
	}
	return matched, nil
}

// DefaultProfile returns the profile flagged as default, if any.
func (s *Store) DefaultProfile() (model.Profile, bool, error) {
	profiles, err := s.ListProfiles()
	if err != nil {
		return model.Profile{}, false, err
	}
	for _, profile := range profiles {
		if profile.Metadata.IsDefault {
			return profile, true, nil
		}
	}
	return model.Profile{}, false, nil
}

// SetDefaultProfile marks one profile as default and clears the flag on
// every other profile.
func (s *Store) SetDefaultProfile(id string) error {
	profiles, err := s.ListProfiles()
	if err != nil {
		return err
	}
	for _, profile := range profiles {
		profile.Metadata.IsDefault = profile.ID == id
		if err := s.SaveProfile(profile); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) recordPath(subdir, id string) string {
	return filepath.Join(s.dataDir, subdir, id+".json")
}

func (s *Store) recordPaths(subdir string) ([]string, error) {
	dir := filepath.Join(s.dataDir, subdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "read %s dir", subdir)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Store) saveJSON(path string, record interface{}) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "encode record")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write record tmp")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "replace record file")
	}
	return nil
}

func (s *Store) loadJSON(path string, record interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return errdef.Wrap(errdef.CodeFilesystem, err, "read record")
	}
	if err := json.Unmarshal(data, record); err != nil {
		return errdef.Wrap(errdef.CodeParse, err, "parse record %q", filepath.Base(path))
	}
	return nil
}

func (s *Store) deleteRecord(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errdef.Wrap(errdef.CodeFilesystem, err, "delete record")
	}
	return nil
}
