package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/gemman/internal/errdef"
)

// Entry records one Gemini session launched through a profile.
type Entry struct {
	ID          string        `json:"id"`
	LaunchedAt  time.Time     `json:"launched_at"`
	ProfileID   string        `json:"profile_id"`
	ProfileName string        `json:"profile_name"`
	Workspace   string        `json:"workspace,omitempty"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

func NewEntry(profileID, profileName, workspace string, launchedAt time.Time, duration time.Duration, launchErr error) Entry {
	entry := Entry{
		ID:          uuid.NewString(),
		LaunchedAt:  launchedAt,
		ProfileID:   profileID,
		ProfileName: profileName,
		Workspace:   workspace,
		Duration:    duration,
	}
	if launchErr != nil {
		entry.Error = launchErr.Error()
	}
	return entry
}

// Store keeps a capped, newest-first launch log in one JSON file. Loading is
// lazy: constructing a store never touches disk, the first read or append
// does.
type Store struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	entries    []Entry
	loaded     bool
}

func NewStore(path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return &Store{path: path, maxEntries: maxEntries}
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoadedLocked()
}

func (s *Store) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(); err != nil {
		return err
	}

	s.entries = append([]Entry{entry}, s.entries...)
	s.sortEntriesLocked()
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	return s.persist()
}

func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(); err != nil {
		return nil
	}
	copies := make([]Entry, len(s.entries))
	copy(copies, s.entries)
	return copies
}

// ByProfile returns the launches of one profile, newest first.
func (s *Store) ByProfile(profileID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(); err != nil {
		return nil
	}
	var matched []Entry
	for _, entry := range s.entries {
		if entry.ProfileID == profileID {
			matched = append(matched, entry)
		}
	}
	return matched
}

// LastLaunch returns the most recent launch of a profile, if any.
func (s *Store) LastLaunch(profileID string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(); err != nil {
		return Entry{}, false
	}
	for _, entry := range s.entries {
		if entry.ProfileID == profileID {
			return entry, true
		}
	}
	return Entry{}, false
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "create history dir")
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "encode history")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write history tmp")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "replace history file")
	}
	return nil
}

func (s *Store) sortEntriesLocked() {
	if len(s.entries) < 2 {
		return
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		return newerFirst(s.entries[i], s.entries[j])
	})
}

func (s *Store) ensureLoadedLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.entries = []Entry{}
			s.loaded = true
			return nil
		}
		return errdef.Wrap(errdef.CodeFilesystem, err, "read history")
	}

	if len(data) == 0 {
		s.entries = []Entry{}
		s.loaded = true
		return nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return errdef.Wrap(errdef.CodeParse, err, "parse history")
	}

	s.sortEntriesLocked()
	s.loaded = true
	return nil
}

func newerFirst(a, b Entry) bool {
	ai := a.LaunchedAt
	bi := b.LaunchedAt
	switch {
	case ai.IsZero() && bi.IsZero():
		return a.ID > b.ID
	case ai.IsZero():
		return false
	case bi.IsZero():
		return true
	case ai.Equal(bi):
		return a.ID > b.ID
	default:
		return ai.After(bi)
	}
}
