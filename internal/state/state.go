// Package state persists the outcome of graph verification so repeated runs
// can skip files whose content has not changed.
package state

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/morozRed/gbgraph/internal/fileutil"
)

const (
	DefaultFile         = ".gbgraph-state.json"
	CurrentStateVersion = "1"
)

// FileState records the last successful verification of one file.
type FileState struct {
	Hash       string    `json:"hash"`
	ID         string    `json:"id,omitempty"`
	UtilTypes  string    `json:"util_types,omitempty"`
	Order      int       `json:"order"`
	Size       int       `json:"size"`
	VerifiedAt time.Time `json:"verified_at"`
}

// State tracks verified files keyed by path.
type State struct {
	Version   string               `json:"version"`
	UpdatedAt time.Time            `json:"updated_at"`
	Files     map[string]FileState `json:"files"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Version: CurrentStateVersion,
		Files:   make(map[string]FileState),
	}
}

// Load reads state from path. A missing file yields an empty state.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	migrateState(&state)

	return &state, nil
}

// Save writes state to path, leaving the file untouched when nothing changed.
func (s *State) Save(path string) error {
	if s.Version == "" {
		s.Version = CurrentStateVersion
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}

	s.UpdatedAt = time.Now().UTC()

	data, err := fileutil.MarshalJSON(s)
	if err != nil {
		return err
	}

	return fileutil.WriteIfChanged(path, data)
}

// Record stores a successful verification.
func (s *State) Record(file string, fs FileState) {
	if fs.VerifiedAt.IsZero() {
		fs.VerifiedAt = time.Now().UTC()
	}
	s.Files[file] = fs
}

// GetFileHash returns the stored hash for a file
func (s *State) GetFileHash(file string) (string, bool) {
	fs, ok := s.Files[file]
	if !ok {
		return "", false
	}
	return fs.Hash, true
}

// HasChanged returns true if the file hash differs from stored
func (s *State) HasChanged(file, currentHash string) bool {
	storedHash, ok := s.GetFileHash(file)
	if !ok {
		return true // New file
	}
	return storedHash != currentHash
}

// RemoveFile removes a file from state tracking
func (s *State) RemoveFile(file string) {
	delete(s.Files, file)
}

// ChangedFiles returns, sorted, the files whose hash is new or differs.
func (s *State) ChangedFiles(currentHashes map[string]string) []string {
	changed := make([]string, 0)
	for file, hash := range currentHashes {
		if s.HasChanged(file, hash) {
			changed = append(changed, file)
		}
	}
	sort.Strings(changed)
	return changed
}

// DeletedFiles returns, sorted, the tracked files missing from currentFiles.
func (s *State) DeletedFiles(currentFiles map[string]bool) []string {
	deleted := make([]string, 0)
	for file := range s.Files {
		if !currentFiles[file] {
			deleted = append(deleted, file)
		}
	}
	sort.Strings(deleted)
	return deleted
}

func migrateState(s *State) {
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}

	switch s.Version {
	case "":
		s.Version = CurrentStateVersion
	case CurrentStateVersion:
		// no-op
	default:
		// Keep unknown versions untouched but ensure required maps are initialized.
	}
}
