// Package state persists the export bookkeeping snapshot between runs: which
// source files were seen at which content hash, which records inside them were
// exported where, and a global record-to-artifact index.
package state

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Version identifies the snapshot schema.
const Version = 1

// Entry tracks one exported record inside a FileState.
type Entry struct {
	Hash       string    `json:"hash"`
	OutputFile string    `json:"output_file"`
	ExportedAt time.Time `json:"exported_at"`
}

// FileState tracks one source file ever processed. Entries are keyed by
// composite record key. FileStates are created on first encounter and
// updated thereafter, never deleted.
type FileState struct {
	Hash    string           `json:"hash"`
	Entries map[string]Entry `json:"entries"`
}

// IndexEntry maps a composite record key to its locations.
type IndexEntry struct {
	SourceFile string `json:"source_file"`
	OutputFile string `json:"output_file"`
}

// State is the durable snapshot of prior export results.
type State struct {
	Version    int                   `json:"version"`
	LastExport time.Time             `json:"last_export"`
	LastRunID  string                `json:"last_run_id,omitempty"`
	Files      map[string]*FileState `json:"files"`
	Index      map[string]IndexEntry `json:"index"`
}

func empty() *State {
	return &State{
		Version: Version,
		Files:   make(map[string]*FileState),
		Index:   make(map[string]IndexEntry),
	}
}

// Store owns the persisted snapshot. The snapshot is loaded lazily on first
// access, mutated in memory through RecordExport, and written back exactly
// once per run via Save.
type Store struct {
	path  string
	state *State

	// Logf receives warnings about unreadable snapshots. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// NewStore creates a Store persisting to path. Nothing is read until the
// snapshot is first accessed.
func NewStore(path string) *Store {
	return &Store{path: path, Logf: log.Printf}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// State returns the in-memory snapshot, loading it on first call. An absent
// or unparsable snapshot file yields a fresh empty state with a warning; the
// caller never sees an error here.
func (s *Store) State() *State {
	if s.state != nil {
		return s.state
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.Logf("WARN: read state %s: %v (starting fresh)", s.path, err)
		}
		s.state = empty()
		return s.state
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		s.Logf("WARN: state %s is corrupt: %v (starting fresh)", s.path, err)
		s.state = empty()
		return s.state
	}
	if st.Files == nil {
		st.Files = make(map[string]*FileState)
	}
	if st.Index == nil {
		st.Index = make(map[string]IndexEntry)
	}
	st.Version = Version
	s.state = &st
	return s.state
}

// FileState returns the tracked state for a source file, or nil if the file
// has never been exported from.
func (s *Store) FileState(sourceFile string) *FileState {
	return s.State().Files[sourceFile]
}

// Entry returns the tracked entry for a composite key within a source file.
func (s *Store) Entry(sourceFile, key string) (Entry, bool) {
	fs := s.State().Files[sourceFile]
	if fs == nil {
		return Entry{}, false
	}
	e, ok := fs.Entries[key]
	return e, ok
}

// RecordExport upserts the FileState for sourceFile and updates the global
// index. Pure in-memory mutation; no I/O happens until Save.
func (s *Store) RecordExport(sourceFile, fileHash, key, entryHash, outputFile string) {
	st := s.State()
	fs := st.Files[sourceFile]
	if fs == nil {
		fs = &FileState{Entries: make(map[string]Entry)}
		st.Files[sourceFile] = fs
	}
	fs.Hash = fileHash
	fs.Entries[key] = Entry{
		Hash:       entryHash,
		OutputFile: outputFile,
		ExportedAt: time.Now().UTC(),
	}
	st.Index[key] = IndexEntry{SourceFile: sourceFile, OutputFile: outputFile}
}

// Save stamps the export timestamp and run id, then writes the snapshot to
// disk. A failed Save must not be swallowed: losing it silently would discard
// the whole run's bookkeeping.
func (s *Store) Save(runID string) error {
	st := s.State()
	st.LastExport = time.Now().UTC()
	st.LastRunID = runID

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
