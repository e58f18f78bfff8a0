// Package persist keeps the per-document "enabled" flag across sessions.
//
// The whole mapping lives in one JSON file inside a per-user data directory.
// Every Set rewrites the file through diskv's tempfile+fsync+rename path, so
// a failed write leaves the previous file intact.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

const (
	// DefaultFileName is the settings file inside the base path.
	DefaultFileName = "settings.json"

	tempDirName = ".tmp"
)

var (
	// ErrUnavailable reports that the settings file can not be used this
	// session. Changes are kept in memory only.
	ErrUnavailable = errors.New("persist: settings store unavailable")

	// ErrEmptyName is returned when saving a record without a document name.
	ErrEmptyName = errors.New("persist: document name required")
)

// UnavailableError carries the reason a store operation could not touch disk.
// It matches ErrUnavailable with errors.Is.
type UnavailableError struct {
	Op   string
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("persist: %s %s: store unavailable", e.Op, e.Path)
	}
	return fmt.Sprintf("persist: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// document is the on-disk shape of the settings file.
type document struct {
	Projects map[string]bool `json:"projects"`
}

// Store maps document names to their persisted active flag.
type Store struct {
	mu       sync.RWMutex
	d        *diskv.Diskv
	basePath string
	key      string
	projects map[string]bool
	working  bool
	reason   error
	log      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and write diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open loads the settings file described by cfg. It always returns a usable
// Store. When the base path can not be created the store is disabled: Get
// reports every name as absent, Set fails and AppWorking is false. The
// returned error explains why the store is disabled and is nil otherwise.
func Open(cfg Config, opts ...Option) (*Store, error) {
	s := &Store{
		projects: make(map[string]bool),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg == nil {
		return s, s.disable(&UnavailableError{Op: "open", Err: errors.New("no config")})
	}
	s.basePath = cfg.BasePath()
	s.key = cfg.FileName()

	if s.basePath == "" {
		return s, s.disable(&UnavailableError{Op: "open", Err: errors.New("base path unknown")})
	}
	if s.key == "" || strings.ContainsAny(s.key, `/\`) {
		return s, s.disable(&UnavailableError{Op: "open", Path: s.basePath, Err: fmt.Errorf("invalid file name %q", s.key)})
	}
	if err := os.MkdirAll(filepath.Join(s.basePath, tempDirName), 0o755); err != nil {
		return s, s.disable(&UnavailableError{Op: "create", Path: s.basePath, Err: err})
	}

	s.d = diskv.New(diskv.Options{
		BasePath:     s.basePath,
		TempDir:      filepath.Join(s.basePath, tempDirName),
		CacheSizeMax: 0, // reads always hit disk so external edits are seen
	})
	s.working = true

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return s, s.disableLocked(err)
	}
	return s, nil
}

// loadLocked parses the settings file. A missing or malformed file is
// replaced with an empty mapping.
func (s *Store) loadLocked() error {
	projects, err := s.readLocked()
	if err == nil {
		s.projects = projects
		return nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("settings file unreadable, starting empty", "path", s.Path(), "error", err)
	}
	if err := s.writeLocked(map[string]bool{}); err != nil {
		return err
	}
	s.projects = make(map[string]bool)
	return nil
}

func (s *Store) readLocked() (map[string]bool, error) {
	raw, err := s.d.Read(s.key)
	if err != nil {
		return nil, err
	}
	doc := document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("persist: parse %s: %w", s.key, err)
	}
	if doc.Projects == nil {
		doc.Projects = make(map[string]bool)
	}
	return doc.Projects, nil
}

func (s *Store) writeLocked(projects map[string]bool) error {
	data, err := json.MarshalIndent(document{Projects: projects}, "", "  ")
	if err != nil {
		return &UnavailableError{Op: "encode", Path: s.Path(), Err: err}
	}
	data = append(data, '\n')
	// Synced before the rename so a crash leaves either file, never a torn one.
	if err := s.d.WriteStream(s.key, bytes.NewReader(data), true); err != nil {
		return &UnavailableError{Op: "write", Path: s.Path(), Err: err}
	}
	return nil
}

func (s *Store) disable(reason error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disableLocked(reason)
}

func (s *Store) disableLocked(reason error) error {
	s.working = false
	s.reason = reason
	s.projects = make(map[string]bool)
	s.log.Error("settings will not be saved this session", "error", reason)
	return reason
}

// AppWorking reports whether the store can persist changes.
func (s *Store) AppWorking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working
}

// Err returns why the store is disabled, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

// Path is the full path of the settings file, empty when unknown.
func (s *Store) Path() string {
	if s.basePath == "" {
		return ""
	}
	return filepath.Join(s.basePath, s.key)
}

// Get returns the saved active flag for name. ok is false when name was
// never saved or the store is disabled.
func (s *Store) Get(name string) (active bool, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.working || blank(name) {
		return false, false
	}
	active, ok = s.projects[name]
	return active, ok
}

// Set writes the flag for name and flushes the whole mapping. It reports
// false instead of an error; use Save to learn why a write failed.
func (s *Store) Set(name string, active bool) bool {
	return s.Save(name, active) == nil
}

// Save is Set with the failure reason.
func (s *Store) Save(name string, active bool) error {
	if blank(name) {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.working {
		return &UnavailableError{Op: "save", Path: s.Path(), Err: s.reason}
	}

	next := make(map[string]bool, len(s.projects)+1)
	for k, v := range s.projects {
		next[k] = v
	}
	next[name] = active
	if err := s.writeLocked(next); err != nil {
		return err
	}
	s.projects = next
	return nil
}

// Forget drops the record for name. Forgetting an unknown name is not an error.
func (s *Store) Forget(name string) error {
	if blank(name) {
		return ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.working {
		return &UnavailableError{Op: "forget", Path: s.Path(), Err: s.reason}
	}
	if _, ok := s.projects[name]; !ok {
		return nil
	}

	next := make(map[string]bool, len(s.projects))
	for k, v := range s.projects {
		if k != name {
			next[k] = v
		}
	}
	if err := s.writeLocked(next); err != nil {
		return err
	}
	s.projects = next
	return nil
}

// Reload re-reads the settings file. The in-memory mapping is kept when the
// file can not be parsed.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.working {
		return &UnavailableError{Op: "reload", Path: s.Path(), Err: s.reason}
	}
	projects, err := s.readLocked()
	if err != nil {
		return fmt.Errorf("persist: reload: %w", err)
	}
	s.projects = projects
	return nil
}

func blank(name string) bool {
	return strings.TrimSpace(name) == ""
}

// Record is one persisted name/flag pair.
type Record struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Records lists every persisted record sorted by name.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Record, 0, len(s.projects))
	for name, active := range s.projects {
		list = append(list, Record{Name: name, Active: active})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
