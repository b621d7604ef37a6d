// Package file persists small state on the local disk, the server-side
// counterpart of the app's device storage.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// flagFile is the on-disk layout:
//
//	[flags]
//	onboarding_seen = true
type flagFile struct {
	Flags map[string]bool `toml:"flags"`
}

// FlagStore implements domain.FlagStore over one TOML file. Writes replace
// the file atomically.
type FlagStore struct {
	path string
	mu   sync.Mutex
}

// NewFlagStore returns a store at path. The file and its directory are
// created on first write.
func NewFlagStore(path string) *FlagStore {
	return &FlagStore{path: path}
}

// Path returns the backing file.
func (s *FlagStore) Path() string { return s.path }

func (s *FlagStore) Get(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flags, err := s.load()
	if err != nil {
		return false, err
	}
	return flags[key], nil
}

func (s *FlagStore) Set(_ context.Context, key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	flags, err := s.load()
	if err != nil {
		return err
	}
	if v, ok := flags[key]; ok && v == value {
		return nil
	}
	flags[key] = value
	return s.save(flags)
}

// Delete removes key. A missing key or file is not an error.
func (s *FlagStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	flags, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := flags[key]; !ok {
		return nil
	}
	delete(flags, key)
	return s.save(flags)
}

func (s *FlagStore) load() (map[string]bool, error) {
	var f flagFile
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]bool), nil
		}
		return nil, fmt.Errorf("file: read flags %s: %w: %w", s.path, domain.ErrStorageUnavailable, err)
	}
	if f.Flags == nil {
		f.Flags = make(map[string]bool)
	}
	return f.Flags, nil
}

func (s *FlagStore) save(flags map[string]bool) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file: create %s: %w: %w", dir, domain.ErrStorageUnavailable, err)
	}
	tmp, err := os.CreateTemp(dir, ".flags-*.toml")
	if err != nil {
		return fmt.Errorf("file: write flags: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(flagFile{Flags: flags}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file: encode flags: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: write flags: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("file: replace %s: %w: %w", s.path, domain.ErrStorageUnavailable, err)
	}
	return nil
}

var _ domain.FlagStore = (*FlagStore)(nil)
