// Package fsstore implements the storage port on a filesystem via
// afero, so production runs on the OS filesystem and tests on an
// in-memory one.
package fsstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
	"github.com/spf13/afero"
)

// Store keeps every key as a file under root. Keys are joined with
// path semantics; the caller never supplies absolute paths.
type Store struct {
	fs   afero.Fs
	root string
}

var _ portsrepo.Storage = (*Store)(nil)

// New returns a store rooted at dir on the given filesystem.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, root: dir}
}

// NewOS returns a store on the OS filesystem rooted at dir.
func NewOS(dir string) *Store {
	return New(afero.NewOsFs(), dir)
}

func (s *Store) resolve(key string) string {
	return path.Join(s.root, key)
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := afero.Exists(s.fs, s.resolve(key))
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return ok, nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	content, err := afero.ReadFile(s.fs, s.resolve(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("key %s: %w", key, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return content, nil
}

func (s *Store) Write(ctx context.Context, key string, content []byte) error {
	full := s.resolve(key)
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", key, err)
	}
	if err := afero.WriteFile(s.fs, full, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	dir := s.resolve(prefix)
	if strings.HasSuffix(prefix, "/") {
		dir = s.resolve(strings.TrimSuffix(prefix, "/"))
	}
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	var keys []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		keys = append(keys, path.Join(strings.TrimSuffix(prefix, "/"), info.Name()))
	}
	sort.Strings(keys)
	return keys, nil
}
