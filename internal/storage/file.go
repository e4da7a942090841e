// Package storage provides reference store implementations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

const (
	// DefaultFileName is the store file created inside the base directory.
	DefaultFileName = ".shopping_list.txt"
	// DefaultLockTimeout bounds how long an operation waits for the file lock.
	DefaultLockTimeout = 5 * time.Second

	lockRetryDelay = 10 * time.Millisecond
	filePerms      = 0o644
	dirPerms       = 0o755
)

// Compile-time interface check.
var _ domain.ReferenceStore = (*FileStore)(nil)

// Option configures a FileStore.
type Option func(*FileStore)

// WithFileName overrides the store file name inside the base directory.
func WithFileName(name string) Option {
	return func(s *FileStore) {
		s.fileName = name
	}
}

// WithLockTimeout sets how long an operation waits for the file lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *FileStore) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// FileStore keeps references in a tab-separated text file. Every call
// re-reads the whole file; mutations rewrite it atomically. Mutations are
// serialized in-process by a mutex and across processes by an advisory
// lock on "<file>.lock".
type FileStore struct {
	mu          sync.Mutex
	baseDir     string
	fileName    string
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
	log         *logger.Logger
}

// NewFileStore creates a store rooted at baseDir. Nothing touches the disk
// until the first write.
func NewFileStore(baseDir string, log *logger.Logger, opts ...Option) *FileStore {
	s := &FileStore{
		baseDir:     baseDir,
		fileName:    DefaultFileName,
		lockTimeout: DefaultLockTimeout,
		log:         log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.path = filepath.Join(baseDir, s.fileName)
	s.lock = flock.New(s.path + ".lock")
	return s
}

// Path returns the store file location.
func (s *FileStore) Path() string { return s.path }

// Load returns all stored references in insertion order. A missing file
// is an empty list.
func (s *FileStore) Load(ctx context.Context) ([]domain.ReferenceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("store %s absent, returning empty list", s.path)
		return []domain.ReferenceItem{}, nil
	}

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.read()
}

// Save overwrites the file with items, in order.
func (s *FileStore) Save(ctx context.Context, items []domain.ReferenceItem) error {
	return s.update(ctx, func([]domain.ReferenceItem) ([]domain.ReferenceItem, bool) {
		return items, true
	})
}

// Add appends item. The same path may be added any number of times.
func (s *FileStore) Add(ctx context.Context, item domain.ReferenceItem) error {
	return s.update(ctx, func(items []domain.ReferenceItem) ([]domain.ReferenceItem, bool) {
		return append(items, item), true
	})
}

// Remove drops the first item whose path equals path. No match is a no-op.
func (s *FileStore) Remove(ctx context.Context, path string) error {
	return s.update(ctx, func(items []domain.ReferenceItem) ([]domain.ReferenceItem, bool) {
		for i, item := range items {
			if item.Path == path {
				return append(items[:i], items[i+1:]...), true
			}
		}
		s.log.Debug("remove: no reference with path %q", path)
		return items, false
	})
}

// Clear empties the list.
func (s *FileStore) Clear(ctx context.Context) error {
	return s.update(ctx, func([]domain.ReferenceItem) ([]domain.ReferenceItem, bool) {
		return nil, true
	})
}

// update runs one read-modify-write cycle under both locks. mutate reports
// whether anything changed; unchanged lists are not written back.
func (s *FileStore) update(ctx context.Context, mutate func([]domain.ReferenceItem) ([]domain.ReferenceItem, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.baseDir, dirPerms); err != nil {
		return fmt.Errorf("%w: create %s: %w", domain.ErrStorage, s.baseDir, err)
	}

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	items, err := s.read()
	if err != nil {
		return err
	}

	next, changed := mutate(items)
	if !changed {
		return nil
	}
	return s.write(next)
}

func (s *FileStore) acquire(ctx context.Context, exclusive bool) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil || !ok {
		if err == nil {
			err = context.DeadlineExceeded
		}
		return nil, fmt.Errorf("%w: lock %s: %w", domain.ErrStorage, s.lock.Path(), err)
	}

	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warn("releasing lock %s: %v", s.lock.Path(), err)
		}
	}, nil
}

func (s *FileStore) read() ([]domain.ReferenceItem, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.ReferenceItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrStorage, s.path, err)
	}

	items := decode(string(content))
	if items == nil {
		items = []domain.ReferenceItem{}
	}
	s.log.Debug("loaded %d references from %s", len(items), s.path)
	return items, nil
}

func (s *FileStore) write(items []domain.ReferenceItem) error {
	if err := atomic.WriteFile(s.path, strings.NewReader(encode(items))); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrStorage, s.path, err)
	}
	// atomic.WriteFile leaves new files at 0600.
	if err := os.Chmod(s.path, filePerms); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", domain.ErrStorage, s.path, err)
	}
	s.log.Debug("saved %d references to %s", len(items), s.path)
	return nil
}
