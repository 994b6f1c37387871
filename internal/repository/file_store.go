package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

const (
	lockTimeout   = 3 * time.Second
	lockRetryStep = 50 * time.Millisecond
)

// FileStore keeps submissions as a JSON array in a single file. Every append
// rewrites the whole file through a temp file and rename.
type FileStore struct {
	path     string
	fileLock *flock.Flock
	mu       sync.Mutex
}

// NewFileStore creates the parent directory of path if needed. The file
// itself is created on the first append.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{
		path:     path,
		fileLock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the submissions file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) ReadAll(ctx context.Context) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.readLocked()
}

func (s *FileStore) Append(ctx context.Context, sub models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	subs, err := s.readLocked()
	if err != nil {
		return err
	}
	subs = append(subs, sub)
	return s.writeLocked(subs)
}

func (s *FileStore) Close() error {
	return s.fileLock.Close()
}

func (s *FileStore) lock(ctx context.Context, exclusive bool) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.fileLock.TryLockContext(ctx, lockRetryStep)
	} else {
		locked, err = s.fileLock.TryRLockContext(ctx, lockRetryStep)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire file lock: %w", err)
	}
	if !locked {
		return nil, errors.New("could not acquire file lock")
	}
	return func() { _ = s.fileLock.Unlock() }, nil
}

func (s *FileStore) readLocked() ([]models.Submission, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Submission{}, nil
	}
	var subs []models.Submission
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("parse submissions: %w", err)
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	return subs, nil
}

func (s *FileStore) writeLocked(subs []models.Submission) error {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal submissions: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace submissions file: %w", err)
	}
	return nil
}
