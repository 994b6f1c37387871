package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

// SubmissionsFile is the file name used by the file store inside the data dir.
const SubmissionsFile = "submissions.json"

// ErrUnsupportedStore is returned by Open for an unknown DATABASE_URL scheme.
var ErrUnsupportedStore = errors.New("unsupported store")

// SubmissionStore owns the persisted, append-only collection of submissions.
type SubmissionStore interface {
	// ReadAll returns every submission in append order. A store that was
	// never written returns an empty slice.
	ReadAll(ctx context.Context) ([]models.Submission, error)
	// Append persists sub before returning. On error the previous content
	// is left intact.
	Append(ctx context.Context, sub models.Submission) error
	Close() error
}

// Open picks a store variant from databaseURL. An empty URL selects the
// JSON file store under dataDir.
func Open(ctx context.Context, databaseURL, dataDir string) (SubmissionStore, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return NewFileStore(filepath.Join(dataDir, SubmissionsFile))
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	switch u.Scheme {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(u.Host + u.Path)
	case "sqlite":
		return NewSQLiteStore(ctx, u.Host+u.Path)
	case "redis", "rediss":
		return NewRedisStoreFromURL(ctx, databaseURL, "")
	case "postgres", "postgresql":
		return NewGormStore(databaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, u.Scheme)
	}
}
