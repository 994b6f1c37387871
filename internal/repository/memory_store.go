package repository

import (
	"context"
	"maps"
	"sync"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

// MemoryStore keeps submissions for the life of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	subs []models.Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) ReadAll(ctx context.Context) ([]models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Submission, len(m.subs))
	for i, sub := range m.subs {
		out[i] = cloneSubmission(sub)
	}
	return out, nil
}

func (m *MemoryStore) Append(ctx context.Context, sub models.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, cloneSubmission(sub))
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// cloneSubmission copies the top-level data map so stored records are not
// shared with callers.
func cloneSubmission(sub models.Submission) models.Submission {
	sub.Data = maps.Clone(sub.Data)
	return sub
}
