// Package store is the persistence collaborator for pipeline runs. A run is
// archived as a flat key-value document produced by models.Encode; decoding
// tolerates schema drift, so documents written by an older build still load.
package store

import (
	"context"
	"sync"
)

// Store archives run documents keyed by run ID.
type Store interface {
	Save(ctx context.Context, runID string, doc map[string]interface{}) error
	Load(ctx context.Context, runID string) (map[string]interface{}, bool, error)
	Delete(ctx context.Context, runID string) error
	Close() error
}

// Memory is the in-process implementation, used by tests and by deployments
// that run without redis. Documents are copied on the way in and out so
// callers cannot alias the stored state.
type Memory struct {
	mu   sync.RWMutex
	runs map[string]map[string]interface{}
}

func NewMemory() *Memory {
	return &Memory{runs: make(map[string]map[string]interface{})}
}

func (m *Memory) Save(_ context.Context, runID string, doc map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[runID] = copyDoc(doc)
	return nil
}

func (m *Memory) Load(_ context.Context, runID string) (map[string]interface{}, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.runs[runID]
	if !ok {
		return nil, false, nil
	}
	return copyDoc(doc), true, nil
}

func (m *Memory) Delete(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, runID)
	return nil
}

func (m *Memory) Close() error { return nil }

// copyDoc is a shallow copy; nested values are shared but the pipeline only
// writes whole documents, never mutates loaded ones in place.
func copyDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
