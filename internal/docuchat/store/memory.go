package store

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-memory VectorStore using brute-force cosine
// similarity. It backs local development and tests where no Milvus
// instance is available.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]*Entry
	nextID  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]*Entry),
		nextID:  1,
	}
}

// EnsureCollection is a no-op for the in-memory store.
func (s *MemoryStore) EnsureCollection(_ context.Context) error {
	return nil
}

// Insert stores entries and returns their assigned IDs.
func (s *MemoryStore) Insert(_ context.Context, entries []*Entry) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, len(entries))
	for i, e := range entries {
		stored := *e
		stored.ID = s.nextID
		s.entries[stored.ID] = &stored
		ids[i] = stored.ID
		s.nextID++
	}
	return ids, nil
}

// Search returns the topK entries with the highest cosine similarity.
func (s *MemoryStore) Search(_ context.Context, embedding []float32, topK int) ([]*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*SearchResult, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, &SearchResult{
			ID:      e.ID,
			Source:  e.Source,
			Content: e.Content,
			Score:   cosineSimilarity(embedding, e.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Entries lists every stored entry.
func (s *MemoryStore) Entries(_ context.Context) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, &Entry{ID: e.ID, Source: e.Source})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// DeleteByIDs removes entries by ID. Unknown IDs are ignored.
func (s *MemoryStore) DeleteByIDs(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

// cosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector is zero or the lengths differ.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

var _ VectorStore = (*MemoryStore)(nil)
