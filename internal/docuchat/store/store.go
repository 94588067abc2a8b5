// Package store provides vector storage for document chunks.
package store

import (
	"context"
)

// Entry is one stored document chunk.
type Entry struct {
	// ID is the store-assigned entry ID.
	ID int64
	// Source is the file name the chunk came from.
	Source string
	// ChunkIndex is the position of the chunk within its document.
	ChunkIndex int64
	// Content is the chunk text.
	Content string
	// Embedding is the chunk's embedding vector.
	Embedding []float32
}

// SearchResult is one hit from a similarity search.
type SearchResult struct {
	// ID is the entry ID.
	ID int64
	// Source is the file name the chunk came from.
	Source string
	// Content is the chunk text.
	Content string
	// Score is the similarity score.
	Score float32
}

// VectorStore stores chunk embeddings and supports similarity search
// and removal by entry ID.
type VectorStore interface {
	// EnsureCollection creates the backing collection if it does not exist.
	EnsureCollection(ctx context.Context) error

	// Insert stores entries and returns their assigned IDs.
	Insert(ctx context.Context, entries []*Entry) ([]int64, error)

	// Search returns the topK entries most similar to embedding.
	Search(ctx context.Context, embedding []float32, topK int) ([]*SearchResult, error)

	// Entries lists the ID and source of every stored entry.
	Entries(ctx context.Context) ([]*Entry, error)

	// DeleteByIDs removes entries by ID.
	DeleteByIDs(ctx context.Context, ids []int64) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)

	// Close releases the store's resources.
	Close(ctx context.Context) error
}
