package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	milvusopts "github.com/kart-io/docuchat/pkg/options/milvus"
)

// MilvusStore implements VectorStore on a Milvus collection.
//
// Schema: auto-ID int64 primary key, float vector "embedding", plus
// "source", "chunk_index", and "content" metadata fields.
type MilvusStore struct {
	client     *milvusclient.Client
	collection string
	dimension  int
}

// NewMilvusStore connects to Milvus and returns a store bound to the
// named collection.
func NewMilvusStore(opts *milvusopts.Options, collection string, dimension int) (*MilvusStore, error) {
	if opts == nil {
		return nil, fmt.Errorf("milvus options is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DBName:   opts.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	return &MilvusStore{
		client:     c,
		collection: collection,
		dimension:  dimension,
	}, nil
}

// EnsureCollection creates the collection, its vector index, and loads
// it into memory. It is a no-op if the collection already exists.
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	schema := entity.NewSchema().
		WithName(s.collection).
		WithDescription("document chunks with embeddings").
		WithAutoID(true)

	schema.WithField(
		entity.NewField().
			WithName("id").
			WithDataType(entity.FieldTypeInt64).
			WithIsPrimaryKey(true).
			WithIsAutoID(true),
	)
	schema.WithField(
		entity.NewField().
			WithName("embedding").
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(s.dimension)),
	)
	schema.WithField(
		entity.NewField().
			WithName("source").
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(512),
	)
	schema.WithField(
		entity.NewField().
			WithName("chunk_index").
			WithDataType(entity.FieldTypeInt64),
	)
	schema.WithField(
		entity.NewField().
			WithName("content").
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(65535),
	)

	if err := s.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(s.collection, schema)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	idx := index.NewIvfFlatIndex(entity.COSINE, 128)
	createIdxTask, err := s.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(s.collection, "embedding", idx))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := createIdxTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for index creation: %w", err)
	}

	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	return nil
}

// Insert stores entries and flushes so they are immediately visible.
func (s *MilvusStore) Insert(ctx context.Context, entries []*Entry) ([]int64, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(entries))
	sources := make([]string, len(entries))
	chunkIndexes := make([]int64, len(entries))
	contents := make([]string, len(entries))
	for i, e := range entries {
		embeddings[i] = e.Embedding
		sources[i] = e.Source
		chunkIndexes[i] = e.ChunkIndex
		contents[i] = e.Content
	}

	result, err := s.client.Insert(ctx, milvusclient.NewColumnBasedInsertOption(s.collection,
		column.NewColumnFloatVector("embedding", s.dimension, embeddings),
		column.NewColumnVarChar("source", sources),
		column.NewColumnInt64("chunk_index", chunkIndexes),
		column.NewColumnVarChar("content", contents),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert data: %w", err)
	}

	// Flush so freshly ingested chunks are searchable right away.
	flushTask, err := s.client.Flush(ctx, milvusclient.NewFlushOption(s.collection))
	if err != nil {
		return nil, fmt.Errorf("failed to flush collection: %w", err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for flush: %w", err)
	}

	idCol, ok := result.IDs.(*column.ColumnInt64)
	if !ok {
		return nil, fmt.Errorf("unexpected ID column type %T", result.IDs)
	}
	return idCol.Data(), nil
}

// Search performs a vector similarity search.
func (s *MilvusStore) Search(ctx context.Context, embedding []float32, topK int) ([]*SearchResult, error) {
	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(s.collection))
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	results, err := s.client.Search(ctx, milvusclient.NewSearchOption(
		s.collection,
		topK,
		[]entity.Vector{entity.FloatVector(embedding)},
	).WithANNSField("embedding").
		WithSearchParam("nprobe", "16").
		WithOutputFields("source", "content"))
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(results) == 0 {
		return []*SearchResult{}, nil
	}

	searchResults := make([]*SearchResult, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		r := &SearchResult{Score: results[0].Scores[i]}

		if idCol, ok := results[0].IDs.(*column.ColumnInt64); ok {
			r.ID = idCol.Data()[i]
		}
		for _, field := range results[0].Fields {
			if col, ok := field.(*column.ColumnVarChar); ok {
				switch col.Name() {
				case "source":
					r.Source = col.Data()[i]
				case "content":
					r.Content = col.Data()[i]
				}
			}
		}

		searchResults = append(searchResults, r)
	}

	return searchResults, nil
}

// Entries lists ID and source for every stored entry.
func (s *MilvusStore) Entries(ctx context.Context) ([]*Entry, error) {
	resultSet, err := s.client.Query(ctx, milvusclient.NewQueryOption(s.collection).
		WithFilter("id >= 0").
		WithOutputFields("id", "source"))
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}

	idCol, ok := resultSet.GetColumn("id").(*column.ColumnInt64)
	if !ok {
		return nil, fmt.Errorf("missing id column in query result")
	}
	sourceCol, ok := resultSet.GetColumn("source").(*column.ColumnVarChar)
	if !ok {
		return nil, fmt.Errorf("missing source column in query result")
	}

	ids := idCol.Data()
	sources := sourceCol.Data()
	entries := make([]*Entry, len(ids))
	for i := range ids {
		entries[i] = &Entry{ID: ids[i], Source: sources[i]}
	}
	return entries, nil
}

// DeleteByIDs removes entries by ID.
func (s *MilvusStore) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.client.Delete(ctx, milvusclient.NewDeleteOption(s.collection).WithInt64IDs("id", ids)); err != nil {
		return fmt.Errorf("failed to delete by ids: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *MilvusStore) Count(ctx context.Context) (int64, error) {
	stats, err := s.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(s.collection))
	if err != nil {
		return 0, fmt.Errorf("failed to get collection stats: %w", err)
	}

	if val, ok := stats["row_count"]; ok {
		return strconv.ParseInt(val, 10, 64)
	}
	return 0, nil
}

// Close closes the Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

var _ VectorStore = (*MilvusStore)(nil)
