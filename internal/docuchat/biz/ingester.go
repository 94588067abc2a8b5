package biz

import (
	"context"
	"io"

	"github.com/kart-io/docuchat/internal/docuchat/docstore"
	"github.com/kart-io/docuchat/internal/docuchat/loader"
	"github.com/kart-io/docuchat/internal/docuchat/metrics"
	"github.com/kart-io/docuchat/internal/docuchat/splitter"
	"github.com/kart-io/docuchat/internal/docuchat/store"
	"github.com/kart-io/docuchat/pkg/errno"
	"github.com/kart-io/docuchat/pkg/llm"
	"github.com/kart-io/docuchat/pkg/log"
)

// Ingester runs the ingestion pipeline: save the raw document, extract
// its text, split it into chunks, embed them, and store the vectors.
type Ingester struct {
	docs    *docstore.Store
	loaders *loader.Registry
	split   *splitter.Splitter
	embed   llm.EmbeddingProvider
	vectors store.VectorStore
	metrics *metrics.Metrics
}

// NewIngester creates an Ingester.
func NewIngester(
	docs *docstore.Store,
	loaders *loader.Registry,
	split *splitter.Splitter,
	embed llm.EmbeddingProvider,
	vectors store.VectorStore,
) *Ingester {
	return &Ingester{
		docs:    docs,
		loaders: loaders,
		split:   split,
		embed:   embed,
		vectors: vectors,
		metrics: metrics.Get(),
	}
}

// Ingest stores the uploaded document and indexes its chunks. It
// returns the number of chunks indexed. If embedding or indexing fails
// after the file was written, the file is deleted again so the
// document list and the vector store stay consistent.
func (i *Ingester) Ingest(ctx context.Context, fileName string, content io.Reader) (int, error) {
	if !i.loaders.Supported(fileName) {
		i.metrics.RecordIngest(0, errno.ErrUnsupportedType)
		return 0, errno.ErrUnsupportedType.WithMessage(
			"unsupported file type %q, supported: %v", fileName, i.loaders.Extensions())
	}

	name, path, err := i.docs.Save(fileName, content)
	if err != nil {
		i.metrics.RecordIngest(0, err)
		return 0, errno.ErrStorageWrite.WithCause(err)
	}

	chunks, err := i.index(ctx, name, path)
	if err != nil {
		// Roll the file back so a failed ingest leaves no trace.
		if rmErr := i.docs.Remove(name); rmErr != nil {
			log.Errorw("failed to remove document after ingest failure",
				"file", name, "error", rmErr.Error())
		}
		i.metrics.RecordIngest(0, err)
		return 0, err
	}

	i.metrics.RecordIngest(chunks, nil)
	log.Infow("document ingested", "file", name, "chunks", chunks)
	return chunks, nil
}

// index extracts, splits, embeds, and stores the document's chunks.
func (i *Ingester) index(ctx context.Context, name, path string) (int, error) {
	text, err := i.loaders.Load(path)
	if err != nil {
		return 0, errno.ErrEmbedding.WithMessage("failed to extract text from %q", name).WithCause(err)
	}

	chunks := i.split.Split(text)
	if len(chunks) == 0 {
		// A document with no indexable text would be listed but never
		// retrievable; treat it as a failed ingest so the file is rolled
		// back.
		return 0, errno.ErrEmbedding.WithMessage("no extractable text in %q", name)
	}

	embeddings, err := i.embed.Embed(ctx, chunks)
	if err != nil {
		return 0, errno.ErrEmbedding.WithCause(err)
	}

	entries := make([]*store.Entry, len(chunks))
	for idx, chunk := range chunks {
		entries[idx] = &store.Entry{
			Source:     name,
			ChunkIndex: int64(idx),
			Content:    chunk,
			Embedding:  embeddings[idx],
		}
	}

	if _, err := i.vectors.Insert(ctx, entries); err != nil {
		return 0, errno.ErrEmbedding.WithCause(err)
	}

	return len(chunks), nil
}
