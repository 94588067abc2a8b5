package biz

import (
	"context"
	"path/filepath"

	"github.com/kart-io/docuchat/internal/docuchat/docstore"
	"github.com/kart-io/docuchat/internal/docuchat/metrics"
	"github.com/kart-io/docuchat/internal/docuchat/store"
	"github.com/kart-io/docuchat/pkg/errno"
	"github.com/kart-io/docuchat/pkg/log"
)

// Remover deletes a document's vectors and then its file. Vectors go
// first: a crash in between leaves a file that can be re-ingested,
// never orphaned vectors.
type Remover struct {
	docs    *docstore.Store
	vectors store.VectorStore
	metrics *metrics.Metrics
}

// NewRemover creates a Remover.
func NewRemover(docs *docstore.Store, vectors store.VectorStore) *Remover {
	return &Remover{
		docs:    docs,
		vectors: vectors,
		metrics: metrics.Get(),
	}
}

// Remove deletes all chunks whose source matches fileName and then the
// stored file. Both sides are normalized to their base name before
// comparing, so entries recorded under a full path still match while
// documents that merely share a name suffix do not. Removing an
// unknown document is a no-op. Returns the number of chunks removed.
func (r *Remover) Remove(ctx context.Context, fileName string) (int, error) {
	base := filepath.Base(fileName)

	entries, err := r.vectors.Entries(ctx)
	if err != nil {
		r.metrics.RecordRemoval(0, err)
		return 0, errno.ErrRemoval.WithCause(err)
	}

	var ids []int64
	for _, e := range entries {
		if filepath.Base(e.Source) == base {
			ids = append(ids, e.ID)
		}
	}

	if len(ids) == 0 {
		log.Infow("no entries matched for removal", "file", base)
		return 0, nil
	}

	if err := r.vectors.DeleteByIDs(ctx, ids); err != nil {
		r.metrics.RecordRemoval(0, err)
		return 0, errno.ErrRemoval.WithCause(err)
	}

	if err := r.docs.Remove(base); err != nil {
		r.metrics.RecordRemoval(0, err)
		return 0, errno.ErrRemoval.WithCause(err)
	}

	r.metrics.RecordRemoval(len(ids), nil)
	log.Infow("document removed", "file", base, "chunks", len(ids))
	return len(ids), nil
}
