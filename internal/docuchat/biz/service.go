// Package biz implements the document QA business logic: ingestion,
// removal, retrieval-augmented answering, and model discovery.
package biz

import (
	"context"
	"io"

	"github.com/kart-io/docuchat/internal/docuchat/docstore"
	"github.com/kart-io/docuchat/internal/docuchat/metrics"
	"github.com/kart-io/docuchat/pkg/errno"
	"github.com/kart-io/docuchat/pkg/llm"
)

// Service is the document QA service surface exposed to handlers.
type Service interface {
	// Ingest uploads and indexes a document, returning the chunk count.
	Ingest(ctx context.Context, fileName string, content io.Reader) (int, error)

	// Remove deletes a document's vectors and file. Unknown documents
	// are a no-op.
	Remove(ctx context.Context, fileName string) (int, error)

	// Ask answers a question using the given chat model.
	Ask(ctx context.Context, model, question string) (*Answer, error)

	// AvailableModels lists chat models, excluding the embedding model.
	AvailableModels(ctx context.Context) ([]string, error)

	// UploadedFiles lists the stored document names.
	UploadedFiles(ctx context.Context) ([]string, error)

	// Stats returns service counters.
	Stats(ctx context.Context) map[string]any
}

// QAService wires the ingestion, removal, and answering pipelines
// together behind the Service interface.
type QAService struct {
	ingester    *Ingester
	remover     *Remover
	agents      *AgentCache
	answerCache *AnswerCache
	docs        *docstore.Store
	models      llm.ModelLister
	embedModel  string
	metrics     *metrics.Metrics
}

// NewQAService creates the service facade.
func NewQAService(
	ingester *Ingester,
	remover *Remover,
	agents *AgentCache,
	answerCache *AnswerCache,
	docs *docstore.Store,
	models llm.ModelLister,
	embedModel string,
) *QAService {
	return &QAService{
		ingester:    ingester,
		remover:     remover,
		agents:      agents,
		answerCache: answerCache,
		docs:        docs,
		models:      models,
		embedModel:  embedModel,
		metrics:     metrics.Get(),
	}
}

// Ingest uploads and indexes a document.
func (s *QAService) Ingest(ctx context.Context, fileName string, content io.Reader) (int, error) {
	return s.ingester.Ingest(ctx, fileName, content)
}

// Remove deletes a document's vectors and file.
func (s *QAService) Remove(ctx context.Context, fileName string) (int, error) {
	return s.remover.Remove(ctx, fileName)
}

// Ask answers a question with the pipeline cached for model, consulting
// the answer cache first.
func (s *QAService) Ask(ctx context.Context, model, question string) (*Answer, error) {
	if cached := s.answerCache.Get(ctx, model, question); cached != nil {
		s.metrics.RecordQuestion(true, nil)
		return cached, nil
	}

	answer, err := s.agents.Get(model).Answer(ctx, question)
	s.metrics.RecordQuestion(false, err)
	if err != nil {
		return nil, err
	}

	s.answerCache.Set(ctx, model, question, answer)
	return answer, nil
}

// AvailableModels lists the provider's models with the embedding model
// filtered out. An unreachable catalog maps to ErrNoModels; a reachable
// catalog that filters to nothing is an empty list, not an error.
func (s *QAService) AvailableModels(ctx context.Context) ([]string, error) {
	all, err := s.models.ListModels(ctx)
	if err != nil {
		return nil, errno.ErrNoModels.WithCause(err)
	}

	chat := make([]string, 0, len(all))
	for _, m := range all {
		if m == s.embedModel {
			continue
		}
		chat = append(chat, m)
	}
	return chat, nil
}

// UploadedFiles lists the stored document names.
func (s *QAService) UploadedFiles(_ context.Context) ([]string, error) {
	return s.docs.List()
}

// Stats returns service counters.
func (s *QAService) Stats(_ context.Context) map[string]any {
	return s.metrics.Stats()
}

var _ Service = (*QAService)(nil)
