package biz

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/kart-io/docuchat/internal/docuchat/metrics"
	"github.com/kart-io/docuchat/internal/docuchat/store"
	"github.com/kart-io/docuchat/pkg/errno"
	"github.com/kart-io/docuchat/pkg/llm"
	"github.com/kart-io/docuchat/pkg/log"
)

// Answer is the result of a question against the document index.
type Answer struct {
	// Result is the generated answer text.
	Result string `json:"result"`
	// Sources lists the documents the retrieved context came from,
	// in retrieval rank order without duplicates.
	Sources []string `json:"sources"`
}

// AnswererConfig configures an Answerer.
type AnswererConfig struct {
	// TopK is the number of chunks to retrieve per question.
	TopK int
	// PromptTemplate is the generation prompt; {{context}} and
	// {{question}} are substituted before the call.
	PromptTemplate string
}

// Answerer answers questions by retrieving similar chunks and asking a
// chat model. Each Answerer is bound to one chat model.
type Answerer struct {
	vectors store.VectorStore
	embed   llm.EmbeddingProvider
	chat    llm.ChatProvider
	config  *AnswererConfig
	metrics *metrics.Metrics
}

// NewAnswerer creates an Answerer.
func NewAnswerer(
	vectors store.VectorStore,
	embed llm.EmbeddingProvider,
	chat llm.ChatProvider,
	config *AnswererConfig,
) *Answerer {
	return &Answerer{
		vectors: vectors,
		embed:   embed,
		chat:    chat,
		config:  config,
		metrics: metrics.Get(),
	}
}

// Answer retrieves the chunks most similar to question and generates
// an answer from them. Returns ErrNoData when the index is empty.
func (a *Answerer) Answer(ctx context.Context, question string) (*Answer, error) {
	count, err := a.vectors.Count(ctx)
	if err != nil {
		return nil, errno.ErrGeneration.WithCause(err)
	}
	if count == 0 {
		return nil, errno.ErrNoData
	}

	embedding, err := a.embed.EmbedSingle(ctx, question)
	if err != nil {
		return nil, errno.ErrGeneration.WithCause(err)
	}

	searchStart := time.Now()
	results, err := a.vectors.Search(ctx, embedding, a.config.TopK)
	a.metrics.RecordRetrieval(time.Since(searchStart), err)
	if err != nil {
		return nil, errno.ErrGeneration.WithCause(err)
	}

	prompt := a.buildPrompt(question, results)

	genStart := time.Now()
	result, err := a.chat.Generate(ctx, prompt, "")
	a.metrics.RecordLLMCall(time.Since(genStart), err)
	if err != nil {
		return nil, errno.ErrGeneration.WithCause(err)
	}

	log.Infow("question answered", "chunks", len(results), "answer_length", len(result))
	return &Answer{
		Result:  result,
		Sources: sources(results),
	}, nil
}

// buildPrompt substitutes the retrieved context and the question into
// the prompt template.
func (a *Answerer) buildPrompt(question string, results []*store.SearchResult) string {
	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}
	docContext := strings.Join(contents, "\n\n")

	prompt := strings.ReplaceAll(a.config.PromptTemplate, "{{context}}", docContext)
	return strings.ReplaceAll(prompt, "{{question}}", question)
}

// sources returns the unique source file names of the results,
// preserving rank order.
func sources(results []*store.SearchResult) []string {
	seen := make(map[string]bool, len(results))
	names := make([]string, 0, len(results))
	for _, r := range results {
		name := filepath.Base(r.Source)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
