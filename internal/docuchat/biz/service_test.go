package biz_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docuchat/internal/docuchat/biz"
	"github.com/kart-io/docuchat/internal/docuchat/docstore"
	"github.com/kart-io/docuchat/internal/docuchat/loader"
	"github.com/kart-io/docuchat/internal/docuchat/splitter"
	"github.com/kart-io/docuchat/internal/docuchat/store"
	"github.com/kart-io/docuchat/pkg/errno"
	"github.com/kart-io/docuchat/pkg/llm"
)

// vocab spans the test corpus; fakeEmbedder counts occurrences per
// word so texts sharing words score high on cosine similarity.
var vocab = []string{"sky", "blue", "grass", "green", "sun", "bright", "color", "what"}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embedText(t)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := f.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (f *fakeEmbedder) Name() string { return "fake" }

func embedText(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(vocab))
	for i, w := range vocab {
		v[i] = float32(strings.Count(lower, w))
	}
	return v
}

type fakeChat struct {
	answer     string
	err        error
	lastPrompt string
}

func (f *fakeChat) Chat(_ context.Context, _ []llm.Message) (string, error) {
	return f.answer, f.err
}

func (f *fakeChat) Generate(_ context.Context, prompt, _ string) (string, error) {
	f.lastPrompt = prompt
	return f.answer, f.err
}

func (f *fakeChat) Name() string { return "fake" }

type fakeModelLister struct {
	models []string
	err    error
}

func (f *fakeModelLister) ListModels(_ context.Context) ([]string, error) {
	return f.models, f.err
}

const promptTemplate = "Context:\n{{context}}\n\nQuestion: {{question}}"

type fixture struct {
	service *biz.QAService
	docs    *docstore.Store
	vectors *store.MemoryStore
	chat    *fakeChat
	embed   *fakeEmbedder
}

func newFixture(t *testing.T, models *fakeModelLister) *fixture {
	t.Helper()

	docs, err := docstore.New(t.TempDir())
	require.NoError(t, err)

	vectors := store.NewMemoryStore()
	embed := &fakeEmbedder{}
	chat := &fakeChat{answer: "generated answer"}

	split, err := splitter.New(512, 100)
	require.NoError(t, err)

	ingester := biz.NewIngester(docs, loader.NewRegistry(), split, embed, vectors)
	remover := biz.NewRemover(docs, vectors)
	agents := biz.NewAgentCache(func(model string) *biz.Answerer {
		return biz.NewAnswerer(vectors, embed, chat, &biz.AnswererConfig{
			TopK:           10,
			PromptTemplate: promptTemplate,
		})
	}, 0)
	answerCache := biz.NewAnswerCache(nil, nil)

	if models == nil {
		models = &fakeModelLister{models: []string{"llama3"}}
	}

	return &fixture{
		service: biz.NewQAService(ingester, remover, agents, answerCache, docs, models, "mxbai-embed-large:latest"),
		docs:    docs,
		vectors: vectors,
		chat:    chat,
		embed:   embed,
	}
}

func TestIngestUnsupportedType(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.Ingest(ctx, "malware.exe", strings.NewReader("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.ErrUnsupportedType)

	// Nothing may be written for a rejected upload.
	files, err := f.service.UploadedFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	count, err := f.vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestIngestStoresFileAndChunks(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	chunks, err := f.service.Ingest(ctx, "sky.txt", strings.NewReader("the sky is blue"))
	require.NoError(t, err)
	assert.Equal(t, 1, chunks)

	files, err := f.service.UploadedFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sky.txt"}, files)

	count, err := f.vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIngestWhitespaceOnlyRollsBack(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.Ingest(ctx, "blank.txt", strings.NewReader("   \n\t  \n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.ErrEmbedding)

	// A document with no indexable text must not linger in the file
	// listing while the index stays empty.
	files, listErr := f.service.UploadedFiles(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, files)

	count, countErr := f.vectors.Count(ctx)
	require.NoError(t, countErr)
	assert.Equal(t, int64(0), count)
}

func TestIngestEmbedFailureRemovesFile(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.embed.err = errors.New("embedding backend down")

	_, err := f.service.Ingest(ctx, "doc.txt", strings.NewReader("some content"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.ErrEmbedding)

	// The saved file must be rolled back.
	files, listErr := f.service.UploadedFiles(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, files)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	removed, err := f.service.Remove(ctx, "never-uploaded.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestRemoveDeletesVectorsAndFile(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.Ingest(ctx, "sky.txt", strings.NewReader("the sky is blue"))
	require.NoError(t, err)
	_, err = f.service.Ingest(ctx, "grass.txt", strings.NewReader("the grass is green"))
	require.NoError(t, err)

	removed, err := f.service.Remove(ctx, "sky.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	files, err := f.service.UploadedFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"grass.txt"}, files)

	count, err := f.vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRemoveNormalizesStoredPaths(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// Entries recorded under a full path match their base name, while a
	// document that merely shares a name suffix is left alone.
	_, err := f.vectors.Insert(ctx, []*store.Entry{
		{Source: "/data/docs/report.txt", Content: "x", Embedding: embedText("x")},
		{Source: "my_report.txt", Content: "y", Embedding: embedText("y")},
	})
	require.NoError(t, err)

	removed, err := f.service.Remove(ctx, "report.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err := f.vectors.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "my_report.txt", entries[0].Source)
}

func TestAskEmptyIndex(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.service.Ask(context.Background(), "llama3", "anything?")
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.ErrNoData)
}

func TestAskRetrievesRelevantContext(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.Ingest(ctx, "sky.txt", strings.NewReader("the sky is blue"))
	require.NoError(t, err)
	_, err = f.service.Ingest(ctx, "grass.txt", strings.NewReader("the grass is green"))
	require.NoError(t, err)

	answer, err := f.service.Ask(ctx, "llama3", "what color is the sky")
	require.NoError(t, err)

	assert.Equal(t, "generated answer", answer.Result)
	assert.Contains(t, f.chat.lastPrompt, "the sky is blue")
	assert.Contains(t, f.chat.lastPrompt, "what color is the sky")
	require.NotEmpty(t, answer.Sources)
	assert.Equal(t, "sky.txt", answer.Sources[0])
}

func TestAskGenerationFailure(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.Ingest(ctx, "sky.txt", strings.NewReader("the sky is blue"))
	require.NoError(t, err)

	f.chat.err = errors.New("model crashed")
	_, err = f.service.Ask(ctx, "llama3", "what color is the sky")
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.ErrGeneration)
}

func TestAvailableModelsFiltersEmbedModel(t *testing.T) {
	f := newFixture(t, &fakeModelLister{
		models: []string{"llama3", "mxbai-embed-large:latest", "mistral:7b"},
	})

	models, err := f.service.AvailableModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "mistral:7b"}, models)
}

func TestAvailableModelsOnlyEmbedModel(t *testing.T) {
	f := newFixture(t, &fakeModelLister{
		models: []string{"mxbai-embed-large:latest"},
	})

	// A reachable catalog that filters to nothing is an empty list, not
	// an error.
	models, err := f.service.AvailableModels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, models)
	assert.NotNil(t, models)
}

func TestAvailableModelsListFailure(t *testing.T) {
	f := newFixture(t, &fakeModelLister{err: errors.New("connection refused")})

	_, err := f.service.AvailableModels(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.ErrNoModels)
}
