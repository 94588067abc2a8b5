package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docuchat/internal/docuchat/biz"
	"github.com/kart-io/docuchat/internal/docuchat/handler"
	"github.com/kart-io/docuchat/internal/docuchat/router"
	"github.com/kart-io/docuchat/pkg/errno"
)

// fakeService scripts the service surface per test.
type fakeService struct {
	ingestChunks int
	ingestErr    error
	removeErr    error
	answer       *biz.Answer
	askErr       error
	models       []string
	modelsErr    error
	files        []string

	lastFileName string
	lastModel    string
	lastQuestion string
	lastContent  string
}

func (f *fakeService) Ingest(_ context.Context, fileName string, content io.Reader) (int, error) {
	f.lastFileName = fileName
	data, _ := io.ReadAll(content)
	f.lastContent = string(data)
	return f.ingestChunks, f.ingestErr
}

func (f *fakeService) Remove(_ context.Context, fileName string) (int, error) {
	f.lastFileName = fileName
	return 0, f.removeErr
}

func (f *fakeService) Ask(_ context.Context, model, question string) (*biz.Answer, error) {
	f.lastModel = model
	f.lastQuestion = question
	return f.answer, f.askErr
}

func (f *fakeService) AvailableModels(_ context.Context) ([]string, error) {
	return f.models, f.modelsErr
}

func (f *fakeService) UploadedFiles(_ context.Context) ([]string, error) {
	return f.files, nil
}

func (f *fakeService) Stats(_ context.Context) map[string]any {
	return map[string]any{"uptime_seconds": 1.0}
}

func newTestRouter(svc biz.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	router.Register(engine, handler.New(svc))
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doRequest(t, engine, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["message"])
}

func TestAvailableModels(t *testing.T) {
	engine := newTestRouter(&fakeService{models: []string{"llama3", "mistral:7b"}})

	w := doRequest(t, engine, http.MethodGet, "/available_models", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"llama3", "mistral:7b"}, resp["models"])
}

func TestAvailableModelsUnreachable(t *testing.T) {
	engine := newTestRouter(&fakeService{modelsErr: errno.ErrNoModels})

	w := doRequest(t, engine, http.MethodGet, "/available_models", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUploadedFilesBareArray(t *testing.T) {
	engine := newTestRouter(&fakeService{files: []string{"a.txt", "b.pdf"}})

	w := doRequest(t, engine, http.MethodGet, "/uploaded_files", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a.txt", "b.pdf"}, resp)
}

func TestUploadedFilesEmptyIsArray(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doRequest(t, engine, http.MethodGet, "/uploaded_files", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func multipartBody(t *testing.T, field, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestIngest(t *testing.T) {
	svc := &fakeService{ingestChunks: 3}
	engine := newTestRouter(svc)

	body, contentType := multipartBody(t, "content", "doc.txt", "hello world")
	w := doRequest(t, engine, http.MethodPost, "/ingest_data?file_name=doc.txt", body, contentType)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "doc.txt", svc.lastFileName)
	assert.Equal(t, "hello world", svc.lastContent)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "doc.txt")
}

func TestIngestMissingFileName(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	body, contentType := multipartBody(t, "content", "doc.txt", "x")
	w := doRequest(t, engine, http.MethodPost, "/ingest_data", body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestMissingContentField(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	body, contentType := multipartBody(t, "wrong_field", "doc.txt", "x")
	w := doRequest(t, engine, http.MethodPost, "/ingest_data?file_name=doc.txt", body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestUnsupportedType(t *testing.T) {
	engine := newTestRouter(&fakeService{ingestErr: errno.ErrUnsupportedType})

	body, contentType := multipartBody(t, "content", "doc.exe", "x")
	w := doRequest(t, engine, http.MethodPost, "/ingest_data?file_name=doc.exe", body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestEmbeddingFailure(t *testing.T) {
	engine := newTestRouter(&fakeService{ingestErr: errno.ErrEmbedding})

	body, contentType := multipartBody(t, "content", "doc.txt", "x")
	w := doRequest(t, engine, http.MethodPost, "/ingest_data?file_name=doc.txt", body, contentType)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRemove(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	w := doRequest(t, engine, http.MethodPost, "/remove_data",
		strings.NewReader(`{"file_name":"doc.txt"}`), "application/json")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "doc.txt", svc.lastFileName)
}

func TestRemoveMissingBody(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doRequest(t, engine, http.MethodPost, "/remove_data",
		strings.NewReader(`{}`), "application/json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAgent(t *testing.T) {
	svc := &fakeService{answer: &biz.Answer{
		Result:  "the sky is blue",
		Sources: []string{"sky.txt"},
	}}
	engine := newTestRouter(svc)

	w := doRequest(t, engine, http.MethodPost, "/agent",
		strings.NewReader(`{"query":"what color is the sky","llm":"llama3"}`), "application/json")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "llama3", svc.lastModel)
	assert.Equal(t, "what color is the sky", svc.lastQuestion)

	var resp struct {
		Result  string   `json:"result"`
		Sources []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "the sky is blue", resp.Result)
	assert.Equal(t, []string{"sky.txt"}, resp.Sources)
}

func TestAgentNoData(t *testing.T) {
	engine := newTestRouter(&fakeService{askErr: errno.ErrNoData})

	w := doRequest(t, engine, http.MethodPost, "/agent",
		strings.NewReader(`{"query":"anything","llm":"llama3"}`), "application/json")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAgentMissingFields(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doRequest(t, engine, http.MethodPost, "/agent",
		strings.NewReader(`{"query":"no model"}`), "application/json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStats(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doRequest(t, engine, http.MethodGet, "/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "uptime_seconds")
}
