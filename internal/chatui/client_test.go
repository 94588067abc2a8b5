package chatui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/available_models" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":["llama3","mistral:7b"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	models, err := client.Models(context.Background())
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3" {
		t.Errorf("unexpected models: %v", models)
	}
}

func TestFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["a.txt","b.pdf"]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	files, err := client.Files(context.Background())
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(files) != 2 || files[1] != "b.pdf" {
		t.Errorf("unexpected files: %v", files)
	}
}

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ingest_data" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("file_name"); got != "notes.txt" {
			t.Errorf("file_name = %q, want notes.txt", got)
		}
		file, _, err := r.FormFile("content")
		if err != nil {
			t.Errorf("missing content field: %v", err)
		} else {
			file.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"File notes.txt ingested successfully"}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := NewClient(server.URL)
	message, err := client.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if message != "File notes.txt ingested successfully" {
		t.Errorf("unexpected message %q", message)
	}
}

func TestAskNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":10201,"message":"no data available"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Ask(context.Background(), "llama3", "anything?")
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestAsk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"blue","sources":["sky.txt"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	answer, err := client.Ask(context.Background(), "llama3", "what color is the sky")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer.Result != "blue" {
		t.Errorf("Result = %q, want blue", answer.Result)
	}
	if len(answer.Sources) != 1 || answer.Sources[0] != "sky.txt" {
		t.Errorf("unexpected sources %v", answer.Sources)
	}
}

func TestServerErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":10202,"message":"generation failed"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Ask(context.Background(), "llama3", "anything?")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); got != "server error: generation failed" {
		t.Errorf("unexpected error %q", got)
	}
}
