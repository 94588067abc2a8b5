// Package chatui implements the terminal chat client for the document
// QA service.
package chatui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrNoData signals that the service has no indexed documents yet.
var ErrNoData = errors.New("no data available")

// Answer is a generated answer with its source documents.
type Answer struct {
	Result  string   `json:"result"`
	Sources []string `json:"sources"`
}

// Client talks to the document QA HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Generation can take a while on local models.
			Timeout: 5 * time.Minute,
		},
	}
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return ErrNoData
		}
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("server error: %s", apiErr.Message)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Models lists the chat models the service offers.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	var resp struct {
		Models []string `json:"models"`
	}
	if err := c.getJSON(ctx, "/available_models", &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// Files lists the uploaded document names.
func (c *Client) Files(ctx context.Context) ([]string, error) {
	var files []string
	if err := c.getJSON(ctx, "/uploaded_files", &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Upload sends the local file at path to the service for indexing and
// returns the server's confirmation message.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("content", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := c.baseURL + "/ingest_data?file_name=" + filepath.Base(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Message string `json:"message"`
	}
	if err := decodeResponse(resp, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Remove deletes an uploaded document and returns the server's
// confirmation message.
func (c *Client) Remove(ctx context.Context, fileName string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := map[string]string{"file_name": fileName}
	if err := c.postJSON(ctx, "/remove_data", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Ask answers a question with the given chat model. Returns ErrNoData
// when no documents are indexed yet.
func (c *Client) Ask(ctx context.Context, model, query string) (*Answer, error) {
	var answer Answer
	body := map[string]string{"query": query, "llm": model}
	if err := c.postJSON(ctx, "/agent", body, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}
