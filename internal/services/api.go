// API service for making raw HTTP requests to the generation platform
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/quillhq/inkwell/internal/shared"
)

// APIService provides methods for making raw HTTP requests to the platform API.
// It is the escape hatch behind the `inkwell api` command; typed access goes
// through [PlatformService].
type APIService struct {
	baseURL    string
	httpClient *http.Client
	session    *shared.SessionHeaders
}

// NewAPIService creates a new API service instance for the platform.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// WithSession attaches imported browser session headers; every subsequent
// request carries them.
func (a *APIService) WithSession(session *shared.SessionHeaders) *APIService {
	a.session = session
	return a
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

func (a *APIService) do(ctx context.Context, method, path string, body io.Reader) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.session != nil {
		a.session.Apply(req.Header.Set)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, bytes.NewReader(data))
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, bytes.NewReader(data))
}

// Delete performs a DELETE request to the specified path and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, nil)
}
