package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 120 * time.Second
)

// maxErrorBody bounds how much of an error response is read for a detail.
const maxErrorBody = 64 << 10

// Config holds configuration for the REST backend.
type Config struct {
	// BaseURL is the server base URL (default: http://127.0.0.1:8000).
	BaseURL string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond throttles requests; 0 means unlimited.
	RequestsPerSecond float64

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the document chat server over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
}

// chatRequest is the /chat request format.
type chatRequest struct {
	Message   string   `json:"message"`
	Documents []string `json:"documents"`
}

// chatResponse is the /chat response format.
type chatResponse struct {
	Response string `json:"response"`
}

// uploadResponse is the /upload response format.
type uploadResponse struct {
	FilePath string `json:"file_path"`
}

// deleteRequest is the /delete-file request format.
type deleteRequest struct {
	FilePath string `json:"file_path"`
}

// errorResponse is the error body shape. Detail is a string for handled
// errors and a list for validation errors.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// NewClient creates a new REST backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks that the server answers GET /health with a 2xx status.
func (c *Client) Health(ctx context.Context) error {
	const op = "health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer drain(resp)

	if !isSuccess(resp.StatusCode) {
		return serverError(op, resp)
	}
	return nil
}

// Chat posts a message with the document server paths.
func (c *Client) Chat(ctx context.Context, request driven.ChatRequest) (driven.ChatResponse, error) {
	const op = "chat"

	documents := request.Documents
	if documents == nil {
		documents = []string{}
	}

	body, err := json.Marshal(chatRequest{Message: request.Message, Documents: documents})
	if err != nil {
		return driven.ChatResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	var out chatResponse
	if err := c.doJSON(ctx, op, http.MethodPost, "/chat", body, &out); err != nil {
		return driven.ChatResponse{}, err
	}
	return driven.ChatResponse{Reply: out.Response}, nil
}

// Upload sends the file as the multipart field "file" and returns the
// server path the server stored it under.
func (c *Client) Upload(ctx context.Context, file domain.UploadFile) (string, error) {
	const op = "upload"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return "", fmt.Errorf("read %s: %w", file.Name, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out uploadResponse
	if err := c.send(req, op, &out); err != nil {
		return "", err
	}
	if out.FilePath == "" {
		return "", &domain.TransportError{Op: op, Err: errors.New("response missing file_path")}
	}
	return out.FilePath, nil
}

// DeleteFile asks the server to delete serverPath.
func (c *Client) DeleteFile(ctx context.Context, serverPath string) error {
	body, err := json.Marshal(deleteRequest{FilePath: serverPath})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.doJSON(ctx, "delete", http.MethodDelete, "/delete-file", body, nil)
}

// doJSON sends a JSON body and decodes a JSON response into out, if non-nil.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.send(req, op, out)
}

// send executes req and maps failures onto the error taxonomy.
func (c *Client) send(req *http.Request, op string, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer drain(resp)

	if !isSuccess(resp.StatusCode) {
		return serverError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// do waits for the rate limiter and performs the request.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	logger.Debug("%s %s", req.Method, req.URL.Path)
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Debug("%s %s failed after %s: %v", req.Method, req.URL.Path, time.Since(start), err)
		return nil, err
	}
	logger.Debug("%s %s -> %d in %s", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))

	c.limiter.Update(resp)
	return resp, nil
}

// serverError builds a ServerError, reading a string detail when present.
func serverError(op string, resp *http.Response) *domain.ServerError {
	se := &domain.ServerError{Op: op, StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return se
	}

	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return se
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		se.Detail = detail
	}
	return se
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// drain discards the rest of the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}
