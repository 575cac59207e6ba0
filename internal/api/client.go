package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a typed HTTP client for the storefront backend API.
// All state (pricing, inventory, orders, chat reasoning) is owned by
// the backend; this client only shuttles requests and decodes replies.
type Client struct {
	base   *url.URL
	client HTTPClient
}

// APIError carries the structured transport signal for a failed call:
// the HTTP status plus the backend-reported message. Callers classify
// failures from Status rather than parsing message text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// NewClient constructs a Client for the given backend base URL.
func NewClient(baseURL string, client HTTPClient) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: parsed, client: client}, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any, token string) (*http.Request, error) {
	u := *c.base
	u.Path = path.Join(u.Path, endpoint)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request and decodes a 2xx body into out (out may be
// nil for endpoints that return no interesting payload).
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// errorFromResponse drains the error payload into an APIError.
func errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return errorFromBody(resp.StatusCode, raw)
}

// errorFromBody converts an error payload into an APIError. The
// backend wraps error bodies under "detail", either as a bare string
// or a structured object; both shapes are unwrapped here.
func errorFromBody(status int, raw []byte) error {
	apiErr := &APIError{Status: status}

	if len(raw) == 0 {
		return apiErr
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
		apiErr.Message = msg
		return apiErr
	}
	var structured struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(envelope.Detail, &structured); err == nil && structured.Error != "" {
		apiErr.Message = structured.Error
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(envelope.Detail))
	return apiErr
}
