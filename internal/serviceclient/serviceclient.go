// Package serviceclient is the single, unified HTTP executor for all backend
// services. One Client exists per backend; each injects the bearer credential,
// normalizes success and error responses, and reports credential expiry.
package serviceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/premiumclub/portal/internal/apperr"
)

// CredentialSource supplies the bearer credential, if one is stored.
type CredentialSource interface {
	Get() (string, bool)
}

// Client executes authenticated requests against one backend base address.
type Client struct {
	name          string
	baseURL       string
	httpClient    *http.Client
	creds         CredentialSource
	onAuthExpired func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(name, baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		creds:      creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnAuthExpired registers the callback fired when any request is rejected
// with 401. This is the only cross-component side effect a client triggers
// on its own; the session layer uses it to force a logout.
func (c *Client) OnAuthExpired(fn func()) {
	c.onAuthExpired = fn
}

// Do executes one request and returns the raw response body. Non-2xx
// responses become *apperr.HTTPError with the message taken from the decoded
// error body when present; an unreachable backend becomes *apperr.NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request body: %w", c.name, err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", c.name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token, ok := c.creds.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.NetworkError{Service: c.name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.NetworkError{Service: c.name, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		httpErr := &apperr.HTTPError{
			Status:  resp.StatusCode,
			Message: errorMessage(data, resp.StatusCode),
		}
		if resp.StatusCode == http.StatusUnauthorized && c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return nil, httpErr
	}
	return data, nil
}

// DoJSON executes a request and decodes the JSON response into out. A nil
// out discards the body.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	data, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("cannot decode %s response: %w", c.name, err)
	}
	return nil
}

// errorMessage extracts a human message from an error body. JSON bodies with
// a message/error field are preferred, plain text is used as-is, anything
// else falls back to the generic status text.
func errorMessage(data []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(status)
}
