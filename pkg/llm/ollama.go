package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flashcards/pkg/config"

	"github.com/pkg/errors"
)

const (
	defaultEndpoint = "http://localhost:11434"
	defaultModel    = "gemma3n:latest"
)

// ErrRequestFailed is returned when Ollama answers with a non-200 status or a
// body that is not a generate response.
var ErrRequestFailed = errors.New("Ollama request failed")

// UnreachableError means the request never got an HTTP response.
type UnreachableError struct {
	Endpoint string
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("Could not connect to Ollama. Is it running on %s?", hostOf(e.Endpoint))
}

func (e *UnreachableError) Unwrap() error { return e.Err }

func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// Client talks to the Ollama generate API.
type Client struct {
	endpoint string
	model    string
	client   *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient builds a client from cfg. Empty fields fall back to the local
// Ollama defaults; a zero timeout leaves the transport default in place.
func NewClient(cfg config.LLMConfig, timeout time.Duration, opts ...Option) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	c := &Client{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) Model() string { return c.model }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a single non-streaming completion request and returns the
// completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", errors.Wrap(err, "marshal generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "create generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &UnreachableError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if body := strings.TrimSpace(string(msg)); body != "" {
			return "", errors.Wrapf(ErrRequestFailed, "status %d: %s", resp.StatusCode, body)
		}
		return "", errors.Wrapf(ErrRequestFailed, "status %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrapf(ErrRequestFailed, "decode response: %v", err)
	}
	return result.Response, nil
}
