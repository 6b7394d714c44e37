// internal/providers/ollama/client.go
// Package ollama provides a providers.ChatClient backed by Ollama-compatible HTTP endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/evalon/internal/appconfig"
	"github.com/mwiater/evalon/internal/logging"
	"github.com/mwiater/evalon/internal/providers"
)

// Client implements the providers.ChatClient interface using the Ollama /api/chat endpoint.
type Client struct {
	client  *http.Client
	timeout time.Duration
	debug   bool
}

// New constructs a Client configured with the application's request timeout.
func New(cfg *appconfig.Config) *Client {
	timeout := cfg.RequestTimeout()
	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
		debug:   cfg.Debug,
	}
}

// chatResponse defines the structure of a non-streaming /api/chat response.
type chatResponse struct {
	Model   string `json:"model"`
	Message *struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Chat issues a single non-streaming chat request and returns the generated
// text plus the elapsed wall-clock time of the call.
func (c *Client) Chat(ctx context.Context, host appconfig.Host, model, prompt string) (providers.ChatResult, error) {
	payload := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.ChatResult{}, err
	}
	if c.debug {
		logging.LogRequest("EVALON->LLM", hostIdentifier(host), model, body)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, host.URL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return providers.ChatResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return providers.ChatResult{}, fmt.Errorf("%w: %v", providers.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.ChatResult{}, fmt.Errorf("%w: %v", providers.ErrModelUnavailable, err)
	}
	elapsed := time.Since(start)
	if c.debug {
		logging.LogRequest("LLM->EVALON", hostIdentifier(host), model, respBody)
	}

	if resp.StatusCode != http.StatusOK {
		return providers.ChatResult{}, fmt.Errorf("%w: /api/chat returned %s: %s",
			providers.ErrModelUnavailable, resp.Status, strings.TrimSpace(string(respBody)))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return providers.ChatResult{}, fmt.Errorf("%w: %v", providers.ErrMalformedResponse, err)
	}
	if result.Message == nil {
		return providers.ChatResult{}, fmt.Errorf("%w: response missing message field", providers.ErrMalformedResponse)
	}

	modelName := result.Model
	if modelName == "" {
		modelName = model
	}

	return providers.ChatResult{
		Text:    result.Message.Content,
		Elapsed: elapsed,
		Model:   modelName,
	}, nil
}

// EnsureModelReady triggers a lightweight generate request to make sure the model is loaded.
func (c *Client) EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error {
	payload := map[string]any{
		"model": model,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if c.debug {
		logging.LogRequest("EVALON->LLM", hostIdentifier(host), model, body)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, host.URL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", providers.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", providers.ErrModelUnavailable, err)
	}
	if c.debug {
		logging.LogRequest("LLM->EVALON", hostIdentifier(host), model, respBody)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: /api/generate returned %s: %s",
			providers.ErrModelUnavailable, resp.Status, strings.TrimSpace(string(respBody)))
	}

	return nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}

func hostIdentifier(host appconfig.Host) string {
	if strings.TrimSpace(host.Name) != "" {
		return host.Name
	}
	return host.URL
}
