package together

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/oncorisk/ovassess/internal/retry"
)

const (
	// DefaultBaseURL is the Together AI OpenAI-compatible endpoint root.
	DefaultBaseURL = "https://api.together.xyz/v1"

	// DefaultModel is the narrative model used when the caller does not
	// pick one.
	DefaultModel = "meta-llama/Llama-3.3-70B-Instruct-Turbo"
)

// ChatCompletionError wraps an API failure with the status code and raw
// response body for error logging.
type ChatCompletionError struct {
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code,omitempty"`
	RawBody    json.RawMessage `json:"raw_body,omitempty"`
}

func (e *ChatCompletionError) Error() string {
	return e.Message
}

// Client is a minimal client for the Together chat completions API.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	retryConfig retry.Config
	logger      *zap.Logger
}

// NewClient creates a client with default transport and retry settings.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		httpClient:  http.DefaultClient,
		retryConfig: retry.DefaultConfig(),
		logger:      zap.NewNop(),
	}
}

// SetBaseURL overrides the endpoint root. Used for tests and self-hosted
// compatible gateways.
func (c *Client) SetBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// SetHTTPClient overrides the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// SetRetryConfig overrides the retry bounds.
func (c *Client) SetRetryConfig(cfg retry.Config) *Client {
	c.retryConfig = cfg
	return c
}

// SetLogger attaches a logger for retry diagnostics.
func (c *Client) SetLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// isRetryableError retries network errors, server errors and rate limits.
// Client errors other than 429 are terminal: resending the same payload
// cannot succeed.
func (c *Client) isRetryableError(err error, statusCode int, _ []byte) bool {
	if err != nil && statusCode == 0 {
		return true
	}
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}

// ChatCompletion sends a chat completion request with retry.
func (c *Client) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	url := c.baseURL + "/chat/completions"

	opts := retry.Options{
		Config:      c.retryConfig,
		ShouldRetry: c.isRetryableError,
		Logger:      c.logger,
		Name:        "Together",
	}

	result, err := retry.Execute(ctx, opts, func(attempt int) (any, int, []byte, error) {
		body, err := json.Marshal(req)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to create HTTP request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, 0, nil, err
		}
		defer resp.Body.Close()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, resp.StatusCode, bodyBytes, &ChatCompletionError{
				Message:    fmt.Sprintf("together API error %d", resp.StatusCode),
				StatusCode: resp.StatusCode,
				RawBody:    json.RawMessage(bodyBytes),
			}
		}

		var chatResp ChatCompletionResponse
		if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
			return nil, resp.StatusCode, bodyBytes, &ChatCompletionError{
				Message:    fmt.Sprintf("failed to parse response: %v", err),
				StatusCode: resp.StatusCode,
				RawBody:    json.RawMessage(bodyBytes),
			}
		}

		if _, ok := chatResp.Content(); !ok {
			return nil, resp.StatusCode, bodyBytes, &ChatCompletionError{
				Message:    "response has no choices",
				StatusCode: resp.StatusCode,
				RawBody:    json.RawMessage(bodyBytes),
			}
		}

		return &chatResp, resp.StatusCode, bodyBytes, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*ChatCompletionResponse), nil
}
