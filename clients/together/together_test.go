package together

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncorisk/ovassess/internal/retry"
)

func noRetry() retry.Config {
	return retry.Config{MaxRetries: 0, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffMultiple: 1}
}

func newTestClient(url string) *Client {
	return NewClient("test-key").SetBaseURL(url).SetRetryConfig(noRetry())
}

func TestChatCompletion_Success(t *testing.T) {
	var gotReq ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(ChatCompletionResponse{
			ID: "cmpl-1",
			Choices: []ChatCompletionChoice{
				{Message: ChatMessage{Role: RoleAssistant, Content: "hello"}},
			},
		})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).ChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    DefaultModel,
		Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}},
		TopP:     0.9,
	})
	require.NoError(t, err)

	content, ok := resp.Content()
	require.True(t, ok)
	assert.Equal(t, "hello", content)
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.Equal(t, float32(0.9), gotReq.TopP)
}

func TestChatCompletion_Non2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.Error(t, err)

	var apiErr *ChatCompletionError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestChatCompletion_MalformedBodyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ChatCompletion(context.Background(), ChatCompletionRequest{})
	assert.Error(t, err)
}

func TestChatCompletion_MissingChoicesIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cmpl-2","choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ChatCompletion(context.Background(), ChatCompletionRequest{})
	assert.Error(t, err)
}

func TestChatCompletion_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []ChatCompletionChoice{{Message: ChatMessage{Role: RoleAssistant, Content: "ok"}}},
		})
	}))
	defer server.Close()

	client := NewClient("k").SetBaseURL(server.URL).SetRetryConfig(retry.Config{
		MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffMultiple: 1,
	})

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.NoError(t, err)
	content, _ := resp.Content()
	assert.Equal(t, "ok", content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestChatCompletion_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).ChatCompletion(ctx, ChatCompletionRequest{})
	assert.Error(t, err)
}

func TestNarrator_BuildsExpectedPayload(t *testing.T) {
	var gotReq ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []ChatCompletionChoice{{Message: ChatMessage{Role: RoleAssistant, Content: "  advice text  "}}},
		})
	}))
	defer server.Close()

	n := NewNarrator(newTestClient(server.URL), "")
	text, err := n.Narrate(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)

	assert.Equal(t, "advice text", text)
	assert.Equal(t, DefaultModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, RoleSystem, gotReq.Messages[0].Role)
	assert.Equal(t, "system prompt", gotReq.Messages[0].Content)
	assert.Equal(t, float32(narrateTemperature), gotReq.Temperature)
	assert.Equal(t, narrateMaxTokens, gotReq.MaxTokens)
}
