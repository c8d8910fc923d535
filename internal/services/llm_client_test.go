package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPLLMClient_Complete(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "generated text"}},
			},
		})
	}))
	defer server.Close()

	client := NewHTTPLLMClient(server.URL, "test-key", "test-model", 5*time.Second)
	text, err := client.Complete(context.Background(), "system says", "user asks")
	require.NoError(t, err)

	assert.Equal(t, "generated text", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "system says"}, gotReq.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "user asks"}, gotReq.Messages[1])
}

func TestHTTPLLMClient_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := NewHTTPLLMClient(server.URL, "k", "m", time.Second)
	_, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.Status)
	assert.Equal(t, "rate limit exceeded", provErr.Message)
}

func TestHTTPLLMClient_ProviderErrorRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := NewHTTPLLMClient(server.URL, "k", "m", time.Second)
	_, err := client.Complete(context.Background(), "s", "u")

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "upstream unavailable", provErr.Message)
}

func TestHTTPLLMClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewHTTPLLMClient(server.URL, "k", "m", time.Second)
	_, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
