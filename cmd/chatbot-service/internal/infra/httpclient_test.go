package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseClient_RetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newBaseClient(clientConfig{
		ServiceName: "test",
		BaseURL:     server.URL,
		MaxRetries:  3,
		RetryDelay:  time.Millisecond,
	})

	var result struct {
		OK bool `json:"ok"`
	}
	err := client.get(context.Background(), "/thing", &result)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestBaseClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newBaseClient(clientConfig{
		ServiceName: "test",
		BaseURL:     server.URL,
		MaxRetries:  2,
		RetryDelay:  time.Millisecond,
	})

	err := client.get(context.Background(), "/thing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
	// 首次请求 + 2 次重试
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestBaseClient_NoRetryOnContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newBaseClient(clientConfig{
		ServiceName: "test",
		BaseURL:     server.URL,
		MaxRetries:  5,
		RetryDelay:  50 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := client.get(ctx, "/thing", nil)
	require.Error(t, err)
	// 取消后不应再等退避重试
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestBaseClient_CircuitBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newBaseClient(clientConfig{
		ServiceName: "test",
		BaseURL:     server.URL,
		MaxRetries:  1,
		RetryDelay:  time.Millisecond,
	})

	// 连续失败将熔断器打满
	for i := 0; i < 5; i++ {
		_ = client.get(context.Background(), "/thing", nil)
	}

	err := client.get(context.Background(), "/thing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}
