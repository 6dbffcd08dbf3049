package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/store"
)

func newModelServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/bert/sequence-classification", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{[]any{"q", "a"}}, body["input"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model_outputs": {"logits": [[0.1, 0.9]]}}`))
	})
	mux.HandleFunc("/api/broken/generation", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/health/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func classificationRequest() *PredictRequest {
	return &PredictRequest{
		ModelName: "bert",
		Task:      TaskSequenceClassification,
		Input:     []any{[]any{"q", "a"}},
	}
}

func TestHTTPClientPredict(t *testing.T) {
	var calls atomic.Int32
	srv := newModelServer(t, &calls)
	client := NewHTTPClient(srv.URL+"/", WithHTTPAuth(&AuthConfig{Type: "bearer", Token: "secret"}))

	payload, err := client.Predict(context.Background(), classificationRequest())
	require.NoError(t, err)
	assert.True(t, payload.Has("model_outputs"))
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, client.Health(context.Background()))
	require.NoError(t, client.Close())
}

func TestHTTPClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newModelServer(t, &calls)
	client := NewHTTPClient(srv.URL)

	_, err := client.Predict(context.Background(), &PredictRequest{ModelName: "broken", Task: TaskGeneration})
	assert.True(t, core.IsUnavailable(err))

	_, err = client.Predict(context.Background(), &PredictRequest{ModelName: "bert"})
	assert.True(t, core.IsInvalidInput(err))

	_, err = client.Predict(context.Background(), &PredictRequest{ModelName: "missing", Task: TaskGeneration})
	assert.Error(t, err)
	assert.False(t, core.IsUnavailable(err))
}

func TestCachedBackend(t *testing.T) {
	var calls atomic.Int32
	srv := newModelServer(t, &calls)
	client := NewHTTPClient(srv.URL, WithHTTPAuth(&AuthConfig{Type: "bearer", Token: "secret"}))
	cache := store.NewMemoryStore(16)
	cached := NewCachedBackend(client, cache, 60)

	ctx := context.Background()
	first, err := cached.Predict(ctx, classificationRequest())
	require.NoError(t, err)
	second, err := cached.Predict(ctx, classificationRequest())
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first, second)

	other := classificationRequest()
	other.TaskKwargs = map[string]any{"topk": 2}
	_, err = cached.Predict(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	// 共享的 store 在 Close 之后仍然可用
	require.NoError(t, cached.Close())
	assert.Equal(t, 2, cache.Len())
}

type slowBackend struct {
	calls atomic.Int32
}

func (b *slowBackend) Predict(ctx context.Context, req *PredictRequest) (core.Payload, error) {
	b.calls.Add(1)
	time.Sleep(50 * time.Millisecond)
	return core.Payload{"generated_texts": []any{[]any{"hi"}}}, nil
}

func (b *slowBackend) Health(ctx context.Context) error { return nil }
func (b *slowBackend) Close() error                     { return nil }

func TestCachedBackendCoalescesConcurrentCalls(t *testing.T) {
	backend := &slowBackend{}
	cached := NewCachedBackend(backend, store.NewMemoryStore(16), 0)
	req := &PredictRequest{ModelName: "gpt", Task: TaskGeneration, Input: []any{"hello"}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, err := cached.Predict(context.Background(), req)
			assert.NoError(t, err)
			assert.True(t, payload.Has("generated_texts"))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(&ServiceConfig{Endpoint: "http://localhost:8000"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPClient{}, b)

	b, err = NewBackend(&ServiceConfig{Endpoint: "http://localhost:8000", CacheTTL: 30}, store.NewMemoryStore(1))
	require.NoError(t, err)
	assert.IsType(t, &CachedBackend{}, b)

	_, err = NewBackend(&ServiceConfig{Endpoint: "localhost:8000"}, nil)
	assert.Error(t, err)
	_, err = NewBackend(&ServiceConfig{Type: "grpc", Endpoint: "http://localhost:8000"}, nil)
	assert.Error(t, err)
	assert.Error(t, ValidateConfig(nil))
}
