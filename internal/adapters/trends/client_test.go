package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mediascope/visibility/internal/adapters/config"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	return data, ok
}

func (m *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *memStore) DeletePattern(ctx context.Context, pattern string) int { return 0 }
func (m *memStore) Keys(ctx context.Context, pattern string) []string     { return nil }
func (m *memStore) Ping(ctx context.Context) error                        { return nil }

func keywordsN(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("kw%02d", i)
	}
	return out
}

func newBackend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.TrendsConfig{BaseURL: srv.URL, Geo: "FR"}, newMemStore())
}

func TestBatchChunksKeywords(t *testing.T) {
	var calls int
	var chunkSizes []int

	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		keywords := strings.Split(r.URL.Query().Get("keywords"), ",")
		chunkSizes = append(chunkSizes, len(keywords))

		scores := make(map[string]float64, len(keywords))
		for _, kw := range keywords {
			scores[kw] = 42
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"scores": scores})
	})

	scores := client.Batch(context.Background(), keywordsN(12), 7)

	if calls != 3 {
		t.Errorf("expected 3 chunk calls for 12 keywords, got %d", calls)
	}
	if chunkSizes[0] != 5 || chunkSizes[1] != 5 || chunkSizes[2] != 2 {
		t.Errorf("chunk sizes = %v, want [5 5 2]", chunkSizes)
	}
	if len(scores) != 12 {
		t.Errorf("expected a score per keyword, got %d", len(scores))
	}
	if scores["kw07"] != 42 {
		t.Errorf("score lost: %v", scores["kw07"])
	}
}

func TestBatchZeroFillsFailedChunk(t *testing.T) {
	var calls int
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		keywords := strings.Split(r.URL.Query().Get("keywords"), ",")
		scores := make(map[string]float64, len(keywords))
		for _, kw := range keywords {
			scores[kw] = 10
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"scores": scores})
	})

	scores := client.Batch(context.Background(), keywordsN(10), 7)

	if scores["kw00"] != 10 {
		t.Errorf("first chunk should succeed, got %v", scores["kw00"])
	}
	if scores["kw07"] != 0 {
		t.Errorf("failed chunk should zero-fill, got %v", scores["kw07"])
	}
}

func TestBatchCachesOnlyCompleteResults(t *testing.T) {
	var calls int
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 && r.URL.Query().Get("keywords") != "" &&
			strings.Contains(r.URL.Query().Get("keywords"), "kw05") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		keywords := strings.Split(r.URL.Query().Get("keywords"), ",")
		scores := make(map[string]float64, len(keywords))
		for _, kw := range keywords {
			scores[kw] = 7
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"scores": scores})
	})

	keywords := keywordsN(10)

	// Second chunk fails: partial result, nothing cached.
	client.Batch(context.Background(), keywords, 7)
	firstCalls := calls

	// Everything succeeds now and the result is cached.
	client.Batch(context.Background(), keywords, 7)
	secondCalls := calls - firstCalls
	if secondCalls != 2 {
		t.Errorf("expected a refetch after partial failure, got %d calls", secondCalls)
	}

	// Fully cached: no upstream traffic.
	before := calls
	scores := client.Batch(context.Background(), keywords, 7)
	if calls != before {
		t.Errorf("cached batch should not hit upstream, made %d calls", calls-before)
	}
	if scores["kw09"] != 7 {
		t.Errorf("cached score lost: %v", scores["kw09"])
	}
}

func TestBatchDisabledClient(t *testing.T) {
	client := NewClient(&config.TrendsConfig{}, newMemStore())

	scores := client.Batch(context.Background(), []string{"a", "b"}, 7)

	if len(scores) != 2 || scores["a"] != 0 || scores["b"] != 0 {
		t.Errorf("disabled client should zero-fill: %v", scores)
	}
}
