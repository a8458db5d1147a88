package classify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mediascope/visibility/internal/adapters/cache"
	"github.com/mediascope/visibility/pkg/models"
)

type fakeModel struct {
	enabled   bool
	responses []string
	errs      []error
	calls     int
}

func (f *fakeModel) Classify(ctx context.Context, system, user string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "{}", nil
}

func (f *fakeModel) IsEnabled() bool { return f.enabled }

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

func titlesN(n int) []string {
	titles := make([]string, n)
	for i := range titles {
		titles[i] = fmt.Sprintf("headline %d", i)
	}
	return titles
}

func TestSentimentStats(t *testing.T) {
	model := &fakeModel{
		enabled:   true,
		responses: []string{`{"1": 0.5, "2": -0.5, "3": 0.1}`},
	}
	c := New(model, cache.Noop{})

	result := c.Sentiment(context.Background(), "e1", "Entity", []string{"up", "down", "flat"})

	if result.Total != 3 {
		t.Fatalf("total = %d, want 3", result.Total)
	}
	if result.Positive != 1 || result.Negative != 1 || result.Neutral != 1 {
		t.Errorf("stats = %d/%d/%d, want 1/1/1", result.Positive, result.Neutral, result.Negative)
	}
	if result.Positive+result.Neutral+result.Negative != result.Total {
		t.Error("stats do not sum to total")
	}
	if result.Scores["up"] != 0.5 {
		t.Errorf("score merged onto wrong title: %v", result.Scores)
	}
}

func TestSentimentClampsAndRounds(t *testing.T) {
	model := &fakeModel{
		enabled:   true,
		responses: []string{`{"1": 3.5, "2": -2.0, "3": 0.123456}`},
	}
	c := New(model, cache.Noop{})

	result := c.Sentiment(context.Background(), "e1", "Entity", []string{"a", "b", "c"})

	if result.Scores["a"] != 1 {
		t.Errorf("score should clamp to 1, got %v", result.Scores["a"])
	}
	if result.Scores["b"] != -1 {
		t.Errorf("score should clamp to -1, got %v", result.Scores["b"])
	}
	if result.Scores["c"] != 0.12 {
		t.Errorf("score should round to 2 decimals, got %v", result.Scores["c"])
	}
}

func TestSentimentSkipsFailedBatch(t *testing.T) {
	// 15 titles make two batches; the second one fails.
	model := &fakeModel{
		enabled: true,
		responses: []string{
			`{"1": 0.3, "2": 0.3, "3": 0.3, "4": 0.3, "5": 0.3, "6": 0.3, "7": 0.3, "8": 0.3, "9": 0.3, "10": 0.3}`,
			"",
		},
		errs: []error{nil, fmt.Errorf("rate limited")},
	}
	c := New(model, cache.Noop{})

	result := c.Sentiment(context.Background(), "e1", "Entity", titlesN(15))

	if result.Total != 10 {
		t.Errorf("total should count only scored titles, got %d", result.Total)
	}
	if result.Positive+result.Neutral+result.Negative != result.Total {
		t.Error("stats do not sum to total")
	}
}

func TestSentimentAllBatchesFailed(t *testing.T) {
	model := &fakeModel{
		enabled: true,
		errs:    []error{fmt.Errorf("timeout"), fmt.Errorf("timeout")},
	}
	c := New(model, cache.Noop{})

	result := c.Sentiment(context.Background(), "e1", "Entity", titlesN(15))

	if result.Total != 0 {
		t.Errorf("total = %d, want 0", result.Total)
	}
	if result.Error == "" {
		t.Error("total failure must be marked, not look like an empty submission")
	}

	// The contrast: an empty submission carries no error marker.
	empty := c.Sentiment(context.Background(), "e1", "Entity", nil)
	if empty.Error != "" {
		t.Errorf("empty submission should not carry an error, got %q", empty.Error)
	}
}

func TestSentimentIgnoresOutOfRangeIndexes(t *testing.T) {
	model := &fakeModel{
		enabled:   true,
		responses: []string{`{"0": 0.5, "1": 0.5, "99": 0.5, "x": 0.5}`},
	}
	c := New(model, cache.Noop{})

	result := c.Sentiment(context.Background(), "e1", "Entity", []string{"only"})

	if result.Total != 1 {
		t.Errorf("total = %d, want 1", result.Total)
	}
	if result.Scores["only"] != 0.5 {
		t.Errorf("valid index should survive, got %v", result.Scores)
	}
}

func TestSentimentCapsTitles(t *testing.T) {
	model := &fakeModel{enabled: true}
	c := New(model, cache.Noop{})

	c.Sentiment(context.Background(), "e1", "Entity", titlesN(80))

	// 50 capped titles in batches of 10.
	if model.calls != 5 {
		t.Errorf("expected 5 batch calls, got %d", model.calls)
	}
}

func TestSentimentCacheRoundTrip(t *testing.T) {
	store := newMemStore()
	model := &fakeModel{
		enabled:   true,
		responses: []string{`{"1": 0.5}`},
	}
	c := New(model, store)

	first := c.Sentiment(context.Background(), "e1", "Entity", []string{"a"})
	if first.FromCache {
		t.Error("first call should not come from cache")
	}

	second := c.Sentiment(context.Background(), "e1", "Entity", []string{"a"})
	if !second.FromCache {
		t.Error("second call should come from cache")
	}
	if model.calls != 1 {
		t.Errorf("model called %d times, want 1", model.calls)
	}
}

func TestSentimentUnconfigured(t *testing.T) {
	c := New(&fakeModel{enabled: false}, cache.Noop{})

	result := c.Sentiment(context.Background(), "e1", "Entity", []string{"a"})

	if result.Total != 0 {
		t.Errorf("total = %d, want 0", result.Total)
	}
	if result.Error == "" {
		t.Error("expected error marker when unconfigured")
	}
}

func TestSentimentEmptyTitles(t *testing.T) {
	model := &fakeModel{enabled: true}
	c := New(model, cache.Noop{})

	result := c.Sentiment(context.Background(), "e1", "Entity", nil)

	if result.Total != 0 || model.calls != 0 {
		t.Errorf("empty input should short-circuit, total=%d calls=%d", result.Total, model.calls)
	}
}

func TestThemesSanitization(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	response := fmt.Sprintf(
		`{"summary": "ok", "themes": [
			{"theme": "%s", "count": 3, "tone": "enthusiastic", "examples": ["a", "b", "c", "d"]},
			{"theme": "", "count": 1, "tone": "negative", "examples": []},
			{"theme": "t2", "count": 2, "tone": "negative", "examples": ["x"]}
		]}`, string(long))

	model := &fakeModel{enabled: true, responses: []string{response}}
	c := New(model, cache.Noop{})

	result := c.Themes(context.Background(), "e1", "Entity", []string{"a"})

	if len(result.Themes) != 2 {
		t.Fatalf("empty theme should be dropped, got %d themes", len(result.Themes))
	}
	if len(result.Themes[0].Theme) != maxThemeLen {
		t.Errorf("theme name not truncated: %d chars", len(result.Themes[0].Theme))
	}
	if result.Themes[0].Tone != models.ToneNeutral {
		t.Errorf("unknown tone should normalize to neutral, got %q", result.Themes[0].Tone)
	}
	if len(result.Themes[0].Examples) != maxExamples {
		t.Errorf("examples not capped: %d", len(result.Themes[0].Examples))
	}
	if result.Themes[1].Tone != models.ToneNegative {
		t.Errorf("valid tone should survive, got %q", result.Themes[1].Tone)
	}
}

func TestThemesCapsThemeCount(t *testing.T) {
	response := `{"summary": "s", "themes": [
		{"theme": "t1"}, {"theme": "t2"}, {"theme": "t3"},
		{"theme": "t4"}, {"theme": "t5"}, {"theme": "t6"}, {"theme": "t7"}
	]}`
	model := &fakeModel{enabled: true, responses: []string{response}}
	c := New(model, cache.Noop{})

	result := c.Themes(context.Background(), "e1", "Entity", []string{"a"})

	if len(result.Themes) != maxThemes {
		t.Errorf("themes not capped at %d, got %d", maxThemes, len(result.Themes))
	}
}

func TestThemesModelFailure(t *testing.T) {
	model := &fakeModel{enabled: true, errs: []error{fmt.Errorf("boom")}}
	c := New(model, cache.Noop{})

	result := c.Themes(context.Background(), "e1", "Entity", []string{"a"})

	if result.Error == "" {
		t.Error("expected error marker on model failure")
	}
	if result.Themes == nil {
		t.Error("themes should be an empty slice, not nil")
	}
}

func TestThemesFencedResponse(t *testing.T) {
	model := &fakeModel{
		enabled:   true,
		responses: []string{"```json\n{\"summary\": \"fenced\", \"themes\": []}\n```"},
	}
	c := New(model, cache.Noop{})

	result := c.Themes(context.Background(), "e1", "Entity", []string{"a"})

	if result.Summary != "fenced" {
		t.Errorf("fenced JSON not extracted, summary = %q", result.Summary)
	}
}
