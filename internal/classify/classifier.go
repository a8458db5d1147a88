package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mediascope/visibility/internal/adapters/ai"
	"github.com/mediascope/visibility/internal/adapters/cache"
	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

const (
	// Headline cap per classification request. Keeps prompt sizes and
	// cost bounded; extra titles are simply not classified.
	maxTitles = 50

	// Sentiment is scored in fixed-size batches, one model call each,
	// issued strictly in sequence.
	sentimentBatchSize = 10

	positiveThreshold = 0.2
	negativeThreshold = -0.2

	maxSummaryLen = 500
	maxThemes     = 5
	maxThemeLen   = 100
	maxExamples   = 3
	maxExampleLen = 150
)

// Classifier scores press headlines through an external text
// classifier, with caching keyed on the exact title set.
type Classifier struct {
	model ai.TextClassifier
	store cache.Store
}

// New creates a classifier over the given model and cache store.
func New(model ai.TextClassifier, store cache.Store) *Classifier {
	return &Classifier{model: model, store: store}
}

// Enabled reports whether the underlying model has credentials.
func (c *Classifier) Enabled() bool {
	return c.model.IsEnabled()
}

// Sentiment scores up to maxTitles headlines in [-1, 1] each. Batches
// that fail are skipped, so Total reflects only titles actually scored
// and Positive+Neutral+Negative always equals Total.
func (c *Classifier) Sentiment(ctx context.Context, entityID, entityName string, titles []string) models.SentimentResult {
	if len(titles) == 0 {
		return models.SentimentResult{Scores: map[string]float64{}}
	}
	if len(titles) > maxTitles {
		titles = titles[:maxTitles]
	}

	key := cache.BuildKey(models.KindSentiment, entityID+"_"+cache.HashTitles(titles), 0)
	if data, ok := c.store.Get(ctx, key); ok {
		var cached models.SentimentResult
		if err := json.Unmarshal(data, &cached); err == nil {
			cached.FromCache = true
			return cached
		}
	}

	if !c.model.IsEnabled() {
		return models.SentimentResult{
			Scores: map[string]float64{},
			Error:  "classifier not configured",
		}
	}

	scores := make(map[string]float64, len(titles))
	for start := 0; start < len(titles); start += sentimentBatchSize {
		end := start + sentimentBatchSize
		if end > len(titles) {
			end = len(titles)
		}
		batch := titles[start:end]

		batchScores, err := c.scoreBatch(ctx, entityName, batch)
		if err != nil {
			logger.Warn("sentiment batch failed",
				zap.String("entity", entityID),
				zap.Int("offset", start),
				zap.Error(err),
			)
			continue
		}
		for title, score := range batchScores {
			scores[title] = score
		}
	}

	result := buildSentimentStats(scores)
	if result.Total == 0 {
		// Titles were submitted but nothing got scored; without the
		// marker this is indistinguishable from an empty submission.
		result.Error = "classification failed"
		return result
	}

	if data, err := json.Marshal(result); err == nil {
		c.store.Set(ctx, key, data, cache.TTLSentiment)
	}
	return result
}

// scoreBatch sends one numbered batch and maps the model's indexed
// answer back onto the original titles.
func (c *Classifier) scoreBatch(ctx context.Context, entityName string, batch []string) (map[string]float64, error) {
	response, err := c.model.Classify(ctx, sentimentSystemPrompt, sentimentUserContent(entityName, batch))
	if err != nil {
		return nil, err
	}

	var indexed map[string]float64
	if err := json.Unmarshal([]byte(ai.ExtractJSON(response)), &indexed); err != nil {
		return nil, fmt.Errorf("unparseable batch response: %w", err)
	}

	scores := make(map[string]float64, len(batch))
	for idx, score := range indexed {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 1 || n > len(batch) {
			continue
		}
		scores[batch[n-1]] = roundScore(clampScore(score))
	}
	return scores, nil
}

func buildSentimentStats(scores map[string]float64) models.SentimentResult {
	result := models.SentimentResult{
		Scores: scores,
		Total:  len(scores),
	}
	if result.Total == 0 {
		return result
	}

	var sum float64
	for _, score := range scores {
		sum += score
		switch {
		case score > positiveThreshold:
			result.Positive++
		case score < negativeThreshold:
			result.Negative++
		default:
			result.Neutral++
		}
	}
	result.Average = roundScore(sum / float64(result.Total))
	return result
}

// Themes groups up to maxTitles headlines into recurring themes with a
// one-call classification, then sanitizes the model output.
func (c *Classifier) Themes(ctx context.Context, entityID, entityName string, titles []string) models.ThemesResult {
	if len(titles) == 0 {
		return models.ThemesResult{Themes: []models.Theme{}}
	}
	if len(titles) > maxTitles {
		titles = titles[:maxTitles]
	}

	key := cache.BuildKey(models.KindThemes, entityID+"_"+cache.HashTitles(titles), 0)
	if data, ok := c.store.Get(ctx, key); ok {
		var cached models.ThemesResult
		if err := json.Unmarshal(data, &cached); err == nil {
			cached.FromCache = true
			return cached
		}
	}

	if !c.model.IsEnabled() {
		return models.ThemesResult{
			Themes: []models.Theme{},
			Error:  "classifier not configured",
		}
	}

	response, err := c.model.Classify(ctx, themesSystemPrompt, themesUserContent(entityName, titles))
	if err != nil {
		logger.Warn("themes classification failed",
			zap.String("entity", entityID),
			zap.Error(err),
		)
		return models.ThemesResult{Themes: []models.Theme{}, Error: err.Error()}
	}

	var raw models.ThemesResult
	if err := json.Unmarshal([]byte(ai.ExtractJSON(response)), &raw); err != nil {
		logger.Warn("unparseable themes response",
			zap.String("entity", entityID),
			zap.Error(err),
		)
		return models.ThemesResult{Themes: []models.Theme{}, Error: "unparseable classifier response"}
	}

	result := sanitizeThemes(raw)
	if data, err := json.Marshal(result); err == nil {
		c.store.Set(ctx, key, data, cache.TTLThemes)
	}
	return result
}

// sanitizeThemes bounds every model-supplied field so a verbose or
// adversarial response cannot blow up downstream payloads.
func sanitizeThemes(raw models.ThemesResult) models.ThemesResult {
	out := models.ThemesResult{
		Summary: truncate(raw.Summary, maxSummaryLen),
		Themes:  make([]models.Theme, 0, maxThemes),
	}

	for _, theme := range raw.Themes {
		if len(out.Themes) == maxThemes {
			break
		}
		if theme.Theme == "" {
			continue
		}

		examples := make([]string, 0, maxExamples)
		for _, ex := range theme.Examples {
			if len(examples) == maxExamples {
				break
			}
			if ex != "" {
				examples = append(examples, truncate(ex, maxExampleLen))
			}
		}

		out.Themes = append(out.Themes, models.Theme{
			Theme:    truncate(theme.Theme, maxThemeLen),
			Count:    theme.Count,
			Tone:     normalizeTone(theme.Tone),
			Examples: examples,
		})
	}
	return out
}

// normalizeTone also accepts the French labels the model tends to
// emit when classifying French headlines.
func normalizeTone(tone string) string {
	switch strings.ToLower(tone) {
	case models.TonePositive, "positif":
		return models.TonePositive
	case models.ToneNegative, "negatif", "négatif":
		return models.ToneNegative
	default:
		return models.ToneNeutral
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func clampScore(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
