package ai

import (
	"context"
	"regexp"
	"strings"
)

// TextClassifier is the external language-classification collaborator.
// Its raw output is never trusted as well-formed JSON; callers extract
// and sanitize the payload themselves.
type TextClassifier interface {
	// Classify sends one system prompt plus user content and returns
	// the model's freeform text response.
	Classify(ctx context.Context, systemPrompt, userContent string) (string, error)

	// IsEnabled reports whether credentials are configured.
	IsEnabled() bool
}

var (
	fenceRe   = regexp.MustCompile("```(?:json)?\n?|\n?```")
	controlRe = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)
	objectRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON pulls the first JSON object out of a model response,
// stripping markdown fences, surrounding prose and control characters.
// Returns "{}" when no object is present.
func ExtractJSON(response string) string {
	clean := fenceRe.ReplaceAllString(response, "")
	clean = controlRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)

	if obj := objectRe.FindString(clean); obj != "" {
		return obj
	}
	return "{}"
}
