package chat

import (
	"context"
	"fmt"

	"github.com/mediascope/visibility/internal/adapters/ai"
	"github.com/mediascope/visibility/pkg/models"
)

const systemPromptTemplate = `You are an analyst for a media visibility dashboard tracking French public figures.
Answer the user's question using ONLY the data below. If the data does not contain the answer, say so; never invent numbers or coverage.
Be concise and factual. Answer in the language of the question.

%s`

// Service answers free-form questions grounded in the current
// scoreboard and raw signals.
type Service struct {
	model ai.TextClassifier
}

// NewService creates a chat service over the given model.
func NewService(model ai.TextClassifier) *Service {
	return &Service{model: model}
}

// Enabled reports whether the underlying model has credentials.
func (s *Service) Enabled() bool {
	return s.model.IsEnabled()
}

// Ask answers one question against a data digest. The reply is the
// model's freeform text; no JSON extraction applies here.
func (s *Service) Ask(ctx context.Context, question string, board models.ScoreBoard, snapshots []models.SignalSnapshot, days int) (string, error) {
	if !s.model.IsEnabled() {
		return "", fmt.Errorf("chat model not configured")
	}

	digest := BuildContext(board, snapshots, days)
	return s.model.Classify(ctx, fmt.Sprintf(systemPromptTemplate, digest), question)
}
