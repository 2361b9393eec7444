package weights

import (
	"context"
	"errors"
	"time"

	"github.com/llmrec/recjudge/internal/models"
)

//go:generate go tool mockgen -source store.go -destination store_mocks_test.go -package weights

// ErrNotFound is returned when no weight vector has been saved yet.
var ErrNotFound = errors.New("weights not found")

// Feedback is one reviewer judgment and the adjustment it caused.
type Feedback struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Category  FeedbackCategory    `json:"category"`
	UserID    string              `json:"user_id,omitempty"`
	Movie     string              `json:"movie,omitempty"`
	Score     *float64            `json:"manual_score,omitempty"`
	Note      string              `json:"note,omitempty"`
	Before    models.WeightVector `json:"before"`
	After     models.WeightVector `json:"after"`
}

// Store persists the current weight vector and the feedback history.
type Store interface {
	// Load returns the saved weights, or ErrNotFound.
	Load(ctx context.Context) (models.WeightVector, error)

	// Save replaces the saved weights.
	Save(ctx context.Context, w models.WeightVector) error

	// AppendFeedback records a feedback event.
	AppendFeedback(ctx context.Context, fb Feedback) error

	// Feedback returns the recorded feedback events, oldest first.
	Feedback(ctx context.Context) ([]Feedback, error)
}
