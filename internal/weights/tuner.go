package weights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/llmrec/recjudge/internal/models"
)

// Tuner applies reviewer feedback to the stored weight vector.
type Tuner struct {
	store    Store
	fallback models.WeightVector
	now      func() time.Time
}

// NewTuner creates a Tuner. fallback is used until weights have been saved;
// a zero fallback means the default weights.
func NewTuner(store Store, fallback models.WeightVector) *Tuner {
	if fallback.IsZero() {
		fallback = models.DefaultWeights()
	}
	return &Tuner{store: store, fallback: fallback, now: time.Now}
}

// Current returns the stored weights, or the fallback if none were saved.
func (t *Tuner) Current(ctx context.Context) (models.WeightVector, error) {
	w, err := t.store.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return t.fallback, nil
	}
	if err != nil {
		return models.WeightVector{}, fmt.Errorf("loading weights: %w", err)
	}
	return w, nil
}

// Apply adjusts the current weights for fb.Category, saves them, and records
// fb with its ID, timestamp and before/after vectors filled in.
func (t *Tuner) Apply(ctx context.Context, fb Feedback) (Feedback, error) {
	if _, ok := fb.Category.Stage(); !ok {
		return Feedback{}, fmt.Errorf("unknown feedback category %q", fb.Category)
	}

	before, err := t.Current(ctx)
	if err != nil {
		return Feedback{}, err
	}

	fb.ID = uuid.NewString()
	fb.Timestamp = t.now().UTC()
	fb.Before = before
	fb.After = Adjust(before, fb.Category)

	if err := t.store.Save(ctx, fb.After); err != nil {
		return Feedback{}, fmt.Errorf("saving weights: %w", err)
	}
	if err := t.store.AppendFeedback(ctx, fb); err != nil {
		return Feedback{}, fmt.Errorf("recording feedback: %w", err)
	}

	slog.Debug("weights adjusted", "category", fb.Category, "before", fb.Before.String(), "after", fb.After.String())
	return fb, nil
}
