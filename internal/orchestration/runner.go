// Package orchestration scores collected judge results against ground-truth
// ratings in batch.
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/llmrec/recjudge/internal/judgment"
	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/reward"
	"github.com/llmrec/recjudge/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker count used when none is configured.
const DefaultWorkers = 4

// Skip reasons recorded in models.SkippedRating.
const (
	SkipNoEvaluation   = "no evaluation for user"
	SkipNotRecommended = "movie was not recommended to user"
	SkipNoSubjective   = "no subjective judgment for movie"
	SkipNoLogic        = "no logic judgment for movie"
	SkipUnparseable    = "judge payload could not be parsed"
)

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventRunStart       EventType = "run_start"
	EventRecordComplete EventType = "record_complete"
	EventRecordSkipped  EventType = "record_skipped"
	EventRunComplete    EventType = "run_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType EventType
	Movie     string
	UserID    string
	Num       int
	Total     int
	Reward    float64
	Reason    string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers bounds the number of ratings scored at once.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithMovieFilters sets glob patterns used to filter ratings by movie title or ID.
func WithMovieFilters(patterns ...string) RunnerOption {
	return func(r *Runner) {
		r.movieFilters = patterns
	}
}

// WithSeed makes the bootstrap confidence interval reproducible.
func WithSeed(seed int64) RunnerOption {
	return func(r *Runner) {
		r.seed = &seed
	}
}

// Runner scores ratings against the judge results of the same user.
type Runner struct {
	composer     *reward.Composer
	workers      int
	movieFilters []string
	seed         *int64
	now          func() time.Time

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// NewRunner creates a new runner
func NewRunner(composer *reward.Composer, opts ...RunnerOption) *Runner {
	r := &Runner{
		composer: composer,
		workers:  DefaultWorkers,
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()

	for _, listener := range r.listeners {
		listener(event)
	}
}

type outcome struct {
	record  models.RewardRecord
	skipped string
}

// Run scores every rating whose user has an evaluation. Records keep the order
// of ratings. Ratings that cannot be scored are reported in Skipped.
func (r *Runner) Run(ctx context.Context, evals []models.Evaluation, ratings []models.Rating) (*models.RunSummary, error) {
	ratings, err := FilterRatings(ratings, r.movieFilters)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*userJudgments, len(evals))
	for i := range evals {
		uid := evals[i].User.UID
		if _, seen := byUser[uid]; seen {
			slog.Debug("duplicate evaluation for user, keeping the first", "user", uid)
			continue
		}
		byUser[uid] = newUserJudgments(evals[i])
	}

	r.notifyProgress(ProgressEvent{EventType: EventRunStart, Total: len(ratings)})

	outcomes := make([]outcome, len(ratings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, rating := range ratings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out := r.score(byUser[rating.UserID], rating)
			outcomes[i] = out

			if out.skipped != "" {
				r.notifyProgress(ProgressEvent{
					EventType: EventRecordSkipped,
					Movie:     rating.Movie,
					UserID:    rating.UserID,
					Num:       i + 1,
					Total:     len(ratings),
					Reason:    out.skipped,
				})
			} else {
				r.notifyProgress(ProgressEvent{
					EventType: EventRecordComplete,
					Movie:     rating.Movie,
					UserID:    rating.UserID,
					Num:       i + 1,
					Total:     len(ratings),
					Reward:    out.record.Reward,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	summary := r.summarize(ratings, outcomes)
	r.notifyProgress(ProgressEvent{EventType: EventRunComplete, Total: len(ratings)})
	return summary, nil
}

func (r *Runner) score(uj *userJudgments, rating models.Rating) outcome {
	if uj == nil {
		return outcome{skipped: SkipNoEvaluation}
	}
	if !recommends(uj.titles, rating.Movie) {
		return outcome{skipped: SkipNotRecommended}
	}
	if uj.subjective.IsEmpty() || uj.logic.IsEmpty() {
		return outcome{skipped: SkipUnparseable}
	}

	subj, ok := MatchMovie(uj.subjective, rating.Movie)
	if !ok {
		return outcome{skipped: SkipNoSubjective}
	}
	logic, ok := MatchMovie(uj.logic, rating.Movie)
	if !ok {
		return outcome{skipped: SkipNoLogic}
	}
	halluc, ok := MatchMovie(uj.hallucination, rating.Movie)
	if !ok {
		halluc = uj.hallucination
	}

	res := r.composer.Compute(subj, logic, halluc)
	return outcome{record: models.RewardRecord{
		UserID:     rating.UserID,
		MovieID:    rating.MovieID,
		MovieName:  rating.Movie,
		Reward:     res.Reward,
		UserRating: rating.Rating,
		Result:     res,
	}}
}

func (r *Runner) summarize(ratings []models.Rating, outcomes []outcome) *models.RunSummary {
	summary := &models.RunSummary{
		RunID:     uuid.NewString(),
		Timestamp: r.now().UTC(),
		Weights:   r.composer.Weights(),
		Records:   []models.RewardRecord{},
	}

	var actual, predicted []float64
	for i, out := range outcomes {
		if out.skipped != "" {
			summary.Skipped = append(summary.Skipped, models.SkippedRating{Rating: ratings[i], Reason: out.skipped})
			continue
		}
		summary.Records = append(summary.Records, out.record)
		actual = append(actual, out.record.UserRating)
		predicted = append(predicted, out.record.Reward)
	}

	residuals := statistics.Residuals(actual, predicted)
	if len(residuals) == 0 {
		return summary
	}

	summary.MAE = statistics.MAE(residuals)
	summary.StdDev = statistics.StdDev(residuals)
	summary.MeanError = statistics.Mean(residuals)
	if len(residuals) >= 2 {
		var ci statistics.ConfidenceInterval
		if r.seed != nil {
			ci = statistics.BootstrapCIWithSeed(residuals, statistics.DefaultConfidenceLevel, *r.seed)
		} else {
			ci = statistics.BootstrapCI(residuals, statistics.DefaultConfidenceLevel)
		}
		summary.ErrorCI = &ci
	}
	return summary
}

// userJudgments holds one user's decoded judge payloads.
type userJudgments struct {
	titles        []string
	subjective    judgment.Payload
	logic         judgment.Payload
	hallucination judgment.Payload
}

func newUserJudgments(e models.Evaluation) *userJudgments {
	titles := e.Recommendations
	if len(titles) == 0 {
		titles = ExtractTitles(e.Recommendation)
	}
	return &userJudgments{
		titles:        titles,
		subjective:    judgment.FromValue(e.SubjectiveResult),
		logic:         judgment.FromValue(e.LogicResult),
		hallucination: judgment.FromValue(e.HallucinationResult),
	}
}
