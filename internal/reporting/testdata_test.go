package reporting

import (
	"time"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/statistics"
)

func newTestSummary() *models.RunSummary {
	w := models.DefaultWeights()
	stage := func(kind models.StageKind, score float64, defaulted bool) models.StageResult {
		return models.StageResult{Kind: kind, Score: score, Extracted: 2, Defaulted: defaulted}
	}

	return &models.RunSummary{
		RunID:     "run-1",
		Timestamp: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Weights:   w,
		Records: []models.RewardRecord{
			{
				UserID: "1", MovieID: 6, MovieName: "Heat (1995)", Reward: 4.57, UserRating: 5,
				Result: models.RewardResult{
					Subjective:    stage(models.StageSubjective, 4.67, false),
					Logic:         stage(models.StageLogic, 4, false),
					Hallucination: stage(models.StageHallucination, 5, false),
					Weights:       w,
					Weighted:      4.57,
					Reward:        4.57,
				},
			},
			{
				UserID: "1", MovieID: 608, MovieName: "Fargo (1996)", Reward: 3.6, UserRating: 1,
				Result: models.RewardResult{
					Subjective:    stage(models.StageSubjective, 3, false),
					Logic:         stage(models.StageLogic, 3, false),
					Hallucination: stage(models.StageHallucination, 5, true),
					Weights:       w,
					Weighted:      3.6,
					Reward:        3.6,
				},
			},
		},
		Skipped: []models.SkippedRating{
			{Rating: models.Rating{UserID: "3", Movie: "Alien (1979)", Rating: 4}, Reason: "no evaluation for user"},
		},
		MAE:       1.515,
		StdDev:    1.085,
		MeanError: -0.585,
		ErrorCI:   &statistics.ConfidenceInterval{Lower: -2.6, Upper: 0.43, Mean: -0.585, ConfidenceLevel: 0.95},
	}
}
