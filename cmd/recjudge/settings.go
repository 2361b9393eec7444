package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/projectconfig"
	"github.com/llmrec/recjudge/internal/reward"
	"github.com/llmrec/recjudge/internal/weights"
)

func loadProjectConfig() (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return projectconfig.Load(wd)
}

func checkFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q: must be text or json", format)
	}
	return nil
}

// parseWeights parses "subjective,logic,hallucination".
func parseWeights(s string) (models.WeightVector, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return models.WeightVector{}, fmt.Errorf("invalid weights %q: want three comma-separated numbers (subjective,logic,hallucination)", s)
	}

	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.WeightVector{}, fmt.Errorf("invalid weights %q: %w", s, err)
		}
		vals[i] = v
	}

	w := models.WeightVector{Subjective: vals[0], Logic: vals[1], Hallucination: vals[2]}
	if err := w.Validate(); err != nil {
		return models.WeightVector{}, fmt.Errorf("invalid weights %q: %w", s, err)
	}
	return w, nil
}

func configuredWeights(cfg *projectconfig.ProjectConfig) models.WeightVector {
	if cfg.Reward.Weights != nil {
		return *cfg.Reward.Weights
	}
	return models.DefaultWeights()
}

func resolveStoreDir(cfg *projectconfig.ProjectConfig, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.StorePath()
}

// resolveWeights picks the blend weights: an explicit --weights value, then
// weights tuned through feedback, then the config file.
// The store is only read if its directory already exists.
func resolveWeights(ctx context.Context, cfg *projectconfig.ProjectConfig, flagValue, storeDir string) (models.WeightVector, error) {
	if flagValue != "" {
		return parseWeights(flagValue)
	}

	fallback := configuredWeights(cfg)
	if _, err := os.Stat(storeDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fallback, nil
		}
		return models.WeightVector{}, fmt.Errorf("checking weight store: %w", err)
	}

	store, err := weights.OpenBadgerStore(storeDir)
	if err != nil {
		return models.WeightVector{}, err
	}
	defer store.Close()

	return weights.NewTuner(store, fallback).Current(ctx)
}

func newComposer(cfg *projectconfig.ProjectConfig, w models.WeightVector, verbose bool, report io.Writer) (*reward.Composer, error) {
	return reward.New(reward.Options{
		Weights:       w,
		DefaultScore:  cfg.Reward.DefaultScore,
		MetricWeights: cfg.Reward.MetricWeights,
		Verbose:       verbose,
		Report:        report,
	})
}
