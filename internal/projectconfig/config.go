// Package projectconfig provides the ProjectConfig struct and loader for
// .recjudge.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/llmrec/recjudge/internal/models"
	"github.com/llmrec/recjudge/internal/scoring"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the project configuration file.
const FileName = ".recjudge.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultWorkers  = 4
	DefaultOutput   = "rewards.json"
	DefaultStoreDir = ".recjudge"
)

// RewardConfig holds reward computation settings.
type RewardConfig struct {
	Weights       *models.WeightVector `yaml:"weights,omitempty"`
	DefaultScore  *float64             `yaml:"default_score,omitempty"`
	MetricWeights map[string]float64   `yaml:"metric_weights,omitempty"`
}

// RunConfig holds batch run settings.
type RunConfig struct {
	Workers int    `yaml:"workers,omitempty"`
	Output  string `yaml:"output,omitempty"`
	Verbose *bool  `yaml:"verbose,omitempty"`
}

// StoreConfig holds the weight store location.
type StoreConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .recjudge.yaml.
type ProjectConfig struct {
	Reward RewardConfig `yaml:"reward,omitempty"`
	Run    RunConfig    `yaml:"run,omitempty"`
	Store  StoreConfig  `yaml:"store,omitempty"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	w := models.DefaultWeights()
	return &ProjectConfig{
		Reward: RewardConfig{
			Weights:      &w,
			DefaultScore: floatPtr(scoring.DefaultScore),
		},
		Run: RunConfig{
			Workers: DefaultWorkers,
			Output:  DefaultOutput,
			Verbose: boolPtr(false),
		},
		Store: StoreConfig{
			Dir: DefaultStoreDir,
		},
	}
}

// Load finds .recjudge.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := fileCfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Path = path
	return cfg, nil
}

// StorePath resolves Store.Dir: relative directories are taken relative to
// the config file, or to the working directory without one.
func (c *ProjectConfig) StorePath() string {
	if filepath.IsAbs(c.Store.Dir) || c.Path == "" {
		return c.Store.Dir
	}
	return filepath.Join(filepath.Dir(c.Path), c.Store.Dir)
}

func (c *ProjectConfig) validate() error {
	if c.Reward.Weights != nil {
		if err := c.Reward.Weights.Validate(); err != nil {
			return fmt.Errorf("reward.weights: %w", err)
		}
	}
	if c.Reward.DefaultScore != nil && *c.Reward.DefaultScore < 0 {
		return fmt.Errorf("reward.default_score must be non-negative, got %g", *c.Reward.DefaultScore)
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("run.workers must be non-negative, got %d", c.Run.Workers)
	}
	return nil
}

// findConfigFile walks up from dir looking for .recjudge.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Reward
	if src.Reward.Weights != nil && !src.Reward.Weights.IsZero() {
		dst.Reward.Weights = src.Reward.Weights
	}
	if src.Reward.DefaultScore != nil {
		dst.Reward.DefaultScore = src.Reward.DefaultScore
	}
	if src.Reward.MetricWeights != nil {
		dst.Reward.MetricWeights = src.Reward.MetricWeights
	}

	// Run
	if src.Run.Workers != 0 {
		dst.Run.Workers = src.Run.Workers
	}
	if src.Run.Output != "" {
		dst.Run.Output = src.Run.Output
	}
	if src.Run.Verbose != nil {
		dst.Run.Verbose = src.Run.Verbose
	}

	// Store
	if src.Store.Dir != "" {
		dst.Store.Dir = src.Store.Dir
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func floatPtr(f float64) *float64 {
	return &f
}
