package statistics

import (
	"math"
	"math/rand"
	"sort"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// DefaultConfidenceLevel is used by the run report.
const DefaultConfidenceLevel = 0.95

// BootstrapCI computes a percentile bootstrap confidence interval for the mean of values.
// confidenceLevel should be in (0, 1), e.g. 0.95.
// With fewer than 2 values the interval collapses onto the mean.
func BootstrapCI(values []float64, confidenceLevel float64) ConfidenceInterval {
	return BootstrapCIWithSeed(values, confidenceLevel, -1)
}

// BootstrapCIWithSeed is like BootstrapCI but accepts a seed for reproducibility.
// A negative seed uses a non-deterministic source.
func BootstrapCIWithSeed(values []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	n := len(values)
	m := Mean(values)
	if n < 2 {
		return ConfidenceInterval{
			Lower:           m,
			Upper:           m,
			Mean:            m,
			ConfidenceLevel: confidenceLevel,
		}
	}

	var rng *rand.Rand
	if seed >= 0 {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	iters := DefaultBootstrapIterations
	bootMeans := make([]float64, iters)
	sample := make([]float64, n)
	for i := 0; i < iters; i++ {
		for j := 0; j < n; j++ {
			sample[j] = values[rng.Intn(n)]
		}
		bootMeans[i] = Mean(sample)
	}

	sort.Float64s(bootMeans)

	alpha := 1.0 - confidenceLevel
	loIdx := int(math.Floor(alpha / 2.0 * float64(iters)))
	hiIdx := int(math.Floor((1.0 - alpha/2.0) * float64(iters)))
	if hiIdx >= iters {
		hiIdx = iters - 1
	}

	return ConfidenceInterval{
		Lower:           bootMeans[loIdx],
		Upper:           bootMeans[hiIdx],
		Mean:            m,
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}
}

// IsSignificant returns true if the confidence interval does not contain zero.
// For an interval over rating residuals this means the rewards are biased.
func IsSignificant(ci ConfidenceInterval) bool {
	return ci.Lower > 0 || ci.Upper < 0
}
