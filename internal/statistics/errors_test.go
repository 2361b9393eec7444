package statistics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	require.Equal(t, 0.0, Mean(nil))
	require.InDelta(t, 3.5, Mean([]float64{3, 4}), 1e-12)
}

func TestStdDev(t *testing.T) {
	require.Equal(t, 0.0, StdDev(nil))
	require.Equal(t, 0.0, StdDev([]float64{2, 2, 2}))
	// population standard deviation
	require.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}

func TestMAE(t *testing.T) {
	require.Equal(t, 0.0, MAE(nil))
	require.InDelta(t, 0.5, MAE(Residuals([]float64{4, 4}, []float64{3, 4})), 1e-12)
	require.InDelta(t, 1.0, MAE([]float64{-1, 1}), 1e-12)
}

func TestResiduals(t *testing.T) {
	require.Equal(t, []float64{1, -0.5}, Residuals([]float64{5, 3, 2}, []float64{4, 3.5}))
	require.Empty(t, Residuals(nil, []float64{1}))
}
