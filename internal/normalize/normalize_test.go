package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 50.0, Clamp(50, 0, 100))
	assert.Equal(t, 0.0, Clamp(-10, 0, 100))
	assert.Equal(t, 100.0, Clamp(250, 0, 100))
	assert.Equal(t, 0.0, Clamp(0, 0, 100))
	assert.Equal(t, 100.0, Clamp(100, 0, 100))
}

func TestClamp_NaNCollapsesToLowerBound(t *testing.T) {
	result := Clamp(math.NaN(), 0, 100)
	assert.False(t, math.IsNaN(result))
	assert.Equal(t, 0.0, result)
}

func TestWeightedSum(t *testing.T) {
	terms := []Term{
		{Value: 100, Weight: 0.5},
		{Value: 50, Weight: 0.2},
		{Value: 10, Weight: 0.3},
	}
	assert.InDelta(t, 63.0, WeightedSum(terms), 1e-9)

	assert.Equal(t, 0.0, WeightedSum(nil))
}

func TestBandOf(t *testing.T) {
	bands := []Band{
		{Min: 80, Label: "Critical"},
		{Min: 60, Label: "High"},
		{Min: 40, Label: "Medium"},
	}

	assert.Equal(t, "Critical", BandOf(95, bands, "Low"))
	assert.Equal(t, "Critical", BandOf(80, bands, "Low"))
	assert.Equal(t, "High", BandOf(79.999, bands, "Low"))
	assert.Equal(t, "High", BandOf(60, bands, "Low"))
	assert.Equal(t, "Medium", BandOf(40, bands, "Low"))
	assert.Equal(t, "Low", BandOf(39.999, bands, "Low"))
	assert.Equal(t, "Low", BandOf(0, bands, "Low"))
}

func TestMean_EmptyWindowIsNeutral(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{5}))
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestSafeRatio_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, SafeRatio(10, 0))
	assert.InDelta(t, 2.5, SafeRatio(5, 2), 1e-9)
}
