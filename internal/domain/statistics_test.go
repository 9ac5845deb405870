package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchwise/benchwise/internal/domain"
)

var (
	baselineLatencies  = []float64{100, 110, 105, 95, 102}
	optimizedLatencies = []float64{90, 88, 92, 85, 87}
)

func newAnalyzer(t *testing.T, level float64) *domain.StatisticalAnalyzer {
	t.Helper()
	analyzer, err := domain.NewStatisticalAnalyzer(level)
	require.NoError(t, err)
	return analyzer
}

func TestNewStatisticalAnalyzer_ValidatesConfidenceLevel(t *testing.T) {
	tests := []struct {
		name        string
		level       float64
		expectError bool
	}{
		{name: "typical level", level: 0.95, expectError: false},
		{name: "low level", level: 0.5, expectError: false},
		{name: "zero", level: 0, expectError: true},
		{name: "one", level: 1, expectError: true},
		{name: "negative", level: -0.5, expectError: true},
		{name: "above one", level: 1.5, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewStatisticalAnalyzer(tt.level)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTTest_BenchmarkScenario(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	result, err := analyzer.TTest(baselineLatencies, optimizedLatencies)
	require.NoError(t, err)

	assert.True(t, result.Significant)
	assert.Less(t, result.PValue, 0.05)
	assert.Greater(t, result.PValue, 0.0)
	assert.InDelta(t, 5.0387, result.Statistic, 0.001)
	assert.InDelta(t, 102.4, result.MeanA, 0.0001)
	assert.InDelta(t, 88.4, result.MeanB, 0.0001)
	assert.Greater(t, result.DegreesOfFreedom, 2.0)
	assert.Less(t, result.DegreesOfFreedom, 8.0)
}

func TestTTest_IdenticalSamplesNotSignificant(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)
	sample := []float64{10, 12, 11, 13, 9}

	result, err := analyzer.TTest(sample, sample)
	require.NoError(t, err)

	assert.False(t, result.Significant)
	assert.InDelta(t, 0, result.Statistic, 1e-12)
	assert.InDelta(t, 1, result.PValue, 1e-9)
}

func TestTTest_ConstantSamples(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	t.Run("equal constants accept the null", func(t *testing.T) {
		result, err := analyzer.TTest([]float64{5, 5, 5}, []float64{5, 5, 5})
		require.NoError(t, err)
		assert.False(t, result.Significant)
		assert.InDelta(t, 1, result.PValue, 1e-12)
	})

	t.Run("distinct constants differ with certainty", func(t *testing.T) {
		result, err := analyzer.TTest([]float64{5, 5, 5}, []float64{7, 7, 7})
		require.NoError(t, err)
		assert.True(t, result.Significant)
		assert.InDelta(t, 0, result.PValue, 1e-12)
	})
}

func TestTTest_SampleSizeFailures(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)
	valid := []float64{1, 2, 3}

	tests := []struct {
		name     string
		sampleA  []float64
		sampleB  []float64
		expected error
	}{
		{name: "empty first sample", sampleA: []float64{}, sampleB: valid, expected: domain.ErrEmptySample},
		{name: "empty second sample", sampleA: valid, sampleB: nil, expected: domain.ErrEmptySample},
		{name: "single-element first sample", sampleA: []float64{1}, sampleB: valid, expected: domain.ErrInsufficientData},
		{name: "single-element second sample", sampleA: valid, sampleB: []float64{1}, expected: domain.ErrInsufficientData},
		// Emptiness is a distinct condition checked before the size check.
		{name: "empty beats insufficient", sampleA: []float64{}, sampleB: []float64{1}, expected: domain.ErrEmptySample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analyzer.TTest(tt.sampleA, tt.sampleB)
			require.ErrorIs(t, err, tt.expected)

			_, err = analyzer.MannWhitneyU(tt.sampleA, tt.sampleB)
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestMannWhitneyU_BenchmarkScenario(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	result, err := analyzer.MannWhitneyU(baselineLatencies, optimizedLatencies)
	require.NoError(t, err)

	// Complete separation: every optimized latency is below every baseline one.
	assert.InDelta(t, 0, result.U, 1e-12)
	assert.True(t, result.Significant)
	assert.Less(t, result.PValue, 0.05)
	assert.Negative(t, result.ZScore)
}

func TestMannWhitneyU_AgreesWithTTestOnDirection(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)
	higher := []float64{20, 22, 25, 19, 24, 23}
	lower := []float64{10, 14, 12, 11, 13, 15}

	tTest, err := analyzer.TTest(higher, lower)
	require.NoError(t, err)
	mw, err := analyzer.MannWhitneyU(higher, lower)
	require.NoError(t, err)

	// Mean of the first sample exceeds the second, so the t statistic is
	// positive and the min-U belongs to the lower-ranked group.
	assert.Positive(t, tTest.Statistic)
	assert.Negative(t, mw.ZScore)
	assert.Less(t, mw.PValue, 0.05)
}

func TestMannWhitneyU_TiedSamples(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	t.Run("all values tied reports no difference", func(t *testing.T) {
		result, err := analyzer.MannWhitneyU([]float64{3, 3, 3}, []float64{3, 3, 3})
		require.NoError(t, err)
		assert.False(t, result.Significant)
		assert.InDelta(t, 1, result.PValue, 1e-12)
		assert.InDelta(t, 0, result.ZScore, 1e-12)
	})

	t.Run("partial ties use average ranks", func(t *testing.T) {
		result, err := analyzer.MannWhitneyU([]float64{1, 2, 2, 3}, []float64{2, 3, 3, 4})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.PValue, 0.0)
		assert.LessOrEqual(t, result.PValue, 1.0)
		assert.False(t, result.Significant)
	})
}

func TestCohensD(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	t.Run("benchmark scenario has a large effect", func(t *testing.T) {
		d := analyzer.CohensD(baselineLatencies, optimizedLatencies)
		assert.Greater(t, d, 0.8)
		assert.Equal(t, domain.EffectLarge, domain.ClassifyEffect(d))
	})

	t.Run("sign flips under argument swap", func(t *testing.T) {
		d := analyzer.CohensD(baselineLatencies, optimizedLatencies)
		swapped := analyzer.CohensD(optimizedLatencies, baselineLatencies)
		assert.InDelta(t, -d, swapped, 1e-12)
	})

	t.Run("zero pooled variance reports zero", func(t *testing.T) {
		assert.Zero(t, analyzer.CohensD([]float64{4, 4, 4}, []float64{4, 4, 4}))
		assert.Zero(t, analyzer.CohensD([]float64{4, 4, 4}, []float64{6, 6, 6}))
	})

	t.Run("undersized samples report zero", func(t *testing.T) {
		assert.Zero(t, analyzer.CohensD([]float64{1}, []float64{2, 3}))
		assert.Zero(t, analyzer.CohensD(nil, []float64{2, 3}))
	})
}

func TestClassifyEffect_Bands(t *testing.T) {
	tests := []struct {
		d        float64
		expected domain.EffectMagnitude
	}{
		{d: 0, expected: domain.EffectNegligible},
		{d: 0.19, expected: domain.EffectNegligible},
		{d: 0.2, expected: domain.EffectSmall},
		{d: -0.35, expected: domain.EffectSmall},
		{d: 0.5, expected: domain.EffectMedium},
		{d: -0.79, expected: domain.EffectMedium},
		{d: 0.8, expected: domain.EffectLarge},
		{d: -3.2, expected: domain.EffectLarge},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, domain.ClassifyEffect(tt.d), "d=%g", tt.d)
	}
}

func TestConfidenceInterval(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	t.Run("bounds straddle the mean", func(t *testing.T) {
		lo, hi, err := analyzer.ConfidenceInterval(baselineLatencies)
		require.NoError(t, err)
		assert.LessOrEqual(t, lo, 102.4)
		assert.GreaterOrEqual(t, hi, 102.4)
	})

	t.Run("higher level widens the interval", func(t *testing.T) {
		lo95, hi95, err := analyzer.ConfidenceIntervalAt(baselineLatencies, 0.95)
		require.NoError(t, err)
		lo99, hi99, err := analyzer.ConfidenceIntervalAt(baselineLatencies, 0.99)
		require.NoError(t, err)

		assert.Less(t, lo99, lo95)
		assert.Greater(t, hi99, hi95)
	})

	t.Run("empty sample fails", func(t *testing.T) {
		_, _, err := analyzer.ConfidenceInterval(nil)
		require.ErrorIs(t, err, domain.ErrEmptySample)
	})

	t.Run("single-element sample fails", func(t *testing.T) {
		_, _, err := analyzer.ConfidenceInterval([]float64{42})
		require.ErrorIs(t, err, domain.ErrInsufficientData)
	})

	t.Run("invalid level fails", func(t *testing.T) {
		_, _, err := analyzer.ConfidenceIntervalAt(baselineLatencies, 1.0)
		require.Error(t, err)
	})
}
