package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/benchwise/benchwise/internal/domain"
)

func sampleGen(label string) func(*rapid.T) []float64 {
	return func(rt *rapid.T) []float64 {
		return rapid.SliceOfN(rapid.Float64Range(-1e6, 1e6), 2, 50).Draw(rt, label)
	}
}

func TestProperty_CohensD_Antisymmetry(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		analyzer, err := domain.NewStatisticalAnalyzer(0.95)
		require.NoError(rt, err)

		sampleA := sampleGen("sampleA")(rt)
		sampleB := sampleGen("sampleB")(rt)

		d := analyzer.CohensD(sampleA, sampleB)
		swapped := analyzer.CohensD(sampleB, sampleA)

		require.False(rt, math.IsNaN(d), "effect size must be defined")
		require.InDelta(rt, -d, swapped, math.Abs(d)*1e-9+1e-9,
			"CohensD must flip sign under argument swap")
	})
}

func TestProperty_TTest_SymmetryAndBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		analyzer, err := domain.NewStatisticalAnalyzer(0.95)
		require.NoError(rt, err)

		sampleA := sampleGen("sampleA")(rt)
		sampleB := sampleGen("sampleB")(rt)

		forward, err := analyzer.TTest(sampleA, sampleB)
		require.NoError(rt, err)
		reverse, err := analyzer.TTest(sampleB, sampleA)
		require.NoError(rt, err)

		require.GreaterOrEqual(rt, forward.PValue, 0.0)
		require.LessOrEqual(rt, forward.PValue, 1.0)
		require.InDelta(rt, forward.PValue, reverse.PValue, 1e-9,
			"two-sided p-value must not depend on argument order")
		require.InDelta(rt, -forward.Statistic, reverse.Statistic,
			math.Abs(forward.Statistic)*1e-9+1e-9)
	})
}

func TestProperty_MannWhitneyU_PValueBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		analyzer, err := domain.NewStatisticalAnalyzer(0.95)
		require.NoError(rt, err)

		sampleA := sampleGen("sampleA")(rt)
		sampleB := sampleGen("sampleB")(rt)

		result, err := analyzer.MannWhitneyU(sampleA, sampleB)
		require.NoError(rt, err)

		require.GreaterOrEqual(rt, result.PValue, 0.0)
		require.LessOrEqual(rt, result.PValue, 1.0)
		require.GreaterOrEqual(rt, result.U, 0.0)
		require.LessOrEqual(rt, result.U,
			float64(len(sampleA)*len(sampleB))/2,
			"min-U can never exceed half the product of sample sizes")
	})
}

func TestProperty_ConfidenceInterval_ContainsMean(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		analyzer, err := domain.NewStatisticalAnalyzer(0.95)
		require.NoError(rt, err)

		sample := sampleGen("sample")(rt)
		level := rapid.Float64Range(0.01, 0.99).Draw(rt, "level")

		lo, hi, err := analyzer.ConfidenceIntervalAt(sample, level)
		require.NoError(rt, err)

		mean := 0.0
		for _, v := range sample {
			mean += v
		}
		mean /= float64(len(sample))

		require.LessOrEqual(rt, lo, mean+1e-9)
		require.GreaterOrEqual(rt, hi, mean-1e-9)
	})
}
