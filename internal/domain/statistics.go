package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const minSampleSize = 2

// EffectMagnitude is the conventional interpretation band for Cohen's d.
// Used for interpretation text only, never for the significance decision.
type EffectMagnitude string

const (
	EffectNegligible EffectMagnitude = "negligible"
	EffectSmall      EffectMagnitude = "small"
	EffectMedium     EffectMagnitude = "medium"
	EffectLarge      EffectMagnitude = "large"
)

// ClassifyEffect maps an effect size to its magnitude band.
func ClassifyEffect(d float64) EffectMagnitude {
	switch abs := math.Abs(d); {
	case abs < 0.2:
		return EffectNegligible
	case abs < 0.5:
		return EffectSmall
	case abs < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// TTestResult holds the outcome of Welch's two-sample t-test.
type TTestResult struct {
	Statistic        float64 `json:"statistic"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	Significant      bool    `json:"significant"`
	MeanA            float64 `json:"mean_a"`
	MeanB            float64 `json:"mean_b"`
}

// MannWhitneyResult holds the outcome of the Mann-Whitney U test under the
// normal approximation.
type MannWhitneyResult struct {
	U           float64 `json:"u_statistic"`
	ZScore      float64 `json:"z_score"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// StatisticalAnalyzer runs two-sample hypothesis tests over benchmark
// samples. Every operation is a deterministic pure function of its inputs
// and the confidence level fixed at construction; instances are safe for
// concurrent use.
type StatisticalAnalyzer struct {
	confidenceLevel float64
}

// NewStatisticalAnalyzer creates an analyzer with the given confidence
// level, which must lie strictly inside (0, 1).
func NewStatisticalAnalyzer(confidenceLevel float64) (*StatisticalAnalyzer, error) {
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return nil, fmt.Errorf("confidence level must be in (0, 1), got %g", confidenceLevel)
	}

	return &StatisticalAnalyzer{confidenceLevel: confidenceLevel}, nil
}

// ConfidenceLevel returns the level fixed at construction.
func (a *StatisticalAnalyzer) ConfidenceLevel() float64 {
	return a.confidenceLevel
}

func validateSamples(sampleA, sampleB []float64) error {
	if len(sampleA) == 0 || len(sampleB) == 0 {
		return ErrEmptySample
	}
	if len(sampleA) < minSampleSize || len(sampleB) < minSampleSize {
		return ErrInsufficientData
	}
	return nil
}

// TTest runs Welch's unequal-variance two-sample t-test with the
// Welch-Satterthwaite degrees of freedom and a two-sided p-value from the
// Student-t distribution.
func (a *StatisticalAnalyzer) TTest(sampleA, sampleB []float64) (TTestResult, error) {
	if err := validateSamples(sampleA, sampleB); err != nil {
		return TTestResult{}, err
	}

	meanA := stat.Mean(sampleA, nil)
	meanB := stat.Mean(sampleB, nil)
	varA := stat.Variance(sampleA, nil)
	varB := stat.Variance(sampleB, nil)
	nA := float64(len(sampleA))
	nB := float64(len(sampleB))

	seSquared := varA/nA + varB/nB
	if seSquared == 0 {
		// Both samples are constant. Identical means trivially accept the
		// null; distinct constant samples differ with certainty.
		result := TTestResult{
			Statistic:        0,
			DegreesOfFreedom: nA + nB - minSampleSize,
			PValue:           1,
			Significant:      false,
			MeanA:            meanA,
			MeanB:            meanB,
		}
		if meanA != meanB {
			result.PValue = 0
			result.Significant = true
		}
		return result, nil
	}

	tStatistic := (meanA - meanB) / math.Sqrt(seSquared)

	df := seSquared * seSquared /
		((varA/nA)*(varA/nA)/(nA-1) + (varB/nB)*(varB/nB)/(nB-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * dist.CDF(-math.Abs(tStatistic))

	return TTestResult{
		Statistic:        tStatistic,
		DegreesOfFreedom: df,
		PValue:           pValue,
		Significant:      pValue < 1-a.confidenceLevel,
		MeanA:            meanA,
		MeanB:            meanB,
	}, nil
}

// MannWhitneyU runs the rank-sum test with average ranks for ties and the
// normal approximation with tie-corrected variance. No continuity
// correction is applied.
func (a *StatisticalAnalyzer) MannWhitneyU(sampleA, sampleB []float64) (MannWhitneyResult, error) {
	if err := validateSamples(sampleA, sampleB); err != nil {
		return MannWhitneyResult{}, err
	}

	nA := float64(len(sampleA))
	nB := float64(len(sampleB))
	n := nA + nB

	rankSumA, tieSum := rankSum(sampleA, sampleB)

	uA := rankSumA - nA*(nA+1)/2
	uB := nA*nB - uA
	u := math.Min(uA, uB)

	mean := nA * nB / 2
	variance := nA * nB / 12 * ((n + 1) - tieSum/(n*(n-1)))
	if variance <= 0 {
		// Every pooled value tied: no evidence of a difference.
		return MannWhitneyResult{U: u, ZScore: 0, PValue: 1, Significant: false}, nil
	}

	zScore := (u - mean) / math.Sqrt(variance)
	pValue := 2 * distuv.UnitNormal.CDF(-math.Abs(zScore))
	if pValue > 1 {
		pValue = 1
	}

	return MannWhitneyResult{
		U:           u,
		ZScore:      zScore,
		PValue:      pValue,
		Significant: pValue < 1-a.confidenceLevel,
	}, nil
}

// rankSum pools both samples, assigns average ranks to ties, and returns
// the rank sum of sampleA along with the tie-correction term sum(t^3 - t)
// over tie groups.
func rankSum(sampleA, sampleB []float64) (rankSumA, tieSum float64) {
	type observation struct {
		value float64
		fromA bool
	}

	pooled := make([]observation, 0, len(sampleA)+len(sampleB))
	for _, v := range sampleA {
		pooled = append(pooled, observation{value: v, fromA: true})
	}
	for _, v := range sampleB {
		pooled = append(pooled, observation{value: v, fromA: false})
	}

	sort.Slice(pooled, func(i, j int) bool { return pooled[i].value < pooled[j].value })

	for i := 0; i < len(pooled); {
		j := i
		for j < len(pooled) && pooled[j].value == pooled[i].value {
			j++
		}

		// Average rank across the tie group; ranks are 1-based.
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if pooled[k].fromA {
				rankSumA += avgRank
			}
		}

		if tieLen := float64(j - i); tieLen > 1 {
			tieSum += tieLen*tieLen*tieLen - tieLen
		}

		i = j
	}

	return rankSumA, tieSum
}

// CohensD computes the standardized mean difference using the pooled
// (n-1)-weighted standard deviation. It does not fail on degenerate input:
// zero pooled variance or undersized samples report an effect size of 0,
// a documented fallback rather than a division by zero.
func (a *StatisticalAnalyzer) CohensD(sampleA, sampleB []float64) float64 {
	if len(sampleA) < minSampleSize || len(sampleB) < minSampleSize {
		return 0
	}

	sd := pooledStdDev(sampleA, sampleB)
	if sd == 0 {
		return 0
	}

	return (stat.Mean(sampleA, nil) - stat.Mean(sampleB, nil)) / sd
}

func pooledStdDev(sampleA, sampleB []float64) float64 {
	nA := float64(len(sampleA))
	nB := float64(len(sampleB))

	pooledVariance := ((nA-1)*stat.Variance(sampleA, nil) + (nB-1)*stat.Variance(sampleB, nil)) /
		(nA + nB - 2)

	return math.Sqrt(pooledVariance)
}

// ConfidenceInterval returns the two-sided interval around the sample mean
// at the analyzer's confidence level.
func (a *StatisticalAnalyzer) ConfidenceInterval(sample []float64) (float64, float64, error) {
	return a.ConfidenceIntervalAt(sample, a.confidenceLevel)
}

// ConfidenceIntervalAt returns the two-sided interval around the sample
// mean at an explicit confidence level: mean +/- t-critical(n-1) * stderr.
func (a *StatisticalAnalyzer) ConfidenceIntervalAt(sample []float64, level float64) (float64, float64, error) {
	if level <= 0 || level >= 1 {
		return 0, 0, fmt.Errorf("confidence level must be in (0, 1), got %g", level)
	}
	if len(sample) == 0 {
		return 0, 0, ErrEmptySample
	}
	if len(sample) < minSampleSize {
		return 0, 0, ErrInsufficientData
	}

	n := float64(len(sample))
	mean := stat.Mean(sample, nil)
	stdErr := math.Sqrt(stat.Variance(sample, nil) / n)

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}
	tCritical := dist.Quantile(0.5 + level/2)

	margin := tCritical * stdErr
	return mean - margin, mean + margin, nil
}

// IsInsufficientData reports whether err is one of the sample-size failure
// modes.
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrEmptySample) || errors.Is(err, ErrInsufficientData)
}
