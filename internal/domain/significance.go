package domain

import "fmt"

// SignificanceTest is the high-level comparison of two benchmark runs on a
// single metric: Welch's t-test plus effect size and a deterministic
// plain-language interpretation.
type SignificanceTest struct {
	Metric         Metric          `json:"metric"`
	TTest          TTestResult     `json:"t_test"`
	EffectSize     float64         `json:"effect_size"`
	Magnitude      EffectMagnitude `json:"magnitude"`
	PercentChange  float64         `json:"percent_change"`
	BaselineMean   float64         `json:"baseline_mean"`
	ComparisonMean float64         `json:"comparison_mean"`
	Improvement    bool            `json:"improvement"`
	Interpretation string          `json:"interpretation"`
}

// IsSignificantImprovement compares a baseline run against a comparison run
// on the named metric. The metric must belong to the closed enumeration;
// unrecognized names fail with ErrUnknownMetric, and sample-size failures
// propagate from the underlying t-test.
func (a *StatisticalAnalyzer) IsSignificantImprovement(
	baseline *BenchmarkResults,
	comparison *BenchmarkResults,
	metricName string,
) (SignificanceTest, error) {
	metric, err := ParseMetric(metricName)
	if err != nil {
		return SignificanceTest{}, err
	}

	baselineSample := baseline.MetricSample(metric)
	comparisonSample := comparison.MetricSample(metric)

	tTest, err := a.TTest(baselineSample, comparisonSample)
	if err != nil {
		return SignificanceTest{}, fmt.Errorf("comparing %s: %w", metric, err)
	}

	effectSize := a.CohensD(baselineSample, comparisonSample)
	degenerate := pooledStdDev(baselineSample, comparisonSample) == 0

	baselineMean := tTest.MeanA
	comparisonMean := tTest.MeanB

	var percentChange float64
	if baselineMean != 0 {
		percentChange = (comparisonMean - baselineMean) / baselineMean * 100
	}

	improvement := tTest.Significant && isImprovement(metric, baselineMean, comparisonMean)

	return SignificanceTest{
		Metric:         metric,
		TTest:          tTest,
		EffectSize:     effectSize,
		Magnitude:      ClassifyEffect(effectSize),
		PercentChange:  percentChange,
		BaselineMean:   baselineMean,
		ComparisonMean: comparisonMean,
		Improvement:    improvement,
		Interpretation: interpret(metric, tTest, effectSize, percentChange, improvement, degenerate),
	}, nil
}

func isImprovement(metric Metric, baselineMean, comparisonMean float64) bool {
	if metric.LowerIsBetter() {
		return comparisonMean < baselineMean
	}
	return comparisonMean > baselineMean
}

func interpret(
	metric Metric,
	tTest TTestResult,
	effectSize float64,
	percentChange float64,
	improvement bool,
	degenerate bool,
) string {
	var verdict string
	switch {
	case !tTest.Significant:
		verdict = fmt.Sprintf("No statistically significant difference in %s", metric)
	case improvement:
		verdict = fmt.Sprintf("Statistically significant improvement in %s", metric)
	default:
		verdict = fmt.Sprintf("Statistically significant regression in %s", metric)
	}

	text := fmt.Sprintf(
		"%s (p=%.4f). Effect size is %s (d=%.2f). %s changed by %.1f%% (from %.2f to %.2f).",
		verdict, tTest.PValue,
		ClassifyEffect(effectSize), effectSize,
		metric, percentChange,
		tTest.MeanA, tTest.MeanB,
	)

	if degenerate {
		text += " Effect size is undefined for zero-variance samples and is reported as 0."
	}

	return text
}
