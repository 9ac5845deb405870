package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchwise/benchwise/internal/domain"
)

func latencyResults(name string, latencies []float64) *domain.BenchmarkResults {
	results := make([]domain.TestResult, 0, len(latencies))
	for _, latency := range latencies {
		results = append(results, domain.TestResult{
			Model:            "gpt-4",
			PromptTokens:     400,
			CompletionTokens: 150,
			LatencyMS:        latency,
			Cost:             0.02,
			Success:          true,
		})
	}

	return &domain.BenchmarkResults{Name: name, Version: "1", Results: results}
}

func TestIsSignificantImprovement_LatencyScenario(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	baseline := latencyResults("baseline", baselineLatencies)
	optimized := latencyResults("optimized", optimizedLatencies)

	test, err := analyzer.IsSignificantImprovement(baseline, optimized, "latency")
	require.NoError(t, err)

	assert.Equal(t, domain.MetricLatency, test.Metric)
	assert.True(t, test.TTest.Significant)
	assert.Less(t, test.TTest.PValue, 0.05)
	assert.Greater(t, test.EffectSize, 0.8)
	assert.Equal(t, domain.EffectLarge, test.Magnitude)
	assert.True(t, test.Improvement)
	assert.InDelta(t, 102.4, test.BaselineMean, 0.0001)
	assert.InDelta(t, 88.4, test.ComparisonMean, 0.0001)
	assert.InDelta(t, -13.67, test.PercentChange, 0.01)

	assert.Contains(t, test.Interpretation, "Statistically significant improvement in latency")
	assert.Contains(t, test.Interpretation, "Effect size is large")
	assert.Contains(t, test.Interpretation, "from 102.40 to 88.40")
}

func TestIsSignificantImprovement_RegressionDirection(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	// Latency rose sharply: significant, but not an improvement.
	baseline := latencyResults("baseline", optimizedLatencies)
	regressed := latencyResults("regressed", baselineLatencies)

	test, err := analyzer.IsSignificantImprovement(baseline, regressed, "latency")
	require.NoError(t, err)

	assert.True(t, test.TTest.Significant)
	assert.False(t, test.Improvement)
	assert.Contains(t, test.Interpretation, "Statistically significant regression in latency")
}

func TestIsSignificantImprovement_SuccessMetricImprovesUpward(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	mostlyFailing := &domain.BenchmarkResults{Name: "before"}
	mostlyPassing := &domain.BenchmarkResults{Name: "after"}
	for i := 0; i < 40; i++ {
		mostlyFailing.Results = append(mostlyFailing.Results, domain.TestResult{
			Model:   "gpt-3.5-turbo",
			Success: i%4 == 0,
		})
		mostlyPassing.Results = append(mostlyPassing.Results, domain.TestResult{
			Model:   "gpt-3.5-turbo",
			Success: i%10 != 0,
		})
	}

	test, err := analyzer.IsSignificantImprovement(mostlyFailing, mostlyPassing, "success")
	require.NoError(t, err)

	assert.True(t, test.TTest.Significant)
	assert.True(t, test.Improvement)
	assert.Greater(t, test.ComparisonMean, test.BaselineMean)
}

func TestIsSignificantImprovement_NoDifference(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	baseline := latencyResults("a", []float64{100, 101, 99, 100, 100})
	comparison := latencyResults("b", []float64{100, 99, 101, 100, 100})

	test, err := analyzer.IsSignificantImprovement(baseline, comparison, "latency")
	require.NoError(t, err)

	assert.False(t, test.TTest.Significant)
	assert.False(t, test.Improvement)
	assert.Contains(t, test.Interpretation, "No statistically significant difference in latency")
}

func TestIsSignificantImprovement_Failures(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)
	valid := latencyResults("valid", baselineLatencies)

	tests := []struct {
		name       string
		baseline   *domain.BenchmarkResults
		comparison *domain.BenchmarkResults
		metric     string
		expected   error
	}{
		{
			name:       "unknown metric",
			baseline:   valid,
			comparison: valid,
			metric:     "vibes",
			expected:   domain.ErrUnknownMetric,
		},
		{
			name:       "empty comparison set",
			baseline:   valid,
			comparison: &domain.BenchmarkResults{Name: "empty"},
			metric:     "latency",
			expected:   domain.ErrEmptySample,
		},
		{
			name:       "single-result baseline",
			baseline:   latencyResults("tiny", []float64{100}),
			comparison: valid,
			metric:     "cost",
			expected:   domain.ErrInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analyzer.IsSignificantImprovement(tt.baseline, tt.comparison, tt.metric)
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected domain.Metric
		wantErr  bool
	}{
		{name: "latency", input: "latency", expected: domain.MetricLatency},
		{name: "cost", input: "cost", expected: domain.MetricCost},
		{name: "tokens alias", input: "tokens", expected: domain.MetricTotalTokens},
		{name: "prompt tokens", input: "prompt_tokens", expected: domain.MetricPromptTokens},
		{name: "success", input: "success", expected: domain.MetricSuccess},
		{name: "unknown", input: "throughput", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metric, err := domain.ParseMetric(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnknownMetric)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, metric)
		})
	}
}

func TestIsSignificantImprovement_ZeroVarianceCaveat(t *testing.T) {
	analyzer := newAnalyzer(t, 0.95)

	baseline := latencyResults("constant-a", []float64{100, 100, 100})
	comparison := latencyResults("constant-b", []float64{90, 90, 90})

	test, err := analyzer.IsSignificantImprovement(baseline, comparison, "latency")
	require.NoError(t, err)

	assert.Zero(t, test.EffectSize)
	assert.Contains(t, test.Interpretation, "zero-variance")
}
