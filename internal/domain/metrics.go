package domain

import "fmt"

// Metric identifies a numeric field of TestResult that can be compared
// between benchmark runs. The set is a closed enumeration mapped to
// accessor functions; unrecognized names fail with ErrUnknownMetric.
type Metric string

const (
	MetricLatency          Metric = "latency"
	MetricCost             Metric = "cost"
	MetricPromptTokens     Metric = "prompt_tokens"
	MetricCompletionTokens Metric = "completion_tokens"
	MetricTotalTokens      Metric = "total_tokens"
	MetricSuccess          Metric = "success"
)

//nolint:gochecknoglobals // Read-only accessor table for the metric enumeration
var metricAccessors = map[Metric]func(TestResult) float64{
	MetricLatency:          func(r TestResult) float64 { return r.LatencyMS },
	MetricCost:             func(r TestResult) float64 { return r.Cost },
	MetricPromptTokens:     func(r TestResult) float64 { return float64(r.PromptTokens) },
	MetricCompletionTokens: func(r TestResult) float64 { return float64(r.CompletionTokens) },
	MetricTotalTokens:      func(r TestResult) float64 { return float64(r.TotalTokens()) },
	MetricSuccess: func(r TestResult) float64 {
		if r.Success {
			return 1
		}
		return 0
	},
}

// ParseMetric resolves a metric name to a known Metric. "tokens" is accepted
// as an alias for total_tokens.
func ParseMetric(name string) (Metric, error) {
	if name == "tokens" {
		return MetricTotalTokens, nil
	}

	metric := Metric(name)
	if _, ok := metricAccessors[metric]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return metric, nil
}

// LowerIsBetter reports whether a decrease in the metric is an improvement.
// Holds for latency, cost and token counts; success rate improves upward.
func (m Metric) LowerIsBetter() bool {
	return m != MetricSuccess
}
