package domain

// TestResult represents one executed benchmark test case. Immutable once
// produced by the benchmark runner.
type TestResult struct {
	Model            string  `json:"model"`
	Category         string  `json:"category,omitempty"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	LatencyMS        float64 `json:"latency_ms"`
	Cost             float64 `json:"cost"`
	Success          bool    `json:"success"`
	Temperature      float64 `json:"temperature,omitempty"`
}

// TotalTokens returns prompt plus completion tokens.
func (t TestResult) TotalTokens() int {
	return t.PromptTokens + t.CompletionTokens
}

// BenchmarkResults is a named, versioned collection of test results for one
// benchmark run. The analysis engines never mutate it, only derive samples
// and aggregates from it.
type BenchmarkResults struct {
	Name    string       `json:"name"`
	Version string       `json:"version,omitempty"`
	Models  []string     `json:"models,omitempty"`
	Results []TestResult `json:"results"`
}

// MetricSample extracts the named metric from every test result as an
// ordered sample of observations.
func (b *BenchmarkResults) MetricSample(metric Metric) []float64 {
	accessor, ok := metricAccessors[metric]
	if !ok {
		return nil
	}

	sample := make([]float64, 0, len(b.Results))
	for _, result := range b.Results {
		sample = append(sample, accessor(result))
	}
	return sample
}
