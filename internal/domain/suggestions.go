package domain

import (
	"context"
	"fmt"
)

// Effort is the qualitative implementation cost of a suggestion.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// OptimizationSuggestion is an actionable cost-reduction recommendation.
type OptimizationSuggestion struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	EstimatedSavings float64 `json:"estimated_savings"`
	Effort           Effort  `json:"effort"`
}

// suggestionRule is one independent heuristic producing zero or one
// suggestion from a single result set.
type suggestionRule func(ctx context.Context, o *CostOptimizer, aggs []modelAggregate, results *BenchmarkResults) (OptimizationSuggestion, bool)

//nolint:gochecknoglobals // Ordered rule table; output order follows rule order
var suggestionRules = []suggestionRule{
	suggestShorterPrompts,
	suggestResponseCap,
	suggestZeroTemperature,
	suggestCheaperModel,
}

// SuggestPromptOptimizations evaluates the heuristic rule set over one
// result set. Output order is rule evaluation order, not sorted by
// savings; sorting is the caller's concern. Deterministic for identical
// input, never fails.
func (o *CostOptimizer) SuggestPromptOptimizations(
	ctx context.Context,
	results *BenchmarkResults,
) []OptimizationSuggestion {
	if results == nil || len(results.Results) == 0 {
		return nil
	}

	aggregates := aggregateByModel([]BenchmarkResults{*results})

	var suggestions []OptimizationSuggestion
	for _, rule := range suggestionRules {
		if suggestion, ok := rule(ctx, o, aggregates, results); ok {
			suggestions = append(suggestions, suggestion)
		}
	}
	return suggestions
}

func suggestShorterPrompts(
	ctx context.Context,
	o *CostOptimizer,
	aggs []modelAggregate,
	_ *BenchmarkResults,
) (OptimizationSuggestion, bool) {
	for _, agg := range aggs {
		if agg.MeanPromptTokens <= longPromptThreshold {
			continue
		}

		return OptimizationSuggestion{
			Title: "Shorten prompts",
			Description: fmt.Sprintf(
				"Prompts for %s average %.0f tokens; restructure shared context or use fewer examples to get under %.0f",
				agg.Model, agg.MeanPromptTokens, longPromptThreshold,
			),
			EstimatedSavings: o.tokenExcessSavings(
				ctx, agg.Model, agg.MeanPromptTokens-longPromptThreshold, true,
			),
			Effort: EffortMedium,
		}, true
	}
	return OptimizationSuggestion{}, false
}

func suggestResponseCap(
	ctx context.Context,
	o *CostOptimizer,
	aggs []modelAggregate,
	_ *BenchmarkResults,
) (OptimizationSuggestion, bool) {
	for _, agg := range aggs {
		if agg.MeanCompletionTokens <= verboseResponseThreshold {
			continue
		}

		return OptimizationSuggestion{
			Title: "Cap response length",
			Description: fmt.Sprintf(
				"Responses from %s average %.0f tokens; set max_tokens and ask for terse output",
				agg.Model, agg.MeanCompletionTokens,
			),
			EstimatedSavings: o.tokenExcessSavings(
				ctx, agg.Model, agg.MeanCompletionTokens-verboseResponseThreshold, false,
			),
			Effort: EffortLow,
		}, true
	}
	return OptimizationSuggestion{}, false
}

func suggestZeroTemperature(
	_ context.Context,
	o *CostOptimizer,
	_ []modelAggregate,
	results *BenchmarkResults,
) (OptimizationSuggestion, bool) {
	affected := 0
	totalCost := 0.0
	for _, r := range results.Results {
		if deterministicCategories[r.Category] && r.Temperature > 0 {
			affected++
			totalCost += r.Cost
		}
	}
	if affected == 0 {
		return OptimizationSuggestion{}, false
	}

	meanCost := totalCost / float64(affected)
	share := float64(affected) / float64(len(results.Results))

	return OptimizationSuggestion{
		Title: "Use temperature 0 for deterministic tasks",
		Description: fmt.Sprintf(
			"%d requests in deterministic-output categories ran with nonzero temperature; zero it to cut retries",
			affected,
		),
		EstimatedSavings: share * meanCost * float64(o.monthlyRequests) * retryOverheadRatio,
		Effort:           EffortLow,
	}, true
}

func suggestCheaperModel(
	ctx context.Context,
	o *CostOptimizer,
	aggs []modelAggregate,
	results *BenchmarkResults,
) (OptimizationSuggestion, bool) {
	patterns := detectExpensiveModel(ctx, o, aggs, []BenchmarkResults{*results})
	if len(patterns) == 0 {
		return OptimizationSuggestion{}, false
	}

	pattern := patterns[0]
	return OptimizationSuggestion{
		Title:            "Switch to a cheaper model",
		Description:      pattern.Description,
		EstimatedSavings: pattern.PotentialSavings,
		Effort:           EffortHigh,
	}, true
}
