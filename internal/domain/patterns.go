package domain

import (
	"context"
	"fmt"
	"sort"
)

// Detection thresholds for expensive usage patterns.
const (
	longPromptThreshold      = 1000.0 // mean prompt tokens
	verboseResponseThreshold = 500.0  // mean completion tokens

	// A model is "indistinguishably cheaper" when its success rate is
	// within this margin of the expensive model while costing at most
	// half as much per request. A deliberate proxy: the optimizer never
	// calls the statistical analyzer.
	comparableSuccessMargin = 0.05
	cheaperCostRatio        = 0.5

	// Share of spend assumed recoverable by fixing miscalibrated sampling
	// settings (fewer retries on flaky deterministic tasks).
	retryOverheadRatio = 0.1
)

// PatternKind identifies a detectable expensive usage pattern.
type PatternKind string

const (
	PatternLongPrompts        PatternKind = "long_prompts"
	PatternVerboseResponses   PatternKind = "verbose_responses"
	PatternExpensiveModel     PatternKind = "expensive_model"
	PatternSuboptimalSettings PatternKind = "suboptimal_settings"
)

// ExpensivePattern is one detected recurring cost sink.
type ExpensivePattern struct {
	Kind             PatternKind `json:"kind"`
	Model            string      `json:"model,omitempty"`
	Category         string      `json:"category,omitempty"`
	Description      string      `json:"description"`
	PotentialSavings float64     `json:"potential_savings"`
}

// Categories whose outputs are expected to be deterministic; nonzero
// sampling temperature on these is flagged as a suboptimal setting.
//
//nolint:gochecknoglobals // Read-only category table
var deterministicCategories = map[string]bool{
	"extraction":     true,
	"classification": true,
	"code":           true,
	"math":           true,
	"sql":            true,
}

// patternRule is one independent detection heuristic. Rules are evaluated
// in declaration order and each may contribute zero or more patterns.
type patternRule func(ctx context.Context, o *CostOptimizer, aggs []modelAggregate, results []BenchmarkResults) []ExpensivePattern

//nolint:gochecknoglobals // Ordered rule table; evaluation order is part of the contract
var patternRules = []patternRule{
	detectLongPrompts,
	detectVerboseResponses,
	detectExpensiveModel,
	detectSuboptimalSettings,
}

// IdentifyExpensivePatterns scans aggregated statistics across the supplied
// historical result sets and reports every detected pattern. Pure
// reporting: absent or degenerate data yields an empty list, never an
// error.
func (o *CostOptimizer) IdentifyExpensivePatterns(
	ctx context.Context,
	historical []BenchmarkResults,
) []ExpensivePattern {
	aggregates := aggregateByModel(historical)
	if len(aggregates) == 0 {
		return nil
	}

	var patterns []ExpensivePattern
	for _, rule := range patternRules {
		patterns = append(patterns, rule(ctx, o, aggregates, historical)...)
	}
	return patterns
}

func detectLongPrompts(
	ctx context.Context,
	o *CostOptimizer,
	aggs []modelAggregate,
	_ []BenchmarkResults,
) []ExpensivePattern {
	var patterns []ExpensivePattern
	for _, agg := range aggs {
		if agg.MeanPromptTokens <= longPromptThreshold {
			continue
		}

		patterns = append(patterns, ExpensivePattern{
			Kind:  PatternLongPrompts,
			Model: agg.Model,
			Description: fmt.Sprintf(
				"%s averages %.0f prompt tokens per request (threshold %.0f); prompts could be trimmed",
				agg.Model, agg.MeanPromptTokens, longPromptThreshold,
			),
			PotentialSavings: o.tokenExcessSavings(
				ctx, agg.Model, agg.MeanPromptTokens-longPromptThreshold, true,
			),
		})
	}
	return patterns
}

func detectVerboseResponses(
	ctx context.Context,
	o *CostOptimizer,
	aggs []modelAggregate,
	_ []BenchmarkResults,
) []ExpensivePattern {
	var patterns []ExpensivePattern
	for _, agg := range aggs {
		if agg.MeanCompletionTokens <= verboseResponseThreshold {
			continue
		}

		patterns = append(patterns, ExpensivePattern{
			Kind:  PatternVerboseResponses,
			Model: agg.Model,
			Description: fmt.Sprintf(
				"%s averages %.0f completion tokens per response (threshold %.0f); consider a max_tokens cap",
				agg.Model, agg.MeanCompletionTokens, verboseResponseThreshold,
			),
			PotentialSavings: o.tokenExcessSavings(
				ctx, agg.Model, agg.MeanCompletionTokens-verboseResponseThreshold, false,
			),
		})
	}
	return patterns
}

func detectExpensiveModel(
	ctx context.Context,
	o *CostOptimizer,
	aggs []modelAggregate,
	results []BenchmarkResults,
) []ExpensivePattern {
	if len(aggs) < 2 {
		return nil
	}

	priciest := aggs[0]
	for _, agg := range aggs[1:] {
		if agg.MeanCost > priciest.MeanCost {
			priciest = agg
		}
	}

	for _, agg := range aggs {
		if agg.Model == priciest.Model {
			continue
		}
		if agg.MeanCost > priciest.MeanCost*cheaperCostRatio {
			continue
		}
		if priciest.SuccessRate-agg.SuccessRate > comparableSuccessMargin {
			continue
		}

		savings, err := o.CalculateSavings(ctx, priciest.Model, agg.Model, 0, results)
		if err != nil {
			savings = 0
		}

		return []ExpensivePattern{{
			Kind:  PatternExpensiveModel,
			Model: priciest.Model,
			Description: fmt.Sprintf(
				"%s succeeds %.1f%% of the time at $%.6f/request, but %s achieves %.1f%% at $%.6f/request",
				priciest.Model, priciest.SuccessRate*100, priciest.MeanCost,
				agg.Model, agg.SuccessRate*100, agg.MeanCost,
			),
			PotentialSavings: savings,
		}}
	}
	return nil
}

func detectSuboptimalSettings(
	_ context.Context,
	o *CostOptimizer,
	_ []modelAggregate,
	results []BenchmarkResults,
) []ExpensivePattern {
	type categoryStats struct {
		affected  int
		total     int
		totalCost float64
	}

	byCategory := make(map[string]*categoryStats)
	for i := range results {
		for _, r := range results[i].Results {
			if !deterministicCategories[r.Category] {
				continue
			}
			cs, ok := byCategory[r.Category]
			if !ok {
				cs = &categoryStats{}
				byCategory[r.Category] = cs
			}
			cs.total++
			if r.Temperature > 0 {
				cs.affected++
				cs.totalCost += r.Cost
			}
		}
	}

	categories := make([]string, 0, len(byCategory))
	for category, cs := range byCategory {
		if cs.affected > 0 {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	var patterns []ExpensivePattern
	for _, category := range categories {
		cs := byCategory[category]
		meanAffectedCost := cs.totalCost / float64(cs.affected)
		affectedShare := float64(cs.affected) / float64(cs.total)

		patterns = append(patterns, ExpensivePattern{
			Kind:     PatternSuboptimalSettings,
			Category: category,
			Description: fmt.Sprintf(
				"%d of %d %q requests ran with nonzero temperature on a deterministic-output task",
				cs.affected, cs.total, category,
			),
			PotentialSavings: affectedShare * meanAffectedCost *
				float64(o.monthlyRequests) * retryOverheadRatio,
		})
	}
	return patterns
}

// tokenExcessSavings prices the excess tokens above a threshold at the
// model's registry rate across the monthly request volume. Unknown models
// contribute zero rather than a bogus figure.
func (o *CostOptimizer) tokenExcessSavings(
	ctx context.Context,
	model string,
	excessTokens float64,
	prompt bool,
) float64 {
	pricing, err := o.pricing.GetPricing(ctx, model)
	if err != nil {
		return 0
	}

	rate := pricing.OutputCostPer1K
	if prompt {
		rate = pricing.InputCostPer1K
	}

	return excessTokens / tokensPerK * rate * float64(o.monthlyRequests)
}
