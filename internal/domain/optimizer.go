package domain

import (
	"context"
	"fmt"
	"sort"
)

const (
	tokensPerK      = 1000.0
	monthsPerYear   = 12
	defaultRequests = 100000

	// Reference per-request token mix used when a model has no observed
	// token data in the supplied results. An explicit modeling choice, not
	// a measurement.
	referencePromptTokens     = 500.0
	referenceCompletionTokens = 200.0
)

// CostRecommendation is the optimizer's answer to "which model should I
// run, given my quality floor".
type CostRecommendation struct {
	RecommendedModel   string  `json:"recommended_model"`
	QualityScore       float64 `json:"quality_score"`
	MeanCostPerRequest float64 `json:"mean_cost_per_request"`
	QualityDelta       float64 `json:"quality_delta"`
	MonthlySavings     float64 `json:"monthly_savings"`
	AnnualSavings      float64 `json:"annual_savings"`
	MonthlyRequests    int     `json:"monthly_requests"`
	Reasoning          string  `json:"reasoning"`
}

// CostOptimizer recommends models under a quality constraint and estimates
// where money is being wasted. Pure compute: the pricing registry and the
// quality threshold are captured at construction, and no call mutates any
// shared state.
type CostOptimizer struct {
	pricing          PricingRegistry
	qualityThreshold float64
	monthlyRequests  int
}

// NewCostOptimizer creates an optimizer. The quality threshold must lie in
// (0, 1]; monthlyRequests <= 0 falls back to the default volume assumption.
func NewCostOptimizer(pricing PricingRegistry, qualityThreshold float64, monthlyRequests int) (*CostOptimizer, error) {
	if qualityThreshold <= 0 || qualityThreshold > 1 {
		return nil, fmt.Errorf("quality threshold must be in (0, 1], got %g", qualityThreshold)
	}
	if pricing == nil {
		return nil, fmt.Errorf("pricing registry is required")
	}
	if monthlyRequests <= 0 {
		monthlyRequests = defaultRequests
	}

	return &CostOptimizer{
		pricing:          pricing,
		qualityThreshold: qualityThreshold,
		monthlyRequests:  monthlyRequests,
	}, nil
}

// modelAggregate holds per-model means derived from one or more result sets.
type modelAggregate struct {
	Model                string
	Requests             int
	SuccessRate          float64
	MeanCost             float64
	MeanPromptTokens     float64
	MeanCompletionTokens float64
}

// aggregateByModel derives per-model aggregates across result sets, sorted
// by model name so downstream selection is deterministic.
func aggregateByModel(results []BenchmarkResults) []modelAggregate {
	type accumulator struct {
		requests         int
		successes        int
		cost             float64
		promptTokens     int
		completionTokens int
	}

	byModel := make(map[string]*accumulator)
	for i := range results {
		for _, r := range results[i].Results {
			acc, ok := byModel[r.Model]
			if !ok {
				acc = &accumulator{}
				byModel[r.Model] = acc
			}
			acc.requests++
			if r.Success {
				acc.successes++
			}
			acc.cost += r.Cost
			acc.promptTokens += r.PromptTokens
			acc.completionTokens += r.CompletionTokens
		}
	}

	aggregates := make([]modelAggregate, 0, len(byModel))
	for model, acc := range byModel {
		n := float64(acc.requests)
		aggregates = append(aggregates, modelAggregate{
			Model:                model,
			Requests:             acc.requests,
			SuccessRate:          float64(acc.successes) / n,
			MeanCost:             acc.cost / n,
			MeanPromptTokens:     float64(acc.promptTokens) / n,
			MeanCompletionTokens: float64(acc.completionTokens) / n,
		})
	}

	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Model < aggregates[j].Model
	})
	return aggregates
}

// RecommendModel picks the cheapest model whose observed success rate meets
// the quality threshold. The threshold filter runs before any cost
// comparison so a cheap-but-broken model can never win. Fails with
// ErrNoModelsMeetThreshold when no model qualifies.
func (o *CostOptimizer) RecommendModel(results []BenchmarkResults) (CostRecommendation, error) {
	aggregates := aggregateByModel(results)

	eligible := make([]modelAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.SuccessRate >= o.qualityThreshold {
			eligible = append(eligible, agg)
		}
	}

	if len(eligible) == 0 {
		return CostRecommendation{}, fmt.Errorf(
			"%w (threshold %.2f, %d models observed)",
			ErrNoModelsMeetThreshold, o.qualityThreshold, len(aggregates),
		)
	}

	cheapest := eligible[0]
	bestQuality := eligible[0]
	priciest := eligible[0]
	for _, agg := range eligible[1:] {
		if agg.MeanCost < cheapest.MeanCost {
			cheapest = agg
		}
		if agg.SuccessRate > bestQuality.SuccessRate {
			bestQuality = agg
		}
		if agg.MeanCost > priciest.MeanCost {
			priciest = agg
		}
	}

	monthly := (priciest.MeanCost - cheapest.MeanCost) * float64(o.monthlyRequests)

	reasoning := fmt.Sprintf(
		"%s meets the %.0f%% quality floor at %.2f%% success and the lowest mean cost "+
			"($%.6f/request). Switching from %s ($%.6f/request) saves $%.2f/month at %d requests.",
		cheapest.Model, o.qualityThreshold*100, cheapest.SuccessRate*100,
		cheapest.MeanCost, priciest.Model, priciest.MeanCost,
		monthly, o.monthlyRequests,
	)

	return CostRecommendation{
		RecommendedModel:   cheapest.Model,
		QualityScore:       cheapest.SuccessRate,
		MeanCostPerRequest: cheapest.MeanCost,
		QualityDelta:       cheapest.SuccessRate - bestQuality.SuccessRate,
		MonthlySavings:     monthly,
		AnnualSavings:      monthly * monthsPerYear,
		MonthlyRequests:    o.monthlyRequests,
		Reasoning:          reasoning,
	}, nil
}

// CalculateSavings estimates the monthly saving of moving the given request
// volume from currentModel to recommendedModel. Price per request applies
// registry rates to each model's observed mean token counts in results,
// falling back to the documented reference token mix when a model has no
// observed data. Fails with ErrUnknownModel when either model is missing
// from the registry.
func (o *CostOptimizer) CalculateSavings(
	ctx context.Context,
	currentModel string,
	recommendedModel string,
	monthlyRequests int,
	results []BenchmarkResults,
) (float64, error) {
	if monthlyRequests <= 0 {
		monthlyRequests = o.monthlyRequests
	}

	aggregates := aggregateByModel(results)

	currentPrice, err := o.pricePerRequest(ctx, currentModel, aggregates)
	if err != nil {
		return 0, err
	}

	recommendedPrice, err := o.pricePerRequest(ctx, recommendedModel, aggregates)
	if err != nil {
		return 0, err
	}

	return (currentPrice - recommendedPrice) * float64(monthlyRequests), nil
}

// pricePerRequest computes the registry-rate cost of one request for a
// model at its observed (or reference) token mix.
func (o *CostOptimizer) pricePerRequest(
	ctx context.Context,
	model string,
	aggregates []modelAggregate,
) (float64, error) {
	pricing, err := o.pricing.GetPricing(ctx, model)
	if err != nil {
		return 0, err
	}

	promptTokens := referencePromptTokens
	completionTokens := referenceCompletionTokens
	for _, agg := range aggregates {
		if agg.Model == model && agg.Requests > 0 {
			promptTokens = agg.MeanPromptTokens
			completionTokens = agg.MeanCompletionTokens
			break
		}
	}

	return promptTokens/tokensPerK*pricing.InputCostPer1K +
		completionTokens/tokensPerK*pricing.OutputCostPer1K, nil
}
