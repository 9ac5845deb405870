package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benchwise/benchwise/internal/observability"
)

const reportCacheTTL = 1 * time.Hour

// CompareRequest asks for a significance comparison of two benchmark runs
// on one metric.
type CompareRequest struct {
	Baseline   BenchmarkResults `json:"baseline"`
	Comparison BenchmarkResults `json:"comparison"`
	Metric     string           `json:"metric"`
}

// RecommendRequest asks for a cost recommendation across result sets.
type RecommendRequest struct {
	Results []BenchmarkResults `json:"results"`
}

// SavingsRequest asks for the monthly saving of a model switch.
type SavingsRequest struct {
	CurrentModel     string             `json:"current_model"`
	RecommendedModel string             `json:"recommended_model"`
	MonthlyRequests  int                `json:"monthly_requests"`
	Results          []BenchmarkResults `json:"results,omitempty"`
}

// SavingsReport is the response to a SavingsRequest.
type SavingsReport struct {
	CurrentModel     string  `json:"current_model"`
	RecommendedModel string  `json:"recommended_model"`
	MonthlyRequests  int     `json:"monthly_requests"`
	MonthlySavings   float64 `json:"monthly_savings"`
}

// AnalysisService fronts the pure analysis engines for the serving layer:
// it validates requests, consults the optional report cache, and publishes
// events. The engines themselves never log or touch I/O.
type AnalysisService struct {
	analyzer  *StatisticalAnalyzer
	optimizer *CostOptimizer
	cache     ReportCache
	events    EventPublisher
}

// NewAnalysisService creates the service (DI constructor). cache and events
// may be nil, which disables the respective concern.
func NewAnalysisService(
	analyzer *StatisticalAnalyzer,
	optimizer *CostOptimizer,
	cache ReportCache,
	events EventPublisher,
) *AnalysisService {
	return &AnalysisService{
		analyzer:  analyzer,
		optimizer: optimizer,
		cache:     cache,
		events:    events,
	}
}

// Compare runs the significance comparison, serving from the report cache
// when an identical request was answered recently.
func (s *AnalysisService) Compare(ctx context.Context, req *CompareRequest) (*SignificanceTest, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)

	key, cacheable := s.cacheKey("compare", req)
	if cacheable {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var test SignificanceTest
			if unmarshalErr := json.Unmarshal(cached, &test); unmarshalErr == nil {
				logger.Info("report cache hit",
					observability.String("metric", req.Metric))
				return &test, nil
			}
		} else if !errors.Is(err, ErrCacheMiss) {
			logger.Warn("report cache get failed, recomputing",
				observability.Error(err))
		}
	}

	test, err := s.analyzer.IsSignificantImprovement(&req.Baseline, &req.Comparison, req.Metric)
	if err != nil {
		return nil, fmt.Errorf("significance comparison failed: %w", err)
	}

	if cacheable {
		if payload, marshalErr := json.Marshal(test); marshalErr == nil {
			if setErr := s.cache.Set(ctx, key, payload, reportCacheTTL); setErr != nil {
				logger.Warn("report cache set failed",
					observability.Error(setErr))
			}
		}
	}

	s.publish(ctx, "analysis.compare.completed", map[string]interface{}{
		"metric":      string(test.Metric),
		"significant": test.TTest.Significant,
		"p_value":     test.TTest.PValue,
	})

	return &test, nil
}

// Recommend runs the quality-constrained cost recommendation.
func (s *AnalysisService) Recommend(ctx context.Context, req *RecommendRequest) (*CostRecommendation, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	recommendation, err := s.optimizer.RecommendModel(req.Results)
	if err != nil {
		return nil, fmt.Errorf("model recommendation failed: %w", err)
	}

	s.publish(ctx, "analysis.recommend.completed", map[string]interface{}{
		"recommended_model": recommendation.RecommendedModel,
		"monthly_savings":   recommendation.MonthlySavings,
	})

	return &recommendation, nil
}

// Patterns runs expensive-pattern detection over historical result sets.
func (s *AnalysisService) Patterns(ctx context.Context, results []BenchmarkResults) []ExpensivePattern {
	patterns := s.optimizer.IdentifyExpensivePatterns(ctx, results)

	s.publish(ctx, "analysis.patterns.completed", map[string]interface{}{
		"patterns_found": len(patterns),
	})

	return patterns
}

// Suggestions runs the prompt-optimization rule set over one result set.
func (s *AnalysisService) Suggestions(ctx context.Context, results *BenchmarkResults) []OptimizationSuggestion {
	return s.optimizer.SuggestPromptOptimizations(ctx, results)
}

// Savings computes the monthly saving of a model switch.
func (s *AnalysisService) Savings(ctx context.Context, req *SavingsRequest) (*SavingsReport, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.CurrentModel == "" || req.RecommendedModel == "" {
		return nil, errors.New("both current and recommended model are required")
	}

	savings, err := s.optimizer.CalculateSavings(
		ctx, req.CurrentModel, req.RecommendedModel, req.MonthlyRequests, req.Results,
	)
	if err != nil {
		return nil, fmt.Errorf("savings calculation failed: %w", err)
	}

	monthlyRequests := req.MonthlyRequests
	if monthlyRequests <= 0 {
		monthlyRequests = s.optimizer.monthlyRequests
	}

	return &SavingsReport{
		CurrentModel:     req.CurrentModel,
		RecommendedModel: req.RecommendedModel,
		MonthlyRequests:  monthlyRequests,
		MonthlySavings:   savings,
	}, nil
}

// cacheKey derives a stable digest for a request. Reports false when the
// cache is disabled or the request cannot be serialized.
func (s *AnalysisService) cacheKey(operation string, req any) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", false
	}

	digest := sha256.Sum256(payload)
	return fmt.Sprintf("report:%s:%s", operation, hex.EncodeToString(digest[:])), true
}

func (s *AnalysisService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, eventType, data)
}
