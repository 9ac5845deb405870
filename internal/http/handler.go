package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/benchwise/benchwise/internal/domain"
	"github.com/benchwise/benchwise/internal/observability"
	"github.com/benchwise/benchwise/internal/report"
)

// Handler handles HTTP requests.
type Handler struct {
	service *domain.AnalysisService
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(service *domain.AnalysisService) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleCompare processes significance comparison requests.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx = observability.WithBenchmark(ctx, req.Baseline.Name)
	ctx = observability.WithMetric(ctx, req.Metric)

	logger := observability.FromContext(ctx)
	logger.Info("comparison request received",
		zap.String("metric", req.Metric),
		zap.Int("baseline_results", len(req.Baseline.Results)),
		zap.Int("comparison_results", len(req.Comparison.Results)),
	)

	test, err := h.service.Compare(ctx, &req)
	if err != nil {
		writeAnalysisError(w, logger, err)
		return
	}

	logger.Info("comparison succeeded",
		zap.Bool("significant", test.TTest.Significant),
		zap.Float64("p_value", test.TTest.PValue),
	)

	if r.URL.Query().Get("format") == "csv" {
		payload, renderErr := report.RenderSignificanceCSV(test)
		writeCSV(w, logger, payload, renderErr)
		return
	}

	writeJSON(w, logger, test)
}

// HandleRecommend processes model recommendation requests.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("recommendation request received",
		zap.Int("result_sets", len(req.Results)))

	recommendation, err := h.service.Recommend(ctx, &req)
	if err != nil {
		writeAnalysisError(w, logger, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		payload, renderErr := report.RenderRecommendationCSV(recommendation)
		writeCSV(w, logger, payload, renderErr)
		return
	}

	writeJSON(w, logger, recommendation)
}

// HandlePatterns processes expensive-pattern detection requests.
func (h *Handler) HandlePatterns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var results []domain.BenchmarkResults
	if err := json.NewDecoder(r.Body).Decode(&results); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	patterns := h.service.Patterns(ctx, results)

	logger.Info("pattern detection completed",
		zap.Int("patterns_found", len(patterns)))

	if r.URL.Query().Get("format") == "csv" {
		payload, renderErr := report.RenderPatternsCSV(patterns)
		writeCSV(w, logger, payload, renderErr)
		return
	}

	writeJSON(w, logger, patterns)
}

// HandleSuggestions processes prompt-optimization suggestion requests.
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var results domain.BenchmarkResults
	if err := json.NewDecoder(r.Body).Decode(&results); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx = observability.WithBenchmark(ctx, results.Name)
	logger := observability.FromContext(ctx)

	suggestions := h.service.Suggestions(ctx, &results)

	logger.Info("suggestion generation completed",
		zap.Int("suggestions", len(suggestions)))

	writeJSON(w, logger, suggestions)
}

// HandleSavings processes savings calculation requests.
func (h *Handler) HandleSavings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.SavingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("savings request received",
		zap.String("current_model", req.CurrentModel),
		zap.String("recommended_model", req.RecommendedModel),
	)

	savings, err := h.service.Savings(ctx, &req)
	if err != nil {
		writeAnalysisError(w, logger, err)
		return
	}

	writeJSON(w, logger, savings)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// writeAnalysisError maps the analysis failure taxonomy to HTTP status codes.
func writeAnalysisError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsInsufficientData(err), errors.Is(err, domain.ErrUnknownMetric):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownModel):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoModelsMeetThreshold):
		status = http.StatusUnprocessableEntity
	}

	logger.Error("analysis request failed", zap.Error(err))
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

func writeCSV(w http.ResponseWriter, logger *zap.Logger, payload []byte, renderErr error) {
	if renderErr != nil {
		logger.Error("failed to render csv", zap.Error(renderErr))
		http.Error(w, renderErr.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	_, _ = w.Write(payload)
}
