// Package report renders analysis output records for download. Column
// order mirrors the JSON field names so downstream tooling sees one stable
// schema regardless of format.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/benchwise/benchwise/internal/domain"
)

// RenderSignificanceCSV renders one significance comparison as CSV.
func RenderSignificanceCSV(test *domain.SignificanceTest) ([]byte, error) {
	records := [][]string{
		{
			"metric", "statistic", "degrees_of_freedom", "p_value", "significant",
			"effect_size", "magnitude", "percent_change",
			"baseline_mean", "comparison_mean", "improvement",
		},
		{
			string(test.Metric),
			formatFloat(test.TTest.Statistic),
			formatFloat(test.TTest.DegreesOfFreedom),
			formatFloat(test.TTest.PValue),
			strconv.FormatBool(test.TTest.Significant),
			formatFloat(test.EffectSize),
			string(test.Magnitude),
			formatFloat(test.PercentChange),
			formatFloat(test.BaselineMean),
			formatFloat(test.ComparisonMean),
			strconv.FormatBool(test.Improvement),
		},
	}

	return render(records)
}

// RenderRecommendationCSV renders one cost recommendation as CSV.
func RenderRecommendationCSV(rec *domain.CostRecommendation) ([]byte, error) {
	records := [][]string{
		{
			"recommended_model", "quality_score", "mean_cost_per_request",
			"quality_delta", "monthly_savings", "annual_savings", "monthly_requests",
		},
		{
			rec.RecommendedModel,
			formatFloat(rec.QualityScore),
			formatFloat(rec.MeanCostPerRequest),
			formatFloat(rec.QualityDelta),
			formatFloat(rec.MonthlySavings),
			formatFloat(rec.AnnualSavings),
			strconv.Itoa(rec.MonthlyRequests),
		},
	}

	return render(records)
}

// RenderPatternsCSV renders detected expensive patterns as CSV, one row per
// pattern in detection order.
func RenderPatternsCSV(patterns []domain.ExpensivePattern) ([]byte, error) {
	records := [][]string{
		{"kind", "model", "category", "description", "potential_savings"},
	}
	for _, p := range patterns {
		records = append(records, []string{
			string(p.Kind),
			p.Model,
			p.Category,
			p.Description,
			formatFloat(p.PotentialSavings),
		})
	}

	return render(records)
}

func render(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
