package pricing

import (
	"context"
	"fmt"

	"github.com/benchwise/benchwise/internal/domain"
)

const (
	// Claude 3 Opus pricing per 1K tokens
	claudeOpusInputCostPer1K  = 0.015
	claudeOpusOutputCostPer1K = 0.075

	// Claude 3 Sonnet pricing per 1K tokens
	claudeSonnetInputCostPer1K  = 0.003
	claudeSonnetOutputCostPer1K = 0.015

	// Claude 3 Haiku pricing per 1K tokens
	claudeHaikuInputCostPer1K  = 0.00025
	claudeHaikuOutputCostPer1K = 0.00125
)

// RegisterAnthropic registers published Anthropic model pricing with the registry.
func RegisterAnthropic(ctx context.Context, registry domain.PricingRegistry) error {
	models := map[string]domain.PricingConfig{
		"claude-3-opus": {
			InputCostPer1K:  claudeOpusInputCostPer1K,
			OutputCostPer1K: claudeOpusOutputCostPer1K,
		},
		"claude-3-sonnet": {
			InputCostPer1K:  claudeSonnetInputCostPer1K,
			OutputCostPer1K: claudeSonnetOutputCostPer1K,
		},
		"claude-3-haiku": {
			InputCostPer1K:  claudeHaikuInputCostPer1K,
			OutputCostPer1K: claudeHaikuOutputCostPer1K,
		},
	}

	for model, config := range models {
		if err := registry.RegisterPricing(ctx, model, config); err != nil {
			return fmt.Errorf("failed to register pricing for model %s: %w", model, err)
		}
	}

	return nil
}
