package domain

import "context"

// PricingConfig contains model pricing information.
type PricingConfig struct {
	InputCostPer1K  float64 // USD per 1K prompt tokens
	OutputCostPer1K float64 // USD per 1K completion tokens
}

// PricingRegistry maintains pricing information for models. It is an
// explicitly constructed configuration object, not process-global state,
// so tests can substitute fixtures.
type PricingRegistry interface {
	// GetPricing returns pricing config for a model. Fails with
	// ErrUnknownModel for identifiers that were never registered.
	GetPricing(ctx context.Context, model string) (PricingConfig, error)

	// RegisterPricing adds pricing for a model.
	RegisterPricing(ctx context.Context, model string, config PricingConfig) error
}
