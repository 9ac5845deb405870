// Package pricing holds the default per-provider pricing catalogs.
// Rates are USD per 1K tokens as published by the providers; the registry
// itself is constructed and passed in by the caller so tests can substitute
// fixtures.
package pricing

import (
	"context"
	"fmt"

	"github.com/benchwise/benchwise/internal/domain"
)

// RegisterDefaults registers every known provider catalog with the registry.
func RegisterDefaults(ctx context.Context, registry domain.PricingRegistry) error {
	if err := RegisterOpenAI(ctx, registry); err != nil {
		return fmt.Errorf("openai catalog: %w", err)
	}
	if err := RegisterAnthropic(ctx, registry); err != nil {
		return fmt.Errorf("anthropic catalog: %w", err)
	}
	return nil
}
