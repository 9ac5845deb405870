package main

import (
	"context"
	"log"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	rediscache "github.com/benchwise/benchwise/internal/cache/redis"
	"github.com/benchwise/benchwise/internal/config"
	"github.com/benchwise/benchwise/internal/domain"
	"github.com/benchwise/benchwise/internal/http"
	"github.com/benchwise/benchwise/internal/http/middleware"
	"github.com/benchwise/benchwise/internal/observability"
	"github.com/benchwise/benchwise/internal/pricing"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func(logger *zap.Logger) domain.EventPublisher {
		return observability.NewEventBus(logger)
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Pricing Registry
	if err := container.Provide(func() domain.PricingRegistry {
		return domain.NewInMemoryPricingRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide pricing registry: %v", err)
	}

	// Register default catalogs (invoked for side effects)
	if err := container.Invoke(func(registry domain.PricingRegistry) error {
		return pricing.RegisterDefaults(context.Background(), registry)
	}); err != nil {
		log.Fatalf("Failed to register pricing catalogs: %v", err)
	}

	// Report Cache (optional, disabled unless Redis is configured)
	if err := container.Provide(func(cfg *config.RedisConfig) domain.ReportCache {
		if cfg.Addr == "" {
			return nil
		}

		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		return rediscache.NewReportCache(client, "benchwise")
	}); err != nil {
		log.Fatalf("Failed to provide report cache: %v", err)
	}

	// Analysis Engines
	if err := container.Provide(func(cfg *config.AnalysisConfig) (*domain.StatisticalAnalyzer, error) {
		return domain.NewStatisticalAnalyzer(cfg.ConfidenceLevel)
	}); err != nil {
		log.Fatalf("Failed to provide statistical analyzer: %v", err)
	}
	if err := container.Provide(func(
		cfg *config.AnalysisConfig,
		registry domain.PricingRegistry,
	) (*domain.CostOptimizer, error) {
		return domain.NewCostOptimizer(registry, cfg.QualityThreshold, cfg.MonthlyRequests)
	}); err != nil {
		log.Fatalf("Failed to provide cost optimizer: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewAnalysisService); err != nil {
		log.Fatalf("Failed to provide analysis service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
