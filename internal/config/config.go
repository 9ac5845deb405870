package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
)

// Config represents the analysis service configuration.
type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Analysis AnalysisConfig
	Redis    RedisConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// AnalysisConfig contains the knobs captured by the analysis engines at
// construction.
type AnalysisConfig struct {
	ConfidenceLevel  float64 `env:"ANALYSIS_CONFIDENCE_LEVEL"  envDefault:"0.95"`
	QualityThreshold float64 `env:"ANALYSIS_QUALITY_THRESHOLD" envDefault:"0.9"`
	MonthlyRequests  int     `env:"ANALYSIS_MONTHLY_REQUESTS"  envDefault:"100000"`
}

// RedisConfig contains settings for the optional report cache. The cache is
// disabled when Addr is empty.
type RedisConfig struct {
	Addr        string `env:"REDIS_ADDR"`
	Password    string `env:"REDIS_PASSWORD"`
	DB          int    `env:"REDIS_DB"            envDefault:"0"`
	CacheTTLSec int    `env:"REDIS_CACHE_TTL_SEC" envDefault:"3600"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*AnalysisConfig
	*RedisConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Analysis,
		&cfg.Redis,
	}
}
