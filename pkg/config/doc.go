// Package config loads configuration structs from environment variables.
//
// Structs declare their environment bindings with `env` and `envDefault` tags
// (parsed by github.com/caarlos0/env). The first Load call also reads a local
// .env file, if one exists, via github.com/joho/godotenv so development
// environments do not need exported variables.
//
//	type EvaluatorConfig struct {
//	    CacheTTLSeconds int  `env:"ENTITLEMENT_CACHE_TTL_SECONDS" envDefault:"3600"`
//	    GraceEnabled    bool `env:"ENABLE_GRACE_PERIOD_FOR_DOWNGRADES" envDefault:"false"`
//	}
//
//	var cfg EvaluatorConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// MustLoad panics on failure and suits configuration without which the
// application cannot start.
package config
