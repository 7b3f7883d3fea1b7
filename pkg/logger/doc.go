// Package logger builds configured slog.Logger instances.
//
// The factory defaults to JSON output at INFO level, suitable for log
// aggregation in production. Options adjust level, format, destination, and
// static attributes:
//
//	log := logger.New(
//	    logger.WithProduction("entitlements"),
//	    logger.WithAttr(slog.String("region", "eu-west-1")),
//	)
//	log.Info("evaluator ready")
//
// WithDevelopment switches to human-readable text output at DEBUG level.
package logger
