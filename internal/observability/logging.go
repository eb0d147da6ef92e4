// Package observability provides logging utilities.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/campredict/internal/config"
	"github.com/cory-johannsen/campredict/internal/game/camping"
)

// NewLogger creates a structured logger from the given logging configuration.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// PredictionFields returns the log fields describing one evaluation.
func PredictionFields(in camping.Input, p camping.Prediction) []zap.Field {
	fields := []zap.Field{
		zap.String("city_type", string(in.CityType)),
		zap.String("job", string(in.Job)),
		zap.Int("distance", in.Distance),
		zap.Int("zombies", in.Zombies),
		zap.Float64("raw_score", p.Score.Raw),
		zap.Float64("displayed_score", p.Score.Displayed),
		zap.Float64("delta", p.Score.Delta),
		zap.String("tier", p.Score.Tier.Severity),
		zap.Float64("defence_current", p.Defence.Current),
		zap.Float64("defence_maximum", p.Defence.Maximum),
	}
	if in.Building != "" {
		fields = append(fields, zap.String("building", in.Building))
	}
	return fields
}
