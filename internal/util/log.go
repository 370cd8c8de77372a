// Package util collects small cross-cutting helpers, mirroring the
// teacher's internal/util package (context-scoped logging, simple value
// helpers).
package util

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogFromContext returns the zerolog.Logger attached to ctx (via
// WithLogger), or the global logger if none was attached — the same
// fallback every handler in this module relies on.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	if logger := zerolog.Ctx(ctx); logger.GetLevel() != zerolog.Disabled {
		return logger
	}
	return &log.Logger
}

// WithLogger attaches logger to ctx so a later LogFromContext call
// retrieves it.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}
