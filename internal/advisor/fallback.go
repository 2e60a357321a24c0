package advisor

import (
	"context"

	"github.com/creativeiyke/agency-platform/pkg/logging"
)

// FallbackGenerator tries a secondary provider when the primary fails.
type FallbackGenerator struct {
	primary  Generator
	fallback Generator
	logger   *logging.Logger
}

// NewFallbackGenerator chains primary and fallback. A nil fallback disables the second attempt.
func NewFallbackGenerator(primary, fallback Generator, logger *logging.Logger) *FallbackGenerator {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackGenerator{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Generate calls the primary, then the fallback on error.
func (g *FallbackGenerator) Generate(ctx context.Context, req Request) (string, error) {
	text, err := g.primary.Generate(ctx, req)
	if err == nil {
		return text, nil
	}

	g.logger.Warn("primary generator failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", g.fallback != nil,
	)
	if g.fallback == nil || ctx.Err() != nil {
		return "", err
	}

	text, fallbackErr := g.fallback.Generate(ctx, req)
	if fallbackErr != nil {
		g.logger.Error("fallback generator also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return "", fallbackErr
	}
	return text, nil
}
