package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/creativeiyke/agency-platform/internal/advisor"
	appconfig "github.com/creativeiyke/agency-platform/internal/config"
	"github.com/creativeiyke/agency-platform/pkg/logging"
)

// BuildGenerator wires the configured text generator, optionally chained to a
// fallback provider. The returned cleanup func releases provider clients.
func BuildGenerator(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (advisor.Generator, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	primary, closePrimary, err := buildProvider(ctx, cfg.GeneratorProvider, cfg, awsCfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("text generator configured", "provider", cfg.GeneratorProvider)

	if cfg.FallbackProvider == "" || cfg.FallbackProvider == cfg.GeneratorProvider {
		return primary, closePrimary, nil
	}
	fallback, closeFallback, err := buildProvider(ctx, cfg.FallbackProvider, cfg, awsCfg)
	if err != nil {
		logger.Warn("fallback generator disabled", "provider", cfg.FallbackProvider, "error", err)
		return primary, closePrimary, nil
	}
	logger.Info("fallback generator configured", "provider", cfg.FallbackProvider)
	cleanup := func() {
		closePrimary()
		closeFallback()
	}
	return advisor.NewFallbackGenerator(primary, fallback, logger.Component("generator")), cleanup, nil
}

func buildProvider(ctx context.Context, provider string, cfg *appconfig.Config, awsCfg aws.Config) (advisor.Generator, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gemini", "":
		gen, err := advisor.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return gen, func() { _ = gen.Close() }, nil
	case "bedrock":
		gen, err := advisor.NewBedrockGenerator(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
		if err != nil {
			return nil, nil, err
		}
		return gen, noop, nil
	case "static":
		return advisor.StaticGenerator{}, noop, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: %w: %q", errUnknownProvider, provider)
	}
}

var errUnknownProvider = errors.New("unknown generator provider")
