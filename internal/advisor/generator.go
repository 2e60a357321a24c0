package advisor

import "context"

// DefaultTemperature gives the analysis a small amount of controlled variation.
const DefaultTemperature float32 = 0.7

// Request is a single one-shot generation call.
type Request struct {
	Prompt            string
	SystemInstruction string
	Temperature       float32
	MaxTokens         int32
}

// Generator produces free-form text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
