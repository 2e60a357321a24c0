package advisor

import (
	"context"
	"strings"
)

// StaticGenerator returns canned text. Used when no provider credentials are configured.
type StaticGenerator struct {
	Text string
}

// Generate returns the canned analysis, echoing nothing from the prompt.
func (g StaticGenerator) Generate(ctx context.Context, _ Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(g.Text) != "" {
		return g.Text, nil
	}
	return "Your brief points to a platform where reliability and clarity of experience matter equally. " +
		"We would begin with a focused discovery sprint, map the critical user journeys and define an " +
		"architecture that scales without rework. The full strategic breakdown is available in the " +
		"Viability Roadmap: unlock it to see the phased delivery plan.", nil
}
