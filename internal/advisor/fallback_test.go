package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackGenerator(t *testing.T) {
	primaryErr := errors.New("primary down")
	fallbackErr := errors.New("fallback down")

	tests := []struct {
		name     string
		primary  Generator
		fallback Generator
		want     string
		wantErr  error
	}{
		{
			name:     "primary succeeds",
			primary:  StaticGenerator{Text: "primary"},
			fallback: StaticGenerator{Text: "fallback"},
			want:     "primary",
		},
		{
			name:     "fallback used",
			primary:  &recordingGenerator{err: primaryErr},
			fallback: StaticGenerator{Text: "fallback"},
			want:     "fallback",
		},
		{
			name:    "no fallback configured",
			primary: &recordingGenerator{err: primaryErr},
			wantErr: primaryErr,
		},
		{
			name:     "both fail",
			primary:  &recordingGenerator{err: primaryErr},
			fallback: &recordingGenerator{err: fallbackErr},
			wantErr:  fallbackErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewFallbackGenerator(tt.primary, tt.fallback, nil)
			got, err := g.Generate(context.Background(), Request{Prompt: "p"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFallbackSkippedWhenContextDone(t *testing.T) {
	fallback := &recordingGenerator{text: "fallback"}
	g := NewFallbackGenerator(&recordingGenerator{err: errors.New("primary down")}, fallback, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, Request{Prompt: "p"})
	assert.Error(t, err)
	assert.Empty(t, fallback.reqs)
}

func TestStaticGeneratorDefaultText(t *testing.T) {
	text, err := StaticGenerator{}.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Contains(t, text, "Viability Roadmap")
}
