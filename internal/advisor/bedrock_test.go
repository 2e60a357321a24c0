package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = params
	return f.out, f.err
}

func TestBedrockGenerate(t *testing.T) {
	api := &fakeConverse{out: &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role: brtypes.ConversationRoleAssistant,
			Content: []brtypes.ContentBlock{
				&brtypes.ContentBlockMemberText{Value: "Scale "},
				&brtypes.ContentBlockMemberText{Value: "calmly."},
			},
		}},
	}}
	g, err := NewBedrockGenerator(api, "anthropic.claude-3-haiku")
	require.NoError(t, err)

	text, err := g.Generate(context.Background(), Request{
		Prompt:            "brief",
		SystemInstruction: "rules",
		Temperature:       0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Scale calmly.", text)

	require.NotNil(t, api.input)
	assert.Equal(t, "anthropic.claude-3-haiku", aws.ToString(api.input.ModelId))
	require.Len(t, api.input.System, 1)
	require.Len(t, api.input.Messages, 1)
	assert.Equal(t, brtypes.ConversationRoleUser, api.input.Messages[0].Role)
	assert.InDelta(t, 0.7, aws.ToFloat32(api.input.InferenceConfig.Temperature), 0.0001)
	assert.Nil(t, api.input.InferenceConfig.MaxTokens)
}

func TestBedrockGenerateError(t *testing.T) {
	g, err := NewBedrockGenerator(&fakeConverse{err: errors.New("throttled")}, "model")
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Request{Prompt: "brief"})
	assert.ErrorContains(t, err, "throttled")
}

func TestBedrockGenerateUnexpectedOutput(t *testing.T) {
	g, err := NewBedrockGenerator(&fakeConverse{out: &bedrockruntime.ConverseOutput{}}, "model")
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Request{Prompt: "brief"})
	assert.Error(t, err)
}

func TestNewBedrockGeneratorValidation(t *testing.T) {
	_, err := NewBedrockGenerator(nil, "model")
	assert.Error(t, err)
	_, err = NewBedrockGenerator(&fakeConverse{}, " ")
	assert.Error(t, err)
}
