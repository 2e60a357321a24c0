package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockGenerator implements Generator with the Bedrock Converse API.
type BedrockGenerator struct {
	api     bedrockConverseAPI
	modelID string
}

// NewBedrockGenerator wraps a Converse-capable client.
func NewBedrockGenerator(api bedrockConverseAPI, modelID string) (*BedrockGenerator, error) {
	if api == nil {
		return nil, errors.New("advisor: bedrock client is required")
	}
	if strings.TrimSpace(modelID) == "" {
		return nil, errors.New("advisor: bedrock model id is required")
	}
	return &BedrockGenerator{api: api, modelID: modelID}, nil
}

// Generate sends the prompt as a single user turn.
func (g *BedrockGenerator) Generate(ctx context.Context, req Request) (string, error) {
	var system []brtypes.SystemContentBlock
	if strings.TrimSpace(req.SystemInstruction) != "" {
		system = append(system, &brtypes.SystemContentBlockMemberText{Value: req.SystemInstruction})
	}

	inference := &brtypes.InferenceConfiguration{
		Temperature: aws.Float32(req.Temperature),
	}
	if req.MaxTokens > 0 {
		inference.MaxTokens = aws.Int32(req.MaxTokens)
	}

	out, err := g.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		System:  system,
		Messages: []brtypes.Message{{
			Role: brtypes.ConversationRoleUser,
			Content: []brtypes.ContentBlock{
				&brtypes.ContentBlockMemberText{Value: req.Prompt},
			},
		}},
		InferenceConfig: inference,
	})
	if err != nil {
		return "", fmt.Errorf("advisor: bedrock converse failed: %w", err)
	}
	return bedrockText(out)
}

func bedrockText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil {
		return "", errors.New("advisor: bedrock response is nil")
	}
	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("advisor: bedrock response did not include a message output")
	}

	var builder strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
			builder.WriteString(text.Value)
		}
	}
	return builder.String(), nil
}
