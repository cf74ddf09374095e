package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/yedamo-ai/yedamo/pkg/models"
)

const bedrockAnthropicVersion = "bedrock-2023-05-31"

// modelInvoker is the subset of the Bedrock runtime client used here.
type modelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Bedrock invokes an Anthropic model hosted on Amazon Bedrock.
type Bedrock struct {
	client modelInvoker
	model  string
}

// NewBedrock loads AWS credentials from the default chain.
func NewBedrock(ctx context.Context, region, model string) (*Bedrock, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Bedrock{client: bedrockruntime.NewFromConfig(awsCfg), model: model}, nil
}

func (b *Bedrock) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(models.BedrockAnthropicRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        maxTokens,
		Messages:         []models.ChatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke model: %w", err)
	}

	var resp models.AnthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	text, ok := resp.FirstText()
	if !ok {
		return "", fmt.Errorf("no text content in response")
	}
	return strings.TrimSpace(text), nil
}
