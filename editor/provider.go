package editor

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Provider abstracts the text-generation service that performs song edits,
// so tests and alternative backends can stand in for OpenAI.
type Provider interface {
	// Complete sends a system prompt and a user prompt and returns the raw
	// completion text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Reference generation parameters of the editing collaborator.
const (
	DefaultModel = openai.ChatModelGPT4

	temperature = 0.3
	maxTokens   = 4096
)

// OpenAIProvider implements Provider using OpenAI chat completions.
type OpenAIProvider struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIProvider creates a provider for the given API key; an empty model
// selects the reference default.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	p := &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
	}
	if p.model == "" {
		p.model = DefaultModel
	}
	return p
}

func (p *OpenAIProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
