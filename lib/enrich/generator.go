package enrich

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = "claude-3-5-haiku-20241022"

// ErrAPIKeyRequired is returned when an API key is needed but not provided.
var ErrAPIKeyRequired = errors.New("API key required")

// TextGenerator produces free text from a prompt. The production
// implementation talks to the Anthropic API; tests swap in fakes.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnthropicGenerator implements TextGenerator on the Anthropic messages API.
// One request per call, no retry: the enrichment contract treats the service
// as an unreliable collaborator and falls back instead of hammering it.
type AnthropicGenerator struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicGenerator builds a generator. Env var ANTHROPIC_API_KEY takes
// precedence over the explicit apiKey.
func NewAnthropicGenerator(apiKey string) (*AnthropicGenerator, error) {
	envKey := os.Getenv("ANTHROPIC_API_KEY")
	if envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or provide via config", ErrAPIKeyRequired)
	}

	return &AnthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  defaultModel,
	}, nil
}

// Unavailable is a TextGenerator that always fails. Wiring it runs the
// whole pipeline on fallbacks, for when no API key is configured.
type Unavailable struct{}

func (Unavailable) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrAPIKeyRequired
}

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("unexpected response format: no content blocks")
	}
	content := message.Content[0]
	if content.Type != "text" {
		return "", fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
	}
	return content.Text, nil
}
