// Package llm - Gemini client via langchaingo's googleai bindings.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GoogleAIClient implements Client on top of langchaingo's GoogleAI model.
type GoogleAIClient struct {
	model *googleai.GoogleAI
}

// NewGoogleAIClient creates a Gemini-backed client.
func NewGoogleAIClient(ctx context.Context, apiKey, model string) (*GoogleAIClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	m, err := googleai.New(
		ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("googleai: init: %w", err)
	}
	return &GoogleAIClient{model: m}, nil
}

// Chat implements the Client interface. Gemini has no dedicated system role
// in this call path, so the system instruction is prepended to the prompt.
func (c *GoogleAIClient) Chat(ctx context.Context, system, user string) (string, error) {
	prompt := user
	if strings.TrimSpace(system) != "" {
		prompt = fmt.Sprintf("System Instructions: %s\n\nUser: %s", system, user)
	}
	completion, err := c.model.Call(ctx, prompt, llms.WithTemperature(0.1))
	if err != nil {
		return "", fmt.Errorf("googleai: %w", err)
	}
	return strings.TrimSpace(completion), nil
}
