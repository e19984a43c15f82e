// Package ai wraps the Google GenAI client behind the marketplace's
// text-generation interface. Output is treated as opaque text; no feature
// branches on what the model says.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "paygo-hire/internal/common/errors"
)

const defaultModel = "gemini-2.0-flash"

// Generator produces text from prompts via the Gemini API.
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("genai api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Generator{client: client, modelName: model}, nil
}

// GenerateText sends the prompt and returns the concatenated textual reply.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", apperrors.NewTextGenerationFailedError(errors.New("generator is not initialized"))
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", apperrors.NewTextGenerationFailedError(errors.New("prompt must not be empty"))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", apperrors.NewTextGenerationFailedError(err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", apperrors.NewTextGenerationFailedError(errors.New("model returned an empty response"))
	}
	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

// Placeholder returns canned text for deployments without an API key, so
// the demo mode and tests do not need network access.
type Placeholder struct{}

func (Placeholder) GenerateText(_ context.Context, prompt string) (string, error) {
	return fmt.Sprintf("[generated text unavailable: no AI provider configured]\nPrompt was: %s", prompt), nil
}
