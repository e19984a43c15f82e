package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), "   ", "")
	assert.Error(t, err)
}

func TestGenerateTextNilGenerator(t *testing.T) {
	var g *Generator
	_, err := g.GenerateText(context.Background(), "hello")
	assert.Error(t, err)
}

func TestPlaceholderEchoesPrompt(t *testing.T) {
	out, err := Placeholder{}.GenerateText(context.Background(), "Write a job description for a Staff Engineer.")
	require.NoError(t, err)
	assert.Contains(t, out, "no AI provider configured")
	assert.Contains(t, out, "Staff Engineer")
}
