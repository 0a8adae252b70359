package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "first "},
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: "second"},
	}}
	assert.Equal(t, "first second", resp.Text())

	assert.Empty(t, (&MessageResponse{}).Text())
}

func TestTokenUsage_EstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 500_000}

	cost := usage.EstimateCost("claude-sonnet-4-5-20250929")
	assert.InDelta(t, 3.00+7.50, cost, 1e-9)

	cost = usage.EstimateCost("claude-haiku-4-5-20251001")
	assert.InDelta(t, 0.80+2.00, cost, 1e-9)

	assert.Zero(t, usage.EstimateCost("unknown-model"))
}
