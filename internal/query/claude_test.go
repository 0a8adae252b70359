package query

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cusip-cli/pkg/anthropic"
	"github.com/sells-group/cusip-cli/pkg/customsearch"
)

// fakeClaude records the request and returns a canned response.
type fakeClaude struct {
	resp *anthropic.MessageResponse
	err  error
	req  anthropic.MessageRequest
}

func (f *fakeClaude) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.req = req
	return f.resp, f.err
}

func claudeReply(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}
}

func TestClaudeService_Query(t *testing.T) {
	llm := &fakeClaude{resp: claudeReply(`{"cusip": "912828Z29"}`)}
	svc := NewClaudeService(llm, "claude-sonnet-4-5-20250929")

	resp, err := svc.Query(context.Background(), "912828z29", []string{"yield"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4-5-20250929", llm.req.Model)
	assert.EqualValues(t, 8192, llm.req.MaxTokens)
	assert.Contains(t, llm.req.System, "financial data expert")
	require.Len(t, llm.req.Messages, 1)
	assert.Equal(t, "user", llm.req.Messages[0].Role)
	assert.Contains(t, llm.req.Messages[0].Content, "CUSIP: 912828Z29")
	assert.Equal(t, `{"cusip": "912828Z29"}`, resp.Text)
	assert.Empty(t, resp.Sources)
}

func TestClaudeService_SearchProvidesSources(t *testing.T) {
	llm := &fakeClaude{resp: claudeReply("reply")}
	search := &fakeSearch{results: []customsearch.Result{
		{Title: "EMMA", Link: "https://emma.msrb.org/doc", Snippet: "Coupon 5.25%"},
	}}
	svc := NewClaudeService(llm, "claude-haiku-4-5-20251001",
		WithClaudeSearch(search, time.Second, 5))

	resp, err := svc.Query(context.Background(), "912828Z29", []string{"coupon rate"}, nil)
	require.NoError(t, err)

	assert.Contains(t, llm.req.Messages[0].Content, "Search Results Provided")
	assert.Equal(t, []string{"https://emma.msrb.org/doc"}, resp.Sources)
}

func TestClaudeService_SearchFailureTolerated(t *testing.T) {
	llm := &fakeClaude{resp: claudeReply("reply")}
	search := &fakeSearch{err: eris.New("quota exceeded")}
	svc := NewClaudeService(llm, "claude-haiku-4-5-20251001",
		WithClaudeSearch(search, time.Second, 5))

	resp, err := svc.Query(context.Background(), "912828Z29", nil, nil)
	require.NoError(t, err)
	assert.NotContains(t, llm.req.Messages[0].Content, "Search Results Provided")
	assert.Empty(t, resp.Sources)
}

func TestClaudeService_LLMError(t *testing.T) {
	llm := &fakeClaude{err: eris.New("overloaded")}
	svc := NewClaudeService(llm, "claude-haiku-4-5-20251001")

	_, err := svc.Query(context.Background(), "912828Z29", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "912828Z29")
}
