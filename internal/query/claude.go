package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cusip-cli/pkg/anthropic"
	"github.com/sells-group/cusip-cli/pkg/customsearch"
)

const claudeSystemPrompt = "You are a financial data expert. Answer with a single JSON object in the requested format and nothing else."

// ClaudeService queries CUSIP attributes through Claude. Claude has no
// native web grounding here, so this service is most useful with Custom
// Search enabled: results are embedded in the prompt and provide both the
// evidence and the citation set.
type ClaudeService struct {
	llm           anthropic.Client
	model         string
	search        customsearch.Client
	searchTimeout time.Duration
	maxResults    int
}

// ClaudeOption configures a ClaudeService.
type ClaudeOption func(*ClaudeService)

// WithClaudeSearch enables Custom Search pre-fetch.
func WithClaudeSearch(c customsearch.Client, timeout time.Duration, maxResults int) ClaudeOption {
	return func(s *ClaudeService) {
		s.search = c
		s.searchTimeout = timeout
		s.maxResults = maxResults
	}
}

// NewClaudeService creates the Claude-backed query service.
func NewClaudeService(llm anthropic.Client, model string, opts ...ClaudeOption) *ClaudeService {
	s := &ClaudeService{
		llm:           llm,
		model:         model,
		searchTimeout: 30 * time.Second,
		maxResults:    10,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Query implements Service.
func (s *ClaudeService) Query(ctx context.Context, cusip string, attributes []string, trace func(string)) (*Response, error) {
	cusip, attributes, err := prepare(cusip, attributes)
	if err != nil {
		return nil, err
	}
	if trace == nil {
		trace = func(string) {}
	}

	var results []customsearch.Result
	var searchSources []string
	if s.search != nil {
		trace("[Query] Pre-fetching web search results...")
		searchCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()

		searchQuery := "CUSIP " + cusip + " " + strings.Join(attributes, " ")
		results, err = s.search.Search(searchCtx, searchQuery, s.maxResults)
		if err != nil {
			zap.L().Warn("custom search failed, continuing without results",
				zap.String("cusip", cusip), zap.Error(err))
			results = nil
		}
		for _, r := range results {
			if r.Link != "" {
				searchSources = append(searchSources, r.Link)
			}
		}
		trace(fmt.Sprintf("[Query] Retrieved %d search results", len(results)))
	}

	prompt := buildPrompt(cusip, attributes, results)
	trace(fmt.Sprintf("[Query] Prompt length: %d characters", len(prompt)))

	trace("[Query] Sending request to Claude...")
	resp, err := s.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: 8192,
		System:    claudeSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "query: claude lookup for cusip %s", cusip)
	}
	resp.Usage.LogCost(s.model, "cusip_lookup")

	text := resp.Text()
	trace(fmt.Sprintf("[Query] Response received: %d characters", len(text)))

	return &Response{
		Text:    text,
		Sources: searchSources,
	}, nil
}
