package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cusip-cli/pkg/customsearch"
	"github.com/sells-group/cusip-cli/pkg/gemini"
)

// GeminiService queries CUSIP attributes through Gemini with search
// grounding. When a Custom Search client is configured, results are
// pre-fetched and embedded in the prompt instead of relying on the model's
// own grounding search, and their links are merged into the citation set.
type GeminiService struct {
	llm           gemini.Client
	search        customsearch.Client
	searchTimeout time.Duration
	maxResults    int
}

// GeminiOption configures a GeminiService.
type GeminiOption func(*GeminiService)

// WithSearch enables Custom Search pre-fetch.
func WithSearch(c customsearch.Client, timeout time.Duration, maxResults int) GeminiOption {
	return func(s *GeminiService) {
		s.search = c
		s.searchTimeout = timeout
		s.maxResults = maxResults
	}
}

// NewGeminiService creates the Gemini-backed query service.
func NewGeminiService(llm gemini.Client, opts ...GeminiOption) *GeminiService {
	s := &GeminiService{
		llm:           llm,
		searchTimeout: 30 * time.Second,
		maxResults:    10,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Query implements Service.
func (s *GeminiService) Query(ctx context.Context, cusip string, attributes []string, trace func(string)) (*Response, error) {
	cusip, attributes, err := prepare(cusip, attributes)
	if err != nil {
		return nil, err
	}
	if trace == nil {
		trace = func(string) {}
	}

	results, searchSources := s.preSearch(ctx, cusip, attributes, trace)

	prompt := buildPrompt(cusip, attributes, results)
	trace(fmt.Sprintf("[Query] Prompt length: %d characters", len(prompt)))
	trace(fmt.Sprintf("[Query] Requested attributes: %s", strings.Join(attributes, ", ")))

	trace("[Query] Sending request to Gemini...")
	resp, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, eris.Wrapf(err, "query: gemini lookup for cusip %s", cusip)
	}

	text := resp.Text()
	grounding := resp.GroundingSources()
	trace(fmt.Sprintf("[Query] Response received: %d characters, %d grounding sources", len(text), len(grounding)))

	zap.L().Info("gemini query complete",
		zap.String("cusip", cusip),
		zap.Int("response_chars", len(text)),
		zap.Int("grounding_sources", len(grounding)),
		zap.Int("search_sources", len(searchSources)),
	)

	return &Response{
		Text:    text,
		Sources: mergeSources(grounding, searchSources),
	}, nil
}

// preSearch runs the optional Custom Search pre-fetch. Search failures are
// logged and ignored; the query proceeds on grounding alone.
func (s *GeminiService) preSearch(ctx context.Context, cusip string, attributes []string, trace func(string)) ([]customsearch.Result, []string) {
	if s.search == nil {
		trace("[Query] Using Gemini search grounding")
		return nil, nil
	}

	trace("[Query] Pre-fetching web search results...")
	searchCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	searchQuery := "CUSIP " + cusip + " " + strings.Join(attributes, " ")
	results, err := s.search.Search(searchCtx, searchQuery, s.maxResults)
	if err != nil {
		zap.L().Warn("custom search failed, continuing without results",
			zap.String("cusip", cusip), zap.Error(err))
		trace("[Query] Search failed, continuing without pre-fetched results")
		return nil, nil
	}

	sources := make([]string, 0, len(results))
	for _, r := range results {
		if r.Link != "" {
			sources = append(sources, r.Link)
		}
	}
	trace(fmt.Sprintf("[Query] Retrieved %d search results", len(results)))
	return results, sources
}
