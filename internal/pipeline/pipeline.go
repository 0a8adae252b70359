// Package pipeline turns raw model output for a CUSIP query into a typed
// AnalysisResult: it locates JSON embedded in the response, maps it into the
// attribute/maturity data model, computes the weighted average maturity, and
// degrades to regex text extraction when no structured data can be recovered.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/cusip-cli/internal/model"
	"github.com/sells-group/cusip-cli/internal/query"
)

// wamAttributes is the fixed attribute set for WAM-only queries.
var wamAttributes = []string{
	"weighted average maturity (WAM)",
	"maturity dates",
	"principal amounts",
}

// Pipeline sequences one CUSIP query end to end. It is stateless and safe
// for concurrent use provided the query service is.
type Pipeline struct {
	svc      query.Service
	patterns []AttributePattern
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPatterns replaces the default text-fallback pattern table.
func WithPatterns(patterns []AttributePattern) Option {
	return func(p *Pipeline) {
		p.patterns = patterns
	}
}

// New creates a Pipeline over the given query service.
func New(svc query.Service, opts ...Option) *Pipeline {
	p := &Pipeline{
		svc:      svc,
		patterns: FallbackPatterns,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process looks up the requested attributes for a CUSIP and interprets the
// response. Every failure, including a failing query service, is converted
// into an error-carrying result; Process never returns an error and never
// lets a panic escape.
func (p *Pipeline) Process(ctx context.Context, cusip string, attributes []string, sink TraceSink) (result model.AnalysisResult) {
	trace := tracer(sink)

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pipeline: recovered panic",
				zap.String("cusip", cusip), zap.Any("panic", r))
			result = model.ErrorResult(cusip, fmt.Sprintf("pipeline error: %v", r))
		}
	}()

	trace(fmt.Sprintf("[Pipeline] Starting CUSIP processing: %s", cusip))
	trace(fmt.Sprintf("[Pipeline] Attributes requested: %d", len(attributes)))

	resp, err := p.svc.Query(ctx, cusip, attributes, trace)
	if err != nil {
		msg := fmt.Sprintf("pipeline error: %v", err)
		trace("[Pipeline] Error: " + msg)
		zap.L().Error("pipeline: query failed", zap.String("cusip", cusip), zap.Error(err))
		return model.ErrorResult(cusip, msg)
	}

	trace("[Parser] Extracting JSON from response...")
	if parsed := ExtractJSON(resp.Text); parsed != nil {
		trace("[Parser] JSON extracted, building structured result")
		result, err = buildResultFromJSON(cusip, parsed, resp.Sources, resp.Text)
		if err == nil {
			trace(fmt.Sprintf("[Pipeline] Processing complete, attributes extracted: %d", len(result.Attributes)))
			return result
		}
		zap.L().Warn("pipeline: structured build failed, using text fallback",
			zap.String("cusip", cusip), zap.Error(err))
		trace("[Parser] Structured build failed, using text extraction fallback")
	} else {
		trace("[Parser] No JSON found, using text extraction fallback")
	}

	result = model.AnalysisResult{
		CUSIP:       cusip,
		Attributes:  extractFromText(resp.Text, p.patterns),
		Sources:     resp.Sources,
		RawResponse: resp.Text,
		Metadata:    map[string]any{"parsing_method": "text_extraction"},
	}
	result.FinalizeDerived()
	trace(fmt.Sprintf("[Pipeline] Processing complete, attributes extracted: %d", len(result.Attributes)))
	return result
}

// GetWAMOnly runs Process with the fixed WAM attribute set.
func (p *Pipeline) GetWAMOnly(ctx context.Context, cusip string, sink TraceSink) model.AnalysisResult {
	return p.Process(ctx, cusip, wamAttributes, sink)
}
