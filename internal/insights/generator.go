// Package insights builds industry market-analysis records from generative
// model output and keeps stored records fresh.
package insights

import (
	"context"
	"strings"
	"time"

	"careerly/internal/core"
	"careerly/internal/extract"
)

// ContentGenerator is the single model operation this package consumes.
// *llm.Client satisfies it; tests substitute doubles.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Generator produces one IndustryInsight per invocation. It is a pure
// industry → insight transformation; persistence is a separate concern.
type Generator struct {
	client ContentGenerator
	now    func() time.Time
}

// NewGenerator creates a Generator around an injected model client.
func NewGenerator(client ContentGenerator) *Generator {
	return &Generator{client: client, now: time.Now}
}

// Generate builds the analysis prompt for industry, invokes the model, and
// pipes the output through extraction and normalization. It fails with
// core.ErrMissingIndustry for an empty industry and wraps every model or
// extraction failure in a core.GenerationError.
func (g *Generator) Generate(ctx context.Context, industry string) (*core.IndustryInsight, error) {
	if strings.TrimSpace(industry) == "" {
		return nil, core.ErrMissingIndustry
	}

	raw, err := g.client.GenerateContent(ctx, BuildInsightPrompt(industry))
	if err != nil {
		return nil, &core.GenerationError{Industry: industry, Err: err}
	}

	obj, err := extract.Object(raw)
	if err != nil {
		return nil, &core.GenerationError{Industry: industry, Err: err}
	}

	insight := Normalize(obj)
	insight.Industry = industry
	now := g.now().UTC()
	insight.LastUpdated = now
	insight.NextUpdate = now.Add(core.RefreshInterval)
	return insight, nil
}
