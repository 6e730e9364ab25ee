package weakness

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/examlens/internal/exam"
	"github.com/abhisek/examlens/internal/llm"
)

// ExtractorConfig holds configuration for the LLM weakness extractor.
type ExtractorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultExtractorConfig returns sensible defaults.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxTokens:   2048,
		Temperature: 0.3,
	}
}

// Extractor turns incorrect question cases into structured weaknesses via
// an external text-generation call and the parse cascade.
type Extractor struct {
	provider llm.Provider
	cfg      ExtractorConfig
}

// NewExtractor creates an LLM-backed weakness extractor.
func NewExtractor(provider llm.Provider, cfg ExtractorConfig) *Extractor {
	return &Extractor{provider: provider, cfg: cfg}
}

// Extract asks the model to describe weaknesses across the incorrect cases
// and parses the response. An empty case list short-circuits to nil with no
// external call. Malformed model text never fails: the cascade degrades to
// an empty list. Only a hard provider failure returns an error.
func (e *Extractor) Extract(ctx context.Context, cases []exam.IncorrectCase) ([]Weakness, error) {
	if len(cases) == 0 {
		return nil, nil
	}

	ctx = llm.WithPurpose(ctx, "weakness-extraction")

	casesJSON, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal incorrect cases: %w", err)
	}

	userMsg, err := buildExtractionMessage(string(casesJSON))
	if err != nil {
		return nil, fmt.Errorf("build extraction prompt: %w", err)
	}

	resp, err := e.provider.Generate(ctx, llm.Request{
		System: extractionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("weakness extraction: %w", err)
	}

	return Parse(resp.Text()), nil
}
