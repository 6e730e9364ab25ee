package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/examlens/internal/catalog"
	"github.com/abhisek/examlens/internal/llm"
	"github.com/abhisek/examlens/internal/pipeline"
	"github.com/abhisek/examlens/internal/recommend"
	"github.com/abhisek/examlens/internal/report"
	"github.com/abhisek/examlens/internal/store"
	"github.com/abhisek/examlens/internal/weakness"
)

// engineOptions tunes pipeline assembly.
type engineOptions struct {
	maxCourses           int
	neighborsPerWeakness int
	rerank               bool
}

// buildEngine wires a full pipeline against the store: provider from the
// environment (usage logged into the store), course index embedded from
// the stored catalog, then the four stages.
func buildEngine(ctx context.Context, s *store.Store, opts engineOptions) (*pipeline.Pipeline, error) {
	provider, err := llm.NewProviderFromEnv(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("configure LLM provider: %w", err)
	}

	embedder, ok := provider.(llm.Embedder)
	if !ok {
		return nil, fmt.Errorf("provider %s does not support embeddings", provider.ModelID())
	}

	courses, err := s.Courses(ctx)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, fmt.Errorf("course catalog is empty; run 'examlens courses load' first")
	}

	index := catalog.NewMemoryIndex(embedder)
	if err := index.Index(ctx, courses); err != nil {
		return nil, fmt.Errorf("index course catalog: %w", err)
	}

	var reranker *recommend.Reranker
	if opts.rerank {
		reranker = recommend.NewReranker(provider)
	}

	recCfg := recommend.DefaultConfig()
	if opts.maxCourses > 0 {
		recCfg.MaxTotal = opts.maxCourses
	}
	if opts.neighborsPerWeakness > 0 {
		recCfg.NeighborsPerWeakness = opts.neighborsPerWeakness
	}

	return pipeline.New(
		s,
		weakness.NewExtractor(provider, weakness.DefaultExtractorConfig()),
		recommend.NewRecommender(index, reranker, recCfg),
		report.NewComposer(provider, report.DefaultComposerConfig()),
	), nil
}
