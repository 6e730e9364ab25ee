package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// UsageRecord captures one external call for token accounting.
// Records are write-only from the engine's perspective.
type UsageRecord struct {
	Purpose      string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// UsageSink receives usage records. Implementations must not block the
// request path on failure.
type UsageSink interface {
	RecordUsage(ctx context.Context, rec UsageRecord) error
}

// LoggingProvider is a decorator that records every LLM call in a UsageSink.
type LoggingProvider struct {
	inner Provider
	sink  UsageSink
}

// WithLogging wraps a Provider with usage accounting.
func WithLogging(p Provider, sink UsageSink) Provider {
	return &LoggingProvider{inner: p, sink: sink}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	rec := UsageRecord{
		Purpose:     PurposeFrom(ctx),
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
		rec.ResponseBody = string(resp.Content)
	}

	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	l.record(ctx, rec)
	return resp, err
}

// Embed forwards to the inner provider, recording latency and batch size.
// Token counts are unavailable for embedding calls.
func (l *LoggingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e, ok := l.inner.(Embedder)
	if !ok {
		return nil, &ErrEmbeddingUnsupported{Provider: l.inner.ModelID()}
	}

	start := time.Now()
	vectors, err := e.Embed(ctx, texts)

	rec := UsageRecord{
		Purpose:     PurposeFrom(ctx),
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: fmt.Sprintf("[embed] %d texts", len(texts)),
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	l.record(ctx, rec)
	return vectors, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// record writes the usage entry but never fails the request over it.
func (l *LoggingProvider) record(ctx context.Context, rec UsageRecord) {
	if l.sink == nil {
		return
	}
	if err := l.sink.RecordUsage(ctx, rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record LLM usage: %v\n", err)
	}
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
