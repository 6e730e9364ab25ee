package weakness

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/abhisek/examlens/internal/exam"
	"github.com/abhisek/examlens/internal/llm"
)

func TestExtract_EmptyCasesSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	ext := NewExtractor(mock, DefaultExtractorConfig())

	got, err := ext.Extract(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil weaknesses, got %v", got)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("provider called %d times, want 0", len(mock.Calls))
	}
}

func TestExtract_ParsesModelOutput(t *testing.T) {
	modelOut := `[{"weakness": "Confuses tenses under time pressure", "pattern_type": "language", "frequency": 2}]`
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(modelOut),
	})
	ext := NewExtractor(mock, DefaultExtractorConfig())

	cases := []exam.IncorrectCase{
		{QuestionID: "q1", QuestionText: "Pick the correct tense."},
	}

	got, err := ext.Extract(context.Background(), cases)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 weakness, got %d", len(got))
	}
	if got[0].Text != "Confuses tenses under time pressure" {
		t.Errorf("text = %q", got[0].Text)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(mock.Calls))
	}
	req := mock.Calls[0]
	if req.System == "" {
		t.Error("expected a system prompt")
	}
	if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, `"q1"`) {
		t.Error("case payload missing from user message")
	}
	if req.MaxTokens != DefaultExtractorConfig().MaxTokens {
		t.Errorf("max tokens = %d", req.MaxTokens)
	}
}

func TestExtract_MalformedOutputDegradesToEmpty(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"I could not find any patterns, sorry."`),
	})
	ext := NewExtractor(mock, DefaultExtractorConfig())

	got, err := ext.Extract(context.Background(), []exam.IncorrectCase{{QuestionID: "q1"}})
	if err != nil {
		t.Fatalf("malformed model text must not fail: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestExtract_ProviderFailureSurfaces(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{},
	})
	ext := NewExtractor(mock, DefaultExtractorConfig())

	_, err := ext.Extract(context.Background(), []exam.IncorrectCase{{QuestionID: "q1"}})
	if err == nil {
		t.Fatal("expected error from provider failure")
	}
}
