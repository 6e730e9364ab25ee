package recommend

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/abhisek/examlens/internal/llm"
	"github.com/abhisek/examlens/internal/weakness"
)

func rerankFixture() ([]weakness.Weakness, []CourseScore) {
	weaknesses := []weakness.Weakness{{ID: "w1", Text: "confuses fractions"}}
	selected := []CourseScore{
		cs("c1", "w1", 0.9),
		cs("c2", "w1", 0.8),
		cs("c3", "w1", 0.7),
	}
	return weaknesses, selected
}

func TestRerank_ReordersWithinWeakness(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"course_ids": ["c3", "c1", "c2"]}`),
	})

	weaknesses, selected := rerankFixture()
	got := NewReranker(mock).Rerank(context.Background(), weaknesses, selected)

	want := []string{"c3", "c1", "c2"}
	ids := courseIDs(got)
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
	if len(mock.Calls) != 1 {
		t.Errorf("provider called %d times, want 1", len(mock.Calls))
	}
	if mock.Calls[0].Schema == nil || mock.Calls[0].Schema.Name != "course-rerank" {
		t.Error("rerank schema not attached to request")
	}
}

func TestRerank_FailureKeepsOriginalOrder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{},
	})

	weaknesses, selected := rerankFixture()
	got := NewReranker(mock).Rerank(context.Background(), weaknesses, selected)

	want := []string{"c1", "c2", "c3"}
	ids := courseIDs(got)
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

func TestRerank_NeverIntroducesCourses(t *testing.T) {
	// Model invents an id and omits one; the invented id is dropped and
	// the omitted course keeps its place at the tail.
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"course_ids": ["c2", "c99"]}`),
	})

	weaknesses, selected := rerankFixture()
	got := NewReranker(mock).Rerank(context.Background(), weaknesses, selected)

	want := []string{"c2", "c1", "c3"}
	ids := courseIDs(got)
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

func TestRerank_SingleCourseSkipsModel(t *testing.T) {
	mock := llm.NewMockProvider()
	weaknesses := []weakness.Weakness{{ID: "w1", Text: "anything"}}
	selected := []CourseScore{cs("c1", "w1", 0.9)}

	NewReranker(mock).Rerank(context.Background(), weaknesses, selected)
	if len(mock.Calls) != 0 {
		t.Errorf("provider called %d times for a single candidate", len(mock.Calls))
	}
}
