package catalog

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/abhisek/examlens/internal/llm"
)

// keywordEmbedder maps each text to a fixed 3-dim vector by keyword, so
// distances in tests are predictable.
func keywordEmbedder() *llm.MockProvider {
	return &llm.MockProvider{
		EmbedFunc: func(texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i, t := range texts {
				switch {
				case strings.Contains(t, "fractions"):
					vectors[i] = []float32{1, 0, 0}
				case strings.Contains(t, "grammar"):
					vectors[i] = []float32{0, 1, 0}
				default:
					vectors[i] = []float32{0, 0, 1}
				}
			}
			return vectors, nil
		},
	}
}

func testCourses() []Course {
	return []Course{
		{ID: "c-math", Title: "Mastering fractions", Description: "Working with fractions step by step."},
		{ID: "c-grammar", Title: "English grammar refresher", Description: "Core grammar rules.", Link: "https://example.com/grammar"},
		{ID: "c-study", Title: "Study habits", Description: "General study skills."},
	}
}

func TestMemoryIndex_SearchNearestFirst(t *testing.T) {
	idx := NewMemoryIndex(keywordEmbedder())
	if err := idx.Index(context.Background(), testCourses()); err != nil {
		t.Fatalf("index: %v", err)
	}
	if idx.Len() != 3 {
		t.Fatalf("len = %d, want 3", idx.Len())
	}

	got, err := idx.Search(context.Background(), "struggles with fractions", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(got))
	}
	if got[0].CourseID != "c-math" {
		t.Errorf("nearest = %q, want c-math", got[0].CourseID)
	}
	if got[0].Distance > 1e-9 {
		t.Errorf("exact match distance = %v, want 0", got[0].Distance)
	}
	if got[0].Metadata["title"] != "Mastering fractions" {
		t.Errorf("metadata title = %v", got[0].Metadata["title"])
	}
	if got[0].Distance > got[1].Distance {
		t.Error("neighbors not ordered nearest first")
	}
}

func TestMemoryIndex_SearchKBounds(t *testing.T) {
	idx := NewMemoryIndex(keywordEmbedder())
	if err := idx.Index(context.Background(), testCourses()); err != nil {
		t.Fatalf("index: %v", err)
	}

	got, err := idx.Search(context.Background(), "grammar", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("k past catalog size: got %d, want 3", len(got))
	}

	got, err = idx.Search(context.Background(), "grammar", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("k=0: got %d neighbors", len(got))
	}
}

func TestMemoryIndex_EmbedFailure(t *testing.T) {
	embedErr := errors.New("quota exhausted")
	mock := &llm.MockProvider{
		EmbedFunc: func([]string) ([][]float32, error) { return nil, embedErr },
	}

	idx := NewMemoryIndex(mock)
	if err := idx.Index(context.Background(), testCourses()); !errors.Is(err, embedErr) {
		t.Errorf("index error = %v", err)
	}
	if _, err := idx.Search(context.Background(), "anything", 3); err == nil {
		t.Error("expected search error")
	}
}

func TestCosineDistance(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 2},
		{"length mismatch", []float32{1}, []float32{1, 0}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cosineDistance(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("cosineDistance = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScoreFromDistance(t *testing.T) {
	if got := ScoreFromDistance(0); got != 1 {
		t.Errorf("score at distance 0 = %v, want 1", got)
	}
	if got := ScoreFromDistance(1); got != 0.5 {
		t.Errorf("score at distance 1 = %v, want 0.5", got)
	}
	if got := ScoreFromDistance(-0.5); got != 1 {
		t.Errorf("negative distance clamps to 1, got %v", got)
	}
	if got := ScoreFromDistance(99); got <= 0 || got > 1 {
		t.Errorf("score out of (0,1]: %v", got)
	}
}
