package report

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/abhisek/examlens/internal/catalog"
	"github.com/abhisek/examlens/internal/exam"
	"github.com/abhisek/examlens/internal/llm"
	"github.com/abhisek/examlens/internal/recommend"
	"github.com/abhisek/examlens/internal/weakness"
)

func composerInput() Input {
	return Input{
		Attempt: exam.AttemptRecord{
			ID: "r1", AttemptNumber: 2, TotalAttempts: 2,
			EarnedScore: 7, TotalScore: 10, Status: "completed",
		},
		Current:        perf(exam.DomainStats{Domain: "Math", Accuracy: acc(0.80)}),
		Prior:          perf(exam.DomainStats{Domain: "Math", Accuracy: acc(0.60)}),
		TotalQuestions: 10,
		IncorrectCount: 3,
		Weaknesses: []weakness.Weakness{
			{ID: "w1", Text: "Confuses fractions"},
			{ID: "w2", Text: "Misreads word problems"},
		},
		Courses: []recommend.CourseScore{
			{Course: catalog.Course{ID: "c1", Title: "Mastering Fractions"}, WeaknessID: "w1", Score: 0.9, Reason: "similarity 0.90"},
			{Course: catalog.Course{ID: "c2", Title: "Word Problem Tactics"}, WeaknessID: "w2", Score: 0.7, Reason: "similarity 0.70"},
		},
	}
}

func TestCompose_AllCorrectTemplate(t *testing.T) {
	mock := llm.NewMockProvider()
	c := NewComposer(mock, DefaultComposerConfig())

	in := composerInput()
	in.IncorrectCount = 0
	in.Weaknesses = nil
	in.Courses = nil

	out := c.Compose(context.Background(), in)

	if len(mock.Calls) != 0 {
		t.Errorf("narrative generation called %d times on the all-correct path", len(mock.Calls))
	}
	if !strings.Contains(out.Report.CurrentPerformance, "Congratulations!") {
		t.Errorf("current performance = %q", out.Report.CurrentPerformance)
	}
	if !strings.Contains(out.Report.CurrentPerformance, "all 10 questions") {
		t.Errorf("question count missing: %q", out.Report.CurrentPerformance)
	}
	if len(out.Report.DomainComparisons) != 0 {
		t.Errorf("domain comparisons = %v, want empty", out.Report.DomainComparisons)
	}
	if len(out.Recommendations) != 0 || len(out.Report.CourseExplanations) != 0 {
		t.Error("all-correct report must carry no recommendations")
	}
	if out.Report.ProgressHeading != ProgressHeading {
		t.Errorf("progress heading = %q", out.Report.ProgressHeading)
	}
}

func TestCompose_ModelNarrative(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{
			"Current Performance": "You are building a solid foundation.",
			"Area to be Improved": "Focus on fractions and careful reading.",
			"Recommended Course": ["Mastering Fractions rebuilds the basics.", "Word Problem Tactics trains careful reading."]
		}`),
	})
	c := NewComposer(mock, DefaultComposerConfig())

	out := c.Compose(context.Background(), composerInput())

	if out.Report.CurrentPerformance != "You are building a solid foundation." {
		t.Errorf("current performance = %q", out.Report.CurrentPerformance)
	}
	if len(out.Report.CourseExplanations) != 2 {
		t.Errorf("explanations = %v", out.Report.CourseExplanations)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(mock.Calls))
	}
	if mock.Calls[0].Schema == nil || mock.Calls[0].Schema.Name != "performance-report" {
		t.Error("narrative schema not attached")
	}

	// Deterministic sections are composed regardless of the model path.
	if len(out.Report.DomainComparisons) != 1 ||
		out.Report.DomainComparisons[0] != "Math: Improved by +20.0% (from 60.0% to 80.0%)" {
		t.Errorf("domain comparisons = %v", out.Report.DomainComparisons)
	}
	if len(out.Recommendations) != 2 || out.Recommendations[0].CourseID != "c1" ||
		out.Recommendations[0].TargetWeaknessID != "w1" {
		t.Errorf("recommendations = %+v", out.Recommendations)
	}
}

func TestCompose_FallbackOnProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{},
	})
	c := NewComposer(mock, DefaultComposerConfig())

	out := c.Compose(context.Background(), composerInput())

	if !strings.Contains(out.Report.CurrentPerformance, "attempt 2 of 2") ||
		!strings.Contains(out.Report.CurrentPerformance, "3 of 10 questions incorrectly") {
		t.Errorf("fallback current performance = %q", out.Report.CurrentPerformance)
	}
	if !strings.Contains(out.Report.AreaToImprove, "Confuses fractions, Misreads word problems") {
		t.Errorf("fallback area = %q", out.Report.AreaToImprove)
	}
	want := []string{
		"Mastering Fractions targets weakness w1.",
		"Word Problem Tactics targets weakness w2.",
	}
	if len(out.Report.CourseExplanations) != 2 {
		t.Fatalf("explanations = %v", out.Report.CourseExplanations)
	}
	for i := range want {
		if out.Report.CourseExplanations[i] != want[i] {
			t.Errorf("explanation[%d] = %q, want %q", i, out.Report.CourseExplanations[i], want[i])
		}
	}
	if len(out.Report.DomainComparisons) != 1 {
		t.Errorf("domain comparisons = %v", out.Report.DomainComparisons)
	}
}

func TestCompose_FallbackOnUnusableNarrative(t *testing.T) {
	// Parseable JSON but missing required sections.
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"Current Performance": ""}`),
	})
	c := NewComposer(mock, DefaultComposerConfig())

	out := c.Compose(context.Background(), composerInput())
	if !strings.Contains(out.Report.CurrentPerformance, "attempt 2 of 2") {
		t.Errorf("expected deterministic fallback, got %q", out.Report.CurrentPerformance)
	}
}

func TestCompose_FallbackNoCourses(t *testing.T) {
	c := NewComposer(nil, DefaultComposerConfig())

	in := composerInput()
	in.Courses = nil
	in.Weaknesses = nil

	out := c.Compose(context.Background(), in)
	if len(out.Report.CourseExplanations) != 1 ||
		out.Report.CourseExplanations[0] != "No course recommendations were generated." {
		t.Errorf("explanations = %v", out.Report.CourseExplanations)
	}
	if !strings.Contains(out.Report.AreaToImprove, "the assessed skills") {
		t.Errorf("area = %q", out.Report.AreaToImprove)
	}
	if out.Recommendations != nil {
		t.Errorf("recommendations = %v", out.Recommendations)
	}
}

func TestCompose_WeaknessLabelsCappedAtThree(t *testing.T) {
	c := NewComposer(nil, DefaultComposerConfig())

	in := composerInput()
	in.Weaknesses = []weakness.Weakness{
		{ID: "w1", Text: "A"}, {ID: "w2", Text: "B"},
		{ID: "w3", Text: "C"}, {ID: "w4", Text: "D"},
	}

	out := c.Compose(context.Background(), in)
	if strings.Contains(out.Report.AreaToImprove, "D") {
		t.Errorf("more than three labels named: %q", out.Report.AreaToImprove)
	}
	if !strings.Contains(out.Report.AreaToImprove, "A, B, C") {
		t.Errorf("area = %q", out.Report.AreaToImprove)
	}
}
