package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/examlens/internal/llm"
)

// ProgressHeading labels the historical-comparison section.
const ProgressHeading = "Your Progress so far"

// ComposerConfig holds narrative-generation knobs.
type ComposerConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultComposerConfig returns sensible defaults.
func DefaultComposerConfig() ComposerConfig {
	return ComposerConfig{
		MaxTokens:   1024,
		Temperature: 0.4,
	}
}

// Composer assembles the final report. Three terminal shapes:
// a fixed congratulatory template when nothing was answered incorrectly,
// model-written narrative sections when the generation call succeeds, and
// a deterministic fallback otherwise. Compose never fails: every path
// yields a well-formed report.
type Composer struct {
	provider llm.Provider
	cfg      ComposerConfig
}

// NewComposer creates a Composer. provider may be nil, forcing the
// deterministic paths.
func NewComposer(provider llm.Provider, cfg ComposerConfig) *Composer {
	return &Composer{provider: provider, cfg: cfg}
}

// Compose builds the report for one analyzed attempt.
func (c *Composer) Compose(ctx context.Context, in Input) Output {
	if in.IncorrectCount == 0 {
		return c.allCorrect(in)
	}

	rep := Report{
		Title:              reportTitle(in),
		ProgressHeading:    ProgressHeading,
		DomainComparisons:  CompareDomains(in.Current, in.Prior),
		CourseExplanations: nil,
	}

	sections, err := c.generateNarrative(ctx, in)
	if err != nil {
		sections = fallbackNarrative(in)
	}
	rep.CurrentPerformance = sections.CurrentPerformance
	rep.AreaToImprove = sections.AreaToImprove
	rep.CourseExplanations = sections.RecommendedCourse

	return Output{
		Report:          rep,
		Recommendations: summarize(in),
	}
}

// allCorrect is the fixed template for perfect attempts. It never calls
// narrative generation.
func (c *Composer) allCorrect(in Input) Output {
	a := in.Attempt
	return Output{
		Report: Report{
			Title: reportTitle(in),
			CurrentPerformance: fmt.Sprintf(
				"Congratulations! You answered all %d questions correctly on attempt %d, scoring %g out of %g.",
				in.TotalQuestions, a.AttemptNumber, a.EarnedScore, a.TotalScore),
			AreaToImprove:   "No areas need improvement this time. Keep challenging yourself to stay sharp.",
			ProgressHeading: ProgressHeading,
		},
	}
}

func (c *Composer) generateNarrative(ctx context.Context, in Input) (*narrativeSections, error) {
	if c.provider == nil {
		return nil, fmt.Errorf("no narrative provider configured")
	}

	ctx = llm.WithPurpose(ctx, "report-narrative")

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      narrativeSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildNarrativeMessage(in)}},
		Schema:      narrativeSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	var sections narrativeSections
	if err := json.Unmarshal(resp.Content, &sections); err != nil {
		return nil, fmt.Errorf("decode narrative: %w", err)
	}
	if sections.CurrentPerformance == "" || sections.AreaToImprove == "" {
		return nil, fmt.Errorf("narrative missing required sections")
	}
	return &sections, nil
}

// fallbackNarrative synthesizes the narrative sections from the data
// alone.
func fallbackNarrative(in Input) *narrativeSections {
	a := in.Attempt

	current := fmt.Sprintf(
		"On attempt %d of %d you scored %g out of %g (status %s), answering %d of %d questions incorrectly.",
		a.AttemptNumber, a.TotalAttempts, a.EarnedScore, a.TotalScore, a.Status,
		in.IncorrectCount, in.TotalQuestions)

	labels := "the assessed skills"
	if len(in.Weaknesses) > 0 {
		names := ""
		for i, w := range in.Weaknesses {
			if i == 3 {
				break
			}
			if i > 0 {
				names += ", "
			}
			names += w.Text
		}
		labels = names
	}
	area := fmt.Sprintf(
		"Priority focus areas include %s. Strengthening these abilities will improve overall consistency.",
		labels)

	var explanations []string
	for _, c := range in.Courses {
		explanations = append(explanations,
			fmt.Sprintf("%s targets weakness %s.", c.Course.Title, c.WeaknessID))
	}
	if len(explanations) == 0 {
		explanations = []string{"No course recommendations were generated."}
	}

	return &narrativeSections{
		CurrentPerformance: current,
		AreaToImprove:      area,
		RecommendedCourse:  explanations,
	}
}

func summarize(in Input) []RecommendationSummary {
	summaries := make([]RecommendationSummary, 0, len(in.Courses))
	for _, c := range in.Courses {
		summaries = append(summaries, RecommendationSummary{
			CourseID:         c.Course.ID,
			CourseTitle:      c.Course.Title,
			TargetWeaknessID: c.WeaknessID,
			Explanation:      c.Reason,
		})
	}
	if len(summaries) == 0 {
		return nil
	}
	return summaries
}

func reportTitle(in Input) string {
	return fmt.Sprintf("Performance Report: Attempt %d", in.Attempt.AttemptNumber)
}
