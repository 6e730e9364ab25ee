package report

import (
	"github.com/abhisek/examlens/internal/exam"
	"github.com/abhisek/examlens/internal/recommend"
	"github.com/abhisek/examlens/internal/weakness"
)

// Report is the user-facing result, with fixed section keys. Every
// terminal path produces all sections; empty lists mean the section has
// nothing to say, never that composition failed.
type Report struct {
	Title              string   `json:"title"`
	CurrentPerformance string   `json:"current_performance"`
	AreaToImprove      string   `json:"area_to_improve"`
	CourseExplanations []string `json:"course_explanations"`
	ProgressHeading    string   `json:"progress_heading"`
	DomainComparisons  []string `json:"domain_comparisons"`
}

// RecommendationSummary is one machine-readable recommendation, parallel
// to the report's course-explanation prose.
type RecommendationSummary struct {
	CourseID         string `json:"course_id"`
	CourseTitle      string `json:"course_title"`
	TargetWeaknessID string `json:"target_weakness_id"`
	Explanation      string `json:"explanation"`
}

// Output couples the narrative report with its recommendation summaries.
type Output struct {
	Report          Report                  `json:"report"`
	Recommendations []RecommendationSummary `json:"recommendations"`
}

// Input is everything the composer needs for one attempt.
type Input struct {
	Attempt        exam.AttemptRecord
	Current        *exam.DomainPerformance
	Prior          *exam.DomainPerformance
	TotalQuestions int
	IncorrectCount int
	Weaknesses     []weakness.Weakness
	Courses        []recommend.CourseScore
}
