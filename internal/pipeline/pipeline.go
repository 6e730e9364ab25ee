package pipeline

import (
	"context"
	"fmt"

	"github.com/abhisek/examlens/internal/exam"
	"github.com/abhisek/examlens/internal/recommend"
	"github.com/abhisek/examlens/internal/report"
	"github.com/abhisek/examlens/internal/weakness"
)

// Statuses emitted past the aggregation stage. Earlier stages reuse the
// exam package's status values unchanged.
const (
	StatusNoWeaknesses            exam.Status = "no_weaknesses"
	StatusNoCourseRecommendations exam.Status = "no_course_recommendations"
)

// DataSource supplies the five read-only input tables. Implementations
// return full tables; the analysis filters in memory.
type DataSource interface {
	Attempts(ctx context.Context) ([]exam.AttemptRecord, error)
	QuestionResults(ctx context.Context) ([]exam.QuestionResultRow, error)
	AnswerResults(ctx context.Context) ([]exam.AnswerResultRow, error)
	QuestionBank(ctx context.Context) ([]exam.QuestionBankEntry, error)
	AnswerBank(ctx context.Context) ([]exam.AnswerBankEntry, error)
}

// Result is everything one analysis run produced. Later-stage fields stay
// empty when the run halted early; Status says where and why.
type Result struct {
	Status exam.Status `json:"status"`
	Notes  []string    `json:"notes,omitempty"`

	Current *exam.AttemptRecord `json:"current_attempt,omitempty"`
	Prior   *exam.AttemptRecord `json:"prior_attempt,omitempty"`

	Performance      *exam.DomainPerformance `json:"performance,omitempty"`
	PriorPerformance *exam.DomainPerformance `json:"prior_performance,omitempty"`

	IncorrectCases []exam.IncorrectCase    `json:"incorrect_cases,omitempty"`
	Weaknesses     []weakness.Weakness     `json:"weaknesses,omitempty"`
	Courses        []recommend.CourseScore `json:"courses,omitempty"`

	Report *report.Output `json:"report,omitempty"`
}

// Pipeline runs the full analysis for one (learner, content) pair:
// attempt selection, performance aggregation, incorrect-case building,
// weakness extraction, course recommendation, report composition. Stages
// are strictly sequential; input-absence conditions halt the run with a
// status, never an error. Only data-source failures return errors.
//
// A Pipeline is stateless across runs; concurrent Run calls for different
// pairs are safe.
type Pipeline struct {
	data        DataSource
	extractor   *weakness.Extractor
	recommender *recommend.Recommender
	composer    *report.Composer
}

// New assembles a Pipeline.
func New(data DataSource, extractor *weakness.Extractor, recommender *recommend.Recommender, composer *report.Composer) *Pipeline {
	return &Pipeline{
		data:        data,
		extractor:   extractor,
		recommender: recommender,
		composer:    composer,
	}
}

// Run executes the full analysis for one learner on one exam content.
func (p *Pipeline) Run(ctx context.Context, contentID, learnerID string) (*Result, error) {
	attempts, err := p.data.Attempts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}

	selection := exam.SelectAttempts(attempts, contentID, learnerID)
	res := &Result{
		Status:  selection.Status,
		Notes:   selection.Notes,
		Current: selection.Current,
		Prior:   selection.Prior,
	}
	if selection.Status != exam.StatusOK {
		return res, nil
	}

	rows, err := p.data.QuestionResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question results: %w", err)
	}
	answers, err := p.data.AnswerResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("load answer results: %w", err)
	}
	questionBank, err := p.data.QuestionBank(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	answerBank, err := p.data.AnswerBank(ctx)
	if err != nil {
		return nil, fmt.Errorf("load answer bank: %w", err)
	}

	analysis := exam.AnalyzeAttempt(selection.Current.ID, rows, answers, questionBank)
	res.Notes = append(res.Notes, analysis.Notes...)
	res.Performance = analysis.Performance
	if analysis.Status != exam.StatusOK {
		res.Status = analysis.Status
		return res, nil
	}

	if selection.Prior != nil {
		res.PriorPerformance = exam.BuildDomainPerformance(selection.Prior.ID, rows, answers, questionBank)
	}

	res.IncorrectCases = exam.BuildIncorrectCases(analysis.Questions, questionBank, answerBank)
	reportInput := report.Input{
		Attempt:        *selection.Current,
		Current:        res.Performance,
		Prior:          res.PriorPerformance,
		TotalQuestions: analysis.TotalQuestions,
		IncorrectCount: len(res.IncorrectCases),
	}

	if len(res.IncorrectCases) == 0 {
		// Perfect attempt: skip extraction and search, report directly.
		res.Status = exam.StatusNoIncorrectAnswers
		out := p.composer.Compose(ctx, reportInput)
		res.Report = &out
		return res, nil
	}

	weaknesses, err := p.extractor.Extract(ctx, res.IncorrectCases)
	if err != nil {
		res.Status = StatusNoWeaknesses
		res.Notes = append(res.Notes, fmt.Sprintf("weakness extraction failed: %v", err))
		return res, nil
	}
	if len(weaknesses) == 0 {
		res.Status = StatusNoWeaknesses
		res.Notes = append(res.Notes, "no weaknesses extracted from incorrect answers")
		return res, nil
	}
	res.Weaknesses = weaknesses

	courses, err := p.recommender.Recommend(ctx, weaknesses)
	if err != nil {
		// Search failure aborts only the recommendation stage; the
		// weaknesses stay in the result so the caller can retry.
		res.Status = StatusNoCourseRecommendations
		res.Notes = append(res.Notes, fmt.Sprintf("course search failed: %v", err))
		return res, nil
	}
	if len(courses) == 0 {
		res.Status = StatusNoCourseRecommendations
		res.Notes = append(res.Notes, "no courses matched the extracted weaknesses")
		return res, nil
	}
	res.Courses = courses

	reportInput.Weaknesses = weaknesses
	reportInput.Courses = courses
	out := p.composer.Compose(ctx, reportInput)
	res.Report = &out
	res.Status = exam.StatusOK
	return res, nil
}
