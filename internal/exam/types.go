package exam

import "time"

// Status discriminates stage outcomes so callers can branch on machine-readable
// values instead of parsing notes. Input-absence conditions are statuses, not
// errors: the pipeline halts the branch and returns early rather than failing.
type Status string

const (
	StatusOK                  Status = "ok"
	StatusNoAttemptsForLearner Status = "no_attempts_for_learner"
	StatusNoAttemptForContent  Status = "no_attempt_for_content"
	StatusNoQuestionResults    Status = "no_question_results"
	StatusNoAnswersLogged      Status = "no_answers_logged"
	StatusNoIncorrectAnswers   Status = "no_incorrect_answers"
)

// AttemptRecord identifies one completed exam submission.
// Immutable once loaded.
type AttemptRecord struct {
	ID            string
	ContentID     string
	LearnerID     string
	AttemptNumber int
	TotalAttempts int
	EarnedScore   float64
	TotalScore    float64
	DurationMs    int64
	Status        string
	CreatedAt     time.Time
}

// QuestionResultRow is one row per question administered within an attempt.
type QuestionResultRow struct {
	ID         string // result-question id
	AttemptID  string // parent attempt (exam result) id
	QuestionID string // question-bank id
}

// AnswerResultRow is one row per submitted answer value for a
// QuestionResultRow. Multi-select questions produce several rows.
type AnswerResultRow struct {
	ID               string
	ResultQuestionID string
	Value            string
	IsCorrect        bool
}

// QuestionBankEntry is static question metadata.
type QuestionBankEntry struct {
	ID          string
	Domain      string
	Text        string
	Explanation string
	Difficulty  string
	Score       float64
}

// AnswerBankEntry is static per-question choice metadata.
type AnswerBankEntry struct {
	ID         string
	QuestionID string
	Value      string
	IsCorrect  bool
}

// DomainStats aggregates correctness for one domain.
// Accuracy is nil when Total is 0 — never computed with a zero denominator.
type DomainStats struct {
	Domain    string   `json:"domain"`
	Total     int      `json:"total"`
	Correct   int      `json:"correct"`
	Incorrect int      `json:"incorrect"`
	Accuracy  *float64 `json:"accuracy"`
}

// DomainPerformance is the per-domain accuracy view for one attempt,
// with an overall roll-up. Computed fresh per attempt, never persisted.
type DomainPerformance struct {
	Domains []DomainStats `json:"domains"`
	Overall DomainStats   `json:"overall"`
}

// Stats returns the stats for the named domain, or nil when absent.
func (p *DomainPerformance) Stats(domain string) *DomainStats {
	for i := range p.Domains {
		if p.Domains[i].Domain == domain {
			return &p.Domains[i]
		}
	}
	return nil
}

// IncorrectCase is one missed question, enriched with bank metadata.
type IncorrectCase struct {
	QuestionID       string   `json:"question_id"`
	ResultQuestionID string   `json:"result_question_id"`
	QuestionText     string   `json:"question_text"`
	Explanation      string   `json:"explanation"`
	LearnerAnswers   []string `json:"learner_answers"`
	CorrectAnswers   []string `json:"correct_answers"`
	AllAnswers       []string `json:"all_answers"`
	Difficulty       string   `json:"difficulty"`
	Score            float64  `json:"score"`
}

// UnknownDomain is the literal label used when a question resolves to no
// domain. Such questions are never dropped from aggregation.
const UnknownDomain = "Unknown"
