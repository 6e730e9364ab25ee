package exam

import (
	"fmt"
	"slices"
)

// QuestionOutcome is the per-question correctness view for one attempt.
// A question counts as answered incorrectly when any of its answer rows is
// marked incorrect (multi-select rule).
type QuestionOutcome struct {
	ResultQuestionID string
	QuestionID       string

	// Answered is false when the row has zero answer rows. Unanswered rows
	// count against domain accuracy but never become incorrect cases — they
	// carry no submitted values to analyze.
	Answered        bool
	AnyIncorrect    bool
	SubmittedValues []string
}

// AttemptAnalysis is the aggregation result for the current attempt.
type AttemptAnalysis struct {
	Status         Status
	Notes          []string
	TotalQuestions int
	Questions      []QuestionOutcome
	Performance    *DomainPerformance
}

// AnalyzeAttempt joins one attempt's question-result rows with answer rows
// and question-bank metadata into per-question outcomes and a per-domain
// performance view.
//
// Absence conditions surface as statuses: no question rows for the attempt
// means the attempt is unscored; question rows with zero answer rows mean
// answers were never logged — "not yet scorable", not incorrect.
func AnalyzeAttempt(attemptID string, rows []QuestionResultRow, answers []AnswerResultRow, bank []QuestionBankEntry) *AttemptAnalysis {
	current := filterQuestionRows(rows, attemptID)
	if len(current) == 0 {
		return &AttemptAnalysis{
			Status: StatusNoQuestionResults,
			Notes: []string{
				fmt.Sprintf("No question result rows found for attempt %s.", attemptID),
			},
		}
	}

	groups := groupAnswers(current, answers)
	if len(groups) == 0 {
		return &AttemptAnalysis{
			Status:         StatusNoAnswersLogged,
			TotalQuestions: len(current),
			Notes: []string{
				"No answer rows found for the current attempt (no answers logged).",
			},
		}
	}

	outcomes := make([]QuestionOutcome, 0, len(current))
	for _, row := range current {
		outcome := QuestionOutcome{
			ResultQuestionID: row.ID,
			QuestionID:       row.QuestionID,
		}
		if g, ok := groups[row.ID]; ok {
			outcome.Answered = true
			outcome.AnyIncorrect = g.anyIncorrect
			outcome.SubmittedValues = g.values
		} else {
			outcome.AnyIncorrect = true
		}
		outcomes = append(outcomes, outcome)
	}

	return &AttemptAnalysis{
		Status:         StatusOK,
		TotalQuestions: len(current),
		Questions:      outcomes,
		Performance:    aggregateByDomain(outcomes, bank),
	}
}

// BuildDomainPerformance computes the per-domain view for an attempt,
// returning nil when there is nothing to aggregate. Callers use the nil to
// skip history comparison rather than failing the pipeline.
func BuildDomainPerformance(attemptID string, rows []QuestionResultRow, answers []AnswerResultRow, bank []QuestionBankEntry) *DomainPerformance {
	subset := filterQuestionRows(rows, attemptID)
	if len(subset) == 0 {
		return nil
	}

	groups := groupAnswers(subset, answers)
	if len(groups) == 0 {
		return nil
	}

	outcomes := make([]QuestionOutcome, 0, len(subset))
	for _, row := range subset {
		outcome := QuestionOutcome{
			ResultQuestionID: row.ID,
			QuestionID:       row.QuestionID,
			AnyIncorrect:     true,
		}
		if g, ok := groups[row.ID]; ok {
			outcome.Answered = true
			outcome.AnyIncorrect = g.anyIncorrect
			outcome.SubmittedValues = g.values
		}
		outcomes = append(outcomes, outcome)
	}

	return aggregateByDomain(outcomes, bank)
}

type answerGroup struct {
	anyIncorrect bool
	values       []string
}

func filterQuestionRows(rows []QuestionResultRow, attemptID string) []QuestionResultRow {
	var out []QuestionResultRow
	for _, r := range rows {
		if r.AttemptID == attemptID {
			out = append(out, r)
		}
	}
	return out
}

// groupAnswers groups answer rows by their parent result-question id.
// A group's anyIncorrect flag is true iff at least one row is incorrect.
func groupAnswers(rows []QuestionResultRow, answers []AnswerResultRow) map[string]answerGroup {
	ids := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		ids[r.ID] = struct{}{}
	}

	groups := make(map[string]answerGroup)
	for _, a := range answers {
		if _, ok := ids[a.ResultQuestionID]; !ok {
			continue
		}
		g := groups[a.ResultQuestionID]
		if !a.IsCorrect {
			g.anyIncorrect = true
		}
		g.values = append(g.values, a.Value)
		groups[a.ResultQuestionID] = g
	}
	return groups
}

// aggregateByDomain rolls per-question outcomes up into domain stats.
// Questions with no bank entry or an empty domain land in UnknownDomain.
func aggregateByDomain(outcomes []QuestionOutcome, bank []QuestionBankEntry) *DomainPerformance {
	domainOf := make(map[string]string, len(bank))
	for _, q := range bank {
		domainOf[q.ID] = q.Domain
	}

	totals := make(map[string]*DomainStats)
	var order []string
	for _, o := range outcomes {
		domain := domainOf[o.QuestionID]
		if domain == "" {
			domain = UnknownDomain
		}
		st, ok := totals[domain]
		if !ok {
			st = &DomainStats{Domain: domain}
			totals[domain] = st
			order = append(order, domain)
		}
		st.Total++
		if o.AnyIncorrect {
			st.Incorrect++
		} else {
			st.Correct++
		}
	}

	slices.Sort(order)

	perf := &DomainPerformance{Overall: DomainStats{Domain: "overall"}}
	for _, domain := range order {
		st := totals[domain]
		st.Accuracy = accuracy(st.Correct, st.Total)
		perf.Domains = append(perf.Domains, *st)
		perf.Overall.Total += st.Total
		perf.Overall.Correct += st.Correct
		perf.Overall.Incorrect += st.Incorrect
	}
	perf.Overall.Accuracy = accuracy(perf.Overall.Correct, perf.Overall.Total)

	return perf
}

// accuracy returns correct/total, or nil when total is 0.
func accuracy(correct, total int) *float64 {
	if total == 0 {
		return nil
	}
	v := float64(correct) / float64(total)
	return &v
}
