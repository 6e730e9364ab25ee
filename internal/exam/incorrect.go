package exam

// BuildIncorrectCases assembles one IncorrectCase per answered question
// whose any-incorrect flag is set, enriched with question text and the
// canonical answer sets from the banks.
//
// An empty result is the distinguished "all correct" outcome: downstream
// weakness extraction and course search are skipped entirely and the
// congratulatory report path is taken, with no external calls.
func BuildIncorrectCases(outcomes []QuestionOutcome, questionBank []QuestionBankEntry, answerBank []AnswerBankEntry) []IncorrectCase {
	questions := make(map[string]QuestionBankEntry, len(questionBank))
	for _, q := range questionBank {
		questions[q.ID] = q
	}

	correctByQuestion := make(map[string][]string)
	allByQuestion := make(map[string][]string)
	for _, a := range answerBank {
		allByQuestion[a.QuestionID] = append(allByQuestion[a.QuestionID], a.Value)
		if a.IsCorrect {
			correctByQuestion[a.QuestionID] = append(correctByQuestion[a.QuestionID], a.Value)
		}
	}

	var cases []IncorrectCase
	for _, o := range outcomes {
		if !o.Answered || !o.AnyIncorrect {
			continue
		}

		c := IncorrectCase{
			QuestionID:       o.QuestionID,
			ResultQuestionID: o.ResultQuestionID,
			LearnerAnswers:   o.SubmittedValues,
			CorrectAnswers:   correctByQuestion[o.QuestionID],
			AllAnswers:       allByQuestion[o.QuestionID],
		}
		if q, ok := questions[o.QuestionID]; ok {
			c.QuestionText = q.Text
			c.Explanation = q.Explanation
			c.Difficulty = q.Difficulty
			c.Score = q.Score
		}
		cases = append(cases, c)
	}
	return cases
}
