package exam

import "slices"

// AttemptSelection is the outcome of picking current and prior attempts for
// one (learner, content) pair.
type AttemptSelection struct {
	Status Status
	Notes  []string

	// Current is the latest attempt. Nil unless Status is ok.
	Current *AttemptRecord

	// Prior is the attempt before Current, when one exists. Exactly one
	// prior attempt is retained even if more exist.
	Prior *AttemptRecord
}

// SelectAttempts filters the attempt set to a learner and content id and
// selects the current attempt plus at most one prior attempt.
//
// Attempts are ordered by attempt number descending with creation timestamp
// as tiebreaker, which guards against duplicate or out-of-order attempt
// numbering. The status distinguishes "no attempts at all" from "attempts
// exist but none match this content."
func SelectAttempts(attempts []AttemptRecord, contentID, learnerID string) AttemptSelection {
	var byLearner []AttemptRecord
	for _, a := range attempts {
		if a.LearnerID == learnerID {
			byLearner = append(byLearner, a)
		}
	}
	if len(byLearner) == 0 {
		return AttemptSelection{
			Status: StatusNoAttemptsForLearner,
			Notes:  []string{"This learner has not taken any exams."},
		}
	}

	var matched []AttemptRecord
	for _, a := range byLearner {
		if a.ContentID == contentID {
			matched = append(matched, a)
		}
	}
	if len(matched) == 0 {
		return AttemptSelection{
			Status: StatusNoAttemptForContent,
			Notes:  []string{"Learner has exam history, but not for this content id."},
		}
	}

	slices.SortStableFunc(matched, func(a, b AttemptRecord) int {
		if a.AttemptNumber != b.AttemptNumber {
			return b.AttemptNumber - a.AttemptNumber
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	sel := AttemptSelection{
		Status:  StatusOK,
		Current: &matched[0],
	}
	if len(matched) > 1 {
		sel.Prior = &matched[1]
	} else {
		sel.Notes = append(sel.Notes,
			"No previous attempts for this content id (first time taking this exam).")
	}
	return sel
}
