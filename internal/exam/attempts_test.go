package exam

import (
	"testing"
	"time"
)

func attemptAt(id string, learner, content string, number int, created time.Time) AttemptRecord {
	return AttemptRecord{
		ID:            id,
		ContentID:     content,
		LearnerID:     learner,
		AttemptNumber: number,
		CreatedAt:     created,
	}
}

func TestSelectAttempts_CurrentAndPrior(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	attempts := []AttemptRecord{
		attemptAt("r1", "stu-1", "exam-1", 1, base),
		attemptAt("r2", "stu-1", "exam-1", 2, base.Add(24*time.Hour)),
		attemptAt("r3", "stu-1", "exam-1", 3, base.Add(48*time.Hour)),
	}

	sel := SelectAttempts(attempts, "exam-1", "stu-1")
	if sel.Status != StatusOK {
		t.Fatalf("status = %q, want ok", sel.Status)
	}
	if sel.Current == nil || sel.Current.ID != "r3" {
		t.Fatalf("current = %+v, want r3", sel.Current)
	}
	if sel.Prior == nil || sel.Prior.ID != "r2" {
		t.Fatalf("prior = %+v, want r2", sel.Prior)
	}
}

func TestSelectAttempts_SingleAttemptHasNoPrior(t *testing.T) {
	attempts := []AttemptRecord{
		attemptAt("r1", "stu-1", "exam-1", 1, time.Now()),
	}

	sel := SelectAttempts(attempts, "exam-1", "stu-1")
	if sel.Status != StatusOK {
		t.Fatalf("status = %q, want ok", sel.Status)
	}
	if sel.Current == nil || sel.Current.ID != "r1" {
		t.Fatalf("current = %+v, want r1", sel.Current)
	}
	if sel.Prior != nil {
		t.Fatalf("prior = %+v, want nil", sel.Prior)
	}
	if len(sel.Notes) == 0 {
		t.Fatal("expected a first-attempt note")
	}
}

func TestSelectAttempts_TimestampBreaksTies(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// Duplicate attempt numbers; the later submission wins.
	attempts := []AttemptRecord{
		attemptAt("early", "stu-1", "exam-1", 2, base),
		attemptAt("late", "stu-1", "exam-1", 2, base.Add(time.Hour)),
	}

	sel := SelectAttempts(attempts, "exam-1", "stu-1")
	if sel.Current.ID != "late" {
		t.Errorf("current = %q, want late", sel.Current.ID)
	}
	if sel.Prior.ID != "early" {
		t.Errorf("prior = %q, want early", sel.Prior.ID)
	}
}

func TestSelectAttempts_MoreThanOnePriorDiscarded(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	attempts := []AttemptRecord{
		attemptAt("r1", "stu-1", "exam-1", 1, base),
		attemptAt("r2", "stu-1", "exam-1", 2, base.Add(time.Hour)),
		attemptAt("r3", "stu-1", "exam-1", 3, base.Add(2*time.Hour)),
		attemptAt("r4", "stu-1", "exam-1", 4, base.Add(3*time.Hour)),
	}

	sel := SelectAttempts(attempts, "exam-1", "stu-1")
	if sel.Current.ID != "r4" || sel.Prior.ID != "r3" {
		t.Errorf("got current=%q prior=%q, want r4/r3", sel.Current.ID, sel.Prior.ID)
	}
}

func TestSelectAttempts_NoAttemptsForLearner(t *testing.T) {
	attempts := []AttemptRecord{
		attemptAt("r1", "stu-2", "exam-1", 1, time.Now()),
	}

	sel := SelectAttempts(attempts, "exam-1", "stu-1")
	if sel.Status != StatusNoAttemptsForLearner {
		t.Fatalf("status = %q, want %q", sel.Status, StatusNoAttemptsForLearner)
	}
	if sel.Current != nil {
		t.Fatal("current should be nil")
	}
}

func TestSelectAttempts_NoAttemptForContent(t *testing.T) {
	attempts := []AttemptRecord{
		attemptAt("r1", "stu-1", "exam-2", 1, time.Now()),
	}

	sel := SelectAttempts(attempts, "exam-1", "stu-1")
	if sel.Status != StatusNoAttemptForContent {
		t.Fatalf("status = %q, want %q", sel.Status, StatusNoAttemptForContent)
	}
}

func TestSelectAttempts_InputOrderIrrelevant(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	attempts := []AttemptRecord{
		attemptAt("r3", "stu-1", "exam-1", 3, base.Add(2*time.Hour)),
		attemptAt("r1", "stu-1", "exam-1", 1, base),
		attemptAt("r2", "stu-1", "exam-1", 2, base.Add(time.Hour)),
	}

	sel := SelectAttempts(attempts, "exam-1", "stu-1")
	if sel.Current.ID != "r3" || sel.Prior.ID != "r2" {
		t.Errorf("got current=%q prior=%q, want r3/r2", sel.Current.ID, sel.Prior.ID)
	}
}
