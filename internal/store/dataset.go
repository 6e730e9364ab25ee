package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/examlens/internal/catalog"
	"github.com/abhisek/examlens/internal/exam"
)

// Attempts returns every exam result row.
func (s *Store) Attempts(ctx context.Context) ([]exam.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exam_content_id, user_id, attempt_number, total_attempts,
		       earned_score, total_score, duration_taken_ms, status, created_at
		FROM exam_results`)
	if err != nil {
		return nil, fmt.Errorf("query exam results: %w", err)
	}
	defer rows.Close()

	var out []exam.AttemptRecord
	for rows.Next() {
		var a exam.AttemptRecord
		var createdAt string
		if err := rows.Scan(&a.ID, &a.ContentID, &a.LearnerID, &a.AttemptNumber,
			&a.TotalAttempts, &a.EarnedScore, &a.TotalScore, &a.DurationMs,
			&a.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan exam result: %w", err)
		}
		a.CreatedAt = parseTime(createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

// QuestionResults returns every question-result row.
func (s *Store) QuestionResults(ctx context.Context) ([]exam.QuestionResultRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, exam_result_id, question_id FROM exam_question_results`)
	if err != nil {
		return nil, fmt.Errorf("query question results: %w", err)
	}
	defer rows.Close()

	var out []exam.QuestionResultRow
	for rows.Next() {
		var r exam.QuestionResultRow
		if err := rows.Scan(&r.ID, &r.AttemptID, &r.QuestionID); err != nil {
			return nil, fmt.Errorf("scan question result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AnswerResults returns every submitted-answer row.
func (s *Store) AnswerResults(ctx context.Context) ([]exam.AnswerResultRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, exam_result_question_id, value, is_correct FROM exam_answer_results`)
	if err != nil {
		return nil, fmt.Errorf("query answer results: %w", err)
	}
	defer rows.Close()

	var out []exam.AnswerResultRow
	for rows.Next() {
		var r exam.AnswerResultRow
		if err := rows.Scan(&r.ID, &r.ResultQuestionID, &r.Value, &r.IsCorrect); err != nil {
			return nil, fmt.Errorf("scan answer result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QuestionBank returns every question-bank entry.
func (s *Store) QuestionBank(ctx context.Context) ([]exam.QuestionBankEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, domain, question, explanation, difficulty, score FROM questions`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []exam.QuestionBankEntry
	for rows.Next() {
		var q exam.QuestionBankEntry
		if err := rows.Scan(&q.ID, &q.Domain, &q.Text, &q.Explanation,
			&q.Difficulty, &q.Score); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// AnswerBank returns every answer-bank entry.
func (s *Store) AnswerBank(ctx context.Context) ([]exam.AnswerBankEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, value, is_correct FROM answers`)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []exam.AnswerBankEntry
	for rows.Next() {
		var a exam.AnswerBankEntry
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Value, &a.IsCorrect); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Courses returns the stored course catalog.
func (s *Store) Courses(ctx context.Context) ([]catalog.Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, link, metadata FROM courses`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var out []catalog.Course
	for rows.Next() {
		var c catalog.Course
		var meta string
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Link, &meta); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		if meta != "" && meta != "{}" {
			if err := json.Unmarshal([]byte(meta), &c.Metadata); err != nil {
				return nil, fmt.Errorf("decode course %s metadata: %w", c.ID, err)
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReplaceDataset swaps the five exam tables for the given data in one
// transaction.
func (s *Store) ReplaceDataset(ctx context.Context, ds Dataset) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{
			"exam_results", "exam_question_results", "exam_answer_results",
			"questions", "answers",
		} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		for _, a := range ds.Attempts {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO exam_results
					(id, exam_content_id, user_id, attempt_number, total_attempts,
					 earned_score, total_score, duration_taken_ms, status, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID, a.ContentID, a.LearnerID, a.AttemptNumber, a.TotalAttempts,
				a.EarnedScore, a.TotalScore, a.DurationMs, a.Status,
				a.CreatedAt.UTC().Format(time.RFC3339))
			if err != nil {
				return fmt.Errorf("insert exam result %s: %w", a.ID, err)
			}
		}
		for _, r := range ds.QuestionResults {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO exam_question_results (id, exam_result_id, question_id)
				VALUES (?, ?, ?)`, r.ID, r.AttemptID, r.QuestionID)
			if err != nil {
				return fmt.Errorf("insert question result %s: %w", r.ID, err)
			}
		}
		for _, r := range ds.AnswerResults {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO exam_answer_results (id, exam_result_question_id, value, is_correct)
				VALUES (?, ?, ?, ?)`, r.ID, r.ResultQuestionID, r.Value, r.IsCorrect)
			if err != nil {
				return fmt.Errorf("insert answer result %s: %w", r.ID, err)
			}
		}
		for _, q := range ds.QuestionBank {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO questions (id, domain, question, explanation, difficulty, score)
				VALUES (?, ?, ?, ?, ?, ?)`,
				q.ID, q.Domain, q.Text, q.Explanation, q.Difficulty, q.Score)
			if err != nil {
				return fmt.Errorf("insert question %s: %w", q.ID, err)
			}
		}
		for _, a := range ds.AnswerBank {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO answers (id, question_id, value, is_correct)
				VALUES (?, ?, ?, ?)`, a.ID, a.QuestionID, a.Value, a.IsCorrect)
			if err != nil {
				return fmt.Errorf("insert answer %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

// ReplaceCourses swaps the course catalog in one transaction.
func (s *Store) ReplaceCourses(ctx context.Context, courses []catalog.Course) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM courses"); err != nil {
			return fmt.Errorf("clear courses: %w", err)
		}
		for _, c := range courses {
			meta := "{}"
			if len(c.Metadata) > 0 {
				raw, err := json.Marshal(c.Metadata)
				if err != nil {
					return fmt.Errorf("encode course %s metadata: %w", c.ID, err)
				}
				meta = string(raw)
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO courses (id, title, description, link, metadata)
				VALUES (?, ?, ?, ?, ?)`,
				c.ID, c.Title, c.Description, c.Link, meta)
			if err != nil {
				return fmt.Errorf("insert course %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// Dataset bundles the five exam input tables.
type Dataset struct {
	Attempts        []exam.AttemptRecord
	QuestionResults []exam.QuestionResultRow
	AnswerResults   []exam.AnswerResultRow
	QuestionBank    []exam.QuestionBankEntry
	AnswerBank      []exam.AnswerBankEntry
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// parseTime accepts RFC3339 first, then a few common CSV timestamp layouts.
func parseTime(value string) time.Time {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
