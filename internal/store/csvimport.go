package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abhisek/examlens/internal/exam"
)

// Source CSV filenames, as exported by the assessment platform.
const (
	examResultFile         = "ExamResult.csv"
	examQuestionResultFile = "ExamQuestionResult.csv"
	examAnswerResultFile   = "ExamAnswerResult.csv"
	questionFile           = "Question.csv"
	answerFile             = "Answer.csv"
)

// ImportDataset loads the five exam CSVs from dir into the store,
// replacing any previous dataset.
func (s *Store) ImportDataset(ctx context.Context, dir string) error {
	var ds Dataset

	if err := readCSVRows(filepath.Join(dir, examResultFile), func(row csvRow) {
		ds.Attempts = append(ds.Attempts, exam.AttemptRecord{
			ID:            row.str("id"),
			ContentID:     row.str("examContentId"),
			LearnerID:     row.str("userId"),
			AttemptNumber: row.int("attemptNumber"),
			TotalAttempts: row.int("totalAttempts"),
			EarnedScore:   row.float("earnedScore"),
			TotalScore:    row.float("totalScore"),
			DurationMs:    int64(row.int("durationTakenMs")),
			Status:        row.str("status"),
			CreatedAt:     parseTime(row.str("createdAt")),
		})
	}); err != nil {
		return err
	}

	if err := readCSVRows(filepath.Join(dir, examQuestionResultFile), func(row csvRow) {
		ds.QuestionResults = append(ds.QuestionResults, exam.QuestionResultRow{
			ID:         row.str("id"),
			AttemptID:  row.str("examResultId"),
			QuestionID: row.str("questionId"),
		})
	}); err != nil {
		return err
	}

	if err := readCSVRows(filepath.Join(dir, examAnswerResultFile), func(row csvRow) {
		ds.AnswerResults = append(ds.AnswerResults, exam.AnswerResultRow{
			ID:               row.str("id"),
			ResultQuestionID: row.str("examResultQuestionId"),
			Value:            row.str("value"),
			IsCorrect:        row.bool("isCorrect"),
		})
	}); err != nil {
		return err
	}

	if err := readCSVRows(filepath.Join(dir, questionFile), func(row csvRow) {
		ds.QuestionBank = append(ds.QuestionBank, exam.QuestionBankEntry{
			ID:          row.str("id"),
			Domain:      row.str("domain"),
			Text:        row.str("question"),
			Explanation: row.str("explanation"),
			Difficulty:  row.str("difficulty"),
			Score:       row.float("score"),
		})
	}); err != nil {
		return err
	}

	if err := readCSVRows(filepath.Join(dir, answerFile), func(row csvRow) {
		ds.AnswerBank = append(ds.AnswerBank, exam.AnswerBankEntry{
			ID:         row.str("id"),
			QuestionID: row.str("questionId"),
			Value:      row.str("value"),
			IsCorrect:  row.bool("isCorrect"),
		})
	}); err != nil {
		return err
	}

	return s.ReplaceDataset(ctx, ds)
}

// csvRow indexes one record by header name.
type csvRow struct {
	header map[string]int
	record []string
}

func (r csvRow) str(name string) string {
	i, ok := r.header[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r csvRow) int(name string) int {
	v, _ := strconv.Atoi(r.str(name))
	return v
}

func (r csvRow) float(name string) float64 {
	v, _ := strconv.ParseFloat(r.str(name), 64)
	return v
}

func (r csvRow) bool(name string) bool {
	switch strings.ToLower(r.str(name)) {
	case "true", "t", "1", "yes":
		return true
	}
	return false
}

func readCSVRows(path string, visit func(csvRow)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	headerRec, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s header: %w", path, err)
	}
	header := make(map[string]int, len(headerRec))
	for i, name := range headerRec {
		header[strings.TrimSpace(name)] = i
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s row: %w", path, err)
		}
		visit(csvRow{header: header, record: record})
	}
}
