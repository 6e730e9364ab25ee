package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/examlens/internal/llm"
)

// UsageEntry is one recorded LLM call.
type UsageEntry struct {
	ID           int64
	CreatedAt    time.Time
	Purpose      string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// PurposeStats aggregates usage per purpose label.
type PurposeStats struct {
	Purpose      string
	Requests     int
	InputTokens  int
	OutputTokens int
}

// ModelStats aggregates usage per model.
type ModelStats struct {
	Model        string
	Requests     int
	InputTokens  int
	OutputTokens int
}

// UsageStats summarizes the whole usage log.
type UsageStats struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	ByPurpose    []PurposeStats
	ByModel      []ModelStats
}

// ErrUsageNotFound is returned when a usage entry id does not exist.
var ErrUsageNotFound = errors.New("usage entry not found")

// RecordUsage appends one usage entry. Implements llm.UsageSink.
func (s *Store) RecordUsage(ctx context.Context, rec llm.UsageRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_usage
			(purpose, provider, model, input_tokens, output_tokens,
			 latency_ms, success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Purpose, rec.Provider, rec.Model, rec.InputTokens, rec.OutputTokens,
		rec.LatencyMs, rec.Success, rec.ErrorMessage, rec.RequestBody, rec.ResponseBody)
	if err != nil {
		return fmt.Errorf("insert usage entry: %w", err)
	}
	return nil
}

// ListUsage returns the newest entries first, up to limit.
func (s *Store) ListUsage(ctx context.Context, limit int) ([]UsageEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, purpose, provider, model, input_tokens,
		       output_tokens, latency_ms, success, error_message,
		       request_body, response_body
		FROM llm_usage
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query usage log: %w", err)
	}
	defer rows.Close()

	var out []UsageEntry
	for rows.Next() {
		e, err := scanUsage(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// GetUsage returns one entry by id.
func (s *Store) GetUsage(ctx context.Context, id int64) (*UsageEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, purpose, provider, model, input_tokens,
		       output_tokens, latency_ms, success, error_message,
		       request_body, response_body
		FROM llm_usage WHERE id = ?`, id)

	e, err := scanUsage(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUsageNotFound
	}
	return e, err
}

// UsageStats aggregates the usage log overall and per purpose.
func (s *Store) UsageStats(ctx context.Context) (*UsageStats, error) {
	stats := &UsageStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0)
		FROM llm_usage`).
		Scan(&stats.Requests, &stats.Failures, &stats.InputTokens, &stats.OutputTokens)
	if err != nil {
		return nil, fmt.Errorf("query usage totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT purpose, COUNT(*),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0)
		FROM llm_usage
		GROUP BY purpose
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p PurposeStats
		if err := rows.Scan(&p.Purpose, &p.Requests, &p.InputTokens, &p.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan purpose stats: %w", err)
		}
		stats.ByPurpose = append(stats.ByPurpose, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	modelRows, err := s.db.QueryContext(ctx, `
		SELECT model, COUNT(*),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0)
		FROM llm_usage
		GROUP BY model
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer modelRows.Close()

	for modelRows.Next() {
		var m ModelStats
		if err := modelRows.Scan(&m.Model, &m.Requests, &m.InputTokens, &m.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan model stats: %w", err)
		}
		stats.ByModel = append(stats.ByModel, m)
	}
	return stats, modelRows.Err()
}

func scanUsage(scan func(dest ...any) error) (*UsageEntry, error) {
	var e UsageEntry
	var createdAt string
	err := scan(&e.ID, &createdAt, &e.Purpose, &e.Provider, &e.Model,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan usage entry: %w", err)
	}
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}
