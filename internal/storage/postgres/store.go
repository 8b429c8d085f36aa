// Package postgres implements the report store backed by PostgreSQL. All
// access is read-only; the reporting service owns writes.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opsontherocks/genai-service/internal/report"
)

// Store implements report.Store backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ report.Store = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// LatestReport returns the user's most recent report with its scores and chat
// messages loaded, or (nil, nil) when the user has none.
func (s *Store) LatestReport(ctx context.Context, userEmail string) (*report.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, calendar_week, year, user_email, notes
		FROM report
		WHERE user_email = $1
		ORDER BY calendar_week DESC, year DESC
		LIMIT 1
	`, userEmail)

	var (
		r     report.Report
		notes sql.NullString
	)
	if err := row.Scan(&r.ID, &r.CalendarWeek, &r.Year, &r.UserEmail, &notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	r.Notes = notes.String

	scores, err := s.scoresForReport(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	r.Scores = scores

	chat, err := s.chatForReport(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	r.Chat = chat

	return &r, nil
}

func (s *Store) scoresForReport(ctx context.Context, reportID int64) ([]report.Score, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT report_id, category_name, score
		FROM report_scores
		WHERE report_id = $1
		ORDER BY category_name
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []report.Score
	for rows.Next() {
		var (
			sc    report.Score
			value sql.NullFloat64
		)
		if err := rows.Scan(&sc.ReportID, &sc.Category, &value); err != nil {
			return nil, err
		}
		sc.Value = value.Float64
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (s *Store) chatForReport(ctx context.Context, reportID int64) ([]report.ChatMessage, error) {
	// Ordered by id: insertion order is the only ordering the writer records.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, sender, report_id
		FROM chat_message
		WHERE report_id = $1
		ORDER BY id
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []report.ChatMessage
	for rows.Next() {
		var msg report.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.Message, &msg.Sender, &msg.ReportID); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
