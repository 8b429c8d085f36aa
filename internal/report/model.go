// Package report defines the weekly self-reflection domain model. Rows are
// written by the companion reporting service; this service only reads them.
package report

import "context"

// Sender values recorded on chat messages.
const (
	SenderUser = "USER"
	SenderAI   = "AI"
)

// Report is one user's self-reflection record for a calendar week.
type Report struct {
	ID           int64
	CalendarWeek int
	Year         int
	UserEmail    string
	Notes        string
	Scores       []Score
	Chat         []ChatMessage
}

// Score is a single named rating attached to a report.
type Score struct {
	ReportID int64
	Category string
	Value    float64
}

// ChatMessage is one turn of the check-in conversation attached to a report.
type ChatMessage struct {
	ID       int64
	ReportID int64
	Message  string
	Sender   string
}

// Store reads reports for a user. LatestReport returns (nil, nil) when the
// user has no reports; absence is an expected outcome, not a failure.
type Store interface {
	LatestReport(ctx context.Context, userEmail string) (*Report, error)
}
