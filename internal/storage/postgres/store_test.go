package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/lib/pq"

	"github.com/opsontherocks/genai-service/internal/report"
)

func TestLatestReportAssemblesChildren(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, calendar_week, year, user_email, notes").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "calendar_week", "year", "user_email", "notes"}).
			AddRow(7, 12, 2025, "alice@example.com", "Solid week."))

	mock.ExpectQuery("SELECT report_id, category_name, score").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"report_id", "category_name", "score"}).
			AddRow(7, "Finances", 7.0).
			AddRow(7, "Mental Health", 7.5))

	mock.ExpectQuery("SELECT id, message, sender, report_id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message", "sender", "report_id"}).
			AddRow(1, "How was your week?", report.SenderAI, 7).
			AddRow(2, "Busy but good.", report.SenderUser, 7))

	store := New(db)
	rep, err := store.LatestReport(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("latest report: %v", err)
	}
	if rep == nil {
		t.Fatal("report is nil")
	}

	if rep.CalendarWeek != 12 || rep.Year != 2025 || rep.Notes != "Solid week." {
		t.Fatalf("unexpected report %+v", rep)
	}
	if len(rep.Scores) != 2 || rep.Scores[1].Category != "Mental Health" || rep.Scores[1].Value != 7.5 {
		t.Fatalf("unexpected scores %+v", rep.Scores)
	}
	if len(rep.Chat) != 2 || rep.Chat[0].Message != "How was your week?" {
		t.Fatalf("unexpected chat %+v", rep.Chat)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLatestReportAbsentIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, calendar_week, year, user_email, notes").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	store := New(db)
	rep, err := store.LatestReport(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("latest report: %v", err)
	}
	if rep != nil {
		t.Fatalf("expected nil report, got %+v", rep)
	}
}

func TestLatestReportNullColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, calendar_week, year, user_email, notes").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "calendar_week", "year", "user_email", "notes"}).
			AddRow(3, 10, 2025, "alice@example.com", nil))

	mock.ExpectQuery("SELECT report_id, category_name, score").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"report_id", "category_name", "score"}).
			AddRow(3, "Finances", nil))

	mock.ExpectQuery("SELECT id, message, sender, report_id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message", "sender", "report_id"}))

	store := New(db)
	rep, err := store.LatestReport(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("latest report: %v", err)
	}
	if rep.Notes != "" {
		t.Fatalf("notes = %q, want empty", rep.Notes)
	}
	if len(rep.Scores) != 1 || rep.Scores[0].Value != 0 {
		t.Fatalf("unexpected scores %+v", rep.Scores)
	}
	if len(rep.Chat) != 0 {
		t.Fatalf("unexpected chat %+v", rep.Chat)
	}
}

func TestEnsureSchemaExecutesAllStatements(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	for range schemaStatements {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// TestStoreIntegration exercises the store against a real database. It
// requires a scratch Postgres reachable via TEST_POSTGRES_DSN.
func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	var week10, week12 int64
	for _, ins := range []struct {
		week int
		dest *int64
	}{{10, &week10}, {12, &week12}} {
		err := db.QueryRowContext(ctx, `
			INSERT INTO report (calendar_week, year, user_email, notes)
			VALUES ($1, 2025, 'it@example.com', 'notes')
			RETURNING id
		`, ins.week).Scan(ins.dest)
		if err != nil {
			t.Fatalf("insert report week %d: %v", ins.week, err)
		}
	}
	defer func() {
		db.ExecContext(ctx, `DELETE FROM report_scores WHERE report_id IN ($1, $2)`, week10, week12)
		db.ExecContext(ctx, `DELETE FROM report WHERE id IN ($1, $2)`, week10, week12)
	}()

	if _, err := db.ExecContext(ctx, `
		INSERT INTO report_scores (report_id, category_name, score) VALUES ($1, 'Growth', 8.0)
	`, week12); err != nil {
		t.Fatalf("insert score: %v", err)
	}

	store := New(db)
	rep, err := store.LatestReport(ctx, "it@example.com")
	if err != nil {
		t.Fatalf("latest report: %v", err)
	}
	if rep == nil || rep.CalendarWeek != 12 {
		t.Fatalf("expected week 12 report, got %+v", rep)
	}
	if len(rep.Scores) != 1 || rep.Scores[0].Category != "Growth" {
		t.Fatalf("unexpected scores %+v", rep.Scores)
	}

	absent, err := store.LatestReport(ctx, "missing@example.com")
	if err != nil {
		t.Fatalf("latest report for missing user: %v", err)
	}
	if absent != nil {
		t.Fatalf("expected nil report, got %+v", absent)
	}
}
