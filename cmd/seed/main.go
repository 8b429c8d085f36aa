// Command seed bootstraps the report schema and inserts demo reports for
// local development. In production the reporting service owns all writes;
// this exists so the read path can be exercised without it.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/opsontherocks/genai-service/internal/report"
	"github.com/opsontherocks/genai-service/internal/storage/postgres"
)

func main() {
	envFile := flag.String("env", ".env", "Path to .env file with DATABASE_URL")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("no env file at %s, using process environment", *envFile)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set in environment")
	}

	ctx := context.Background()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	for _, user := range []string{"alice@example.com", "bob@example.com", "charlie@example.com"} {
		weeks := 1
		if user == "alice@example.com" {
			weeks = 3
		}
		for week := 1; week <= weeks; week++ {
			created, err := seedReport(ctx, db, user, week, 2025)
			if err != nil {
				log.Fatalf("seed report for %s week %d: %v", user, week, err)
			}
			if created {
				log.Printf("created mock report for week %d, 2025 for user: %s", week, user)
			}
		}
	}
}

// seedReport inserts one demo report unless the (user, week, year) row is
// already present. Returns true when a row was created.
func seedReport(ctx context.Context, db *sql.DB, userEmail string, week, year int) (bool, error) {
	var existing int64
	err := db.QueryRowContext(ctx, `
		SELECT id FROM report
		WHERE calendar_week = $1 AND year = $2 AND user_email = $3
	`, week, year, userEmail).Scan(&existing)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, err
	}

	var reportID int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO report (calendar_week, year, user_email, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, week, year, userEmail, mockNotes(userEmail, week)).Scan(&reportID)
	if err != nil {
		return false, err
	}

	for category, value := range mockScores(userEmail, week) {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO report_scores (report_id, category_name, score)
			VALUES ($1, $2, $3)
		`, reportID, category, value); err != nil {
			return false, err
		}
	}

	for _, msg := range mockChat(userEmail, week) {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO chat_message (message, sender, report_id)
			VALUES ($1, $2, $3)
		`, msg.Message, msg.Sender, reportID); err != nil {
			return false, err
		}
	}

	return true, nil
}

func mockNotes(userEmail string, week int) string {
	return fmt.Sprintf("Week %d reflections for %s: steady progress overall, some areas need attention.", week, userEmail)
}

func mockScores(userEmail string, week int) map[string]float64 {
	switch userEmail {
	case "alice@example.com":
		modifier := float64(week) * 0.2
		return map[string]float64{
			"Finances":          7.0 + modifier,
			"Mental Health":     7.5 + modifier,
			"Physical Health":   6.0 + modifier,
			"Friends":           8.5 + modifier,
			"Family":            8.0 + modifier,
			"Romance":           6.5 + modifier,
			"Growth":            8.0 + modifier,
			"Purpose":           7.0 + modifier,
			"Social Engagement": 7.5 + modifier,
			"Entertainment":     6.5 + modifier,
		}
	case "bob@example.com":
		return map[string]float64{
			"Finances":          6.0,
			"Mental Health":     7.5,
			"Physical Health":   8.5,
			"Friends":           6.5,
			"Family":            9.0,
			"Romance":           8.0,
			"Growth":            6.5,
			"Purpose":           7.0,
			"Social Engagement": 6.0,
			"Entertainment":     8.5,
		}
	default:
		return map[string]float64{
			"Finances":          8.0,
			"Mental Health":     6.5,
			"Physical Health":   7.0,
			"Friends":           7.5,
			"Family":            6.0,
			"Romance":           5.5,
			"Growth":            9.0,
			"Purpose":           8.5,
			"Social Engagement": 7.0,
			"Entertainment":     6.5,
		}
	}
}

func mockChat(userEmail string, week int) []report.ChatMessage {
	if userEmail == "alice@example.com" {
		return []report.ChatMessage{
			{Message: fmt.Sprintf("Welcome to week %d of 2025! How are things going so far?", week), Sender: report.SenderAI},
			{Message: fmt.Sprintf("Week %d has had its ups and downs, but I'm staying focused.", week), Sender: report.SenderUser},
			{Message: "Glad to hear that! What's your main priority this week?", Sender: report.SenderAI},
			{Message: "Trying to maintain a consistent workout routine.", Sender: report.SenderUser},
			{Message: "That's a great goal. Keep pushing forward!", Sender: report.SenderAI},
		}
	}
	return []report.ChatMessage{
		{Message: "Welcome to your first week of 2025! How are you feeling about the new year so far?", Sender: report.SenderAI},
		{Message: "I'm feeling optimistic about the fresh start. Made some good progress on my goals already.", Sender: report.SenderUser},
		{Message: "That's wonderful! What would you like to focus on improving this week?", Sender: report.SenderAI},
		{Message: "I think I could work on my physical health a bit more. Been a bit sedentary lately.", Sender: report.SenderUser},
	}
}
