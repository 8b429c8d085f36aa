// Package prompt builds the text sent to the completion provider. Builders
// are pure: the same inputs always produce byte-identical output.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opsontherocks/genai-service/internal/llm"
	"github.com/opsontherocks/genai-service/internal/report"
)

// Feedback serializes a report's notes, scores and chat history into a single
// instruction asking for constructive weekly feedback. Scores are ordered by
// category name so the output is stable regardless of fetch order.
func Feedback(r report.Report) string {
	sorted := make([]report.Score, len(r.Scores))
	copy(sorted, r.Scores)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Category < sorted[j].Category })

	scores := make([]string, 0, len(sorted))
	for _, s := range sorted {
		scores = append(scores, fmt.Sprintf("%s: %g", s.Category, s.Value))
	}

	chat := make([]string, 0, len(r.Chat))
	for _, m := range r.Chat {
		chat = append(chat, m.Message)
	}

	var b strings.Builder
	b.WriteString("Based on the following weekly report data, provide helpful and constructive short feedback:\n")
	b.WriteString("Notes: " + r.Notes + "\n")
	b.WriteString("Scores: " + strings.Join(scores, ", ") + "\n")
	b.WriteString("Chat: " + strings.Join(chat, " | "))
	return b.String()
}

// Chat wraps raw user input in a two-message conversational exchange.
func Chat(userInput string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: "You're a helpful assistant."},
		{Role: "user", Content: userInput},
	}
}

// FeedbackMessages wraps the feedback prompt as a single-user-message
// exchange for the completion client.
func FeedbackMessages(r report.Report) []llm.Message {
	return []llm.Message{
		{Role: "user", Content: Feedback(r)},
	}
}
