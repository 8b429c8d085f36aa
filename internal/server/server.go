// Package server wires the HTTP surface: routing, middleware and handlers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/opsontherocks/genai-service/internal/auth"
	"github.com/opsontherocks/genai-service/internal/llm"
	"github.com/opsontherocks/genai-service/internal/prompt"
	"github.com/opsontherocks/genai-service/internal/report"
)

// Completer is the slice of the completion client the handlers need.
type Completer interface {
	Complete(ctx context.Context, model string, messages []llm.Message) (string, error)
}

// Models selects the provider model for each quality tier.
type Models struct {
	Chat     string
	Feedback string
}

// Handler bundles the HTTP endpoints and their dependencies.
type Handler struct {
	log    *logrus.Logger
	store  report.Store
	llm    Completer
	models Models
}

// NewHandler creates a Handler with explicit dependencies.
func NewHandler(log *logrus.Logger, store report.Store, completer Completer, models Models) *Handler {
	return &Handler{log: log, store: store, llm: completer, models: models}
}

// Router builds the full route table. /health and /test stay outside the auth
// guard; everything else requires a verified identity.
func (h *Handler) Router(verifier *auth.Verifier, allowedOrigins []string, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogging(log))
	r.Use(corsMiddleware(allowedOrigins))

	r.HandleFunc("/health", h.health).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/test", h.test).Methods(http.MethodGet, http.MethodOptions)

	guarded := r.NewRoute().Subrouter()
	guarded.Use(verifier.Middleware())
	guarded.HandleFunc("/hello", h.hello).Methods(http.MethodGet, http.MethodOptions)
	guarded.HandleFunc("/generate-feedback", h.generateFeedback).Methods(http.MethodGet, http.MethodOptions)
	guarded.HandleFunc("/chat", h.chat).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "GenAI service is running!",
	})
}

func (h *Handler) hello(w http.ResponseWriter, r *http.Request) {
	email := auth.Identity(r.Context())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Hello %s! (from GenAI service)", email)
}

// generateFeedback is deliberately best-effort: any store or provider failure
// becomes a 500 so a flaky upstream never takes the process down.
func (h *Handler) generateFeedback(w http.ResponseWriter, r *http.Request) {
	email := auth.Identity(r.Context())

	rep, err := h.store.LatestReport(r.Context(), email)
	if err != nil {
		h.log.WithError(err).WithField("user", email).Error("report fetch failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rep == nil {
		writeJSON(w, http.StatusOK, map[string]string{"feedback": "No report found for this user."})
		return
	}

	feedback, err := h.llm.Complete(r.Context(), h.models.Feedback, prompt.FeedbackMessages(*rep))
	if err != nil {
		h.log.WithError(err).WithField("user", email).Error("feedback completion failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var userInput string
	if r.Method == http.MethodPost {
		var body struct {
			Message string `json:"message"`
		}
		// Absent or malformed bodies fall through to an empty message,
		// matching the GET default.
		_ = json.NewDecoder(r.Body).Decode(&body)
		userInput = body.Message
	} else {
		userInput = r.URL.Query().Get("message")
	}

	reply, err := h.llm.Complete(r.Context(), h.models.Chat, prompt.Chat(userInput))
	if err != nil {
		h.log.WithError(err).Error("chat completion failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
