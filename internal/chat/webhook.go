// Package chat is the delivery boundary between the messaging platform
// and the bot core. The platform posts message events to the webhook and
// reads any reply from the HTTP response.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newrelic-forks/lita-jira/internal/bot"
	"github.com/newrelic-forks/lita-jira/pkg/types"
)

// Handler serves the inbound chat webhook.
type Handler struct {
	bot    *bot.Bot
	handle string
	logger *zap.Logger
}

// NewHandler creates a webhook handler that recognizes handle as the
// bot's mention name.
func NewHandler(b *bot.Bot, handle string, logger *zap.Logger) *Handler {
	return &Handler{
		bot:    b,
		handle: handle,
		logger: logger,
	}
}

// MessageEvent is the platform's outgoing-webhook payload for one message.
type MessageEvent struct {
	EventID string    `json:"event_id"`
	User    EventUser `json:"user"`
	Room    string    `json:"room"`
	Text    string    `json:"text"`
	Direct  bool      `json:"direct"`
}

// EventUser identifies the sender of a message event.
type EventUser struct {
	ID          string `json:"id"`
	MentionName string `json:"mention_name"`
	Name        string `json:"name"`
}

// ReplyResponse carries the bot's reply back to the platform.
type ReplyResponse struct {
	Text string `json:"text"`
}

// ReceiveMessage handles POST /hooks/messages.
func (h *Handler) ReceiveMessage(w http.ResponseWriter, r *http.Request) {
	var event MessageEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if event.User.ID == "" || strings.TrimSpace(event.Text) == "" {
		http.Error(w, "user id and text are required", http.StatusBadRequest)
		return
	}

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	text, mentioned := stripAddress(event.Text, h.handle)
	msg := &types.Message{
		ID: event.EventID,
		User: types.User{
			ID:          event.User.ID,
			MentionName: event.User.MentionName,
			Name:        event.User.Name,
		},
		Room:      event.Room,
		Text:      text,
		Addressed: event.Direct || mentioned,
	}

	var replies collector
	if err := h.bot.HandleMessage(r.Context(), msg, &replies); err != nil {
		h.logger.Error("failed to handle message",
			zap.String("event_id", msg.ID), zap.Error(err))
		http.Error(w, "message handling failed", http.StatusInternalServerError)
		return
	}

	if len(replies.texts) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReplyResponse{Text: strings.Join(replies.texts, "\n")})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "ok"}`))
}

// RegisterRoutes registers the webhook routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/hooks/messages", h.ReceiveMessage)
	r.Get("/health", h.Health)
}

// collector implements bot.Responder by buffering reply text for the HTTP
// response.
type collector struct {
	texts []string
}

func (c *collector) Reply(_ context.Context, _ *types.Message, text string) error {
	c.texts = append(c.texts, text)
	return nil
}

// stripAddress removes a leading bot mention from text. Both "@handle"
// and "handle:" prefixes address the bot inside a room; the handle match
// is case-insensitive.
func stripAddress(text, handle string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range []string{"@" + handle, handle + ":"} {
		if len(trimmed) < len(prefix) || !strings.EqualFold(trimmed[:len(prefix)], prefix) {
			continue
		}
		rest := trimmed[len(prefix):]
		if rest != "" && !strings.HasPrefix(rest, " ") && !strings.HasPrefix(rest, ":") {
			continue
		}
		return strings.TrimSpace(strings.TrimPrefix(rest, ":")), true
	}
	return trimmed, false
}
