package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	sessionService "github.com/zenstudent/backend/internal/service/session"
	"github.com/zenstudent/backend/pkg/utils"
)

// Handler exposes the conversation over HTTP.
type Handler struct {
	coordinator *sessionService.Coordinator
}

func New(coordinator *sessionService.Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/messages", h.handleListMessages)
	r.Post("/chat/messages", h.handleSend)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.coordinator.Messages())
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userMsg, reply, err := h.coordinator.Send(r.Context(), payload.Text)
	switch {
	case errors.Is(err, sessionService.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	case errors.Is(err, sessionService.ErrSendInFlight):
		utils.RespondError(w, http.StatusConflict, "a message is already being processed")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"userMessage": userMsg,
		"reply":       reply,
	})
}
