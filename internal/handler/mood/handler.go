package mood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zenstudent/backend/internal/model/profile"
	moodService "github.com/zenstudent/backend/internal/service/mood"
	"github.com/zenstudent/backend/pkg/utils"
)

// Companion lets the mood handler drop an acknowledgement into the chat
// after a rating is stored.
type Companion interface {
	AppendCompanionNote(ctx context.Context, text string) error
}

// Profiles exposes the active language for the acknowledgement text.
type Profiles interface {
	Current() profile.Profile
}

type Handler struct {
	ledger    *moodService.Ledger
	companion Companion
	profiles  Profiles
}

func New(ledger *moodService.Ledger, companion Companion, profiles Profiles) *Handler {
	return &Handler{ledger: ledger, companion: companion, profiles: profiles}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/mood", h.handleHistory)
	r.Post("/mood", h.handleRecord)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.ledger.History())
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Score *int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Score == nil {
		utils.RespondError(w, http.StatusBadRequest, "score is required")
		return
	}

	entry, err := h.ledger.Record(r.Context(), *payload.Score)
	if errors.Is(err, moodService.ErrScoreOutOfRange) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.companion.AppendCompanionNote(r.Context(), h.acknowledgement(entry.Score)); err != nil {
		log.Printf("[mood] failed to append acknowledgement: %v", err)
	}

	utils.RespondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) acknowledgement(score int) string {
	if strings.EqualFold(h.profiles.Current().Language, "ru") {
		return fmt.Sprintf("Я сохранил твою оценку (%d/%d). Спасибо, что делишься со мной.", score, h.ledger.MaxScore())
	}
	return fmt.Sprintf("I saved your rating (%d/%d). Thank you for sharing with me.", score, h.ledger.MaxScore())
}
