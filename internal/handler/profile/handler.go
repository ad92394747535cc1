package profile

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	profileModel "github.com/zenstudent/backend/internal/model/profile"
	profileService "github.com/zenstudent/backend/internal/service/profile"
	"github.com/zenstudent/backend/pkg/utils"
)

// Rescheduler is notified after profile edits so time-of-day schedules pick
// up the new wake time.
type Rescheduler interface {
	Reschedule() error
}

type Handler struct {
	profiles    *profileService.Manager
	rescheduler Rescheduler
}

// New creates the profile handler. rescheduler may be nil when reminders are
// disabled.
func New(profiles *profileService.Manager, rescheduler Rescheduler) *Handler {
	return &Handler{profiles: profiles, rescheduler: rescheduler}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleGet)
	r.Put("/profile", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.Current())
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload profileModel.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.profiles.Update(r.Context(), payload)
	if errors.Is(err, profileModel.ErrTooManyContacts) || errors.Is(err, profileModel.ErrBadTimeOfDay) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.rescheduler != nil {
		if err := h.rescheduler.Reschedule(); err != nil {
			log.Printf("[profile] failed to reschedule reminder: %v", err)
		}
	}

	utils.RespondJSON(w, http.StatusOK, h.profiles.Current())
}
