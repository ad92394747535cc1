package crisis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	crisisService "github.com/zenstudent/backend/internal/service/crisis"
	"github.com/zenstudent/backend/pkg/utils"
)

type Handler struct {
	controller *crisisService.Controller
}

func New(controller *crisisService.Controller) *Handler {
	return &Handler{controller: controller}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/crisis", h.handleState)
	r.Post("/crisis/dismiss", h.handleDismiss)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.controller.Snapshot())
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	h.controller.Dismiss()
	utils.RespondJSON(w, http.StatusOK, h.controller.Snapshot())
}
