package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/zenstudent/backend/internal/handler/chat"
	crisisHandler "github.com/zenstudent/backend/internal/handler/crisis"
	exerciseHandler "github.com/zenstudent/backend/internal/handler/exercise"
	moodHandler "github.com/zenstudent/backend/internal/handler/mood"
	profileHandler "github.com/zenstudent/backend/internal/handler/profile"
	middlewarePkg "github.com/zenstudent/backend/internal/middleware"
	crisisService "github.com/zenstudent/backend/internal/service/crisis"
	exerciseService "github.com/zenstudent/backend/internal/service/exercise"
	moodService "github.com/zenstudent/backend/internal/service/mood"
	profileService "github.com/zenstudent/backend/internal/service/profile"
	sessionService "github.com/zenstudent/backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	coordinator *sessionService.Coordinator,
	ledger *moodService.Ledger,
	profiles *profileService.Manager,
	crisisCtrl *crisisService.Controller,
	exercises *exerciseService.Manager,
	rescheduler profileHandler.Rescheduler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(coordinator).RegisterRoutes(api)
		moodHandler.New(ledger, coordinator, profiles).RegisterRoutes(api)
		profileHandler.New(profiles, rescheduler).RegisterRoutes(api)
		crisisHandler.New(crisisCtrl).RegisterRoutes(api)
		exerciseHandler.New(exercises).RegisterRoutes(api)
	})

	return r
}
