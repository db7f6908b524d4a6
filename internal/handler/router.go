package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authHandler "github.com/inkwell-labs/tropelens/backend/internal/handler/auth"
	chatHandler "github.com/inkwell-labs/tropelens/backend/internal/handler/chat"
	onboardingHandler "github.com/inkwell-labs/tropelens/backend/internal/handler/onboarding"
	"github.com/inkwell-labs/tropelens/backend/internal/handler/shell"
	tropesHandler "github.com/inkwell-labs/tropelens/backend/internal/handler/tropes"
	middlewarePkg "github.com/inkwell-labs/tropelens/backend/internal/middleware"
	chatService "github.com/inkwell-labs/tropelens/backend/internal/service/chat"
	onboardingService "github.com/inkwell-labs/tropelens/backend/internal/service/onboarding"
	"github.com/inkwell-labs/tropelens/backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(gate *session.Gate, onboardingSvc *onboardingService.Service, chatSvc *chatService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	r.Use(middlewarePkg.Auth(gate))

	r.Route("/api", func(api chi.Router) {
		authHandler.New(gate, onboardingSvc, chatSvc).RegisterRoutes(api)
		onboardingHandler.New(onboardingSvc, gate).RegisterRoutes(api)
		tropesHandler.New(gate).RegisterRoutes(api)
		chatHandler.New(chatSvc, gate).RegisterRoutes(api)
		shell.New(gate).RegisterRoutes(api)
	})

	return r
}
