// Package shell decides which view a client path maps to for the current
// session, mirroring the routing policy of the web client.
package shell

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-labs/tropelens/backend/internal/middleware"
	"github.com/inkwell-labs/tropelens/backend/internal/service/session"
	"github.com/inkwell-labs/tropelens/backend/pkg/utils"
)

// Views the client can be sent to.
const (
	ViewLanding    = "landing"
	ViewOnboarding = "onboarding"
	ViewDashboard  = "dashboard"
	ViewChat       = "chat"
)

// Route is the resolution result: either a view to render or a redirect.
type Route struct {
	View      string `json:"view,omitempty"`
	Redirect  string `json:"redirect,omitempty"`
	TropeName string `json:"tropeName,omitempty"`
}

// Resolve applies the deterministic routing policy. Unauthenticated users
// always land on the auth view; authenticated users without data go to
// onboarding; chat requires a previously selected trope; anything
// unrecognized bounces to root.
func Resolve(state session.State, path string) Route {
	hasData := len(state.Tropes) > 0 && !state.Sheet.IsEmpty()

	switch {
	case path == "/":
		if !state.Authenticated {
			return Route{View: ViewLanding}
		}
		if !hasData {
			return Route{View: ViewOnboarding}
		}
		return Route{View: ViewDashboard}

	case path == "/dashboard":
		if !state.Authenticated {
			return Route{Redirect: "/"}
		}
		if !hasData {
			return Route{Redirect: "/"}
		}
		return Route{View: ViewDashboard}

	case strings.HasPrefix(path, "/chat/"):
		if !state.Authenticated {
			return Route{Redirect: "/"}
		}
		// Deep links without a prior dashboard selection go back.
		if state.ActiveTrope == "" {
			return Route{Redirect: "/dashboard"}
		}
		name, err := url.PathUnescape(strings.TrimPrefix(path, "/chat/"))
		if err != nil || name == "" {
			return Route{Redirect: "/dashboard"}
		}
		return Route{View: ViewChat, TropeName: name}

	default:
		return Route{Redirect: "/"}
	}
}

// Handler exposes route resolution over HTTP.
type Handler struct {
	gate *session.Gate
}

// New creates the shell handler.
func New(gate *session.Gate) *Handler {
	return &Handler{gate: gate}
}

// RegisterRoutes mounts the shell endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/shell/resolve", h.handleResolve)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}

	state := h.gate.Snapshot(middleware.UserID(r.Context()))
	utils.RespondJSON(w, http.StatusOK, Resolve(state, path))
}
