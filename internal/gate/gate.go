// Package gate maps session state onto a render decision. Decide is pure:
// it performs no network or storage operation, presentation layers may call
// it as often as they like.
package gate

import (
	"encoding/json"
	"net/http"

	"github.com/premiumclub/portal/internal/domain"
)

type Decision string

const (
	ShowLoading     Decision = "loading"
	RedirectToLogin Decision = "redirect"
	ShowContent     Decision = "content"
)

// Decide maps the session state machine onto what to render: still
// verifying means loading, a settled unauthenticated session redirects to
// login, an authenticated one renders content.
func Decide(state domain.SessionState) Decision {
	switch state.Status {
	case domain.StatusVerifying:
		return ShowLoading
	case domain.StatusAuthenticated:
		return ShowContent
	default:
		return RedirectToLogin
	}
}

// SessionSource is the read-only view of the controller the gate needs.
type SessionSource interface {
	State() domain.SessionState
}

// Middleware guards content routes with Decide. Verification in progress
// answers 503 with Retry-After so clients poll again shortly; a missing
// session redirects to the login route.
func Middleware(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch Decide(sessions.State()) {
			case ShowLoading:
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": string(domain.StatusVerifying)})
			case RedirectToLogin:
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
