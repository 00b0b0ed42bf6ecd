package handler

import (
	"errors"
	"net/http"

	"github.com/premiumclub/portal/internal/domain"
	"github.com/premiumclub/portal/internal/session"
)

// Session reports the current state; callable in every state.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Sessions.State())
}

// Refresh re-aggregates the profile on demand.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Refresh(r.Context()); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": err.Error()})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Sessions.State())
}

type notificationsResponse struct {
	Unread  bool                   `json:"unread"`
	Package *domain.WelcomePackage `json:"package,omitempty"`
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	resp := notificationsResponse{Unread: h.Sessions.NotificationUnread()}
	if state := h.Sessions.State(); state.Profile != nil {
		resp.Package = state.Profile.WelcomePackage
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	h.Sessions.MarkNotificationRead()
	w.WriteHeader(http.StatusNoContent)
}

// PausePolling and ResumePolling let the operator suspend background
// refreshes, e.g. while a form is being edited.
func (h *Handler) PausePolling(w http.ResponseWriter, r *http.Request) {
	h.Sessions.PausePolling()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResumePolling(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ResumePolling()
	w.WriteHeader(http.StatusNoContent)
}
