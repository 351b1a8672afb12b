package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"healthgrid.org/internal/auth"
	"healthgrid.org/internal/authz"
)

type eventRequest struct {
	EventType string            `json:"eventType"`
	Metadata  map[string]string `json:"metadata"`
}

// handleEventsLog records a security event for the calling user.
func (a *API) handleEventsLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	ev, err := a.recorder.Record(r.Context(), req.EventType, principal.UserID,
		clientIP(r), r.UserAgent(), req.Metadata)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	a.events.Publish(*ev)
	writeJSON(w, http.StatusCreated, ev)
}

// handleEventsLogByUser lists a user's events: admins may read anyone's,
// everyone else only their own.
func (a *API) handleEventsLogByUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	userID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/events-log/"), "/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	_, ok := a.authorize(w, r, "events_log", "view", func(p authz.Principal) (bool, error) {
		if authz.HasRole(p.Profile, authz.RoleAdmin) {
			return true, nil
		}
		return p.UserID == userID, nil
	})
	if !ok {
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}
	list, err := a.recorder.ListByUser(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": list})
}
