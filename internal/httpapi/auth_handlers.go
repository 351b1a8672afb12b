package httpapi

import (
	"net/http"
	"strings"
	"time"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/auth"
)

type tokenRequest struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

const tokenTTL = 15 * time.Minute

// handleAuthToken issues short-lived development tokens. Identity providers
// own token issuance in production; this endpoint exists for local work and
// integration tests.
func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		writeError(w, r, http.StatusBadRequest, "userId is required")
		return
	}

	// Profiles with a stored credential must present it; profiles without one
	// (or not yet bootstrapped) get a token outright, matching the dev flow.
	if profile, err := a.registry.GetProfile(r.Context(), userID); err == nil && profile.PasswordHash != "" {
		if err := auth.VerifyPassword(profile.PasswordHash, req.Password); err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
	}

	token, err := auth.GenerateToken(userID, req.Email, tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	expiresAt := time.Now().UTC().Add(tokenTTL)
	_ = audit.LogEvent(r.Context(), "auth.token.issued", map[string]any{
		"subject_user_id": userID,
		"expires_at":      expiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
