package httpapi

import (
	"net/http"
	"strings"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/auth"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/registry"
)

type profileRequest struct {
	Email                   string `json:"email"`
	FirstName               string `json:"firstName"`
	LastName                string `json:"lastName"`
	Bio                     string `json:"bio"`
	OrganizationElementCode string `json:"organizationElementCode"`
	Password                string `json:"password"`
}

// handleOwnProfile serves the caller's profile. The resolver already
// bootstrapped it during authentication, so a lookup is all that remains.
func (a *API) handleOwnProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	p, err := a.registry.GetProfile(r.Context(), principal.UserID)
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "profile", "viewAll", func(p authz.Principal) (bool, error) {
			return a.policies.Profile.CanViewAll(r.Context(), p)
		})
		if !ok {
			return
		}
		params, err := listParamsFromQuery(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		list, err := a.registry.ListProfiles(r.Context(), params)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profiles": list})

	case http.MethodPost:
		_, ok := a.authorize(w, r, "profile", "create", func(p authz.Principal) (bool, error) {
			return a.policies.Profile.CanCreate(r.Context(), p)
		})
		if !ok {
			return
		}
		var req struct {
			UserID string `json:"userId"`
			profileRequest
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		var passwordHash string
		if req.Password != "" {
			var err error
			passwordHash, err = auth.HashPassword(req.Password)
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, "internal error")
				return
			}
		}
		created, err := a.registry.CreateProfile(r.Context(), registry.Profile{
			UserID:                  req.UserID,
			Email:                   req.Email,
			FirstName:               req.FirstName,
			LastName:                req.LastName,
			Bio:                     req.Bio,
			OrganizationElementCode: req.OrganizationElementCode,
			PasswordHash:            passwordHash,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "profile.created", map[string]any{"subject_user_id": created.UserID})
		w.Header().Set("Location", "/v1/profiles/"+created.UserID)
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleProfileByUserID(w http.ResponseWriter, r *http.Request) {
	userID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/profiles/"), "/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "profile", "view", func(p authz.Principal) (bool, error) {
			return a.policies.Profile.CanView(r.Context(), p, userID)
		})
		if !ok {
			return
		}
		p, err := a.registry.GetProfile(r.Context(), userID)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodPut:
		_, ok := a.authorize(w, r, "profile", "update", func(p authz.Principal) (bool, error) {
			return a.policies.Profile.CanUpdate(r.Context(), p, userID)
		})
		if !ok {
			return
		}
		var req profileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		existing, err := a.registry.GetProfile(r.Context(), userID)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		// An omitted password keeps the stored credential.
		passwordHash := existing.PasswordHash
		if req.Password != "" {
			passwordHash, err = auth.HashPassword(req.Password)
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, "internal error")
				return
			}
		}
		updated, err := a.registry.UpdateProfile(r.Context(), registry.Profile{
			UserID:                  userID,
			Email:                   req.Email,
			FirstName:               req.FirstName,
			LastName:                req.LastName,
			Bio:                     req.Bio,
			OrganizationElementCode: req.OrganizationElementCode,
			PasswordHash:            passwordHash,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "profile.updated", map[string]any{"subject_user_id": userID})
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		_, ok := a.authorize(w, r, "profile", "delete", func(p authz.Principal) (bool, error) {
			return a.policies.Profile.CanDelete(r.Context(), p, userID)
		})
		if !ok {
			return
		}
		if err := a.registry.DeleteProfile(r.Context(), userID); err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "profile.deleted", map[string]any{"subject_user_id": userID})
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
