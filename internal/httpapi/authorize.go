package httpapi

import (
	"net/http"

	"healthgrid.org/internal/auth"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/obs"
)

// authorize runs one policy decision and writes the refusal when the caller
// is not allowed. Denials are 403s; only evaluation faults become 500s.
// Returns the principal and true when the request may proceed.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, resource, action string,
	decide func(p authz.Principal) (bool, error)) (authz.Principal, bool) {

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return authz.Principal{}, false
	}
	allowed, err := decide(principal)
	if err != nil {
		obs.RecordDecision(resource, action, false)
		writeError(w, r, http.StatusInternalServerError, "authorization error")
		return authz.Principal{}, false
	}
	obs.RecordDecision(resource, action, allowed)
	if !allowed {
		writeError(w, r, http.StatusForbidden, "permission denied")
		return authz.Principal{}, false
	}
	return principal, true
}
