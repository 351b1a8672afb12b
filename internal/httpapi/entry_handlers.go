package httpapi

import (
	"fmt"
	"net/http"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/registry"
)

type entryRequest struct {
	VariableCode            string  `json:"variableCode"`
	CategoryCode            string  `json:"categoryCode"`
	OrganizationElementCode string  `json:"organizationElementCode"`
	Value                   float64 `json:"value"`
	Valid                   bool    `json:"valid"`
	Year                    int     `json:"year"`
	Period                  string  `json:"period"`
}

func (a *API) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		principal, ok := a.authorize(w, r, "entry", "viewAll", func(p authz.Principal) (bool, error) {
			return a.policies.Entry.CanViewAll(r.Context(), p)
		})
		if !ok {
			return
		}
		params, err := listParamsFromQuery(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		// Admins see everything; everyone else only their organization's rows.
		var list []*registry.Entry
		if authz.HasRole(principal.Profile, authz.RoleAdmin) {
			list, err = a.registry.ListEntries(r.Context(), params)
		} else {
			list, err = a.registry.ListEntriesByOrg(r.Context(), principal.Profile.OrgCode(), params)
		}
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": list})

	case http.MethodPost:
		principal, ok := a.authorize(w, r, "entry", "create", func(p authz.Principal) (bool, error) {
			return a.policies.Entry.CanCreate(r.Context(), p)
		})
		if !ok {
			return
		}
		var req entryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		orgCode := req.OrganizationElementCode
		if orgCode == "" {
			orgCode = principal.Profile.OrgCode()
		}
		created, err := a.registry.CreateEntry(r.Context(), registry.Entry{
			VariableCode:            req.VariableCode,
			CategoryCode:            req.CategoryCode,
			OrganizationElementCode: orgCode,
			Value:                   req.Value,
			Valid:                   req.Valid,
			Year:                    req.Year,
			Period:                  req.Period,
			ProfileUserID:           principal.UserID,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "entry.created", map[string]any{"id": created.ID, "variable": created.VariableCode})
		w.Header().Set("Location", fmt.Sprintf("/v1/entries/%d", created.ID))
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "/v1/entries/")
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "entry", "view", func(p authz.Principal) (bool, error) {
			return a.policies.Entry.CanView(r.Context(), p, id)
		})
		if !ok {
			return
		}
		e, err := a.registry.GetEntry(r.Context(), id)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, e)

	case http.MethodPut:
		_, ok := a.authorize(w, r, "entry", "update", func(p authz.Principal) (bool, error) {
			return a.policies.Entry.CanUpdate(r.Context(), p, id)
		})
		if !ok {
			return
		}
		existing, err := a.registry.GetEntry(r.Context(), id)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		var req entryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		orgCode := req.OrganizationElementCode
		if orgCode == "" {
			orgCode = existing.OrganizationElementCode
		}
		updated, err := a.registry.UpdateEntry(r.Context(), registry.Entry{
			ID:                      id,
			VariableCode:            req.VariableCode,
			CategoryCode:            req.CategoryCode,
			OrganizationElementCode: orgCode,
			Value:                   req.Value,
			Valid:                   req.Valid,
			Year:                    req.Year,
			Period:                  req.Period,
			ProfileUserID:           existing.ProfileUserID,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "entry.updated", map[string]any{"id": id})
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		_, ok := a.authorize(w, r, "entry", "delete", func(p authz.Principal) (bool, error) {
			return a.policies.Entry.CanDelete(r.Context(), p, id)
		})
		if !ok {
			return
		}
		if err := a.registry.DeleteEntry(r.Context(), id); err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "entry.deleted", map[string]any{"id": id})
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
