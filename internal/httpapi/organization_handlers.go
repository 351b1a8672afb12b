package httpapi

import (
	"fmt"
	"net/http"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/registry"
)

type organizationRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	DataManagerID string `json:"dataManagerId"`
}

func (a *API) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "organization", "viewAll", func(p authz.Principal) (bool, error) {
			return a.policies.Organization.CanViewAll(r.Context(), p)
		})
		if !ok {
			return
		}
		params, err := listParamsFromQuery(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		list, err := a.registry.ListOrganizations(r.Context(), params)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"organizations": list})

	case http.MethodPost:
		_, ok := a.authorize(w, r, "organization", "create", func(p authz.Principal) (bool, error) {
			return a.policies.Organization.CanCreate(r.Context(), p)
		})
		if !ok {
			return
		}
		var req organizationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.registry.CreateOrganization(r.Context(), registry.Organization{
			Code:          req.Code,
			Name:          req.Name,
			Description:   req.Description,
			DataManagerID: req.DataManagerID,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "organization.created", map[string]any{"id": created.ID, "code": created.Code})
		w.Header().Set("Location", fmt.Sprintf("/v1/organizations/%d", created.ID))
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleOrganizationByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "/v1/organizations/")
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "organization", "view", func(p authz.Principal) (bool, error) {
			return a.policies.Organization.CanView(r.Context(), p, id)
		})
		if !ok {
			return
		}
		o, err := a.registry.GetOrganization(r.Context(), id)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, o)

	case http.MethodPut:
		_, ok := a.authorize(w, r, "organization", "update", func(p authz.Principal) (bool, error) {
			return a.policies.Organization.CanUpdate(r.Context(), p, id)
		})
		if !ok {
			return
		}
		var req organizationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.registry.UpdateOrganization(r.Context(), registry.Organization{
			ID:            id,
			Code:          req.Code,
			Name:          req.Name,
			Description:   req.Description,
			DataManagerID: req.DataManagerID,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "organization.updated", map[string]any{"id": id})
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		_, ok := a.authorize(w, r, "organization", "delete", func(p authz.Principal) (bool, error) {
			return a.policies.Organization.CanDelete(r.Context(), p, id)
		})
		if !ok {
			return
		}
		if err := a.registry.DeleteOrganization(r.Context(), id); err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "organization.deleted", map[string]any{"id": id})
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
