package httpapi

import (
	"fmt"
	"net/http"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/registry"
)

type sourceRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

func (a *API) handleSources(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "source", "viewAll", func(p authz.Principal) (bool, error) {
			return a.policies.Source.CanViewAll(r.Context(), p)
		})
		if !ok {
			return
		}
		params, err := listParamsFromQuery(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		list, err := a.registry.ListSources(r.Context(), params)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sources": list})

	case http.MethodPost:
		_, ok := a.authorize(w, r, "source", "create", func(p authz.Principal) (bool, error) {
			return a.policies.Source.CanCreate(r.Context(), p)
		})
		if !ok {
			return
		}
		var req sourceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.registry.CreateSource(r.Context(), registry.Source{
			Code:        req.Code,
			Name:        req.Name,
			Description: req.Description,
			URL:         req.URL,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "source.created", map[string]any{"id": created.ID, "code": created.Code})
		w.Header().Set("Location", fmt.Sprintf("/v1/sources/%d", created.ID))
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleSourceByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "/v1/sources/")
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "source", "view", func(p authz.Principal) (bool, error) {
			return a.policies.Source.CanView(r.Context(), p, id)
		})
		if !ok {
			return
		}
		src, err := a.registry.GetSource(r.Context(), id)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, src)

	case http.MethodPut:
		_, ok := a.authorize(w, r, "source", "update", func(p authz.Principal) (bool, error) {
			return a.policies.Source.CanUpdate(r.Context(), p, id)
		})
		if !ok {
			return
		}
		var req sourceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.registry.UpdateSource(r.Context(), registry.Source{
			ID:          id,
			Code:        req.Code,
			Name:        req.Name,
			Description: req.Description,
			URL:         req.URL,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "source.updated", map[string]any{"id": id})
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		_, ok := a.authorize(w, r, "source", "delete", func(p authz.Principal) (bool, error) {
			return a.policies.Source.CanDelete(r.Context(), p, id)
		})
		if !ok {
			return
		}
		if err := a.registry.DeleteSource(r.Context(), id); err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "source.deleted", map[string]any{"id": id})
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
