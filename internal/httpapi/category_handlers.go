package httpapi

import (
	"fmt"
	"net/http"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/registry"
)

type categoryRequest struct {
	Code        string `json:"code"`
	Designation string `json:"designation"`
}

func (a *API) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "category", "viewAll", func(p authz.Principal) (bool, error) {
			return a.policies.Category.CanViewAll(r.Context(), p)
		})
		if !ok {
			return
		}
		params, err := listParamsFromQuery(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		list, err := a.registry.ListCategories(r.Context(), params)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": list})

	case http.MethodPost:
		_, ok := a.authorize(w, r, "category", "create", func(p authz.Principal) (bool, error) {
			return a.policies.Category.CanCreate(r.Context(), p)
		})
		if !ok {
			return
		}
		var req categoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.registry.CreateCategory(r.Context(), registry.Category{
			Code:        req.Code,
			Designation: req.Designation,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "category.created", map[string]any{"id": created.ID, "code": created.Code})
		w.Header().Set("Location", fmt.Sprintf("/v1/categories/%d", created.ID))
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "/v1/categories/")
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "category", "view", func(p authz.Principal) (bool, error) {
			return a.policies.Category.CanView(r.Context(), p, id)
		})
		if !ok {
			return
		}
		c, err := a.registry.GetCategory(r.Context(), id)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodPut:
		_, ok := a.authorize(w, r, "category", "update", func(p authz.Principal) (bool, error) {
			return a.policies.Category.CanUpdate(r.Context(), p, id)
		})
		if !ok {
			return
		}
		var req categoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.registry.UpdateCategory(r.Context(), registry.Category{
			ID:          id,
			Code:        req.Code,
			Designation: req.Designation,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "category.updated", map[string]any{"id": id})
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		_, ok := a.authorize(w, r, "category", "delete", func(p authz.Principal) (bool, error) {
			return a.policies.Category.CanDelete(r.Context(), p, id)
		})
		if !ok {
			return
		}
		if err := a.registry.DeleteCategory(r.Context(), id); err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "category.deleted", map[string]any{"id": id})
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
