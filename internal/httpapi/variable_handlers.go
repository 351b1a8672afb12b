package httpapi

import (
	"fmt"
	"net/http"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/registry"
)

type variableRequest struct {
	Code         string `json:"code"`
	Designation  string `json:"designation"`
	SourceID     int64  `json:"sourceId"`
	CategoryCode string `json:"categoryCode"`
	Frequency    string `json:"frequency"`
	Level        string `json:"level"`
}

func (a *API) handleVariables(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "variable", "viewAll", func(p authz.Principal) (bool, error) {
			return a.policies.Variable.CanViewAll(r.Context(), p)
		})
		if !ok {
			return
		}
		params, err := listParamsFromQuery(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		list, err := a.registry.ListVariables(r.Context(), params)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"variables": list})

	case http.MethodPost:
		_, ok := a.authorize(w, r, "variable", "create", func(p authz.Principal) (bool, error) {
			return a.policies.Variable.CanCreate(r.Context(), p)
		})
		if !ok {
			return
		}
		var req variableRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.registry.CreateVariable(r.Context(), registry.Variable{
			Code:         req.Code,
			Designation:  req.Designation,
			SourceID:     req.SourceID,
			CategoryCode: req.CategoryCode,
			Frequency:    req.Frequency,
			Level:        req.Level,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "variable.created", map[string]any{"id": created.ID, "code": created.Code})
		w.Header().Set("Location", fmt.Sprintf("/v1/variables/%d", created.ID))
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleVariableByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "/v1/variables/")
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "variable", "view", func(p authz.Principal) (bool, error) {
			return a.policies.Variable.CanView(r.Context(), p, id)
		})
		if !ok {
			return
		}
		v, err := a.registry.GetVariable(r.Context(), id)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)

	case http.MethodPut:
		_, ok := a.authorize(w, r, "variable", "update", func(p authz.Principal) (bool, error) {
			return a.policies.Variable.CanUpdate(r.Context(), p, id)
		})
		if !ok {
			return
		}
		var req variableRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.registry.UpdateVariable(r.Context(), registry.Variable{
			ID:           id,
			Code:         req.Code,
			Designation:  req.Designation,
			SourceID:     req.SourceID,
			CategoryCode: req.CategoryCode,
			Frequency:    req.Frequency,
			Level:        req.Level,
		})
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "variable.updated", map[string]any{"id": id})
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		_, ok := a.authorize(w, r, "variable", "delete", func(p authz.Principal) (bool, error) {
			return a.policies.Variable.CanDelete(r.Context(), p, id)
		})
		if !ok {
			return
		}
		if err := a.registry.DeleteVariable(r.Context(), id); err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "variable.deleted", map[string]any{"id": id})
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
