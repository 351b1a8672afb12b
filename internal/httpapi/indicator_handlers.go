package httpapi

import (
	"fmt"
	"net/http"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/registry"
)

type indicatorRequest struct {
	Code                string `json:"code"`
	Designation         string `json:"designation"`
	Definition          string `json:"definition"`
	Goal                string `json:"goal"`
	Formula             string `json:"formula"`
	CategoryCode        string `json:"categoryCode"`
	Level               string `json:"level"`
	CalculationMethod   string `json:"calculationMethod"`
	CollectionFrequency string `json:"collectionFrequency"`
	Interpretation      string `json:"interpretation"`
}

func (req indicatorRequest) toIndicator(id int64) registry.Indicator {
	return registry.Indicator{
		ID:                  id,
		Code:                req.Code,
		Designation:         req.Designation,
		Definition:          req.Definition,
		Goal:                req.Goal,
		Formula:             req.Formula,
		CategoryCode:        req.CategoryCode,
		Level:               req.Level,
		CalculationMethod:   req.CalculationMethod,
		CollectionFrequency: req.CollectionFrequency,
		Interpretation:      req.Interpretation,
	}
}

func (a *API) handleIndicators(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		_, ok := a.authorize(w, r, "indicator", "viewAll", func(p authz.Principal) (bool, error) {
			return a.policies.Indicator.CanViewAll(r.Context(), p)
		})
		if !ok {
			return
		}
		params, err := listParamsFromQuery(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		list, err := a.registry.ListIndicators(r.Context(), params)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"indicators": list})

	case http.MethodPost:
		_, ok := a.authorize(w, r, "indicator", "create", func(p authz.Principal) (bool, error) {
			return a.policies.Indicator.CanCreate(r.Context(), p)
		})
		if !ok {
			return
		}
		var req indicatorRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.registry.CreateIndicator(r.Context(), req.toIndicator(0))
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "indicator.created", map[string]any{"id": created.ID, "code": created.Code})
		w.Header().Set("Location", fmt.Sprintf("/v1/indicators/%d", created.ID))
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleIndicatorByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "/v1/indicators/")
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		// Indicator detail is readable by any authenticated principal.
		_, ok := a.authorize(w, r, "indicator", "view", func(p authz.Principal) (bool, error) {
			return a.policies.Indicator.CanView(r.Context(), p, id)
		})
		if !ok {
			return
		}
		in, err := a.registry.GetIndicator(r.Context(), id)
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, in)

	case http.MethodPut:
		_, ok := a.authorize(w, r, "indicator", "update", func(p authz.Principal) (bool, error) {
			return a.policies.Indicator.CanUpdate(r.Context(), p, id)
		})
		if !ok {
			return
		}
		var req indicatorRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.registry.UpdateIndicator(r.Context(), req.toIndicator(id))
		if err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "indicator.updated", map[string]any{"id": id})
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		_, ok := a.authorize(w, r, "indicator", "delete", func(p authz.Principal) (bool, error) {
			return a.policies.Indicator.CanDelete(r.Context(), p, id)
		})
		if !ok {
			return
		}
		if err := a.registry.DeleteIndicator(r.Context(), id); err != nil {
			handleRegistryError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "indicator.deleted", map[string]any{"id": id})
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
