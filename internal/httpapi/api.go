package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/auth"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/obs"
	"healthgrid.org/internal/registry"
	"healthgrid.org/internal/stream"
)

const serviceName = "healthgrid-api"

// ReadyProbe checks the service's backing dependencies.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

type readinessChecker interface {
	Check(ctx context.Context) error
}

// API is the HTTP layer: routing, authentication and permission checks in
// front of the registry service.
type API struct {
	mux        *http.ServeMux
	readyProbe readinessChecker
	version    string

	registry *registry.Service
	policies *authz.PolicySet
	resolver *auth.Resolver
	recorder *audit.Recorder
	events   *stream.Stream
}

func New(rp readinessChecker, version string, reg *registry.Service, policies *authz.PolicySet, resolver *auth.Resolver, recorder *audit.Recorder) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		registry:   reg,
		policies:   policies,
		resolver:   resolver,
		recorder:   recorder,
		events:     stream.New(),
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// development token issuance
	a.mux.HandleFunc("/v1/auth/token", a.handleAuthToken)

	// registry resources
	a.mux.HandleFunc("/v1/categories", a.handleCategories)
	a.mux.HandleFunc("/v1/categories/", a.handleCategoryByID)
	a.mux.HandleFunc("/v1/entries", a.handleEntries)
	a.mux.HandleFunc("/v1/entries/", a.handleEntryByID)
	a.mux.HandleFunc("/v1/organizations", a.handleOrganizations)
	a.mux.HandleFunc("/v1/organizations/", a.handleOrganizationByID)
	a.mux.HandleFunc("/v1/indicators", a.handleIndicators)
	a.mux.HandleFunc("/v1/indicators/", a.handleIndicatorByID)
	a.mux.HandleFunc("/v1/sources", a.handleSources)
	a.mux.HandleFunc("/v1/sources/", a.handleSourceByID)
	a.mux.HandleFunc("/v1/variables", a.handleVariables)
	a.mux.HandleFunc("/v1/variables/", a.handleVariableByID)
	a.mux.HandleFunc("/v1/profile", a.handleOwnProfile)
	a.mux.HandleFunc("/v1/profiles", a.handleProfiles)
	a.mux.HandleFunc("/v1/profiles/", a.handleProfileByUserID)
	a.mux.HandleFunc("/v1/events-log", a.handleEventsLog)
	a.mux.HandleFunc("/v1/events-log/stream", a.handleEventsStream)
	a.mux.HandleFunc("/v1/events-log/", a.handleEventsLogByUser)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, 100, 50)
	h = LoggingJSON(h)
	h = obs.Instrument(h)
	h = SecurityHeaders(h)
	h = CORS(h)
	h = RequestID(h)
	return h
}

// --- ops handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
