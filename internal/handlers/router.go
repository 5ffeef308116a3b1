package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/xelth-com/swiftlog/internal/ai"
	"github.com/xelth-com/swiftlog/internal/buildinfo"
	"github.com/xelth-com/swiftlog/internal/middleware"
	"github.com/xelth-com/swiftlog/internal/notify"
	"github.com/xelth-com/swiftlog/internal/services/logistics"
	"github.com/xelth-com/swiftlog/internal/websocket"
)

// Deps are the collaborators the router serves
type Deps struct {
	Service   *logistics.Service
	Hub       *websocket.Hub
	Extractor ai.Extractor // nil when AI is not configured
	Assistant ai.Assistant // nil when AI is not configured
	JWTSecret string
	Ping      func(context.Context) error // database liveness, optional
}

// Router wraps the mux router and the dashboard state
type Router struct {
	*mux.Router
	svc       *logistics.Service
	hub       *websocket.Hub
	extractor ai.Extractor
	assistant ai.Assistant
	secret    string
	ping      func(context.Context) error
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(d Deps) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		svc:       d.Service,
		hub:       d.Hub,
		extractor: d.Extractor,
		assistant: d.Assistant,
		secret:    d.JWTSecret,
		ping:      d.Ping,
	}
	r.Use(middleware.Metrics)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	if r.hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
			websocket.ServeWs(r.hub, w, req)
		})
	}

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/refresh", r.refresh).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Public status must be registered before the protected subrouter
	r.HandleFunc("/api/status", r.getStatus).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(r.secret))
	api.HandleFunc("/me", r.me).Methods("GET")

	// Deliveries
	api.HandleFunc("/deliveries", r.listDeliveries).Methods("GET")
	api.HandleFunc("/deliveries", r.createDelivery).Methods("POST")
	api.HandleFunc("/deliveries", r.deleteDeliveries).Methods("DELETE")
	api.HandleFunc("/deliveries/bulk", r.createDeliveries).Methods("POST")
	api.HandleFunc("/deliveries/import/text", r.importText).Methods("POST")
	api.HandleFunc("/deliveries/status", r.bulkStatus).Methods("POST")
	api.HandleFunc("/deliveries/date", r.bulkDate).Methods("POST")
	api.HandleFunc("/deliveries/{id}", r.getDelivery).Methods("GET")
	api.HandleFunc("/deliveries/{id}", r.updateDelivery).Methods("PUT")
	api.HandleFunc("/deliveries/{id}/status", r.updateStatus).Methods("PATCH")
	api.HandleFunc("/deliveries/{id}/return", r.registerReturn).Methods("POST")
	api.HandleFunc("/deliveries/{id}/notify", r.notifySeller).Methods("POST")

	// Dashboard views
	api.HandleFunc("/stats", r.getStats).Methods("GET")
	api.HandleFunc("/dashboard", r.getDashboard).Methods("GET")
	api.HandleFunc("/team", r.getTeam).Methods("GET")
	api.HandleFunc("/drivers/status", r.setDriverStatus).Methods("POST")
	api.HandleFunc("/returns", r.getReturns).Methods("GET")
	api.HandleFunc("/returns/report.pdf", r.returnReport).Methods("GET")
	api.HandleFunc("/critical", r.getCritical).Methods("GET")
	api.HandleFunc("/critical/{customerId}/resolution", r.toggleResolution).Methods("PATCH")

	// Settings
	settings := api.PathPrefix("/settings").Subrouter()
	settings.HandleFunc("/database", r.databaseStatus).Methods("GET")
	settings.HandleFunc("/branches", r.listBranches).Methods("GET")
	settings.HandleFunc("/branches", r.createBranch).Methods("POST")
	settings.HandleFunc("/branches/{id}", r.deleteBranch).Methods("DELETE")
	settings.HandleFunc("/reasons", r.listReasons).Methods("GET")
	settings.HandleFunc("/reasons", r.createReason).Methods("POST")
	settings.HandleFunc("/reasons/{id}", r.deleteReason).Methods("DELETE")
	settings.HandleFunc("/drivers", r.listDrivers).Methods("GET")
	settings.HandleFunc("/drivers", r.createDriver).Methods("POST")
	settings.HandleFunc("/drivers/{id}", r.deleteDriver).Methods("DELETE")
	settings.HandleFunc("/vehicles", r.listVehicles).Methods("GET")
	settings.HandleFunc("/vehicles", r.createVehicle).Methods("POST")
	settings.HandleFunc("/vehicles/{id}", r.deleteVehicle).Methods("DELETE")
	settings.HandleFunc("/critical", r.listReputations).Methods("GET")
	settings.HandleFunc("/critical", r.createReputation).Methods("POST")
	settings.HandleFunc("/critical/bulk", r.bulkReputations).Methods("POST")
	settings.HandleFunc("/critical/{id}", r.updateReputation).Methods("PUT")
	settings.HandleFunc("/critical/{id}", r.deleteReputation).Methods("DELETE")
	settings.HandleFunc("/mappings", r.listMappings).Methods("GET")
	settings.HandleFunc("/mappings", r.createMapping).Methods("POST")
	settings.HandleFunc("/mappings/bulk", r.bulkMappings).Methods("POST")
	settings.HandleFunc("/mappings/{id}", r.deleteMapping).Methods("DELETE")

	// AI
	api.HandleFunc("/ai/extract/text", r.extractText).Methods("POST")
	api.HandleFunc("/ai/extract/file", r.extractFile).Methods("POST")
	api.HandleFunc("/ai/chat", r.chat).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	if r.ping != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := r.ping(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": err.Error(),
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns build information and state freshness
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	sn := r.svc.Snapshot()
	status := map[string]interface{}{
		"status":     "running",
		"build":      buildinfo.Get(),
		"loadedAt":   sn.LoadedAt,
		"deliveries": len(sn.Deliveries),
		"ai":         r.extractor != nil,
	}
	if r.hub != nil {
		status["clients"] = r.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, status)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	var syncErr *logistics.SyncError
	switch {
	case errors.As(err, &syncErr):
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":      syncErr.Error(),
			"syncFailed": true,
			"retry":      true,
			"ids":        syncErr.IDs,
		})
	case errors.Is(err, logistics.ErrValidation),
		errors.Is(err, notify.ErrNotReturned):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, logistics.ErrNotFound),
		errors.Is(err, notify.ErrNoSellerMapping):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, notify.ErrNoSellerPhone):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, logistics.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, logistics.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into v, replying 400 on failure
func decode(w http.ResponseWriter, req *http.Request, v interface{}) bool {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
