package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/services/printer"
)

// DriverStatusRequest sets or clears the manual state of drivers
type DriverStatusRequest struct {
	IDs    []string                 `json:"ids"`
	Status models.OperationalStatus `json:"status"`
}

func (r *Router) getStats(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, dashboard.ComputeStats(r.svc.View(scopeOf(req))))
}

// getDashboard returns the overview tab: stats and driver ranking
func (r *Router) getDashboard(w http.ResponseWriter, req *http.Request) {
	view := r.svc.View(scopeOf(req))
	ranking := dashboard.DriverRanking(view)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats":   dashboard.ComputeStats(view),
		"ranking": ranking,
		"top":     dashboard.TopPerformers(ranking),
		"low":     dashboard.LowPerformers(ranking),
		"returns": dashboard.ReturnsByReason(view),
	})
}

func (r *Router) getTeam(w http.ResponseWriter, req *http.Request) {
	scope := scopeOf(req)
	team := dashboard.TeamPerformance(r.svc.Drivers(), r.svc.View(scope), scope.Branch)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":    team,
		"summary": dashboard.TeamSummary(team),
	})
}

func (r *Router) setDriverStatus(w http.ResponseWriter, req *http.Request) {
	var in DriverStatusRequest
	if !decode(w, req, &in) {
		return
	}
	drivers, err := r.svc.BulkSetDriverStatus(req.Context(), in.IDs, in.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"drivers": drivers, "count": len(drivers)})
}

func (r *Router) getReturns(w http.ResponseWriter, req *http.Request) {
	view := r.svc.View(scopeOf(req))
	returned := dashboard.Returned(view)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"returns":    returned,
		"count":      len(returned),
		"byReason":   dashboard.ReturnsByReason(view),
		"recurrence": dashboard.RecurrentCustomers(view),
	})
}

func (r *Router) returnReport(w http.ResponseWriter, req *http.Request) {
	scope := scopeOf(req)
	pdfBytes, err := printer.GenerateReturnReport(r.svc.ReturnReport(scope))
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}

	// Set headers for download
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"retornos_%s_%s.pdf\"", scope.Branch, r.svc.Today().ISO()))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}

// getCritical correlates the critical base with the deliveries of the
// selected date (today unless date is given)
func (r *Router) getCritical(w http.ResponseWriter, req *http.Request) {
	scope := scopeOf(req)
	reference := r.svc.Today()
	if day, err := dashboard.ParseDate(scope.Reference); err == nil {
		reference = day
	}
	sn := r.svc.Snapshot()
	rows := dashboard.CorrelateFiltered(
		sn.Reputations,
		dashboard.ByBranch(sn.Deliveries, scope.Branch),
		sn.Mappings,
		reference,
		req.URL.Query().Get("status"),
	)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"critical":  rows,
		"count":     len(rows),
		"reference": reference.ISO(),
	})
}

func (r *Router) toggleResolution(w http.ResponseWriter, req *http.Request) {
	rep, err := r.svc.ToggleResolution(req.Context(), mux.Vars(req)["customerId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}
