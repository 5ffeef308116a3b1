package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/services/logistics"
)

// IDsRequest selects deliveries or drivers for a bulk action
type IDsRequest struct {
	IDs []string `json:"ids"`
}

// BulkStatusRequest applies one status to many deliveries
type BulkStatusRequest struct {
	IDs    []string              `json:"ids"`
	Status models.DeliveryStatus `json:"status"`
}

// BulkDateRequest moves many deliveries to one date
type BulkDateRequest struct {
	IDs  []string `json:"ids"`
	Date string   `json:"date"`
}

// StatusRequest changes the status of a single delivery
type StatusRequest struct {
	Status models.DeliveryStatus `json:"status"`
}

// ImportTextRequest carries pasted spreadsheet lines
type ImportTextRequest struct {
	Text   string `json:"text"`
	Branch string `json:"branch"`
}

// deliveryRow is a delivery with its date rendered for display
type deliveryRow struct {
	models.Delivery
	DisplayDate string `json:"displayDate,omitempty"`
	Critical    bool   `json:"critical"`
}

// scopeOf reads the branch, range and date query parameters
func scopeOf(req *http.Request) dashboard.Scope {
	q := req.URL.Query()
	branch := q.Get("branch")
	if branch == "" {
		branch = models.BranchAll
	}
	return dashboard.Scope{
		Branch:    branch,
		Range:     dashboard.ParseRange(q.Get("range")),
		Reference: q.Get("date"),
	}
}

func (r *Router) listDeliveries(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	critical, _ := strconv.ParseBool(q.Get("critical"))
	display, _ := strconv.ParseBool(q.Get("display"))

	criticalSet := dashboard.NewCriticalSet(r.svc.Reputations())
	list := dashboard.FilterList(r.svc.View(scopeOf(req)), dashboard.ListFilter{
		Status:       q.Get("status"),
		Search:       q.Get("search"),
		OnlyCritical: critical,
	}, criticalSet)

	today := r.svc.Today()
	rows := make([]deliveryRow, len(list))
	for i, d := range list {
		rows[i] = deliveryRow{Delivery: d, Critical: criticalSet.Has(d.CustomerID)}
		if display {
			rows[i].DisplayDate = dashboard.ToDisplay(d.Date, today)
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deliveries": rows,
		"count":      len(rows),
	})
}

func (r *Router) getDelivery(w http.ResponseWriter, req *http.Request) {
	d, err := r.svc.Delivery(mux.Vars(req)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (r *Router) createDelivery(w http.ResponseWriter, req *http.Request) {
	var in logistics.DeliveryInput
	if !decode(w, req, &in) {
		return
	}
	d, err := r.svc.AddDelivery(req.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (r *Router) createDeliveries(w http.ResponseWriter, req *http.Request) {
	var in []models.Delivery
	if !decode(w, req, &in) {
		return
	}
	added, err := r.svc.AddDeliveries(req.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"deliveries": added, "count": len(added)})
}

func (r *Router) importText(w http.ResponseWriter, req *http.Request) {
	var in ImportTextRequest
	if !decode(w, req, &in) {
		return
	}
	added, err := r.svc.ImportBulkText(req.Context(), in.Text, in.Branch)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"deliveries": added, "count": len(added)})
}

func (r *Router) updateDelivery(w http.ResponseWriter, req *http.Request) {
	var p logistics.DeliveryPatch
	if !decode(w, req, &p) {
		return
	}
	d, err := r.svc.UpdateDelivery(req.Context(), mux.Vars(req)["id"], p)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (r *Router) updateStatus(w http.ResponseWriter, req *http.Request) {
	var in StatusRequest
	if !decode(w, req, &in) {
		return
	}
	d, err := r.svc.UpdateStatus(req.Context(), mux.Vars(req)["id"], in.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (r *Router) bulkStatus(w http.ResponseWriter, req *http.Request) {
	var in BulkStatusRequest
	if !decode(w, req, &in) {
		return
	}
	updated, err := r.svc.BulkUpdateStatus(req.Context(), in.IDs, in.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"deliveries": updated, "count": len(updated)})
}

func (r *Router) bulkDate(w http.ResponseWriter, req *http.Request) {
	var in BulkDateRequest
	if !decode(w, req, &in) {
		return
	}
	updated, err := r.svc.BulkUpdateDate(req.Context(), in.IDs, in.Date)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"deliveries": updated, "count": len(updated)})
}

func (r *Router) registerReturn(w http.ResponseWriter, req *http.Request) {
	var in logistics.ReturnInput
	if !decode(w, req, &in) {
		return
	}
	d, err := r.svc.RegisterReturn(req.Context(), mux.Vars(req)["id"], in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (r *Router) notifySeller(w http.ResponseWriter, req *http.Request) {
	notice, err := r.svc.NotifySeller(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, notice)
}

func (r *Router) deleteDeliveries(w http.ResponseWriter, req *http.Request) {
	var in IDsRequest
	if !decode(w, req, &in) {
		return
	}
	if err := r.svc.DeleteDeliveries(req.Context(), in.IDs); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": len(in.IDs)})
}
