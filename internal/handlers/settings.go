package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/swiftlog/internal/services/logistics"
)

// created decodes a body into In, runs add and replies 201 with the result
func created[In, Out any](w http.ResponseWriter, req *http.Request, add func(*http.Request, In) (Out, error)) {
	var in In
	if !decode(w, req, &in) {
		return
	}
	out, err := add(req, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

// removed deletes the {id} of the route
func removed(w http.ResponseWriter, req *http.Request, remove func(*http.Request, string) error) {
	id := mux.Vars(req)["id"]
	if err := remove(req, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (r *Router) databaseStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tables": r.svc.TableStatus(req.Context()),
	})
}

// Branches

func (r *Router) listBranches(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Branches())
}

func (r *Router) createBranch(w http.ResponseWriter, req *http.Request) {
	created(w, req, func(req *http.Request, in logistics.BranchInput) (interface{}, error) {
		return r.svc.AddBranch(req.Context(), in)
	})
}

func (r *Router) deleteBranch(w http.ResponseWriter, req *http.Request) {
	removed(w, req, func(req *http.Request, id string) error { return r.svc.RemoveBranch(req.Context(), id) })
}

// Return reasons

func (r *Router) listReasons(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Reasons())
}

func (r *Router) createReason(w http.ResponseWriter, req *http.Request) {
	created(w, req, func(req *http.Request, in logistics.ReasonInput) (interface{}, error) {
		return r.svc.AddReason(req.Context(), in)
	})
}

func (r *Router) deleteReason(w http.ResponseWriter, req *http.Request) {
	removed(w, req, func(req *http.Request, id string) error { return r.svc.RemoveReason(req.Context(), id) })
}

// Drivers

func (r *Router) listDrivers(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Drivers())
}

func (r *Router) createDriver(w http.ResponseWriter, req *http.Request) {
	created(w, req, func(req *http.Request, in logistics.DriverInput) (interface{}, error) {
		return r.svc.AddDriver(req.Context(), in)
	})
}

func (r *Router) deleteDriver(w http.ResponseWriter, req *http.Request) {
	removed(w, req, func(req *http.Request, id string) error { return r.svc.RemoveDriver(req.Context(), id) })
}

// Vehicles

func (r *Router) listVehicles(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Vehicles())
}

func (r *Router) createVehicle(w http.ResponseWriter, req *http.Request) {
	created(w, req, func(req *http.Request, in logistics.VehicleInput) (interface{}, error) {
		return r.svc.AddVehicle(req.Context(), in)
	})
}

func (r *Router) deleteVehicle(w http.ResponseWriter, req *http.Request) {
	removed(w, req, func(req *http.Request, id string) error { return r.svc.RemoveVehicle(req.Context(), id) })
}

// Critical base

func (r *Router) listReputations(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Reputations())
}

func (r *Router) createReputation(w http.ResponseWriter, req *http.Request) {
	created(w, req, func(req *http.Request, in logistics.ReputationInput) (interface{}, error) {
		return r.svc.AddReputation(req.Context(), in)
	})
}

func (r *Router) bulkReputations(w http.ResponseWriter, req *http.Request) {
	created(w, req, func(req *http.Request, in []logistics.ReputationInput) (interface{}, error) {
		return r.svc.BulkAddReputations(req.Context(), in)
	})
}

func (r *Router) updateReputation(w http.ResponseWriter, req *http.Request) {
	var p logistics.ReputationPatch
	if !decode(w, req, &p) {
		return
	}
	rep, err := r.svc.UpdateReputation(req.Context(), mux.Vars(req)["id"], p)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (r *Router) deleteReputation(w http.ResponseWriter, req *http.Request) {
	removed(w, req, func(req *http.Request, id string) error { return r.svc.RemoveReputation(req.Context(), id) })
}

// Seller mappings

func (r *Router) listMappings(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Mappings())
}

func (r *Router) createMapping(w http.ResponseWriter, req *http.Request) {
	created(w, req, func(req *http.Request, in logistics.MappingInput) (interface{}, error) {
		return r.svc.AddMapping(req.Context(), in)
	})
}

func (r *Router) bulkMappings(w http.ResponseWriter, req *http.Request) {
	created(w, req, func(req *http.Request, in []logistics.MappingInput) (interface{}, error) {
		return r.svc.BulkAddMappings(req.Context(), in)
	})
}

func (r *Router) deleteMapping(w http.ResponseWriter, req *http.Request) {
	removed(w, req, func(req *http.Request, id string) error { return r.svc.RemoveMapping(req.Context(), id) })
}
