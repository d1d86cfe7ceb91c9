package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"fleetreserve/internal/service"
)

type VehicleHandler struct {
	Service *service.ReservationService
}

func NewVehicleHandler(svc *service.ReservationService) *VehicleHandler {
	return &VehicleHandler{Service: svc}
}

func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Service.ListVehicles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"vehicles": vehicles})
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	vehicle, err := h.Service.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"vehicle": vehicle})
}

// CheckAvailability answers the pre-booking probe for one vehicle over the
// startDate/endDate query range.
func (h *VehicleHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	startParam := r.URL.Query().Get("startDate")
	endParam := r.URL.Query().Get("endDate")
	if startParam == "" || endParam == "" {
		writeMessage(w, http.StatusBadRequest, "Start and end dates are required")
		return
	}
	start, err := parseDate(startParam)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDate(endParam)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	availability, err := h.Service.CheckAvailability(r.Context(), id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", availability)
}
