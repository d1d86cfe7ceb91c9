package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"fleetreserve/internal/auth"
	"fleetreserve/internal/service"
)

type ReservationHandler struct {
	Service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	reservation, err := h.Service.CreateReservation(r.Context(), claims.UserID, req.VehicleID, start, end, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Reservation created successfully", map[string]interface{}{
		"reservation": reservation,
	})
}

func (h *ReservationHandler) GetUserReservations(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	reservations, err := h.Service.GetUserReservations(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"reservations": reservations})
}

func (h *ReservationHandler) GetAllReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Service.GetAllReservations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"reservations": reservations})
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	reservation, err := h.Service.GetReservationByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"reservation": reservation})
}

func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	id := mux.Vars(r)["id"]
	reservation, err := h.Service.CancelReservation(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Reservation cancelled successfully", map[string]interface{}{
		"reservation": reservation,
	})
}
