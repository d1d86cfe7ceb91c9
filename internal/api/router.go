package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fleetreserve/internal/auth"
)

// NewRouter mounts the full API under /api. Everything except health and
// the register/login pair sits behind the bearer-token middleware.
func NewRouter(authHandler *AuthHandler, vehicleHandler *VehicleHandler, reservationHandler *ReservationHandler) *mux.Router {
	r := mux.NewRouter()
	apiRouter := r.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/health", healthCheck).Methods("GET")
	apiRouter.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	apiRouter.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	protected := apiRouter.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware)
	protected.HandleFunc("/auth/profile", authHandler.Profile).Methods("GET")

	protected.HandleFunc("/vehicles", vehicleHandler.ListVehicles).Methods("GET")
	protected.HandleFunc("/vehicles/{id}/availability", vehicleHandler.CheckAvailability).Methods("GET")
	protected.HandleFunc("/vehicles/{id}", vehicleHandler.GetVehicle).Methods("GET")

	protected.HandleFunc("/reservations", reservationHandler.CreateReservation).Methods("POST")
	protected.HandleFunc("/reservations/my-reservations", reservationHandler.GetUserReservations).Methods("GET")
	protected.HandleFunc("/reservations", reservationHandler.GetAllReservations).Methods("GET")
	protected.HandleFunc("/reservations/{id}", reservationHandler.GetReservation).Methods("GET")
	protected.HandleFunc("/reservations/{id}", reservationHandler.CancelReservation).Methods("DELETE")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "Vehicle reservation API is running", map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
