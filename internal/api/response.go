package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"fleetreserve/internal/entities"
	"fleetreserve/internal/httperrors"
)

// Every response uses the same envelope.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeError maps the service taxonomy onto status codes. Conflicts carry
// their period list; anything unrecognized is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	var conflict *httperrors.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, envelope{
			Success: false,
			Message: conflict.Message,
			Data: map[string][]entities.ConflictingPeriod{
				"conflictingReservations": conflict.Conflicts,
			},
		})
		return
	}
	var httpErr *httperrors.HTTPError
	if errors.As(err, &httpErr) {
		writeMessage(w, httpErr.Code, httpErr.Message)
		return
	}
	log.WithError(err).Error("Internal server error")
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}
