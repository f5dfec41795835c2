package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tasknest/tasknest/internal/logger"
	"github.com/tasknest/tasknest/internal/taskerr"
)

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}

// respondError maps a service error onto the wire: taxonomy errors
// keep their message, anything else is logged and becomes a generic
// 500.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	if taskerr.KindOf(err) == taskerr.KindInternal {
		log.Error("Internal error: %v", err)
	}
	respondMessage(w, taskerr.HTTPStatus(err), taskerr.Message(err))
}
