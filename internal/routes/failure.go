package routes

import (
	"encoding/json"
	"net/http"

	"fleetmaster/internal/models"
)

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.Failure(status, message))
}
