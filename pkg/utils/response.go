package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// errorEnvelope is the body of every non-2xx response the API returns.
type errorEnvelope struct {
	Error string `json:"error"`
}

// RespondJSON writes payload as the JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[http] failed to encode response: %v", err)
	}
}

// RespondError writes the standard error envelope with the given status.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, errorEnvelope{Error: message})
}
