package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrMessageInternal is the only message a 500 ever carries; storage and
// expansion details stay in the logs.
const ErrMessageInternal = "internal server error"

// JSONError sends an error response with a single "error" field. All non-200
// bodies in the API, including the provisioning 401/409 responses, go through
// here or JSONValidationError.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends "error" plus an optional field -> rule map, the
// shape the asset create and deadline status endpoints return on 400.
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}
