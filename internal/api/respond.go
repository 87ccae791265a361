package api

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "parkscan/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps the error taxonomy to a status code and a structured
// body. Unrecognized errors become a generic 500 so internals never
// leak to callers.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.StatusCode(err)
	if code == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}
	writeJSON(w, code, ErrorResponse{Error: apperrors.PublicMessage(err)})
}
