package interfaces

import (
	"encoding/json"
	"net/http"

	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

type RespondJSONFunc func(w http.ResponseWriter, status int, payload interface{})
type RespondErrorFunc func(w http.ResponseWriter, status int, message string)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

// serviceErrorStatus maps the ledger error taxonomy onto HTTP statuses.
// Integrity and store errors stay opaque to the caller.
func serviceErrorStatus(err error) (int, string) {
	switch {
	case ledgerErrors.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case ledgerErrors.IsNotFoundError(err):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func userIDFromContext(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value("userID").(string)
	return userID, ok
}
