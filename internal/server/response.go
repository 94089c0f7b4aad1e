package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nkhatri/udhaar/internal/auth"
	"github.com/nkhatri/udhaar/internal/ledger"
	"github.com/nkhatri/udhaar/internal/models"
)

// writeJSON emits a success response. All success paths go through here so
// the API stays uniform.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the standard error body: {"error": "..."}.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceError maps a service error to its HTTP status using the
// package sentinels. Unrecognized errors become an opaque 500; the caller
// gets no storage detail.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, models.ErrInvalidKind),
		errors.Is(err, models.ErrInvalidRole),
		errors.Is(err, auth.ErrAccountExists),
		errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ledger.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
