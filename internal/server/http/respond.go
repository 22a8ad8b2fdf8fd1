package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/schema"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error      string             `json:"error"`
	Violations []schema.Violation `json:"violations,omitempty"`
}

// writeError maps domain errors onto HTTP statuses once, at the boundary.
// Unknown errors are logged in full and masked as a plain 500.
func (a *API) writeError(w http.ResponseWriter, err error) {
	var ve *schema.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Violations: ve.Violations})
	case errors.Is(err, errs.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorBody{Error: "e-mail already registered"})
	case errors.Is(err, errs.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: "conflicting resource already exists"})
	case errors.Is(err, errs.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
	case errors.Is(err, errs.ErrInvalidRefreshToken):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid refresh token"})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, errs.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "analysis limit reached, try again later"})
	default:
		a.log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func (a *API) unauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: msg})
}

// decodeBody reads a JSON request body into dst. A malformed body is a client
// error, reported without detail beyond the parser's message.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed JSON body"})
		return false
	}
	return true
}
