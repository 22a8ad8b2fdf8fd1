package httpserver

import (
	"net/http"

	"github.com/aivolabs/aivo/internal/schema"
)

func (a *API) handleUpsertMetrics(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in schema.UpsertMetrics
	if !decodeBody(w, r, &in) {
		return
	}
	m, err := a.metrics.Upsert(r.Context(), id, userID, in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *API) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := a.metrics.Get(r.Context(), id, userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
