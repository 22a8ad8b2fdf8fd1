package httpserver

import (
	"errors"
	"net/http"

	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/obs"
)

func (a *API) handleAnalyzeOffer(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := a.analysis.Analyze(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, errs.ErrRateLimited) {
			obs.AnalysisDenied()
		}
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
