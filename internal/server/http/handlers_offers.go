package httpserver

import (
	"net/http"

	"github.com/aivolabs/aivo/internal/model"
	"github.com/aivolabs/aivo/internal/schema"
	"github.com/gofrs/uuid/v5"
)

// pathID parses the {id} path segment; a malformed value is a client error.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (a *API) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	var in schema.CreateOffer
	if !decodeBody(w, r, &in) {
		return
	}
	offer, err := a.offers.Create(r.Context(), userID, in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

func (a *API) handleListOffers(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	offers, err := a.offers.List(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if offers == nil {
		offers = []model.Offer{}
	}
	writeJSON(w, http.StatusOK, offers)
}

func (a *API) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	offer, err := a.offers.Get(r.Context(), id, userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (a *API) handleUpdateOffer(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in schema.UpdateOffer
	if !decodeBody(w, r, &in) {
		return
	}
	offer, err := a.offers.Update(r.Context(), id, userID, in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (a *API) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.offers.Delete(r.Context(), id, userID); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
