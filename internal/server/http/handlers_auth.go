package httpserver

import (
	"net/http"

	"github.com/aivolabs/aivo/internal/schema"
)

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in schema.RegisterUser
	if !decodeBody(w, r, &in) {
		return
	}
	user, err := a.auth.Register(r.Context(), in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in schema.SignInUser
	if !decodeBody(w, r, &in) {
		return
	}
	pair, user, err := a.auth.SignIn(r.Context(), in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if !decodeBody(w, r, &in) {
		return
	}
	pair, err := a.auth.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
