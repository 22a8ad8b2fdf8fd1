package httpserver

import (
	"net/http"

	"github.com/aivolabs/aivo/internal/model"
	"github.com/aivolabs/aivo/internal/schema"
)

func (a *API) handleCreateBenchmark(w http.ResponseWriter, r *http.Request) {
	var in schema.CreateBenchmark
	if !decodeBody(w, r, &in) {
		return
	}
	b, err := a.benchmarks.Create(r.Context(), in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (a *API) handleListBenchmarks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.BenchmarkFilter{
		Niche:         q.Get("niche"),
		Country:       q.Get("country"),
		TrafficSource: q.Get("traffic_source"),
	}
	list, err := a.benchmarks.List(r.Context(), filter)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if list == nil {
		list = []model.Benchmark{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) handleGetBenchmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := a.benchmarks.Get(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (a *API) handleUpdateBenchmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in schema.CreateBenchmark
	if !decodeBody(w, r, &in) {
		return
	}
	b, err := a.benchmarks.Update(r.Context(), id, in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (a *API) handleDeleteBenchmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.benchmarks.Delete(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
