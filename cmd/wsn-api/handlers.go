package main

import (
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/query"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	querier query.Querier
}

// NewRouter defines the API routes.
func NewRouter(h *APIHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/runs", h.listRunsHandler).Methods("GET")
	r.HandleFunc("/api/v1/runs/{scenario}/{seed}/counts", h.runCountsHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// listRunsHandler lists the runs found in the counts store.
func (h *APIHandler) listRunsHandler(w http.ResponseWriter, r *http.Request) {
	runs, err := h.querier.ListRuns(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list runs: %v", err), http.StatusInternalServerError)
		return
	}

	items := make([]interface{}, len(runs))
	for i, run := range runs {
		items[i] = map[string]interface{}{
			"scenario": run.Scenario,
			"seed":     run.Seed,
			"sensors":  run.Sensors,
		}
	}
	resp, err := structpb.NewStruct(map[string]interface{}{"runs": items})
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to build response: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

// runCountsHandler returns the count table of one run.
func (h *APIHandler) runCountsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	t, err := h.querier.RunCounts(r.Context(), vars["scenario"], vars["seed"])
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query counts: %v", err), http.StatusInternalServerError)
		return
	}
	if t.Len() == 0 {
		http.Error(w, fmt.Sprintf("no counts for run %s/%s", vars["scenario"], vars["seed"]), http.StatusNotFound)
		return
	}

	resp, err := tableToStruct(vars["scenario"], vars["seed"], t)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to build response: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

func tableToStruct(scenario, seed string, t *model.SensorCountTable) (*structpb.Struct, error) {
	counters := make([]interface{}, 0, len(t.Counters()))
	for _, c := range t.Counters() {
		counters = append(counters, c)
	}
	rows := make([]interface{}, 0, t.Len())
	for _, row := range t.Rows() {
		values := make([]interface{}, len(row.Values))
		for i, v := range row.Values {
			values[i] = v
		}
		rows = append(rows, map[string]interface{}{
			"sensor": string(row.Sensor),
			"values": values,
		})
	}
	return structpb.NewStruct(map[string]interface{}{
		"scenario": scenario,
		"seed":     seed,
		"counters": counters,
		"rows":     rows,
	})
}

func writeJSON(w http.ResponseWriter, msg proto.Message) {
	jsonBytes, err := protojson.Marshal(msg)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonBytes)
}
