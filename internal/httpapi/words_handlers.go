package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func (d Deps) handleWordsList(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	words, err := d.DB.Recent(r.Context(), limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	writeJSON(w, words)
}

func (d Deps) handleWordsInfo(w http.ResponseWriter, r *http.Request) {
	info, err := d.DB.Info(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	writeJSON(w, info)
}

func (d Deps) handleWordsPrune(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Days int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Days < 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_days", "days must be >= 0")
		return
	}

	deleted, err := d.DB.PruneOlderThan(r.Context(), body.Days)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"deleted": deleted})
}

func (d Deps) handleWordsReset(w http.ResponseWriter, r *http.Request) {
	if err := d.DB.Reset(r.Context()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
