package httpapi

import (
	"errors"
	"net/http"
	"time"

	"vocab-engine/internal/events"
	"vocab-engine/internal/workflow"
)

func (d Deps) handleSendRun(w http.ResponseWriter, r *http.Request) {
	cfg := d.cfg()

	res, err := d.RunSend(r.Context(), cfg, false)
	switch {
	case errors.Is(err, workflow.ErrRunInProgress):
		WriteError(w, r, http.StatusConflict, "run_in_progress", err.Error())
		return
	case errors.Is(err, workflow.ErrNothingToSend):
		WriteError(w, r, http.StatusConflict, "nothing_to_send", err.Error())
		return
	case err != nil:
		WriteError(w, r, http.StatusBadGateway, "send_failed", err.Error())
		return
	}

	d.Hub.Publish(events.MakeEvent("send_completed", map[string]any{
		"words": len(res.Words),
	}))
	writeJSON(w, res)
}

// handlePreview composes without delivering or recording.
func (d Deps) handlePreview(w http.ResponseWriter, r *http.Request) {
	cfg := d.cfg()

	res, err := d.RunSend(r.Context(), cfg, true)
	if err != nil {
		if errors.Is(err, workflow.ErrNothingToSend) {
			WriteError(w, r, http.StatusConflict, "nothing_to_send", err.Error())
			return
		}
		WriteError(w, r, http.StatusBadGateway, "preview_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(res.Message.HTML))
}

func (d Deps) handleStatus(w http.ResponseWriter, r *http.Request) {
	info, err := d.DB.Info(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	out := map[string]any{
		"ok":    true,
		"time":  time.Now().Format(time.RFC3339),
		"store": info,
	}
	if d.NextRun != nil {
		if next := d.NextRun(); !next.IsZero() {
			out["nextRun"] = next.Format(time.RFC3339)
		}
	}
	writeJSON(w, out)
}
