package httpapi

import (
	"encoding/json"
	"net/http"

	"vocab-engine/internal/config"
	"vocab-engine/internal/secrets"
)

func (d Deps) cfg() config.Config {
	return d.CfgVal.Load().(config.Config)
}

func (d Deps) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, d.cfg())
}

func (d Deps) handleConfigPut(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	incoming := d.cfg()
	if err := dec.Decode(&incoming); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		WriteJSON(w, http.StatusBadRequest, vr)
		return
	}

	if err := config.SaveOverlay(d.OverlayPath, normalized); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := d.LoadCfg()
	if err != nil {
		http.Error(w, "saved but reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	d.CfgVal.Store(saved)
	writeJSON(w, saved)
}

func (d Deps) handleConfigValidate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(d.cfg())
	writeJSON(w, vr)
}

// handleSecretsPut stores a credential in the OS keychain and reloads the
// config so the new secret takes effect immediately.
func (d Deps) handleSecretsPut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch body.Name {
	case secrets.AccountSMTPPassword, secrets.AccountResendAPIKey, secrets.AccountWebPassword:
	default:
		WriteError(w, r, http.StatusBadRequest, "unknown_secret", "unknown secret name")
		return
	}

	if err := secrets.Set(body.Name, body.Value); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keychain_error", err.Error())
		return
	}

	if saved, err := d.LoadCfg(); err == nil {
		d.CfgVal.Store(saved)
	}
	writeJSON(w, map[string]any{"ok": true})
}
