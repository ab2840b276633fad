package httpapi

import "net/http"

// NewMux wires the API and page routes. The login gate wraps everything
// except /login and /health so the form password actually protects the API.
func NewMux(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleIndex,
	}))

	// Config
	mux.HandleFunc("/api/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleConfigGet,
		http.MethodPut: d.handleConfigPut,
	}))
	mux.HandleFunc("/api/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleConfigValidate,
	}))
	mux.HandleFunc("/api/secrets", methodMux(map[string]http.HandlerFunc{
		http.MethodPut: d.handleSecretsPut,
	}))

	// Sending
	mux.HandleFunc("/api/send", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: d.handleSendRun,
	}))
	mux.HandleFunc("/api/preview", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handlePreview,
	}))
	mux.HandleFunc("/api/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleStatus,
	}))

	// Sent-word history
	mux.HandleFunc("/api/words", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleWordsList,
	}))
	mux.HandleFunc("/api/words/info", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleWordsInfo,
	}))
	mux.HandleFunc("/api/words/prune", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: d.handleWordsPrune,
	}))
	mux.HandleFunc("/api/words/reset", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: d.handleWordsReset,
	}))

	// SSE events
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleEvents,
	}))

	gated := d.LoginGate(mux)

	outer := http.NewServeMux()
	outer.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: handleHealth,
	}))
	outer.HandleFunc("/login", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  d.handleLoginPage,
		http.MethodPost: d.handleLogin,
	}))
	outer.HandleFunc("/logout", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleLogout,
	}))
	outer.Handle("/", gated)

	return Chain(outer, RequestID, AccessLog, Recover)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ok": true})
}
