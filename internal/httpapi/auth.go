package httpapi

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

const sessionCookie = "vocab_session"

// SessionStore holds the login-gate sessions in memory. Tokens expire; a
// restart logs everyone out, which is fine for a single-user tool.
type SessionStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{tokens: make(map[string]time.Time), ttl: ttl}
}

func (s *SessionStore) New() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	token := hex.EncodeToString(b[:])

	s.mu.Lock()
	s.tokens[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return token
}

func (s *SessionStore) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(s.tokens, token)
		return false
	}
	return true
}

func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// LoginGate protects everything behind the web form password. With no
// password configured the gate is open (local single-user setup).
func (d Deps) LoginGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := d.cfg()
		if cfg.Web.Password == "" {
			next.ServeHTTP(w, r)
			return
		}

		if c, err := r.Cookie(sessionCookie); err == nil && d.Sessions.Valid(c.Value) {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		WriteError(w, r, http.StatusUnauthorized, "unauthorized", "login required")
	})
}

func (d Deps) handleLogin(w http.ResponseWriter, r *http.Request) {
	cfg := d.cfg()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	given := r.PostFormValue("password")
	if subtle.ConstantTimeCompare([]byte(given), []byte(cfg.Web.Password)) != 1 {
		renderLogin(w, "Wrong password.")
		return
	}

	token := d.Sessions.New()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (d Deps) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		d.Sessions.Revoke(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}
