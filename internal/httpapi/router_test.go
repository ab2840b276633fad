package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-engine/internal/config"
	"vocab-engine/internal/events"
	"vocab-engine/internal/store"
	"vocab-engine/internal/workflow"
)

func testDeps(t *testing.T, cfg config.Config) Deps {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	return Deps{
		DB:          db,
		Hub:         events.NewHub(),
		CfgVal:      &cfgVal,
		OverlayPath: filepath.Join(t.TempDir(), "config.yml"),
		LoadCfg:     func() (config.Config, error) { return cfgVal.Load().(config.Config), nil },
		RunSend: func(ctx context.Context, c config.Config, dryRun bool) (workflow.Result, error) {
			return workflow.Result{DryRun: dryRun}, nil
		},
		Sessions: NewSessionStore(0),
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(NewMux(testDeps(t, config.Defaults())))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWordsInfo(t *testing.T) {
	deps := testDeps(t, config.Defaults())
	srv := httptest.NewServer(NewMux(deps))
	defer srv.Close()

	require.NoError(t, deps.DB.RecordSent(context.Background(), []store.Word{
		{Term: "lucid", Definition: "clear"},
	}))

	resp, err := http.Get(srv.URL + "/api/words/info")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(NewMux(testDeps(t, config.Defaults())))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/words/info", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestConfigPutRejectsInvalid(t *testing.T) {
	cfg := config.Defaults()
	cfg.Recipient = "kid@example.com"
	cfg.SMTP.User = "u"
	cfg.SMTP.Password = "p"

	srv := httptest.NewServer(NewMux(testDeps(t, cfg)))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/config",
		strings.NewReader(`{"wordsPerDay": 99}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginGate(t *testing.T) {
	cfg := config.Defaults()
	cfg.Web.Password = "hunter2"

	srv := httptest.NewServer(NewMux(testDeps(t, cfg)))
	defer srv.Close()

	// API requests without a session get a JSON 401
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/words/info", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// wrong password re-renders the login page
	resp, err = http.PostForm(srv.URL+"/login", url.Values{"password": {"wrong"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// correct password sets a session cookie
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err = client.PostForm(srv.URL+"/login", url.Values{"password": {"hunter2"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/words/info", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginGateOpenWithoutPassword(t *testing.T) {
	srv := httptest.NewServer(NewMux(testDeps(t, config.Defaults())))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/words/info")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
