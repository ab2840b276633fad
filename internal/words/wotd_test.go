package words

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordOfTheDayTerm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
<div class="article-header-container wod-article-header">
  <h2 class="word-header-txt">Halcyon</h2>
</div>
</body></html>`))
	}))
	defer srv.Close()

	c := NewWordOfTheDayClient(srv.URL, 0)
	term, err := c.Term(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "halcyon", term)
}

func TestWordOfTheDayFallbackSelector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
<div class="word-and-pronunciation"><h1>Serene</h1></div>
</body></html>`))
	}))
	defer srv.Close()

	c := NewWordOfTheDayClient(srv.URL, 0)
	term, err := c.Term(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "serene", term)
}

func TestWordOfTheDayNoTerm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	_, err := NewWordOfTheDayClient(srv.URL, 0).Term(context.Background())
	assert.Error(t, err)
}

func TestWordOfTheDayBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewWordOfTheDayClient(srv.URL, 0).Term(context.Background())
	assert.Error(t, err)
}
