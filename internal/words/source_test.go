package words

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTerm struct{ term string }

func (f fixedTerm) Term(context.Context) (string, error) { return f.term, nil }

func TestFetchFallsBackWhenAPIDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(NewDictionaryClient(srv.URL, 0))
	got := f.Fetch(context.Background(), 2, nil)

	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].Term, got[1].Term)
	for _, w := range got {
		assert.NotEmpty(t, w.Definition, "fallback words carry curated definitions")
	}
}

func TestFetchWithoutDictionary(t *testing.T) {
	f := NewFetcher(nil)
	got := f.Fetch(context.Background(), 3, nil)
	require.Len(t, got, 3)
}

func TestFetchRespectsExclude(t *testing.T) {
	pool := []Word{
		{Term: "ephemeral", Definition: "short-lived"},
		{Term: "lucid", Definition: "clear"},
	}
	f := NewFetcher(nil, WithPool(pool))

	got := f.Fetch(context.Background(), 2, func(term string) bool {
		return term == "ephemeral"
	})

	require.Len(t, got, 1)
	assert.Equal(t, "lucid", got[0].Term)
}

func TestFetchExhaustedPool(t *testing.T) {
	f := NewFetcher(nil, WithPool(nil))
	got := f.Fetch(context.Background(), 2, nil)
	assert.Empty(t, got)
}

func TestFetchCountZero(t *testing.T) {
	f := NewFetcher(nil)
	assert.Nil(t, f.Fetch(context.Background(), 0, nil))
}

func TestFetchWordOfTheDayFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"word":"halcyon","meanings":[{"partOfSpeech":"adjective","definitions":[{"definition":"calm and peaceful","example":"They remembered the halcyon days of summer."}]}]}]`))
	}))
	defer srv.Close()

	f := NewFetcher(
		NewDictionaryClient(srv.URL, 0),
		WithWordOfTheDay(fixedTerm{"halcyon"}),
	)
	got := f.Fetch(context.Background(), 1, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "halcyon", got[0].Term)
	assert.Equal(t, "calm and peaceful", got[0].Definition)
	assert.Equal(t, "adjective", got[0].PartOfSpeech)
}

func TestFetchSkipsTermOnlyCandidateWhenLookupFails(t *testing.T) {
	// no dictionary: the word-of-the-day term has no definition and is dropped
	f := NewFetcher(nil, WithWordOfTheDay(fixedTerm{"unresolvable"}), WithPool(nil))
	got := f.Fetch(context.Background(), 1, nil)
	assert.Empty(t, got)
}

func TestDictionaryLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/serene", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"word":"serene","meanings":[{"partOfSpeech":"adjective","definitions":[{"definition":"calm and untroubled"},{"definition":"clear","example":"a serene sky"}]}]}]`))
	}))
	defer srv.Close()

	c := NewDictionaryClient(srv.URL, 0)
	w, err := c.Lookup(context.Background(), "Serene")
	require.NoError(t, err)

	assert.Equal(t, "serene", w.Term)
	assert.Equal(t, "calm and untroubled", w.Definition)
	assert.Equal(t, "adjective", w.PartOfSpeech)
	assert.Equal(t, "a serene sky", w.Example, "first non-empty example wins")
}

func TestDictionaryLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewDictionaryClient(srv.URL, 0).Lookup(context.Background(), "nosuchword")
	assert.Error(t, err)
}

func TestDictionaryLookupNoMeanings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewDictionaryClient(srv.URL, 0).Lookup(context.Background(), "empty")
	assert.Error(t, err)
}

func TestFallbackEntriesAreComplete(t *testing.T) {
	pool := Fallback()
	require.NotEmpty(t, pool)

	seen := map[string]bool{}
	for _, w := range pool {
		assert.NotEmpty(t, w.Term)
		assert.NotEmpty(t, w.Definition)
		assert.False(t, seen[w.Term], "duplicate fallback term %q", w.Term)
		seen[w.Term] = true
	}
}
