package words

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// DictionaryClient looks up single terms against a dictionaryapi.dev-style
// endpoint. Lookups are rate limited so a burst of candidate terms does not
// hammer the free API.
type DictionaryClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func NewDictionaryClient(baseURL string, timeout time.Duration) *DictionaryClient {
	if baseURL == "" {
		baseURL = DefaultDictionaryURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DictionaryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

// apiEntry mirrors the dictionaryapi.dev response shape.
type apiEntry struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Lookup fetches a term's first definition. It returns an error for network
// failures, non-200 responses, and responses with no usable meaning.
func (c *DictionaryClient) Lookup(ctx context.Context, term string) (Word, error) {
	term = Normalize(term)

	if err := c.limiter.Wait(ctx); err != nil {
		return Word{}, err
	}

	url := c.baseURL + "/" + term
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Word{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Word{}, fmt.Errorf("dictionary lookup %q: %w", term, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Word{}, fmt.Errorf("dictionary lookup %q: status %d", term, resp.StatusCode)
	}

	var entries []apiEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return Word{}, fmt.Errorf("dictionary lookup %q: decode: %w", term, err)
	}
	if len(entries) == 0 || len(entries[0].Meanings) == 0 {
		return Word{}, fmt.Errorf("dictionary lookup %q: no meanings", term)
	}

	meaning := entries[0].Meanings[0]
	if len(meaning.Definitions) == 0 {
		return Word{}, fmt.Errorf("dictionary lookup %q: no definitions", term)
	}

	w := Word{
		Term:         term,
		Definition:   meaning.Definitions[0].Definition,
		PartOfSpeech: meaning.PartOfSpeech,
	}
	for _, d := range meaning.Definitions {
		if d.Example != "" {
			w.Example = d.Example
			break
		}
	}
	return w, nil
}

// Ping reports whether the API answers at all. Used by `validate --probe`.
func (c *DictionaryClient) Ping(ctx context.Context) error {
	_, err := c.Lookup(ctx, "test")
	return err
}
