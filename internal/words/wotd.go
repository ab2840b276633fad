package words

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const DefaultWordOfTheDayURL = "https://www.merriam-webster.com/word-of-the-day"

// WordOfTheDayClient scrapes today's featured word from a dictionary site.
// It only yields a candidate term; the definition still comes from the
// dictionary API so the email format stays uniform.
type WordOfTheDayClient struct {
	url  string
	http *http.Client
}

func NewWordOfTheDayClient(url string, timeout time.Duration) *WordOfTheDayClient {
	if url == "" {
		url = DefaultWordOfTheDayURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WordOfTheDayClient{url: url, http: &http.Client{Timeout: timeout}}
}

// Term returns today's featured word, lower-cased.
func (c *WordOfTheDayClient) Term(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("word of the day: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("word of the day: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("word of the day: parse: %w", err)
	}

	term := Normalize(doc.Find("h2.word-header-txt").First().Text())
	if term == "" {
		// some mirrors use a plain h1 inside the word-and-pronunciation block
		term = Normalize(doc.Find(".word-and-pronunciation h1").First().Text())
	}
	if term == "" {
		return "", fmt.Errorf("word of the day: no term found in page")
	}
	return term, nil
}
