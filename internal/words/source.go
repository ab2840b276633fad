package words

import (
	"context"
	"log"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Lookup resolves a single term to a full word record.
type Lookup interface {
	Lookup(ctx context.Context, term string) (Word, error)
}

// TermProvider yields extra candidate terms (word-of-the-day enrichment).
type TermProvider interface {
	Term(ctx context.Context) (string, error)
}

// Fetcher picks new vocabulary words. Remote failures are recovered locally:
// a fetch never fails outright as long as the offline pool has unsent terms.
type Fetcher struct {
	dict            Lookup       // nil disables remote lookups
	wotd            TermProvider // nil disables enrichment
	pool            []Word
	attemptsPerWord int
}

type Option func(*Fetcher)

// WithWordOfTheDay adds a provider whose term is tried before the rotating
// pool.
func WithWordOfTheDay(p TermProvider) Option {
	return func(f *Fetcher) { f.wotd = p }
}

// WithAttemptsPerWord bounds the selection loop at count*n candidates, so an
// exhausted pool cannot spin forever.
func WithAttemptsPerWord(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.attemptsPerWord = n
		}
	}
}

// WithPool replaces the offline candidate pool.
func WithPool(pool []Word) Option {
	return func(f *Fetcher) { f.pool = pool }
}

func NewFetcher(dict Lookup, opts ...Option) *Fetcher {
	f := &Fetcher{
		dict:            dict,
		pool:            Fallback(),
		attemptsPerWord: 3,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch returns up to count distinct words whose terms pass the exclude
// predicate. It may return fewer than count when the candidate pool is
// exhausted, and an empty slice when nothing is left; callers decide whether
// that is fatal.
func (f *Fetcher) Fetch(ctx context.Context, count int, exclude func(term string) bool) []Word {
	if count <= 0 {
		return nil
	}
	if exclude == nil {
		exclude = func(string) bool { return false }
	}

	maxAttempts := count * f.attemptsPerWord
	candidates := f.gatherCandidates(ctx, exclude, maxAttempts)
	if len(candidates) == 0 {
		log.Printf("level=warn msg=\"word pool exhausted, nothing to fetch\"")
		return nil
	}
	if len(candidates) > count {
		candidates = candidates[:count]
	}

	resolved := f.resolve(ctx, candidates)

	out := make([]Word, 0, len(candidates))
	for i, c := range candidates {
		switch {
		case resolved[i] != nil:
			out = append(out, polish(*resolved[i]))
		case c.Definition != "":
			// offline entry carries its own curated definition
			out = append(out, c)
		default:
			// term-only candidate (word of the day) with no lookup result
			log.Printf("level=info msg=\"skipping term with no definition\" term=%s", c.Term)
		}
	}
	return out
}

// gatherCandidates builds a distinct, shuffled candidate list: the word of
// the day first (term only), then offline pool entries.
func (f *Fetcher) gatherCandidates(ctx context.Context, exclude func(string) bool, limit int) []Word {
	var out []Word
	seen := map[string]bool{}

	if f.wotd != nil {
		if term, err := f.wotd.Term(ctx); err != nil {
			log.Printf("level=info msg=\"word of the day unavailable\" err=%q", err)
		} else if !exclude(term) {
			out = append(out, Word{Term: term})
			seen[term] = true
		}
	}

	pool := make([]Word, len(f.pool))
	copy(pool, f.pool)
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	for _, w := range pool {
		if len(out) >= limit {
			break
		}
		term := Normalize(w.Term)
		if seen[term] || exclude(term) {
			continue
		}
		w.Term = term
		seen[term] = true
		out = append(out, w)
	}
	return out
}

// resolve looks candidates up against the dictionary API concurrently.
// Failures leave a nil slot; the caller falls back to curated data.
func (f *Fetcher) resolve(ctx context.Context, candidates []Word) []*Word {
	resolved := make([]*Word, len(candidates))
	if f.dict == nil {
		return resolved
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, c := range candidates {
		g.Go(func() error {
			w, err := f.dict.Lookup(gctx, c.Term)
			if err != nil {
				log.Printf("level=info msg=\"dictionary lookup failed, using fallback\" term=%s err=%q", c.Term, err)
				return nil
			}
			resolved[i] = &w
			return nil
		})
	}
	_ = g.Wait()
	return resolved
}
