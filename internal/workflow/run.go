// Package workflow ties word selection, composition, delivery, and
// recording into one linear run.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofrs/flock"

	"vocab-engine/internal/compose"
	"vocab-engine/internal/mail"
	"vocab-engine/internal/store"
	"vocab-engine/internal/words"
)

// ErrNothingToSend means no unsent words could be found; the run is a no-op
// failure rather than an empty email.
var ErrNothingToSend = errors.New("no new words available")

// ErrRunInProgress means another run (scheduled or manually triggered) holds
// the lock.
var ErrRunInProgress = errors.New("a send run is already in progress")

// Source yields candidate words whose terms pass the exclude predicate.
// Implementations may ignore the predicate; the runner filters again.
type Source interface {
	Fetch(ctx context.Context, count int, exclude func(term string) bool) []words.Word
}

type Runner struct {
	Store    *store.DB
	Source   Source
	Composer *compose.Composer
	Sender   mail.Sender

	Recipient   string
	WordsPerDay int

	// LockPath guards against a manual web trigger racing the scheduled
	// run. Empty disables locking.
	LockPath string

	// SendTimeout bounds the delivery call. Zero means 30s.
	SendTimeout time.Duration
}

type Result struct {
	Words   []words.Word    `json:"words"`
	Message compose.Message `json:"-"`
	DryRun  bool            `json:"dryRun"`
}

// Run executes one send: select, compose, deliver, record. Words are
// recorded only after delivery succeeds, so a failed send leaves them
// eligible for the next run. With dryRun set, delivery and recording are
// skipped and the composed message is returned for preview.
func (r *Runner) Run(ctx context.Context, dryRun bool) (Result, error) {
	if r.LockPath != "" && !dryRun {
		fl := flock.New(r.LockPath)
		locked, err := fl.TryLock()
		if err != nil {
			return Result{}, fmt.Errorf("acquire run lock: %w", err)
		}
		if !locked {
			return Result{}, ErrRunInProgress
		}
		defer func() { _ = fl.Unlock() }()
	}

	count := r.WordsPerDay
	if count <= 0 {
		count = 2
	}

	batch, err := r.selectWords(ctx, count)
	if err != nil {
		return Result{}, err
	}
	if len(batch) == 0 {
		return Result{}, ErrNothingToSend
	}
	if len(batch) < count {
		log.Printf("level=warn msg=\"fewer words than requested, sending anyway\" want=%d got=%d", count, len(batch))
	}

	total, err := r.Store.CountSent(ctx)
	if err != nil {
		return Result{}, err
	}
	today, err := r.Store.SentToday(ctx)
	if err != nil {
		return Result{}, err
	}

	msg, err := r.Composer.Compose(batch, time.Now(), compose.Stats{TotalSent: total, SentToday: today})
	if err != nil {
		return Result{}, fmt.Errorf("compose email: %w", err)
	}

	res := Result{Words: batch, Message: msg, DryRun: dryRun}
	if dryRun {
		return res, nil
	}

	timeout := r.SendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.Sender.Send(sendCtx, mail.Message{
		To:      r.Recipient,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}); err != nil {
		return Result{}, err
	}

	records := make([]store.Word, len(batch))
	for i, w := range batch {
		records[i] = store.Word{
			Term:         w.Term,
			Definition:   w.Definition,
			PartOfSpeech: w.PartOfSpeech,
			Example:      w.Example,
		}
	}
	if err := r.Store.RecordSent(ctx, records); err != nil {
		// delivered but not recorded: the next run may repeat these words
		return res, fmt.Errorf("email sent but recording failed: %w", err)
	}

	log.Printf("level=info msg=\"send complete\" words=%d to=%s", len(batch), r.Recipient)
	return res, nil
}

// selectWords asks the source for candidates with a not-already-sent
// predicate, then filters once more client-side in case the source ignores
// the predicate.
func (r *Runner) selectWords(ctx context.Context, count int) ([]words.Word, error) {
	exclude := func(term string) bool {
		sent, err := r.Store.Contains(ctx, term)
		if err != nil {
			log.Printf("level=error msg=\"contains check failed\" term=%s err=%q", term, err)
			return false
		}
		return sent
	}

	candidates := r.Source.Fetch(ctx, count, exclude)

	seen := map[string]bool{}
	out := make([]words.Word, 0, count)
	for _, w := range candidates {
		if len(out) >= count {
			break
		}
		term := words.Normalize(w.Term)
		if term == "" || seen[term] {
			continue
		}
		sent, err := r.Store.Contains(ctx, term)
		if err != nil {
			return nil, err
		}
		if sent {
			continue
		}
		w.Term = term
		seen[term] = true
		out = append(out, w)
	}
	return out, nil
}
