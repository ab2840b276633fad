package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-engine/internal/compose"
	"vocab-engine/internal/mail"
	"vocab-engine/internal/store"
	"vocab-engine/internal/words"
)

// fixedSource ignores the exclude predicate on purpose: the runner must
// filter already-sent terms itself.
type fixedSource struct{ words []words.Word }

func (s fixedSource) Fetch(ctx context.Context, count int, exclude func(string) bool) []words.Word {
	return s.words
}

type fakeSender struct {
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) Probe(ctx context.Context) error { return f.err }

func newTestRunner(t *testing.T, source Source, sender mail.Sender) (*Runner, *store.DB) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	comp, err := compose.New("Test Bot", "")
	require.NoError(t, err)

	return &Runner{
		Store:       db,
		Source:      source,
		Composer:    comp,
		Sender:      sender,
		Recipient:   "kid@example.com",
		WordsPerDay: 2,
	}, db
}

func TestRunDeliversAndRecords(t *testing.T) {
	source := fixedSource{words: []words.Word{
		{Term: "ephemeral", Definition: "short-lived"},
		{Term: "lucid", Definition: "clear"},
	}}
	sender := &fakeSender{}
	runner, db := newTestRunner(t, source, sender)

	res, err := runner.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Len(t, res.Words, 2)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "kid@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Text, "Ephemeral")
	assert.Contains(t, sender.sent[0].Text, "Lucid")

	count, err := db.CountSent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRunFiltersAlreadySentWords(t *testing.T) {
	source := fixedSource{words: []words.Word{
		{Term: "ephemeral", Definition: "short-lived"},
		{Term: "lucid", Definition: "clear"},
	}}
	sender := &fakeSender{}
	runner, db := newTestRunner(t, source, sender)

	require.NoError(t, db.RecordSent(context.Background(), []store.Word{
		{Term: "ephemeral", Definition: "short-lived"},
	}))

	res, err := runner.Run(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, res.Words, 1)
	assert.Equal(t, "lucid", res.Words[0].Term)

	count, err := db.CountSent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRunFailedDeliveryRecordsNothing(t *testing.T) {
	source := fixedSource{words: []words.Word{
		{Term: "ephemeral", Definition: "short-lived"},
	}}
	sender := &fakeSender{err: mail.ErrDeliveryFailed}
	runner, db := newTestRunner(t, source, sender)

	_, err := runner.Run(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mail.ErrDeliveryFailed))

	count, err := db.CountSent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count, "a failed send must leave words eligible for the next run")
}

func TestRunNothingToSend(t *testing.T) {
	runner, _ := newTestRunner(t, fixedSource{}, &fakeSender{})

	_, err := runner.Run(context.Background(), false)
	assert.True(t, errors.Is(err, ErrNothingToSend))
}

func TestRunDeduplicatesSourceWords(t *testing.T) {
	source := fixedSource{words: []words.Word{
		{Term: "Lucid", Definition: "clear"},
		{Term: "lucid", Definition: "clear"},
		{Term: "ephemeral", Definition: "short-lived"},
	}}
	sender := &fakeSender{}
	runner, _ := newTestRunner(t, source, sender)

	res, err := runner.Run(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, res.Words, 2)
	assert.Equal(t, "lucid", res.Words[0].Term)
	assert.Equal(t, "ephemeral", res.Words[1].Term)
}

func TestRunDryRun(t *testing.T) {
	source := fixedSource{words: []words.Word{
		{Term: "ephemeral", Definition: "short-lived"},
		{Term: "lucid", Definition: "clear"},
	}}
	sender := &fakeSender{}
	runner, db := newTestRunner(t, source, sender)

	res, err := runner.Run(context.Background(), true)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.NotEmpty(t, res.Message.Text)
	assert.Empty(t, sender.sent, "dry run must not deliver")

	count, err := db.CountSent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count, "dry run must not record")
}

func TestRunLockBlocksConcurrentRun(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "send.lock")

	source := fixedSource{words: []words.Word{{Term: "lucid", Definition: "clear"}}}
	blocked := &fakeSender{}
	runner, _ := newTestRunner(t, source, blocked)
	runner.LockPath = lockPath

	// hold the lock the way a concurrent run would
	other, _ := newTestRunner(t, source, &fakeSender{})
	other.LockPath = lockPath

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		otherSender := &slowSender{held: held, release: release}
		other.Sender = otherSender
		_, _ = other.Run(context.Background(), false)
	}()

	<-held
	_, err := runner.Run(context.Background(), false)
	close(release)

	assert.True(t, errors.Is(err, ErrRunInProgress))
}

type slowSender struct {
	held    chan struct{}
	release chan struct{}
}

func (s *slowSender) Send(ctx context.Context, msg mail.Message) error {
	close(s.held)
	<-s.release
	return nil
}

func (s *slowSender) Probe(ctx context.Context) error { return nil }
