package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"
)

// Word is one persisted vocabulary entry. Term is the dedup key and is
// stored lower-cased.
type Word struct {
	ID           int64     `json:"id"`
	Term         string    `json:"term"`
	Definition   string    `json:"definition"`
	PartOfSpeech string    `json:"partOfSpeech,omitempty"`
	Example      string    `json:"example,omitempty"`
	SentAt       time.Time `json:"sentAt"`
}

type Info struct {
	Count     int    `json:"count"`
	SentToday int    `json:"sentToday"`
	Oldest    string `json:"oldest,omitempty"`
	Newest    string `json:"newest,omitempty"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS words (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  term TEXT NOT NULL UNIQUE,
  definition TEXT NOT NULL,
  part_of_speech TEXT NOT NULL DEFAULT '',
  example TEXT NOT NULL DEFAULT '',
  sent_at TEXT NOT NULL
);
`); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_words_sent_at ON words(sent_at);
`); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Contains reports whether a term was already sent. Matching is
// case-insensitive: terms are normalized on write.
func (d *DB) Contains(ctx context.Context, term string) (bool, error) {
	var one int
	err := d.Pool.QueryRowContext(ctx,
		`SELECT 1 FROM words WHERE term = ? LIMIT 1;`, normalize(term)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return true, nil
}

// RecordSent inserts the batch in a single transaction with the current
// timestamp. Duplicate terms are skipped, not errors, so re-recording is a
// no-op. All-or-nothing: a failed insert rolls back the whole batch.
func (d *DB) RecordSent(ctx context.Context, words []Word) error {
	if len(words) == 0 {
		return nil
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(timeLayout)
	for _, w := range words {
		term := normalize(w.Term)
		if term == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO words (term, definition, part_of_speech, example, sent_at)
VALUES (?, ?, ?, ?, ?);`,
			term, w.Definition, w.PartOfSpeech, w.Example, now)
		if err != nil {
			return fmt.Errorf("%w: insert %q: %v", ErrUnavailable, w.Term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (d *DB) CountSent(ctx context.Context) (int, error) {
	var n int
	if err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM words;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

func (d *DB) SentToday(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM words WHERE DATE(sent_at) = DATE('now');`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// Recent returns the most recently sent words, newest first.
func (d *DB) Recent(ctx context.Context, limit int) ([]Word, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, term, definition, part_of_speech, example, sent_at
FROM words
ORDER BY sent_at DESC, id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Word
	for rows.Next() {
		var w Word
		var sentAt string
		if err := rows.Scan(&w.ID, &w.Term, &w.Definition, &w.PartOfSpeech, &w.Example, &sentAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		w.SentAt, _ = time.Parse(timeLayout, sentAt)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}

// PruneOlderThan deletes records sent at least days ago and returns how many
// were removed. Zero days removes everything.
func (d *DB) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	res, err := d.Pool.ExecContext(ctx,
		`DELETE FROM words WHERE sent_at <= datetime('now', ?);`,
		fmt.Sprintf("-%d days", days))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (d *DB) Reset(ctx context.Context) error {
	if _, err := d.Pool.ExecContext(ctx, `DELETE FROM words;`); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (d *DB) Info(ctx context.Context) (Info, error) {
	var info Info
	info.Path = d.Path

	if err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM words;`).Scan(&info.Count); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var oldest, newest sql.NullString
	err := d.Pool.QueryRowContext(ctx,
		`SELECT MIN(sent_at), MAX(sent_at) FROM words;`).Scan(&oldest, &newest)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	info.Oldest = oldest.String
	info.Newest = newest.String

	n, err := d.SentToday(ctx)
	if err != nil {
		return Info{}, err
	}
	info.SentToday = n

	if st, err := os.Stat(d.Path); err == nil {
		info.SizeBytes = st.Size()
	}
	return info, nil
}

// timeLayout matches sqlite's datetime() output so sent_at compares cleanly
// against datetime('now', ...) expressions.
const timeLayout = "2006-01-02 15:04:05"

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
