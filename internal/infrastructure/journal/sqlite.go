package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/ports"
)

const attemptsTable = "enhancement_attempts"

const schema = `CREATE TABLE IF NOT EXISTS enhancement_attempts (
    title TEXT PRIMARY KEY,
    status TEXT NOT NULL,
    attempts INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
)`

// SQLiteJournal persists enhancement attempts so retries can be bounded
// across process restarts. Keys are source titles, matching the store's
// dedup identity.
type SQLiteJournal struct {
	db *sql.DB
}

var _ ports.AttemptJournal = (*SQLiteJournal)(nil)

// Open creates or opens the journal database at path.
func Open(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Close releases the underlying database handle.
func (j *SQLiteJournal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record upserts the outcome of one attempt, incrementing the attempt count.
func (j *SQLiteJournal) Record(ctx context.Context, title string, status domain.AttemptStatus) error {
	if j.db == nil {
		return nil
	}

	query, args, err := sq.Insert(attemptsTable).
		Columns("title", "status", "attempts", "updated_at").
		Values(title, string(status), 1, time.Now().Unix()).
		Suffix(`ON CONFLICT(title) DO UPDATE SET
            status = excluded.status,
            attempts = enhancement_attempts.attempts + 1,
            updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := j.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	return nil
}

// Lookup returns the recorded attempt for a title, if any.
func (j *SQLiteJournal) Lookup(ctx context.Context, title string) (domain.Attempt, bool, error) {
	if j.db == nil {
		return domain.Attempt{}, false, nil
	}

	query, args, err := sq.Select("title", "status", "attempts", "updated_at").
		From(attemptsTable).
		Where(sq.Eq{"title": title}).
		ToSql()
	if err != nil {
		return domain.Attempt{}, false, fmt.Errorf("build query: %w", err)
	}

	var (
		attempt   domain.Attempt
		status    string
		updatedAt int64
	)
	row := j.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&attempt.Title, &status, &attempt.Attempts, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Attempt{}, false, nil
		}
		return domain.Attempt{}, false, fmt.Errorf("scan attempt: %w", err)
	}

	attempt.Status = domain.AttemptStatus(status)
	attempt.UpdatedAt = time.Unix(updatedAt, 0)
	return attempt, true, nil
}
