package journal

import (
	"context"
	"path/filepath"
	"testing"

	"ArticleEnhancer/internal/domain"
)

func openTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()

	j, err := Open(filepath.Join(t.TempDir(), "attempts.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestLookupMissingTitle(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)

	_, found, err := j.Lookup(context.Background(), "never seen")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if found {
		t.Fatal("unexpected attempt for an unknown title")
	}
}

func TestRecordIncrementsAttempts(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()

	if err := j.Record(ctx, "Chatbots in 2024", domain.StatusFailed); err != nil {
		t.Fatalf("first Record error: %v", err)
	}
	if err := j.Record(ctx, "Chatbots in 2024", domain.StatusDegraded); err != nil {
		t.Fatalf("second Record error: %v", err)
	}

	attempt, found, err := j.Lookup(ctx, "Chatbots in 2024")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if !found {
		t.Fatal("expected a recorded attempt")
	}
	if attempt.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempt.Attempts)
	}
	if attempt.Status != domain.StatusDegraded {
		t.Fatalf("status should follow the latest outcome, got %s", attempt.Status)
	}
	if attempt.UpdatedAt.IsZero() {
		t.Fatal("updated_at not populated")
	}
}

func TestRecordKeepsTitlesSeparate(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()

	if err := j.Record(ctx, "First", domain.StatusEnhanced); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := j.Record(ctx, "Second", domain.StatusFailed); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	attempt, found, err := j.Lookup(ctx, "First")
	if err != nil || !found {
		t.Fatalf("Lookup First: found=%v err=%v", found, err)
	}
	if attempt.Status != domain.StatusEnhanced || attempt.Attempts != 1 {
		t.Fatalf("unexpected attempt: %+v", attempt)
	}
}
