package usecase

import (
	"testing"

	"ArticleEnhancer/internal/domain"
)

func TestSelectCandidatePicksFirstEligible(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{ID: 3, Title: "[Enhanced] Weekly Update"},
		{ID: 2, Title: "Weekly Update"},
		{ID: 1, Title: "Chatbots in 2024"},
	}

	candidate, ok := SelectCandidate(articles, nil)
	if !ok {
		t.Fatal("expected a candidate")
	}
	if candidate.Title != "Chatbots in 2024" {
		t.Fatalf("unexpected candidate: %s", candidate.Title)
	}
}

func TestSelectCandidateSkipsEnhancedSources(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "[Enhanced] Weekly Update"},
		{Title: "Weekly Update"},
	}

	if _, ok := SelectCandidate(articles, nil); ok {
		t.Fatal("source with an existing derivative must not be selected")
	}
}

func TestSelectCandidateDegradedDoesNotSuppress(t *testing.T) {
	t.Parallel()

	// A degraded stub is a separate namespace: its source stays eligible
	// for a full enhancement, but the stub itself is never a candidate.
	articles := []domain.Article{
		{Title: "[Mock-Enhanced] Weekly Update"},
		{Title: "Weekly Update"},
	}

	candidate, ok := SelectCandidate(articles, nil)
	if !ok {
		t.Fatal("expected the source to stay eligible")
	}
	if candidate.Title != "Weekly Update" {
		t.Fatalf("unexpected candidate: %s", candidate.Title)
	}
}

func TestSelectCandidateEmptyListing(t *testing.T) {
	t.Parallel()

	if _, ok := SelectCandidate(nil, nil); ok {
		t.Fatal("empty listing must yield no candidate")
	}
}

func TestSelectCandidateHonorsFilter(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "First"},
		{Title: "Second"},
	}

	candidate, ok := SelectCandidate(articles, func(a domain.Article) bool {
		return a.Title != "First"
	})
	if !ok {
		t.Fatal("expected a candidate")
	}
	if candidate.Title != "Second" {
		t.Fatalf("filter not applied, got %s", candidate.Title)
	}
}
