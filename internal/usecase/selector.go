package usecase

import "ArticleEnhancer/internal/domain"

// SelectCandidate returns the first article in listing order that is eligible
// for enhancement, or ok=false when there is nothing to do. Derivatives
// (either prefix) are never candidates themselves; a source article is
// suppressed only by an existing "[Enhanced] " derivative, so a degraded
// stub does not block a later full enhancement.
//
// eligible, when non-nil, is an extra per-candidate filter (retry budget,
// backoff). It is consulted only after the prefix checks pass.
func SelectCandidate(articles []domain.Article, eligible func(domain.Article) bool) (domain.Article, bool) {
	enhanced := make(map[string]struct{})
	for _, article := range articles {
		if domain.IsEnhanced(article.Title) {
			enhanced[article.Title] = struct{}{}
		}
	}

	for _, article := range articles {
		if domain.IsEnhanced(article.Title) || domain.IsDegraded(article.Title) {
			continue
		}
		if _, done := enhanced[domain.EnhancedPrefix+article.Title]; done {
			continue
		}
		if eligible != nil && !eligible(article) {
			continue
		}
		return article, true
	}

	return domain.Article{}, false
}
