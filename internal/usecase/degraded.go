package usecase

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ArticleEnhancer/internal/domain"
)

const degradedExcerptLen = 100

// buildDegradedResult synthesizes a clearly labeled stand-in article from the
// raw references when the generation service is unavailable. The degraded
// title prefix keeps it out of the "[Enhanced] " namespace, and the source
// URL fragment keeps it unique across repeated failures.
func buildDegradedResult(article domain.Article, references []domain.Reference, status int, now time.Time) domain.EnhancementResult {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s%s\n\n", domain.DegradedPrefix, article.Title)
	fmt.Fprintf(&b, "This is a fallback version of the article: the language model API returned status %d, so no rewrite was generated.\n\n", status)
	b.WriteString("## Insights from References\n")

	for i, ref := range references {
		if i >= maxPromptReferences {
			break
		}
		fmt.Fprintf(&b, "\nFrom %s: %s...\n", ref.URL, excerpt(ref.Content, degradedExcerptLen))
	}

	return domain.EnhancementResult{
		Title:       domain.DegradedPrefix + article.Title,
		Content:     b.String(),
		SourceURL:   fmt.Sprintf("%s#mock-enhanced-%d", article.SourceURL, now.UnixMilli()),
		PublishedAt: now,
	}
}

func excerpt(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
