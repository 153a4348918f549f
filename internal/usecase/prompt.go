package usecase

import (
	"fmt"
	"strings"

	"ArticleEnhancer/internal/domain"
)

// maxPromptReferences bounds how much reference material one prompt carries.
const maxPromptReferences = 2

// BuildPrompt composes the rewrite request from the candidate and up to two
// references. With a single reference the second slot renders as "N/A" so the
// instruction structure stays stable.
func BuildPrompt(article domain.Article, references []domain.Reference) string {
	if len(references) > maxPromptReferences {
		references = references[:maxPromptReferences]
	}

	content := article.Content
	if strings.TrimSpace(content) == "" {
		content = "No content provided."
	}

	var b strings.Builder
	b.WriteString("You are an expert content editor.\n\n")
	fmt.Fprintf(&b, "Original Article Title: %q\n", article.Title)
	fmt.Fprintf(&b, "Original Content: %q\n\n", content)

	fmt.Fprintf(&b, "Reference Material 1 (%s):\n%s\n\n", refURL(references, 0), refContent(references, 0))
	fmt.Fprintf(&b, "Reference Material 2 (%s):\n%s\n\n", refURL(references, 1), refContent(references, 1))

	b.WriteString("Task:\n")
	b.WriteString("Rewrite the original article to be more comprehensive, professional, and formatted with Markdown.\n")
	b.WriteString("Use the Reference Materials to add depth, facts, and structure.\n")
	b.WriteString("Do NOT plagiarize directly, but synthesize the information.\n\n")

	b.WriteString("At the bottom, add a \"References\" section citing the URLs:\n")
	fmt.Fprintf(&b, "1. %s\n", refURL(references, 0))
	if len(references) > 1 {
		fmt.Fprintf(&b, "2. %s\n", refURL(references, 1))
	}
	b.WriteString("\nReturn ONLY the new article content in Markdown format.\n")

	return b.String()
}

func refURL(references []domain.Reference, i int) string {
	if i >= len(references) {
		return "N/A"
	}
	return references[i].URL
}

func refContent(references []domain.Reference, i int) string {
	if i >= len(references) {
		return "N/A"
	}
	return references[i].Content
}
