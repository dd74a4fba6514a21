package ai

import (
	"fmt"
	"strings"

	"github.com/david/opportunity-navigator/internal/catalog"
	"github.com/david/opportunity-navigator/internal/recommend"
)

// ExplainPrompt builds the per-opportunity explanation prompt from the
// profile and the already-ranked opportunity.
func ExplainPrompt(profile recommend.Profile, opp catalog.NormalizedOpportunity) string {
	year := "unspecified"
	if profile.Year != nil {
		year = fmt.Sprintf("%d", *profile.Year)
	}

	return fmt.Sprintf(`Student profile:
Skills: %s
Interest: %s
Year: %s

Opportunity:
%s - %s

Explain in 2 lines why this is suitable.
`, strings.Join(profile.Skills, ", "), profile.Interest, year, opp.Title, opp.Description)
}

// ChatPrompt builds the assistant prompt for a free-text user question.
func ChatPrompt(catalogSize int, question string) string {
	return fmt.Sprintf(`You are an AI career assistant.
Available opportunities: %d.
User question: %q

Respond clearly and briefly.
`, catalogSize, question)
}
