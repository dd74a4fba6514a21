// Package recommend scores and ranks opportunities against a student profile.
package recommend

import (
	"sort"
	"strings"

	"github.com/david/opportunity-navigator/internal/catalog"
)

// Profile is the user's self-reported skills, interest and academic year.
// Missing fields are not an error; the corresponding rules simply do not fire.
type Profile struct {
	Skills   []string `json:"skills"`
	Interest string   `json:"interest"`
	Year     *int     `json:"academic_year"`
}

// ScoredOpportunity pairs a normalized opportunity with its relevance score
// and the reasons for it. Recomputed fresh on every ranking call.
type ScoredOpportunity struct {
	Opportunity catalog.NormalizedOpportunity `json:"opportunity"`
	Score       int                           `json:"score"`
	Reasons     []string                      `json:"reasons"`
}

const (
	skillOverlapPoints = 40
	yearPoints         = 15
	interestPoints     = 15
	urgencyPoints      = 15

	// urgencyWindowDays is the inclusive upper bound on DaysUntil for the
	// deadline-urgency rule.
	urgencyWindowDays = 14
)

const (
	yearReason    = "✓ Eligible for your academic year"
	urgencyReason = "🚨 Closing soon"
)

// Score evaluates the four additive rules against one opportunity. Rules are
// independent; reasons are appended in rule order. Skill matching is
// case-insensitive, but a matched skill is reported in the profile's own
// spelling, not the catalog's.
func Score(opp catalog.NormalizedOpportunity, profile Profile) (int, []string) {
	score := 0
	var reasons []string

	required := make(map[string]struct{}, len(opp.RequiredSkills))
	for _, skill := range opp.RequiredSkills {
		required[strings.ToLower(skill)] = struct{}{}
	}

	var matched []string
	for _, skill := range profile.Skills {
		if _, ok := required[strings.ToLower(skill)]; ok {
			matched = append(matched, skill)
		}
	}
	if len(matched) > 0 {
		score += skillOverlapPoints
		reasons = append(reasons, "✓ Skills match: "+strings.Join(matched, ", "))
	}

	if profile.Year != nil {
		for _, year := range opp.EligibleYears {
			if year == *profile.Year {
				score += yearPoints
				reasons = append(reasons, yearReason)
				break
			}
		}
	}

	if profile.Interest != "" &&
		strings.Contains(strings.ToLower(opp.Description), strings.ToLower(profile.Interest)) {
		score += interestPoints
		reasons = append(reasons, "✓ Matches interest in "+profile.Interest)
	}

	if opp.DaysUntil >= 0 && opp.DaysUntil <= urgencyWindowDays {
		score += urgencyPoints
		reasons = append(reasons, urgencyReason)
	}

	return score, reasons
}

// Rank scores every opportunity in catalog order, drops zero scores and sorts
// the rest by score descending. The sort is stable so equal scores keep their
// catalog order across repeated calls.
func Rank(profile Profile, opps []catalog.NormalizedOpportunity) []ScoredOpportunity {
	ranked := make([]ScoredOpportunity, 0, len(opps))
	for _, opp := range opps {
		score, reasons := Score(opp, profile)
		if score == 0 {
			continue
		}
		ranked = append(ranked, ScoredOpportunity{Opportunity: opp, Score: score, Reasons: reasons})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
