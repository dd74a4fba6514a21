// Command rank scores the embedded catalog against a profile given on the
// command line and prints the ranked result as a table.
package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/opportunity-navigator/internal/catalog"
	"github.com/david/opportunity-navigator/internal/recommend"
)

func main() {
	skillsFlag := flag.String("skills", "", "comma-separated skills, e.g. ai,research")
	interestFlag := flag.String("interest", "", "free-text interest, e.g. AI")
	yearFlag := flag.Int("year", 0, "academic year 1-4 (0 = unset)")
	flag.Parse()

	cat, err := catalog.Load()
	if err != nil {
		log.Fatal(err)
	}

	profile := recommend.Profile{Interest: *interestFlag}
	for _, s := range strings.Split(*skillsFlag, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			profile.Skills = append(profile.Skills, s)
		}
	}
	if *yearFlag >= 1 && *yearFlag <= 4 {
		year := *yearFlag
		profile.Year = &year
	}

	ranked := recommend.Rank(profile, cat.Prepared(time.Now()))
	if len(ranked) == 0 {
		log.Print("No recommendations yet. Set skills, interest or year.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Score", "Title", "Type", "Days Left", "Reasons"})

	for _, r := range ranked {
		t.AppendRow(table.Row{
			r.Score,
			r.Opportunity.Title,
			r.Opportunity.Category,
			r.Opportunity.DaysUntil,
			strings.Join(r.Reasons, "; "),
		})
	}
	t.Render()
}
