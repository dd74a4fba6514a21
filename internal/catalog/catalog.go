// Package catalog holds the fixed opportunity catalog and its normalization
// into a display-ready form.
package catalog

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var catalogYAML embed.FS

const deadlineLayout = "2006-01-02"

// RawOpportunity is a single catalog record as configured.
type RawOpportunity struct {
	ID           int      `yaml:"id"`
	Title        string   `yaml:"title"`
	Organization string   `yaml:"organization"`
	Description  string   `yaml:"description"`
	Category     string   `yaml:"type"`
	YearMin      int      `yaml:"year_min"`
	YearMax      int      `yaml:"year_max"`
	Tags         []string `yaml:"tags"`
	Deadline     string   `yaml:"deadline"`
}

// NormalizedOpportunity is the display-ready form of a RawOpportunity.
// DaysUntil is relative to the evaluation instant passed to Prepared and may
// be negative for past deadlines.
type NormalizedOpportunity struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Category       string   `json:"type"`
	RequiredSkills []string `json:"required_skills"`
	EligibleYears  []int    `json:"eligible_years"`
	DaysUntil      int      `json:"deadline_days"`
	Description    string   `json:"description"`
}

type entry struct {
	raw      RawOpportunity
	deadline time.Time
}

// Catalog is the validated, immutable set of opportunities loaded at startup.
type Catalog struct {
	entries []entry
}

type catalogFile struct {
	Opportunities []RawOpportunity `yaml:"opportunities"`
}

// Load reads the embedded catalog. Malformed records are a startup defect,
// not a runtime case: any parse or validation failure is returned as an error
// and the caller is expected to exit.
func Load() (*Catalog, error) {
	data, err := catalogYAML.ReadFile("data/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}

	return New(file.Opportunities)
}

// New validates raw records and builds a Catalog. Order is preserved.
func New(raw []RawOpportunity) (*Catalog, error) {
	entries := make([]entry, 0, len(raw))
	for _, r := range raw {
		deadline, err := time.Parse(deadlineLayout, r.Deadline)
		if err != nil {
			return nil, fmt.Errorf("opportunity %d (%s): bad deadline %q: %w", r.ID, r.Title, r.Deadline, err)
		}
		if r.YearMin > r.YearMax {
			return nil, fmt.Errorf("opportunity %d (%s): inverted year range %d-%d", r.ID, r.Title, r.YearMin, r.YearMax)
		}
		entries = append(entries, entry{raw: r, deadline: deadline})
	}
	return &Catalog{entries: entries}, nil
}

// Size returns the number of opportunities in the catalog.
func (c *Catalog) Size() int {
	return len(c.entries)
}

// Prepared returns the normalized catalog evaluated at now, in catalog order.
// Only DaysUntil depends on now; every other derived field is stable.
func (c *Catalog) Prepared(now time.Time) []NormalizedOpportunity {
	opps := make([]NormalizedOpportunity, 0, len(c.entries))
	for _, e := range c.entries {
		opps = append(opps, normalize(e, now))
	}
	return opps
}

// SkillOptions returns the distinct tags across the catalog, sorted.
func (c *Catalog) SkillOptions() []string {
	seen := make(map[string]struct{})
	var options []string
	for _, e := range c.entries {
		for _, tag := range e.raw.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			options = append(options, tag)
		}
	}
	sort.Strings(options)
	return options
}

func normalize(e entry, now time.Time) NormalizedOpportunity {
	years := make([]int, 0, e.raw.YearMax-e.raw.YearMin+1)
	for y := e.raw.YearMin; y <= e.raw.YearMax; y++ {
		years = append(years, y)
	}

	skills := make([]string, len(e.raw.Tags))
	copy(skills, e.raw.Tags)

	return NormalizedOpportunity{
		ID:             e.raw.ID,
		Title:          e.raw.Title,
		Category:       capitalize(e.raw.Category),
		RequiredSkills: skills,
		EligibleYears:  years,
		DaysUntil:      daysBetween(now, e.deadline),
		Description:    e.raw.Organization + ": " + e.raw.Description,
	}
}

// daysBetween counts whole calendar days from now to the deadline, date-only:
// both instants collapse to their UTC calendar date before subtracting, so
// the time-of-day of now never shifts the result.
func daysBetween(now, deadline time.Time) int {
	ny, nm, nd := now.UTC().Date()
	dy, dm, dd := deadline.UTC().Date()
	from := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	to := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
