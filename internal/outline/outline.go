// Package outline validates build-guide outlines: required section
// categories, conceptual ordering, naming conventions, placeholder content,
// and summary overlap. The validation profile is auto-detected from the
// section count: ten or more sections use the enhanced 10-category schema,
// fewer use the legacy 7-category schema.
package outline

import (
	"fmt"
	"regexp"
	"strings"
)

// Section is one titled, summarized unit of the document outline.
type Section struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

// Category is a required section category: a keyword set matched
// case-insensitively against section titles, plus a display label.
type Category struct {
	Keywords []string
	Label    string
}

// RequiredSectionOrder is the legacy 7-category schema in strict order.
var RequiredSectionOrder = []Category{
	{Keywords: []string{"purpose", "context", "why"}, Label: "Purpose & Context"},
	{Keywords: []string{"user", "role", "who"}, Label: "Users & Roles"},
	{Keywords: []string{"capabilit", "feature", "what"}, Label: "Core Capabilities"},
	{Keywords: []string{"non-goal", "exclusion", "not"}, Label: "Non-Goals & Exclusions"},
	{Keywords: []string{"architecture", "flow", "how"}, Label: "Architecture / Flow"},
	{Keywords: []string{"phase", "module", "execution", "build"}, Label: "Execution Phases"},
	{Keywords: []string{"risk", "constraint", "assumption"}, Label: "Risks & Constraints"},
}

// EnhancedSectionOrder is the 10-category schema for enhanced outlines.
var EnhancedSectionOrder = []Category{
	{Keywords: []string{"executive", "summary", "overview"}, Label: "Executive Summary"},
	{Keywords: []string{"problem", "market", "context"}, Label: "Problem & Market"},
	{Keywords: []string{"persona", "user", "use case"}, Label: "User Personas"},
	{Keywords: []string{"functional", "requirement", "capabilit"}, Label: "Functional Requirements"},
	{Keywords: []string{"ai", "intelligence", "ml"}, Label: "AI Architecture"},
	{Keywords: []string{"non-functional", "performance", "scalab"}, Label: "Non-Functional"},
	{Keywords: []string{"technical", "data model"}, Label: "Technical Architecture"},
	{Keywords: []string{"security", "compliance", "privacy"}, Label: "Security"},
	{Keywords: []string{"metric", "kpi", "success"}, Label: "Success Metrics"},
	{Keywords: []string{"roadmap", "phase", "delivery"}, Label: "Roadmap"},
}

// placeholderPatterns flag unfinished content in titles and summaries.
var placeholderPatterns = compileAll([]string{
	`\bTBD\b`,
	`\bTBA\b`,
	`\bTBC\b`,
	`to be determined`,
	`to be decided`,
	`to be confirmed`,
	`we'll decide later`,
	`we'll figure out`,
	`figure out later`,
	`placeholder`,
	`TODO`,
	`FIXME`,
	`\bN/A\b`,
	`\.\.\.`,
})

// badNamingPatterns flag marketing or unprofessional section titles.
var badNamingPatterns = compileAll([]string{
	`magic`,
	`secret sauce`,
	`stuff we`,
	`awesome`,
	`amazing`,
	`revolutionary`,
	`game.?changer`,
	`silver bullet`,
	`killer feature`,
})

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// DefaultOverlapThreshold is the summary-overlap ratio above which a
// section pair is flagged. Heuristic, preserved for compatibility.
const DefaultOverlapThreshold = 0.6

// DefaultStopwords are excluded from overlap comparison.
var DefaultStopwords = []string{
	"the", "a", "an", "and", "or", "is", "are", "of", "to", "in",
	"for", "with", "that", "this", "it", "what", "how", "who", "why",
}

// Checker runs outline validation. The zero value is not usable; call
// NewChecker.
type Checker struct {
	// OverlapThreshold is tunable but defaults to the compatible value.
	OverlapThreshold float64
	stopwords        map[string]bool
}

// NewChecker returns a Checker with the default threshold and stopwords.
func NewChecker() *Checker {
	stop := make(map[string]bool, len(DefaultStopwords))
	for _, w := range DefaultStopwords {
		stop[w] = true
	}
	return &Checker{OverlapThreshold: DefaultOverlapThreshold, stopwords: stop}
}

// sectionOrder auto-detects the validation profile from the section count.
func sectionOrder(sections []Section) []Category {
	if len(sections) >= 10 {
		return EnhancedSectionOrder
	}
	return RequiredSectionOrder
}

func matchesCategory(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RequiredSectionsResult reports which required categories matched.
type RequiredSectionsResult struct {
	Passed  bool     `json:"passed"`
	Missing []string `json:"missing"`
	Matched []string `json:"matched"`
}

// CheckRequiredSections verifies every required category has at least one
// matching section title.
func (c *Checker) CheckRequiredSections(sections []Section) RequiredSectionsResult {
	matched := []string{}
	missing := []string{}

	for _, cat := range sectionOrder(sections) {
		found := false
		for _, s := range sections {
			if matchesCategory(s.Title, cat.Keywords) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, cat.Label)
		} else {
			missing = append(missing, cat.Label)
		}
	}

	return RequiredSectionsResult{
		Passed:  len(missing) == 0,
		Missing: missing,
		Matched: matched,
	}
}

// SectionOrderResult reports whether categories appear in schema order.
type SectionOrderResult struct {
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// CheckSectionOrder verifies the first match of each category appears at
// strictly increasing positions. Fails on the first inversion.
func (c *Checker) CheckSectionOrder(sections []Section) SectionOrderResult {
	type found struct {
		pos   int
		label string
	}

	positions := []found{}
	for _, cat := range sectionOrder(sections) {
		for i, s := range sections {
			if matchesCategory(s.Title, cat.Keywords) {
				positions = append(positions, found{pos: i, label: cat.Label})
				break
			}
		}
	}

	for i := 0; i+1 < len(positions); i++ {
		a, b := positions[i], positions[i+1]
		if a.pos >= b.pos {
			return SectionOrderResult{
				Passed: false,
				Details: fmt.Sprintf("'%s' (position %d) must come before '%s' (position %d)",
					a.label, a.pos+1, b.label, b.pos+1),
			}
		}
	}

	return SectionOrderResult{Passed: true, Details: "All sections are in correct order"}
}

// NamingResult lists naming-convention violations.
type NamingResult struct {
	Passed     bool     `json:"passed"`
	Violations []string `json:"violations"`
}

// MinTitleLength is the shortest acceptable section title.
const MinTitleLength = 3

// CheckNamingConventions flags marketing language and too-short titles.
// All violations are collected, not just the first.
func (c *Checker) CheckNamingConventions(sections []Section) NamingResult {
	violations := []string{}
	for _, s := range sections {
		for _, re := range badNamingPatterns {
			if re.MatchString(s.Title) {
				violations = append(violations,
					fmt.Sprintf("Section '%s' uses unprofessional language matching '%s'", s.Title, trimFlag(re)))
			}
		}
		if len(s.Title) < MinTitleLength {
			violations = append(violations, fmt.Sprintf("Section title '%s' is too short", s.Title))
		}
	}
	return NamingResult{Passed: len(violations) == 0, Violations: violations}
}

// PlaceholderResult lists placeholder-content matches.
type PlaceholderResult struct {
	Passed bool     `json:"passed"`
	Found  []string `json:"found"`
}

// CheckNoPlaceholders scans every section's title and summary for
// placeholder markers and reports every match.
func (c *Checker) CheckNoPlaceholders(sections []Section) PlaceholderResult {
	found := []string{}
	for _, s := range sections {
		fields := []struct {
			name string
			text string
		}{
			{"title", s.Title},
			{"summary", s.Summary},
		}
		for _, f := range fields {
			for _, re := range placeholderPatterns {
				if re.MatchString(f.text) {
					found = append(found,
						fmt.Sprintf("Section '%s' %s contains placeholder: '%s'", s.Title, f.name, trimFlag(re)))
				}
			}
		}
	}
	return PlaceholderResult{Passed: len(found) == 0, Found: found}
}

// trimFlag strips the case-insensitive flag so messages show the bare
// pattern the lists were defined with.
func trimFlag(re *regexp.Regexp) string {
	return strings.TrimPrefix(re.String(), "(?i)")
}

// OverlapResult lists section pairs whose summaries overlap heavily.
type OverlapResult struct {
	Passed   bool     `json:"passed"`
	Warnings []string `json:"warnings"`
}

// CheckSectionOverlap flags each unordered section pair whose meaningful
// summary-word overlap ratio exceeds the threshold. Pairs where either
// side has no meaningful words are skipped.
func (c *Checker) CheckSectionOverlap(sections []Section) OverlapResult {
	warnings := []string{}
	meaningful := make([]map[string]bool, len(sections))
	for i, s := range sections {
		meaningful[i] = c.meaningfulWords(s.Summary)
	}

	for i := range sections {
		for j := i + 1; j < len(sections); j++ {
			a, b := meaningful[i], meaningful[j]
			if len(a) == 0 || len(b) == 0 {
				continue
			}

			overlap := 0
			for w := range a {
				if b[w] {
					overlap++
				}
			}

			minSize := len(a)
			if len(b) < minSize {
				minSize = len(b)
			}

			if float64(overlap)/float64(minSize) > c.OverlapThreshold {
				warnings = append(warnings,
					fmt.Sprintf("'%s' and '%s' may overlap significantly",
						sections[i].Title, sections[j].Title))
			}
		}
	}

	return OverlapResult{Passed: len(warnings) == 0, Warnings: warnings}
}

func (c *Checker) meaningfulWords(text string) map[string]bool {
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if !c.stopwords[w] {
			words[w] = true
		}
	}
	return words
}

// Report aggregates every outline check.
type Report struct {
	RequiredSections RequiredSectionsResult `json:"required_sections"`
	SectionOrder     SectionOrderResult     `json:"section_order"`
	NamingConvention NamingResult           `json:"naming_conventions"`
	NoPlaceholders   PlaceholderResult      `json:"no_placeholders"`
	SectionOverlap   OverlapResult          `json:"section_overlap"`
	AllPassed        bool                   `json:"all_passed"`
}

// RunAllChecks executes every outline check and aggregates the result.
func (c *Checker) RunAllChecks(sections []Section) Report {
	r := Report{
		RequiredSections: c.CheckRequiredSections(sections),
		SectionOrder:     c.CheckSectionOrder(sections),
		NamingConvention: c.CheckNamingConventions(sections),
		NoPlaceholders:   c.CheckNoPlaceholders(sections),
		SectionOverlap:   c.CheckSectionOverlap(sections),
	}
	r.AllPassed = r.RequiredSections.Passed &&
		r.SectionOrder.Passed &&
		r.NamingConvention.Passed &&
		r.NoPlaceholders.Passed &&
		r.SectionOverlap.Passed
	return r
}

// RunAllChecks runs every check with the default checker.
func RunAllChecks(sections []Section) Report {
	return NewChecker().RunAllChecks(sections)
}
