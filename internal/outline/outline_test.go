package outline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goodSections is a valid legacy outline: all 7 categories, in order, with
// distinct non-placeholder summaries.
func goodSections() []Section {
	titles := []string{
		"System Purpose & Context",
		"Target Users & Roles",
		"Core Capabilities",
		"Non-Goals & Exclusions",
		"Architecture / Flow",
		"Execution Phases",
		"Risks & Constraints",
	}
	summaries := []string{
		"Explains why the system exists and its surrounding environment.",
		"Describes each audience segment and their permissions.",
		"Lists every major behavior the product must deliver.",
		"Enumerates deliberately excluded functionality and scope limits.",
		"Shows component boundaries and request paths between them.",
		"Breaks delivery into sequenced milestones with owners.",
		"Captures known hazards plus operating assumptions and budgets.",
	}
	sections := make([]Section, len(titles))
	for i, title := range titles {
		sections[i] = Section{Index: i + 1, Title: title, Type: "required", Summary: summaries[i]}
	}
	return sections
}

func TestRunAllChecks_ValidLegacyOutline(t *testing.T) {
	report := RunAllChecks(goodSections())

	assert.True(t, report.RequiredSections.Passed, "missing: %v", report.RequiredSections.Missing)
	assert.True(t, report.SectionOrder.Passed, report.SectionOrder.Details)
	assert.True(t, report.NamingConvention.Passed, "violations: %v", report.NamingConvention.Violations)
	assert.True(t, report.NoPlaceholders.Passed, "found: %v", report.NoPlaceholders.Found)
	assert.True(t, report.SectionOverlap.Passed, "warnings: %v", report.SectionOverlap.Warnings)
	assert.True(t, report.AllPassed)
}

func TestCheckRequiredSections_EnhancedProfileMissingAI(t *testing.T) {
	// 10 sections trigger the enhanced profile; none of the titles match
	// the AI Architecture keywords.
	sections := make([]Section, 10)
	for i := range sections {
		sections[i] = Section{
			Index:   i + 1,
			Title:   fmt.Sprintf("Chunk Number %d", i+1),
			Summary: "body",
		}
	}

	report := NewChecker().CheckRequiredSections(sections)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Missing, "AI Architecture")
}

func TestCheckRequiredSections_ProfileAutoDetect(t *testing.T) {
	// 9 sections still use the legacy 7-category profile.
	sections := goodSections()
	sections = append(sections,
		Section{Index: 8, Title: "Appendix", Summary: "extra material"},
		Section{Index: 9, Title: "Glossary", Summary: "terms defined"},
	)
	report := NewChecker().CheckRequiredSections(sections)
	assert.True(t, report.Passed)
	assert.Len(t, report.Matched, 7)
}

func TestCheckSectionOrder_Inversion(t *testing.T) {
	sections := goodSections()
	// Swap users and purpose so Users & Roles precedes Purpose & Context.
	sections[0], sections[1] = sections[1], sections[0]

	result := NewChecker().CheckSectionOrder(sections)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Details, "'Purpose & Context' (position 2)")
	assert.Contains(t, result.Details, "'Users & Roles' (position 1)")
}

func TestCheckNamingConventions(t *testing.T) {
	sections := []Section{
		{Title: "The Magic Engine"},
		{Title: "Our Secret Sauce Layer"},
		{Title: "ok"},
		{Title: "Reasonable Title"},
	}

	result := NewChecker().CheckNamingConventions(sections)
	assert.False(t, result.Passed)
	require.Len(t, result.Violations, 3)
	assert.Contains(t, result.Violations[0], "Magic Engine")
	assert.Contains(t, result.Violations[2], "too short")
}

func TestCheckNoPlaceholders(t *testing.T) {
	sections := []Section{
		{Title: "Scope", Summary: "TBD"},
		{Title: "Data Model", Summary: "We'll figure out the schema"},
		{Title: "Security", Summary: "Threat model covering auth and transport."},
	}

	result := NewChecker().CheckNoPlaceholders(sections)
	assert.False(t, result.Passed)
	assert.Len(t, result.Found, 2)
	assert.Contains(t, result.Found[0], "Section 'Scope' summary contains placeholder")
}

func TestCheckNoPlaceholders_CaseInsensitiveAndEllipsis(t *testing.T) {
	result := NewChecker().CheckNoPlaceholders([]Section{
		{Title: "Plan", Summary: "to Be Determined later"},
		{Title: "Misc", Summary: "and then ..."},
	})
	assert.False(t, result.Passed)
	assert.Len(t, result.Found, 2)
}

func TestCheckSectionOverlap(t *testing.T) {
	sections := []Section{
		{Title: "First", Summary: "users upload documents for processing and review"},
		{Title: "Second", Summary: "users upload documents for processing and archival"},
		{Title: "Third", Summary: "billing runs nightly against usage records"},
	}

	result := NewChecker().CheckSectionOverlap(sections)
	assert.False(t, result.Passed)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "'First' and 'Second'")
}

func TestCheckSectionOverlap_SkipsEmptyMeaningfulSets(t *testing.T) {
	// Summaries made only of stopwords produce no meaningful words, so no
	// ratio is computed for the pair.
	sections := []Section{
		{Title: "A", Summary: "the and of to"},
		{Title: "B", Summary: "the and of to"},
	}
	result := NewChecker().CheckSectionOverlap(sections)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Warnings)
}

func TestCheckSectionOverlap_ThresholdIsExclusive(t *testing.T) {
	// 3 of 5 meaningful words shared: ratio 0.6 does not exceed 0.6.
	sections := []Section{
		{Title: "A", Summary: "alpha beta gamma delta epsilon"},
		{Title: "B", Summary: "alpha beta gamma zeta theta"},
	}
	result := NewChecker().CheckSectionOverlap(sections)
	assert.True(t, result.Passed)
}
