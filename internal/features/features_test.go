package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestClassify(t *testing.T) {
	assert.Equal(t, KindCore, Classify(true, true))
	assert.Equal(t, KindOptional, Classify(true, false))
	assert.Equal(t, KindOptional, Classify(false, true))
	assert.Equal(t, KindOptional, Classify(false, false))
}

func TestCheckProblemMapping(t *testing.T) {
	feats := []Feature{
		{ID: "auth", Name: "Authentication", ProblemMappedTo: "p1"},
		{ID: "dash", Name: "Dashboard", ProblemMappedTo: "p9"},
		{ID: "search"},
	}

	report := CheckProblemMapping(feats, []string{"p1", "p2"})
	assert.False(t, report.Passed)
	assert.Equal(t, []string{"Dashboard", "search"}, report.Unmapped)

	report = CheckProblemMapping(feats[:1], []string{"p1"})
	assert.True(t, report.Passed)
	assert.Empty(t, report.Unmapped)
}

func TestCheckInternExplainability(t *testing.T) {
	feats := []Feature{
		{Name: "Good", Rationale: "explains the why in detail"},
		{Name: "Short", Rationale: "too short"},
		{Name: "Empty"},
	}

	report := CheckInternExplainability(feats)
	assert.False(t, report.Passed)
	assert.Equal(t, []string{"Short", "Empty"}, report.Unclear)
}

func TestCheckInternExplainability_RawLength(t *testing.T) {
	// Length is measured raw, whitespace counts.
	report := CheckInternExplainability([]Feature{{Name: "Padded", Rationale: "ab      cd"}})
	assert.True(t, report.Passed)
}

func TestOrderByPriority_MissingOrderSortsLast(t *testing.T) {
	feats := []Feature{
		{ID: "c"},
		{ID: "a", BuildOrder: intp(2)},
		{ID: "b", BuildOrder: intp(1)},
	}

	sorted := OrderByPriority(feats)
	require.Len(t, sorted, 3)
	assert.Equal(t, "b", sorted[0].ID)
	assert.Equal(t, "a", sorted[1].ID)
	assert.Equal(t, "c", sorted[2].ID)
}

func TestOrderByPriority_StableAndIdempotent(t *testing.T) {
	feats := []Feature{
		{ID: "x", BuildOrder: intp(1)},
		{ID: "y", BuildOrder: intp(1)},
		{ID: "z"},
		{ID: "w"},
	}

	once := OrderByPriority(feats)
	twice := OrderByPriority(once)
	assert.Equal(t, once, twice)

	// Ties and missing orders keep input order.
	assert.Equal(t, "x", once[0].ID)
	assert.Equal(t, "y", once[1].ID)
	assert.Equal(t, "z", once[2].ID)
	assert.Equal(t, "w", once[3].ID)
}

func TestFlagDeferred(t *testing.T) {
	feats := []Feature{
		{ID: "a", Deferred: true, DeferReason: "later"},
		{ID: "b"},
		{ID: "c"},
	}

	report := FlagDeferred(feats)
	assert.Equal(t, 1, report.DeferredCount)
	assert.Equal(t, 2, report.ActiveCount)
	assert.Equal(t, "a", report.Deferred[0].ID)
}

func TestCheckMutualExclusions(t *testing.T) {
	groups := []ExclusionGroup{
		{Group: "architecture_style", Label: "Architecture Style", FeatureIDs: []string{"microservices", "modular_monolith"}},
		{Group: "deployment_strategy", Label: "Deployment Strategy", FeatureIDs: []string{"blue_green_deploy", "canary_releases"}},
	}

	report := CheckMutualExclusions([]string{"microservices", "dashboard"}, groups)
	assert.True(t, report.Passed)
	assert.Empty(t, report.Violations)

	report = CheckMutualExclusions([]string{"microservices", "modular_monolith"}, groups)
	require.Len(t, report.Violations, 1)
	assert.False(t, report.Passed)
	v := report.Violations[0]
	assert.Equal(t, "architecture_style", v.Group)
	assert.Equal(t, []string{"microservices", "modular_monolith"}, v.ConflictingIDs)
	assert.Equal(t, "Architecture Style: cannot select both microservices and modular_monolith — pick one", v.Message)
}

func TestCheckMutualExclusions_ViolationCountMatchesGroups(t *testing.T) {
	groups := []ExclusionGroup{
		{Group: "g1", Label: "G1", FeatureIDs: []string{"a", "b", "c"}},
		{Group: "g2", Label: "G2", FeatureIDs: []string{"d", "e"}},
	}

	report := CheckMutualExclusions([]string{"a", "b", "c", "d", "e"}, groups)
	assert.Len(t, report.Violations, 2)
	// N>2 conflicts join with "and".
	assert.Equal(t, "G1: cannot select both a and b and c — pick one", report.Violations[0].Message)
}
