// Package features classifies and validates feature lists: core/optional
// classification, problem mapping, rationale quality, build ordering,
// deferral partitioning, and mutual-exclusion constraints. All checks are
// pure functions; a failing check is a report, never an error.
package features

import (
	"fmt"
	"sort"
	"strings"
)

// Kind distinguishes core features from optional ones.
type Kind string

const (
	KindCore     Kind = "core"
	KindOptional Kind = "optional"
)

// Feature is one selected product feature.
type Feature struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Rationale       string `json:"rationale"`
	ProblemMappedTo string `json:"problem_mapped_to,omitempty"`

	// BuildOrder is the build priority. A nil value sorts after every
	// feature that has one.
	BuildOrder *int `json:"build_order,omitempty"`

	Deferred    bool   `json:"deferred,omitempty"`
	DeferReason string `json:"defer_reason,omitempty"`
}

// displayName returns the feature name, falling back to its id.
func (f Feature) displayName() string {
	if f.Name != "" {
		return f.Name
	}
	if f.ID != "" {
		return f.ID
	}
	return "unknown"
}

// Classify determines whether a feature is core or optional. A feature is
// core iff it is blocking for initial usefulness and maps to a validated
// problem.
func Classify(isBlocking, hasProblemMapping bool) Kind {
	if isBlocking && hasProblemMapping {
		return KindCore
	}
	return KindOptional
}

// MappingReport is the result of CheckProblemMapping.
type MappingReport struct {
	Passed   bool     `json:"passed"`
	Unmapped []string `json:"unmapped"`
}

// CheckProblemMapping verifies each feature maps to one of the validated
// problem identifiers. Failing features are reported by name.
func CheckProblemMapping(feats []Feature, problems []string) MappingReport {
	valid := make(map[string]bool, len(problems))
	for _, p := range problems {
		valid[p] = true
	}

	unmapped := []string{}
	for _, f := range feats {
		if f.ProblemMappedTo == "" || !valid[f.ProblemMappedTo] {
			unmapped = append(unmapped, f.displayName())
		}
	}

	return MappingReport{Passed: len(unmapped) == 0, Unmapped: unmapped}
}

// MinRationaleLength is the shortest rationale that passes the
// explainability check. Raw length, no trimming.
const MinRationaleLength = 10

// ExplainabilityReport is the result of CheckInternExplainability.
type ExplainabilityReport struct {
	Passed  bool     `json:"passed"`
	Unclear []string `json:"unclear"`
}

// CheckInternExplainability verifies each feature carries enough rationale
// for a newcomer to understand why it exists.
func CheckInternExplainability(feats []Feature) ExplainabilityReport {
	unclear := []string{}
	for _, f := range feats {
		if len(f.Rationale) < MinRationaleLength {
			unclear = append(unclear, f.displayName())
		}
	}
	return ExplainabilityReport{Passed: len(unclear) == 0, Unclear: unclear}
}

// OrderByPriority returns the features sorted ascending by build order.
// The sort is stable; features without a build order come last.
func OrderByPriority(feats []Feature) []Feature {
	out := make([]Feature, len(feats))
	copy(out, feats)
	sort.SliceStable(out, func(i, j int) bool {
		return orderKey(out[i]) < orderKey(out[j])
	})
	return out
}

func orderKey(f Feature) int {
	if f.BuildOrder == nil {
		return int(^uint(0) >> 1) // sorts after every real order
	}
	return *f.BuildOrder
}

// DeferralReport partitions features into deferred and active lists.
type DeferralReport struct {
	Deferred      []Feature `json:"deferred"`
	Active        []Feature `json:"active"`
	DeferredCount int       `json:"deferred_count"`
	ActiveCount   int       `json:"active_count"`
}

// FlagDeferred splits the list into explicitly deferred features and
// everything else.
func FlagDeferred(feats []Feature) DeferralReport {
	deferred := []Feature{}
	active := []Feature{}
	for _, f := range feats {
		if f.Deferred {
			deferred = append(deferred, f)
		} else {
			active = append(active, f)
		}
	}
	return DeferralReport{
		Deferred:      deferred,
		Active:        active,
		DeferredCount: len(deferred),
		ActiveCount:   len(active),
	}
}

// ExclusionGroup names a set of feature ids of which at most one may be
// selected at a time.
type ExclusionGroup struct {
	Group      string   `json:"group"`
	Label      string   `json:"label"`
	FeatureIDs []string `json:"feature_ids"`
}

// ExclusionViolation records one violated exclusion group.
type ExclusionViolation struct {
	Group          string   `json:"group"`
	Label          string   `json:"label"`
	ConflictingIDs []string `json:"conflicting_ids"`
	Message        string   `json:"message"`
}

// ExclusionReport is the result of CheckMutualExclusions.
type ExclusionReport struct {
	Passed     bool                 `json:"passed"`
	Violations []ExclusionViolation `json:"violations"`
}

// CheckMutualExclusions verifies the selected ids do not include two or
// more members of any exclusion group.
func CheckMutualExclusions(selectedIDs []string, groups []ExclusionGroup) ExclusionReport {
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	violations := []ExclusionViolation{}
	for _, g := range groups {
		conflicting := []string{}
		for _, id := range g.FeatureIDs {
			if selected[id] {
				conflicting = append(conflicting, id)
			}
		}
		if len(conflicting) > 1 {
			violations = append(violations, ExclusionViolation{
				Group:          g.Group,
				Label:          g.Label,
				ConflictingIDs: conflicting,
				Message: fmt.Sprintf("%s: cannot select both %s — pick one",
					g.Label, strings.Join(conflicting, " and ")),
			})
		}
	}

	return ExclusionReport{Passed: len(violations) == 0, Violations: violations}
}
