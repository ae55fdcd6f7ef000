// Package phase defines the fixed build-guide pipeline phases and the
// navigation model derived from them. A project moves through the phases
// monotonically forward; two phases are auto-executed by the build pipeline
// and hidden from user-facing navigation.
package phase

// Phase identifies one stage of the build-guide pipeline.
type Phase string

const (
	// IdeaIntake captures the raw project idea.
	IdeaIntake Phase = "idea_intake"

	// FeatureDiscovery selects features from the catalog.
	FeatureDiscovery Phase = "feature_discovery"

	// OutlineGeneration authors the document outline.
	OutlineGeneration Phase = "outline_generation"

	// OutlineApproval reviews and locks the outline.
	OutlineApproval Phase = "outline_approval"

	// ChapterBuild writes one chapter per locked outline section.
	ChapterBuild Phase = "chapter_build"

	// QualityGates runs document-level quality checks. Auto-executed.
	QualityGates Phase = "quality_gates"

	// FinalAssembly assembles the final document. Auto-executed.
	FinalAssembly Phase = "final_assembly"

	// Complete is the terminal phase.
	Complete Phase = "complete"
)

// Order returns all phases in pipeline order.
func Order() []Phase {
	return []Phase{
		IdeaIntake,
		FeatureDiscovery,
		OutlineGeneration,
		OutlineApproval,
		ChapterBuild,
		QualityGates,
		FinalAssembly,
		Complete,
	}
}

// hidden phases are auto-executed by the build pipeline and excluded from
// the visible navigation.
var hidden = map[Phase]bool{
	QualityGates:  true,
	FinalAssembly: true,
}

var labels = map[Phase]string{
	IdeaIntake:        "Idea Intake",
	FeatureDiscovery:  "Feature Discovery",
	OutlineGeneration: "Outline Generation",
	OutlineApproval:   "Outline Approval",
	ChapterBuild:      "Chapter Build",
	QualityGates:      "Quality Gates",
	FinalAssembly:     "Final Assembly",
	Complete:          "Complete",
}

var urlSegments = map[Phase]string{
	IdeaIntake:        "idea-intake",
	FeatureDiscovery:  "feature-discovery",
	OutlineGeneration: "outline-generation",
	OutlineApproval:   "outline-approval",
	ChapterBuild:      "chapter-build",
	QualityGates:      "quality-gates",
	FinalAssembly:     "final-assembly",
	Complete:          "complete",
}

// Known reports whether p is a member of the pipeline order.
func Known(p Phase) bool {
	_, ok := Index(p)
	return ok
}

// Index returns the position of p in the pipeline order.
func Index(p Phase) (int, bool) {
	for i, ph := range Order() {
		if ph == p {
			return i, true
		}
	}
	return 0, false
}

// Hidden reports whether p is auto-executed and excluded from navigation.
func Hidden(p Phase) bool {
	return hidden[p]
}

// Label returns the human-readable label for p, falling back to the raw
// phase string for unknown values.
func Label(p Phase) string {
	if l, ok := labels[p]; ok {
		return l
	}
	return string(p)
}

// URLSegment returns the path segment used for p's page.
func URLSegment(p Phase) string {
	return urlSegments[p]
}

// Next returns the phase immediately after p in the pipeline order.
func Next(p Phase) (Phase, bool) {
	idx, ok := Index(p)
	if !ok || idx+1 >= len(Order()) {
		return "", false
	}
	return Order()[idx+1], true
}
