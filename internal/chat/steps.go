package chat

import "github.com/fyrsmithlabs/architectd/internal/phase"

// StepType selects the handler for a conversational step.
type StepType string

const (
	// StepExtractIdea captures the user's free-text idea and advances
	// the project to feature discovery.
	StepExtractIdea StepType = "extract_idea"
	// StepConfirmation routes to one of two next steps on a yes/no
	// answer.
	StepConfirmation StepType = "confirmation"
	// StepGuidance replies with scripted tips, cycling per user message.
	StepGuidance StepType = "guidance"
	// StepStatic replies with a fixed message and optionally moves to a
	// next step.
	StepStatic StepType = "static"
)

// Step is one node of the conversation graph. Only the fields relevant
// to its type are set.
type Step struct {
	Type  StepType
	Phase phase.Phase

	// Guidance.
	Tips []string

	// Static.
	BotMessage string
	NextStep   string

	// Confirmation.
	ConfirmedMessage string
	ConfirmedNext    string
	DeniedMessage    string
	DeniedNext       string
}

// LockSignal is the sentinel chat message that locks the selected
// features and advances to outline generation.
const LockSignal = "__LOCK_FEATURES__"

// PhaseWelcome holds the bot message shown when a phase page first
// loads, before any user input.
var PhaseWelcome = map[phase.Phase]string{
	phase.IdeaIntake: "Tell me about the project you want to build.",
	phase.FeatureDiscovery: "Your idea has been captured! Use the feature catalog " +
		"to select the features you need.",
	phase.OutlineGeneration: "You're building the document outline. Each of the 7 sections needs " +
		"a title and a brief summary. I can help if you have questions.",
	phase.OutlineApproval: "Review the outline above. When you're happy with it, lock it to " +
		"begin writing chapters.",
	phase.ChapterBuild: "Time to write! Select a chapter from the sidebar and fill in " +
		"the Purpose, Design Intent, and Implementation Guidance.",
	phase.QualityGates: "Run the quality gates to check your document for completeness, " +
		"clarity, and build readiness.",
	phase.FinalAssembly: "Almost done! Review the pre-assembly checklist, then click " +
		"Assemble to generate your final build guide.",
	phase.Complete: "Congratulations! Your build guide is ready. " +
		"You can download it using the button on the left.",
}

// defaultSteps is the full conversation graph, keyed by step id in the
// form "<phase>.<step>". Idea intake drives the conversation; every
// later phase uses chat as a guidance assistant beside the forms.
func defaultSteps() map[string]Step {
	steps := map[string]Step{
		"idea_intake.welcome": {
			Type:  StepExtractIdea,
			Phase: phase.IdeaIntake,
		},
		"feature_discovery.welcome": {
			Type:  StepGuidance,
			Phase: phase.FeatureDiscovery,
			Tips: []string{
				"Select features from the catalog on the left. Check all that apply!",
				"Click **Show Me More Features** to see additional options.",
				"When you're done, click **Save & Continue** to move to Outline Generation.",
			},
		},
	}

	guidance := map[phase.Phase][]string{
		phase.OutlineGeneration: {
			"Each section needs a clear **title** and a 1-2 sentence **summary**.",
			"Tip: Section titles should be action-oriented (e.g., 'Authentication System' not 'Section 3').",
			"Make sure each section maps to at least one core feature.",
			"When you're done editing sections, click **Validate** to check for issues.",
		},
		phase.OutlineApproval: {
			"Review the outline carefully — once locked, sections become chapters.",
			"If something feels off, use **Unlock** to make changes before locking.",
			"A locked outline generates chapter entries automatically.",
		},
		phase.ChapterBuild: {
			"Each chapter has 3 fields: **Purpose**, **Design Intent**, and **Implementation Guidance**.",
			"Keep each field focused — Purpose explains why, Design explains how, Guidance gives specifics.",
			"Quality gates run automatically when you submit a chapter.",
			"All chapters must be approved before moving to the next phase.",
		},
		phase.QualityGates: {
			"Quality gates check: **Completeness**, **Clarity**, **Build Readiness**, **Anti-Vagueness**, and the **Intern Test**.",
			"If a gate fails, review the specific issues and revise the affected chapters.",
			"All 5 gates must pass before you can advance to final assembly.",
		},
		phase.FinalAssembly: {
			"The checklist shows three requirements: all chapters approved, quality gates passed, and outline integrity.",
			"Once all checks are green, click **Assemble** to generate the final document.",
			"You can download the assembled build guide as a Markdown file.",
		},
		phase.Complete: {
			"Your build guide is ready! Click the download button to save it.",
			"You can always return to this page to download it again.",
		},
	}
	for p, tips := range guidance {
		steps[string(p)+".welcome"] = Step{Type: StepGuidance, Phase: p, Tips: tips}
	}

	return steps
}
