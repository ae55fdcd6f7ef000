// Package quality implements the deterministic quality gates run over
// chapter and document text: completeness, clarity, build readiness,
// anti-vagueness, and the intern success test. A composite 0-100 score
// per chapter measures word count, subsection coverage, technical
// density, and implementation specificity. Everything here is pure rule
// evaluation; results are data, never errors.
package quality

import (
	"fmt"
	"regexp"
	"strings"
)

// Required elements every chapter must mention.
var requiredChapterElements = []string{
	"purpose",
	"design intent",
	"implementation guidance",
}

var placeholderPatterns = compilePatterns([]string{
	`\bTBD\b`,
	`\bTBA\b`,
	`\bTBC\b`,
	`to be determined`,
	`to be decided`,
	`we'll decide later`,
	`we'll figure out`,
	`placeholder`,
	`\bTODO\b`,
	`\bFIXME\b`,
})

var outcomeSignals = compilePatterns([]string{
	`this chapter`,
	`the goal`,
	`the purpose`,
	`this section`,
	`this ensures`,
	`the objective`,
})

// buildReadinessSignals are checked per category; a chapter needs at
// least one hit in every category to pass the gate.
var buildReadinessSignals = []struct {
	category string
	patterns []*regexp.Regexp
}{
	{"execution order", compilePatterns([]string{
		`first`, `then`, `next`, `after`, `before`, `step \d`, `phase \d`, `order`,
	})},
	{"inputs outputs", compilePatterns([]string{
		`input`, `output`, `produce`, `accept`, `return`, `receive`, `generate`,
	})},
	{"dependencies", compilePatterns([]string{
		`depend`, `require`, `prerequisite`, `before`, `block`,
	})},
}

var headingPattern = regexp.MustCompile(`(?m)^#+\s+.+$`)

// internQuestions are the three questions a finished guide must answer,
// in report order.
var internQuestions = []struct {
	key     string
	signals []*regexp.Regexp
}{
	{"what_building", compilePatterns([]string{
		`this (system|project|tool|application) (is|does|exists to|will)`,
		`the system (must|should|will)`,
		`core capabilit`,
		`what (the system|this) does`,
		`purpose`,
	})},
	{"what_first", compilePatterns([]string{
		`build order`,
		`start with`,
		`first`,
		`phase 1`,
		`step 1`,
		`priorit`,
		`execution phase`,
	})},
	{"what_done_looks_like", compilePatterns([]string{
		`done (when|means|criteria|looks like)`,
		`success (is|means|criteria|when)`,
		`complet(e|ed|ion) (when|criteria)`,
		`definition of done`,
		`acceptance criteria`,
		`deliverable`,
	})},
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// GateResult is the outcome of one quality gate.
type GateResult struct {
	Gate   string   `json:"gate"`
	Passed bool     `json:"passed"`
	Issues []string `json:"issues"`
}

// VaguenessResult is the anti-vagueness gate outcome, carrying the
// exact phrases that were flagged.
type VaguenessResult struct {
	GateResult
	FlaggedPhrases []string `json:"flagged_phrases"`
}

// InternTestResult is the intern success test outcome.
type InternTestResult struct {
	GateResult
	QuestionsAnswered map[string]bool `json:"questions_answered"`
	MissingAnswers    []string        `json:"missing_answers"`
}

// ChapterReport aggregates the four per-chapter gates.
type ChapterReport struct {
	Completeness   GateResult      `json:"completeness"`
	Clarity        GateResult      `json:"clarity"`
	BuildReadiness GateResult      `json:"build_readiness"`
	AntiVagueness  VaguenessResult `json:"anti_vagueness"`
	AllPassed      bool            `json:"all_passed"`
}

// FinalReport aggregates the document-level gates, which add the intern
// success test to the chapter gates.
type FinalReport struct {
	Completeness   GateResult       `json:"completeness"`
	Clarity        GateResult       `json:"clarity"`
	BuildReadiness GateResult       `json:"build_readiness"`
	AntiVagueness  VaguenessResult  `json:"anti_vagueness"`
	InternTest     InternTestResult `json:"intern_test"`
	AllPassed      bool             `json:"all_passed"`
}

// CheckCompleteness verifies the required elements are present, no
// placeholder language remains, and the text carries at least ten
// non-heading content lines.
func CheckCompleteness(text string) GateResult {
	issues := []string{}
	lower := strings.ToLower(text)

	for _, element := range requiredChapterElements {
		if !strings.Contains(lower, element) {
			issues = append(issues, fmt.Sprintf("Missing required element: '%s'", element))
		}
	}

	for _, re := range placeholderPatterns {
		if m := re.FindString(text); m != "" {
			issues = append(issues, fmt.Sprintf("Contains placeholder language: '%s'", m))
		}
	}

	content := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			content++
		}
	}
	if content < 10 {
		issues = append(issues,
			fmt.Sprintf("Chapter has only %d content lines (minimum 10)", content))
	}

	return GateResult{Gate: "completeness", Passed: len(issues) == 0, Issues: issues}
}

// CheckClarity verifies an explicit outcome statement and enough heading
// structure to navigate the text.
func CheckClarity(text string) GateResult {
	issues := []string{}

	hasOutcome := false
	for _, re := range outcomeSignals {
		if re.MatchString(text) {
			hasOutcome = true
			break
		}
	}
	if !hasOutcome {
		issues = append(issues, "No clear outcome or purpose statement found")
	}

	headings := headingPattern.FindAllString(text, -1)
	if len(headings) < 2 {
		issues = append(issues,
			fmt.Sprintf("Only %d heading(s) found — chapter needs more structure", len(headings)))
	}

	return GateResult{Gate: "clarity", Passed: len(issues) == 0, Issues: issues}
}

// CheckBuildReadiness verifies the text signals execution order, inputs
// and outputs, and dependencies.
func CheckBuildReadiness(text string) GateResult {
	issues := []string{}
	lower := strings.ToLower(text)

	for _, group := range buildReadinessSignals {
		found := false
		for _, re := range group.patterns {
			if re.MatchString(lower) {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, fmt.Sprintf("No %s signals found", group.category))
		}
	}

	return GateResult{Gate: "build_readiness", Passed: len(issues) == 0, Issues: issues}
}

// CheckAntiVagueness scans for forbidden vagueness phrases.
func CheckAntiVagueness(text string) VaguenessResult {
	findings := DetectForbiddenPhrases(text)
	flagged := make([]string, len(findings))
	issues := make([]string, len(findings))
	for i, f := range findings {
		flagged[i] = f.Phrase
		issues[i] = fmt.Sprintf("Vague phrase '%s' must be replaced with specifics", f.Phrase)
	}

	return VaguenessResult{
		GateResult:     GateResult{Gate: "anti_vagueness", Passed: len(flagged) == 0, Issues: issues},
		FlaggedPhrases: flagged,
	}
}

// CheckInternTest evaluates whether the document answers the three
// intern questions: what am I building, what do I build first, and what
// does done look like.
func CheckInternTest(text string) InternTestResult {
	lower := strings.ToLower(text)

	answered := map[string]bool{}
	missing := []string{}
	issues := []string{}
	for _, q := range internQuestions {
		found := false
		for _, re := range q.signals {
			if re.MatchString(lower) {
				found = true
				break
			}
		}
		answered[q.key] = found
		if !found {
			missing = append(missing, q.key)
			issues = append(issues, fmt.Sprintf("Document does not clearly answer: '%s'",
				strings.ReplaceAll(q.key, "_", " ")))
		}
	}

	return InternTestResult{
		GateResult:        GateResult{Gate: "intern_test", Passed: len(missing) == 0, Issues: issues},
		QuestionsAnswered: answered,
		MissingAnswers:    missing,
	}
}

// RunChapterGates runs the four per-chapter gates.
func RunChapterGates(text string) ChapterReport {
	r := ChapterReport{
		Completeness:   CheckCompleteness(text),
		Clarity:        CheckClarity(text),
		BuildReadiness: CheckBuildReadiness(text),
		AntiVagueness:  CheckAntiVagueness(text),
	}
	r.AllPassed = r.Completeness.Passed && r.Clarity.Passed &&
		r.BuildReadiness.Passed && r.AntiVagueness.Passed
	return r
}

// RunFinalGates runs the document-level gates, including the intern
// success test.
func RunFinalGates(text string) FinalReport {
	r := FinalReport{
		Completeness:   CheckCompleteness(text),
		Clarity:        CheckClarity(text),
		BuildReadiness: CheckBuildReadiness(text),
		AntiVagueness:  CheckAntiVagueness(text),
		InternTest:     CheckInternTest(text),
	}
	r.AllPassed = r.Completeness.Passed && r.Clarity.Passed &&
		r.BuildReadiness.Passed && r.AntiVagueness.Passed && r.InternTest.Passed
	return r
}

// Format renders the report as human-readable Markdown.
func (r FinalReport) Format() string {
	lines := []string{"# Quality Gate Report", ""}
	overall := "FAIL"
	if r.AllPassed {
		overall = "PASS"
	}
	lines = append(lines, fmt.Sprintf("**Overall: %s**", overall), "")

	gates := []struct {
		name   string
		result GateResult
	}{
		{"Completeness", r.Completeness},
		{"Clarity", r.Clarity},
		{"Build Readiness", r.BuildReadiness},
		{"Anti Vagueness", r.AntiVagueness.GateResult},
		{"Intern Test", r.InternTest.GateResult},
	}
	for _, g := range gates {
		status := "FAIL"
		if g.result.Passed {
			status = "PASS"
		}
		lines = append(lines, fmt.Sprintf("## %s: %s", g.name, status))
		if len(g.result.Issues) == 0 {
			lines = append(lines, "- No issues found")
		}
		for _, issue := range g.result.Issues {
			lines = append(lines, "- "+issue)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
