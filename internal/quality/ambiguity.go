package quality

import (
	"fmt"
	"regexp"
)

var vagueNouns = compilePatterns([]string{
	`\bplatform\b`,
	`\btool\b`,
	`\bsolution\b`,
	`\bsystem\b`,
	`\bframework\b`,
	`\binfrastructure\b`,
	`\bservice\b`,
	`\bmodule\b`,
	`\bcomponent\b`,
	`\blayer\b`,
})

var undefinedUsers = compilePatterns([]string{
	`\bbusinesses\b`,
	`\bpeople\b`,
	`\bteams\b`,
	`\bstakeholders\b`,
	`\beveryone\b`,
	`\busers\b`,
	`\bcustomers\b`,
	`\bclients\b`,
})

var overloadedGoals = compilePatterns([]string{
	`\bend.to.end\b`,
	`\bdo everything\b`,
	`\bfull.?stack\b`,
	`\ball.in.one\b`,
	`\bcomprehensive\b`,
	`\bcomplete solution\b`,
	`\bone.stop\b`,
})

// forbiddenPhrases must never survive into a finished guide; the
// anti-vagueness gate fails on any hit.
var forbiddenPhrases = compilePatterns([]string{
	`handle edge cases`,
	`optimize later`,
	`make it scalable`,
	`ensure good ux`,
	`use best practices`,
	`as needed`,
	`where applicable`,
	`and so on`,
	`et cetera`,
	`etc\.`,
	`and more`,
	`various`,
	`appropriate`,
	`suitable`,
	`adequate`,
	`sufficient`,
	`properly`,
	`correctly`,
	`efficiently`,
})

var criteriaSignals = compilePatterns([]string{
	`success\s+(is|means|criteria|metric)`,
	`done\s+when`,
	`complet(e|ed|ion)\s+when`,
	`measur(e|ed|able)`,
	`criteria`,
	`metric`,
	`pass(es)?\s+when`,
})

// Finding is one vague term located in the text.
type Finding struct {
	Term       string `json:"term"`
	Position   int    `json:"position"`
	Suggestion string `json:"suggestion"`
}

// PhraseFinding is one forbidden vagueness phrase located in the text.
type PhraseFinding struct {
	Phrase              string `json:"phrase"`
	Position            int    `json:"position"`
	RequiredReplacement string `json:"required_replacement"`
}

// CriteriaCheck reports whether the text states success criteria.
type CriteriaCheck struct {
	HasCriteria bool   `json:"has_criteria"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// AmbiguityReport is the combined output of every detector.
type AmbiguityReport struct {
	VagueNouns       []Finding       `json:"vague_nouns"`
	UndefinedUsers   []Finding       `json:"undefined_users"`
	OverloadedGoals  []Finding       `json:"overloaded_goals"`
	ForbiddenPhrases []PhraseFinding `json:"forbidden_phrases"`
	MissingCriteria  CriteriaCheck   `json:"missing_criteria"`
	TotalFindings    int             `json:"total_findings"`
	HasIssues        bool            `json:"has_issues"`
}

func findAll(text string, patterns []*regexp.Regexp, suggest func(term string) string) []Finding {
	findings := []Finding{}
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			term := text[loc[0]:loc[1]]
			findings = append(findings, Finding{
				Term:       term,
				Position:   loc[0],
				Suggestion: suggest(term),
			})
		}
	}
	return findings
}

// DetectVagueNouns finds generic nouns used without context.
func DetectVagueNouns(text string) []Finding {
	return findAll(text, vagueNouns, func(term string) string {
		return fmt.Sprintf("Specify what '%s' refers to concretely", term)
	})
}

// DetectUndefinedUsers finds generic user references without specificity.
func DetectUndefinedUsers(text string) []Finding {
	return findAll(text, undefinedUsers, func(term string) string {
		return fmt.Sprintf("Define who '%s' are specifically (role, context, skill level)", term)
	})
}

// DetectOverloadedGoals flags phrases indicating overly broad scope.
func DetectOverloadedGoals(text string) []Finding {
	return findAll(text, overloadedGoals, func(term string) string {
		return fmt.Sprintf("Break '%s' into specific, bounded goals", term)
	})
}

// DetectForbiddenPhrases finds vagueness phrases that must be replaced.
func DetectForbiddenPhrases(text string) []PhraseFinding {
	findings := []PhraseFinding{}
	for _, re := range forbiddenPhrases {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			findings = append(findings, PhraseFinding{
				Phrase:   text[loc[0]:loc[1]],
				Position: loc[0],
				RequiredReplacement: "Replace with specific behaviors, explicit constraints, " +
					"or measurable outcomes",
			})
		}
	}
	return findings
}

// DetectMissingCriteria checks for the presence of success criteria
// indicators.
func DetectMissingCriteria(text string) CriteriaCheck {
	for _, re := range criteriaSignals {
		if re.MatchString(text) {
			return CriteriaCheck{HasCriteria: true}
		}
	}
	return CriteriaCheck{
		HasCriteria: false,
		Suggestion:  "Add explicit success criteria or completion conditions",
	}
}

// RunAllDetectors runs every ambiguity detector over the text.
func RunAllDetectors(text string) AmbiguityReport {
	r := AmbiguityReport{
		VagueNouns:       DetectVagueNouns(text),
		UndefinedUsers:   DetectUndefinedUsers(text),
		OverloadedGoals:  DetectOverloadedGoals(text),
		ForbiddenPhrases: DetectForbiddenPhrases(text),
		MissingCriteria:  DetectMissingCriteria(text),
	}

	r.TotalFindings = len(r.VagueNouns) + len(r.UndefinedUsers) +
		len(r.OverloadedGoals) + len(r.ForbiddenPhrases)
	if !r.MissingCriteria.HasCriteria {
		r.TotalFindings++
	}
	r.HasIssues = r.TotalFindings > 0
	return r
}
