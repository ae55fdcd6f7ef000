package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goodChapter passes every per-chapter gate.
const goodChapter = `## Storage Layer

The purpose of this chapter is to make the storage slice concrete.

### Design Intent

Night students need a planner that survives restarts without losing data.
The store keeps one JSON document per project and rewrites it atomically.
Every rule engine stays pure so the boundary can persist exactly once.

### Implementation Guidance

First, build the storage layer together with its tests.
Then wire the HTTP handlers on top of the store.
Input: a project slug and a JSON request body.
Output: the updated project state document.
This step requires the configuration loader from the earlier chapter.
Done when the end-to-end test passes against a temporary directory.
Acceptance criteria live next to each handler test.
`

func TestCheckCompleteness(t *testing.T) {
	t.Run("passes on full chapter", func(t *testing.T) {
		r := CheckCompleteness(goodChapter)
		assert.True(t, r.Passed, r.Issues)
		assert.Equal(t, "completeness", r.Gate)
	})

	t.Run("flags missing elements", func(t *testing.T) {
		r := CheckCompleteness("## Heading\n\nsome body text\n")
		require.False(t, r.Passed)
		assert.Contains(t, r.Issues, "Missing required element: 'purpose'")
		assert.Contains(t, r.Issues, "Missing required element: 'design intent'")
		assert.Contains(t, r.Issues, "Missing required element: 'implementation guidance'")
	})

	t.Run("flags placeholder language", func(t *testing.T) {
		r := CheckCompleteness(goodChapter + "\nThe schema is TBD.\n")
		require.False(t, r.Passed)
		assert.Contains(t, r.Issues, "Contains placeholder language: 'TBD'")
	})

	t.Run("flags thin content", func(t *testing.T) {
		r := CheckCompleteness("purpose design intent implementation guidance\n")
		require.False(t, r.Passed)
		assert.Contains(t, r.Issues, "Chapter has only 1 content lines (minimum 10)")
	})
}

func TestCheckClarity(t *testing.T) {
	r := CheckClarity(goodChapter)
	assert.True(t, r.Passed, r.Issues)

	r = CheckClarity("just one flat paragraph with no structure at all")
	require.False(t, r.Passed)
	assert.Contains(t, r.Issues, "No clear outcome or purpose statement found")
	assert.Contains(t, r.Issues, "Only 0 heading(s) found — chapter needs more structure")
}

func TestCheckBuildReadiness(t *testing.T) {
	r := CheckBuildReadiness(goodChapter)
	assert.True(t, r.Passed, r.Issues)

	r = CheckBuildReadiness("a chapter about nothing actionable at all")
	require.False(t, r.Passed)
	assert.Contains(t, r.Issues, "No execution order signals found")
	assert.Contains(t, r.Issues, "No inputs outputs signals found")
	assert.Contains(t, r.Issues, "No dependencies signals found")
}

func TestCheckAntiVagueness(t *testing.T) {
	r := CheckAntiVagueness(goodChapter)
	assert.True(t, r.Passed, r.Issues)
	assert.Empty(t, r.FlaggedPhrases)

	r = CheckAntiVagueness("We will handle edge cases and optimize later as needed.")
	require.False(t, r.Passed)
	assert.Contains(t, r.FlaggedPhrases, "handle edge cases")
	assert.Contains(t, r.FlaggedPhrases, "optimize later")
	assert.Contains(t, r.FlaggedPhrases, "as needed")
	assert.Contains(t, r.Issues, "Vague phrase 'handle edge cases' must be replaced with specifics")
}

func TestCheckInternTest(t *testing.T) {
	r := CheckInternTest(goodChapter)
	assert.True(t, r.Passed, r.Issues)
	assert.True(t, r.QuestionsAnswered["what_building"])
	assert.True(t, r.QuestionsAnswered["what_first"])
	assert.True(t, r.QuestionsAnswered["what_done_looks_like"])

	r = CheckInternTest("nothing about goals, order, or finishing in here")
	require.False(t, r.Passed)
	assert.ElementsMatch(t, []string{"what_building", "what_first", "what_done_looks_like"},
		r.MissingAnswers)
	assert.Contains(t, r.Issues, "Document does not clearly answer: 'what building'")
}

func TestRunChapterGates(t *testing.T) {
	r := RunChapterGates(goodChapter)
	assert.True(t, r.AllPassed)

	r = RunChapterGates("short vague text, optimize later")
	assert.False(t, r.AllPassed)
	assert.False(t, r.Completeness.Passed)
	assert.False(t, r.AntiVagueness.Passed)
}

func TestRunFinalGates(t *testing.T) {
	r := RunFinalGates(goodChapter)
	assert.True(t, r.AllPassed)
	assert.True(t, r.InternTest.Passed)

	// A chapter that passes in isolation can still sink the document
	// when the intern questions go unanswered.
	stripped := strings.ReplaceAll(goodChapter, "Done when", "At the point where")
	stripped = strings.ReplaceAll(stripped, "Acceptance criteria", "Checks")
	r = RunFinalGates(stripped)
	assert.False(t, r.AllPassed)
	assert.False(t, r.InternTest.Passed)
	assert.Contains(t, r.InternTest.MissingAnswers, "what_done_looks_like")
}

func TestFinalReportFormat(t *testing.T) {
	text := RunFinalGates(goodChapter).Format()
	assert.Contains(t, text, "# Quality Gate Report")
	assert.Contains(t, text, "**Overall: PASS**")
	assert.Contains(t, text, "## Completeness: PASS")
	assert.Contains(t, text, "## Intern Test: PASS")
	assert.Contains(t, text, "- No issues found")

	text = RunFinalGates("empty").Format()
	assert.Contains(t, text, "**Overall: FAIL**")
	assert.Contains(t, text, "## Completeness: FAIL")
}

func TestAmbiguityDetectors(t *testing.T) {
	t.Run("vague nouns carry positions and suggestions", func(t *testing.T) {
		findings := DetectVagueNouns("a platform built on a framework")
		require.Len(t, findings, 2)
		assert.Equal(t, "platform", findings[0].Term)
		assert.Equal(t, 2, findings[0].Position)
		assert.Equal(t, "Specify what 'platform' refers to concretely", findings[0].Suggestion)
	})

	t.Run("undefined users", func(t *testing.T) {
		findings := DetectUndefinedUsers("helps teams and customers")
		require.Len(t, findings, 2)
		assert.Equal(t, "Define who 'teams' are specifically (role, context, skill level)",
			findings[0].Suggestion)
	})

	t.Run("overloaded goals", func(t *testing.T) {
		findings := DetectOverloadedGoals("an all-in-one, end-to-end product")
		terms := []string{findings[0].Term, findings[1].Term}
		assert.ElementsMatch(t, []string{"end-to-end", "all-in-one"}, terms)
	})

	t.Run("missing criteria", func(t *testing.T) {
		check := DetectMissingCriteria("done when the tests pass")
		assert.True(t, check.HasCriteria)
		assert.Empty(t, check.Suggestion)

		check = DetectMissingCriteria("no finishing line here")
		assert.False(t, check.HasCriteria)
		assert.NotEmpty(t, check.Suggestion)
	})

	t.Run("aggregate counts missing criteria as one finding", func(t *testing.T) {
		report := RunAllDetectors("a tool for people")
		assert.Equal(t, 3, report.TotalFindings)
		assert.True(t, report.HasIssues)

		report = RunAllDetectors("night students track calculus drills, done when streak hits 7")
		assert.Equal(t, 0, report.TotalFindings)
		assert.False(t, report.HasIssues)
	})
}

func TestResolveDepthMode(t *testing.T) {
	tests := []struct {
		in      string
		want    DepthMode
		wantErr bool
	}{
		{"light", DepthLight, false},
		{"standard", DepthStandard, false},
		{"professional", DepthProfessional, false},
		{"enterprise", DepthEnterprise, false},
		{"lite", DepthLight, false},
		{"architect", DepthEnterprise, false},
		{"", "", true},
		{"extreme", "", true},
	}
	for _, tt := range tests {
		got, err := ResolveDepthMode(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDepthMode, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestChapterSubsections(t *testing.T) {
	subs := ChapterSubsections("Executive Summary", DepthLight)
	assert.Equal(t, []string{"Vision & Strategy", "Business Model"}, subs)

	subs = ChapterSubsections("Core Capabilities", DepthEnterprise)
	assert.Len(t, subs, 8)
	assert.Contains(t, subs, "Feature Flags")

	// Unknown titles get a generic list sized to the depth minimum.
	subs = ChapterSubsections("Something Custom", DepthLight)
	assert.Equal(t, []string{"Overview", "Details", "Implementation"}, subs)
}

func TestScoringThresholdsFor(t *testing.T) {
	th := ScoringThresholdsFor(DepthEnterprise)
	assert.Equal(t, 3500, th.MinWords)
	assert.Equal(t, 75, th.Complete)
	assert.Equal(t, 40, th.Incomplete)

	// Unknown modes take the default profile.
	assert.Equal(t, ScoringThresholdsFor(DefaultDepthMode), ScoringThresholdsFor(DepthMode("nope")))
}

func TestEstimatePages(t *testing.T) {
	assert.Equal(t, 0, EstimatePages(0))
	assert.Equal(t, 1, EstimatePages(120))
	assert.Equal(t, 2, EstimatePages(1100))
}

func TestScoreChapter(t *testing.T) {
	long := goodChapter + strings.Repeat("\nEvery store write lands in /data/projects/state.json first.", 80)

	score := ScoreChapter(long, "Core Capabilities", DepthLight)
	assert.Equal(t, 25, score.WordCountScore, "word target exceeded")
	assert.Greater(t, score.TechnicalDensityScore, 0)
	assert.Greater(t, score.ImplementationSpecificityScore, 0)
	assert.True(t, score.GateResults.AllPassed)

	thin := ScoreChapter("a few words", "Core Capabilities", DepthEnterprise)
	assert.Equal(t, StatusIncomplete, thin.Status)
	assert.Equal(t, 0, thin.WordCountScore)
	assert.Contains(t, thin.SubsectionsMissing, "Features")
}

func TestScoreSubsectionsMatchesHeadingsAndPhrases(t *testing.T) {
	text := "## Features\n\nintegration points are listed inline\n"
	found, missing, score := scoreSubsections(text, []string{"Features", "Integration Points", "API Design"})
	assert.ElementsMatch(t, []string{"Features", "Integration Points"}, found)
	assert.Equal(t, []string{"API Design"}, missing)
	assert.Equal(t, 16, score)
}

func TestScoreDocument(t *testing.T) {
	empty := ScoreDocument(nil)
	assert.Equal(t, StatusIncomplete, empty.Status)
	assert.Equal(t, 0, empty.ChapterCount)

	scores := []ChapterScore{
		{TotalScore: 80, WordCount: 1000, Status: StatusComplete},
		{TotalScore: 80, WordCount: 1500, Status: StatusComplete},
	}
	doc := ScoreDocument(scores)
	assert.Equal(t, 80, doc.AverageScore)
	assert.Equal(t, 2500, doc.TotalWordCount)
	assert.Equal(t, 5, doc.EstimatedPages)
	assert.Equal(t, 2, doc.ChaptersComplete)
	assert.Equal(t, StatusComplete, doc.Status)

	scores = append(scores, ChapterScore{TotalScore: 10, WordCount: 50, Status: StatusIncomplete})
	doc = ScoreDocument(scores)
	assert.Equal(t, StatusNeedsExpansion, doc.Status, "an incomplete chapter blocks completion")
}
