package quality

import (
	"regexp"
	"strings"
)

// Chapter status derived from the composite score.
const (
	StatusComplete       = "complete"
	StatusNeedsExpansion = "needs_expansion"
	StatusIncomplete     = "incomplete"
)

// technicalPatterns count concrete artifacts: code blocks, file paths,
// CLI commands, tables, environment variables, hosts and ports.
var technicalPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?im)```"),
	regexp.MustCompile(`(?im)(?:/[\w.-]+){2,}|[\w.-]+\.(?:py|js|ts|json|yaml|yml|toml|md|html|css|sql|sh|env|go)`),
	regexp.MustCompile(`(?im)(?:npm|pip|python|docker|git|curl|mkdir|cd|export|uvicorn|pytest|make|go)\s+\w+`),
	regexp.MustCompile(`(?im)\|.+\|`),
	regexp.MustCompile(`(?m)[A-Z][A-Z_]{3,}(?:=|:)`),
	regexp.MustCompile(`(?im)(?:localhost|127\.0\.0\.1|0\.0\.0\.0)(?::\d+)?|port\s+\d+`),
}

// specificityPatterns are checked per category over lowercased text; the
// score scales with how many categories appear at all.
var specificityPatterns = [][]*regexp.Regexp{
	compilePatterns([]string{`step\s+\d`, `phase\s+\d`, `first,?\s`, `then,?\s`, `next,?\s`, `finally,?\s`}),
	compilePatterns([]string{`input[s]?\s*:`, `output[s]?\s*:`, `returns?\s+`, `accepts?\s+`, `produces?\s+`}),
	compilePatterns([]string{`depends?\s+on`, `requires?\s+`, `prerequisite`, `must be .+? before`}),
	compilePatterns([]string{`environment variable`, `\.env`, `config\s`, `setting[s]?\s`}),
	compilePatterns([]string{`test\s+`, `pytest`, `unit test`, `integration test`, `test case`}),
	compilePatterns([]string{`deploy`, `production`, `staging`, `docker`, `ci/cd`, `pipeline`}),
}

// ChapterScore grades one chapter across four 0-25 dimensions.
type ChapterScore struct {
	TotalScore                     int           `json:"total_score"`
	WordCount                      int           `json:"word_count"`
	WordCountScore                 int           `json:"word_count_score"`
	SubsectionsFound               []string      `json:"subsections_found"`
	SubsectionsMissing             []string      `json:"subsections_missing"`
	SubsectionScore                int           `json:"subsection_score"`
	TechnicalDensityScore          int           `json:"technical_density_score"`
	ImplementationSpecificityScore int           `json:"implementation_specificity_score"`
	Status                         string        `json:"status"`
	GateResults                    ChapterReport `json:"gate_results"`
}

// DocumentScore aggregates chapter scores for the whole guide.
type DocumentScore struct {
	AverageScore           int    `json:"average_score"`
	TotalWordCount         int    `json:"total_word_count"`
	EstimatedPages         int    `json:"estimated_pages"`
	ChapterCount           int    `json:"chapter_count"`
	ChaptersComplete       int    `json:"chapters_complete"`
	ChaptersNeedsExpansion int    `json:"chapters_needs_expansion"`
	ChaptersIncomplete     int    `json:"chapters_incomplete"`
	Status                 string `json:"status"`
}

// ScoreChapter scores chapter text against the depth mode's
// expectations and runs the binary chapter gates alongside.
func ScoreChapter(text, sectionTitle string, mode DepthMode) ChapterScore {
	thresholds := ScoringThresholdsFor(mode)
	required := ChapterSubsections(sectionTitle, mode)

	wordCount, wordScore := scoreWordCount(text, thresholds.MinWords)
	found, missing, subScore := scoreSubsections(text, required)
	techScore := scoreTechnicalDensity(text)
	specScore := scoreImplementationSpecificity(text)

	total := wordScore + subScore + techScore + specScore

	status := StatusIncomplete
	switch {
	case total >= thresholds.Complete:
		status = StatusComplete
	case total >= thresholds.Incomplete:
		status = StatusNeedsExpansion
	}

	return ChapterScore{
		TotalScore:                     total,
		WordCount:                      wordCount,
		WordCountScore:                 wordScore,
		SubsectionsFound:               found,
		SubsectionsMissing:             missing,
		SubsectionScore:                subScore,
		TechnicalDensityScore:          techScore,
		ImplementationSpecificityScore: specScore,
		Status:                         status,
		GateResults:                    RunChapterGates(text),
	}
}

func scoreWordCount(text string, minWords int) (int, int) {
	words := len(strings.Fields(text))
	if minWords <= 0 {
		return words, 25
	}
	score := words * 25 / minWords
	if score > 25 {
		score = 25
	}
	return words, score
}

func scoreSubsections(text string, required []string) ([]string, []string, int) {
	if len(required) == 0 {
		return []string{}, []string{}, 25
	}

	found := []string{}
	missing := []string{}
	lower := strings.ToLower(text)
	for _, sub := range required {
		heading := regexp.MustCompile(`(?i)##\s+` + regexp.QuoteMeta(sub))
		switch {
		case heading.MatchString(text):
			found = append(found, sub)
		case strings.Contains(lower, strings.ToLower(sub)):
			found = append(found, sub)
		default:
			missing = append(missing, sub)
		}
	}

	score := len(found) * 25 / len(required)
	if score > 25 {
		score = 25
	}
	return found, missing, score
}

func scoreTechnicalDensity(text string) int {
	signals := 0
	for _, re := range technicalPatterns {
		signals += len(re.FindAllString(text, -1))
	}

	switch {
	case signals >= 30:
		return 25
	case signals >= 20:
		return 20
	case signals >= 10:
		return 15
	case signals >= 5:
		return 10
	case signals >= 2:
		return 5
	default:
		return 0
	}
}

func scoreImplementationSpecificity(text string) int {
	lower := strings.ToLower(text)
	categories := 0
	for _, group := range specificityPatterns {
		for _, re := range group {
			if re.MatchString(lower) {
				categories++
				break
			}
		}
	}
	return categories * 25 / len(specificityPatterns)
}

// ScoreDocument aggregates per-chapter scores into a document verdict.
func ScoreDocument(scores []ChapterScore) DocumentScore {
	if len(scores) == 0 {
		return DocumentScore{Status: StatusIncomplete}
	}

	doc := DocumentScore{ChapterCount: len(scores)}
	totalScore := 0
	for _, s := range scores {
		doc.TotalWordCount += s.WordCount
		totalScore += s.TotalScore
		switch s.Status {
		case StatusComplete:
			doc.ChaptersComplete++
		case StatusNeedsExpansion:
			doc.ChaptersNeedsExpansion++
		default:
			doc.ChaptersIncomplete++
		}
	}

	doc.AverageScore = totalScore / len(scores)
	doc.EstimatedPages = EstimatePages(doc.TotalWordCount)

	switch {
	case doc.AverageScore >= 75 && doc.ChaptersIncomplete == 0:
		doc.Status = StatusComplete
	case doc.AverageScore >= 40:
		doc.Status = StatusNeedsExpansion
	default:
		doc.Status = StatusIncomplete
	}
	return doc
}
