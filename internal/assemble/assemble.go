// Package assemble compiles approved chapters into the final build
// guide document. Assembly is mechanical: chapter content is
// concatenated in outline order, normalized, and exported. No content
// is rewritten.
package assemble

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/architectd/internal/state"
)

var (
	// ErrChapterFileMissing indicates a chapter content file is absent.
	ErrChapterFileMissing = errors.New("chapter file not found")

	// ErrNotReady indicates the readiness checklist has unmet items.
	ErrNotReady = errors.New("project not ready for assembly")
)

// Checklist is the pre-assembly readiness report.
type Checklist struct {
	AllChaptersApproved bool `json:"all_chapters_approved"`
	QualityGatesPassed  bool `json:"quality_gates_passed"`
	OutlineIntegrity    bool `json:"outline_integrity"`
}

// Ready reports whether every checklist item is satisfied.
func (c Checklist) Ready() bool {
	return c.AllChaptersApproved && c.QualityGatesPassed && c.OutlineIntegrity
}

// CheckReadiness evaluates the pre-assembly checklist for a project.
func CheckReadiness(st *state.ProjectState) Checklist {
	return Checklist{
		AllChaptersApproved: st.AllChaptersApproved(),
		QualityGatesPassed:  st.Quality.FinalReport.AllPassed,
		OutlineIntegrity:    st.VerifyOutlineIntegrity(),
	}
}

// Result describes an assembled document.
type Result struct {
	Filename   string `json:"filename"`
	OutputPath string `json:"output_path"`
	Content    string `json:"content"`
}

// Assembler exports assembled documents under an output directory, one
// subdirectory per project slug.
type Assembler struct {
	outputDir string
	log       *zap.Logger
}

// New creates an assembler rooted at outputDir.
func New(outputDir string, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{outputDir: outputDir, log: log}
}

// Assemble runs the full pipeline for a project: readiness check,
// compile, format, version header, export. On success the document
// assembly is recorded in the state; the caller persists it.
func (a *Assembler) Assemble(st *state.ProjectState) (*Result, error) {
	if checklist := CheckReadiness(st); !checklist.Ready() {
		return nil, fmt.Errorf("%w: %+v", ErrNotReady, checklist)
	}

	paths := make([]string, len(st.Chapters))
	for i, ch := range st.Chapters {
		paths[i] = ch.ContentPath
	}

	compiled, err := Compile(paths)
	if err != nil {
		return nil, err
	}

	doc := ApplyFormatting(compiled)
	doc = AddVersionHeader(doc, st.Project.Name, st.Document.Version, time.Now().UTC())

	filename := GenerateFilename(st.Project.Name, st.Document.Version)
	outputPath, err := a.export(doc, st.Project.Slug, filename)
	if err != nil {
		return nil, err
	}

	st.RecordDocumentAssembly(filename, outputPath)
	a.log.Info("document assembled",
		zap.String("slug", st.Project.Slug),
		zap.String("path", outputPath),
		zap.Int("chapters", len(st.Chapters)))

	return &Result{Filename: filename, OutputPath: outputPath, Content: doc}, nil
}

// Compile reads the chapter files and joins them with horizontal-rule
// separators, in the order given.
func Compile(chapterPaths []string) (string, error) {
	var b strings.Builder
	for i, path := range chapterPaths {
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrChapterFileMissing, path)
			}
			return "", fmt.Errorf("read chapter %s: %w", path, err)
		}
		b.Write(content)
		if i < len(chapterPaths)-1 {
			b.WriteString("\n\n---\n\n")
		}
	}
	return b.String(), nil
}

var (
	extraBlankLines = regexp.MustCompile(`\n{4,}`)
	headingSpacing  = regexp.MustCompile(`([^\n])\n(#{1,6}\s)`)
	unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

// ApplyFormatting standardizes the compiled document: normalized line
// endings, capped blank runs, blank lines before headings, no trailing
// whitespace, and a single final newline.
func ApplyFormatting(document string) string {
	doc := strings.ReplaceAll(document, "\r\n", "\n")
	doc = extraBlankLines.ReplaceAllString(doc, "\n\n\n")
	doc = headingSpacing.ReplaceAllString(doc, "$1\n\n$2")

	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	doc = strings.Join(lines, "\n")

	return strings.TrimRight(doc, "\n \t") + "\n"
}

// GenerateFilename builds the canonical document filename,
// {ProjectName}_Build_Guide_{version}.md.
func GenerateFilename(projectName, version string) string {
	safe := strings.Trim(unsafeFileChars.ReplaceAllString(projectName, "_"), "_")
	return fmt.Sprintf("%s_Build_Guide_%s.md", safe, version)
}

// AddVersionHeader prepends the version metadata block.
func AddVersionHeader(document, projectName, version string, date time.Time) string {
	header := fmt.Sprintf("# %s — Build Guide\n\n"+
		"**Version:** %s  \n"+
		"**Date:** %s  \n"+
		"**Status:** Final  \n\n"+
		"---\n\n",
		projectName, version, date.Format("2006-01-02"))
	return header + document
}

// export writes the document under outputDir/<slug>/<filename>.
func (a *Assembler) export(document, slug, filename string) (string, error) {
	dir := filepath.Join(a.outputDir, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return path, nil
}
