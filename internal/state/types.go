// Package state defines the ProjectState aggregate and every mutation the
// pipeline performs on it. Mutators are pure in-memory edits; persistence
// is always a separate, explicit step taken by the boundary that owns the
// document for the duration of one operation.
package state

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/fyrsmithlabs/architectd/internal/features"
	"github.com/fyrsmithlabs/architectd/internal/outline"
	"github.com/fyrsmithlabs/architectd/internal/phase"
)

// Common errors.
var (
	ErrUnknownPhase      = errors.New("unknown phase")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrEmptyOutline      = errors.New("cannot lock an outline with no sections")
	ErrOutlineNotLocked  = errors.New("outline is not locked")
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrInvalidDecision   = errors.New("invalid outline decision")
	ErrInvalidRole       = errors.New("invalid chat role")
	ErrInvalidStatus     = errors.New("invalid chapter status")
	ErrRevisionLimit     = errors.New("chapter revision limit reached")
	ErrChapterApproved   = errors.New("chapter is already approved")
)

// ProjectState is the root aggregate for one build-guide project,
// identified by its slug.
type ProjectState struct {
	Project        Project        `json:"project"`
	CurrentPhase   phase.Phase    `json:"current_phase"`
	Idea           Idea           `json:"idea"`
	Features       Features       `json:"features"`
	Outline        Outline        `json:"outline"`
	Chapters       []Chapter      `json:"chapters"`
	Quality        Quality        `json:"quality"`
	Document       Document       `json:"document"`
	VersionHistory []VersionEntry `json:"version_history"`
	Chat           Chat           `json:"chat"`
}

// Project holds the project's identifying metadata.
type Project struct {
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	BuildDepthMode string    `json:"build_depth_mode,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Idea is the verbatim captured project idea.
type Idea struct {
	OriginalRaw string     `json:"original_raw"`
	CapturedAt  *time.Time `json:"captured_at"`
}

// Features holds the selected feature lists and the cached catalog.
type Features struct {
	Core      []features.Feature `json:"core"`
	Optional  []features.Feature `json:"optional"`
	Approved  bool               `json:"approved"`
	Catalog   []CatalogEntry     `json:"catalog"`
	Extracted []ExtractedFeature `json:"extracted,omitempty"`
}

// CatalogEntry is one generated catalog feature offered for selection.
type CatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ExtractedFeature is a feature candidate pulled out of the idea text.
type ExtractedFeature struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// OutlineStatus is the lifecycle state of the outline.
type OutlineStatus string

const (
	OutlineDraft  OutlineStatus = "draft"
	OutlineLocked OutlineStatus = "locked"
)

// Outline holds the document outline and its approval lifecycle.
type Outline struct {
	Version         int               `json:"version"`
	Status          OutlineStatus     `json:"status"`
	LockedAt        *time.Time        `json:"locked_at"`
	LockedHash      string            `json:"locked_hash,omitempty"`
	Sections        []outline.Section `json:"sections"`
	ApprovalHistory []ApprovalEntry   `json:"approval_history"`
}

// ApprovalEntry records one outline approval decision.
type ApprovalEntry struct {
	Version   int       `json:"version"`
	Decision  string    `json:"decision"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// Chapter tracks the authoring lifecycle of one locked outline section.
type Chapter struct {
	Index          int            `json:"index"`
	OutlineSection string         `json:"outline_section"`
	Status         ChapterStatus  `json:"status"`
	RevisionCount  int            `json:"revision_count"`
	ContentPath    string         `json:"content_path,omitempty"`
	QualityReport  map[string]any `json:"quality_report,omitempty"`
	ApprovedAt     *time.Time     `json:"approved_at,omitempty"`
}

// Quality holds the document-level quality results.
type Quality struct {
	FinalReport FinalReport `json:"final_report"`
}

// FinalReport is the outcome of the final quality gate run.
type FinalReport struct {
	RanAt     *time.Time       `json:"ran_at"`
	AllPassed bool             `json:"all_passed"`
	Details   []map[string]any `json:"details"`
}

// Document records the assembled output metadata.
type Document struct {
	Version     string     `json:"version"`
	Filename    string     `json:"filename,omitempty"`
	AssembledAt *time.Time `json:"assembled_at"`
	OutputPath  string     `json:"output_path,omitempty"`
}

// VersionEntry is one line of project version history.
type VersionEntry struct {
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	ChangeSummary string    `json:"change_summary"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one append-only chat history entry.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat holds the conversation history and the current step of the
// conversational engine.
type Chat struct {
	Messages    []Message      `json:"messages"`
	CurrentStep string         `json:"current_step"`
	Context     map[string]any `json:"context"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a project name to a URL-safe slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
