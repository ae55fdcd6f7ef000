package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/architectd/internal/features"
	"github.com/fyrsmithlabs/architectd/internal/outline"
	"github.com/fyrsmithlabs/architectd/internal/phase"
	"github.com/fyrsmithlabs/architectd/internal/quality"
)

// New creates a blank project state for the given project name. The caller
// persists it separately.
func New(name string) *ProjectState {
	now := time.Now().UTC()
	return &ProjectState{
		Project: Project{
			Name:      name,
			Slug:      Slugify(name),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CurrentPhase: phase.IdeaIntake,
		Features: Features{
			Core:     []features.Feature{},
			Optional: []features.Feature{},
			Catalog:  []CatalogEntry{},
		},
		Outline: Outline{
			Version:         1,
			Status:          OutlineDraft,
			Sections:        []outline.Section{},
			ApprovalHistory: []ApprovalEntry{},
		},
		Chapters: []Chapter{},
		Document: Document{Version: "v1"},
		VersionHistory: []VersionEntry{
			{Version: 1, CreatedAt: now, ChangeSummary: "Initial project creation"},
		},
		Chat: Chat{
			Messages:    []Message{},
			CurrentStep: string(phase.IdeaIntake) + ".welcome",
			Context:     map[string]any{},
		},
	}
}

// AdvancePhase moves the project to the next phase. Transitions must
// follow the defined order; phases cannot be skipped or revisited.
func (s *ProjectState) AdvancePhase(to phase.Phase) error {
	if !phase.Known(to) {
		return fmt.Errorf("%w: %q", ErrUnknownPhase, to)
	}

	next, ok := phase.Next(s.CurrentPhase)
	if !ok {
		return fmt.Errorf("%w: cannot advance from %q, already at final phase",
			ErrInvalidTransition, s.CurrentPhase)
	}
	if to != next {
		return fmt.Errorf("%w: from %q to %q, next valid phase is %q",
			ErrInvalidTransition, s.CurrentPhase, to, next)
	}

	s.CurrentPhase = to
	return nil
}

// RecordIdea stores the user's idea verbatim with a capture timestamp.
func (s *ProjectState) RecordIdea(raw string) {
	now := time.Now().UTC()
	s.Idea.OriginalRaw = raw
	s.Idea.CapturedAt = &now
}

// AddFeature appends a feature to the core or optional list.
func (s *ProjectState) AddFeature(kind features.Kind, f features.Feature) error {
	switch kind {
	case features.KindCore:
		s.Features.Core = append(s.Features.Core, f)
	case features.KindOptional:
		s.Features.Optional = append(s.Features.Optional, f)
	default:
		return fmt.Errorf("feature kind must be core or optional, got %q", kind)
	}
	return nil
}

// ApproveFeatures marks feature discovery as approved.
func (s *ProjectState) ApproveFeatures() {
	s.Features.Approved = true
}

// SetCatalog caches the generated feature catalog.
func (s *ProjectState) SetCatalog(entries []CatalogEntry) {
	s.Features.Catalog = entries
}

// GetExtractedFeatures returns the feature candidates extracted from the
// idea text.
func (s *ProjectState) GetExtractedFeatures() []ExtractedFeature {
	return s.Features.Extracted
}

// AddExtractedFeatures appends extracted feature candidates,
// deduplicating by case-insensitive name. Nameless entries are dropped.
func (s *ProjectState) AddExtractedFeatures(feats []ExtractedFeature) {
	seen := make(map[string]bool, len(s.Features.Extracted))
	for _, f := range s.Features.Extracted {
		seen[strings.ToLower(f.Name)] = true
	}

	for _, f := range feats {
		name := strings.TrimSpace(f.Name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		s.Features.Extracted = append(s.Features.Extracted, ExtractedFeature{
			Name:        name,
			Description: strings.TrimSpace(f.Description),
		})
		seen[strings.ToLower(name)] = true
	}
}

// SetOutlineSections replaces the outline sections wholesale.
func (s *ProjectState) SetOutlineSections(sections []outline.Section) {
	s.Outline.Sections = sections
}

// hashOutline fingerprints the outline content for immutability checks.
func hashOutline(sections []outline.Section) string {
	content, _ := json.Marshal(sections)
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// LockOutline marks the outline locked and immutable, storing a content
// hash and spawning exactly one draft chapter per section.
func (s *ProjectState) LockOutline() error {
	if len(s.Outline.Sections) == 0 {
		return ErrEmptyOutline
	}

	now := time.Now().UTC()
	s.Outline.Status = OutlineLocked
	s.Outline.LockedAt = &now
	s.Outline.LockedHash = hashOutline(s.Outline.Sections)
	s.Outline.ApprovalHistory = append(s.Outline.ApprovalHistory, ApprovalEntry{
		Version:   s.Outline.Version,
		Decision:  "approved",
		Timestamp: now,
	})

	s.Chapters = make([]Chapter, 0, len(s.Outline.Sections))
	for _, sec := range s.Outline.Sections {
		s.Chapters = append(s.Chapters, Chapter{
			Index:          sec.Index,
			OutlineSection: sec.Title,
			Status:         Draft(),
		})
	}

	return nil
}

// UnlockOutline reopens a locked outline for modification and increments
// the outline version.
func (s *ProjectState) UnlockOutline(reason string) error {
	if s.Outline.Status != OutlineLocked {
		return ErrOutlineNotLocked
	}

	now := time.Now().UTC()
	s.Outline.Status = OutlineDraft
	s.Outline.LockedAt = nil
	s.Outline.LockedHash = ""
	s.Outline.Version++
	s.Outline.ApprovalHistory = append(s.Outline.ApprovalHistory, ApprovalEntry{
		Version:   s.Outline.Version,
		Decision:  "revise",
		Timestamp: now,
		Notes:     reason,
	})
	s.VersionHistory = append(s.VersionHistory, VersionEntry{
		Version:       s.Outline.Version,
		CreatedAt:     now,
		ChangeSummary: "Outline unlocked: " + reason,
	})

	return nil
}

var validDecisions = map[string]bool{"revise": true, "expand": true, "reduce": true}

// RecordOutlineDecision appends an approval decision (revise, expand,
// reduce) to the outline history.
func (s *ProjectState) RecordOutlineDecision(decision, notes string) error {
	if !validDecisions[decision] {
		return fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}
	s.Outline.ApprovalHistory = append(s.Outline.ApprovalHistory, ApprovalEntry{
		Version:   s.Outline.Version,
		Decision:  decision,
		Timestamp: time.Now().UTC(),
		Notes:     notes,
	})
	return nil
}

// ChapterByIndex returns the chapter with the given 1-based index.
func (s *ProjectState) ChapterByIndex(index int) (*Chapter, error) {
	for i := range s.Chapters {
		if s.Chapters[i].Index == index {
			return &s.Chapters[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrChapterNotFound, index)
}

// RecordChapterStatus sets a chapter's status and, when non-empty, its
// content path. Revision statuses update the revision count; approval
// stamps the approval time.
func (s *ProjectState) RecordChapterStatus(index int, status ChapterStatus, contentPath string) error {
	ch, err := s.ChapterByIndex(index)
	if err != nil {
		return err
	}

	if status.Stage == StageRevision {
		ch.RevisionCount = status.Revision
	}
	if status.IsApproved() {
		now := time.Now().UTC()
		ch.ApprovedAt = &now
	}

	ch.Status = status
	if contentPath != "" {
		ch.ContentPath = contentPath
	}
	return nil
}

// SubmitChapter records a content submission, escalating the chapter
// status through the draft/revision ladder.
func (s *ProjectState) SubmitChapter(index int, contentPath string, maxRevisions int) (ChapterStatus, error) {
	ch, err := s.ChapterByIndex(index)
	if err != nil {
		return ChapterStatus{}, err
	}

	next, err := ch.Status.Submit(maxRevisions)
	if err != nil {
		return ch.Status, err
	}

	if err := s.RecordChapterStatus(index, next, contentPath); err != nil {
		return ch.Status, err
	}
	return next, nil
}

// SetBuildDepthMode records the chosen build depth, resolving legacy
// mode aliases before storing.
func (s *ProjectState) SetBuildDepthMode(mode string) error {
	resolved, err := quality.ResolveDepthMode(mode)
	if err != nil {
		return err
	}
	s.Project.BuildDepthMode = string(resolved)
	return nil
}

// BuildDepthMode returns the project's depth mode, falling back to the
// default when unset or unrecognized.
func (s *ProjectState) BuildDepthMode() quality.DepthMode {
	resolved, err := quality.ResolveDepthMode(s.Project.BuildDepthMode)
	if err != nil {
		return quality.DefaultDepthMode
	}
	return resolved
}

// RecordChapterQuality stores a quality gate report for a chapter. The
// report shape is owned by the quality runner; it is stored as-is.
func (s *ProjectState) RecordChapterQuality(index int, report map[string]any) error {
	ch, err := s.ChapterByIndex(index)
	if err != nil {
		return err
	}
	ch.QualityReport = report
	return nil
}

// RecordFinalQuality stores the document-level quality outcome.
func (s *ProjectState) RecordFinalQuality(allPassed bool, details []map[string]any) {
	now := time.Now().UTC()
	s.Quality.FinalReport = FinalReport{
		RanAt:     &now,
		AllPassed: allPassed,
		Details:   details,
	}
}

// RecordDocumentAssembly records that the final document was assembled.
func (s *ProjectState) RecordDocumentAssembly(filename, outputPath string) {
	now := time.Now().UTC()
	s.Document.Filename = filename
	s.Document.OutputPath = outputPath
	s.Document.AssembledAt = &now
}

// AllChaptersApproved reports whether every chapter reached approval.
// False when no chapters exist yet.
func (s *ProjectState) AllChaptersApproved() bool {
	if len(s.Chapters) == 0 {
		return false
	}
	for _, ch := range s.Chapters {
		if !ch.Status.IsApproved() {
			return false
		}
	}
	return true
}

// IsOutlineLocked reports whether the outline is currently locked.
func (s *ProjectState) IsOutlineLocked() bool {
	return s.Outline.Status == OutlineLocked
}

// VerifyOutlineIntegrity reports whether the outline still matches the
// hash stored when it was locked.
func (s *ProjectState) VerifyOutlineIntegrity() bool {
	if !s.IsOutlineLocked() {
		return false
	}
	return hashOutline(s.Outline.Sections) == s.Outline.LockedHash
}

// AppendChatMessage appends a message to the chat history. History is
// append-only; messages are never edited or removed.
func (s *ProjectState) AppendChatMessage(role Role, text string) error {
	if role != RoleUser && role != RoleBot {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	s.Chat.Messages = append(s.Chat.Messages, Message{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// UserMessageCount returns how many user messages the chat has seen.
func (s *ProjectState) UserMessageCount() int {
	n := 0
	for _, m := range s.Chat.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// ChatStep returns the current conversational step id.
func (s *ProjectState) ChatStep() string {
	return s.Chat.CurrentStep
}

// SetChatStep sets the current conversational step id.
func (s *ProjectState) SetChatStep(stepID string) {
	s.Chat.CurrentStep = stepID
}

// Touch bumps the last-updated timestamp. Called by the store on save.
func (s *ProjectState) Touch() {
	s.Project.UpdatedAt = time.Now().UTC()
}
