package state

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ChapterStage is the coarse lifecycle stage of a chapter.
type ChapterStage int

const (
	// StageDraft is the initial stage, assigned when the outline is locked.
	StageDraft ChapterStage = iota

	// StageRevision covers revision_1..revision_N submissions.
	StageRevision

	// StageApproved is terminal.
	StageApproved
)

// ChapterStatus is a tagged chapter lifecycle value. Revision is only
// meaningful when Stage is StageRevision.
type ChapterStatus struct {
	Stage    ChapterStage
	Revision int
}

// Draft returns the initial chapter status.
func Draft() ChapterStatus { return ChapterStatus{Stage: StageDraft} }

// Revision returns a revision_n status.
func Revision(n int) ChapterStatus { return ChapterStatus{Stage: StageRevision, Revision: n} }

// Approved returns the terminal approved status.
func Approved() ChapterStatus { return ChapterStatus{Stage: StageApproved} }

// String renders the persisted wire form: draft, revision_N, approved.
func (s ChapterStatus) String() string {
	switch s.Stage {
	case StageRevision:
		return fmt.Sprintf("revision_%d", s.Revision)
	case StageApproved:
		return "approved"
	default:
		return "draft"
	}
}

// IsApproved reports whether the chapter is in its terminal state.
func (s ChapterStatus) IsApproved() bool { return s.Stage == StageApproved }

// Submit advances the status for a new content submission:
// draft becomes revision_1, revision_n becomes revision_n+1 up to
// maxRevisions. Approved chapters reject further submissions.
func (s ChapterStatus) Submit(maxRevisions int) (ChapterStatus, error) {
	switch s.Stage {
	case StageDraft:
		return Revision(1), nil
	case StageRevision:
		if s.Revision+1 > maxRevisions {
			return s, fmt.Errorf("%w: maximum of %d revisions", ErrRevisionLimit, maxRevisions)
		}
		return Revision(s.Revision + 1), nil
	default:
		return s, ErrChapterApproved
	}
}

// ParseChapterStatus parses the wire form. The legacy "pending" value maps
// to draft so old state files keep loading.
func ParseChapterStatus(raw string) (ChapterStatus, error) {
	switch raw {
	case "draft", "pending":
		return Draft(), nil
	case "approved":
		return Approved(), nil
	}
	if rest, ok := strings.CutPrefix(raw, "revision_"); ok {
		n, err := strconv.Atoi(rest)
		if err == nil && n >= 1 {
			return Revision(n), nil
		}
	}
	return ChapterStatus{}, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// MarshalJSON encodes the status as its wire string.
func (s ChapterStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the wire string form.
func (s *ChapterStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseChapterStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
