package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/architectd/internal/assemble"
	"github.com/fyrsmithlabs/architectd/internal/catalog"
	"github.com/fyrsmithlabs/architectd/internal/features"
	"github.com/fyrsmithlabs/architectd/internal/outline"
	"github.com/fyrsmithlabs/architectd/internal/phase"
	"github.com/fyrsmithlabs/architectd/internal/quality"
	"github.com/fyrsmithlabs/architectd/internal/schema"
	"github.com/fyrsmithlabs/architectd/internal/state"
	"github.com/fyrsmithlabs/architectd/internal/store"
)

// httpError maps domain errors onto HTTP status codes. Conflicts with
// the current pipeline state are 409, malformed input is 400, unknown
// resources are 404.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, store.ErrProjectNotFound),
		errors.Is(err, state.ErrChapterNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrProjectExists),
		errors.Is(err, state.ErrInvalidTransition),
		errors.Is(err, state.ErrEmptyOutline),
		errors.Is(err, state.ErrOutlineNotLocked),
		errors.Is(err, state.ErrRevisionLimit),
		errors.Is(err, state.ErrChapterApproved),
		errors.Is(err, assemble.ErrNotReady),
		errors.Is(err, assemble.ErrChapterFileMissing):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidSlug),
		errors.Is(err, state.ErrUnknownPhase),
		errors.Is(err, state.ErrInvalidDecision),
		errors.Is(err, state.ErrInvalidStatus),
		errors.Is(err, state.ErrInvalidRole),
		errors.Is(err, quality.ErrInvalidDepthMode):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) load(c echo.Context) (*state.ProjectState, *echo.HTTPError) {
	st, err := s.store.Load(c.Param("slug"))
	if err != nil {
		return nil, httpError(err)
	}
	return st, nil
}

func (s *Server) save(st *state.ProjectState) *echo.HTTPError {
	if err := s.store.Save(st); err != nil {
		return httpError(err)
	}
	return nil
}

// checkPhase rejects requests issued while the project sits in a phase
// the operation does not belong to.
func checkPhase(st *state.ProjectState, allowed ...phase.Phase) *echo.HTTPError {
	for _, p := range allowed {
		if st.CurrentPhase == p {
			return nil
		}
	}
	if len(allowed) == 1 {
		return echo.NewHTTPError(http.StatusConflict,
			fmt.Sprintf("project is in phase %q, not %q", st.CurrentPhase, allowed[0]))
	}
	names := make([]string, len(allowed))
	for i, p := range allowed {
		names[i] = string(p)
	}
	return echo.NewHTTPError(http.StatusConflict,
		fmt.Sprintf("project is in phase %q, expected one of [%s]",
			st.CurrentPhase, strings.Join(names, ", ")))
}

// toDoc flattens a typed report into the loose object shape stored in
// project state.
func toDoc(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type createProjectRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	st := state.New(req.Name)
	if err := s.store.Init(st); err != nil {
		return httpError(err)
	}

	s.metrics.projectsCreated.Inc()
	s.log.Info("project created", zap.String("slug", st.Project.Slug))
	return c.JSON(http.StatusCreated, st)
}

func (s *Server) handleListProjects(c echo.Context) error {
	summaries, err := s.store.List()
	if err != nil {
		return httpError(err)
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	return c.JSON(http.StatusOK, map[string]any{"projects": summaries})
}

func (s *Server) handleGetProject(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	slug := c.Param("slug")
	if err := s.store.Delete(slug); err != nil {
		return httpError(err)
	}
	s.dropLimiter(slug)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleNavigation(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}

	welcome, _ := s.engine.WelcomeMessage(st)
	return c.JSON(http.StatusOK, map[string]any{
		"navigation": phase.Navigate(st.CurrentPhase),
		"welcome":    welcome,
	})
}

type advanceRequest struct {
	To string `json:"to"`
}

func (s *Server) handleAdvancePhase(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}

	var req advanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := st.AdvancePhase(phase.Phase(req.To)); err != nil {
		return httpError(err)
	}
	if herr := s.save(st); herr != nil {
		return herr
	}
	return c.JSON(http.StatusOK, map[string]any{"current_phase": st.CurrentPhase})
}

func (s *Server) handleValidateState(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}

	errs, err := schema.StateValidationErrors(st)
	if err != nil {
		return httpError(err)
	}
	if errs == nil {
		errs = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(c echo.Context) error {
	slug := c.Param("slug")
	if !s.limiter(slug).Allow() {
		return echo.NewHTTPError(http.StatusTooManyRequests, "chat rate limit exceeded")
	}

	st, herr := s.load(c)
	if herr != nil {
		return herr
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	resp, err := s.engine.ProcessMessage(st, slug, req.Message)
	if err != nil {
		return httpError(err)
	}
	if herr := s.save(st); herr != nil {
		return herr
	}

	s.metrics.chatMessages.Inc()
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCatalog(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}

	// The catalog is generated once per project and cached in state.
	if len(st.Features.Catalog) == 0 {
		entries := catalog.ForIdea(c.Request().Context(), st.Idea.OriginalRaw, nil, s.log)
		st.SetCatalog(entries)
		if herr := s.save(st); herr != nil {
			return herr
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"catalog":          st.Features.Catalog,
		"exclusion_groups": catalog.ExclusionGroups(),
	})
}

type addFeatureRequest struct {
	Kind    string           `json:"kind"`
	Feature features.Feature `json:"feature"`
}

func (s *Server) handleAddFeature(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	if st.CurrentPhase != phase.FeatureDiscovery {
		return echo.NewHTTPError(http.StatusConflict,
			"features can only be added during feature discovery")
	}

	var req addFeatureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Feature.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "feature.id is required")
	}
	if err := st.AddFeature(features.Kind(req.Kind), req.Feature); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if herr := s.save(st); herr != nil {
		return herr
	}

	return c.JSON(http.StatusOK, map[string]any{
		"core":     len(st.Features.Core),
		"optional": len(st.Features.Optional),
	})
}

type featureChecksRequest struct {
	Problems    []string `json:"problems"`
	SelectedIDs []string `json:"selected_ids"`
}

func (s *Server) handleFeatureChecks(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}

	var req featureChecksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	all := append([]features.Feature{}, st.Features.Core...)
	all = append(all, st.Features.Optional...)

	selected := req.SelectedIDs
	if selected == nil {
		selected = make([]string, len(all))
		for i, f := range all {
			selected[i] = f.ID
		}
	}

	ordered := features.OrderByPriority(st.Features.Core)
	buildOrder := make([]string, len(ordered))
	for i, f := range ordered {
		buildOrder[i] = f.ID
	}

	return c.JSON(http.StatusOK, map[string]any{
		"problem_mapping":       features.CheckProblemMapping(all, req.Problems),
		"intern_explainability": features.CheckInternExplainability(all),
		"mutual_exclusions":     features.CheckMutualExclusions(selected, catalog.ExclusionGroups()),
		"build_order":           buildOrder,
	})
}

type setOutlineRequest struct {
	Sections []outline.Section `json:"sections"`
}

func (s *Server) handleSetOutline(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	if herr := checkPhase(st, phase.OutlineGeneration, phase.OutlineApproval); herr != nil {
		return herr
	}
	if st.IsOutlineLocked() {
		return echo.NewHTTPError(http.StatusConflict, "outline is locked")
	}

	var req setOutlineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	st.SetOutlineSections(req.Sections)
	if herr := s.save(st); herr != nil {
		return herr
	}
	return c.JSON(http.StatusOK, map[string]any{"sections": len(st.Outline.Sections)})
}

func (s *Server) handleValidateOutline(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}

	checker := outline.NewChecker()
	checker.OverlapThreshold = s.cfg.Outline.OverlapThreshold
	return c.JSON(http.StatusOK, checker.RunAllChecks(st.Outline.Sections))
}

// handleLockOutline freezes the approved outline and moves the project
// straight into chapter build.
func (s *Server) handleLockOutline(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	if herr := checkPhase(st, phase.OutlineApproval); herr != nil {
		return herr
	}
	if err := st.LockOutline(); err != nil {
		return httpError(err)
	}
	if err := st.AdvancePhase(phase.ChapterBuild); err != nil {
		return httpError(err)
	}
	if herr := s.save(st); herr != nil {
		return herr
	}

	s.metrics.outlineLocks.Inc()
	s.log.Info("outline locked",
		zap.String("slug", st.Project.Slug),
		zap.Int("chapters", len(st.Chapters)))
	return c.JSON(http.StatusOK, map[string]any{
		"status":        st.Outline.Status,
		"chapters":      len(st.Chapters),
		"current_phase": st.CurrentPhase,
	})
}

type unlockRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleUnlockOutline(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	if herr := checkPhase(st, phase.OutlineApproval, phase.ChapterBuild); herr != nil {
		return herr
	}

	var req unlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := st.UnlockOutline(req.Reason); err != nil {
		return httpError(err)
	}
	if herr := s.save(st); herr != nil {
		return herr
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":  st.Outline.Status,
		"version": st.Outline.Version,
	})
}

type decisionRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

func (s *Server) handleOutlineDecision(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}

	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := st.RecordOutlineDecision(req.Decision, req.Notes); err != nil {
		return httpError(err)
	}
	if herr := s.save(st); herr != nil {
		return herr
	}
	return c.JSON(http.StatusOK, map[string]any{
		"approval_history": st.Outline.ApprovalHistory,
	})
}

func chapterIndex(c echo.Context) (int, *echo.HTTPError) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "chapter index must be an integer")
	}
	return idx, nil
}

type submitChapterRequest struct {
	ContentPath string `json:"content_path"`
}

// handleSubmitChapter records a content submission and, when the
// content file is readable, runs the chapter quality gates over it.
func (s *Server) handleSubmitChapter(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	if herr := checkPhase(st, phase.ChapterBuild); herr != nil {
		return herr
	}
	idx, herr := chapterIndex(c)
	if herr != nil {
		return herr
	}

	var req submitChapterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	status, err := st.SubmitChapter(idx, req.ContentPath, s.cfg.Pipeline.MaxChapterRevisions)
	if err != nil {
		return httpError(err)
	}

	var report *quality.ChapterReport
	if content, rerr := os.ReadFile(req.ContentPath); rerr == nil {
		r := quality.RunChapterGates(string(content))
		if err := st.RecordChapterQuality(idx, toDoc(r)); err != nil {
			return httpError(err)
		}
		report = &r
	}
	if herr := s.save(st); herr != nil {
		return herr
	}

	ch, _ := st.ChapterByIndex(idx)
	return c.JSON(http.StatusOK, map[string]any{
		"status":         status,
		"revision_count": ch.RevisionCount,
		"quality":        report,
	})
}

type chapterStatusRequest struct {
	Status      string `json:"status"`
	ContentPath string `json:"content_path"`
}

func (s *Server) handleChapterStatus(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	if herr := checkPhase(st, phase.ChapterBuild); herr != nil {
		return herr
	}
	idx, herr := chapterIndex(c)
	if herr != nil {
		return herr
	}

	var req chapterStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	status, err := state.ParseChapterStatus(req.Status)
	if err != nil {
		return httpError(err)
	}
	if err := st.RecordChapterStatus(idx, status, req.ContentPath); err != nil {
		return httpError(err)
	}
	if herr := s.save(st); herr != nil {
		return herr
	}

	ch, _ := st.ChapterByIndex(idx)
	return c.JSON(http.StatusOK, ch)
}

// handleChapterQuality runs the deterministic quality gates over one
// chapter's content file and stores the resulting report.
func (s *Server) handleChapterQuality(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	if herr := checkPhase(st, phase.ChapterBuild); herr != nil {
		return herr
	}
	idx, herr := chapterIndex(c)
	if herr != nil {
		return herr
	}

	ch, err := st.ChapterByIndex(idx)
	if err != nil {
		return httpError(err)
	}
	if ch.ContentPath == "" {
		return echo.NewHTTPError(http.StatusNotFound, "chapter has no content")
	}
	content, err := os.ReadFile(ch.ContentPath)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "chapter content file not found")
	}

	report := quality.RunChapterGates(string(content))
	score := quality.ScoreChapter(string(content), ch.OutlineSection, st.BuildDepthMode())
	if err := st.RecordChapterQuality(idx, toDoc(report)); err != nil {
		return httpError(err)
	}
	if herr := s.save(st); herr != nil {
		return herr
	}
	return c.JSON(http.StatusOK, map[string]any{
		"gates": report,
		"score": score,
	})
}

// handleFinalQuality runs the document-level gates, including the
// intern success test, over the concatenated chapter contents.
func (s *Server) handleFinalQuality(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	if herr := checkPhase(st, phase.QualityGates); herr != nil {
		return herr
	}

	var doc strings.Builder
	scores := make([]quality.ChapterScore, 0, len(st.Chapters))
	for _, ch := range st.Chapters {
		if ch.ContentPath == "" {
			continue
		}
		content, err := os.ReadFile(ch.ContentPath)
		if err != nil {
			continue
		}
		doc.Write(content)
		doc.WriteString("\n\n")
		scores = append(scores, quality.ScoreChapter(string(content), ch.OutlineSection, st.BuildDepthMode()))
	}

	report := quality.RunFinalGates(doc.String())
	details := []map[string]any{
		toDoc(report.Completeness),
		toDoc(report.Clarity),
		toDoc(report.BuildReadiness),
		toDoc(report.AntiVagueness),
		toDoc(report.InternTest),
	}
	st.RecordFinalQuality(report.AllPassed, details)
	if herr := s.save(st); herr != nil {
		return herr
	}
	return c.JSON(http.StatusOK, map[string]any{
		"report":         report,
		"report_text":    report.Format(),
		"document_score": quality.ScoreDocument(scores),
	})
}

type depthRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleSetDepth(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}

	var req depthRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := st.SetBuildDepthMode(req.Mode); err != nil {
		return httpError(err)
	}
	if herr := s.save(st); herr != nil {
		return herr
	}
	return c.JSON(http.StatusOK, map[string]any{
		"depth_mode":  st.BuildDepthMode(),
		"depth_modes": quality.AllDepthModes(),
	})
}

// handleIdeaAmbiguity scans the captured idea for vague language.
func (s *Server) handleIdeaAmbiguity(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	return c.JSON(http.StatusOK, quality.RunAllDetectors(st.Idea.OriginalRaw))
}

func (s *Server) handleAssemble(c echo.Context) error {
	st, herr := s.load(c)
	if herr != nil {
		return herr
	}
	// Complete stays allowed so a deleted output file can be rebuilt.
	if herr := checkPhase(st, phase.FinalAssembly, phase.Complete); herr != nil {
		return herr
	}

	result, err := s.assembler.Assemble(st)
	if err != nil {
		if errors.Is(err, assemble.ErrNotReady) {
			return c.JSON(http.StatusConflict, map[string]any{
				"error":     "project not ready for assembly",
				"checklist": assemble.CheckReadiness(st),
			})
		}
		return httpError(err)
	}
	if herr := s.save(st); herr != nil {
		return herr
	}

	s.metrics.assemblies.Inc()
	return c.JSON(http.StatusOK, result)
}
