package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/architectd/internal/chat"
	"github.com/fyrsmithlabs/architectd/internal/config"
	"github.com/fyrsmithlabs/architectd/internal/phase"
	"github.com/fyrsmithlabs/architectd/internal/store"
)

func newTestServer(t *testing.T) (*Server, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	cfg.Storage.OutputDir = t.TempDir()

	st, err := store.New(cfg.Storage.Dir, nil)
	require.NoError(t, err)

	s, err := NewServer(cfg, st, nil)
	require.NoError(t, err)
	return s, cfg
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echoContentType, "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createProject(t *testing.T, s *Server, name string) string {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/projects", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decode(t, rec)
	return doc["project"].(map[string]any)["slug"].(string)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	createProject(t, s, "p")

	rec := doJSON(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "architectd_projects_created_total 1")
}

func TestCreateProject(t *testing.T) {
	s, _ := newTestServer(t)

	slug := createProject(t, s, "My AI Tutor")
	assert.Equal(t, "my-ai-tutor", slug)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/projects", map[string]string{"name": "My AI Tutor"})
	assert.Equal(t, http.StatusConflict, rec.Code, "duplicate slug")

	rec = doJSON(t, s, http.MethodPost, "/api/v1/projects", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing name")
}

func TestGetProject_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/projects/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProject(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")

	rec := doJSON(t, s, http.MethodDelete, "/api/v1/projects/"+slug, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/projects/"+slug, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProject_DropsRateLimiter(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/projects/"+slug+"/chat",
		map[string]string{"message": "an idea"})
	require.Equal(t, http.StatusOK, rec.Code)

	s.mu.Lock()
	_, alive := s.limiters[slug]
	s.mu.Unlock()
	require.True(t, alive, "limiter created on first chat")

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/projects/"+slug, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	s.mu.Lock()
	_, alive = s.limiters[slug]
	s.mu.Unlock()
	assert.False(t, alive, "limiter evicted with the project")
}

func TestNavigation(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/projects/"+slug+"/navigation", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decode(t, rec)
	nav := doc["navigation"].(map[string]any)
	entries := nav["phases"].([]any)
	assert.Len(t, entries, len(phase.Visible()))
	first := entries[0].(map[string]any)
	assert.Equal(t, "idea_intake", first["key"])
	assert.Equal(t, true, first["is_current"])
	assert.NotEmpty(t, doc["welcome"])
}

func TestChat_CapturesIdeaAndPersists(t *testing.T) {
	s, cfg := newTestServer(t)
	slug := createProject(t, s, "p")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/projects/"+slug+"/chat",
		map[string]string{"message": "a study planner for night students"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := decode(t, rec)
	assert.Equal(t, true, doc["reload"])
	assert.Equal(t, "/projects/p/feature-discovery", doc["redirect_url"])

	// Mutation reached disk, not just memory.
	reopened, err := store.New(cfg.Storage.Dir, nil)
	require.NoError(t, err)
	loaded, err := reopened.Load(slug)
	require.NoError(t, err)
	assert.Equal(t, phase.FeatureDiscovery, loaded.CurrentPhase)
	assert.Equal(t, "a study planner for night students", loaded.Idea.OriginalRaw)
}

func TestChat_RateLimited(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	cfg.Storage.OutputDir = t.TempDir()
	cfg.Server.ChatRateLimit = 0.001
	cfg.Server.ChatRateBurst = 1

	st, err := store.New(cfg.Storage.Dir, nil)
	require.NoError(t, err)
	s, err := NewServer(cfg, st, nil)
	require.NoError(t, err)

	slug := createProject(t, s, "p")
	rec := doJSON(t, s, http.MethodPost, "/api/v1/projects/"+slug+"/chat",
		map[string]string{"message": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/projects/"+slug+"/chat",
		map[string]string{"message": "again"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRequestLogger_RecordsErrorStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	cfg.Storage.OutputDir = t.TempDir()

	st, err := store.New(cfg.Storage.Dir, nil)
	require.NoError(t, err)
	s, err := NewServer(cfg, st, zap.New(core))
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/projects/ghost", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusNotFound), entries[0].ContextMap()["status"])
}

func TestAddFeature_WrongPhaseRejected(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/projects/"+slug+"/features", map[string]any{
		"kind":    "core",
		"feature": map[string]any{"id": "auth", "name": "Auth"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCatalog_GeneratedOnceAndCached(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/projects/"+slug+"/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode(t, rec)
	entries := doc["catalog"].([]any)
	assert.NotEmpty(t, entries)
	assert.Len(t, doc["exclusion_groups"].([]any), 2)

	again := decode(t, doJSON(t, s, http.MethodGet, "/api/v1/projects/"+slug+"/catalog", nil))
	assert.Len(t, again["catalog"].([]any), len(entries))
}

func TestSetDepth(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")
	base := "/api/v1/projects/" + slug

	rec := doJSON(t, s, http.MethodPost, base+"/depth", map[string]string{"mode": "architect"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "enterprise", decode(t, rec)["depth_mode"], "legacy alias resolved")

	rec = doJSON(t, s, http.MethodPost, base+"/depth", map[string]string{"mode": "extreme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdeaAmbiguity(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")
	base := "/api/v1/projects/" + slug

	rec := doJSON(t, s, http.MethodPost, base+"/chat",
		map[string]string{"message": "a platform for users"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, base+"/idea/ambiguity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode(t, rec)
	assert.Equal(t, true, doc["has_issues"])
	assert.NotEmpty(t, doc["vague_nouns"])
	assert.NotEmpty(t, doc["undefined_users"])
}

// driveToFeatureDiscovery walks a fresh project into feature discovery
// through the chat flow.
func driveToFeatureDiscovery(t *testing.T, s *Server, slug string) {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/projects/"+slug+"/chat",
		map[string]string{"message": "an AI tutor for calculus"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

// driveToChapterBuild walks a fresh project through discovery and the
// outline lock, leaving it in chapter build with draft chapters.
func driveToChapterBuild(t *testing.T, s *Server, slug string) {
	t.Helper()
	base := "/api/v1/projects/" + slug

	driveToFeatureDiscovery(t, s, slug)
	rec := doJSON(t, s, http.MethodPost, base+"/features", map[string]any{
		"kind": "core", "feature": map[string]any{"id": "auth"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, s, http.MethodPost, base+"/chat", map[string]string{"message": chat.LockSignal})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, s, http.MethodPut, base+"/outline", map[string]any{"sections": sectionsPayload()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, s, http.MethodPost, base+"/advance", map[string]string{"to": "outline_approval"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, s, http.MethodPost, base+"/outline/lock", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func sectionsPayload() []map[string]any {
	sections := []struct{ title, summary string }{
		{"System Purpose & Context", "Explains why the planner exists and who benefits."},
		{"Target Users & Roles", "Describes night students and their tutors."},
		{"Core Capabilities", "Lists scheduling, reminders, and progress views."},
		{"Non-Goals & Exclusions", "Rules out grading and payment handling."},
		{"Architecture / Flow", "Shows request paths between browser and server."},
		{"Execution Phases", "Orders the build from storage upward."},
		{"Risks & Constraints", "Covers data loss and offline access limits."},
	}
	out := make([]map[string]any, len(sections))
	for i, sec := range sections {
		out[i] = map[string]any{
			"index":   i + 1,
			"title":   sec.title,
			"type":    "required",
			"summary": sec.summary,
		}
	}
	return out
}

// chapterBody returns chapter content that clears every quality gate.
func chapterBody(title string) string {
	return fmt.Sprintf(`## %s

The purpose of this chapter is to make one slice of the planner concrete.

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
`, title)
}

// approveChapters writes gate-passing content for every outline section
// and approves the matching chapters.
func approveChapters(t *testing.T, s *Server, base, dir string) {
	t.Helper()
	for i, sec := range sectionsPayload() {
		path := filepath.Join(dir, fmt.Sprintf("ch%d.md", i+1))
		require.NoError(t, os.WriteFile(path, []byte(chapterBody(sec["title"].(string))), 0o644))
		rec := doJSON(t, s, http.MethodPost, fmt.Sprintf("%s/chapters/%d/status", base, i+1),
			map[string]string{"status": "approved", "content_path": path})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	s, cfg := newTestServer(t)
	slug := createProject(t, s, "Study Planner")
	base := "/api/v1/projects/" + slug

	driveToFeatureDiscovery(t, s, slug)

	rec := doJSON(t, s, http.MethodPost, base+"/features", map[string]any{
		"kind": "core",
		"feature": map[string]any{
			"id": "auth", "name": "Auth",
			"rationale":         "Needed so each student sees their own plan.",
			"problem_mapped_to": "students lose their progress",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Feature checks come back as data, never as an error status.
	rec = doJSON(t, s, http.MethodPost, base+"/features/checks", map[string]any{
		"problems": []string{"students lose their progress"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	checks := decode(t, rec)
	assert.Equal(t, true, checks["problem_mapping"].(map[string]any)["passed"])

	rec = doJSON(t, s, http.MethodPost, base+"/chat", map[string]string{"message": chat.LockSignal})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodPut, base+"/outline", map[string]any{"sections": sectionsPayload()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodPost, base+"/outline/validate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["all_passed"])

	rec = doJSON(t, s, http.MethodPost, base+"/advance", map[string]string{"to": "outline_approval"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Locking spawns the chapters and moves straight into chapter build.
	rec = doJSON(t, s, http.MethodPost, base+"/outline/lock", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	locked := decode(t, rec)
	assert.EqualValues(t, 7, locked["chapters"])
	assert.Equal(t, "chapter_build", locked["current_phase"])

	// The outline is immutable once locked.
	rec = doJSON(t, s, http.MethodPut, base+"/outline", map[string]any{"sections": sectionsPayload()})
	assert.Equal(t, http.StatusConflict, rec.Code)

	approveChapters(t, s, base, cfg.Storage.OutputDir)

	// Assembly belongs to a later phase.
	rec = doJSON(t, s, http.MethodPost, base+"/assemble", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, s, http.MethodPost, base+"/advance", map[string]string{"to": "quality_gates"})
	require.Equal(t, http.StatusOK, rec.Code)

	// The gates run server-side over the stored chapter contents.
	rec = doJSON(t, s, http.MethodPost, base+"/quality", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	qdoc := decode(t, rec)
	report := qdoc["report"].(map[string]any)
	assert.Equal(t, true, report["all_passed"], rec.Body.String())
	assert.Contains(t, qdoc["report_text"], "**Overall: PASS**")
	assert.NotEmpty(t, qdoc["document_score"].(map[string]any)["chapter_count"])

	rec = doJSON(t, s, http.MethodPost, base+"/advance", map[string]string{"to": "final_assembly"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, base+"/assemble", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode(t, rec)
	assert.Equal(t, "Study_Planner_Build_Guide_v1.md", result["filename"])

	written, err := os.ReadFile(result["output_path"].(string))
	require.NoError(t, err)
	assert.Contains(t, string(written), "# Study Planner — Build Guide")

	// The stored state conforms to the schema after the full run.
	rec = doJSON(t, s, http.MethodGet, base+"/validate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["valid"], rec.Body.String())
}

func TestOutline_WrongPhaseRejected(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")
	base := "/api/v1/projects/" + slug

	// A fresh project sits in idea intake; outline edits are not open yet.
	rec := doJSON(t, s, http.MethodPut, base+"/outline", map[string]any{"sections": sectionsPayload()})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "idea_intake")

	rec = doJSON(t, s, http.MethodPost, base+"/outline/lock", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The refused lock spawned no chapters.
	rec = doJSON(t, s, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["chapters"])
}

func TestFinalQuality_WrongPhaseRejected(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")
	driveToChapterBuild(t, s, slug)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/projects/"+slug+"/quality", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "quality_gates")
}

func TestAssemble_ChecklistWhenGatesNotRun(t *testing.T) {
	s, cfg := newTestServer(t)
	slug := createProject(t, s, "p")
	base := "/api/v1/projects/" + slug

	driveToChapterBuild(t, s, slug)
	approveChapters(t, s, base, cfg.Storage.OutputDir)

	rec := doJSON(t, s, http.MethodPost, base+"/advance", map[string]string{"to": "quality_gates"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodPost, base+"/advance", map[string]string{"to": "final_assembly"})
	require.Equal(t, http.StatusOK, rec.Code)

	// In phase but the gates never ran, so readiness blocks assembly.
	rec = doJSON(t, s, http.MethodPost, base+"/assemble", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	checklist := decode(t, rec)["checklist"].(map[string]any)
	assert.Equal(t, false, checklist["quality_gates_passed"])
	assert.Equal(t, true, checklist["all_chapters_approved"])
}

func TestChapterQuality_RunsGates(t *testing.T) {
	s, cfg := newTestServer(t)
	slug := createProject(t, s, "p")
	base := "/api/v1/projects/" + slug
	driveToChapterBuild(t, s, slug)

	// No content submitted yet.
	rec := doJSON(t, s, http.MethodPost, base+"/chapters/1/quality", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	path := filepath.Join(cfg.Storage.OutputDir, "ch1.md")
	require.NoError(t, os.WriteFile(path, []byte(chapterBody("System Purpose & Context")), 0o644))
	rec = doJSON(t, s, http.MethodPost, base+"/chapters/1/submit",
		map[string]string{"content_path": path})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	submitted := decode(t, rec)
	assert.Equal(t, true, submitted["quality"].(map[string]any)["all_passed"],
		"submission runs the gates")

	rec = doJSON(t, s, http.MethodPost, base+"/chapters/1/quality", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	doc := decode(t, rec)
	assert.Equal(t, true, doc["gates"].(map[string]any)["all_passed"])
	assert.Greater(t, doc["score"].(map[string]any)["total_score"].(float64), float64(0))

	// The report lands in state.
	proj := decode(t, doJSON(t, s, http.MethodGet, base, nil))
	ch := proj["chapters"].([]any)[0].(map[string]any)
	require.NotNil(t, ch["quality_report"])
	assert.Equal(t, true, ch["quality_report"].(map[string]any)["all_passed"])

	// A vanished content file is a 404, not a crash.
	require.NoError(t, os.Remove(path))
	rec = doJSON(t, s, http.MethodPost, base+"/chapters/1/quality", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitChapter_RevisionLimitConflict(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")
	base := "/api/v1/projects/" + slug
	driveToChapterBuild(t, s, slug)

	submit := func() *httptest.ResponseRecorder {
		return doJSON(t, s, http.MethodPost, base+"/chapters/1/submit",
			map[string]string{"content_path": "ch1.md"})
	}

	require.Equal(t, http.StatusOK, submit().Code)
	require.Equal(t, http.StatusOK, submit().Code)
	assert.Equal(t, http.StatusConflict, submit().Code, "revision cap reached")

	rec := doJSON(t, s, http.MethodPost, base+"/chapters/9/submit",
		map[string]string{"content_path": "ch9.md"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodPost, base+"/chapters/one/submit",
		map[string]string{"content_path": "ch1.md"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnlockOutline_RequiresLocked(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/projects/"+slug+"/outline/unlock",
		map[string]string{"reason": "too broad"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUnlockOutline_ReopensDuringChapterBuild(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")
	base := "/api/v1/projects/" + slug
	driveToChapterBuild(t, s, slug)

	rec := doJSON(t, s, http.MethodPost, base+"/outline/unlock",
		map[string]string{"reason": "missing a section"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	doc := decode(t, rec)
	assert.Equal(t, "draft", doc["status"])
	assert.EqualValues(t, 2, doc["version"])
}

func TestAdvancePhase_Invalid(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")
	base := "/api/v1/projects/" + slug

	rec := doJSON(t, s, http.MethodPost, base+"/advance", map[string]string{"to": "chapter_build"})
	assert.Equal(t, http.StatusConflict, rec.Code, "skipping phases")

	rec = doJSON(t, s, http.MethodPost, base+"/advance", map[string]string{"to": "guided_ideation"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown phase")
}

func TestChapterStatus_InvalidValue(t *testing.T) {
	s, _ := newTestServer(t)
	slug := createProject(t, s, "p")
	base := "/api/v1/projects/" + slug

	// Status updates are gated to the build phase.
	rec := doJSON(t, s, http.MethodPost, base+"/chapters/1/status",
		map[string]string{"status": "published"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	driveToChapterBuild(t, s, slug)
	rec = doJSON(t, s, http.MethodPost, base+"/chapters/1/status",
		map[string]string{"status": "published"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
