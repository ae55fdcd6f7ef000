// Package store persists project state as JSON documents on disk, one
// file per project slug. Writes are atomic (temp file plus rename) so a
// crashed save never leaves a truncated state file behind.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/architectd/internal/phase"
	"github.com/fyrsmithlabs/architectd/internal/state"
)

var (
	// ErrProjectNotFound indicates no state file exists for the slug.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectExists indicates a state file already exists for the slug.
	ErrProjectExists = errors.New("project already exists")

	// ErrInvalidSlug indicates the slug is not a safe file name.
	ErrInvalidSlug = errors.New("invalid project slug")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Store is a directory-backed project state store.
type Store struct {
	dir string
	log *zap.Logger

	mu    sync.RWMutex
	slugs map[string]bool

	watcher *fsnotify.Watcher
	stop    chan struct{}
}

// Summary is the listing view of a stored project.
type Summary struct {
	Name         string      `json:"name"`
	Slug         string      `json:"slug"`
	CurrentPhase phase.Phase `json:"current_phase"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// New opens a store rooted at dir, creating the directory if needed.
func New(dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	s := &Store{
		dir:   dir,
		log:   log,
		slugs: map[string]bool{},
		stop:  make(chan struct{}),
	}
	if err := s.refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Watch starts a filesystem watcher that keeps the slug cache in sync
// with external changes to the store directory. Call Close to stop it.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	s.watcher = watcher
	go s.processEvents(ctx)
	return nil
}

// Close stops the watcher, if one was started.
func (s *Store) Close() error {
	select {
	case <-s.stop:
		return nil
	default:
	}
	close(s.stop)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Store) processEvents(ctx context.Context) {
	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			slug, isState := slugFromPath(event.Name)
			if !isState {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0:
				s.mu.Lock()
				if _, statErr := os.Stat(event.Name); statErr == nil {
					s.slugs[slug] = true
				} else {
					delete(s.slugs, slug)
				}
				s.mu.Unlock()
			case event.Op&fsnotify.Remove != 0:
				s.mu.Lock()
				delete(s.slugs, slug)
				s.mu.Unlock()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("store watcher error", zap.Error(err))
		}
	}
}

// Init persists a brand-new project. It fails if a state file for the
// slug already exists.
func (s *Store) Init(st *state.ProjectState) error {
	slug := st.Project.Slug
	if err := validateSlug(slug); err != nil {
		return err
	}
	if _, err := os.Stat(s.path(slug)); err == nil {
		return fmt.Errorf("%w: %s", ErrProjectExists, slug)
	}
	return s.Save(st)
}

// Load reads the project state for a slug.
func (s *Store) Load(slug string) (*state.ProjectState, error) {
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var st state.ProjectState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode state file for %s: %w", slug, err)
	}
	return &st, nil
}

// Save persists the project state atomically and bumps its updated
// timestamp.
func (s *Store) Save(st *state.ProjectState) error {
	slug := st.Project.Slug
	if err := validateSlug(slug); err != nil {
		return err
	}

	st.Touch()
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+slug+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(slug)); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	s.mu.Lock()
	s.slugs[slug] = true
	s.mu.Unlock()

	s.log.Debug("state saved", zap.String("slug", slug), zap.Int("bytes", len(raw)))
	return nil
}

// Delete removes a project's state file.
func (s *Store) Delete(slug string) error {
	if err := validateSlug(slug); err != nil {
		return err
	}
	if err := os.Remove(s.path(slug)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
		}
		return fmt.Errorf("delete state file: %w", err)
	}

	s.mu.Lock()
	delete(s.slugs, slug)
	s.mu.Unlock()
	return nil
}

// Exists reports whether a state file is known for the slug.
func (s *Store) Exists(slug string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slugs[slug]
}

// Slugs returns the known project slugs, sorted.
func (s *Store) Slugs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.slugs))
	for slug := range s.slugs {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// List loads a summary for every stored project, sorted by most
// recently updated. Unreadable files are skipped with a warning.
func (s *Store) List() ([]Summary, error) {
	var out []Summary
	for _, slug := range s.Slugs() {
		st, err := s.Load(slug)
		if err != nil {
			s.log.Warn("skipping unreadable state file",
				zap.String("slug", slug), zap.Error(err))
			continue
		}
		out = append(out, Summary{
			Name:         st.Project.Name,
			Slug:         st.Project.Slug,
			CurrentPhase: st.CurrentPhase,
			UpdatedAt:    st.Project.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// refresh rebuilds the slug cache from the directory contents.
func (s *Store) refresh() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read store directory: %w", err)
	}

	slugs := map[string]bool{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if slug, ok := slugFromPath(entry.Name()); ok {
			slugs[slug] = true
		}
	}

	s.mu.Lock()
	s.slugs = slugs
	s.mu.Unlock()
	return nil
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir, slug+".json")
}

func validateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}

// slugFromPath extracts the slug from a state file path, rejecting temp
// files and anything that is not a valid slug.
func slugFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") {
		return "", false
	}
	slug := strings.TrimSuffix(base, ".json")
	if !slugPattern.MatchString(slug) {
		return "", false
	}
	return slug, true
}
