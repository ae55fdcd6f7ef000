// Package chat implements the conversational layer of the build
// pipeline. The engine is a deterministic step machine: idea intake is
// chat-driven, later phases answer with scripted guidance while the
// forms do the real work. The engine mutates project state in memory
// only; callers persist the state at the request boundary.
package chat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/architectd/internal/phase"
	"github.com/fyrsmithlabs/architectd/internal/state"
)

// Response is the engine's answer to one user message.
type Response struct {
	BotMessages  []string       `json:"bot_messages"`
	FieldUpdates map[string]any `json:"field_updates"`
	Actions      []string       `json:"actions"`
	Reload       bool           `json:"reload"`

	RedirectURL       string                   `json:"redirect_url,omitempty"`
	Options           []string                 `json:"options,omitempty"`
	OptionsMode       string                   `json:"options_mode,omitempty"`
	ExtractedFeatures []state.ExtractedFeature `json:"extracted_features,omitempty"`
	ShowLockHint      bool                     `json:"show_lock_hint,omitempty"`
}

func respond(messages ...string) *Response {
	return &Response{
		BotMessages:  messages,
		FieldUpdates: map[string]any{},
		Actions:      []string{},
	}
}

// Engine executes conversation steps against project state.
type Engine struct {
	log   *zap.Logger
	steps map[string]Step
}

// NewEngine creates an engine with the default conversation graph.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, steps: defaultSteps()}
}

// Register adds or replaces a step in the conversation graph.
func (e *Engine) Register(stepID string, step Step) {
	e.steps[stepID] = step
}

// WelcomeMessage returns the welcome bot message for the project's
// current phase.
func (e *Engine) WelcomeMessage(st *state.ProjectState) (string, bool) {
	msg, ok := PhaseWelcome[st.CurrentPhase]
	return msg, ok
}

// ProcessMessage records the user message, executes the current step,
// and returns the bot response. The state is mutated but not persisted.
func (e *Engine) ProcessMessage(st *state.ProjectState, slug, text string) (*Response, error) {
	if err := st.AppendChatMessage(state.RoleUser, text); err != nil {
		return nil, err
	}

	if text == LockSignal {
		return e.lockFeatures(st, slug)
	}

	stepID := st.ChatStep()
	step, ok := e.steps[stepID]
	if !ok {
		e.log.Warn("unknown chat step, serving fallback",
			zap.String("slug", slug), zap.String("step", stepID))
		return e.say(st, "I'm not sure what to do here. Try using the form on the left."), nil
	}

	switch step.Type {
	case StepExtractIdea:
		return e.extractIdea(st, slug, text)
	case StepConfirmation:
		return e.confirm(st, step, text), nil
	case StepGuidance:
		return e.guide(st, step), nil
	case StepStatic:
		resp := e.say(st, step.BotMessage)
		if step.NextStep != "" {
			st.SetChatStep(step.NextStep)
		}
		return resp, nil
	default:
		return respond("I'm not sure how to handle that. Try the form on the left."), nil
	}
}

// say appends a bot message to the chat history and wraps it in a
// response.
func (e *Engine) say(st *state.ProjectState, msg string) *Response {
	_ = st.AppendChatMessage(state.RoleBot, msg)
	return respond(msg)
}

// extractIdea captures the idea verbatim and advances straight to
// feature discovery.
func (e *Engine) extractIdea(st *state.ProjectState, slug, text string) (*Response, error) {
	st.RecordIdea(text)
	if err := st.AdvancePhase(phase.FeatureDiscovery); err != nil {
		return nil, fmt.Errorf("advance to feature discovery: %w", err)
	}
	st.SetChatStep("feature_discovery.welcome")

	resp := e.say(st, "Got it! I've captured your project idea. "+
		"Head over to the feature catalog to select what your product needs!")
	resp.FieldUpdates["raw_idea"] = text
	resp.Reload = true
	resp.RedirectURL = phaseURL(slug, phase.FeatureDiscovery)

	e.log.Info("idea captured", zap.String("slug", slug), zap.Int("chars", len(text)))
	return resp, nil
}

// confirm routes a yes/no step. Anything not recognized as affirmative
// counts as a no.
func (e *Engine) confirm(st *state.ProjectState, step Step, text string) *Response {
	if IsAffirmative(text) {
		resp := e.say(st, step.ConfirmedMessage)
		st.SetChatStep(step.ConfirmedNext)
		return resp
	}
	resp := e.say(st, step.DeniedMessage)
	st.SetChatStep(step.DeniedNext)
	return resp
}

// guide replies with one of the step's scripted tips, rotating through
// them as the user keeps asking.
func (e *Engine) guide(st *state.ProjectState, step Step) *Response {
	if len(step.Tips) == 0 {
		return e.say(st, "Use the form on the left to continue.")
	}
	idx := (st.UserMessageCount() - 1) % len(step.Tips)
	if idx < 0 {
		idx = 0
	}
	return e.say(st, step.Tips[idx])
}

// lockFeatures approves the selected features and advances to outline
// generation. Only valid during feature discovery, and only when at
// least one core feature is selected.
func (e *Engine) lockFeatures(st *state.ProjectState, slug string) (*Response, error) {
	if st.CurrentPhase != phase.FeatureDiscovery {
		return e.say(st, "Lock is only available during Feature Discovery."), nil
	}
	if len(st.Features.Core) == 0 {
		return e.say(st, "I can't lock yet — there are no features selected. "+
			"Please select features from the catalog first."), nil
	}

	st.ApproveFeatures()
	if err := st.AdvancePhase(phase.OutlineGeneration); err != nil {
		return nil, fmt.Errorf("advance to outline generation: %w", err)
	}

	msg := fmt.Sprintf("Features locked! %d core", len(st.Features.Core))
	if n := len(st.Features.Optional); n > 0 {
		msg += fmt.Sprintf(" and %d optional", n)
	}
	msg += " features approved.\n\nMoving to **Outline Generation**."

	resp := e.say(st, msg)
	st.SetChatStep("outline_generation.welcome")
	resp.Reload = true
	resp.RedirectURL = phaseURL(slug, phase.OutlineGeneration)

	e.log.Info("features locked",
		zap.String("slug", slug),
		zap.Int("core", len(st.Features.Core)),
		zap.Int("optional", len(st.Features.Optional)))
	return resp, nil
}

func phaseURL(slug string, p phase.Phase) string {
	return "/projects/" + slug + "/" + phase.URLSegment(p)
}
