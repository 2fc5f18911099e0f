package app

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Controller orchestrates the turn cycle: user prompt in, augmented prompt
// to the backend, both sides of the exchange recorded in the store. At
// most one prompt may be in flight; a second submission fails fast with
// ErrBusy instead of queueing.
type Controller struct {
	store   *Store
	prompts *PromptBuilder
	gen     Generator

	sessionID string
	inFlight  atomic.Bool

	mu       sync.Mutex
	model    string
	flags    ModeFlags
	style    ResponseStyle
	autoSave bool
}

// TurnResult carries the messages a completed turn produced. On failure
// only the user message is set.
type TurnResult struct {
	User      Message
	Assistant Message
	SavedID   string
}

func NewController(store *Store, gen Generator, cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	style, _ := ParseStyle(cfg.Style)
	return &Controller{
		store:     store,
		prompts:   NewPromptBuilder(),
		gen:       gen,
		sessionID: uuid.NewString(),
		model:     strings.ToLower(strings.TrimSpace(cfg.Model)),
		flags:     cfg.Flags(),
		style:     style,
		autoSave:  cfg.AutoSave,
	}, nil
}

func (c *Controller) Store() *Store {
	return c.store
}

// SubmitPrompt runs one full turn. The user message is appended before the
// backend call and survives a failed turn; the assistant message is only
// appended on success, with the raw response text.
func (c *Controller) SubmitPrompt(ctx context.Context, text string) (TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return TurnResult{}, errors.Wrap(ErrInvalidInput, "empty prompt")
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return TurnResult{}, ErrBusy
	}
	defer c.inFlight.Store(false)

	c.mu.Lock()
	model, flags, style, autoSave := c.model, c.flags, c.style, c.autoSave
	c.mu.Unlock()

	augmented, err := c.prompts.Build(text, flags, style)
	if err != nil {
		return TurnResult{}, err
	}

	user := c.store.AppendMessage(RoleUser, text)
	log.Debug().Str("session", c.sessionID).Str("model", model).Str("message", user.ID).Msg("turn started")

	response, err := c.gen.Generate(ctx, augmented, model)
	if err != nil {
		log.Warn().Str("session", c.sessionID).Err(err).Msg("generation failed")
		return TurnResult{User: user}, &GenerationError{Model: model, Err: err}
	}

	assistant := c.store.AppendMessage(RoleAssistant, response)

	result := TurnResult{User: user, Assistant: assistant}
	if autoSave {
		result.SavedID = c.store.Save()
		log.Debug().Str("session", c.sessionID).Str("conversation", result.SavedID).Msg("autosaved")
	}
	return result, nil
}

// Busy reports whether a turn is currently in flight.
func (c *Controller) Busy() bool {
	return c.inFlight.Load()
}

func (c *Controller) SetFlags(flags ModeFlags) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flags = flags
}

func (c *Controller) Flags() ModeFlags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags
}

func (c *Controller) SetStyle(style ResponseStyle) error {
	if _, ok := styleClauses[style]; !ok {
		return errors.Wrapf(ErrInvalidConfiguration, "unknown response style %q", style)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.style = style
	return nil
}

func (c *Controller) Style() ResponseStyle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

func (c *Controller) SetModel(id string) error {
	if !KnownModel(id) {
		return errors.Wrapf(ErrInvalidConfiguration, "unknown model %q", id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = strings.ToLower(strings.TrimSpace(id))
	return nil
}

func (c *Controller) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

func (c *Controller) SetAutoSave(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSave = on
}

func (c *Controller) AutoSave() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoSave
}
