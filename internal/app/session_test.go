package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AutoSave = true
	return cfg
}

func TestSubmitPrompt_SuccessAppendsBothSides(t *testing.T) {
	store := NewStore()
	gen := GeneratorFunc(func(ctx context.Context, prompt, modelID string) (string, error) {
		if !strings.HasPrefix(prompt, "You are an expert AI coding assistant.") {
			t.Fatalf("outbound prompt not augmented: %q", prompt)
		}
		if !strings.HasSuffix(prompt, "\n\nhello there") {
			t.Fatalf("raw prompt missing from outbound copy: %q", prompt)
		}
		return "hi!", nil
	})
	ctl, err := NewController(store, gen, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	res, err := ctl.SubmitPrompt(context.Background(), "hello there")
	if err != nil {
		t.Fatal(err)
	}
	if res.User.Role != RoleUser || res.User.Content != "hello there" {
		t.Fatalf("bad user message: %+v", res.User)
	}
	// The stored response is the raw text, never mode-formatted.
	if res.Assistant.Role != RoleAssistant || res.Assistant.Content != "hi!" {
		t.Fatalf("bad assistant message: %+v", res.Assistant)
	}
	if store.MessageCount() != 2 {
		t.Fatalf("expected 2 messages, got %d", store.MessageCount())
	}
	if res.SavedID == "" {
		t.Fatal("autosave should have produced a conversation id")
	}
}

func TestSubmitPrompt_EmptyPromptRejected(t *testing.T) {
	store := NewStore()
	ctl, err := NewController(store, NewMockGenerator(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{"", "   ", "\n\t"} {
		if _, err := ctl.SubmitPrompt(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("prompt %q: expected ErrInvalidInput, got %v", in, err)
		}
	}
	if store.MessageCount() != 0 {
		t.Fatalf("rejected prompts must not mutate state, got %d messages", store.MessageCount())
	}
}

func TestSubmitPrompt_FailurePreservesHistory(t *testing.T) {
	store := NewStore()
	gen := GeneratorFunc(func(ctx context.Context, prompt, modelID string) (string, error) {
		return "", errors.New("upstream exploded")
	})
	ctl, err := NewController(store, gen, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	_, err = ctl.SubmitPrompt(context.Background(), "fix my code")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if !strings.Contains(genErr.Error(), "upstream exploded") {
		t.Fatalf("error text must be surfaced verbatim, got %q", genErr.Error())
	}

	msgs := store.ActiveMessages()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one new user message, got %d", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "fix my code" {
		t.Fatalf("user message missing after failed turn: %+v", msgs[0])
	}
	// A failed turn never autosaves or appends an assistant message.
	if len(store.List()) != 0 {
		t.Fatal("failed turn must not autosave")
	}

	// The session recovers: the next turn works.
	ctl2, err := NewController(store, NewMockGenerator(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctl2.SubmitPrompt(context.Background(), "hello again"); err != nil {
		t.Fatalf("session should recover after a failure: %v", err)
	}
}

func TestSubmitPrompt_BusyRule(t *testing.T) {
	store := NewStore()
	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once
	gen := GeneratorFunc(func(ctx context.Context, prompt, modelID string) (string, error) {
		startedOnce.Do(func() { close(started) })
		<-release
		return "done", nil
	})
	ctl, err := NewController(store, gen, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := ctl.SubmitPrompt(context.Background(), "slow one"); err != nil {
			t.Errorf("first submit failed: %v", err)
		}
	}()

	<-started
	before := store.MessageCount()
	if _, err := ctl.SubmitPrompt(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if store.MessageCount() != before {
		t.Fatal("busy rejection must leave messages unchanged")
	}

	close(release)
	wg.Wait()

	// Single-flight released: submissions work again.
	if _, err := ctl.SubmitPrompt(context.Background(), "third"); err != nil {
		t.Fatal(err)
	}
}

func TestSubmitPrompt_CancelledContextIsFailure(t *testing.T) {
	store := NewStore()
	gen := GeneratorFunc(func(ctx context.Context, prompt, modelID string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	ctl, err := NewController(store, gen, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = ctl.SubmitPrompt(ctx, "will be abandoned")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	// State stays consistent: only the user message landed.
	if store.MessageCount() != 1 {
		t.Fatalf("expected 1 message, got %d", store.MessageCount())
	}
}

func TestNewController_RejectsBadConfig(t *testing.T) {
	store := NewStore()

	cfg := testConfig()
	cfg.Model = "gpt-7"
	if _, err := NewController(store, NewMockGenerator(), cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for model, got %v", err)
	}

	cfg = testConfig()
	cfg.Style = "rambling"
	if _, err := NewController(store, NewMockGenerator(), cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for style, got %v", err)
	}
}

func TestController_Setters(t *testing.T) {
	ctl, err := NewController(NewStore(), NewMockGenerator(), testConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := ctl.SetStyle(StyleDetailed); err != nil {
		t.Fatal(err)
	}
	if ctl.Style() != StyleDetailed {
		t.Fatalf("style not applied: %q", ctl.Style())
	}
	if err := ctl.SetStyle(ResponseStyle("chatty")); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}

	if err := ctl.SetModel("gemini-pro"); err != nil {
		t.Fatal(err)
	}
	if err := ctl.SetModel("llama-9"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}

	ctl.SetFlags(ModeFlags{Debug: true})
	if !ctl.Flags().Debug || ctl.Flags().CodeGen {
		t.Fatalf("flags not applied: %+v", ctl.Flags())
	}

	ctl.SetAutoSave(false)
	if ctl.AutoSave() {
		t.Fatal("autosave should be off")
	}
}

func TestSubmitPrompt_NoAutosaveWhenDisabled(t *testing.T) {
	store := NewStore()
	cfg := testConfig()
	cfg.AutoSave = false
	ctl, err := NewController(store, NewMockGenerator(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	res, err := ctl.SubmitPrompt(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if res.SavedID != "" || len(store.List()) != 0 {
		t.Fatalf("autosave ran while disabled: %+v", res)
	}
}
