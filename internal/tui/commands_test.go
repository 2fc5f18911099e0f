package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gemchat/internal/app"
)

func newTestController(t *testing.T) *app.Controller {
	t.Helper()
	cfg := app.DefaultConfig()
	ctl, err := app.NewController(app.NewStore(), app.NewMockGenerator(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	return ctl
}

func TestExecCommand_SaveLoadDelete(t *testing.T) {
	ctl := newTestController(t)
	store := ctl.Store()
	store.AppendMessage(app.RoleUser, "hi")
	store.AppendMessage(app.RoleAssistant, "hello")

	out, quit, err := ExecCommand(ctl, "/save my first chat")
	if err != nil || quit {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.Contains(out, "my first chat") {
		t.Fatalf("feedback should mention the title: %q", out)
	}
	id := store.ActiveID()
	if id == "" {
		t.Fatal("save must bind an id")
	}

	if _, _, err := ExecCommand(ctl, "/new"); err != nil {
		t.Fatal(err)
	}
	if store.MessageCount() != 0 {
		t.Fatal("/new must clear the active conversation")
	}

	out, _, err = ExecCommand(ctl, "/load "+id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2 messages") {
		t.Fatalf("load feedback wrong: %q", out)
	}

	if _, _, err := ExecCommand(ctl, "/delete "+id); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ExecCommand(ctl, "/load "+id); err == nil {
		t.Fatal("loading a deleted conversation must fail")
	}
}

func TestExecCommand_ListEmpty(t *testing.T) {
	ctl := newTestController(t)
	out, _, err := ExecCommand(ctl, "/list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No saved conversations") {
		t.Fatalf("unexpected list output: %q", out)
	}
}

func TestExecCommand_ModeAndStyle(t *testing.T) {
	ctl := newTestController(t)

	out, _, err := ExecCommand(ctl, "/mode codegen")
	if err != nil {
		t.Fatal(err)
	}
	if !ctl.Flags().CodeGen || !strings.Contains(out, "codegen") {
		t.Fatalf("codegen not toggled: %q, %+v", out, ctl.Flags())
	}
	// Toggling again turns it back off.
	if _, _, err := ExecCommand(ctl, "/mode codegen"); err != nil {
		t.Fatal(err)
	}
	if ctl.Flags().CodeGen {
		t.Fatal("codegen should be off again")
	}

	if _, _, err := ExecCommand(ctl, "/style detailed"); err != nil {
		t.Fatal(err)
	}
	if ctl.Style() != app.StyleDetailed {
		t.Fatalf("style not applied: %q", ctl.Style())
	}
	if _, _, err := ExecCommand(ctl, "/style rambling"); err == nil {
		t.Fatal("bad style must be rejected")
	}
}

func TestExecCommand_Export(t *testing.T) {
	ctl := newTestController(t)
	store := ctl.Store()

	// Empty conversation: export refuses.
	if _, _, err := ExecCommand(ctl, "/export"); err == nil {
		t.Fatal("exporting an empty conversation must fail")
	}

	store.AppendMessage(app.RoleUser, "q")
	store.AppendMessage(app.RoleAssistant, "a")
	path := filepath.Join(t.TempDir(), "out.json")
	out, _, err := ExecCommand(ctl, "/export "+path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("feedback should name the file: %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := app.ParseExport(data)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Stats.MessageCount != 2 {
		t.Fatalf("bad exported count: %d", doc.Stats.MessageCount)
	}
}

func TestExecCommand_QuitAndUnknown(t *testing.T) {
	ctl := newTestController(t)
	if _, quit, _ := ExecCommand(ctl, "/quit"); !quit {
		t.Fatal("/quit must request exit")
	}
	if _, _, err := ExecCommand(ctl, "/frobnicate"); err == nil {
		t.Fatal("unknown commands must error")
	}
}

func TestCodeRenderer_PlainTextPassThrough(t *testing.T) {
	r := NewCodeRenderer()
	out := r.Render("no code here", 80)
	if !strings.Contains(out, "no code here") {
		t.Fatalf("plain text lost: %q", out)
	}
}

func TestCodeRenderer_KeepsCodeContent(t *testing.T) {
	r := NewCodeRenderer()
	out := r.Render("before\n```go\nfunc main() {}\n```\nafter", 100)
	for _, want := range []string{"before", "main", "after"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered output missing %q:\n%s", want, out)
		}
	}
}
