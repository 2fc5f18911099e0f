package tui

import (
	"fmt"
	"strings"
	"time"

	"gemchat/internal/app"
)

// ExecCommand runs a slash command against the controller and returns the
// feedback line to show. quit reports that the user asked to leave. It is
// shared by the TUI and the plain REPL.
func ExecCommand(ctl *app.Controller, line string) (feedback string, quit bool, err error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return "", false, nil
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	store := ctl.Store()

	switch cmd {
	case "/quit", "/exit":
		return "", true, nil

	case "/help":
		return commandHelp(), false, nil

	case "/new", "/clear":
		store.ClearActive()
		return "Started a new conversation.", false, nil

	case "/title":
		if len(args) == 0 {
			return "", false, fmt.Errorf("usage: /title <text>")
		}
		store.SetTitle(strings.Join(args, " "))
		return fmt.Sprintf("Title set to %q.", store.Title()), false, nil

	case "/save":
		if len(args) > 0 {
			store.SetTitle(strings.Join(args, " "))
		}
		id := store.Save()
		if id == "" {
			return "Nothing to save yet.", false, nil
		}
		return fmt.Sprintf("Saved conversation %s (%q).", id, store.Title()), false, nil

	case "/load":
		if len(args) != 1 {
			return "", false, fmt.Errorf("usage: /load <id>")
		}
		if err := store.Load(args[0]); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Loaded %q (%d messages).", store.Title(), store.MessageCount()), false, nil

	case "/delete":
		if len(args) != 1 {
			return "", false, fmt.Errorf("usage: /delete <id>")
		}
		if err := store.Delete(args[0]); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Deleted saved conversation %s.", args[0]), false, nil

	case "/list":
		summaries := store.List()
		if len(summaries) == 0 {
			return "No saved conversations.", false, nil
		}
		var b strings.Builder
		b.WriteString("Saved conversations:\n")
		for _, s := range summaries {
			fmt.Fprintf(&b, "  %s  %-30q  %d messages  %s\n",
				s.ID, s.Title, s.MessageCount, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return strings.TrimRight(b.String(), "\n"), false, nil

	case "/export":
		doc, err := app.ExportConversation(store.ActiveConversation(), store.SessionStart())
		if err != nil {
			return "", false, err
		}
		path := app.ExportFilename(time.Now())
		if len(args) > 0 {
			path = args[0]
		}
		if err := app.WriteExport(doc, path); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Exported %d messages to %s.", doc.Stats.MessageCount, path), false, nil

	case "/mode":
		if len(args) != 1 {
			return fmt.Sprintf("Modes: %s", describeFlags(ctl.Flags())), false, nil
		}
		flags := ctl.Flags()
		switch strings.ToLower(args[0]) {
		case "codegen", "code":
			flags.CodeGen = !flags.CodeGen
		case "explain":
			flags.Explain = !flags.Explain
		case "debug":
			flags.Debug = !flags.Debug
		default:
			return "", false, fmt.Errorf("unknown mode %q (codegen|explain|debug)", args[0])
		}
		ctl.SetFlags(flags)
		return fmt.Sprintf("Modes: %s", describeFlags(flags)), false, nil

	case "/style":
		if len(args) != 1 {
			return fmt.Sprintf("Style: %s", ctl.Style()), false, nil
		}
		style, ok := app.ParseStyle(args[0])
		if !ok {
			return "", false, fmt.Errorf("unknown style %q (concise|balanced|detailed)", args[0])
		}
		if err := ctl.SetStyle(style); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Style set to %s.", style), false, nil

	case "/model":
		if len(args) != 1 {
			return fmt.Sprintf("Model: %s (known: %s)", ctl.Model(), strings.Join(app.KnownModels(), ", ")), false, nil
		}
		if err := ctl.SetModel(args[0]); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Model set to %s.", ctl.Model()), false, nil

	case "/autosave":
		if len(args) != 1 {
			return fmt.Sprintf("Autosave: %v", ctl.AutoSave()), false, nil
		}
		switch strings.ToLower(args[0]) {
		case "on", "true":
			ctl.SetAutoSave(true)
		case "off", "false":
			ctl.SetAutoSave(false)
		default:
			return "", false, fmt.Errorf("usage: /autosave on|off")
		}
		return fmt.Sprintf("Autosave: %v", ctl.AutoSave()), false, nil

	default:
		return "", false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

func describeFlags(f app.ModeFlags) string {
	parts := []string{}
	if f.CodeGen {
		parts = append(parts, "codegen")
	}
	if f.Explain {
		parts = append(parts, "explain")
	}
	if f.Debug {
		parts = append(parts, "debug")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func commandHelp() string {
	return strings.TrimSpace(`
Commands:
  /new                start a new conversation
  /save [title]       save the conversation (optionally renaming it)
  /load <id>          load a saved conversation
  /list               list saved conversations
  /delete <id>        delete a saved conversation
  /title <text>       rename the conversation
  /export [path]      export the conversation as JSON
  /mode <name>        toggle codegen|explain|debug
  /style <name>       set concise|balanced|detailed
  /model <id>         switch models
  /autosave on|off    toggle autosave
  /quit               leave`)
}
