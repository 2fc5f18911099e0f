package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gemchat/internal/app"
)

// RunREPL is the plain line-oriented fallback for terminals where the full
// TUI is unwanted. Same commands, same turn cycle.
func RunREPL(ctx context.Context, ctl *app.Controller, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "gemchat (%s) — /help for commands, /quit to leave\n", ctl.Model())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			feedback, quit, err := ExecCommand(ctl, text)
			if quit {
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			if feedback != "" {
				fmt.Fprintln(out, feedback)
			}
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		res, err := ctl.SubmitPrompt(turnCtx, text)
		cancel()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, res.Assistant.Content)
		if res.SavedID != "" {
			fmt.Fprintf(out, "(autosaved as %s)\n", res.SavedID)
		}
	}
}
