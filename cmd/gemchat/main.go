package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gemchat/internal/app"
	"gemchat/internal/tui"

	"github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func setupLogging(verbose bool, toFile bool) func() {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if !toFile {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return func() {}
	}

	// The TUI owns the terminal, so logs go to a file.
	dir, err := os.UserCacheDir()
	if err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	path := filepath.Join(dir, "gemchat", "gemchat.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }
}

func buildConfig(cmd *cobra.Command) (app.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = app.DefaultConfigPath()
	}
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ResolveAPIKey()

	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetString("style"); v != "" {
		cfg.Style = v
	}
	if v, _ := cmd.Flags().GetBool("code"); v {
		cfg.CodeGen = true
	}
	if v, _ := cmd.Flags().GetBool("explain"); v {
		cfg.Explain = true
	}
	if v, _ := cmd.Flags().GetBool("debug"); v {
		cfg.Debug = true
	}
	if v, _ := cmd.Flags().GetBool("no-autosave"); v {
		cfg.AutoSave = false
	}
	return cfg, cfg.Validate()
}

func buildController(ctx context.Context, cmd *cobra.Command, cfg app.Config) (*app.Controller, error) {
	mock, _ := cmd.Flags().GetBool("mock")
	var gen app.Generator
	if mock || cfg.APIKey == "" {
		if !mock {
			fmt.Fprintln(os.Stderr, "No API key found (set GEMINI_API_KEY or api_key in config); running in mock mode.")
		}
		gen = app.NewMockGenerator()
	} else {
		client, err := app.NewGeminiClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, err
		}
		gen = client
	}
	return app.NewController(app.NewStore(), gen, cfg)
}

func main() {
	root := &cobra.Command{
		Use:     "gemchat",
		Short:   "Chat with Gemini from the terminal",
		Long:    "gemchat is a conversational front-end for the Gemini API.\n\nRun without arguments for the chat TUI, use --no-tui for a plain REPL, or 'gemchat ask' for a one-shot prompt.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}

			noTUI, _ := cmd.Flags().GetBool("no-tui")
			verbose, _ := cmd.Flags().GetBool("verbose")
			cleanup := setupLogging(verbose, !noTUI)
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctl, err := buildController(ctx, cmd, cfg)
			if err != nil {
				return err
			}

			if noTUI {
				return tui.RunREPL(ctx, ctl, os.Stdin, os.Stdout)
			}
			p := tea.NewProgram(tui.New(ctl))
			_, err = p.Run()
			return err
		},
	}

	root.PersistentFlags().String("config", "", "config file path (default: user config dir)")
	root.PersistentFlags().String("model", "", "model id (default from config)")
	root.PersistentFlags().String("style", "", "response style: concise|balanced|detailed")
	root.PersistentFlags().Bool("code", false, "enable code-generation mode")
	root.PersistentFlags().Bool("explain", false, "enable explanation mode")
	root.PersistentFlags().Bool("debug", false, "enable debug mode")
	root.PersistentFlags().Bool("no-autosave", false, "disable autosave after each turn")
	root.PersistentFlags().Bool("mock", false, "use the mock backend instead of the API")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	root.Flags().BoolP("no-tui", "n", false, "use a plain REPL instead of the TUI")

	askCmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send one prompt and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			cleanup := setupLogging(verbose, false)
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctl, err := buildController(ctx, cmd, cfg)
			if err != nil {
				return err
			}
			res, err := ctl.SubmitPrompt(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(res.Assistant.Content)
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List recognized model identifiers",
		Run: func(cmd *cobra.Command, args []string) {
			for _, id := range app.KnownModels() {
				fmt.Println(id)
			}
		},
	}

	exportCmd := &cobra.Command{
		Use:   "inspect-export [file]",
		Short: "Validate an exported conversation file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := app.ParseExport(data)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d messages, %ds session\n", doc.Title, doc.Stats.MessageCount, doc.Stats.SessionDurationSeconds)
			return nil
		},
	}

	root.AddCommand(askCmd, modelsCmd, exportCmd)
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
