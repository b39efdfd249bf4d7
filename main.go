package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/thesooraj/HangMan-Project/config"
	"github.com/thesooraj/HangMan-Project/input"
	"github.com/thesooraj/HangMan-Project/logger"
	"github.com/thesooraj/HangMan-Project/monitor"
	"github.com/thesooraj/HangMan-Project/session"
	"github.com/thesooraj/HangMan-Project/words"
)

func main() {
	os.Exit(run(os.Args))
}

// run plays one round and returns the process exit code. Deferred cleanup
// runs before main exits.
func run(args []string) int {
	flags := config.NewFlagSet(args[0])
	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	configDir, _ := flags.GetString("config")

	// Load configuration
	cfg, err := config.LoadConfig(configDir, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	mon := monitor.NewMonitor("hangman")
	if cfg.Metrics.Address != "" {
		mon.StartServer(cfg.Metrics.Address)
		defer mon.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reader := input.NewTerminal(os.Stdin, os.Stdout,
		input.WithPollInterval(cfg.Input.PollInterval),
		input.WithCountdown(cfg.Input.Countdown),
		input.WithInteractive(cfg.Input.Interactive),
	)
	logger.Log.Infow("Starting hangman", "strategy", reader.Strategy(), "lives", cfg.Game.Lives, "turn_timeout", cfg.Game.TurnTimeout)

	dict := words.Load(cfg.Words.BasicFile, cfg.Words.PhrasesFile)
	manager := session.NewManager(dict, reader, os.Stdout, session.Options{
		Lives:       cfg.Game.Lives,
		TurnTimeout: cfg.Game.TurnTimeout,
		QuitWord:    cfg.Game.QuitWord,
		Tier:        cfg.Game.Tier,
	}, mon)

	outcome, err := manager.Play(ctx)
	if err != nil {
		logger.Log.Errorf("Game failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger.Log.Infow("Exiting", "outcome", string(outcome))
	return 0
}
