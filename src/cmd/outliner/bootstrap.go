package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"outliner/local-app/src/pkg/cli"
	"outliner/local-app/src/pkg/data"
	"outliner/local-app/src/pkg/event"
	"outliner/local-app/src/pkg/log"
	"outliner/local-app/src/pkg/model"
	"outliner/local-app/src/pkg/storage"
)

// app holds the components shared by every command
type app struct {
	logger  *log.Logger
	store   storage.KVStore
	manager *data.TreeManager
}

// bootstrap initializes the logger, the store and the tree manager.
// The returned app must be closed by the caller.
func bootstrap(ctx context.Context, cfg *model.Config) (*app, error) {
	logger, err := log.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info(ctx, "Application started", log.Fields{"store": cfg.StoreType, "key": cfg.DefaultKey})

	store, err := storage.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize storage", log.Fields{"error": err})
		logger.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	logger.Info(ctx, "Storage initialized", nil)

	manager, err := data.NewTreeManager(store, event.NewEventManager(logger), logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize tree manager", log.Fields{"error": err})
		store.Close()
		logger.Close()
		return nil, fmt.Errorf("failed to initialize tree manager: %w", err)
	}

	logger.Info(ctx, "Tree manager initialized", nil)

	return &app{logger: logger, store: store, manager: manager}, nil
}

// Close releases the store and flushes the logs
func (a *app) Close() {
	ctx := context.Background()
	if err := a.store.Close(); err != nil {
		a.logger.Error(ctx, "Failed to close storage", log.Fields{"error": err})
	}
	a.logger.Info(ctx, "Application shutting down", nil)
	if err := a.logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close logger: %v\n", err)
	}
}

// runREPL runs the interactive editor until exit, EOF or a termination signal
func runREPL(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.HistoryFile), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	cliInstance := cli.NewCLI(a.manager, cfg.DefaultKey, rl, a.logger)
	a.logger.Info(ctx, "CLI instance created", log.Fields{"session": cliInstance.SessionID()})

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			a.logger.Info(ctx, "Received termination signal. Shutting down...", nil)
			cancel()
			rl.Close()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintln(rl.Stdout(), "Welcome to Outliner! Use 'help' for the list of commands.")
	cliInstance.Bootstrap(ctx)
	rl.SetPrompt(cliInstance.Prompt)

	// Main loop
	for ctx.Err() == nil {
		err := cliInstance.Run(ctx)
		switch {
		case err == nil:
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(rl.Stdout(), "Use 'exit' or 'quit' to exit the program.")
		case errors.Is(err, io.EOF), errors.Is(err, cli.ErrExit):
			fmt.Fprintln(rl.Stdout(), "Goodbye!")
			return nil
		default:
			fmt.Fprintln(rl.Stdout(), "Error:", err)
		}
	}
	return nil
}
