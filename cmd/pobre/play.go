package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/pobre/internal/app/highlight"
	"github.com/osa030/pobre/internal/app/player"
	"github.com/osa030/pobre/internal/app/shell"
	"github.com/osa030/pobre/internal/infra/config"
	"github.com/osa030/pobre/internal/tui"
)

// runPlay starts the player and the terminal UI. Using a separate function
// ensures the player is closed even when returning with an error.
func runPlay(cfg *config.Config, file string, openTool bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if file != "" {
		if err := shell.AcceptFile(file); err != nil {
			if errors.Is(err, shell.ErrFileNotFound) {
				fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("File not found!"))
			}
			return err
		}
	}

	p, err := player.NewFromConfig(ctx, cfg.Player, file)
	if err != nil {
		if file != "" {
			return fmt.Errorf("failed to start player: %w", err)
		}
		// Without a file the table tools still work
		zlog.Warn().Msgf("no video player available: %v", err)
		p = nil
	}

	notifier := tui.NewNotifier()
	sh := shell.New(p, notifier, shell.Config{
		SeekStep:   cfg.Player.SeekStep(),
		VolumeStep: cfg.Player.VolumeStep,
		Volume:     cfg.Player.Volume,
		Highlight: highlight.Config{
			Dwell:      cfg.Highlight.Dwell(),
			ExportDir:  cfg.Highlight.ExportDir,
			InitialRow: cfg.Highlight.StartWithRow(),
		},
	})
	defer func() {
		if err := sh.Close(); err != nil {
			zlog.Warn().Msgf("failed to close player: %v", err)
		}
	}()

	if file != "" {
		sh.MarkLoaded(file)
	}

	zlog.Info().Msgf("Starting UI: file=%s", file)
	return tui.Run(ctx, sh, notifier, tui.Options{
		Version:  version,
		OpenTool: openTool,
	})
}
