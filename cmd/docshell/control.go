// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/docshell-project/docshell/lib/clock"
	"github.com/docshell-project/docshell/lib/config"
	"github.com/docshell-project/docshell/lib/identity"
	"github.com/docshell-project/docshell/lib/pidlock"
	"github.com/docshell-project/docshell/lib/statefile"
)

// runStart starts the daemon in the foreground. It verifies the
// identity credentials before anything else, runs setup when local
// state is missing, takes the PID lock, and polls until SIGINT or
// SIGTERM.
func runStart(cfg *config.Config, logger *slog.Logger, clk clock.Clock) error {
	// A missing or malformed credential file must fail here, loudly,
	// not on some later poll cycle.
	if err := identity.CheckCredentials(cfg.Credentials); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if statefile.NeedsSetup(cfg.StateDir, cfg.FileIDPath(), cfg.TokenPath()) {
		logger.Info("local state missing, running setup", "state_dir", cfg.StateDir)
		if err := runSetup(ctx, cfg, logger, clk); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}

	lock, err := pidlock.Acquire(cfg.PIDPath)
	if err != nil {
		if errors.Is(err, pidlock.ErrLocked) {
			return fmt.Errorf("another docshell instance already holds %s", cfg.PIDPath)
		}
		return err
	}
	defer lock.Release()

	d, closeDaemon, err := newDaemon(cfg, logger, clk)
	if err != nil {
		return err
	}
	defer closeDaemon()

	d.loop(ctx)
	return nil
}

// runStop signals the running daemon with SIGTERM and returns without
// waiting for it to exit.
func runStop(cfg *config.Config, out io.Writer) error {
	pid, err := pidlock.ReadPID(cfg.PIDPath)
	if err != nil {
		return fmt.Errorf("no running daemon found: %w", err)
	}
	if err := pidlock.Signal(cfg.PIDPath, unix.SIGTERM); err != nil {
		return err
	}
	fmt.Fprintf(out, "sent SIGTERM to docshell daemon (pid %d)\n", pid)
	return nil
}

// runRestart stops the running daemon, waits (bounded) for it to
// release the PID lock, and starts a fresh one in the foreground. The
// wait closes the race where the new daemon loses the lock to the old
// one still shutting down.
func runRestart(cfg *config.Config, logger *slog.Logger, clk clock.Clock, timeout time.Duration, out io.Writer) error {
	if err := runStop(cfg, out); err != nil {
		return err
	}
	if err := pidlock.WaitReleased(cfg.PIDPath, timeout, clk); err != nil {
		return fmt.Errorf("old daemon did not exit: %w", err)
	}
	return runStart(cfg, logger, clk)
}

// runOnce performs a single poll cycle without the PID lock. It shares
// nothing with a running daemon except the journal file, which is
// append-only.
func runOnce(cfg *config.Config, logger *slog.Logger, clk clock.Clock) error {
	if err := identity.CheckCredentials(cfg.Credentials); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, closeDaemon, err := newDaemon(cfg, logger, clk)
	if err != nil {
		return err
	}
	defer closeDaemon()

	return d.runCycle(ctx)
}
