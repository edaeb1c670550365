// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/docshell-project/docshell/lib/clock"
	"github.com/docshell-project/docshell/lib/config"
	"github.com/docshell-project/docshell/lib/docedit"
	"github.com/docshell-project/docshell/lib/docservice"
	"github.com/docshell-project/docshell/lib/identity"
	"github.com/docshell-project/docshell/lib/statefile"
)

// createSettleDelay is how long setup waits after creating the document
// before editing it. Freshly created documents can take a moment to
// become addressable by batch updates.
const createSettleDelay = 4 * time.Second

// runSetupCommand is the explicit "docshell setup" entry point.
func runSetupCommand(cfg *config.Config, logger *slog.Logger, clk clock.Clock) error {
	if err := identity.CheckCredentials(cfg.Credentials); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runSetup(ctx, cfg, logger, clk)
}

// runSetup creates the remote document, inserts the command and log
// tables, fills in the template text, and records the document id in
// the state directory. The access token must already exist; producing
// it is the identity flow's job, not ours.
func runSetup(ctx context.Context, cfg *config.Config, logger *slog.Logger, clk clock.Clock) error {
	if err := statefile.EnsureDir(cfg.StateDir); err != nil {
		return err
	}

	token, err := identity.LoadToken(cfg.TokenPath())
	if err != nil {
		return fmt.Errorf("loading access token (complete the identity flow first): %w", err)
	}

	client, err := docservice.NewClient(docservice.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	session := client.SessionFromToken(token.AccessToken)

	documentID, err := session.Create(ctx, cfg.Filename)
	if err != nil {
		return err
	}
	clk.Sleep(createSettleDelay)

	// Each table goes in its own batch. Batching both insertTable
	// requests together makes the second one target a stale index and
	// the engine folds them into a single table.
	for _, batch := range docedit.NewTableRequests() {
		if err := session.BatchUpdate(ctx, documentID, batch); err != nil {
			return err
		}
	}

	document, err := session.Get(ctx, documentID)
	if err != nil {
		return err
	}
	targets, err := document.TemplateTargets()
	if err != nil {
		return err
	}
	if err := session.BatchUpdate(ctx, documentID, docedit.TemplateRequests(targets)); err != nil {
		return err
	}

	if err := statefile.Write(cfg.FileIDPath(), documentID); err != nil {
		return err
	}

	logger.Info("setup complete", "document_id", documentID, "title", cfg.Filename)
	return nil
}
