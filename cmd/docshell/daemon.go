// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/docshell-project/docshell/lib/clock"
	"github.com/docshell-project/docshell/lib/config"
	"github.com/docshell-project/docshell/lib/docedit"
	"github.com/docshell-project/docshell/lib/docservice"
	"github.com/docshell-project/docshell/lib/doctree"
	"github.com/docshell-project/docshell/lib/gate"
	"github.com/docshell-project/docshell/lib/identity"
	"github.com/docshell-project/docshell/lib/journal"
	"github.com/docshell-project/docshell/lib/statefile"
)

// daemon is the polling loop: one remote document, one whitelist, one
// journal. It is single-threaded; each poll cycle runs to completion
// before the next tick is considered.
type daemon struct {
	config     *config.Config
	session    *docservice.Session
	documentID string
	whitelist  gate.Whitelist
	clock      clock.Clock
	journal    *journal.Journal
	logger     *slog.Logger
}

// newDaemon assembles a daemon from validated configuration and
// existing state. It fails when the document id or access token has not
// been written yet (setup has not run). The returned close function
// releases the journal.
func newDaemon(cfg *config.Config, logger *slog.Logger, clk clock.Clock) (*daemon, func() error, error) {
	documentID, err := statefile.Read(cfg.FileIDPath())
	if err != nil {
		return nil, nil, fmt.Errorf("reading document id (run setup first?): %w", err)
	}

	token, err := identity.LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, nil, err
	}

	client, err := docservice.NewClient(docservice.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}

	jrnl, err := journal.Open(cfg.JournalPath())
	if err != nil {
		return nil, nil, err
	}

	return &daemon{
		config:     cfg,
		session:    client.SessionFromToken(token.AccessToken),
		documentID: documentID,
		whitelist:  gate.ParseWhitelist(cfg.ValidCommands),
		clock:      clk,
		journal:    jrnl,
		logger:     logger,
	}, jrnl.Close, nil
}

// loop polls until ctx is canceled. Cycle errors are logged and the
// loop continues; a transiently unreachable document service must not
// kill the daemon.
func (d *daemon) loop(ctx context.Context) {
	d.logger.Info("daemon started",
		"document_id", d.documentID,
		"interval", d.config.Interval(),
		"whitelist", d.config.ValidCommands)

	ticker := d.clock.NewTicker(d.config.Interval())
	defer ticker.Stop()

	for {
		if err := d.runCycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				d.logger.Info("daemon stopping", "reason", "canceled mid-cycle")
				return
			}
			d.logger.Error("poll cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopping", "reason", context.Cause(ctx))
			return
		case <-ticker.C:
		}
	}
}

// runCycle performs one poll: read the command cell, run the gate,
// append the result row, journal it. A cycle that finds no command is
// a no-op on both the document and the journal.
func (d *daemon) runCycle(ctx context.Context) error {
	document, err := d.session.Get(ctx, d.documentID)
	if err != nil {
		return err
	}

	command, err := document.ReadCommand()
	if err != nil {
		return err
	}

	executedAt := d.clock.Now()
	result := gate.Execute(ctx, command, d.whitelist, d.logger)
	if result.Kind == gate.NoCommand {
		d.logger.Debug("no command in document")
		return nil
	}

	// Re-fetch before computing insert offsets: the command may have
	// run for a while, and a stale tree yields wrong indexes if the
	// document changed underneath us.
	document, err = d.session.Get(ctx, d.documentID)
	if err != nil {
		return err
	}
	point, err := document.AppendPoint()
	if err != nil {
		if doctree.IsShapeError(err) {
			d.logger.Error("document structure does not match the expected layout; "+
				"recreate it with setup", "error", err)
		}
		return err
	}

	writtenAt := d.clock.Now()
	requests := docedit.AppendRequests(result, point, writtenAt)
	if err := d.session.BatchUpdate(ctx, d.documentID, requests); err != nil {
		return err
	}

	record := journal.Record{
		Command:    result.Command,
		Output:     result.DocumentOutput(),
		Rejected:   result.Kind == gate.Rejected,
		ExecutedAt: executedAt,
		WrittenAt:  writtenAt,
	}
	if result.ExitErr != nil {
		record.ExitError = result.ExitErr.Error()
	}
	if err := d.journal.Append(record); err != nil {
		// The document write already happened; losing the local record
		// is worth a loud log line but not a failed cycle.
		d.logger.Error("journal append failed", "error", err)
	}

	return nil
}
