// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
)

// Sentinel strings written to the document's output column. These are
// part of the document contract: a cell is never left empty for a cycle
// that ran the gate.
const (
	// RejectedOutput is written when the command's program name is not
	// whitelisted.
	RejectedOutput = "Command is not in the list of valid commands. Please add it to the config if you want to use it."

	// EmptyOutput is written when a command ran but printed nothing.
	EmptyOutput = "No output"
)

// Kind tags the outcome of one gate evaluation.
type Kind int

const (
	// NoCommand means the command cell was empty or whitespace-only.
	// Nothing ran and nothing should be written to the document.
	NoCommand Kind = iota

	// Rejected means the program name was not in the whitelist. Nothing
	// ran; the rejection sentinel is written to the document.
	Rejected

	// Executed means the command ran. Its trimmed stdout (or the
	// empty-output sentinel) is written to the document.
	Executed
)

// Whitelist is a membership-only set of allowed program names.
type Whitelist map[string]struct{}

// ParseWhitelist builds a Whitelist from a comma-separated list of
// program names. Entries are trimmed; empty entries are dropped.
func ParseWhitelist(commaSeparated string) Whitelist {
	whitelist := make(Whitelist)
	for _, entry := range strings.Split(commaSeparated, ",") {
		name := strings.TrimSpace(entry)
		if name == "" {
			continue
		}
		whitelist[name] = struct{}{}
	}
	return whitelist
}

// Allows reports whether program is whitelisted.
func (w Whitelist) Allows(program string) bool {
	_, ok := w[program]
	return ok
}

// Result is the outcome of one gate evaluation.
type Result struct {
	// Kind tags the outcome.
	Kind Kind

	// Command is the raw command string as read from the document,
	// empty for NoCommand.
	Command string

	// Output is the trimmed stdout of an Executed command. Empty when
	// the command printed nothing (DocumentOutput substitutes the
	// sentinel) and for every other kind.
	Output string

	// ExitErr records a non-zero exit or spawn failure of an Executed
	// command. It is logged and journaled but not surfaced to the
	// document, which has no column for it; stdout is written as-is.
	ExitErr error
}

// DocumentOutput returns the non-empty string to write into the output
// column, or "" for NoCommand (the caller must skip the write entirely).
func (r Result) DocumentOutput() string {
	switch r.Kind {
	case Rejected:
		return RejectedOutput
	case Executed:
		if r.Output == "" {
			return EmptyOutput
		}
		return r.Output
	default:
		return ""
	}
}

// Execute tokenizes raw by whitespace and runs it if the first token is
// whitelisted. Stdout is captured and trimmed; stderr is discarded. The
// process is never run through a shell.
func Execute(ctx context.Context, raw string, whitelist Whitelist, logger *slog.Logger) Result {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return Result{Kind: NoCommand}
	}

	if !whitelist.Allows(tokens[0]) {
		logger.Warn("rejected command not in whitelist", "command", raw)
		return Result{Kind: Rejected, Command: raw}
	}

	command := exec.CommandContext(ctx, tokens[0], tokens[1:]...)
	stdout, err := command.Output()
	output := strings.TrimSpace(string(stdout))
	if err != nil {
		// The document surfaces stdout only; the exit failure is kept
		// for the structured log and the local journal.
		logger.Warn("command exited with error", "command", raw, "error", err)
	}
	logger.Info("executed command", "command", raw, "output", output)

	return Result{Kind: Executed, Command: raw, Output: output, ExitErr: err}
}
