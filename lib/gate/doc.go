// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package gate validates a raw command string against a whitelist of
// program names and executes it as a direct process invocation.
//
// The whitelist is a coarse allow-list, not a sandbox: only the first
// token (the program name) is checked. Arguments, shell metacharacters,
// and paths pass through untouched — there is no shell interpretation at
// all, the token list is handed to the OS directly.
//
// Execution outcomes are modeled as a tagged Result with three kinds
// (no command, rejected, executed) rather than overloading a nullable
// string, so call sites can distinguish "the user typed nothing" from
// "the command ran and printed nothing".
package gate
