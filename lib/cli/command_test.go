// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	var called string
	root := &Command{
		Name: "docshell",
		Subcommands: []*Command{
			{Name: "start", Run: func(args []string) error { called = "start"; return nil }},
			{Name: "stop", Run: func(args []string) error { called = "stop"; return nil }},
		},
	}

	if err := root.Execute([]string{"stop"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "stop" {
		t.Errorf("called = %q, want stop", called)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	root := &Command{
		Name:        "docshell",
		Subcommands: []*Command{{Name: "start", Run: func([]string) error { return nil }}},
	}

	err := root.Execute([]string{"strat"})
	if err == nil {
		t.Fatal("Execute accepted an unknown command")
	}
	if !strings.Contains(err.Error(), "strat") {
		t.Errorf("error %q does not name the unknown command", err)
	}
}

func TestExecuteNoSubcommand(t *testing.T) {
	root := &Command{
		Name:        "docshell",
		Subcommands: []*Command{{Name: "start", Run: func([]string) error { return nil }}},
	}

	if err := root.Execute(nil); err == nil {
		t.Fatal("Execute without a subcommand succeeded")
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var level string
	var remaining []string
	command := &Command{
		Name: "start",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("start", pflag.ContinueOnError)
			flagSet.StringVar(&level, "log-level", "info", "")
			return flagSet
		},
		Run: func(args []string) error { remaining = args; return nil },
	}

	if err := command.Execute([]string{"--log-level", "debug", "extra"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if level != "debug" {
		t.Errorf("log-level = %q, want debug", level)
	}
	if len(remaining) != 1 || remaining[0] != "extra" {
		t.Errorf("remaining args = %v, want [extra]", remaining)
	}
}

func TestExecuteBadFlag(t *testing.T) {
	command := &Command{
		Name: "start",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("start", pflag.ContinueOnError)
		},
		Run: func([]string) error { return nil },
	}

	if err := command.Execute([]string{"--no-such-flag"}); err == nil {
		t.Fatal("Execute accepted an unknown flag")
	}
}

func TestExecuteHelpFlag(t *testing.T) {
	ran := false
	command := &Command{
		Name: "docshell",
		Run:  func([]string) error { ran = true; return nil },
	}

	if err := command.Execute([]string{"--help"}); err != nil {
		t.Fatalf("Execute(--help): %v", err)
	}
	if ran {
		t.Error("help flag still ran the command")
	}
}

func TestPrintHelpListsSubcommands(t *testing.T) {
	root := &Command{
		Name:    "docshell",
		Summary: "Shell access through a shared document",
		Subcommands: []*Command{
			{Name: "start", Summary: "Start the polling daemon"},
			{Name: "version", Summary: "Print version information"},
		},
	}

	var out bytes.Buffer
	root.PrintHelp(&out)
	for _, want := range []string{"start", "version", "Start the polling daemon"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q:\n%s", want, out.String())
		}
	}
}

func TestFullNameInErrors(t *testing.T) {
	root := &Command{
		Name: "docshell",
		Subcommands: []*Command{{
			Name:        "state",
			Subcommands: []*Command{{Name: "show", Run: func([]string) error { return nil }}},
		}},
	}

	err := root.Execute([]string{"state", "missing"})
	if err == nil {
		t.Fatal("Execute accepted an unknown nested command")
	}
	if !strings.Contains(err.Error(), "docshell state") {
		t.Errorf("error %q does not contain the full command path", err)
	}
}
