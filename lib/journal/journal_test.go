// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func TestAppendReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.cbor")

	jrnl, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	executedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	records := []Record{
		{Command: "ls", Output: "fid token", ExecutedAt: executedAt, WrittenAt: executedAt.Add(time.Second)},
		{Command: "rm -rf x", Output: "rejected", Rejected: true, ExecutedAt: executedAt.Add(30 * time.Second)},
		{Command: "false", Output: "No output", ExitError: "exit status 1", ExecutedAt: executedAt.Add(time.Minute)},
	}
	for _, record := range records {
		if err := jrnl.Append(record); err != nil {
			t.Fatalf("Append(%q): %v", record.Command, err)
		}
	}
	if err := jrnl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("ReadAll returned %d records, want %d", len(got), len(records))
	}
	for i, record := range got {
		if record.ID == "" {
			t.Errorf("record %d has no assigned ID", i)
		}
		if record.Command != records[i].Command {
			t.Errorf("record %d command = %q, want %q", i, record.Command, records[i].Command)
		}
	}
	if !got[1].Rejected {
		t.Error("rejected flag lost in round trip")
	}
	if got[2].ExitError != "exit status 1" {
		t.Errorf("exit error = %q, want %q", got[2].ExitError, "exit status 1")
	}
	if !got[0].ExecutedAt.Equal(executedAt) {
		t.Errorf("executed_at = %v, want %v", got[0].ExecutedAt, executedAt)
	}
}

func TestAppendKeepsExplicitID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.cbor")

	jrnl, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := jrnl.Append(Record{ID: "fixed-id", Command: "pwd"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	jrnl.Close()

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got[0].ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", got[0].ID)
	}
}

func TestOpenAppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.cbor")

	for _, command := range []string{"first", "second"} {
		jrnl, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if err := jrnl.Append(Record{Command: command}); err != nil {
			t.Fatalf("Append: %v", err)
		}
		jrnl.Close()
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 || got[0].Command != "first" || got[1].Command != "second" {
		t.Fatalf("ReadAll = %+v, want the two appended records in order", got)
	}
}
