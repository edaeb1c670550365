// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package journal persists a local audit record of every poll cycle
// that executed or rejected a command. The remote document already
// shows command and output, but it is user-editable; the journal is the
// machine-local record of what actually ran, including the exit status
// the document has no column for.
//
// The journal is an append-only file of CBOR-encoded records. Appends
// are flushed before returning so a crashed daemon loses at most the
// cycle in flight.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/docshell-project/docshell/lib/codec"
)

// Record is one journaled cycle.
type Record struct {
	// ID uniquely identifies the record.
	ID string `cbor:"id"`
	// Command is the raw command string read from the document.
	Command string `cbor:"command"`
	// Output is the string written to the document's output column
	// (trimmed stdout or a sentinel).
	Output string `cbor:"output"`
	// ExitError is the text of the command's exit or spawn failure,
	// empty on clean exit and for rejected commands.
	ExitError string `cbor:"exit_error,omitempty"`
	// Rejected is true when the whitelist refused the command.
	Rejected bool `cbor:"rejected,omitempty"`
	// ExecutedAt is when the gate evaluated the command.
	ExecutedAt time.Time `cbor:"executed_at"`
	// WrittenAt is when the result was written back to the document.
	WrittenAt time.Time `cbor:"written_at"`
}

// Journal is an open journal file. Not safe for concurrent use; the
// daemon is single-threaded.
type Journal struct {
	file    *os.File
	encoder *codec.Encoder
}

// Open opens (creating if needed) the journal at path for appending.
func Open(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("journal: opening %s: %w", path, err)
	}
	return &Journal{file: file, encoder: codec.NewEncoder(file)}, nil
}

// Append writes one record and flushes it to disk. A record without an
// ID gets one assigned.
func (j *Journal) Append(record Record) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := j.encoder.Encode(record); err != nil {
		return fmt.Errorf("journal: encoding record: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("journal: syncing: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	return j.file.Close()
}

// ReadAll decodes every record in the journal at path, oldest first.
func ReadAll(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("journal: opening %s: %w", path, err)
	}
	defer file.Close()

	var records []Record
	decoder := codec.NewDecoder(file)
	for {
		var record Record
		if err := decoder.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("journal: decoding %s: %w", path, err)
		}
		records = append(records, record)
	}
}
