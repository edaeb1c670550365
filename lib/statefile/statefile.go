// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package statefile manages docshell's single-line local state files:
// the remote document identifier and anything else that is written once
// at setup time and read on every subsequent invocation.
//
// Writes are atomic (temporary file, fsync, rename) so a crashed setup
// never leaves a truncated identifier behind. Reads trim surrounding
// whitespace, so a value round-trips without a trailing newline.
package statefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Write atomically writes value as the sole line of the file at path.
// The file is created with mode 0600; the parent directory must exist.
func Write(path, value string) error {
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary state file: %w", err)
	}

	if _, err := file.WriteString(value + "\n"); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary state file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary state file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary state file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming state file into place: %w", err)
	}

	// Sync the parent directory so the rename survives power loss
	// between the rename and the OS flushing directory metadata.
	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// Read returns the file's content with surrounding whitespace trimmed.
// When the file does not exist, the returned error wraps os.ErrNotExist.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// NeedsSetup reports whether one-time setup must run: true when the
// state directory, the file-id file, or the token file is absent. Any
// one absence is sufficient.
func NeedsSetup(stateDir, fileIDPath, tokenPath string) bool {
	for _, path := range []string{stateDir, fileIDPath, tokenPath} {
		if _, err := os.Stat(path); err != nil {
			return true
		}
	}
	return false
}

// EnsureDir creates the state directory if it does not exist.
func EnsureDir(stateDir string) error {
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return fmt.Errorf("creating state directory %s: %w", stateDir, err)
	}
	return nil
}
