// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package pidlock provides the single-instance lock file for the
// daemon. The file serves two purposes: an advisory flock guarantees at
// most one daemon instance per lock path, and its content (the holder's
// PID) lets control commands signal the running daemon.
//
// The lock is advisory. A process that ignores flock can still trample
// the file; docshell's own start/stop/restart paths all go through this
// package.
package pidlock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/docshell-project/docshell/lib/clock"
)

// ErrLocked is returned by Acquire when another process holds the lock.
var ErrLocked = errors.New("pidlock: already held by another process")

// releasePollInterval is how often WaitReleased probes the lock.
const releasePollInterval = 100 * time.Millisecond

// Lock is a held PID lock. Release it when the daemon exits.
type Lock struct {
	path string
	file *os.File
}

// Acquire opens (creating if needed) the lock file at path, takes an
// exclusive non-blocking flock on it, and writes the current process's
// PID. Returns ErrLocked when another process holds the flock.
func Acquire(path string) (*Lock, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("pidlock: opening lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("pidlock: locking %s: %w", path, err)
	}

	// Truncate before writing: a stale PID from a previous holder may
	// be longer than ours.
	if err := file.Truncate(0); err != nil {
		file.Close()
		return nil, fmt.Errorf("pidlock: truncating %s: %w", path, err)
	}
	if _, err := file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("pidlock: writing PID to %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, fmt.Errorf("pidlock: syncing %s: %w", path, err)
	}

	return &Lock{path: path, file: file}, nil
}

// Release drops the flock, closes the file, and removes it. Safe to
// call once; the daemon defers it at startup.
func (l *Lock) Release() error {
	// Closing the descriptor releases the flock; unlock explicitly
	// anyway so the release is visible before the file disappears.
	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("pidlock: closing lock file: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pidlock: removing lock file: %w", err)
	}
	return nil
}

// ReadPID returns the PID recorded in the lock file at path.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("pidlock: reading lock file %s: %w", path, err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("pidlock: lock file %s does not contain a PID: %w", path, err)
	}
	return pid, nil
}

// Signal sends sig to the process recorded in the lock file. It does
// not wait for the process to act on it.
func Signal(path string, sig unix.Signal) error {
	pid, err := ReadPID(path)
	if err != nil {
		return err
	}
	if err := unix.Kill(pid, sig); err != nil {
		return fmt.Errorf("pidlock: signaling PID %d: %w", pid, err)
	}
	return nil
}

// WaitReleased polls the lock at path until it can be acquired (the
// previous holder released it) or timeout elapses. A missing lock file
// counts as released. Used by restart, which must not assume the old
// daemon exits instantaneously.
func WaitReleased(path string, timeout time.Duration, clk clock.Clock) error {
	deadline := clk.Now().Add(timeout)
	for {
		free, err := probe(path)
		if err != nil {
			return err
		}
		if free {
			return nil
		}
		if clk.Now().After(deadline) {
			return fmt.Errorf("pidlock: %s still held after %v", path, timeout)
		}
		clk.Sleep(releasePollInterval)
	}
}

// probe reports whether the lock at path is currently free, without
// holding it.
func probe(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("pidlock: probing lock file %s: %w", path, err)
	}
	defer file.Close()

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return false, nil
		}
		return false, fmt.Errorf("pidlock: probing lock file %s: %w", path, err)
	}
	unix.Flock(int(file.Fd()), unix.LOCK_UN)
	return true, nil
}
