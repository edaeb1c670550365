// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package docservice is the typed HTTP client for the remote document
// API. It covers exactly the three operations docshell performs:
// fetching a document tree, submitting a batch of edits, and creating a
// new document during setup.
//
// Authentication is a bearer token loaded by lib/identity; this package
// never refreshes or inspects it. API failures surface as *APIError and
// propagate to the caller — there is no retry or backoff here, a failed
// call fails the poll cycle that issued it.
package docservice
