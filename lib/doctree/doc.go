// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctree defines the wire types for the remote document tree and
// the locator that maps its generic block structure to the two tables
// docshell cares about: the command table (first table in the document)
// and the output table (last table in the document).
//
// The document layout is a precondition, not something this package
// searches for: the command table is always the third top-level block
// (index 2) and the output table is always the second-from-last block,
// because a blank paragraph trails every table. When the document does
// not match that shape, lookups fail with a *ShapeError instead of
// indexing into the wrong block.
//
// All offsets are character indices into the document. Inserting text
// shifts every offset after the insertion point, which is why callers
// that batch multiple insertions must write right-to-left (highest
// offset first). The locator only reports offsets; ordering discipline
// lives in package docedit.
package doctree
