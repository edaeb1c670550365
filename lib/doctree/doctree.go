// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package doctree

// Document is the top-level document resource returned by documents.get.
// Fields docshell does not read are omitted; the decoder ignores them.
type Document struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title,omitempty"`
	Body       Body   `json:"body"`
}

// Body holds the document's top-level content blocks in order.
type Body struct {
	Content []Block `json:"content"`
}

// Block is one top-level structural element. Exactly one of Paragraph or
// Table is set for the blocks docshell inspects; other element kinds
// (section breaks, tables of contents) decode with both nil.
type Block struct {
	StartIndex int64      `json:"startIndex"`
	EndIndex   int64      `json:"endIndex"`
	Paragraph  *Paragraph `json:"paragraph,omitempty"`
	Table      *Table     `json:"table,omitempty"`
}

// Table is a table block.
type Table struct {
	Rows      int        `json:"rows"`
	Columns   int        `json:"columns"`
	TableRows []TableRow `json:"tableRows"`
}

// TableRow is one row of a table.
type TableRow struct {
	StartIndex int64       `json:"startIndex"`
	EndIndex   int64       `json:"endIndex"`
	TableCells []TableCell `json:"tableCells"`
}

// TableCell is one cell of a table row. Content holds the cell's blocks,
// normally a single paragraph.
type TableCell struct {
	StartIndex int64   `json:"startIndex"`
	EndIndex   int64   `json:"endIndex"`
	Content    []Block `json:"content"`
}

// Paragraph is a paragraph block.
type Paragraph struct {
	Elements []ParagraphElement `json:"elements"`
}

// ParagraphElement is one run within a paragraph.
type ParagraphElement struct {
	StartIndex int64    `json:"startIndex"`
	EndIndex   int64    `json:"endIndex"`
	TextRun    *TextRun `json:"textRun,omitempty"`
}

// TextRun is a contiguous run of text with uniform styling. Content
// includes the trailing newline the document engine appends to every
// paragraph.
type TextRun struct {
	Content string `json:"content"`
}
