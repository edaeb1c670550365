// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package docedit builds batchUpdate requests against the located
// tables. Requests in one batch are applied by the document engine in
// array order against offsets computed from the pre-batch document, so
// every builder here emits text insertions right-to-left (highest
// offset first) and puts the row insertion last. That ordering is a
// correctness invariant, not an optimization: a lower-offset insertion
// would shift every offset after it and corrupt the later writes.
package docedit

import (
	"time"

	"github.com/docshell-project/docshell/lib/doctree"
	"github.com/docshell-project/docshell/lib/gate"
)

// Template text inserted during one-time setup. Part of the remote
// document contract (the locator and the operator both rely on it).
const (
	CommandHeader  = "Command"
	OutputHeader   = "Output"
	DatetimeHeader = "Datetime"
	Placeholder    = "Insert command below"
)

// DatetimeFormat renders timestamps for the datetime column.
const DatetimeFormat = "2006-01-02 15:04:05"

// Request is one batchUpdate operation. Exactly one field is set.
type Request struct {
	InsertText     *InsertText     `json:"insertText,omitempty"`
	InsertTable    *InsertTable    `json:"insertTable,omitempty"`
	InsertTableRow *InsertTableRow `json:"insertTableRow,omitempty"`
}

// InsertText inserts text at a character offset.
type InsertText struct {
	Location Location `json:"location"`
	Text     string   `json:"text"`
}

// Location addresses a character offset in the document body.
type Location struct {
	Index int64 `json:"index"`
}

// InsertTable appends a table at the end of the body segment.
type InsertTable struct {
	Rows                 int                  `json:"rows"`
	Columns              int                  `json:"columns"`
	EndOfSegmentLocation EndOfSegmentLocation `json:"endOfSegmentLocation"`
}

// EndOfSegmentLocation addresses the end of a document segment. The
// empty segment ID means the document body.
type EndOfSegmentLocation struct {
	SegmentID string `json:"segmentId"`
}

// InsertTableRow inserts a row adjacent to an existing one.
type InsertTableRow struct {
	TableCellLocation TableCellLocation `json:"tableCellLocation"`
	InsertBelow       bool              `json:"insertBelow"`
}

// TableCellLocation addresses a cell by table start index and row/column.
type TableCellLocation struct {
	TableStartLocation Location `json:"tableStartLocation"`
	RowIndex           int      `json:"rowIndex"`
	ColumnIndex        int      `json:"columnIndex"`
}

func insertText(index int64, text string) Request {
	return Request{InsertText: &InsertText{Location: Location{Index: index}, Text: text}}
}

// NewTableRequests returns the setup-time table insertions: the 1-column
// command table and the 3-column output table, two rows each. Each
// request must be submitted in its own batch — batching both insertions
// together yields a single table.
func NewTableRequests() [][]Request {
	batches := make([][]Request, 0, 2)
	for _, columns := range []int{1, 3} {
		batches = append(batches, []Request{{
			InsertTable: &InsertTable{
				Rows:                 2,
				Columns:              columns,
				EndOfSegmentLocation: EndOfSegmentLocation{SegmentID: ""},
			},
		}})
	}
	return batches
}

// TemplateRequests returns the four header insertions for freshly
// created tables, right-to-left: the output table's datetime, output,
// and command headers, then the command table's placeholder (the
// lowest offset in the document, so it goes last).
func TemplateRequests(targets doctree.TemplateTargets) []Request {
	return []Request{
		insertText(targets.DatetimeHeader, DatetimeHeader),
		insertText(targets.OutputHeader, OutputHeader),
		insertText(targets.CommandHeader, CommandHeader),
		insertText(targets.Placeholder, Placeholder),
	}
}

// AppendRequests returns the single atomic batch that records one gate
// result in the output table: datetime into column 2, output into
// column 1, command into column 0, then a fresh empty row below the
// current last row. The row insertion goes last so it cannot shift the
// three text targets.
//
// A NoCommand result yields nil: no command was present this cycle and
// the document must not be touched.
func AppendRequests(result gate.Result, point doctree.AppendPoint, now time.Time) []Request {
	output := result.DocumentOutput()
	if output == "" {
		return nil
	}

	return []Request{
		insertText(point.CellOffsets[2], now.Format(DatetimeFormat)),
		insertText(point.CellOffsets[1], output),
		insertText(point.CellOffsets[0], result.Command),
		{
			InsertTableRow: &InsertTableRow{
				TableCellLocation: TableCellLocation{
					TableStartLocation: Location{Index: point.TableStartIndex},
					RowIndex:           point.RowIndex,
					ColumnIndex:        0,
				},
				InsertBelow: true,
			},
		},
	}
}
