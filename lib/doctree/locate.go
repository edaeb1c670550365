// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package doctree

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// commandTableBlock is the fixed position of the command table: the
	// third top-level block, after the document's leading section break
	// and title paragraph.
	commandTableBlock = 2

	// setupOutputTableBlock is the position of the output table in a
	// freshly templated document: a line-break paragraph follows the
	// command table, so the output table lands at block 4. Steady-state
	// lookups use the end of the block list instead, because the output
	// table grows but always stays the last table.
	setupOutputTableBlock = 4

	commandTableColumns = 1
	outputTableColumns  = 3
)

// ShapeError reports a document that violates the fixed structural
// layout docshell requires. It names the offending block so the
// operator can see which precondition broke instead of docshell
// silently mutating the wrong part of the document.
type ShapeError struct {
	// Block is the top-level block index that was inspected.
	Block int
	// Want describes the expected structure at that position.
	Want string
	// Got describes what was actually found.
	Got string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("doctree: document shape violation at block %d: want %s, got %s", e.Block, e.Want, e.Got)
}

// IsShapeError reports whether err is a *ShapeError.
func IsShapeError(err error) bool {
	var shapeErr *ShapeError
	return errors.As(err, &shapeErr)
}

// AppendPoint addresses the insertion targets for one output row: the
// output table's start index (for the row insert), the index of its
// current last row, and the text insertion offset of each of the three
// cells in that row.
type AppendPoint struct {
	TableStartIndex int64
	RowIndex        int
	// CellOffsets holds the insertion offset for columns 0 (command),
	// 1 (output), and 2 (datetime): cell start index + 1.
	CellOffsets [3]int64
}

// TemplateTargets addresses the four header-cell insertion offsets of a
// freshly created, still-empty pair of tables.
type TemplateTargets struct {
	CommandHeader  int64 // output table row 0, column 0
	OutputHeader   int64 // output table row 0, column 1
	DatetimeHeader int64 // output table row 0, column 2
	Placeholder    int64 // command table row 0, column 0
}

// CommandTable returns the command table: the block at the fixed command
// position, which must be a 1-column table with at least two rows.
func (d *Document) CommandTable() (*Table, error) {
	table, err := d.tableAt(commandTableBlock, commandTableColumns)
	if err != nil {
		return nil, err
	}
	if len(table.TableRows) < 2 {
		return nil, &ShapeError{
			Block: commandTableBlock,
			Want:  "command table with header and command rows",
			Got:   fmt.Sprintf("table with %d row(s)", len(table.TableRows)),
		}
	}
	return table, nil
}

// OutputTable returns the output table and its block start index. The
// output table is the second-from-last block: a blank paragraph always
// trails the last table in the document.
func (d *Document) OutputTable() (*Table, int64, error) {
	position := len(d.Body.Content) - 2
	if position < 0 {
		return nil, 0, &ShapeError{
			Block: position,
			Want:  "output table near the end of the document",
			Got:   fmt.Sprintf("document with %d block(s)", len(d.Body.Content)),
		}
	}
	table, err := d.tableAt(position, outputTableColumns)
	if err != nil {
		return nil, 0, err
	}
	if len(table.TableRows) == 0 {
		return nil, 0, &ShapeError{
			Block: position,
			Want:  "output table with at least the header row",
			Got:   "table with 0 rows",
		}
	}
	return table, d.Body.Content[position].StartIndex, nil
}

// ReadCommand extracts the user-typed command from the command cell:
// row 1, column 0 of the command table. Surrounding whitespace
// (including the paragraph's trailing newline) is trimmed. An empty
// string means the user has not typed a command.
func (d *Document) ReadCommand() (string, error) {
	table, err := d.CommandTable()
	if err != nil {
		return "", err
	}

	cells := table.TableRows[1].TableCells
	if len(cells) == 0 {
		return "", &ShapeError{
			Block: commandTableBlock,
			Want:  "command row with one cell",
			Got:   "row with 0 cells",
		}
	}

	text, err := cellText(cells[0])
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// AppendPoint computes the insertion targets for the next output row:
// the last row of the output table and its three cell offsets.
func (d *Document) AppendPoint() (AppendPoint, error) {
	table, tableStart, err := d.OutputTable()
	if err != nil {
		return AppendPoint{}, err
	}

	rowIndex := len(table.TableRows) - 1
	cells := table.TableRows[rowIndex].TableCells
	if len(cells) != outputTableColumns {
		return AppendPoint{}, &ShapeError{
			Block: len(d.Body.Content) - 2,
			Want:  fmt.Sprintf("output row with %d cells", outputTableColumns),
			Got:   fmt.Sprintf("row with %d cell(s)", len(cells)),
		}
	}

	point := AppendPoint{
		TableStartIndex: tableStart,
		RowIndex:        rowIndex,
	}
	for i := range point.CellOffsets {
		point.CellOffsets[i] = cells[i].StartIndex + 1
	}
	return point, nil
}

// TemplateTargets computes the header-cell insertion offsets of a
// freshly created document, where the command table sits at block 2 and
// the output table at block 4 (separated by the line break the document
// engine inserts between tables).
func (d *Document) TemplateTargets() (TemplateTargets, error) {
	commandTable, err := d.tableAt(commandTableBlock, commandTableColumns)
	if err != nil {
		return TemplateTargets{}, err
	}
	outputTable, err := d.tableAt(setupOutputTableBlock, outputTableColumns)
	if err != nil {
		return TemplateTargets{}, err
	}
	if len(commandTable.TableRows) == 0 || len(outputTable.TableRows) == 0 {
		return TemplateTargets{}, &ShapeError{
			Block: commandTableBlock,
			Want:  "templated tables with header rows",
			Got:   "table with 0 rows",
		}
	}

	outputCells := outputTable.TableRows[0].TableCells
	commandCells := commandTable.TableRows[0].TableCells
	if len(outputCells) != outputTableColumns || len(commandCells) != commandTableColumns {
		return TemplateTargets{}, &ShapeError{
			Block: setupOutputTableBlock,
			Want:  "header rows with 3 and 1 cells",
			Got:   fmt.Sprintf("rows with %d and %d cell(s)", len(outputCells), len(commandCells)),
		}
	}

	return TemplateTargets{
		CommandHeader:  outputCells[0].StartIndex + 1,
		OutputHeader:   outputCells[1].StartIndex + 1,
		DatetimeHeader: outputCells[2].StartIndex + 1,
		Placeholder:    commandCells[0].StartIndex + 1,
	}, nil
}

// tableAt returns the table at block index position, verifying both the
// block kind and the column count.
func (d *Document) tableAt(position, columns int) (*Table, error) {
	if position < 0 || position >= len(d.Body.Content) {
		return nil, &ShapeError{
			Block: position,
			Want:  "a table block",
			Got:   fmt.Sprintf("document with %d block(s)", len(d.Body.Content)),
		}
	}
	block := d.Body.Content[position]
	if block.Table == nil {
		kind := "empty block"
		if block.Paragraph != nil {
			kind = "paragraph"
		}
		return nil, &ShapeError{
			Block: position,
			Want:  "a table block",
			Got:   kind,
		}
	}
	if block.Table.Columns != columns {
		return nil, &ShapeError{
			Block: position,
			Want:  fmt.Sprintf("table with %d column(s)", columns),
			Got:   fmt.Sprintf("table with %d column(s)", block.Table.Columns),
		}
	}
	return block.Table, nil
}

// cellText returns the text of the first paragraph element in a cell.
func cellText(cell TableCell) (string, error) {
	if len(cell.Content) == 0 || cell.Content[0].Paragraph == nil {
		return "", &ShapeError{
			Block: commandTableBlock,
			Want:  "cell containing a paragraph",
			Got:   "cell without paragraph content",
		}
	}
	paragraph := cell.Content[0].Paragraph
	if len(paragraph.Elements) == 0 || paragraph.Elements[0].TextRun == nil {
		return "", &ShapeError{
			Block: commandTableBlock,
			Want:  "paragraph with a text run",
			Got:   "paragraph without text",
		}
	}
	return paragraph.Elements[0].TextRun.Content, nil
}
