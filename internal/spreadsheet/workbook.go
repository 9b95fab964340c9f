// internal/spreadsheet/workbook.go
package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	commonerrors "catalog-enricher/internal/common/errors"
	"catalog-enricher/internal/models"
)

// styleIdentifierColumns are the accepted header names for the style
// identifier, in preference order: the first one present wins.
var styleIdentifierColumns = []string{"Style Number", "Style No."}

const (
	columnStyleName   = "Style Name"
	columnQuality     = "Quality"
	columnB2CTags     = "B2C Tags"
	columnDescription = "Description"
)

// columnMap holds 1-based column indices; 0 means the column is absent.
type columnMap struct {
	styleID     int
	styleName   int
	quality     int
	b2cTags     int
	description int
}

// Workbook wraps one sheet of an xlsx file. Records resolves every row into
// an explicit ProductRecord once; Apply writes the mutated fields back into
// the same cells so all other columns survive untouched.
type Workbook struct {
	file  *excelize.File
	sheet string
	path  string
	cols  columnMap
	rows  [][]string
}

// Open reads the workbook and resolves the column layout. An unreadable
// file, a missing sheet or a missing required column is fatal for the run.
func Open(path, sheet string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, commonerrors.NewSpreadsheetReadFailedError(path, err)
	}

	if sheet == "" {
		sheet = file.GetSheetName(0)
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		file.Close()
		return nil, commonerrors.NewSpreadsheetReadFailedError(path, fmt.Errorf("sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 {
		file.Close()
		return nil, commonerrors.NewSpreadsheetReadFailedError(path, fmt.Errorf("sheet %q has no header row", sheet))
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		file.Close()
		return nil, commonerrors.NewSpreadsheetReadFailedError(path, err)
	}

	return &Workbook{file: file, sheet: sheet, path: path, cols: cols, rows: rows}, nil
}

func resolveColumns(header []string) (columnMap, error) {
	index := map[string]int{}
	for i, name := range header {
		index[strings.TrimSpace(name)] = i + 1
	}

	cols := columnMap{}
	for _, name := range styleIdentifierColumns {
		if col, ok := index[name]; ok {
			cols.styleID = col
			break
		}
	}
	if cols.styleID == 0 {
		return cols, fmt.Errorf("no style identifier column (expected one of %s)",
			strings.Join(styleIdentifierColumns, ", "))
	}
	cols.styleName = index[columnStyleName]
	if cols.styleName == 0 {
		return cols, fmt.Errorf("missing required column %q", columnStyleName)
	}
	cols.quality = index[columnQuality]
	cols.b2cTags = index[columnB2CTags]
	cols.description = index[columnDescription]
	return cols, nil
}

// Records resolves the data rows. Optional fields are absent when their
// column is missing entirely; an empty cell in an existing column is a
// present, empty value. Fully empty rows are skipped.
func (w *Workbook) Records() []models.ProductRecord {
	records := make([]models.ProductRecord, 0, len(w.rows)-1)
	for i, row := range w.rows[1:] {
		if rowEmpty(row) {
			continue
		}
		records = append(records, models.ProductRecord{
			RowIndex:           i + 1,
			StyleIdentifierRaw: cellAt(row, w.cols.styleID),
			StyleName:          cellAt(row, w.cols.styleName),
			Quality:            optionalCellAt(row, w.cols.quality),
			B2CTags:            optionalCellAt(row, w.cols.b2cTags),
			Description:        optionalCellAt(row, w.cols.description),
		})
	}
	return records
}

// Apply writes each record's Description and B2C Tags back into its row,
// creating the columns when the input sheet lacked them.
func (w *Workbook) Apply(records []models.ProductRecord) error {
	if err := w.ensureColumn(&w.cols.description, columnDescription); err != nil {
		return err
	}
	needTags := false
	for _, record := range records {
		if record.B2CTags.Present {
			needTags = true
			break
		}
	}
	if needTags {
		if err := w.ensureColumn(&w.cols.b2cTags, columnB2CTags); err != nil {
			return err
		}
	}

	for _, record := range records {
		sheetRow := record.RowIndex + 1
		if record.Description.Present {
			if err := w.setCell(w.cols.description, sheetRow, record.Description.Value); err != nil {
				return err
			}
		}
		if record.B2CTags.Present && w.cols.b2cTags != 0 {
			if err := w.setCell(w.cols.b2cTags, sheetRow, record.B2CTags.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveAs writes the workbook to the output path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return commonerrors.NewSpreadsheetWriteFailedError(path, err)
	}
	return nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) ensureColumn(col *int, name string) error {
	if *col != 0 {
		return nil
	}
	next := len(w.rows[0]) + 1
	if err := w.setCell(next, 1, name); err != nil {
		return err
	}
	w.rows[0] = append(w.rows[0], name)
	*col = next
	return nil
}

func (w *Workbook) setCell(col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := w.file.SetCellStr(w.sheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}

func cellAt(row []string, col int) string {
	if col == 0 || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

func optionalCellAt(row []string, col int) models.OptionalString {
	if col == 0 {
		return models.None()
	}
	if col > len(row) {
		return models.Some("")
	}
	return models.Some(strings.TrimSpace(row[col-1]))
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
