package tabular

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/categorizer/internal/model"
)

// DefaultSheet is the sheet name used when writing workbooks.
const DefaultSheet = "Sheet1"

// ContentTypeXLSX is the MIME type of workbooks produced by Write.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// XLSX reads and writes Office Open XML workbooks. The first row of the
// sheet is the header.
type XLSX struct {
	// Sheet selects the sheet to read. Empty means the first sheet.
	Sheet string
}

// Format returns the codec name.
func (x *XLSX) Format() string { return "xlsx" }

// Parse reads one sheet of a workbook.
func (x *XLSX) Parse(r io.Reader) (*model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet, err := x.pickSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return model.NewTable(nil), nil
	}

	// Trailing blank header cells are trimmed by the reader; widen the
	// header to the widest row.
	width := 0
	for _, rec := range rows {
		width = max(width, len(rec))
	}
	cols := make([]string, width)
	for i := range cols {
		h := ""
		if i < len(rows[0]) {
			h = rows[0][i]
		}
		cols[i] = model.HeaderName(h, i)
	}
	tbl := model.NewTable(cols)

	for i, rec := range rows[1:] {
		rowNum := i + 2
		cells := make([]model.Value, len(rec))
		for j, raw := range rec {
			v, err := cellValue(f, sheet, j+1, rowNum, raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
			cells[j] = v
		}
		if err := tbl.AppendRow(cells); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
	}
	return tbl, nil
}

func (x *XLSX) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	if x.Sheet == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == x.Sheet {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (have %s)", x.Sheet, strings.Join(sheets, ", "))
}

// cellValue types a formatted cell. Numeric cells whose display text is not
// a plain number (dates, currency formats) stay text.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) (model.Value, error) {
	if raw == "" {
		return model.NullValue(), nil
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return model.Value{}, err
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return model.Value{}, fmt.Errorf("cell %s: %w", name, err)
	}
	switch typ {
	case excelize.CellTypeBool:
		return model.BoolValue(raw == "1" || strings.EqualFold(raw, "TRUE")), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if d, err := decimal.NewFromString(raw); err == nil {
			return model.NumberValue(d), nil
		}
	}
	return model.StringValue(raw), nil
}

// Write encodes the table as a single-sheet workbook.
func (x *XLSX) Write(w io.Writer, t *model.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := DefaultSheet
	if x.Sheet != "" {
		if err := f.SetSheetName(DefaultSheet, x.Sheet); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
		sheet = x.Sheet
	}

	for j, col := range t.Columns {
		name, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, name, col); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, row := range t.Rows {
		for j, v := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := setCell(f, sheet, name, v); err != nil {
				return fmt.Errorf("writing row %d: %w", i+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet, name string, v model.Value) error {
	switch v.Kind() {
	case model.KindNumber:
		d, _ := v.Decimal()
		return f.SetCellDefault(sheet, name, d.String())
	case model.KindBool:
		b, _ := v.Bool()
		return f.SetCellBool(sheet, name, b)
	case model.KindString:
		return f.SetCellStr(sheet, name, v.String())
	default:
		return nil
	}
}
