package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/cleared-dev/categorizer/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV reads and writes comma-separated text with a header row.
type CSV struct{}

// Format returns the codec name.
func (c *CSV) Format() string { return "csv" }

// Parse reads a header row and typed data rows. Empty fields become Null;
// rows shorter than the header are padded.
func (c *CSV) Parse(r io.Reader) (*model.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return nil, errors.New("input is not UTF-8 text")
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("no columns to parse")
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = model.HeaderName(h, i)
	}
	tbl := model.NewTable(cols)

	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		cells := make([]model.Value, len(rec))
		for i, raw := range rec {
			cells[i] = model.InferValue(raw)
		}
		if err := tbl.AppendRow(cells); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
	}
	return tbl, nil
}

// Write writes the header and every row as text.
func (c *CSV) Write(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
