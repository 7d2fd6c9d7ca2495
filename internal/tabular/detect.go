package tabular

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cleared-dev/categorizer/internal/model"
)

// Attempt is the outcome of running one codec over an input.
type Attempt struct {
	Format string
	Table  *model.Table
	Err    error
}

// OK reports whether the attempt produced a table.
func (a Attempt) OK() bool { return a.Err == nil && a.Table != nil }

// Try parses data with a single codec.
func Try(c Codec, data []byte) Attempt {
	tbl, err := c.Parse(bytes.NewReader(data))
	if err == nil && tbl == nil {
		err = errors.New("no table")
	}
	return Attempt{Format: c.Format(), Table: tbl, Err: err}
}

// Detect tries each codec in order and returns the first successful attempt.
// When every codec fails the error wraps model.ErrUnsupportedFormat and
// lists each attempt's failure.
func Detect(data []byte, codecs ...Codec) (Attempt, error) {
	if len(codecs) == 0 {
		return Attempt{}, fmt.Errorf("%w: no parsers configured", model.ErrUnsupportedFormat)
	}
	var errs []error
	for _, c := range codecs {
		a := Try(c, data)
		if a.OK() {
			return a, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", a.Format, a.Err))
	}
	return Attempt{}, fmt.Errorf("%w: %w", model.ErrUnsupportedFormat, errors.Join(errs...))
}
