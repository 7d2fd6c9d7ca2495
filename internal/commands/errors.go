package commands

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/categorizer/internal/model"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitMalformed   = 2
	ExitUnavailable = 3
	ExitUnsupported = 4
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by the root command to a process exit code.
// A malformed source takes precedence because unreadable rule files are
// reported as malformed with the parse failures attached.
func ExitCode(err error) int {
	var ee *exitErr
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, model.ErrMalformedSource):
		return ExitMalformed
	case errors.Is(err, model.ErrSourceUnavailable):
		return ExitUnavailable
	case errors.Is(err, model.ErrUnsupportedFormat):
		return ExitUnsupported
	default:
		return ExitFailure
	}
}
