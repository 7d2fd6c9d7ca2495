package rules

import (
	"context"
	"fmt"
	"os"

	"github.com/cleared-dev/categorizer/internal/model"
)

// FileSource reads a rule table from a local .xlsx or .csv file.
type FileSource struct {
	Path  string
	Sheet string
}

// Fetch reads and parses the file.
func (s *FileSource) Fetch(_ context.Context) (*model.Table, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", model.ErrSourceUnavailable, s.Path, err)
	}
	return parseRuleData(s.Path, data, s.Sheet)
}

func (s *FileSource) String() string { return s.Path }
