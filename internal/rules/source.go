package rules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/cleared-dev/categorizer/internal/model"
	"github.com/cleared-dev/categorizer/internal/tabular"
)

// DefaultMaxSourceBytes caps how much of a remote rule source is read.
const DefaultMaxSourceBytes = 32 << 20

// Source yields the raw rule table. Implementations wrap read failures in
// model.ErrSourceUnavailable.
type Source interface {
	Fetch(ctx context.Context) (*model.Table, error)
	String() string
}

// Options tune how a source is opened.
type Options struct {
	// Sheet selects the workbook sheet for spreadsheet sources.
	Sheet string
	// Timeout bounds remote fetches. Zero means no timeout.
	Timeout time.Duration
}

// NewSource picks a Source implementation from the location string:
// gs://bucket/object, http(s)://..., sqlite://path.db[?table=name], or a
// local file path.
func NewSource(location string, opts Options) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, errors.New("rule source is empty")
	case strings.HasPrefix(location, "gs://"):
		bucket, object, err := parseGCSURI(location)
		if err != nil {
			return nil, err
		}
		return &GCSSource{Bucket: bucket, Object: object, Sheet: opts.Sheet, Timeout: opts.Timeout}, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return &HTTPSource{URL: location, Sheet: opts.Sheet, Timeout: opts.Timeout}, nil
	case strings.HasPrefix(location, "sqlite://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parsing sqlite source: %w", err)
		}
		path := u.Host + u.Path
		if path == "" {
			return nil, fmt.Errorf("sqlite source %q has no database path", location)
		}
		return &SQLiteSource{Path: path, Table: u.Query().Get("table")}, nil
	default:
		return &FileSource{Path: location, Sheet: opts.Sheet}, nil
	}
}

// readAtMost reads r fully, failing rather than truncating when it holds
// more than limit bytes. A non-positive limit means DefaultMaxSourceBytes.
func readAtMost(r io.Reader, limit int64, name string) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxSourceBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", model.ErrSourceUnavailable, name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", model.ErrSourceUnavailable, name, limit)
	}
	return data, nil
}

// parseRuleData reads fetched bytes as a spreadsheet, falling back to CSV.
func parseRuleData(name string, data []byte, sheet string) (*model.Table, error) {
	a, err := tabular.Detect(data, &tabular.XLSX{Sheet: sheet}, &tabular.CSV{})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrMalformedSource, name, err)
	}
	return a.Table, nil
}
