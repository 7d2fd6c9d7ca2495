package rules

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cleared-dev/categorizer/internal/model"
)

// HTTPSource downloads a rule table, e.g. a spreadsheet export URL.
type HTTPSource struct {
	URL     string
	Sheet   string
	Timeout time.Duration
	// MaxBytes caps the download; zero means DefaultMaxSourceBytes.
	MaxBytes int64
	// Client is used for the request; nil means a client with Timeout.
	Client *http.Client
}

// Fetch downloads and parses the rule table.
func (s *HTTPSource) Fetch(ctx context.Context) (*model.Table, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: s.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", model.ErrSourceUnavailable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", model.ErrSourceUnavailable, s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching %s: unexpected status %s", model.ErrSourceUnavailable, s.URL, resp.Status)
	}

	data, err := readAtMost(resp.Body, s.MaxBytes, s.URL)
	if err != nil {
		return nil, err
	}
	return parseRuleData(s.URL, data, s.Sheet)
}

func (s *HTTPSource) String() string { return s.URL }
