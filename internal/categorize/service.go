package categorize

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/categorizer/internal/model"
	"github.com/cleared-dev/categorizer/internal/runlog"
	"github.com/cleared-dev/categorizer/internal/tabular"
)

// RuleLoader provides the rule table.
type RuleLoader interface {
	LoadRuleTable(ctx context.Context) (*model.RuleTable, error)
}

// Recorder stores a history entry per run.
type Recorder interface {
	Record(e runlog.Entry) error
}

// Upload is a statement file as received from the user.
type Upload struct {
	Name string
	Data []byte
}

// Result is the outcome of one categorization run.
type Result struct {
	RunID   string
	Format  string
	Input   *model.Table
	Output  *model.Table
	Summary Summary
}

// Service runs statements through parsing and categorization.
type Service struct {
	rules  RuleLoader
	codecs []tabular.Codec
	runs   Recorder
	log    zerolog.Logger
	now    func() time.Time
}

// NewService creates a Service. codecs are tried in order when parsing an
// upload; runs may be nil.
func NewService(rules RuleLoader, codecs []tabular.Codec, runs Recorder, log zerolog.Logger) *Service {
	return &Service{rules: rules, codecs: codecs, runs: runs, log: log, now: time.Now}
}

// Rules returns the rule table the service categorizes with.
func (s *Service) Rules(ctx context.Context) (*model.RuleTable, error) {
	return s.rules.LoadRuleTable(ctx)
}

// Run parses the upload, categorizes every row and records the run. Either
// the whole statement is categorized or an error is returned.
func (s *Service) Run(ctx context.Context, up Upload) (*Result, error) {
	rules, err := s.rules.LoadRuleTable(ctx)
	if err != nil {
		return nil, err
	}

	parsed, err := tabular.Detect(up.Data, s.codecs...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", up.Name, err)
	}

	out, err := Categorize(parsed.Table, rules)
	if err != nil {
		return nil, fmt.Errorf("categorizing %s: %w", up.Name, err)
	}

	res := &Result{
		RunID:   uuid.NewString(),
		Format:  parsed.Format,
		Input:   parsed.Table,
		Output:  out,
		Summary: Summarize(out),
	}

	s.log.Info().
		Str("run_id", res.RunID).
		Str("input", up.Name).
		Str("format", res.Format).
		Int("rows", res.Summary.Rows).
		Int("matched", res.Summary.Matched).
		Int("uncategorized", res.Summary.Uncategorized).
		Msg("Categorized statement")

	if s.runs != nil {
		err := s.runs.Record(runlog.Entry{
			Timestamp:     s.now().UTC(),
			RunID:         res.RunID,
			Input:         up.Name,
			Format:        res.Format,
			Rows:          res.Summary.Rows,
			Matched:       res.Summary.Matched,
			Uncategorized: res.Summary.Uncategorized,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("run_id", res.RunID).Msg("Failed to write run log")
		}
	}

	return res, nil
}
