package rules

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/categorizer/internal/model"
)

// Loader fetches the rule table once and serves the cached copy afterwards.
// It is safe for concurrent use; concurrent first calls share one fetch.
type Loader struct {
	source Source
	log    zerolog.Logger

	mu    sync.Mutex
	rules *model.RuleTable
}

// NewLoader creates a Loader for source.
func NewLoader(source Source, log zerolog.Logger) *Loader {
	return &Loader{source: source, log: log}
}

// Source returns the configured rule source.
func (l *Loader) Source() Source { return l.source }

// LoadRuleTable returns the cached rule table, fetching it on first use.
// Failed fetches are not cached.
func (l *Loader) LoadRuleTable(ctx context.Context) (*model.RuleTable, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rules != nil {
		return l.rules, nil
	}

	raw, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading rules from %s: %w", l.source, err)
	}
	rt, err := FromTable(raw)
	if err != nil {
		return nil, fmt.Errorf("loading rules from %s: %w", l.source, err)
	}

	l.log.Info().
		Str("source", l.source.String()).
		Int("rules", rt.Len()).
		Int("skipped", raw.Len()-rt.Len()).
		Msg("Loaded rule table")

	l.rules = rt
	return rt, nil
}
