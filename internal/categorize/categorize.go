// Package categorize assigns a category to each statement row by matching
// its description against an ordered keyword rule table.
package categorize

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/categorizer/internal/model"
)

// matcher holds a rule with its keyword already lowercased.
type matcher struct {
	keyword  string
	category string
}

func compile(rules *model.RuleTable) []matcher {
	rs := rules.Rules()
	ms := make([]matcher, 0, len(rs))
	for _, r := range rs {
		if r.Blank() {
			continue
		}
		ms = append(ms, matcher{keyword: strings.ToLower(r.Keyword), category: r.Category})
	}
	return ms
}

// first returns the category of the first matcher whose keyword occurs in
// the lowercased description.
func first(ms []matcher, lowered string) string {
	for _, m := range ms {
		if strings.Contains(lowered, m.keyword) {
			return m.category
		}
	}
	return model.Uncategorized
}

// Match categorizes a single description. Matching is a case-insensitive
// substring test; the earliest matching rule wins. Null descriptions are
// treated as empty and come back Uncategorized.
func Match(description model.Value, rules *model.RuleTable) string {
	return first(compile(rules), description.Lower())
}

// Categorize returns a copy of transactions with a Categorization column.
// The input table is not modified. If the input already has a
// Categorization column its values are replaced in the copy; otherwise the
// column is appended after the existing ones.
func Categorize(transactions *model.Table, rules *model.RuleTable) (*model.Table, error) {
	descIdx := transactions.ColumnIndex(model.ColumnDescription)
	if descIdx < 0 {
		return nil, fmt.Errorf("%w: statement has no %q column (have %s)",
			model.ErrMalformedSource, model.ColumnDescription, strings.Join(transactions.Columns, ", "))
	}

	out := transactions.Clone()
	catIdx := out.ColumnIndex(model.ColumnCategorization)
	if catIdx < 0 {
		out.Columns = append(out.Columns, model.ColumnCategorization)
		catIdx = len(out.Columns) - 1
		for i := range out.Rows {
			out.Rows[i] = append(out.Rows[i], model.NullValue())
		}
	}

	ms := compile(rules)
	for _, row := range out.Rows {
		row[catIdx] = model.StringValue(first(ms, row[descIdx].Lower()))
	}
	return out, nil
}
