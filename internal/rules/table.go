package rules

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/categorizer/internal/model"
)

// FromTable converts a raw table with "Key Word" and "Category" columns into
// a RuleTable, keeping row order. Rows with a null or blank keyword are
// dropped. Other columns are ignored.
func FromTable(t *model.Table) (*model.RuleTable, error) {
	var missing []string
	for _, c := range []string{model.ColumnKeyword, model.ColumnCategory} {
		if !t.HasColumn(c) {
			missing = append(missing, fmt.Sprintf("%q", c))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column %s (have %s)",
			model.ErrMalformedSource, strings.Join(missing, ", "), strings.Join(t.Columns, ", "))
	}

	keywords, _ := t.Column(model.ColumnKeyword)
	categories, _ := t.Column(model.ColumnCategory)

	rules := make([]model.Rule, 0, len(keywords))
	for i, kw := range keywords {
		if kw.IsNull() {
			continue
		}
		rules = append(rules, model.Rule{
			Keyword:  kw.String(),
			Category: categories[i].String(),
		})
	}
	return model.NewRuleTable(rules), nil
}

// ToTable converts rules back into a two-column "Key Word"/"Category" table.
func ToTable(rules []model.Rule) *model.Table {
	t := model.NewTable([]string{model.ColumnKeyword, model.ColumnCategory})
	for _, r := range rules {
		t.Rows = append(t.Rows, []model.Value{
			model.StringValue(r.Keyword),
			model.StringValue(r.Category),
		})
	}
	return t
}
