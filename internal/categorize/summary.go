package categorize

import (
	"github.com/cleared-dev/categorizer/internal/model"
)

// CategoryCount is the number of rows assigned to one category.
type CategoryCount struct {
	Category string `json:"category"`
	Rows     int    `json:"rows"`
}

// Summary describes a categorized table.
type Summary struct {
	Rows          int             `json:"rows"`
	Matched       int             `json:"matched"`
	Uncategorized int             `json:"uncategorized"`
	ByCategory    []CategoryCount `json:"by_category"`
}

// Summarize counts rows per Categorization value, in first-seen order.
// Tables without a Categorization column count every row as uncategorized.
func Summarize(t *model.Table) Summary {
	s := Summary{Rows: t.Len()}
	values, ok := t.Column(model.ColumnCategorization)
	if !ok {
		s.Uncategorized = t.Len()
		return s
	}

	index := make(map[string]int)
	for _, v := range values {
		cat := v.String()
		if cat == model.Uncategorized || cat == "" {
			s.Uncategorized++
		} else {
			s.Matched++
		}
		i, seen := index[cat]
		if !seen {
			i = len(s.ByCategory)
			index[cat] = i
			s.ByCategory = append(s.ByCategory, CategoryCount{Category: cat})
		}
		s.ByCategory[i].Rows++
	}
	return s
}
