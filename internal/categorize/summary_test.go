package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/categorizer/internal/model"
)

func TestSummarize(t *testing.T) {
	in := statement(t,
		model.StringValue("coffee"),
		model.StringValue("fee"),
		model.StringValue("latte and coffee"),
		model.NullValue(),
	)
	out, err := Categorize(in, ruleTable("coffee", "Dining", "fee", "Bank Charges"))
	assert.NoError(t, err)

	s := Summarize(out)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 3, s.Matched)
	assert.Equal(t, 1, s.Uncategorized)
	assert.Equal(t, []CategoryCount{
		{Category: "Dining", Rows: 2},
		{Category: "Bank Charges", Rows: 1},
		{Category: model.Uncategorized, Rows: 1},
	}, s.ByCategory)
}

func TestSummarize_NoColumn(t *testing.T) {
	in := statement(t, model.StringValue("coffee"))
	s := Summarize(in)
	assert.Equal(t, 1, s.Rows)
	assert.Equal(t, 1, s.Uncategorized)
	assert.Empty(t, s.ByCategory)
}
