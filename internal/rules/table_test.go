package rules

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/categorizer/internal/model"
	"github.com/cleared-dev/categorizer/internal/tabular"
)

func readTestdata(t *testing.T, name string) *model.Table {
	t.Helper()
	f, err := os.Open("../../testdata/" + name)
	require.NoError(t, err)
	defer f.Close()
	tbl, err := (&tabular.CSV{}).Parse(f)
	require.NoError(t, err)
	return tbl
}

func TestFromTable_Testdata(t *testing.T) {
	rt, err := FromTable(readTestdata(t, "master.csv"))
	require.NoError(t, err)

	// The row with an empty keyword is dropped.
	require.Equal(t, 5, rt.Len())
	assert.Equal(t, model.Rule{Keyword: "coffee", Category: "Dining"}, rt.Rules()[0])
	assert.Equal(t, model.Rule{Keyword: "fee", Category: "Bank Charges"}, rt.Rules()[1])
	assert.Equal(t, model.Rule{Keyword: "starbucks", Category: "Coffee Shops"}, rt.Rules()[4])
}

func TestFromTable_MissingColumns(t *testing.T) {
	_, err := FromTable(readTestdata(t, "bad_rules.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMalformedSource)
	assert.Contains(t, err.Error(), `"Key Word"`)
	assert.Contains(t, err.Error(), `"Category"`)
}

func TestFromTable_CoercesCells(t *testing.T) {
	tbl := model.NewTable([]string{"Category", "Key Word", "Notes"})
	require.NoError(t, tbl.AppendRow([]model.Value{model.InferValue("42"), model.InferValue("7")}))
	require.NoError(t, tbl.AppendRow([]model.Value{model.StringValue("Dining"), model.NullValue()}))
	require.NoError(t, tbl.AppendRow([]model.Value{model.NullValue(), model.StringValue("misc")}))

	rt, err := FromTable(tbl)
	require.NoError(t, err)
	assert.Equal(t, []model.Rule{
		{Keyword: "7", Category: "42"},
		{Keyword: "misc", Category: ""},
	}, rt.Rules())
}

func TestToTableRoundTrip(t *testing.T) {
	starter := StarterRules()
	rt, err := FromTable(ToTable(starter))
	require.NoError(t, err)
	assert.Equal(t, starter, rt.Rules())
}

func TestStarterRules(t *testing.T) {
	rules := StarterRules()
	require.NotEmpty(t, rules)
	for _, r := range rules {
		assert.False(t, r.Blank(), "starter rule for %q has a blank keyword", r.Category)
		assert.NotEmpty(t, r.Category, "starter rule %q has no category", r.Keyword)
		assert.NotEqual(t, model.Uncategorized, r.Category)
	}
}
