package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRuleTableDropsBlankKeywords(t *testing.T) {
	rt := NewRuleTable([]Rule{
		{Keyword: "coffee", Category: "Dining"},
		{Keyword: "", Category: "Everything"},
		{Keyword: "   ", Category: "Spaces"},
		{Keyword: "fee", Category: "Bank Charges"},
	})
	assert.Equal(t, 2, rt.Len())
	assert.Equal(t, []Rule{
		{Keyword: "coffee", Category: "Dining"},
		{Keyword: "fee", Category: "Bank Charges"},
	}, rt.Rules())
}

func TestRuleTableRulesReturnsCopy(t *testing.T) {
	rt := NewRuleTable([]Rule{{Keyword: "coffee", Category: "Dining"}})
	rules := rt.Rules()
	rules[0].Category = "Changed"
	assert.Equal(t, "Dining", rt.Rules()[0].Category)
}

func TestRuleTableCategories(t *testing.T) {
	rt := NewRuleTable([]Rule{
		{Keyword: "coffee", Category: "Dining"},
		{Keyword: "uber", Category: "Transport"},
		{Keyword: "cafe", Category: "Dining"},
	})
	assert.Equal(t, []string{"Dining", "Transport"}, rt.Categories())
}

func TestRuleBlank(t *testing.T) {
	assert.True(t, Rule{}.Blank())
	assert.True(t, Rule{Keyword: "\t "}.Blank())
	assert.False(t, Rule{Keyword: " fee"}.Blank())
}
