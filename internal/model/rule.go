package model

import "strings"

// Uncategorized is assigned to transactions that match no rule.
const Uncategorized = "Uncategorized"

// Rule maps a description keyword to a category.
type Rule struct {
	Keyword  string
	Category string
}

// Blank reports whether the rule has no usable keyword. Blank rules would
// match every description, so they never take part in matching.
func (r Rule) Blank() bool {
	return strings.TrimSpace(r.Keyword) == ""
}

// RuleTable is an ordered, immutable list of rules. Earlier rules take
// precedence over later ones.
type RuleTable struct {
	rules []Rule
}

// NewRuleTable copies rules in order, dropping blank keywords.
func NewRuleTable(rules []Rule) *RuleTable {
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Blank() {
			continue
		}
		kept = append(kept, r)
	}
	return &RuleTable{rules: kept}
}

// Len returns the number of rules.
func (rt *RuleTable) Len() int { return len(rt.rules) }

// Rules returns a copy of the rules in table order.
func (rt *RuleTable) Rules() []Rule {
	out := make([]Rule, len(rt.rules))
	copy(out, rt.rules)
	return out
}

// Categories returns the distinct category names in first-seen order.
func (rt *RuleTable) Categories() []string {
	seen := make(map[string]bool, len(rt.rules))
	var out []string
	for _, r := range rt.rules {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}
