package rules

import "github.com/cleared-dev/categorizer/internal/model"

// StarterRules returns the rule table written by init. More specific
// keywords come first because the first matching rule wins.
func StarterRules() []model.Rule {
	return []model.Rule{
		{Keyword: "overdraft", Category: "Bank Charges"},
		{Keyword: "service charge", Category: "Bank Charges"},
		{Keyword: "payroll", Category: "Payroll"},
		{Keyword: "invoice", Category: "Sales"},
		{Keyword: "deposit", Category: "Sales"},
		{Keyword: "github", Category: "Software & SaaS"},
		{Keyword: "aws", Category: "Software & SaaS"},
		{Keyword: "google", Category: "Advertising & Marketing"},
		{Keyword: "facebook", Category: "Advertising & Marketing"},
		{Keyword: "staples", Category: "Office Supplies"},
		{Keyword: "usps", Category: "Shipping & Postage"},
		{Keyword: "fedex", Category: "Shipping & Postage"},
		{Keyword: "uber", Category: "Travel"},
		{Keyword: "airline", Category: "Travel"},
		{Keyword: "coffee", Category: "Meals"},
		{Keyword: "restaurant", Category: "Meals"},
		{Keyword: "fee", Category: "Bank Charges"},
	}
}
