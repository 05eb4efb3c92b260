package designation

var ruleLabels = map[string]string{
	"price":                          "Close vs 40-day average",
	"turnover":                       "Volume vs 40-day average",
	"volatility":                     "Daily range vs 40-day average",
	"minority_account_concentration": "Minority-account concentration",
	"abrupt_close_change":            "Abrupt close change",
	"rise_15d":                       "15-day cumulative rise",
	"specific_account_involvement":   "Specific-account involvement",
	"ultra_short_term_surge_3d":      "Ultra-short-term surge (3d)",
	"short_term_surge_5d":            "Short-term surge (5d)",
	"medium_term_surge_15d":          "Medium-term surge (15d)",
	"caution_repeat_surge":           "Repeated caution with rise",
}

// RuleLabel returns a display label for a rule key, or the key itself.
func RuleLabel(name string) string {
	if l, ok := ruleLabels[name]; ok {
		return l
	}
	return name
}

// ValueKind says how a rule's value and threshold read: "price" for a
// close level, "multiple" for a volume ratio, "percent" for fractional
// changes and ranges.
func ValueKind(name string) string {
	switch name {
	case "price":
		return "price"
	case "turnover":
		return "multiple"
	}
	return "percent"
}
