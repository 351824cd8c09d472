package fields

import (
	"regexp"
	"strings"
)

// Rule extracts one field from free text. Rules sharing a Field form a
// fallback chain evaluated in declaration order.
type Rule struct {
	Field   string
	Pattern *regexp.Regexp
	Group   int

	// Until, when set, cuts the captured value at its first match.
	Until *regexp.Regexp
}

// LineRule matches `label: value` case-insensitively and captures the rest of
// the line. The separator never crosses a line break, so an empty value
// stays empty instead of swallowing the next line.
func LineRule(field, label string) Rule {
	return Rule{
		Field:   field,
		Pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `[ \t]*:[ \t]*([^\r\n]*)`),
		Group:   1,
	}
}

// Apply evaluates a single rule against text and returns the trimmed capture.
func (r Rule) Apply(text string) string {
	if r.Pattern == nil {
		return ""
	}
	m := r.Pattern.FindStringSubmatch(text)
	if m == nil || r.Group >= len(m) {
		return ""
	}
	v := m[r.Group]
	if r.Until != nil {
		if loc := r.Until.FindStringIndex(v); loc != nil {
			v = v[:loc[0]]
		}
	}
	return strings.TrimSpace(v)
}

// ExtractPatterns runs rules over text. For each field the first rule with a
// non-empty capture wins; fields with no match map to "". Every field named by
// a rule is present in the result.
func ExtractPatterns(text string, rules []Rule) map[string]string {
	out := make(map[string]string, len(rules))
	for _, r := range rules {
		if out[r.Field] != "" {
			continue
		}
		out[r.Field] = r.Apply(text)
	}
	return out
}
