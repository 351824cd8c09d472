package fields

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineRule(t *testing.T) {
	r := LineRule("company", "Company")
	assert.Equal(t, "Acme Corp", r.Apply("Ticket\ncompany :  Acme Corp  \nType: X"))
	assert.Equal(t, "", r.Apply("no label here"))
}

func TestLineRule_EmptyValueDoesNotCrossLines(t *testing.T) {
	r := LineRule("phone", "Phone")
	assert.Equal(t, "", r.Apply("Phone:\nMobile: 555"))
}

func TestRule_Until(t *testing.T) {
	r := LineRule("caller", "Caller")
	r.Until = regexp.MustCompile(`(?i)\s*(Phone|Mobile)\s*:`)
	assert.Equal(t, "Jane Doe", r.Apply("Caller: Jane Doe Phone: 555-1111"))
	assert.Equal(t, "Jane Doe", r.Apply("Caller: Jane Doe"))
}

func TestRule_GroupOutOfRange(t *testing.T) {
	r := Rule{Field: "x", Pattern: regexp.MustCompile(`a(b)`), Group: 3}
	assert.Equal(t, "", r.Apply("ab"))
	assert.Equal(t, "", Rule{Field: "x"}.Apply("ab"))
}

func TestExtractPatterns_FallbackChain(t *testing.T) {
	rules := []Rule{
		LineRule("phone", "Phone"),
		LineRule("phone", "Mobile"),
		LineRule("email", "Email"),
	}

	got := ExtractPatterns("Phone:\nMobile: 555-2222", rules)
	assert.Equal(t, map[string]string{"phone": "555-2222", "email": ""}, got)

	got = ExtractPatterns("Phone: 555-1111\nMobile: 555-2222", rules)
	assert.Equal(t, "555-1111", got["phone"])
}
