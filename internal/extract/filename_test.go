package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	got := SanitizeFilename("A/B:C*D?E<F>G|H   I")
	assert.Equal(t, "A-B-C-D-E-F-G-H I", got)
	assert.NotContains(t, got, "  ")
	for _, c := range `\/:"*?<>|` {
		assert.NotContains(t, got, string(c))
	}
}

func TestSanitizeFilename_RunsAndTrim(t *testing.T) {
	assert.Equal(t, "a-b", SanitizeFilename(`a\\//::b`))
	assert.Equal(t, "x y", SanitizeFilename("\t x \n\n y  "))
	assert.Equal(t, "", SanitizeFilename(""))
}

func TestSanitizeFilename_UnicodeWhitespace(t *testing.T) {
	assert.Equal(t, "IUPPS Ticket X", SanitizeFilename("IUPPS\u00a0\u00a0Ticket\v\vX"))
	assert.Equal(t, "a b c", SanitizeFilename("\u2003a\u3000b\u0085c\u00a0"))
	assert.Equal(t, "IUPPS Ticket X.txt", IUPPSFilename("IUPPS\u00a0Ticket\vX"))
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("é", 150)
	got := SanitizeFilename(long)
	assert.Equal(t, 100, utf8.RuneCountInString(got))
}

func TestOutputFilenames(t *testing.T) {
	assert.Equal(t, "Diggers_Hotline_Ticket_unknown.txt", DiggersFilename("unknown"))
	assert.Equal(t, "IUPPS 2024-05-14.txt", IUPPSFilename(" IUPPS 2024/05/14 "))
}
