package extract

import (
	"regexp"
	"strings"
)

const maxFilenameRunes = 100

var forbiddenRuns = regexp.MustCompile(`[\\/:"*?<>|]+`)

// SanitizeFilename makes extracted text safe to use as a file name: runs of
// \ / : " * ? < > | become "-", Unicode whitespace (NBSP and \v included)
// collapses to single spaces, the result is trimmed and cut to 100 characters.
func SanitizeFilename(name string) string {
	name = forbiddenRuns.ReplaceAllString(name, "-")
	name = strings.Join(strings.Fields(name), " ")
	if r := []rune(name); len(r) > maxFilenameRunes {
		name = string(r[:maxFilenameRunes])
	}
	return name
}

// DiggersFilename is the output file name for a Diggers ticket.
func DiggersFilename(ticket string) string {
	return "Diggers_Hotline_Ticket_" + ticket + ".txt"
}

// IUPPSFilename is the output file name for an IUPPS ticket.
func IUPPSFilename(nameText string) string {
	return SanitizeFilename(nameText) + ".txt"
}
