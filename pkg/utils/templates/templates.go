// Package templates normalizes the Long and Example text of cobra commands.
package templates

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mitchellh/go-wordwrap"
)

const helpWidth = 80

// LongDesc dedents and rewraps a command's long description.
func LongDesc(s string) string {
	if s == "" {
		return s
	}
	out := heredoc.Doc(strings.TrimSpace(s))
	return wordwrap.WrapString(out, helpWidth)
}

// Examples dedents example text and indents every line so help output
// lines up with cobra's "Examples:" section.
func Examples(s string) string {
	if s == "" {
		return s
	}
	out := heredoc.Doc(strings.TrimSpace(s))
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = "  " + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
