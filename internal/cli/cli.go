// Package cli holds presentation helpers shared by cmd/padd's subcommands:
// wrapping error previews and help text to a terminal width. Grounded on
// the teacher's use of github.com/dekarrin/rosed to wrap console output
// (engine.go's consoleOutputWidth wrapping of in-game messages).
package cli

import (
	"fmt"
	"io"

	"github.com/dekarrin/rosed"
)

// DefaultWidth is used when the terminal width cannot be determined.
const DefaultWidth = 80

// WrapError formats err's full cause chain (as perrors.Report would print
// it) as a single preview, word-wrapped to width.
func WrapError(err error, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	var lines []string
	for e := err; e != nil; e = unwrap(e) {
		lines = append(lines, e.Error())
	}

	text := ""
	for i, l := range lines {
		if i > 0 {
			text += "\ncaused by: "
		}
		text += l
	}

	return rosed.Edit(text).Wrap(width).String()
}

// ReportError writes err's wrapped preview to w, terminated by a newline.
func ReportError(w io.Writer, err error, width int) {
	fmt.Fprintln(w, WrapError(err, width))
}

// Help formats doc (a raw usage string, typically a package doc comment)
// wrapped to width.
func Help(doc string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return rosed.Edit(doc).Wrap(width).String()
}

func unwrap(err error) error {
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return u.Unwrap()
	}
	return nil
}
