package tui

import (
	"bufio"
	"fmt"
	"io"

	"github.com/starford/lineview/internal/lineview"
)

// Print writes the view as plain text, one line per view line. The document
// title is not printed. Title lines are prefixed with "-- " and warnings with
// "[warning] ". With withArgs, lines carrying a command are followed by the
// argument vector they would run.
func Print(w io.Writer, v *lineview.View, withArgs bool) error {
	bw := bufio.NewWriter(w)
	for _, l := range v.Lines() {
		switch {
		case l.IsTitle():
			fmt.Fprintf(bw, "-- %s\n", l.Text())
		case l.IsWarning():
			fmt.Fprintf(bw, "[warning] %s\n", l.Text())
		default:
			fmt.Fprintln(bw, l.Text())
		}
		if withArgs && l.HasCommand() {
			fmt.Fprintf(bw, "\t%q\n", l.Args())
		}
	}
	return bw.Flush()
}
