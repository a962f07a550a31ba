// Package printer renders a colored source snippet around an error mark,
// the only presentation concern this module keeps — re-rendering a full
// token/AST stream back to YAML text is an emitter concern and out of
// scope here (see DESIGN.md). Uses the same line-number gutter format and
// color/colorable wiring common to libyaml-derived error printers.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"

	"go.yamlcore.dev/yaml/token"
)

// LineNumberFormat renders the "%2d | " gutter prefix for one source line.
func LineNumberFormat(num int) string { return fmt.Sprintf("%2d | ", num) }

// Snippet renders up to three lines of context around mark (the line
// itself, one line before, one line after) with a caret under the column,
// optionally colorized.
func Snippet(source string, mark token.Mark, colored bool) string {
	lines := strings.Split(source, "\n")
	lineIdx := mark.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return ""
	}
	start := lineIdx - 1
	if start < 0 {
		start = 0
	}
	end := lineIdx + 1
	if end >= len(lines) {
		end = len(lines) - 1
	}

	var sb strings.Builder
	errColor := color.New(color.FgRed, color.Bold)
	gutterColor := color.New(color.FgHiBlack)
	for i := start; i <= end; i++ {
		gutter := LineNumberFormat(i + 1)
		if colored {
			gutter = gutterColor.Sprint(gutter)
		}
		sb.WriteString(gutter)
		sb.WriteString(lines[i])
		sb.WriteString("\n")
		if i == lineIdx {
			caretCol := mark.Column - 1
			if caretCol < 0 {
				caretCol = 0
			}
			pad := strings.Repeat(" ", len(LineNumberFormat(i+1))+caretCol)
			caret := "^"
			if colored {
				caret = errColor.Sprint(caret)
			}
			sb.WriteString(pad)
			sb.WriteString(caret)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Fprint writes msg plus a colorized snippet to w. When w is an *os.File
// it is wrapped with mattn/go-colorable so ANSI codes still render on
// Windows consoles; any other writer (a buffer in tests, for instance) is
// used as-is with colors stripped.
func Fprint(w io.Writer, msg, source string, mark token.Mark) {
	var cw io.Writer = w
	colored := false
	if f, ok := w.(*os.File); ok {
		cw = colorable.NewColorable(f)
		colored = true
	}
	line := msg
	if colored {
		line = color.New(color.FgRed, color.Bold).Sprint(msg)
	}
	fmt.Fprintln(cw, line)
	fmt.Fprint(cw, Snippet(source, mark, colored))
}
