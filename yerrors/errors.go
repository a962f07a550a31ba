// Package yerrors implements the structured error model (C8): grammatical,
// load-time and deserialization failures carry a kind from the §7
// taxonomy, a primary mark, an optional secondary mark, and a
// human-readable message. Lexical failures are not converted: the scanner
// reports them as *scanner.Error, and an undecodable input as
// *chars.EncodingError, neither of which carries a Kind. Wraps causes with golang.org/x/xerrors
// (caller stack frames via xerrors.Caller) and formats through an explicit
// printer call rather than mutable package-level globals, so error
// formatting stays a pure function of its inputs.
package yerrors

import (
	"fmt"

	"golang.org/x/xerrors"

	"go.yamlcore.dev/yaml/printer"
	"go.yamlcore.dev/yaml/token"
)

// Kind is the §7 error taxonomy.
type Kind int

const (
	IoError Kind = iota
	EncodingError
	ScanError
	ParseError
	LoadError
	SchemaError
	TypeError
	RepetitionLimitError
	Custom
)

func (k Kind) String() string {
	switch k {
	case IoError:
		return "IoError"
	case EncodingError:
		return "EncodingError"
	case ScanError:
		return "ScanError"
	case ParseError:
		return "ParseError"
	case LoadError:
		return "LoadError"
	case SchemaError:
		return "SchemaError"
	case TypeError:
		return "TypeError"
	case RepetitionLimitError:
		return "RepetitionLimitError"
	case Custom:
		return "Custom"
	}
	return "Unknown"
}

// Error is the single structured error type surfaced on both the
// document-load path and the deserialization path.
type Error struct {
	Kind Kind
	Mark token.Mark

	// Secondary, optional: e.g. the anchor definition for an undefined- or
	// misused-alias LoadError.
	Secondary    *token.Mark
	Message      string
	Path         []string // deserialization-only: sequence of keys/indices
	Source       []byte   // set via WithSource so Error can render a snippet
	cause        error
	frame        xerrors.Frame
}

// WithSource attaches the original document bytes so Error's message
// includes a source snippet around Mark. Set by the top-level entry point
// (Decoder.Documents) once the error has bubbled up past the sub-packages
// that raised it, none of which carry the raw bytes around themselves.
func (e *Error) WithSource(source []byte) *Error {
	e.Source = source
	return e
}

func New(kind Kind, mark token.Mark, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Mark: mark, Message: fmt.Sprintf(format, args...), frame: xerrors.Caller(1)}
}

func Wrap(kind Kind, mark token.Mark, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Mark: mark, Message: fmt.Sprintf(format, args...), cause: cause, frame: xerrors.Caller(1)}
}

// WithSecondary attaches a secondary mark (e.g. where an anchor was
// defined, for an alias error) and returns the same error for chaining.
func (e *Error) WithSecondary(mark token.Mark) *Error {
	e.Secondary = &mark
	return e
}

// WithPath attaches the deserialization path (sequence of keys/indices)
// §6 requires TypeErrors to carry.
func (e *Error) WithPath(path []string) *Error {
	e.Path = path
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s at %s", e.Kind, e.Message, e.Mark)
	if e.Secondary != nil {
		msg += fmt.Sprintf(" (see %s)", *e.Secondary)
	}
	if len(e.Path) > 0 {
		p := ""
		for _, seg := range e.Path {
			p += "." + seg
		}
		msg += fmt.Sprintf(" [path%s]", p)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	if len(e.Source) > 0 {
		if snippet := printer.Snippet(string(e.Source), e.Mark, false); snippet != "" {
			msg += "\n" + snippet
		}
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

// FormatError implements xerrors.Formatter so %+v prints a call-site frame.
func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	e.frame.Format(p)
	return nil
}

func (e *Error) Format(s fmt.State, verb rune) { xerrors.FormatError(e, s, verb) }

// RepetitionLimitExceeded is a convenience constructor for the always-fatal
// alias-expansion cap error of §4.6/§7.
func RepetitionLimitExceeded(mark token.Mark, which string, limit int) *Error {
	return New(RepetitionLimitError, mark, "repetition limit exceeded: %s cap of %d reached", which, limit)
}
