// Package event defines the structural events the parser state machine
// produces, per §3: stream/document/mapping/sequence start-end, scalar,
// and alias, each carrying the source Mark it was recognized at.
package event

import (
	"go.yamlcore.dev/yaml/token"
)

// Kind discriminates the event stream's item types.
type Kind int

const (
	StreamStart Kind = iota
	StreamEnd
	DocumentStart
	DocumentEnd
	Alias
	Scalar
	SequenceStart
	SequenceEnd
	MappingStart
	MappingEnd
	// DocError replaces an entire document's body when the parser recovers
	// from a grammar error in best-effort mode: it always appears as the
	// sole content event between a DocumentStart/DocumentEnd pair, with
	// Value holding the error message and Mark its source position.
	DocError
)

func (k Kind) String() string {
	switch k {
	case StreamStart:
		return "StreamStart"
	case StreamEnd:
		return "StreamEnd"
	case DocumentStart:
		return "DocumentStart"
	case DocumentEnd:
		return "DocumentEnd"
	case Alias:
		return "Alias"
	case Scalar:
		return "Scalar"
	case SequenceStart:
		return "SequenceStart"
	case SequenceEnd:
		return "SequenceEnd"
	case MappingStart:
		return "MappingStart"
	case MappingEnd:
		return "MappingEnd"
	case DocError:
		return "DocError"
	}
	return "Unknown"
}

// Event is one item of the parser's output stream. Which fields are
// meaningful depends on Kind; see §3.
type Event struct {
	Kind Kind
	Mark token.Mark

	// DocumentStart / DocumentEnd
	Implicit bool

	// Alias
	AliasID int

	// Scalar, SequenceStart, MappingStart
	AnchorID int
	Tag      string
	Style    token.Style

	// Scalar only
	Value          string
	ImplicitPlain  bool // tag was omitted and resolved from a plain scalar
	ImplicitQuoted bool // tag was omitted on a quoted scalar (always string)
}
