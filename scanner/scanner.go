// Package scanner implements the parametric tokenizer (C2): it segments a
// Unicode character stream into YAML tokens while tracking indentation,
// flow/block context and pending simple-key positions, per §4.2.
//
// Token production is driven by an explicit FIFO token queue so that a
// later ":" can retroactively insert a BlockMappingStart token before an
// already-buffered plain-scalar key. The indentation-stack and simple-key
// bookkeeping mirror the classic libyaml scanner state machine.
package scanner

import (
	"fmt"

	"go.yamlcore.dev/yaml/chars"
	"go.yamlcore.dev/yaml/token"
)

// MaxSimpleKeyLength bounds a plain scalar that might still become a
// mapping key (§9), named so callers can see the chosen limit.
const MaxSimpleKeyLength = 1024

// MaxNameLength bounds anchor and alias names (§4.2: "max length 1024").
// Tag handles are not length-checked.
const MaxNameLength = 1024

// Error is a lexical violation: tab in indentation, unterminated string,
// bad escape, oversized simple key, unbalanced flow, and so on.
type Error struct {
	Reason string
	Mark   token.Mark
}

func (e *Error) Error() string { return fmt.Sprintf("scan error at %s: %s", e.Mark, e.Reason) }

type indentKind int

const (
	indentSequence indentKind = iota
	indentMapping
)

type indentLevel struct {
	column int
	kind   indentKind
}

type simpleKey struct {
	possible   bool
	required   bool // block context: must be confirmed on the same line
	queueIndex int  // position in s.queue holding the placeholder scalar
	mark       token.Mark
	line       int
	length     int // rune length of the candidate scalar, for MaxSimpleKeyLength
}

// Scanner produces YAML tokens on demand, buffering a small FIFO queue so
// callers may Peek one token ahead and so the scanner itself can insert a
// BlockMappingStart ahead of an already-queued simple key.
type Scanner struct {
	src *chars.Source

	queue []*token.Token

	indents   []indentLevel
	flowLevel int

	key simpleKey // the single live pending-key candidate

	streamStartDone bool
	streamEndDone   bool

	// atLineStart is true until a non-whitespace character is consumed on
	// the current line; used to recognize "---"/"..." which are only
	// document markers at column 0.
	atLineStart bool

	// docActive is true once some block/flow content token has been
	// produced for the current document, used to unwind the indent stack
	// and emit DocumentEnd/BlockEnd in the right order at EOF or "...".
	docActive bool
}

// New decodes data and constructs a Scanner ready to produce a StreamStart
// token as the first result of Next.
func New(data []byte) (*Scanner, error) {
	src, err := chars.Decode(data)
	if err != nil {
		return nil, err
	}
	return &Scanner{src: src, indents: []indentLevel{{column: -1}}, atLineStart: true}, nil
}

// Next returns the next token, fetching more input as needed. While a
// simple key is still pending, tokens are held back so that a later ":"
// can still insert a BlockMappingStart ahead of the queued key.
func (s *Scanner) Next() (*token.Token, error) {
	for len(s.queue) == 0 || (s.key.possible && !s.streamEndDone) {
		if err := s.fetchMore(); err != nil {
			return nil, err
		}
	}
	tok := s.queue[0]
	s.queue = s.queue[1:]
	return tok, nil
}

// Peek returns the token at the given lookahead offset (0 == next token to
// be returned by Next) without consuming it.
func (s *Scanner) Peek(offset int) (*token.Token, error) {
	for len(s.queue) <= offset || (s.key.possible && !s.streamEndDone) {
		if err := s.fetchMore(); err != nil {
			return nil, err
		}
	}
	return s.queue[offset], nil
}

func (s *Scanner) push(tok *token.Token) { s.queue = append(s.queue, tok) }

func (s *Scanner) mark() token.Mark { return s.src.Mark() }

// fetchMore performs one step of token production, appending zero or more
// tokens to the queue (zero only at true EOF after StreamEnd has already
// been queued, which Next never sees because it loops on an empty queue).
func (s *Scanner) fetchMore() error {
	if !s.streamStartDone {
		s.streamStartDone = true
		s.push(&token.Token{Kind: token.StreamStart, Mark: s.mark()})
		return nil
	}
	if s.streamEndDone {
		return nil
	}

	if err := s.skipNonContent(); err != nil {
		return err
	}
	s.invalidateStaleKey()

	if s.src.EOF() {
		if err := s.unwindIndent(-1); err != nil {
			return err
		}
		s.streamEndDone = true
		s.push(&token.Token{Kind: token.StreamEnd, Mark: s.mark()})
		return nil
	}

	c := s.src.Current()
	col := s.currentColumn()

	if s.flowLevel == 0 {
		// skipNonContent leaves a tab unconsumed only in indentation.
		if c == '\t' {
			return &Error{Reason: "tab character used as indentation", Mark: s.mark()}
		}
		if err := s.unwindIndent(col); err != nil {
			return err
		}
	}

	if s.atLineStart && s.flowLevel == 0 && col == 0 {
		if s.matchLiteral("---") {
			return s.scanDocumentMarker(token.DocumentStart)
		}
		if s.matchLiteral("...") {
			return s.scanDocumentMarker(token.DocumentEnd)
		}
	}

	switch {
	case c == '%' && s.atLineStart && s.flowLevel == 0:
		return s.scanDirective()
	case c == '[' || c == '{':
		return s.scanFlowOpen()
	case c == ']' || c == '}':
		return s.scanFlowClose()
	case c == ',':
		return s.scanFlowEntry()
	case c == '-' && s.flowLevel == 0 && isBlankAhead(s, 1):
		return s.scanBlockEntry()
	case c == '?' && s.blankAheadKeyIndicator():
		return s.scanExplicitKey()
	case c == ':' && s.blankAheadKeyIndicator():
		return s.scanValueIndicator()
	case c == '*':
		return s.scanAnchorOrAlias(token.Alias)
	case c == '&':
		return s.scanAnchorOrAlias(token.Anchor)
	case c == '!':
		return s.scanTag()
	case c == '"':
		return s.scanQuoted(true)
	case c == '\'':
		return s.scanQuoted(false)
	case (c == '|' || c == '>') && s.flowLevel == 0:
		return s.scanBlockScalar(c)
	default:
		return s.scanPlain()
	}
}

func (s *Scanner) currentColumn() int { return s.mark().Column - 1 }

func isBlankAhead(s *Scanner, offset int) bool {
	r := s.src.Peek(offset)
	return r == 0 || r == ' ' || r == '\t' || r == '\n'
}

// blankAheadKeyIndicator reports whether '?' or ':' at the cursor is acting
// as a structural indicator (followed by whitespace/EOF/flow-indicator) as
// opposed to being the first character of a plain scalar.
func (s *Scanner) blankAheadKeyIndicator() bool {
	if s.flowLevel > 0 {
		nxt := s.src.Peek(1)
		return isBlankAhead(s, 1) || nxt == ',' || nxt == ']' || nxt == '}'
	}
	return isBlankAhead(s, 1)
}

func (s *Scanner) matchLiteral(lit string) bool {
	for i, r := range lit {
		if s.src.Peek(i) != r {
			return false
		}
	}
	return isBlankAhead(s, len(lit))
}

func (s *Scanner) advance() error {
	err := s.src.Advance()
	if err != nil {
		if ee, ok := err.(*chars.EncodingError); ok {
			return &Error{Reason: ee.Reason, Mark: ee.Mark}
		}
		return err
	}
	s.atLineStart = false
	return nil
}

func (s *Scanner) advanceLine() error {
	if err := s.advance(); err != nil {
		return err
	}
	s.atLineStart = true
	return nil
}

// skipNonContent consumes spaces, comments and line breaks, and tabs
// outside block indentation. Stale simple keys are dropped separately by
// invalidateStaleKey.
func (s *Scanner) skipNonContent() error {
	for {
		for {
			c := s.src.Current()
			if c == ' ' || (c == '\t' && (s.flowLevel > 0 || !s.inIndentPosition())) {
				if err := s.advance(); err != nil {
					return err
				}
				continue
			}
			break
		}
		if s.src.Current() == '#' {
			for s.src.Current() != '\n' && !s.src.EOF() {
				if err := s.advance(); err != nil {
					return err
				}
			}
		}
		if s.src.Current() == '\n' {
			if err := s.advanceLine(); err != nil {
				return err
			}
			continue
		}
		break
	}
	return nil
}

// inIndentPosition reports whether the cursor is still within the leading
// whitespace run of the current line (used to forbid tabs as indentation,
// per the scan-error edge case named in §8).
func (s *Scanner) inIndentPosition() bool {
	return s.currentColumn() <= s.topIndentColumn()
}

func (s *Scanner) topIndentColumn() int {
	return s.indents[len(s.indents)-1].column
}

func (s *Scanner) invalidateStaleKey() {
	if s.key.possible && s.key.required && s.key.line != s.mark().Line {
		s.key.possible = false
	}
}

func (s *Scanner) saveSimpleKey(mark token.Mark, queueIndex int) {
	s.saveSimpleKeyLen(mark, queueIndex, 0)
}

func (s *Scanner) saveSimpleKeyLen(mark token.Mark, queueIndex, length int) {
	s.key = simpleKey{
		possible:   true,
		required:   s.flowLevel == 0,
		queueIndex: queueIndex,
		mark:       mark,
		line:       mark.Line,
		length:     length,
	}
}

func (s *Scanner) removeSimpleKey() { s.key.possible = false }

// pushIndent opens a new block level if col is strictly greater than the
// current top, emitting the matching Start token; it is a no-op otherwise.
func (s *Scanner) pushIndent(col int, kind indentKind) bool {
	if col <= s.topIndentColumn() {
		return false
	}
	s.indents = append(s.indents, indentLevel{column: col, kind: kind})
	startKind := token.BlockSequenceStart
	if kind == indentMapping {
		startKind = token.BlockMappingStart
	}
	s.push(&token.Token{Kind: startKind, Mark: s.mark()})
	s.docActive = true
	return true
}

// unwindIndent pops every level more indented than col, emitting BlockEnd
// tokens, per §4.2 ("on dedent past a level ... pop the level and emit
// BlockEnd").
func (s *Scanner) unwindIndent(col int) error {
	for s.topIndentColumn() > col {
		top := s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
		endKind := token.BlockSequenceEnd
		if top.kind == indentMapping {
			endKind = token.BlockMappingEnd
		}
		s.push(&token.Token{Kind: endKind, Mark: s.mark()})
	}
	return nil
}

func (s *Scanner) scanDocumentMarker(kind token.Kind) error {
	if err := s.unwindIndent(-1); err != nil {
		return err
	}
	s.removeSimpleKey()
	mark := s.mark()
	for i := 0; i < 3; i++ {
		if err := s.advance(); err != nil {
			return err
		}
	}
	s.push(&token.Token{Kind: kind, Mark: mark})
	if kind == token.DocumentEnd {
		s.src.NoteDocumentEnd()
		s.docActive = false
	}
	return nil
}
