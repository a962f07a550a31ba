// Package chars implements the character source (C1): the whole input
// decoded up front into Unicode scalar values, read with position tracking, BOM handling and line
// ending normalization, split into its own package so the scanner can stay
// focused on tokenization, following the same readerc.go-style BOM/UTF-16/
// UTF-32 decode handling libyaml-derived scanners use.
package chars

import (
	"unicode/utf16"
	"unicode/utf8"

	"go.yamlcore.dev/yaml/token"
)

// Source exposes the normalized rune stream the scanner consumes.
type Source struct {
	runes  []rune
	pos    int
	line   int
	column int
	offset int

	insideQuoted bool
	sawDocEnd    bool // just consumed "..." (+ optional blanks): BOM legal here
	atStart      bool
}

// Decode turns raw bytes into a Source, detecting a leading BOM to choose
// among UTF-8/UTF-16/UTF-32, defaulting to UTF-8, and normalizing CRLF and
// lone CR to LF as required by §4.1.
func Decode(data []byte) (*Source, error) {
	runes, err := decodeRunes(data)
	if err != nil {
		return nil, err
	}
	runes = normalizeLineBreaks(runes)
	return &Source{runes: runes, line: 1, column: 1, atStart: true}, nil
}

func decodeRunes(data []byte) ([]rune, error) {
	switch {
	case hasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return decodeUTF8(data[3:])
	case hasPrefix(data, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return decodeUTF32(data[4:], false)
	case hasPrefix(data, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return decodeUTF32(data[4:], true)
	case hasPrefix(data, []byte{0xFF, 0xFE}):
		return decodeUTF16(data[2:], false)
	case hasPrefix(data, []byte{0xFE, 0xFF}):
		return decodeUTF16(data[2:], true)
	default:
		return decodeUTF8(data)
	}
}

func hasPrefix(data, prefix []byte) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i, b := range prefix {
		if data[i] != b {
			return false
		}
	}
	return true
}

func decodeUTF8(data []byte) ([]rune, error) {
	out := make([]rune, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			return nil, &EncodingError{Reason: "invalid UTF-8 byte sequence"}
		}
		out = append(out, r)
		data = data[size:]
	}
	return out, nil
}

func decodeUTF16(data []byte, big bool) ([]rune, error) {
	if len(data)%2 != 0 {
		return nil, &EncodingError{Reason: "truncated UTF-16 byte sequence"}
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		if big {
			units[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
		} else {
			units[i] = uint16(data[2*i+1])<<8 | uint16(data[2*i])
		}
	}
	return utf16.Decode(units), nil
}

func decodeUTF32(data []byte, big bool) ([]rune, error) {
	if len(data)%4 != 0 {
		return nil, &EncodingError{Reason: "truncated UTF-32 byte sequence"}
	}
	out := make([]rune, 0, len(data)/4)
	for i := 0; i < len(data); i += 4 {
		var v uint32
		if big {
			v = uint32(data[i])<<24 | uint32(data[i+1])<<16 | uint32(data[i+2])<<8 | uint32(data[i+3])
		} else {
			v = uint32(data[i+3])<<24 | uint32(data[i+2])<<16 | uint32(data[i+1])<<8 | uint32(data[i])
		}
		out = append(out, rune(v))
	}
	return out, nil
}

func normalizeLineBreaks(in []rune) []rune {
	out := make([]rune, 0, len(in))
	for i := 0; i < len(in); i++ {
		switch in[i] {
		case '\r':
			out = append(out, '\n')
			if i+1 < len(in) && in[i+1] == '\n' {
				i++
			}
		default:
			out = append(out, in[i])
		}
	}
	return out
}

// EncodingError reports an invalid byte sequence or invalid BOM position.
type EncodingError struct {
	Reason string
	Mark   token.Mark
}

func (e *EncodingError) Error() string { return "encoding error: " + e.Reason }

// Mark returns the source's current position.
func (s *Source) Mark() token.Mark {
	return token.Mark{Offset: s.offset, Line: s.line, Column: s.column}
}

// Current returns the rune under the cursor, or 0 at end of stream.
func (s *Source) Current() rune { return s.Peek(0) }

// Peek looks ahead up to 4 runes without consuming. offset 0 == Current().
func (s *Source) Peek(offset int) rune {
	idx := s.pos + offset
	if idx < 0 || idx >= len(s.runes) {
		return 0
	}
	return s.runes[idx]
}

// EOF reports whether the cursor is at the end of the stream.
func (s *Source) EOF() bool { return s.pos >= len(s.runes) }

// SetInsideQuoted tells the source whether it is lexing inside a single- or
// double-quoted scalar, where a BOM is preserved as literal content rather
// than treated as a structural marker.
func (s *Source) SetInsideQuoted(v bool) { s.insideQuoted = v }

// AtDocumentBoundary reports whether a BOM is legal at the cursor: the very
// start of the stream, or just after a "..." that ended the previous
// document (possibly with intervening blank lines).
func (s *Source) AtDocumentBoundary() bool { return s.atStart || s.sawDocEnd }

// NoteDocumentEnd records that "..." was just consumed, re-opening the BOM
// window until the next non-blank content.
func (s *Source) NoteDocumentEnd() { s.sawDocEnd = true }

// Advance consumes the current rune and moves the cursor forward by one,
// maintaining line/column/offset. It returns an *EncodingError if a BOM
// appears somewhere other than a legal document boundary.
func (s *Source) Advance() error {
	if s.EOF() {
		return nil
	}
	r := s.runes[s.pos]
	if r == 0xFEFF && !s.insideQuoted {
		if !s.AtDocumentBoundary() {
			return &EncodingError{Reason: "BOM inside document", Mark: s.Mark()}
		}
	}
	s.pos++
	s.offset++
	if r == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	if r != 0xFEFF {
		s.atStart = false
		if r != ' ' && r != '\t' && r != '\n' {
			s.sawDocEnd = false
		}
	}
	return nil
}
