package scanner

import (
	"strconv"
	"strings"

	"go.yamlcore.dev/yaml/token"
)

func trimTrailingSpaces(buf *[]rune) {
	b := *buf
	n := len(b)
	for n > 0 && (b[n-1] == ' ' || b[n-1] == '\t') {
		n--
	}
	*buf = b[:n]
}

// flushFold applies the line-folding rule of §4.2.2 to a run of `breaks`
// consecutive (unescaped) line breaks: one break folds to a single space,
// n>1 breaks fold to n-1 line breaks.
func flushFold(buf *[]rune, breaks int) {
	if breaks <= 0 {
		return
	}
	if breaks == 1 {
		*buf = append(*buf, ' ')
		return
	}
	for i := 0; i < breaks-1; i++ {
		*buf = append(*buf, '\n')
	}
}

func (s *Scanner) matchAt(idx int, lit string) bool {
	for i, r := range lit {
		if s.src.Peek(idx+i) != r {
			return false
		}
	}
	return true
}

// scanQuoted handles both double- and single-quoted scalars (§4.2.2).
func (s *Scanner) scanQuoted(double bool) error {
	mark := s.mark()
	quote := rune('\'')
	if double {
		quote = '"'
	}
	s.src.SetInsideQuoted(true)
	defer s.src.SetInsideQuoted(false)

	if err := s.advance(); err != nil {
		return err
	}

	var buf []rune
	breaks := 0
	for {
		c := s.src.Current()
		if s.src.EOF() {
			return &Error{Reason: "unterminated quoted scalar", Mark: mark}
		}
		if c == quote {
			if !double && s.src.Peek(1) == '\'' {
				if breaks > 0 {
					flushFold(&buf, breaks)
					breaks = 0
				}
				buf = append(buf, '\'')
				if err := s.advance(); err != nil {
					return err
				}
				if err := s.advance(); err != nil {
					return err
				}
				continue
			}
			if err := s.advance(); err != nil {
				return err
			}
			break
		}
		if c == '\n' {
			trimTrailingSpaces(&buf)
			breaks++
			if err := s.advanceLine(); err != nil {
				return err
			}
			for s.src.Current() == ' ' || s.src.Current() == '\t' {
				if err := s.advance(); err != nil {
					return err
				}
			}
			continue
		}
		if double && c == '\\' && s.src.Peek(1) == '\n' {
			// backslash immediately before a break suppresses the fold.
			if err := s.advance(); err != nil {
				return err
			}
			if err := s.advanceLine(); err != nil {
				return err
			}
			for s.src.Current() == ' ' || s.src.Current() == '\t' {
				if err := s.advance(); err != nil {
					return err
				}
			}
			continue
		}
		if breaks > 0 {
			flushFold(&buf, breaks)
			breaks = 0
		}
		if double && c == '\\' {
			if err := s.advance(); err != nil {
				return err
			}
			r, err := s.readEscape(mark)
			if err != nil {
				return err
			}
			if r >= 0 {
				buf = append(buf, r)
			}
			continue
		}
		buf = append(buf, c)
		if err := s.advance(); err != nil {
			return err
		}
	}
	if breaks > 0 {
		flushFold(&buf, breaks)
	}
	style := token.SingleQuoted
	if double {
		style = token.DoubleQuoted
	}
	value := string(buf)
	s.saveSimpleKeyLen(mark, len(s.queue), len([]rune(value)))
	s.push(token.Quoted(style, value, value, mark))
	return nil
}

// readEscape decodes one double-quoted escape sequence (the backslash has
// already been consumed). Returns a rune < 0 for escapes that expand to
// nothing directly handled by caller (there are none in this alphabet, but
// the signature stays uniform with multi-result escapes).
func (s *Scanner) readEscape(mark token.Mark) (rune, error) {
	c := s.src.Current()
	simple := map[rune]rune{
		'0': 0, 'a': '\a', 'b': '\b', 't': '\t', '\t': '\t', 'n': '\n',
		'v': '\v', 'f': '\f', 'r': '\r', 'e': 0x1B, '"': '"', '\'': '\'',
		'\\': '\\', '/': '/', 'N': 0x85, '_': 0xA0, 'L': 0x2028, 'P': 0x2029,
	}
	if r, ok := simple[c]; ok {
		if err := s.advance(); err != nil {
			return 0, err
		}
		return r, nil
	}
	switch c {
	case 'x':
		return s.readHexEscape(mark, 2)
	case 'u':
		return s.readHexEscape(mark, 4)
	case 'U':
		return s.readHexEscape(mark, 8)
	}
	return 0, &Error{Reason: "unknown escape sequence \\" + string(c), Mark: mark}
}

func (s *Scanner) readHexEscape(mark token.Mark, digits int) (rune, error) {
	if err := s.advance(); err != nil {
		return 0, err
	}
	var hex []rune
	for i := 0; i < digits; i++ {
		hex = append(hex, s.src.Current())
		if err := s.advance(); err != nil {
			return 0, err
		}
	}
	n, err := strconv.ParseUint(string(hex), 16, 32)
	if err != nil {
		return 0, &Error{Reason: "invalid hex escape", Mark: mark}
	}
	return rune(n), nil
}

// scanPlain handles plain (unquoted) scalars (§4.2.4).
func (s *Scanner) scanPlain() error {
	mark := s.mark()
	startCol := s.currentColumn()
	var buf []rune
	breaks := 0
	for {
		c := s.src.Current()
		if c == 0 && s.src.EOF() {
			break
		}
		if c == ':' && isBlankAhead(s, 1) {
			break
		}
		if s.flowLevel > 0 && (c == ',' || c == '[' || c == ']' || c == '{' || c == '}') {
			break
		}
		if c == '#' && len(buf) > 0 && (buf[len(buf)-1] == ' ' || buf[len(buf)-1] == '\t') {
			break
		}
		if c == '\n' {
			trimTrailingSpaces(&buf)
			lookBreaks, nextCol, hasContent := s.lookaheadAfterBreak()
			if !hasContent {
				break
			}
			if nextCol <= startCol && s.flowLevel == 0 {
				break
			}
			if s.flowLevel == 0 && nextCol == 0 && (s.matchAt(0, "---") || s.matchAt(0, "...")) {
				break
			}
			for i := 0; i < lookBreaks; i++ {
				if err := s.advanceLine(); err != nil {
					return err
				}
			}
			for s.src.Current() == ' ' {
				if err := s.advance(); err != nil {
					return err
				}
			}
			breaks += lookBreaks
			continue
		}
		if breaks > 0 {
			flushFold(&buf, breaks)
			breaks = 0
		}
		buf = append(buf, c)
		if err := s.advance(); err != nil {
			return err
		}
	}
	trimTrailingSpaces(&buf)
	value := string(buf)
	s.saveSimpleKeyLen(mark, len(s.queue), len(buf))
	s.push(token.New(value, value, mark))
	return nil
}

// lookaheadAfterBreak scans forward (without consuming) across a run of
// line breaks and following spaces, reporting how many breaks there were,
// the column of the first non-space character found, and whether the
// stream has any more content at all.
func (s *Scanner) lookaheadAfterBreak() (breaks int, col int, hasContent bool) {
	idx := 0
	for s.src.Peek(idx) == '\n' {
		breaks++
		idx++
	}
	spaces := 0
	for s.src.Peek(idx) == ' ' {
		spaces++
		idx++
	}
	if s.src.Peek(idx) == 0 {
		return breaks, spaces, false
	}
	return breaks, spaces, true
}

type blockLine struct {
	text         string
	blank        bool
	moreIndented bool
	broken       bool // the line ended with a line break (not end of input)
}

type chomping int

const (
	chompClip chomping = iota
	chompStrip
	chompKeep
)

// scanBlockScalar handles literal ('|') and folded ('>') block scalars,
// including the header (explicit indentation + chomping indicators) and
// the line-folding/chomping rules of §4.2.3.
func (s *Scanner) scanBlockScalar(indicator rune) error {
	mark := s.mark()
	style := token.Literal
	if indicator == '>' {
		style = token.Folded
	}
	if err := s.advance(); err != nil {
		return err
	}

	explicitIndent := 0
	chomp := chompClip
	for i := 0; i < 2; i++ {
		c := s.src.Current()
		switch {
		case c >= '1' && c <= '9':
			explicitIndent = int(c - '0')
			if err := s.advance(); err != nil {
				return err
			}
		case c == '-':
			chomp = chompStrip
			if err := s.advance(); err != nil {
				return err
			}
		case c == '+':
			chomp = chompKeep
			if err := s.advance(); err != nil {
				return err
			}
		default:
			i = 2
		}
	}
	for s.src.Current() == ' ' || s.src.Current() == '\t' {
		if err := s.advance(); err != nil {
			return err
		}
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
	}

	parentCol := s.topIndentColumn()
	contentIndent := -1
	if explicitIndent > 0 {
		base := parentCol
		if base < 0 {
			base = 0
		}
		contentIndent = base + explicitIndent
	}

	var lines []blockLine
	for {
		if s.src.EOF() {
			break
		}
		indent := 0
		for s.src.Current() == ' ' {
			indent++
			if err := s.advance(); err != nil {
				return err
			}
		}
		if s.src.Current() == '\n' || s.src.EOF() {
			lines = append(lines, blockLine{blank: true})
			if s.src.EOF() {
				break
			}
			if err := s.advanceLine(); err != nil {
				return err
			}
			continue
		}
		if contentIndent < 0 {
			contentIndent = indent
		}
		if indent < contentIndent {
			break
		}
		extra := indent - contentIndent
		var buf []rune
		for i := 0; i < extra; i++ {
			buf = append(buf, ' ')
		}
		for s.src.Current() != '\n' && !s.src.EOF() {
			buf = append(buf, s.src.Current())
			if err := s.advance(); err != nil {
				return err
			}
		}
		lines = append(lines, blockLine{text: string(buf), moreIndented: extra > 0, broken: s.src.Current() == '\n'})
		if s.src.EOF() {
			break
		}
		if err := s.advanceLine(); err != nil {
			return err
		}
	}

	value := assembleBlockScalar(lines, style, chomp)
	s.push(token.Quoted(style, value, value, mark))
	return nil
}

// assembleBlockScalar joins the collected lines, folding line-break runs
// for style==Folded using the same n-1 rule flushFold applies to quoted
// and plain scalars: a run of n consecutive breaks (one per blank line,
// plus the break into the next content line) becomes a single space when
// n==1 and n-1 literal breaks when n>1. Breaks adjacent to a
// more-indented line are never folded. The last content line's own line
// break, followed by one break per trailing blank line, is left for
// chompResult to strip, clip or keep.
func assembleBlockScalar(lines []blockLine, style token.Style, chomp chomping) string {
	if len(lines) == 0 {
		return chompResult("", chomp)
	}
	var raw []rune
	started := false
	prevMoreIndented := false
	lastBroken := false
	pending := 0
	for _, ln := range lines {
		if ln.blank {
			pending++
			continue
		}
		if !started {
			for i := 0; i < pending; i++ {
				raw = append(raw, '\n')
			}
			raw = append(raw, []rune(ln.text)...)
			started = true
			prevMoreIndented = ln.moreIndented
			lastBroken = ln.broken
			pending = 0
			continue
		}
		breaks := pending + 1
		if style == token.Folded && !prevMoreIndented && !ln.moreIndented {
			flushFold(&raw, breaks)
		} else {
			for i := 0; i < breaks; i++ {
				raw = append(raw, '\n')
			}
		}
		raw = append(raw, []rune(ln.text)...)
		prevMoreIndented = ln.moreIndented
		lastBroken = ln.broken
		pending = 0
	}
	if started && lastBroken {
		raw = append(raw, '\n')
	}
	for i := 0; i < pending; i++ {
		raw = append(raw, '\n')
	}
	return chompResult(string(raw), chomp)
}

func chompResult(raw string, chomp chomping) string {
	trimmed := strings.TrimRight(raw, "\n")
	trailing := len(raw) - len(trimmed)
	switch chomp {
	case chompStrip:
		return trimmed
	case chompKeep:
		return raw
	default:
		if trailing > 0 {
			return trimmed + "\n"
		}
		return trimmed
	}
}
