package scanner

import "go.yamlcore.dev/yaml/token"

func (s *Scanner) scanFlowOpen() error {
	c := s.src.Current()
	mark := s.mark()
	kind := token.FlowSequenceStart
	if c == '{' {
		kind = token.FlowMappingStart
	}
	if err := s.advance(); err != nil {
		return err
	}
	s.removeSimpleKey()
	s.flowLevel++
	s.push(&token.Token{Kind: kind, Mark: mark})
	return nil
}

func (s *Scanner) scanFlowClose() error {
	c := s.src.Current()
	mark := s.mark()
	kind := token.FlowSequenceEnd
	if c == '}' {
		kind = token.FlowMappingEnd
	}
	if s.flowLevel == 0 {
		return &Error{Reason: "unbalanced flow indicator", Mark: mark}
	}
	if err := s.advance(); err != nil {
		return err
	}
	s.flowLevel--
	s.removeSimpleKey()
	s.push(&token.Token{Kind: kind, Mark: mark})
	return nil
}

func (s *Scanner) scanFlowEntry() error {
	mark := s.mark()
	if err := s.advance(); err != nil {
		return err
	}
	s.removeSimpleKey()
	s.push(&token.Token{Kind: token.FlowEntry, Mark: mark})
	return nil
}

func (s *Scanner) scanBlockEntry() error {
	mark := s.mark()
	col := s.currentColumn()
	if err := s.advance(); err != nil {
		return err
	}
	s.removeSimpleKey()
	s.pushIndent(col, indentSequence)
	s.push(&token.Token{Kind: token.BlockEntry, Mark: mark})
	return nil
}

func (s *Scanner) scanExplicitKey() error {
	mark := s.mark()
	col := s.currentColumn()
	if err := s.advance(); err != nil {
		return err
	}
	s.removeSimpleKey()
	if s.flowLevel == 0 {
		s.pushIndent(col, indentMapping)
	}
	s.push(&token.Token{Kind: token.Key, Mark: mark})
	return nil
}

// scanValueIndicator handles ':'. In block context this may retroactively
// promote an already-buffered plain scalar into a mapping key, inserting a
// BlockMappingStart token immediately before it, per §4.2.
func (s *Scanner) scanValueIndicator() error {
	mark := s.mark()
	if err := s.advance(); err != nil {
		return err
	}
	if s.key.possible {
		if s.key.length > MaxSimpleKeyLength {
			return &Error{Reason: "simple key exceeds maximum length", Mark: s.key.mark}
		}
		if s.flowLevel == 0 {
			col := s.key.mark.Column - 1
			if s.pushIndent(col, indentMapping) {
				// The BlockMappingStart we just appended landed at the end
				// of the queue, after the buffered key token. Move it so it
				// precedes the key, matching the retroactive-start rule.
				s.moveLastTokenBefore(s.key.queueIndex)
			}
		}
		s.removeSimpleKey()
	}
	s.push(&token.Token{Kind: token.Value, Mark: mark})
	return nil
}

// moveLastTokenBefore relocates the token the scanner just appended (the
// BlockMappingStart produced by pushIndent) so that it sits at idx,
// shifting the buffered key token (and anything already queued after it)
// one slot to the right.
func (s *Scanner) moveLastTokenBefore(idx int) {
	if idx < 0 || idx >= len(s.queue)-1 {
		return
	}
	tok := s.queue[len(s.queue)-1]
	copy(s.queue[idx+1:], s.queue[idx:len(s.queue)-1])
	s.queue[idx] = tok
}

func (s *Scanner) scanAnchorOrAlias(kind token.Kind) error {
	mark := s.mark()
	if err := s.advance(); err != nil {
		return err
	}
	name, err := s.scanName()
	if err != nil {
		return err
	}
	if name == "" {
		return &Error{Reason: "anchor/alias name must not be empty", Mark: mark}
	}
	s.saveSimpleKey(mark, len(s.queue))
	s.push(&token.Token{Kind: kind, Value: name, Mark: mark})
	return nil
}

func (s *Scanner) scanName() (string, error) {
	var buf []rune
	for {
		c := s.src.Current()
		if !isNameChar(c) {
			break
		}
		buf = append(buf, c)
		if len(buf) > MaxNameLength {
			return "", &Error{Reason: "anchor/alias name too long", Mark: s.mark()}
		}
		if err := s.advance(); err != nil {
			return "", err
		}
	}
	return string(buf), nil
}

func isNameChar(c rune) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

func (s *Scanner) scanTag() error {
	mark := s.mark()
	if err := s.advance(); err != nil {
		return err
	}
	var raw []rune
	raw = append(raw, '!')
	if s.src.Current() == '<' {
		if err := s.advance(); err != nil {
			return err
		}
		for s.src.Current() != '>' && !s.src.EOF() {
			raw = append(raw, s.src.Current())
			if err := s.advance(); err != nil {
				return err
			}
		}
		if s.src.Current() == '>' {
			if err := s.advance(); err != nil {
				return err
			}
		}
		value := "!<" + string(raw[1:]) + ">"
		s.saveSimpleKey(mark, len(s.queue))
		s.push(&token.Token{Kind: token.Tag, Value: value, Mark: mark})
		return nil
	}
	if s.src.Current() == '!' {
		raw = append(raw, '!')
		if err := s.advance(); err != nil {
			return err
		}
	}
	for isTagChar(s.src.Current()) {
		raw = append(raw, s.src.Current())
		if err := s.advance(); err != nil {
			return err
		}
	}
	s.saveSimpleKey(mark, len(s.queue))
	s.push(&token.Token{Kind: token.Tag, Value: string(raw), Mark: mark})
	return nil
}

func isTagChar(c rune) bool {
	if c == 0 || c == ' ' || c == '\t' || c == '\n' || c == ',' || c == '[' || c == ']' || c == '{' || c == '}' {
		return false
	}
	return true
}

func (s *Scanner) scanDirective() error {
	mark := s.mark()
	if err := s.advance(); err != nil {
		return err
	}
	var name []rune
	for !isBlankAhead(s, 0) {
		name = append(name, s.src.Current())
		if err := s.advance(); err != nil {
			return err
		}
	}
	switch string(name) {
	case "YAML":
		if err := s.skipSpaces(); err != nil {
			return err
		}
		var ver []rune
		for !isBlankAhead(s, 0) {
			ver = append(ver, s.src.Current())
			if err := s.advance(); err != nil {
				return err
			}
		}
		s.push(&token.Token{Kind: token.VersionDirective, Value: string(ver), Mark: mark})
	case "TAG":
		if err := s.skipSpaces(); err != nil {
			return err
		}
		var handle []rune
		for !isBlankAhead(s, 0) {
			handle = append(handle, s.src.Current())
			if err := s.advance(); err != nil {
				return err
			}
		}
		if err := s.skipSpaces(); err != nil {
			return err
		}
		var uri []rune
		for !isBlankAhead(s, 0) {
			uri = append(uri, s.src.Current())
			if err := s.advance(); err != nil {
				return err
			}
		}
		s.push(&token.Token{Kind: token.TagDirective, Value: string(handle) + " " + string(uri), Mark: mark})
	default:
		for s.src.Current() != '\n' && !s.src.EOF() {
			if err := s.advance(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scanner) skipSpaces() error {
	for s.src.Current() == ' ' || s.src.Current() == '\t' {
		if err := s.advance(); err != nil {
			return err
		}
	}
	return nil
}
