package parser

import (
	"go.yamlcore.dev/yaml/event"
	"go.yamlcore.dev/yaml/token"
	"go.yamlcore.dev/yaml/yerrors"
)

// properties collects the optional anchor and/or tag that precede a node;
// §4.3 permits either order, so parseProperties loops until neither token
// kind appears next.
type properties struct {
	anchorName string
	anchorMark token.Mark
	hasAnchor  bool
	tagRaw     string
	hasTag     bool
}

func (p *Parser) parseProperties() (properties, error) {
	var props properties
	for {
		tk, err := p.peek()
		if err != nil {
			return props, err
		}
		switch tk.Kind {
		case token.Anchor:
			if props.hasAnchor {
				return props, yerrors.New(yerrors.ParseError, tk.Mark, "a node may have at most one anchor")
			}
			props.hasAnchor = true
			props.anchorName = tk.Value
			props.anchorMark = tk.Mark
			if _, err := p.next(); err != nil {
				return props, err
			}
		case token.Tag:
			if props.hasTag {
				return props, yerrors.New(yerrors.ParseError, tk.Mark, "a node may have at most one tag")
			}
			props.hasTag = true
			props.tagRaw = tk.Value
			if _, err := p.next(); err != nil {
				return props, err
			}
		default:
			return props, nil
		}
	}
}

// bindAnchor registers an anchor name (if any) against the id that will be
// assigned to the node about to be emitted, returning that id (0 if none).
func (p *Parser) bindAnchor(props properties) int {
	if !props.hasAnchor {
		return 0
	}
	id := p.nextAnchorID()
	p.anchors[props.anchorName] = id
	return id
}

// parseNode parses one complete node (scalar, sequence, or mapping, with
// its optional anchor/tag properties and alias form) and emits the
// corresponding event(s).
func (p *Parser) parseNode() error {
	tk, err := p.peek()
	if err != nil {
		return err
	}
	if tk.Kind == token.Alias {
		if _, err := p.next(); err != nil {
			return err
		}
		id, ok := p.anchors[tk.Value]
		if !ok {
			return yerrors.New(yerrors.LoadError, tk.Mark, "undefined alias %q", tk.Value)
		}
		p.emit(event.Event{Kind: event.Alias, Mark: tk.Mark, AliasID: id})
		return nil
	}

	props, err := p.parseProperties()
	if err != nil {
		return err
	}
	anchorID := p.bindAnchor(props)
	tag := ""
	if props.hasTag {
		tag = p.resolveTag(props.tagRaw)
	}

	tk, err = p.peek()
	if err != nil {
		return err
	}
	switch tk.Kind {
	case token.BlockSequenceStart:
		return p.parseBlockSequence(anchorID, tag)
	case token.BlockMappingStart:
		return p.parseBlockMapping(anchorID, tag)
	case token.FlowSequenceStart:
		return p.parseFlowSequence(anchorID, tag)
	case token.FlowMappingStart:
		return p.parseFlowMapping(anchorID, tag)
	case token.BlockEntry:
		// A "-" at the top of a node with no preceding BlockSequenceStart
		// happens when the whole document is a single bare sequence entry
		// list the scanner still brackets normally; this path is defensive.
		return p.parseBlockSequence(anchorID, tag)
	case token.Scalar:
		if _, err := p.next(); err != nil {
			return err
		}
		ev := event.Event{
			Kind: event.Scalar, Mark: tk.Mark, AnchorID: anchorID,
			Tag: tag, Style: tk.Style, Value: tk.Value,
		}
		if !props.hasTag {
			if tk.Style == token.Plain {
				ev.ImplicitPlain = true
			} else {
				ev.ImplicitQuoted = true
			}
		}
		p.emit(ev)
		return nil
	default:
		// An empty node: no scalar, no collection start follows (e.g. a
		// mapping value omitted entirely, or an empty document). Per §4.5
		// this resolves as a null scalar.
		ev := event.Event{Kind: event.Scalar, Mark: tk.Mark, AnchorID: anchorID, Tag: tag, Style: token.Plain, Value: ""}
		if !props.hasTag {
			ev.ImplicitPlain = true
		}
		p.emit(ev)
		return nil
	}
}

// nodeFollows reports whether the upcoming token can begin a node, as
// opposed to a terminator the caller should stop on (used to recognize an
// empty/omitted value in block and flow mappings).
func (p *Parser) nodeFollows(stopKinds ...token.Kind) (bool, error) {
	tk, err := p.peek()
	if err != nil {
		return false, err
	}
	for _, k := range stopKinds {
		if tk.Kind == k {
			return false, nil
		}
	}
	return true, nil
}

func (p *Parser) parseBlockSequence(anchorID int, tag string) error {
	start, err := p.next()
	if err != nil {
		return err
	}
	p.emit(event.Event{Kind: event.SequenceStart, Mark: start.Mark, AnchorID: anchorID, Tag: tag})
	for {
		tk, err := p.peek()
		if err != nil {
			return err
		}
		if tk.Kind == token.BlockSequenceEnd {
			if _, err := p.next(); err != nil {
				return err
			}
			p.emit(event.Event{Kind: event.SequenceEnd, Mark: tk.Mark})
			return nil
		}
		if tk.Kind != token.BlockEntry {
			return yerrors.New(yerrors.ParseError, tk.Mark, "expected block sequence entry, got %s", tk.Kind)
		}
		if _, err := p.next(); err != nil {
			return err
		}
		has, err := p.nodeFollows(token.BlockEntry, token.BlockSequenceEnd)
		if err != nil {
			return err
		}
		if !has {
			peeked, _ := p.peek()
			p.emit(event.Event{Kind: event.Scalar, Mark: peeked.Mark, ImplicitPlain: true})
			continue
		}
		if err := p.parseNode(); err != nil {
			return err
		}
	}
}

func (p *Parser) parseBlockMapping(anchorID int, tag string) error {
	start, err := p.next()
	if err != nil {
		return err
	}
	p.emit(event.Event{Kind: event.MappingStart, Mark: start.Mark, AnchorID: anchorID, Tag: tag})
	for {
		tk, err := p.peek()
		if err != nil {
			return err
		}
		if tk.Kind == token.BlockMappingEnd {
			if _, err := p.next(); err != nil {
				return err
			}
			p.emit(event.Event{Kind: event.MappingEnd, Mark: tk.Mark})
			return nil
		}
		if err := p.parseMappingEntry(token.BlockMappingEnd); err != nil {
			return err
		}
	}
}

// parseMappingEntry parses one "key: value" or "? key : value" entry common
// to both block and flow mappings, accepting an implicit (no leading "?")
// or explicit key form.
func (p *Parser) parseMappingEntry(endKind token.Kind) error {
	tk, err := p.peek()
	if err != nil {
		return err
	}
	if tk.Kind == token.Key {
		if _, err := p.next(); err != nil {
			return err
		}
		has, err := p.nodeFollows(token.Value, endKind, token.FlowEntry)
		if err != nil {
			return err
		}
		if has {
			if err := p.parseNode(); err != nil {
				return err
			}
		} else {
			peeked, _ := p.peek()
			p.emit(event.Event{Kind: event.Scalar, Mark: peeked.Mark, ImplicitPlain: true})
		}
	} else {
		if err := p.parseNode(); err != nil {
			return err
		}
	}

	tk, err = p.peek()
	if err != nil {
		return err
	}
	if tk.Kind != token.Value {
		// Key with no value (bare key shorthand for a null value, §4.4).
		p.emit(event.Event{Kind: event.Scalar, Mark: tk.Mark, ImplicitPlain: true})
		return nil
	}
	if _, err := p.next(); err != nil {
		return err
	}
	has, err := p.nodeFollows(endKind, token.FlowEntry, token.Value, token.Key)
	if err != nil {
		return err
	}
	if !has {
		peeked, _ := p.peek()
		p.emit(event.Event{Kind: event.Scalar, Mark: peeked.Mark, ImplicitPlain: true})
		return nil
	}
	return p.parseNode()
}

// isFlowTerminator reports whether tk is a token that can only appear
// because the scanner ran out of input (or closed an enclosing block
// construct) while a flow collection was still open: these never
// legitimately appear inside "[...]"/"{...}", so seeing one there means
// the collection was never closed.
func isFlowTerminator(tk *token.Token) bool {
	switch tk.Kind {
	case token.StreamEnd, token.DocumentStart, token.DocumentEnd,
		token.BlockSequenceEnd, token.BlockMappingEnd:
		return true
	}
	return false
}

func (p *Parser) parseFlowSequence(anchorID int, tag string) error {
	start, err := p.next()
	if err != nil {
		return err
	}
	p.emit(event.Event{Kind: event.SequenceStart, Mark: start.Mark, AnchorID: anchorID, Tag: tag})
	for {
		tk, err := p.peek()
		if err != nil {
			return err
		}
		if isFlowTerminator(tk) {
			return yerrors.New(yerrors.ParseError, tk.Mark, "unterminated flow collection")
		}
		if tk.Kind == token.FlowSequenceEnd {
			if _, err := p.next(); err != nil {
				return err
			}
			p.emit(event.Event{Kind: event.SequenceEnd, Mark: tk.Mark})
			return nil
		}
		if tk.Kind == token.FlowEntry {
			if _, err := p.next(); err != nil {
				return err
			}
			continue
		}
		// A flow sequence entry may itself be "key: value" shorthand for a
		// single-pair mapping (§4.3's "[a: b]" form); detect that by
		// checking whether a Value token directly follows this node.
		if tk.Kind == token.Key {
			if err := p.parseFlowPairAsMapping(); err != nil {
				return err
			}
			continue
		}
		if err := p.parseNode(); err != nil {
			return err
		}
		peeked, err := p.peek()
		if err != nil {
			return err
		}
		if peeked.Kind == token.Value {
			if err := p.rewrapAsSinglePairMapping(peeked); err != nil {
				return err
			}
		}
	}
}

// parseFlowPairAsMapping handles an explicit "? k : v" entry appearing
// directly inside a flow sequence, wrapping it as a single-pair mapping
// node per §4.3.
func (p *Parser) parseFlowPairAsMapping() error {
	tk, _ := p.peek()
	p.emit(event.Event{Kind: event.MappingStart, Mark: tk.Mark})
	if err := p.parseMappingEntry(token.FlowSequenceEnd); err != nil {
		return err
	}
	p.emit(event.Event{Kind: event.MappingEnd, Mark: tk.Mark})
	return nil
}

// rewrapAsSinglePairMapping is called once a bare key node inside a flow
// sequence turns out to be followed by ":", meaning the whole entry was
// actually an implicit single-pair mapping ("[a: b]"); since the key event
// has already been emitted, the MappingStart is inserted retroactively at
// the position it should have occupied.
func (p *Parser) rewrapAsSinglePairMapping(valueTok *token.Token) error {
	// Find where the key node's events begin: the run of events emitted
	// since the last SequenceStart/FlowEntry boundary forms exactly the
	// key node, since parseNode emits a single self-contained subtree.
	start := p.lastNodeStart()
	keyMark := p.events[start].Mark
	p.events = append(p.events[:start:start], append([]event.Event{{Kind: event.MappingStart, Mark: keyMark}}, p.events[start:]...)...)

	if _, err := p.next(); err != nil { // consume ":"
		return err
	}
	has, err := p.nodeFollows(token.FlowSequenceEnd, token.FlowEntry)
	if err != nil {
		return err
	}
	if has {
		if err := p.parseNode(); err != nil {
			return err
		}
	} else {
		peeked, _ := p.peek()
		p.emit(event.Event{Kind: event.Scalar, Mark: peeked.Mark, ImplicitPlain: true})
	}
	p.emit(event.Event{Kind: event.MappingEnd, Mark: valueTok.Mark})
	return nil
}

// lastNodeStart returns the index of the start of the most recently
// completed top-level node's event run, by matching Start/End nesting
// depth back to zero (or locating the lone Scalar/Alias event).
func (p *Parser) lastNodeStart() int {
	depth := 0
	for i := len(p.events) - 1; i >= 0; i-- {
		switch p.events[i].Kind {
		case event.SequenceEnd, event.MappingEnd:
			depth++
		case event.SequenceStart, event.MappingStart:
			if depth == 0 {
				return i
			}
			depth--
		case event.Scalar, event.Alias:
			if depth == 0 {
				return i
			}
		}
	}
	return 0
}

func (p *Parser) parseFlowMapping(anchorID int, tag string) error {
	start, err := p.next()
	if err != nil {
		return err
	}
	p.emit(event.Event{Kind: event.MappingStart, Mark: start.Mark, AnchorID: anchorID, Tag: tag})
	for {
		tk, err := p.peek()
		if err != nil {
			return err
		}
		if isFlowTerminator(tk) {
			return yerrors.New(yerrors.ParseError, tk.Mark, "unterminated flow collection")
		}
		if tk.Kind == token.FlowMappingEnd {
			if _, err := p.next(); err != nil {
				return err
			}
			p.emit(event.Event{Kind: event.MappingEnd, Mark: tk.Mark})
			return nil
		}
		if tk.Kind == token.FlowEntry {
			if _, err := p.next(); err != nil {
				return err
			}
			continue
		}
		if err := p.parseMappingEntry(token.FlowMappingEnd); err != nil {
			return err
		}
	}
}
