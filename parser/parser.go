// Package parser implements the grammar-driven event generator (C3): it
// consumes the scanner's tokens and emits the structural event stream of
// §3, maintaining the tag/anchor directive tables per document.
//
// Structurally this is recursive-descent over the token stream, one
// function per YAML production, rather than an explicit state-stack
// machine; recursion is acceptable here because only the deserializer
// bridge (C7) is required to be non-recursive (§9) — the parser's own call
// depth is bounded by input nesting depth.
package parser

import (
	"go.yamlcore.dev/yaml/event"
	"go.yamlcore.dev/yaml/scanner"
	"go.yamlcore.dev/yaml/schema"
	"go.yamlcore.dev/yaml/token"
	"go.yamlcore.dev/yaml/yerrors"
)

// Parser produces the event stream for an entire input stream (possibly
// many documents) up front; Next pulls from that buffered stream. This
// keeps the per-document grammar code simple while still exposing an
// on-demand Next for the event lifecycle of §3. There is no event Peek.
type Parser struct {
	sc         *scanner.Scanner
	events     []event.Event
	pos        int
	built      bool
	buildErr   error
	bestEffort bool
	anchorSeq  int
	anchors    map[string]int
	tagHandles map[string]string
	version    string
}

// Option configures a Parser at construction.
type Option func(*Parser)

// WithBestEffort makes the parser recover from a document-level grammar
// error by poisoning that one document (a DocError event bracketed by
// DocumentStart/DocumentEnd) and resuming at the next document boundary,
// instead of aborting the whole stream.
func WithBestEffort() Option {
	return func(p *Parser) { p.bestEffort = true }
}

// New constructs a Parser reading from data.
func New(data []byte, opts ...Option) (*Parser, error) {
	sc, err := scanner.New(data)
	if err != nil {
		return nil, err
	}
	p := &Parser{sc: sc}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func defaultTagHandles() map[string]string {
	return map[string]string{"!": "!", "!!": "tag:yaml.org,2002:"}
}

// Next returns the next event, or (nil, nil) once the stream is exhausted.
// Events already built are drained before buildErr (if any) is surfaced,
// so documents that parsed fine ahead of a later fatal error are not lost.
func (p *Parser) Next() (*event.Event, error) {
	if !p.built {
		p.buildErr = p.build()
		p.built = true
	}
	if p.pos < len(p.events) {
		ev := &p.events[p.pos]
		p.pos++
		return ev, nil
	}
	if p.buildErr != nil {
		return nil, p.buildErr
	}
	return nil, nil
}

func (p *Parser) emit(ev event.Event) { p.events = append(p.events, ev) }

func (p *Parser) next() (*token.Token, error) { return p.sc.Next() }
func (p *Parser) peek() (*token.Token, error) { return p.sc.Peek(0) }

func (p *Parser) build() error {
	tk, err := p.next()
	if err != nil {
		return err
	}
	if tk.Kind != token.StreamStart {
		return yerrors.New(yerrors.ParseError, tk.Mark, "expected stream start, got %s", tk.Kind)
	}
	p.emit(event.Event{Kind: event.StreamStart, Mark: tk.Mark})

	for {
		p.anchors = map[string]int{}
		p.tagHandles = defaultTagHandles()
		p.version = ""

		startLen := len(p.events)
		atEnd, derr := p.parseOneDocument()
		if derr != nil {
			if !p.recoverDocument(startLen, derr) {
				return derr
			}
			if err := p.skipToNextDocument(); err != nil {
				return err
			}
			continue
		}
		if atEnd {
			break
		}
	}

	end, err := p.next()
	if err != nil {
		return err
	}
	if end.Kind != token.StreamEnd {
		return yerrors.New(yerrors.ParseError, end.Mark, "expected stream end, got %s", end.Kind)
	}
	p.emit(event.Event{Kind: event.StreamEnd, Mark: end.Mark})
	return nil
}

// parseOneDocument parses the directives and body of a single document,
// reporting atEnd=true (with no events emitted) if the stream has no more
// documents left.
func (p *Parser) parseOneDocument() (atEnd bool, err error) {
	if err := p.consumeDirectives(); err != nil {
		return false, err
	}
	peeked, err := p.peek()
	if err != nil {
		return false, err
	}
	if peeked.Kind == token.StreamEnd {
		return true, nil
	}
	implicitStart := true
	startMark := peeked.Mark
	if peeked.Kind == token.DocumentStart {
		implicitStart = false
		if _, err := p.next(); err != nil {
			return false, err
		}
	}
	p.emit(event.Event{Kind: event.DocumentStart, Mark: startMark, Implicit: implicitStart})

	if err := p.parseNode(); err != nil {
		return false, err
	}

	endTok, err := p.peek()
	if err != nil {
		return false, err
	}
	implicitEnd := true
	endMark := endTok.Mark
	if endTok.Kind == token.DocumentEnd {
		implicitEnd = false
		if _, err := p.next(); err != nil {
			return false, err
		}
	}
	p.emit(event.Event{Kind: event.DocumentEnd, Mark: endMark, Implicit: implicitEnd})
	return false, nil
}

// recoverDocument reports whether derr is a document-level grammar error
// this parser can safely paper over in best-effort mode: it discards
// whatever partial events this document emitted (truncating back to
// startLen) and replaces them with a single poisoned-document bracket
// (DocumentStart/DocError/DocumentEnd) carrying derr's message, so the
// loader can turn it into one Bad document and move on to the next one.
// Errors the scanner itself raised (bad UTF-8, unterminated quotes, tab
// indentation) are not recovered this way: the token stream may no longer
// be reliable past that point, so they are left fatal.
func (p *Parser) recoverDocument(startLen int, derr error) bool {
	if !p.bestEffort {
		return false
	}
	ye, ok := derr.(*yerrors.Error)
	if !ok {
		return false
	}
	p.events = p.events[:startLen]
	p.emit(event.Event{Kind: event.DocumentStart, Mark: ye.Mark, Implicit: true})
	p.emit(event.Event{Kind: event.DocError, Mark: ye.Mark, Value: ye.Error()})
	p.emit(event.Event{Kind: event.DocumentEnd, Mark: ye.Mark, Implicit: true})
	return true
}

// skipToNextDocument discards tokens until the next document boundary
// ("---", or end of stream) so the next build loop iteration starts
// parsing cleanly after a recovered document.
func (p *Parser) skipToNextDocument() error {
	for {
		tk, err := p.peek()
		if err != nil {
			return err
		}
		if tk.Kind == token.DocumentStart || tk.Kind == token.StreamEnd {
			return nil
		}
		if _, err := p.next(); err != nil {
			return err
		}
	}
}

func (p *Parser) consumeDirectives() error {
	for {
		tk, err := p.peek()
		if err != nil {
			return err
		}
		switch tk.Kind {
		case token.VersionDirective:
			if p.version != "" {
				return yerrors.New(yerrors.ParseError, tk.Mark, "duplicate %%YAML directive")
			}
			if tk.Value != "1.1" && tk.Value != "1.2" {
				return yerrors.New(yerrors.ParseError, tk.Mark, "unsupported YAML version %q", tk.Value)
			}
			p.version = tk.Value
			if _, err := p.next(); err != nil {
				return err
			}
		case token.TagDirective:
			handle, uri := splitTagDirective(tk.Value)
			if existing, ok := p.tagHandles[handle]; ok && existing != defaultTagHandles()[handle] {
				return yerrors.New(yerrors.ParseError, tk.Mark, "duplicate %%TAG directive for handle %q", handle)
			}
			p.tagHandles[handle] = uri
			if _, err := p.next(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func splitTagDirective(v string) (handle, uri string) {
	for i, r := range v {
		if r == ' ' {
			return v[:i], v[i+1:]
		}
	}
	return v, ""
}

func (p *Parser) nextAnchorID() int {
	p.anchorSeq++
	return p.anchorSeq
}

// resolveTag expands a shorthand/verbatim tag token's raw text into its
// full URI using the active %TAG handle table (§4.2.1).
func (p *Parser) resolveTag(raw string) string {
	if raw == "" || raw == "!" {
		return ""
	}
	if len(raw) > 2 && raw[:2] == "!<" {
		return raw[2 : len(raw)-1]
	}
	if full := schema.TagFor(raw); full != "" {
		return full
	}
	for i := 1; i < len(raw); i++ {
		if raw[i] == '!' {
			handle := raw[:i+1]
			suffix := raw[i+1:]
			if uri, ok := p.tagHandles[handle]; ok {
				return uri + suffix
			}
		}
	}
	if uri, ok := p.tagHandles["!"]; ok && uri != "!" {
		return uri + raw[1:]
	}
	return raw
}
