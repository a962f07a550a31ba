// Package loader implements the event sink (C4): it consumes the parser's
// event stream and materializes each document into an ast.Value tree,
// resolving tags through the active schema and checking every alias
// against a per-document anchor table, walking the event stream into its
// own AST via an explicit container stack rather than recursive
// construction. Aliases stay in the tree as Alias placeholders that the
// decode package expands; only merge-key sources are resolved here.
package loader

import (
	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/event"
	"go.yamlcore.dev/yaml/parser"
	"go.yamlcore.dev/yaml/schema"
	"go.yamlcore.dev/yaml/token"
	"go.yamlcore.dev/yaml/yerrors"
)

// MergeKeyTag is the standard merge-key tag (§9 supplement: the "<<" key
// merges one or more mappings into the enclosing one).
const MergeKeyTag = "tag:yaml.org,2002:merge"

// Options configures one Load call.
type Options struct {
	Schema     schema.Name
	BestEffort bool
}

// Loader drives one parser to completion, producing every document in the
// stream (or stopping at the first error when not in best-effort mode).
type Loader struct {
	opts Options
}

// New constructs a Loader with the given options.
func New(opts Options) *Loader {
	return &Loader{opts: opts}
}

// LoadAll parses data and returns every document in the stream.
func (l *Loader) LoadAll(data []byte) ([]*ast.Document, error) {
	var popts []parser.Option
	if l.opts.BestEffort {
		popts = append(popts, parser.WithBestEffort())
	}
	p, err := parser.New(data, popts...)
	if err != nil {
		return nil, err
	}
	return l.run(p)
}

type frame struct {
	mark     token.Mark
	tag      string
	anchorID int
	isSeq    bool
	seq      []*ast.Value
	pairs    []ast.Pair
	pendKey  *ast.Value
	hasKey   bool
}

type docState struct {
	anchors map[int]*ast.Value
	stack   []*frame
	root    *ast.Value
}

// run drives the parser to completion. A document-level grammar error is
// already resolved into a DocError event by the parser itself when
// best-effort mode is on (see parser.WithBestEffort), so the error paths
// below only ever see a fatal, unrecoverable failure (a scanner-level
// error, or any error at all outside best-effort mode): once recorded as a
// single Bad document, consumption stops rather than looping, since the
// parser has nothing further it can safely produce past that point.
func (l *Loader) run(p *parser.Parser) ([]*ast.Document, error) {
	var docs []*ast.Document
	for {
		ev, err := p.Next()
		if err != nil {
			if l.opts.BestEffort {
				docs = append(docs, &ast.Document{Root: ast.Bad(err.Error(), markOf(err))})
				return docs, nil
			}
			return docs, err
		}
		if ev == nil {
			return docs, nil
		}
		switch ev.Kind {
		case event.StreamStart:
			continue
		case event.StreamEnd:
			return docs, nil
		case event.DocumentStart:
			doc, derr := l.loadOne(p, ev.Implicit)
			if derr != nil {
				if l.opts.BestEffort {
					docs = append(docs, &ast.Document{Root: ast.Bad(derr.Error(), markOf(derr)), Implicit: ev.Implicit})
					return docs, nil
				}
				return docs, derr
			}
			docs = append(docs, doc)
		default:
			return docs, yerrors.New(yerrors.LoadError, ev.Mark, "unexpected event %s at stream level", ev.Kind)
		}
	}
}

func markOf(err error) token.Mark {
	if ye, ok := err.(*yerrors.Error); ok {
		return ye.Mark
	}
	return token.Mark{}
}

// loadOne consumes events from DocumentStart (already consumed by run) up
// to and including DocumentEnd, building the document's root value.
func (l *Loader) loadOne(p *parser.Parser, implicit bool) (*ast.Document, error) {
	st := &docState{anchors: map[int]*ast.Value{}}
	for {
		ev, err := p.Next()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, yerrors.New(yerrors.LoadError, token.Mark{}, "stream ended mid-document")
		}
		if ev.Kind == event.DocError {
			st.root = ast.Bad(ev.Value, ev.Mark)
			continue
		}
		if ev.Kind == event.DocumentEnd {
			if len(st.stack) != 0 {
				return nil, yerrors.New(yerrors.LoadError, ev.Mark, "document ended with unclosed containers")
			}
			if st.root == nil {
				st.root = ast.Null(ev.Mark)
			}
			return &ast.Document{Root: st.root, Implicit: implicit}, nil
		}
		if err := l.step(st, ev); err != nil {
			return nil, err
		}
	}
}

func (l *Loader) step(st *docState, ev *event.Event) error {
	switch ev.Kind {
	case event.Alias:
		v, ok := st.anchors[ev.AliasID]
		if !ok {
			return yerrors.New(yerrors.LoadError, ev.Mark, "undefined alias id %d", ev.AliasID)
		}
		return st.install(ast.Alias(ev.AliasID, ev.Mark), v)
	case event.Scalar:
		v, err := l.resolveScalar(ev)
		if err != nil {
			return err
		}
		if ev.AnchorID != 0 {
			v.AnchorID = ev.AnchorID
			st.anchors[ev.AnchorID] = v
		}
		return st.install(v, v)
	case event.SequenceStart:
		st.push(&frame{mark: ev.Mark, tag: ev.Tag, anchorID: ev.AnchorID, isSeq: true})
		return nil
	case event.MappingStart:
		st.push(&frame{mark: ev.Mark, tag: ev.Tag, anchorID: ev.AnchorID, isSeq: false})
		return nil
	case event.SequenceEnd:
		fr, err := st.pop(true, ev.Mark)
		if err != nil {
			return err
		}
		v := ast.Sequence(fr.seq, fr.mark)
		if fr.tag != "" {
			v.Tag = fr.tag
		}
		if fr.anchorID != 0 {
			v.AnchorID = fr.anchorID
			st.anchors[fr.anchorID] = v
		}
		return st.install(v, v)
	case event.MappingEnd:
		fr, err := st.pop(false, ev.Mark)
		if err != nil {
			return err
		}
		pairs, err := applyMerges(fr.pairs, st.anchors, ev.Mark)
		if err != nil {
			return err
		}
		v := ast.Mapping(pairs, fr.mark)
		if fr.tag != "" {
			v.Tag = fr.tag
		}
		if fr.anchorID != 0 {
			v.AnchorID = fr.anchorID
			st.anchors[fr.anchorID] = v
		}
		return st.install(v, v)
	}
	return yerrors.New(yerrors.LoadError, ev.Mark, "unexpected event %s inside document", ev.Kind)
}

func (l *Loader) resolveScalar(ev *event.Event) (*ast.Value, error) {
	if ev.Tag != "" {
		if full := schema.TagFor(shorthandOf(ev.Tag)); full != "" {
			ev.Tag = full
		}
		return taggedScalar(ev)
	}
	if ev.ImplicitQuoted {
		return ast.String(ev.Value, ev.Mark), nil
	}
	v, err := schema.Resolve(l.opts.Schema, ev.Value, ev.Mark)
	if err != nil {
		if l.opts.Schema == schema.JSON {
			return nil, yerrors.Wrap(yerrors.SchemaError, ev.Mark, err, "cannot resolve scalar under JSON schema")
		}
		return ast.String(ev.Value, ev.Mark), nil
	}
	return v, nil
}

// shorthandOf is a no-op passthrough kept distinct from the tag string
// itself so resolveScalar reads the same whether the tag arrived already
// expanded (the common case, since parser.resolveTag expands !! forms) or
// as a raw shorthand from a literal "!!foo" the parser did not recognize.
func shorthandOf(tag string) string { return tag }

// taggedScalar builds a Value for an explicitly tagged scalar: known
// yaml.org scalar tags coerce the literal text directly (so "!!int 5" does
// not need a second schema pass); anything else is a Tagged wrapper around
// the string content, left for the deserializer to interpret (§4.5: an
// explicit tag overrides schema resolution).
func taggedScalar(ev *event.Event) (*ast.Value, error) {
	switch ev.Tag {
	case "tag:yaml.org,2002:null":
		v := ast.Null(ev.Mark)
		return v, nil
	case "tag:yaml.org,2002:str":
		return ast.String(ev.Value, ev.Mark), nil
	case "tag:yaml.org,2002:bool", "tag:yaml.org,2002:int", "tag:yaml.org,2002:float":
		v, err := schema.Resolve(schema.Core, ev.Value, ev.Mark)
		if err != nil {
			return nil, err
		}
		v.Tag = ev.Tag
		return v, nil
	default:
		inner := ast.String(ev.Value, ev.Mark)
		return &ast.Value{Kind: ast.TaggedKind, Mark: ev.Mark, Tag: ev.Tag, Inner: inner}, nil
	}
}

func (st *docState) push(fr *frame) { st.stack = append(st.stack, fr) }

func (st *docState) pop(wantSeq bool, mark token.Mark) (*frame, error) {
	if len(st.stack) == 0 {
		return nil, yerrors.New(yerrors.LoadError, mark, "unbalanced container end")
	}
	fr := st.stack[len(st.stack)-1]
	if fr.isSeq != wantSeq {
		return nil, yerrors.New(yerrors.LoadError, mark, "mismatched container end")
	}
	st.stack = st.stack[:len(st.stack)-1]
	return fr, nil
}

// install places a freshly produced value (whose anchor-assignable form is
// anchorable, normally the same as v except for Alias placeholders which
// carry no anchor of their own) into the current top-of-stack container,
// or sets it as the document root if the stack is empty.
func (st *docState) install(v, anchorable *ast.Value) error {
	if len(st.stack) == 0 {
		st.root = v
		return nil
	}
	top := st.stack[len(st.stack)-1]
	if top.isSeq {
		top.seq = append(top.seq, v)
		return nil
	}
	if !top.hasKey {
		top.pendKey = v
		top.hasKey = true
		return nil
	}
	top.pairs = append(top.pairs, ast.Pair{Key: top.pendKey, Value: v})
	top.hasKey = false
	top.pendKey = nil
	return nil
}

// applyMerges expands any "<<" merge-key entries (§9 supplement) in a
// mapping's pairs, splicing the referenced mapping's (or sequence of
// mappings') pairs in at the merge key's position without overriding keys
// already present earlier in the list, per the de-facto merge-key
// convention. The merge source is usually reached through an alias; since
// the anchor it names was necessarily closed earlier in the same document
// (§3: "every Alias must be introduced after the event that defined its
// anchor"), anchors is already complete enough to resolve it here, ahead of
// the deserializer's own alias-expansion accounting in §4.6.
func applyMerges(pairs []ast.Pair, anchors map[int]*ast.Value, mark token.Mark) ([]ast.Pair, error) {
	hasMerge := false
	for _, p := range pairs {
		if isMergeKey(p.Key) {
			hasMerge = true
			break
		}
	}
	if !hasMerge {
		return pairs, nil
	}

	seen := map[string]bool{}
	var out []ast.Pair
	for _, p := range pairs {
		if !isMergeKey(p.Key) {
			if s, ok := simpleKeyText(p.Key); ok {
				seen[s] = true
			}
			out = append(out, p)
			continue
		}
		sources, err := mergeSources(p.Value, anchors, mark)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			if src.Kind != ast.MappingKind {
				return nil, yerrors.New(yerrors.LoadError, mark, "merge key value must be a mapping or sequence of mappings")
			}
			for _, sp := range src.Mapping {
				if s, ok := simpleKeyText(sp.Key); ok {
					if seen[s] {
						continue
					}
					seen[s] = true
				}
				out = append(out, sp)
			}
		}
	}
	return out, nil
}

func isMergeKey(k *ast.Value) bool {
	return k.Tag == MergeKeyTag || (k.Kind == ast.StringKind && k.Str == "<<")
}

func simpleKeyText(k *ast.Value) (string, bool) {
	if k.Kind == ast.StringKind {
		return k.Str, true
	}
	return "", false
}

func resolveAlias(v *ast.Value, anchors map[int]*ast.Value, mark token.Mark) (*ast.Value, error) {
	if v.Kind != ast.AliasKind {
		return v, nil
	}
	target, ok := anchors[v.AliasID]
	if !ok {
		return nil, yerrors.New(yerrors.LoadError, mark, "undefined alias id %d in merge key", v.AliasID)
	}
	return target, nil
}

func mergeSources(v *ast.Value, anchors map[int]*ast.Value, mark token.Mark) ([]*ast.Value, error) {
	resolved, err := resolveAlias(v, anchors, mark)
	if err != nil {
		return nil, err
	}
	if resolved.Kind == ast.SequenceKind {
		out := make([]*ast.Value, len(resolved.Sequence))
		for i, e := range resolved.Sequence {
			r, err := resolveAlias(e, anchors, mark)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}
	return []*ast.Value{resolved}, nil
}
