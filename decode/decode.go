// Package decode implements the deserializer bridge (C7): a non-recursive
// dispatch from an ast.Value tree to a generic Visitor API, with
// alias-expansion accounting and Tagged-chain unwrapping — a single
// dispatch function, with SequenceAccess/MappingAccess calling it directly
// rather than recursing through a second deserializer. The reflect-based
// struct/slice/map binding on top of that dispatch uses the same
// struct-tag vocabulary and "decode into the concrete reflect.Value in
// place" shape common to reflection-based YAML decoders.
package decode

import (
	"math/big"
	"strconv"

	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/token"
	"go.yamlcore.dev/yaml/yerrors"
)

// Default alias-expansion caps (§4.6).
const (
	DefaultMaxActiveDepth     = 100
	DefaultMaxTotalExpansions = 10_000_000
)

// hookVisitor is implemented by visitors that can short-circuit dispatch
// for a subtree their target has its own opinion about (the UnmarshalYAML
// custom hook, §9 supplement). tryHook reports handled=true when it
// consumed v itself.
type hookVisitor interface {
	tryHook(v *ast.Value, st *state) (handled bool, err error)
}

// Visitor is the generic callback interface dispatch drives: exactly one
// method is called per Value, after Tagged-chain unwrapping and alias
// resolution have already happened.
type Visitor interface {
	VisitNull() error
	VisitBool(b bool) error
	VisitInt(i int64) error
	VisitBigInt(b *big.Int) error
	VisitFloat(f float64) error
	VisitString(s string) error
	VisitSequence(SequenceAccess) error
	VisitMapping(MappingAccess) error
}

// SequenceAccess iterates a captured element list with an index; Next
// dispatches directly into the caller-supplied visitor for the next
// element rather than constructing a nested decoder, per §4.6/§9.
type SequenceAccess interface {
	Len() int
	// Next reports false once exhausted; otherwise it has already called
	// dispatch(element, visitor) and returns its error, if any.
	Next(visitor Visitor) (bool, error)
}

// MappingAccess iterates a captured (key, value) pair list with an index.
type MappingAccess interface {
	Len() int
	// NextKey dispatches the next pair's key into visitor and reports
	// false once exhausted.
	NextKey(visitor Visitor) (bool, error)
	// NextValue dispatches the value half of the pair NextKey just
	// produced; callers must call NextKey then NextValue in lockstep.
	NextValue(visitor Visitor) error
}

// state is the per-top-level-deserialization bookkeeping: the anchor
// table inherited from the load (aliases are resolved here, not by the
// loader — see DESIGN.md), alias expansion accounting (§4.6), and the path
// trail attached to TypeErrors.
type state struct {
	anchors        map[int]*ast.Value
	maxActiveDepth int
	maxTotal       int
	activeDepth    int
	totalExpanded  int
	path           []string
}

func newState(anchors map[int]*ast.Value, maxActive, maxTotal int) *state {
	if maxActive <= 0 {
		maxActive = DefaultMaxActiveDepth
	}
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotalExpansions
	}
	return &state{anchors: anchors, maxActiveDepth: maxActive, maxTotal: maxTotal}
}

func (st *state) push(seg string) { st.path = append(st.path, seg) }
func (st *state) pop()            { st.path = st.path[:len(st.path)-1] }

func (st *state) pathCopy() []string {
	if len(st.path) == 0 {
		return nil
	}
	out := make([]string, len(st.path))
	copy(out, st.path)
	return out
}

// beginExpansion accounts for resolving one Alias node against the anchor
// table, enforcing both §4.6 caps; the returned func must be called once
// the expanded subtree has been fully consumed by the visitor.
func (st *state) beginExpansion(mark token.Mark) (func(), error) {
	st.totalExpanded++
	if st.totalExpanded > st.maxTotal {
		return nil, yerrors.RepetitionLimitExceeded(mark, "total alias expansions", st.maxTotal)
	}
	st.activeDepth++
	if st.activeDepth > st.maxActiveDepth {
		st.activeDepth--
		return nil, yerrors.RepetitionLimitExceeded(mark, "active alias expansion depth", st.maxActiveDepth)
	}
	return func() { st.activeDepth-- }, nil
}

// dispatch is the sole entry point into the Value tree: it unwraps any
// Tagged chain, resolves a top-level Alias against the accounting caps,
// then calls exactly one Visitor method. It never constructs another
// dispatch-capable object to recurse back into itself; SequenceAccess and
// MappingAccess call it directly on their captured elements instead.
func dispatch(v *ast.Value, visitor Visitor, st *state) error {
	for v.Kind == ast.TaggedKind {
		v = v.Inner
	}
	if v.Kind == ast.AliasKind {
		target, ok := st.anchors[v.AliasID]
		if !ok {
			return yerrors.New(yerrors.LoadError, v.Mark, "undefined alias id %d", v.AliasID).WithPath(st.pathCopy())
		}
		done, err := st.beginExpansion(v.Mark)
		if err != nil {
			return err
		}
		defer done()
		for target.Kind == ast.TaggedKind {
			target = target.Inner
		}
		v = target
	}
	if hook, ok := visitor.(hookVisitor); ok {
		handled, err := hook.tryHook(v, st)
		if handled || err != nil {
			return err
		}
	}
	switch v.Kind {
	case ast.NullKind:
		return visitor.VisitNull()
	case ast.BoolKind:
		return visitor.VisitBool(v.Bool)
	case ast.IntKind:
		return visitor.VisitInt(v.Int)
	case ast.BigIntKind:
		return visitor.VisitBigInt(v.BigInt)
	case ast.FloatKind:
		return visitor.VisitFloat(v.Float)
	case ast.StringKind:
		return visitor.VisitString(v.Str)
	case ast.SequenceKind:
		return visitor.VisitSequence(&seqAccess{items: v.Sequence, st: st})
	case ast.MappingKind:
		return visitor.VisitMapping(&mapAccess{pairs: v.Mapping, st: st})
	case ast.BadKind:
		return yerrors.New(yerrors.TypeError, v.Mark, "cannot decode a poisoned node: %s", v.Reason).WithPath(st.pathCopy())
	}
	return yerrors.New(yerrors.TypeError, v.Mark, "unresolvable value kind %s", v.Kind).WithPath(st.pathCopy())
}

type seqAccess struct {
	items []*ast.Value
	idx   int
	st    *state
}

func (s *seqAccess) Len() int { return len(s.items) }

func (s *seqAccess) Next(visitor Visitor) (bool, error) {
	if s.idx >= len(s.items) {
		return false, nil
	}
	v := s.items[s.idx]
	s.st.push(indexSegment(s.idx))
	s.idx++
	err := dispatch(v, visitor, s.st)
	s.st.pop()
	if err != nil {
		return false, err
	}
	return true, nil
}

type mapAccess struct {
	pairs []ast.Pair
	idx   int
	st    *state
}

func (m *mapAccess) Len() int { return len(m.pairs) }

func (m *mapAccess) NextKey(visitor Visitor) (bool, error) {
	if m.idx >= len(m.pairs) {
		return false, nil
	}
	if err := dispatch(m.pairs[m.idx].Key, visitor, m.st); err != nil {
		return false, err
	}
	return true, nil
}

func (m *mapAccess) NextValue(visitor Visitor) error {
	p := m.pairs[m.idx]
	m.idx++
	label := p.Key.Str
	if p.Key.Kind != ast.StringKind {
		label = "?"
	}
	m.st.push(label)
	err := dispatch(p.Value, visitor, m.st)
	m.st.pop()
	return err
}

func indexSegment(i int) string { return strconv.Itoa(i) }
