// Package ast holds the value tree (C5): the in-memory document model the
// loader builds from parser events, an ordered node tree with a Kind tag
// per §3, without presentation-preserving node types (comments,
// column/indent layout) since round-trip comment preservation is an
// explicit Non-goal.
package ast

import (
	"math/big"

	"go.yamlcore.dev/yaml/token"
)

// Kind discriminates the tagged-sum Value type.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	BigIntKind
	FloatKind
	StringKind
	SequenceKind
	MappingKind
	TaggedKind
	AliasKind
	BadKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "Null"
	case BoolKind:
		return "Bool"
	case IntKind:
		return "Int"
	case BigIntKind:
		return "BigInt"
	case FloatKind:
		return "Float"
	case StringKind:
		return "String"
	case SequenceKind:
		return "Sequence"
	case MappingKind:
		return "Mapping"
	case TaggedKind:
		return "Tagged"
	case AliasKind:
		return "Alias"
	case BadKind:
		return "Bad"
	}
	return "Unknown"
}

// Pair is one entry of an ordered mapping.
type Pair struct {
	Key   *Value
	Value *Value
}

// Value is the tagged sum described in §3: Null, Bool, Int, BigInt, Float,
// String, Sequence, Mapping, Tagged, Alias, Bad.
type Value struct {
	Kind Kind
	Mark token.Mark

	// Explicit or schema-resolved tag, e.g. "tag:yaml.org,2002:str".
	// Always set once resolution has happened (§3 invariant: "a scalar has
	// exactly one tag after resolution").
	Tag string

	Bool   bool
	Int    int64
	BigInt *big.Int
	Float  float64
	Str    string

	Sequence []*Value
	Mapping  []Pair

	// Tagged wraps Inner with an explicit tag that the schema resolver did
	// not get to classify (used transiently by the loader; §9 requires the
	// deserializer to unwrap chains of these iteratively).
	Inner *Value

	// AliasID is set when Kind == AliasKind: it names the anchor this
	// pre-resolution placeholder refers to.
	AliasID int

	// AnchorID is the anchor under which this value was recorded, or 0.
	AnchorID int

	// Reason explains a Bad value (best-effort mode, §7).
	Reason string
}

// Document is one parsed document: its root value and whether its start
// was implicit. Directives are not recorded.
type Document struct {
	Root     *Value
	Implicit bool // true if the document did not start with "---"
}

func Null(mark token.Mark) *Value  { return &Value{Kind: NullKind, Mark: mark, Tag: "tag:yaml.org,2002:null"} }
func Bool(b bool, mark token.Mark) *Value {
	return &Value{Kind: BoolKind, Bool: b, Mark: mark, Tag: "tag:yaml.org,2002:bool"}
}
func Int(i int64, mark token.Mark) *Value {
	return &Value{Kind: IntKind, Int: i, Mark: mark, Tag: "tag:yaml.org,2002:int"}
}
func BigInt(b *big.Int, mark token.Mark) *Value {
	return &Value{Kind: BigIntKind, BigInt: b, Mark: mark, Tag: "tag:yaml.org,2002:int"}
}
func Float(f float64, mark token.Mark) *Value {
	return &Value{Kind: FloatKind, Float: f, Mark: mark, Tag: "tag:yaml.org,2002:float"}
}
func String(s string, mark token.Mark) *Value {
	return &Value{Kind: StringKind, Str: s, Mark: mark, Tag: "tag:yaml.org,2002:str"}
}
func Sequence(items []*Value, mark token.Mark) *Value {
	return &Value{Kind: SequenceKind, Sequence: items, Mark: mark, Tag: "tag:yaml.org,2002:seq"}
}
func Mapping(pairs []Pair, mark token.Mark) *Value {
	return &Value{Kind: MappingKind, Mapping: pairs, Mark: mark, Tag: "tag:yaml.org,2002:map"}
}
func Alias(id int, mark token.Mark) *Value {
	return &Value{Kind: AliasKind, AliasID: id, Mark: mark}
}
func Bad(reason string, mark token.Mark) *Value {
	return &Value{Kind: BadKind, Reason: reason, Mark: mark}
}

// Get returns the value mapped to a string key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != MappingKind {
		return nil
	}
	for _, p := range v.Mapping {
		if p.Key.Kind == StringKind && p.Key.Str == key {
			return p.Value
		}
	}
	return nil
}

// Equal implements the structural, order-sensitive node comparison §3
// requires for mapping key equality: deep and order-sensitive for nested
// mappings/sequences.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case NullKind:
		return true
	case BoolKind:
		return a.Bool == b.Bool
	case IntKind:
		return a.Int == b.Int
	case BigIntKind:
		return a.BigInt.Cmp(b.BigInt) == 0
	case FloatKind:
		return a.Float == b.Float
	case StringKind:
		return a.Str == b.Str
	case SequenceKind:
		if len(a.Sequence) != len(b.Sequence) {
			return false
		}
		for i := range a.Sequence {
			if !Equal(a.Sequence[i], b.Sequence[i]) {
				return false
			}
		}
		return true
	case MappingKind:
		if len(a.Mapping) != len(b.Mapping) {
			return false
		}
		for i := range a.Mapping {
			if !Equal(a.Mapping[i].Key, b.Mapping[i].Key) || !Equal(a.Mapping[i].Value, b.Mapping[i].Value) {
				return false
			}
		}
		return true
	case TaggedKind:
		return a.Tag == b.Tag && Equal(a.Inner, b.Inner)
	case AliasKind:
		return a.AliasID == b.AliasID
	case BadKind:
		return a.Reason == b.Reason
	}
	return false
}

// Unwrap iteratively collapses a chain of Tagged wrappers, per §9's
// requirement that tag-chain unwrapping never recurse.
func Unwrap(v *Value) *Value {
	for v != nil && v.Kind == TaggedKind {
		v = v.Inner
	}
	return v
}

// Clone makes a shallow, value-shared copy of v (§3: "replaced by a
// shallow, shared-by-value copy of the anchored node"). The decode
// package's alias expansion does not call it.
func Clone(v *Value) *Value {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
