package decode

import (
	"strconv"
	"strings"

	"go.yamlcore.dev/yaml/ast"
)

// canonicalYAML renders v as flow-style YAML (a strict superset of JSON
// syntax, so every quoting/escaping rule is simple): just enough to hand a
// self-contained byte slice to an UnmarshalYAML hook. This is not a general
// emitter — it never renders comments, block styles, or anchors, and
// round-tripping its output through the loader only needs to reproduce
// structure and scalar values, not presentation.
func canonicalYAML(v *ast.Value, anchors map[int]*ast.Value) []byte {
	var sb strings.Builder
	writeCanonical(&sb, v, anchors, 0)
	return []byte(sb.String())
}

func writeCanonical(sb *strings.Builder, v *ast.Value, anchors map[int]*ast.Value, depth int) {
	if depth > 10000 {
		sb.WriteString("null")
		return
	}
	switch v.Kind {
	case ast.TaggedKind:
		writeCanonical(sb, v.Inner, anchors, depth+1)
	case ast.AliasKind:
		if target, ok := anchors[v.AliasID]; ok {
			writeCanonical(sb, target, anchors, depth+1)
		} else {
			sb.WriteString("null")
		}
	case ast.NullKind:
		sb.WriteString("null")
	case ast.BoolKind:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case ast.IntKind:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case ast.BigIntKind:
		sb.WriteString(v.BigInt.String())
	case ast.FloatKind:
		sb.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case ast.StringKind:
		sb.WriteString(quoteCanonical(v.Str))
	case ast.SequenceKind:
		sb.WriteByte('[')
		for i, e := range v.Sequence {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeCanonical(sb, e, anchors, depth+1)
		}
		sb.WriteByte(']')
	case ast.MappingKind:
		sb.WriteByte('{')
		for i, p := range v.Mapping {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeCanonical(sb, p.Key, anchors, depth+1)
			sb.WriteString(": ")
			writeCanonical(sb, p.Value, anchors, depth+1)
		}
		sb.WriteByte('}')
	case ast.BadKind:
		sb.WriteString("null")
	}
}

func quoteCanonical(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
