package decode

import "go.yamlcore.dev/yaml/ast"

// buildAnchorTable recovers the anchor-id -> Value table from an already
// built tree (each anchored node carries its own AnchorID, per ast.Value),
// using an explicit stack rather than recursive descent so a pathological
// input's nesting depth cannot exhaust the Go call stack before dispatch
// even begins.
func buildAnchorTable(root *ast.Value) map[int]*ast.Value {
	table := map[int]*ast.Value{}
	if root == nil {
		return table
	}
	stack := []*ast.Value{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v == nil {
			continue
		}
		if v.AnchorID != 0 {
			table[v.AnchorID] = v
		}
		switch v.Kind {
		case ast.SequenceKind:
			for _, e := range v.Sequence {
				stack = append(stack, e)
			}
		case ast.MappingKind:
			for _, p := range v.Mapping {
				stack = append(stack, p.Key, p.Value)
			}
		case ast.TaggedKind:
			stack = append(stack, v.Inner)
		}
	}
	return table
}
