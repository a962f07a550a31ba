package decode

import (
	"reflect"

	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/yerrors"
)

// Decode drives dispatch for one document's root value into target, which
// must be a non-nil pointer, then runs any validation wired in via
// WithValidation.
func Decode(root *ast.Value, target interface{}, opts ...Option) error {
	cfg := newConfig(opts...)
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return yerrors.New(yerrors.TypeError, root.Mark, "decode target must be a non-nil pointer, got %T", target)
	}
	st := newState(buildAnchorTable(root), cfg.maxActiveDepth, cfg.maxTotal)
	visitor := newReflectVisitor(rv, root.Mark, st)
	if err := dispatch(root, visitor, st); err != nil {
		return err
	}
	if cfg.validate != nil {
		if err := cfg.validate(target); err != nil {
			return yerrors.Wrap(yerrors.Custom, root.Mark, err, "validation failed")
		}
	}
	return nil
}
