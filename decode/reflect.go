package decode

import (
	"math"
	"math/big"
	"reflect"

	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/token"
	"go.yamlcore.dev/yaml/yerrors"
)

// unmarshaler is the custom-hook shape: implementers get the subtree
// re-serialized to canonical YAML bytes and decode it themselves.
type unmarshaler interface {
	UnmarshalYAML([]byte) error
}

// reflectVisitor binds one dispatch call's result into target, a settable
// reflect.Value. A new reflectVisitor is constructed per element precisely
// because each element generally targets a different reflect.Value (a
// struct field, a slice's next slot); this is distinct from constructing a
// new *dispatch*, which never happens — SequenceAccess/MappingAccess call
// the package-level dispatch function directly.
type reflectVisitor struct {
	target reflect.Value
	mark   token.Mark
	st     *state
}

func newReflectVisitor(target reflect.Value, mark token.Mark, st *state) *reflectVisitor {
	return &reflectVisitor{target: target, mark: mark, st: st}
}

// tryHook implements hookVisitor: if the decode target (or its address)
// implements the UnmarshalYAML([]byte) error custom hook, the subtree is
// re-rendered to canonical bytes and handed off, short-circuiting the rest
// of dispatch for it.
func (r *reflectVisitor) tryHook(v *ast.Value, st *state) (bool, error) {
	ptr := r.target
	if ptr.Kind() == reflect.Ptr {
		if ptr.IsNil() {
			if !ptr.CanSet() {
				return false, nil
			}
			ptr.Set(reflect.New(ptr.Type().Elem()))
		}
	} else if ptr.CanAddr() {
		ptr = ptr.Addr()
	} else {
		return false, nil
	}
	u, ok := ptr.Interface().(unmarshaler)
	if !ok {
		return false, nil
	}
	if err := u.UnmarshalYAML(canonicalYAML(v, st.anchors)); err != nil {
		return true, r.typeErr("UnmarshalYAML: %v", err)
	}
	return true, nil
}

func (r *reflectVisitor) typeErr(format string, args ...interface{}) error {
	return yerrors.New(yerrors.TypeError, r.mark, format, args...).WithPath(r.st.pathCopy())
}

// settable dereferences/allocates through pointers until it reaches a
// non-pointer addressable value, matching encoding/json's decode-target
// handling.
func (r *reflectVisitor) settable() reflect.Value {
	v := r.target
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v
}

func (r *reflectVisitor) VisitNull() error {
	v := r.settable()
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice:
		v.Set(reflect.Zero(v.Type()))
		return nil
	case reflect.String:
		v.SetString("")
		return nil
	}
	v.Set(reflect.Zero(v.Type()))
	return nil
}

func (r *reflectVisitor) VisitBool(b bool) error {
	v := r.settable()
	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(b)
		return nil
	case reflect.Interface:
		v.Set(reflect.ValueOf(b))
		return nil
	}
	return r.typeErr("cannot decode bool into %s", v.Type())
}

func (r *reflectVisitor) VisitInt(i int64) error {
	v := r.settable()
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.OverflowInt(i) {
			return r.typeErr("integer %d overflows %s", i, v.Type())
		}
		v.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i < 0 || v.OverflowUint(uint64(i)) {
			return r.typeErr("integer %d overflows %s", i, v.Type())
		}
		v.SetUint(uint64(i))
		return nil
	case reflect.Float32, reflect.Float64:
		v.SetFloat(float64(i))
		return nil
	case reflect.Interface:
		v.Set(reflect.ValueOf(i))
		return nil
	}
	return r.typeErr("cannot decode int into %s", v.Type())
}

func (r *reflectVisitor) VisitBigInt(b *big.Int) error {
	v := r.settable()
	switch v.Kind() {
	case reflect.Interface:
		v.Set(reflect.ValueOf(new(big.Int).Set(b)))
		return nil
	case reflect.String:
		v.SetString(b.String())
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !b.IsInt64() {
			return r.typeErr("big integer %s overflows %s", b, v.Type())
		}
		return r.VisitInt(b.Int64())
	case reflect.Float32, reflect.Float64:
		f, _ := new(big.Float).SetInt(b).Float64()
		v.SetFloat(f)
		return nil
	}
	return r.typeErr("cannot decode big integer into %s", v.Type())
}

func (r *reflectVisitor) VisitFloat(f float64) error {
	v := r.settable()
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(f)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f != math.Trunc(f) {
			return r.typeErr("float %v is not exactly representable as %s", f, v.Type())
		}
		i := int64(f)
		if float64(i) != f || v.OverflowInt(i) {
			return r.typeErr("float %v is not exactly representable as %s", f, v.Type())
		}
		v.SetInt(i)
		return nil
	case reflect.Interface:
		v.Set(reflect.ValueOf(f))
		return nil
	}
	return r.typeErr("cannot decode float into %s", v.Type())
}

func (r *reflectVisitor) VisitString(s string) error {
	v := r.settable()
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
		return nil
	case reflect.Interface:
		v.Set(reflect.ValueOf(s))
		return nil
	}
	return r.typeErr("cannot decode string into %s", v.Type())
}

func (r *reflectVisitor) VisitSequence(access SequenceAccess) error {
	v := r.settable()
	switch v.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(v.Type(), 0, access.Len())
		elemType := v.Type().Elem()
		for {
			slot := reflect.New(elemType).Elem()
			ok, err := access.Next(newReflectVisitor(slot.Addr(), r.mark, r.st))
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			out = reflect.Append(out, slot)
		}
		v.Set(out)
		return nil
	case reflect.Array:
		i := 0
		for i < v.Len() {
			ok, err := access.Next(newReflectVisitor(v.Index(i).Addr(), r.mark, r.st))
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			i++
		}
		return nil
	case reflect.Interface:
		out := make([]interface{}, 0, access.Len())
		for {
			var slot interface{}
			slotV := reflect.ValueOf(&slot).Elem()
			ok, err := access.Next(newReflectVisitor(slotV, r.mark, r.st))
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			out = append(out, slot)
		}
		v.Set(reflect.ValueOf(out))
		return nil
	}
	return r.typeErr("cannot decode sequence into %s", v.Type())
}

func (r *reflectVisitor) VisitMapping(access MappingAccess) error {
	v := r.settable()
	switch {
	case v.Kind() == reflect.Map:
		return r.visitMapIntoMap(v, access)
	case v.Kind() == reflect.Struct:
		return r.visitMapIntoStruct(v, access)
	case v.Kind() == reflect.Interface:
		out := make(map[string]interface{}, access.Len())
		var order []string
		for {
			var key interface{}
			keyV := reflect.ValueOf(&key).Elem()
			ok, err := access.NextKey(newReflectVisitor(keyV, r.mark, r.st))
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			var val interface{}
			valV := reflect.ValueOf(&val).Elem()
			if err := access.NextValue(newReflectVisitor(valV, r.mark, r.st)); err != nil {
				return err
			}
			ks, _ := key.(string)
			order = append(order, ks)
			out[ks] = val
		}
		v.Set(reflect.ValueOf(out))
		return nil
	}
	return r.typeErr("cannot decode mapping into %s", v.Type())
}

func (r *reflectVisitor) visitMapIntoMap(v reflect.Value, access MappingAccess) error {
	mt := v.Type()
	out := reflect.MakeMapWithSize(mt, access.Len())
	for {
		keySlot := reflect.New(mt.Key()).Elem()
		ok, err := access.NextKey(newReflectVisitor(keySlot.Addr(), r.mark, r.st))
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		valSlot := reflect.New(mt.Elem()).Elem()
		if err := access.NextValue(newReflectVisitor(valSlot.Addr(), r.mark, r.st)); err != nil {
			return err
		}
		out.SetMapIndex(keySlot, valSlot)
	}
	v.Set(out)
	return nil
}

func (r *reflectVisitor) visitMapIntoStruct(v reflect.Value, access MappingAccess) error {
	fields, err := structFieldMap(v.Type())
	if err != nil {
		return err
	}
	for {
		var key string
		keyV := reflect.ValueOf(&key).Elem()
		ok, kerr := access.NextKey(newReflectVisitor(keyV, r.mark, r.st))
		if kerr != nil {
			return kerr
		}
		if !ok {
			break
		}
		sf, known := fields.byRenderName(key)
		if !known {
			// Unknown keys are skipped; there is no "deny unknown fields"
			// mode in this bridge.
			var discard interface{}
			discardV := reflect.ValueOf(&discard).Elem()
			if err := access.NextValue(newReflectVisitor(discardV, r.mark, r.st)); err != nil {
				return err
			}
			continue
		}
		field := v.FieldByName(sf.FieldName)
		r.st.push(sf.RenderName)
		verr := access.NextValue(newReflectVisitor(field.Addr(), r.mark, r.st))
		r.st.pop()
		if verr != nil {
			return verr
		}
	}
	return nil
}
