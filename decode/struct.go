package decode

import (
	"reflect"
	"strings"

	"go.yamlcore.dev/yaml/token"
	"go.yamlcore.dev/yaml/yerrors"
)

// structTagName is the struct-tag key this package reads, mirroring the
// teacher's struct.go (same tag vocabulary: name, omitempty, flow, inline;
// anchor/alias tags are marshal-only and have no decode-side effect).
const structTagName = "yaml"

type structField struct {
	FieldName   string
	RenderName  string
	IsOmitEmpty bool
	IsInline    bool
}

func newStructField(f reflect.StructField) *structField {
	tag := f.Tag.Get(structTagName)
	name := strings.ToLower(f.Name)
	opts := strings.Split(tag, ",")
	if opts[0] != "" {
		name = opts[0]
	}
	sf := &structField{FieldName: f.Name, RenderName: name}
	for _, opt := range opts[1:] {
		switch {
		case opt == "omitempty":
			sf.IsOmitEmpty = true
		case opt == "inline":
			sf.IsInline = true
		}
	}
	return sf
}

func isIgnoredField(f reflect.StructField) bool {
	if f.PkgPath != "" && !f.Anonymous {
		return true
	}
	return f.Tag.Get(structTagName) == "-"
}

// structFieldIndex is a resolved struct field map keyed by render name,
// with inline-embedded struct fields flattened in (recursively, so inline
// structs nested inside inline structs are flattened too).
type structFieldIndex struct {
	byName map[string]*structField
}

func (idx *structFieldIndex) byRenderName(name string) (*structField, bool) {
	sf, ok := idx.byName[name]
	return sf, ok
}

func structFieldMap(t reflect.Type) (*structFieldIndex, error) {
	idx := &structFieldIndex{byName: map[string]*structField{}}
	if err := collectStructFields(t, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func collectStructFields(t reflect.Type, idx *structFieldIndex) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if isIgnoredField(f) {
			continue
		}
		sf := newStructField(f)
		if sf.IsInline && f.Type.Kind() == reflect.Struct {
			if err := collectStructFields(f.Type, idx); err != nil {
				return err
			}
			continue
		}
		if _, exists := idx.byName[sf.RenderName]; exists {
			return yerrors.New(yerrors.TypeError, token.Mark{}, "duplicated struct field name %q", sf.RenderName)
		}
		idx.byName[sf.RenderName] = sf
	}
	return nil
}
