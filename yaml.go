// Package yaml is a YAML 1.2 loader: the character source, scanner,
// parser, loader and deserializer bridge are implemented in the
// sub-packages (chars, scanner, parser, loader, decode); this package is
// the public surface over them, with Unmarshal as a thin wrapper over a
// Decoder.
//
// Serialization (Marshal) is out of scope: this package loads YAML into
// host values, it does not render host values back to YAML text.
package yaml

import (
	"go.yamlcore.dev/yaml/loader"
	"go.yamlcore.dev/yaml/schema"
)

// Unmarshaler may be implemented by a type to take over decoding of its
// own subtree: the decode package calls UnmarshalYAML with that subtree
// re-rendered as flow-style YAML bytes instead of binding it field by
// field.
type Unmarshaler interface {
	UnmarshalYAML([]byte) error
}

// Unmarshal decodes the first document in data into v, which must be a
// non-nil pointer.
//
// Struct fields are only decoded if exported, using the field name
// lowercased as the default key; a `yaml:"name,omitempty,inline"` tag
// overrides the key and tweaks decode behavior; the decode package's
// struct binding interprets these tags.
func Unmarshal(data []byte, v interface{}, opts ...DecodeOption) error {
	dec := NewDecoder(opts...)
	return dec.Decode(data, v)
}

func schemaFromConfig(c *decoderConfig) schema.Name {
	if c.schemaSet {
		return c.schema
	}
	return schema.Core
}

func loaderOptions(c *decoderConfig) loader.Options {
	return loader.Options{Schema: schemaFromConfig(c), BestEffort: c.bestEffort}
}
