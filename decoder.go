package yaml

import (
	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/decode"
	"go.yamlcore.dev/yaml/loader"
	"go.yamlcore.dev/yaml/token"
	"go.yamlcore.dev/yaml/yerrors"
)

// Decoder reads and decodes YAML documents. The zero value is not usable;
// construct one with NewDecoder.
type Decoder struct {
	cfg *decoderConfig
}

// NewDecoder constructs a Decoder from functional DecodeOptions. It
// deliberately has no reference-file merging options (ReferenceReaders,
// ReferenceFiles, ReferenceDirs): that belongs to an external CLI/config
// surface, not the core loader.
func NewDecoder(opts ...DecodeOption) *Decoder {
	cfg := &decoderConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Decoder{cfg: cfg}
}

// Decode parses the first document in data and decodes it into v.
func (d *Decoder) Decode(data []byte, v interface{}) error {
	docs, err := d.Documents(data)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return yerrors.New(yerrors.LoadError, token.Mark{}, "no documents found")
	}
	return d.decodeDoc(docs[0], v)
}

// DecodeAll parses every document in data and calls each with every
// document in stream order, stopping at and returning the first error
// each returns.
func (d *Decoder) DecodeAll(data []byte, each func(doc *ast.Document) error) error {
	docs, err := d.Documents(data)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := each(doc); err != nil {
			return err
		}
	}
	return nil
}

// Documents parses data and returns every document's value tree without
// running the deserializer bridge, for callers that want to inspect or
// walk the ast.Value directly.
func (d *Decoder) Documents(data []byte) ([]*ast.Document, error) {
	ld := loader.New(loaderOptions(d.cfg))
	docs, err := ld.LoadAll(data)
	if ye, ok := err.(*yerrors.Error); ok {
		err = ye.WithSource(data)
	}
	return docs, err
}

func (d *Decoder) decodeDoc(doc *ast.Document, v interface{}) error {
	var opts []decode.Option
	if d.cfg.maxActiveDepth != 0 || d.cfg.maxTotal != 0 {
		opts = append(opts, decode.WithLimits(d.cfg.maxActiveDepth, d.cfg.maxTotal))
	}
	if d.cfg.validator != nil {
		opts = append(opts, decode.WithValidation(func(out interface{}) error {
			return d.cfg.validator.Struct(out)
		}))
	}
	return decode.Decode(doc.Root, v, opts...)
}
