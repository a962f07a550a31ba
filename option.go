package yaml

import (
	"github.com/go-playground/validator/v10"

	"go.yamlcore.dev/yaml/schema"
)

// DecodeOption configures a Decoder, following the functional-options
// pattern used throughout this module's construction sites.
type DecodeOption func(*decoderConfig)

type decoderConfig struct {
	schema         schema.Name
	schemaSet      bool
	bestEffort     bool
	validator      *validator.Validate
	maxActiveDepth int
	maxTotal       int
}

// WithSchema selects the tag-resolution schema for untagged plain scalars
// (default: Core).
func WithSchema(name schema.Name) DecodeOption {
	return func(c *decoderConfig) {
		c.schema = name
		c.schemaSet = true
	}
}

// WithBestEffort makes the loader tolerant of document-level grammar
// errors: the offending document's root becomes a Bad node carrying the
// failure reason, and loading resumes at the next document boundary,
// instead of aborting the whole stream (§7). Scanner errors and load
// errors are not resumed from: the documents loaded so far are returned
// followed by one final Bad document, and the rest of the stream is not
// loaded.
func WithBestEffort(enabled bool) DecodeOption {
	return func(c *decoderConfig) { c.bestEffort = enabled }
}

// WithValidation runs github.com/go-playground/validator/v10 struct-tag
// validation (`validate:"..."`) against the fully decoded host value
// before Decode returns successfully.
func WithValidation() DecodeOption {
	return func(c *decoderConfig) {
		if c.validator == nil {
			c.validator = validator.New()
		}
	}
}

// WithExpansionLimits overrides the default §4.6 alias-expansion caps
// (active depth and total expansion count).
func WithExpansionLimits(maxActiveDepth, maxTotalExpansions int) DecodeOption {
	return func(c *decoderConfig) {
		c.maxActiveDepth = maxActiveDepth
		c.maxTotal = maxTotalExpansions
	}
}
