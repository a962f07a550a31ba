package decode

// Option configures one Decode call, following the functional-options
// pattern used for construction throughout this module rather than a bare
// config struct.
type Option func(*config)

type config struct {
	maxActiveDepth int
	maxTotal       int
	validate       func(interface{}) error
}

func newConfig(opts ...Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLimits overrides the default alias-expansion caps (§4.6).
func WithLimits(maxActiveDepth, maxTotalExpansions int) Option {
	return func(c *config) {
		c.maxActiveDepth = maxActiveDepth
		c.maxTotal = maxTotalExpansions
	}
}

// WithValidation wires a github.com/go-playground/validator/v10-backed
// validation pass (or any equivalent func) to run against the fully
// decoded host value before Decode returns.
func WithValidation(validate func(interface{}) error) Option {
	return func(c *config) { c.validate = validate }
}
