package rwbs

type decodeConfig struct {
	maxDepth   int
	looseEnums bool
}

func defaultConfig() decodeConfig {
	return decodeConfig{maxDepth: 64}
}

type Option func(*decodeConfig)

// WithMaxDepth bounds chunk nesting. Decode fails with ErrDepth when the
// input nests deeper. The default is 64, far beyond anything a real stream
// produces.
func WithMaxDepth(n int) Option {
	return func(c *decodeConfig) { c.maxDepth = n }
}

// WithLooseEnums keeps out-of-range filtering and addressing values as their
// raw numeric codes instead of failing with ErrInvalidEnum. Off by default.
func WithLooseEnums(v bool) Option {
	return func(c *decodeConfig) { c.looseEnums = v }
}
