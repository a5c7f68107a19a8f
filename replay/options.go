package replay

// DefaultMaxDepth is the default limit on record nesting.
const DefaultMaxDepth = 256

// Option configures decoding.
type Option func(*decodeOptions)

type decodeOptions struct {
	int64Placeholder bool
	maxDepth         int
}

func defaultDecodeOptions() *decodeOptions {
	return &decodeOptions{
		maxDepth: DefaultMaxDepth,
	}
}

// WithInt64Placeholder makes INT64 and UINT64 elements skip their eight bytes
// and decode as a KindNull value instead of a real integer. This reproduces
// the output of older tooling that could not represent 64-bit integers.
func WithInt64Placeholder() Option {
	return func(o *decodeOptions) {
		o.int64Placeholder = true
	}
}

// WithMaxDepth sets the maximum nesting of records and record arrays.
// Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(o *decodeOptions) {
		if depth >= 1 {
			o.maxDepth = depth
		}
	}
}
