package parser

// Options configures the relaxations and limits the parser applies. The
// zero value is strict (no trailing commas, no top-level scalars) but is not
// DefaultOptions: it has no depth limit and ThrowAllErrors is false.
type Options struct {
	// AllowTrailingComma permits a comma before a closing '}' or ']'.
	AllowTrailingComma bool

	// AllowTopLevelScalar permits a bare STR/NUM/TRUE/FALSE/NULL at the root
	// instead of requiring an object or array.
	AllowTopLevelScalar bool

	// ThrowAllErrors controls the Reporter.SetThrowAll value the façade
	// applies before handing back a Reporter; it does not change what is
	// collected, only whether RenderDefault/Error renders every diagnostic or
	// only the first.
	ThrowAllErrors bool

	// MaxDepth bounds container nesting; 0 disables the guard. The zero
	// Options value therefore means "unlimited" and callers that want the
	// documented default of 10000 should start from DefaultOptions().
	MaxDepth int
}

// DefaultOptions returns the parser's documented defaults.
func DefaultOptions() Options {
	return Options{MaxDepth: 10000, ThrowAllErrors: true}
}

// Option mutates an Options value.
type Option func(*Options)

func WithAllowTrailingComma(allow bool) Option {
	return func(o *Options) { o.AllowTrailingComma = allow }
}

func WithAllowTopLevelScalar(allow bool) Option {
	return func(o *Options) { o.AllowTopLevelScalar = allow }
}

func WithThrowAllErrors(all bool) Option {
	return func(o *Options) { o.ThrowAllErrors = all }
}

func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}
