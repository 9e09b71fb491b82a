package templater

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/lintql/lintql/pkg/config"
)

// SectionKind is the first element of every configuration path consumed
// by this package, separating templater settings from other config
// domains. Variant settings live under (SectionKind, <variant>, "context")
// and (SectionKind, <variant>, "macros").
const SectionKind = "templater"

// Registered variant names.
const (
	RawName         = "raw"
	PlaceholderName = "placeholder"
	JinjaName       = "jinja"

	// DefaultName is the variant used when Select is called with an
	// empty name.
	DefaultName = JinjaName
)

// Result is the outcome of a single Process call. Rendered reports
// whether output text was produced at all; when it is false the document
// failed as a whole and Text must be ignored, no matter how many
// violations accompany it. Violations are in arrival (document) order.
type Result struct {
	Text       string
	Rendered   bool
	Violations []Violation
}

// Templater is the contract every variant satisfies. Process is the sole
// data-plane entry point: it takes the raw source text, an optional
// filename (used only for diagnostics), and an optional configuration.
// Instances hold no per-document state, so one instance may process many
// documents, interleaved or from separate goroutines.
type Templater interface {
	// Name returns the variant's registry name.
	Name() string

	// Process renders the input text. A non-nil error is a fatal
	// templating or configuration failure with no partial result.
	Process(in string, fname string, cfg *config.Config) (Result, error)

	// EqualVariant reports whether other is the same variant as this
	// templater, regardless of construction options. Upstream
	// config-comparison logic relies on this.
	EqualVariant(other Templater) bool
}

// Factory constructs a templater instance, forwarding construction
// options.
type Factory func(opts ...Option) Templater

// registry maps variant names to factories. It is populated here, in one
// place, before first use; Register may extend it during process
// initialization.
var registry = map[string]Factory{
	RawName:         func(opts ...Option) Templater { return NewRawTemplater(opts...) },
	PlaceholderName: func(opts ...Option) Templater { return NewPlaceholderTemplater(opts...) },
	JinjaName:       func(opts ...Option) Templater { return NewJinjaTemplater(opts...) },
}

// Register adds a templater factory under the given name. The last
// registration for a name wins, so registering an existing name shadows
// the built-in variant. Register is intended for process initialization,
// before any Select call; it is not synchronized.
func Register(name string, f Factory) {
	registry[name] = f
}

// Select instantiates the named templater variant, forwarding opts to
// its factory. An empty name selects DefaultName. An unknown name
// returns an error wrapping ErrUnknownTemplater that lists the
// registered names.
func Select(name string, opts ...Option) (Templater, error) {
	if name == "" {
		name = DefaultName
	}
	f, ok := registry[name]
	if !ok {
		names := make([]string, 0, len(registry))
		for n := range registry {
			names = append(names, n)
		}
		slices.Sort(names)
		return nil, fmt.Errorf("%w: requested templater %q is not available, try one of: %s",
			ErrUnknownTemplater, name, strings.Join(names, ", "))
	}
	return f(opts...), nil
}

// Option configures a templater at construction time.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	overrides map[string]any
}

// WithLogger sets the logger used by the templater. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOverrides supplies caller-level context values that take priority
// over both built-in defaults and configuration-supplied values. Override
// values are used verbatim; no type inference is applied to them.
func WithOverrides(overrides map[string]any) Option {
	return func(o *options) {
		o.overrides = overrides
	}
}

func newOptions(opts ...Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// sameVariant implements the shared EqualVariant notion: variant
// identity, nothing else.
func sameVariant(a, b Templater) bool {
	return a != nil && b != nil && a.Name() == b.Name()
}
