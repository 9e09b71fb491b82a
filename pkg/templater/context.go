package templater

import (
	"maps"

	"github.com/lintql/lintql/pkg/config"
)

// contextBuilder assembles the variable context shared by the
// placeholder and jinja variants. Three layers merge in increasing
// priority: built-in defaults, the variant's configured context section
// (each textual value passed through literal type inference), and the
// caller's overrides, which are applied verbatim.
type contextBuilder struct {
	defaults  map[string]any
	overrides map[string]any
}

func newContextBuilder(overrides map[string]any) contextBuilder {
	return contextBuilder{
		defaults:  map[string]any{"test_value": "__test__"},
		overrides: overrides,
	}
}

// build produces a fresh context for one Process call. cfg may be nil.
func (b contextBuilder) build(variant string, cfg *config.Config) map[string]any {
	live := maps.Clone(b.defaults)
	for k, v := range cfg.GetSection(SectionKind, variant, "context") {
		if s, ok := v.(string); ok {
			live[k] = inferLiteral(s)
		} else {
			live[k] = v
		}
	}
	for k, v := range b.overrides {
		live[k] = v
	}
	return live
}
