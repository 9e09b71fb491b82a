package templater

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lintql/lintql/pkg/config"
)

// PlaceholderTemplater substitutes {name}-style placeholders from the
// configured context. It allows no functions or macros; use the jinja
// variant for those. Any placeholder that does not resolve is a fatal
// error rather than a diagnostic.
type PlaceholderTemplater struct {
	logger *slog.Logger
	ctx    contextBuilder
}

// NewPlaceholderTemplater returns a placeholder templater. WithOverrides
// values win over configured context values and are used verbatim.
func NewPlaceholderTemplater(opts ...Option) *PlaceholderTemplater {
	o := newOptions(opts...)
	return &PlaceholderTemplater{
		logger: o.logger,
		ctx:    newContextBuilder(o.overrides),
	}
}

// Name returns "placeholder".
func (t *PlaceholderTemplater) Name() string { return PlaceholderName }

// Process substitutes every {name} placeholder in the input. "{{" and
// "}}" escape literal braces. This variant performs no static analysis,
// so a successful call carries no violations.
func (t *PlaceholderTemplater) Process(in string, fname string, cfg *config.Config) (Result, error) {
	live := t.ctx.build(t.Name(), cfg)
	t.logger.Debug("built templating context", "templater", t.Name(), "file", fname, "variables", len(live))

	out, err := substitute(in, live)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: out, Rendered: true}, nil
}

// EqualVariant reports whether other is also a placeholder templater,
// independent of construction options.
func (t *PlaceholderTemplater) EqualVariant(other Templater) bool {
	return sameVariant(t, other)
}

func substitute(in string, ctx map[string]any) (string, error) {
	var sb strings.Builder
	sb.Grow(len(in))
	for i := 0; i < len(in); {
		switch in[i] {
		case '{':
			if i+1 < len(in) && in[i+1] == '{' {
				sb.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(in[i+1:], '}')
			if end < 0 {
				return "", &TemplatingError{
					Msg: fmt.Sprintf("failure in placeholder templating: unterminated placeholder at offset %d", i),
				}
			}
			name := in[i+1 : i+1+end]
			val, ok := ctx[name]
			if !ok {
				return "", &TemplatingError{
					Msg: fmt.Sprintf("failure in placeholder templating: %q is undefined. Have you configured your variables?", name),
				}
			}
			sb.WriteString(fmt.Sprint(val))
			i += end + 2
		case '}':
			if i+1 < len(in) && in[i+1] == '}' {
				sb.WriteByte('}')
				i += 2
				continue
			}
			return "", &TemplatingError{
				Msg: fmt.Sprintf("failure in placeholder templating: single '}' at offset %d", i),
			}
		default:
			sb.WriteByte(in[i])
			i++
		}
	}
	return sb.String(), nil
}
