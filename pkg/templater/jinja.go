package templater

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/deicod/gojinja/nodes"
	"github.com/deicod/gojinja/parser"
	jinja "github.com/deicod/gojinja/runtime"

	"github.com/lintql/lintql/pkg/config"
)

// JinjaTemplater renders Jinja-dialect templates through a sandboxed
// engine. Beyond substitution it extracts reusable macros from
// configuration, statically detects variables that are referenced but
// never defined, and maps each such reference to a position in the
// original source. Undefined variables are recoverable diagnostics;
// a rendering failure suppresses output for the whole document.
type JinjaTemplater struct {
	logger *slog.Logger
	ctx    contextBuilder
}

// NewJinjaTemplater returns a jinja templater. WithOverrides values win
// over configured context values and are used verbatim.
func NewJinjaTemplater(opts ...Option) *JinjaTemplater {
	o := newOptions(opts...)
	return &JinjaTemplater{
		logger: o.logger,
		ctx:    newContextBuilder(o.overrides),
	}
}

// Name returns "jinja".
func (t *JinjaTemplater) Name() string { return JinjaName }

// EqualVariant reports whether other is also a jinja templater,
// independent of construction options.
func (t *JinjaTemplater) EqualVariant(other Templater) bool {
	return sameVariant(t, other)
}

// Process renders the input against a context built fresh for this call.
//
// A parse failure of the input, or of any configured macro body, returns
// a *TemplatingError with no result. A failure during rendering is
// instead captured as a final, position-less Violation and the Result
// comes back with Rendered false: the caller must treat that as
// document-level failure regardless of the other violations present.
func (t *JinjaTemplater) Process(in string, fname string, cfg *config.Config) (Result, error) {
	env := newEngine()

	macroNames, err := loadMacros(env, cfg)
	if err != nil {
		return Result{}, err
	}

	tmpl, err := env.FromString(in)
	if err != nil {
		return Result{}, &TemplatingError{Msg: "failed to parse template", Err: err}
	}

	live := t.ctx.build(t.Name(), cfg)
	t.logger.Debug("built templating context",
		"templater", t.Name(), "file", fname, "variables", len(live), "macros", len(macroNames))

	tree, err := parseTree(in, fname)
	if err != nil {
		return Result{}, &TemplatingError{Msg: "failure in identifying template variables", Err: err}
	}

	undefined := undeclaredNames(tree)
	for name := range live {
		delete(undefined, name)
	}
	for name := range macroNames {
		delete(undefined, name)
	}

	var violations []Violation
	if len(undefined) > 0 {
		violations = locateUndefined(tree, undefined, in)
		t.logger.Warn("undefined template variables",
			"file", fname, "names", len(undefined), "references", len(violations))

		// Names that stay undefined render as empty text, not as the
		// engine's debug placeholder; every reference was already
		// reported above.
		for name := range undefined {
			live[name] = ""
		}
	}

	out, err := env.ExecuteToString(tmpl, live)
	if err != nil {
		t.logger.Error("template rendering failed", "file", fname, "error", err)
		violations = append(violations, Violation{
			Message: fmt.Sprintf("unrecoverable failure in templating: %s. Have you configured your variables?", err),
		})
		return Result{Violations: violations}, nil
	}
	return Result{Text: out, Rendered: true, Violations: violations}, nil
}

// newEngine constructs the per-call evaluation engine: sandboxed, no
// autoescaping (the output is SQL text, not markup), and trailing
// newlines preserved exactly as present in the input.
func newEngine() *jinja.Environment {
	env := jinja.NewEnvironment()
	env.SetKeepTrailingNewline(true)
	env.SetAutoescape(false)
	env.SetSandboxed(true)
	// A per-engine security manager keeps sandbox policy mutations (macro
	// whitelisting in loadMacros) from leaking into other engines through
	// the library's process-global manager.
	env.SetSecurityManager(jinja.NewSecurityManager())
	return env
}

// loadMacros parses each entry of the (templater, jinja, "macros")
// config section as a standalone template under env, extracts every
// macro the entry defines, and installs each one into the environment's
// global macro scope so the main template can invoke it by name. Macros
// are template-local until promoted this way. The returned name set
// feeds the undefined-variable analysis. An absent section yields an
// empty set.
func loadMacros(env *jinja.Environment, cfg *config.Config) (map[string]struct{}, error) {
	section := cfg.GetSection(SectionKind, JinjaName, "macros")
	names := make(map[string]struct{})
	keys := make([]string, 0, len(section))
	for k := range section {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		src, ok := section[key].(string)
		if !ok {
			return nil, &TemplatingError{Msg: fmt.Sprintf("macro %q is not a string", key)}
		}
		tmpl, err := env.FromString(src)
		if err != nil {
			return nil, &TemplatingError{Msg: fmt.Sprintf("failed to load macro %q", key), Err: err}
		}
		tree, err := parseTree(src, key)
		if err != nil {
			return nil, &TemplatingError{Msg: fmt.Sprintf("failed to load macro %q", key), Err: err}
		}
		var defined []string
		walkNodes(tree, func(n nodes.Node) {
			if m, ok := n.(*nodes.Macro); ok {
				defined = append(defined, m.Name)
			}
		})
		module, err := tmpl.MakeModule(nil)
		if err != nil {
			return nil, &TemplatingError{Msg: fmt.Sprintf("failed to load macro %q", key), Err: err}
		}
		for _, name := range defined {
			macro, err := module.GetMacro(name)
			if err != nil {
				return nil, &TemplatingError{Msg: fmt.Sprintf("macro entry %q does not export %q", key, name), Err: err}
			}
			env.AddGlobalMacro(name, macro)
			// The sandbox runs its function whitelist on every call
			// expression, so a promoted macro must also be whitelisted
			// by name or invoking it is a security violation.
			if pol, err := env.GetSecurityManager().GetPolicy("default"); err == nil {
				pol.AllowedFunctions[name] = true
			}
			names[name] = struct{}{}
		}
	}
	return names, nil
}

// parseTree parses src into a syntax tree with the same parser settings
// the rendering engine uses, so node line numbers match the input text.
func parseTree(src, name string) (*nodes.Template, error) {
	if name == "" {
		name = "<string>"
	}
	penv := &parser.Environment{KeepTrailingNewline: true}
	return parser.ParseTemplateWithEnv(penv, src, name, name)
}

// loadCtx marks a name reference that reads from the evaluation scope,
// as opposed to assignment targets, loop variables, and macro
// parameters.
const loadCtx = "load"

// reservedNames are identifiers the engine resolves itself: keyword-like
// literals, the loop/self scope objects, and the built-in globals
// registered by every environment. They can never be undefined.
var reservedNames = map[string]struct{}{
	"true": {}, "false": {}, "none": {},
	"True": {}, "False": {}, "None": {},
	"loop": {}, "self": {}, "super": {}, "caller": {},
	"varargs": {}, "kwargs": {},
	"range": {}, "lipsum": {}, "dict": {}, "cycler": {}, "joiner": {},
	"namespace": {}, "class": {}, "_": {}, "gettext": {}, "ngettext": {},
	"pgettext": {}, "npgettext": {}, "debug": {}, "context": {},
	"environment": {}, "url_for": {},
}

// undeclaredNames returns the set of variable names the template
// references without declaring locally, i.e. the names that must come
// from the external context. Local declaration (a set target, a loop
// variable, a macro name or parameter) anywhere in the template excludes
// a name.
func undeclaredNames(tree *nodes.Template) map[string]struct{} {
	referenced := make(map[string]struct{})
	declared := make(map[string]struct{})
	walkNodes(tree, func(n nodes.Node) {
		switch node := n.(type) {
		case *nodes.Name:
			if node.Ctx == loadCtx {
				referenced[node.Name] = struct{}{}
			} else {
				declared[node.Name] = struct{}{}
			}
		case *nodes.Macro:
			declared[node.Name] = struct{}{}
		}
	})
	for name := range declared {
		delete(referenced, name)
	}
	for name := range reservedNames {
		delete(referenced, name)
	}
	return referenced
}

// locateUndefined walks the tree a second time and emits one Violation
// per reference to a name in the undefined set, in document order — a
// name used twice yields two violations. Lines, columns, and offsets
// count characters, not bytes. The engine reports only the node's line;
// the column is recovered as the 1-based index of the identifier's
// first occurrence in that line's text. When the same identifier text
// appears earlier in the line inside another token the column is off;
// that heuristic is kept as-is because downstream tooling depends on
// its observable behavior. When the engine's line number is out of
// range, or the identifier text is not on the reported line at all, the
// violation is still emitted but carries no position.
func locateUndefined(tree *nodes.Template, undefined map[string]struct{}, raw string) []Violation {
	lines := strings.Split(raw, "\n")

	// lineStart[i] is the summed character length of lines before line
	// i+1, counting one character per newline.
	lineStart := make([]int, len(lines))
	total := 0
	for i, line := range lines {
		lineStart[i] = total
		total += utf8.RuneCountInString(line) + 1
	}

	var violations []Violation
	walkNodes(tree, func(n nodes.Node) {
		name, ok := n.(*nodes.Name)
		if !ok || name.Ctx != loadCtx {
			return
		}
		if _, isUndefined := undefined[name.Name]; !isUndefined {
			return
		}
		msg := fmt.Sprintf("undefined template variable: '%s'", name.Name)

		lineNo := name.GetPosition().Line
		if lineNo < 1 || lineNo > len(lines) {
			violations = append(violations, Violation{Message: msg})
			return
		}
		lineText := lines[lineNo-1]
		byteIdx := strings.Index(lineText, name.Name)
		if byteIdx < 0 {
			violations = append(violations, Violation{Message: msg})
			return
		}
		col := utf8.RuneCountInString(lineText[:byteIdx]) + 1
		violations = append(violations, Violation{
			Message: msg,
			Pos: &PositionMarker{
				Line:   lineNo,
				Column: col,
				Offset: lineStart[lineNo-1] + col,
			},
		})
	})
	return violations
}
