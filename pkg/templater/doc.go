/*
Package templater turns templated SQL source text into plain SQL text
plus a list of templating-level diagnostics, as the pre-processing stage
of a linting pipeline.

Three variants are available through the registry: "raw" (identity),
"placeholder" ({name}-style substitution from a configured context), and
"jinja" (the default; a sandboxed Jinja-dialect engine with configured
macros and static undefined-variable detection, reported with positions
in the original, untemplated source).

Downstream components consume only the rendered text and the violations;
this package performs no SQL parsing and no configuration loading.
*/
package templater
