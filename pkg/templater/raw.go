package templater

import "github.com/lintql/lintql/pkg/config"

// RawTemplater passes source text through unchanged with no diagnostics.
// It is the minimal implementation of the Templater contract and the
// right choice for SQL files with no templating in them.
type RawTemplater struct{}

// NewRawTemplater returns a raw templater. Options are accepted for
// interface parity with the other variants and ignored.
func NewRawTemplater(_ ...Option) *RawTemplater {
	return &RawTemplater{}
}

// Name returns "raw".
func (t *RawTemplater) Name() string { return RawName }

// Process returns the input unchanged. It never fails.
func (t *RawTemplater) Process(in string, _ string, _ *config.Config) (Result, error) {
	return Result{Text: in, Rendered: true}, nil
}

// EqualVariant reports whether other is also a raw templater.
func (t *RawTemplater) EqualVariant(other Templater) bool {
	return sameVariant(t, other)
}
