package templater

import "errors"

// ErrUnknownTemplater is returned by Select, wrapped with the requested
// name and the list of registered names.
var ErrUnknownTemplater = errors.New("unknown templater")

// TemplatingError is a fatal failure while templating a document: a
// malformed template or macro, or an unresolved placeholder in the
// placeholder variant. The underlying cause, when present, is preserved
// verbatim so users can diagnose the offending template text.
type TemplatingError struct {
	Msg string
	Err error
}

func (e *TemplatingError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *TemplatingError) Unwrap() error {
	return e.Err
}
