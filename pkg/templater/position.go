package templater

// PositionMarker identifies a location in the original, untemplated
// source text. It is created once per diagnostic and never modified.
//
// Positions describe the file *before* templating; they are not
// consistent with positions computed over the rendered output.
type PositionMarker struct {
	// Owner names the segment the position belongs to, when known.
	Owner string

	// Line is the 1-based line number.
	Line int

	// Column is the 1-based column within the line.
	Column int

	// Offset is the absolute character offset: the lengths of all
	// preceding lines, counting one character per newline, plus Column.
	Offset int
}

// Violation is a templating-level diagnostic: a human-readable message
// and, for findings tied to a source location, a position in the
// original source. Fatal findings (rendering or configuration failure)
// carry no position.
type Violation struct {
	Message string
	Pos     *PositionMarker
}
