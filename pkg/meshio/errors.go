package meshio

import "fmt"

// ParseError reports a malformed line: wrong vertex token count, a token
// that is not a number, or an unrecognized leading token.
type ParseError struct {
	Line   int    // 1-based source line
	Text   string // the offending line, trimmed
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ArityError reports a face line that does not list 3 or 4 vertices.
type ArityError struct {
	Line  int
	Count int // number of vertex tokens after "f"
}

func (e ArityError) Error() string {
	return fmt.Sprintf("line %d: face lists %d vertices, want 3 (triangle) or 4 (quad)", e.Line, e.Count)
}
