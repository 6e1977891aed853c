package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("parse error")

// ParseError reports malformed content or a value that could not be coerced.
type ParseError struct {
	Format string // csv or json
	Line   int    // 1-based line, 0 when unknown
	Offset int64  // byte offset for json input
	Column string // column name when the failure is tied to one
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse ")
	b.WriteString(e.Format)
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	} else if e.Offset > 0 {
		fmt.Fprintf(&b, ": offset %d", e.Offset)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
