// Package literal decodes list values that were stored as text, such as
// "['Tom Hanks', 'Meg Ryan']", into native string slices.
//
// Only a restricted grammar is accepted: an opening bracket, zero or more
// quoted strings separated by commas (a trailing comma is allowed), and a
// closing bracket. Nothing is ever evaluated.
package literal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDecode is matched by every DecodeError.
var ErrDecode = errors.New("invalid literal sequence")

// DecodeError reports where a literal sequence stopped making sense.
type DecodeError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	in := e.Input
	if len(in) > 60 {
		in = in[:57] + "..."
	}
	return fmt.Sprintf("%s at offset %d in %q: %s", ErrDecode, e.Offset, in, e.Msg)
}

// Is lets errors.Is(err, ErrDecode) match.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ParseStrings decodes a literal sequence of quoted strings.
// "[]" yields an empty, non-nil slice.
func ParseStrings(s string) ([]string, error) {
	p := &scanner{in: s}
	p.skipSpace()
	if !p.eat('[') {
		return nil, p.fail("expected '['")
	}
	out := []string{}
	p.skipSpace()
	if p.eat(']') {
		return p.finish(out)
	}
	for {
		str, err := p.element()
		if err != nil {
			return nil, err
		}
		out = append(out, str)
		p.skipSpace()
		if p.eat(']') {
			return p.finish(out)
		}
		if !p.eat(',') {
			return nil, p.fail("expected ',' or ']'")
		}
		p.skipSpace()
		// trailing comma
		if p.eat(']') {
			return p.finish(out)
		}
	}
}

type scanner struct {
	in  string
	pos int
}

func (p *scanner) fail(msg string) error {
	return &DecodeError{Input: p.in, Offset: p.pos, Msg: msg}
}

func (p *scanner) eof() bool { return p.pos >= len(p.in) }

func (p *scanner) eat(c byte) bool {
	if !p.eof() && p.in[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *scanner) skipSpace() {
	for !p.eof() {
		switch p.in[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *scanner) finish(out []string) ([]string, error) {
	p.skipSpace()
	if !p.eof() {
		return nil, p.fail("unexpected trailing characters")
	}
	return out, nil
}

// element reads one or more adjacent quoted strings and joins them.
func (p *scanner) element() (string, error) {
	var b strings.Builder
	n := 0
	for {
		p.skipSpace()
		if p.eof() || (p.in[p.pos] != '\'' && p.in[p.pos] != '"') {
			break
		}
		if err := p.quoted(&b); err != nil {
			return "", err
		}
		n++
	}
	if n == 0 {
		if p.eof() {
			return "", p.fail("unexpected end of input")
		}
		return "", p.fail("expected quoted string")
	}
	return b.String(), nil
}

func (p *scanner) quoted(b *strings.Builder) error {
	quote := p.in[p.pos]
	start := p.pos
	p.pos++
	for !p.eof() {
		c := p.in[p.pos]
		switch {
		case c == quote:
			p.pos++
			return nil
		case c == '\\':
			p.pos++
			if p.eof() {
				p.pos = start
				return p.fail("unterminated string")
			}
			switch e := p.in[p.pos]; e {
			case '\\', '\'', '"':
				b.WriteByte(e)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				// unknown escapes are kept verbatim
				b.WriteByte('\\')
				b.WriteByte(e)
			}
			p.pos++
		case c == '\n':
			return p.fail("newline in string")
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	p.pos = start
	return p.fail("unterminated string")
}
