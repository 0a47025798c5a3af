package widetag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned by Parse for malformed specifier text.
var ErrSyntax = errors.New("widetag: malformed type specifier")

// Form is a parsed type specifier: either an atom (symbol or number) or a
// list of forms.
type Form struct {
	Atom   string
	List   []Form
	IsList bool
}

// Sym returns a symbol atom. Symbols are case-insensitive and stored lower-case.
func Sym(name string) Form { return Form{Atom: strings.ToLower(name)} }

// Int returns an integer atom.
func Int(n int64) Form { return Form{Atom: strconv.FormatInt(n, 10)} }

// List returns a list form.
func List(items ...Form) Form { return Form{List: items, IsList: true} }

// UnsignedByte returns (unsigned-byte n).
func UnsignedByte(n int) Form { return List(Sym("unsigned-byte"), Int(int64(n))) }

// SignedByte returns (signed-byte n).
func SignedByte(n int) Form { return List(Sym("signed-byte"), Int(int64(n))) }

// Head returns the symbol at the head of a list form, or the atom itself.
func (f Form) Head() string {
	if !f.IsList {
		return f.Atom
	}
	if len(f.List) == 0 || f.List[0].IsList {
		return ""
	}
	return f.List[0].Atom
}

// Args returns the elements after the head of a list form.
func (f Form) Args() []Form {
	if !f.IsList || len(f.List) == 0 {
		return nil
	}
	return f.List[1:]
}

// IsSymbol reports whether f is the symbol name.
func (f Form) IsSymbol(name string) bool { return !f.IsList && f.Atom == name }

// Equal reports structural equality.
func (f Form) Equal(o Form) bool {
	if f.IsList != o.IsList {
		return false
	}
	if !f.IsList {
		return f.Atom == o.Atom
	}
	if len(f.List) != len(o.List) {
		return false
	}
	for i := range f.List {
		if !f.List[i].Equal(o.List[i]) {
			return false
		}
	}
	return true
}

func (f Form) String() string {
	if !f.IsList {
		return f.Atom
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, item := range f.List {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Parse reads one type specifier from text, e.g. "(unsigned-byte 8)" or
// "(double-float (5.0) (3.0))".
func Parse(text string) (Form, error) {
	p := parser{src: text}
	f, err := p.form()
	if err != nil {
		return Form{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Form{}, fmt.Errorf("%w: trailing input %q", ErrSyntax, p.src[p.pos:])
	}
	return f, nil
}

// MustParse is like Parse but panics on error. Intended for literals.
func MustParse(text string) Form {
	f, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return f
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) form() (Form, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return Form{}, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	}
	switch p.src[p.pos] {
	case '(':
		p.pos++
		items := []Form{}
		for {
			p.skipSpace()
			if p.pos >= len(p.src) {
				return Form{}, fmt.Errorf("%w: unbalanced parenthesis", ErrSyntax)
			}
			if p.src[p.pos] == ')' {
				p.pos++
				return List(items...), nil
			}
			item, err := p.form()
			if err != nil {
				return Form{}, err
			}
			items = append(items, item)
		}
	case ')':
		return Form{}, fmt.Errorf("%w: unexpected ')' at offset %d", ErrSyntax, p.pos)
	}
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		p.pos++
	}
	return Sym(p.src[start:p.pos]), nil
}
