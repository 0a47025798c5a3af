package widetag

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

var (
	// ErrUnknownType is returned for specifiers that name no known type.
	ErrUnknownType = errors.New("unknown type specifier")
	// ErrExpansionDepth is returned when expansion does not reach a fixed point.
	ErrExpansionDepth = errors.New("type expansion too deep")
)

// maxExpansionDepth bounds Expander recursion (circular deftypes).
const maxExpansionDepth = 64

// TypeError reports a specifier that could not be mapped to a widetag.
//
// The underlying cause can be accessed via errors.Unwrap.
type TypeError struct {
	Specifier Form
	cause     error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot resolve element type %s: %v", e.Specifier, e.cause)
}

func (e *TypeError) Unwrap() error { return e.cause }

// Resolver maps element type specifiers to widetags. The zero value is not
// usable; use NewResolver.
type Resolver struct {
	expander Expander
}

// NewResolver returns a Resolver that consults expander for specifiers it
// cannot classify directly. A nil expander selects Builtin.
func NewResolver(expander Expander) *Resolver {
	if expander == nil {
		expander = Builtin
	}
	return &Resolver{expander: expander}
}

var defaultResolver = NewResolver(nil)

// Resolve maps a specifier to its widetag and storage bits per element
// using the builtin expander.
func Resolve(f Form) (Widetag, uint, error) { return defaultResolver.Resolve(f) }

// ResolveString parses and resolves text.
func ResolveString(text string) (Widetag, uint, error) {
	f, err := Parse(text)
	if err != nil {
		return Invalid, 0, err
	}
	return defaultResolver.Resolve(f)
}

// UpgradedElementType returns the canonical specifier of the widetag f
// resolves to.
func UpgradedElementType(f Form) (Form, error) {
	w, _, err := Resolve(f)
	if err != nil {
		return Form{}, err
	}
	return MustParse(w.Info().Specifier), nil
}

// Resolve maps f to a widetag and its storage bits per element.
func (r *Resolver) Resolve(f Form) (Widetag, uint, error) {
	w, err := r.resolve(f, 0)
	if err != nil {
		return Invalid, 0, err
	}
	return w, w.Bits(), nil
}

func (r *Resolver) resolve(f Form, depth int) (Widetag, error) {
	if depth > maxExpansionDepth {
		return Invalid, &TypeError{Specifier: f, cause: ErrExpansionDepth}
	}
	if !f.IsList {
		if w, ok := resolveSymbol(f.Atom); ok {
			return w, nil
		}
		return r.expand(f, depth)
	}

	args := f.Args()
	switch f.Head() {
	case "unsigned-byte":
		if len(args) == 0 || args[0].IsSymbol("*") {
			return T, nil
		}
		n, err := positiveWidth(f, args[0])
		if err != nil {
			return Invalid, err
		}
		return smallestEnclosing(KindUnsigned, n), nil
	case "signed-byte":
		if len(args) == 0 || args[0].IsSymbol("*") {
			return T, nil
		}
		n, err := positiveWidth(f, args[0])
		if err != nil {
			return Invalid, err
		}
		return smallestEnclosing(KindSigned, n), nil
	case "integer":
		return resolveIntegerRange(f, args)
	case "single-float", "short-float":
		return floatRange(f, args, SingleFloat)
	case "double-float", "long-float":
		return floatRange(f, args, DoubleFloat)
	case "float", "real", "rational":
		return floatRange(f, args, T)
	case "complex":
		if len(args) == 0 || args[0].IsSymbol("*") {
			return T, nil
		}
		part, err := r.resolve(args[0], depth+1)
		if err != nil {
			return Invalid, err
		}
		switch part {
		case SingleFloat:
			return ComplexSingleFloat, nil
		case DoubleFloat:
			return ComplexDoubleFloat, nil
		default:
			return T, nil
		}
	case "member":
		if len(args) == 0 {
			return Nil, nil
		}
		return T, nil
	case "or":
		if len(args) == 0 {
			return Nil, nil
		}
		return T, nil
	case "eql", "and", "not", "satisfies", "values", "function", "cons":
		return T, nil
	}
	return r.expand(f, depth)
}

func (r *Resolver) expand(f Form, depth int) (Widetag, error) {
	next, ok := r.expander.Expand(f)
	if !ok {
		return Invalid, &TypeError{Specifier: f, cause: ErrUnknownType}
	}
	if next.Equal(f) {
		return T, nil
	}
	return r.resolve(next, depth+1)
}

func resolveSymbol(name string) (Widetag, bool) {
	switch name {
	case "t":
		return T, true
	case "nil":
		return Nil, true
	case "bit":
		return Bit, true
	case "fixnum":
		return Fixnum, true
	case "single-float", "short-float":
		return SingleFloat, true
	case "double-float", "long-float":
		return DoubleFloat, true
	case "character":
		return Character, true
	case "base-char", "standard-char":
		return BaseChar, true
	case "unsigned-byte", "signed-byte", "integer", "float", "real", "rational", "number", "complex":
		return T, true
	}
	return Invalid, false
}

func positiveWidth(spec, arg Form) (uint, error) {
	n, err := strconv.ParseUint(arg.Atom, 10, 32)
	if arg.IsList || err != nil || n == 0 {
		return 0, &TypeError{Specifier: spec, cause: fmt.Errorf("%w: width %s", ErrSyntax, arg)}
	}
	return uint(n), nil
}

// smallestEnclosing returns the narrowest registry entry of kind whose
// logical width holds n bits, or T when none does.
func smallestEnclosing(kind Kind, n uint) Widetag {
	best := T
	var bestWidth uint
	for w := Nil; w <= T; w++ {
		info := registry[w]
		if info.Kind != kind || info.Width < n {
			continue
		}
		if best == T || info.Width < bestWidth {
			best, bestWidth = w, info.Width
		}
	}
	return best
}

type bound struct {
	unbounded bool
	exclusive bool
	atom      string
}

func parseBound(f Form) (bound, bool) {
	if f.IsSymbol("*") {
		return bound{unbounded: true}, true
	}
	if f.IsList {
		if len(f.List) != 1 || f.List[0].IsList {
			return bound{}, false
		}
		return bound{exclusive: true, atom: f.List[0].Atom}, true
	}
	return bound{atom: f.Atom}, true
}

func bounds(spec Form, args []Form) (lo, hi bound, err error) {
	lo, hi = bound{unbounded: true}, bound{unbounded: true}
	if len(args) > 2 {
		return lo, hi, &TypeError{Specifier: spec, cause: ErrSyntax}
	}
	var ok bool
	if len(args) > 0 {
		if lo, ok = parseBound(args[0]); !ok {
			return lo, hi, &TypeError{Specifier: spec, cause: ErrSyntax}
		}
	}
	if len(args) > 1 {
		if hi, ok = parseBound(args[1]); !ok {
			return lo, hi, &TypeError{Specifier: spec, cause: ErrSyntax}
		}
	}
	return lo, hi, nil
}

func resolveIntegerRange(spec Form, args []Form) (Widetag, error) {
	lo, hi, err := bounds(spec, args)
	if err != nil {
		return Invalid, err
	}
	var low, high *big.Int
	if !lo.unbounded {
		if low, err = integerBound(spec, lo); err != nil {
			return Invalid, err
		}
		if lo.exclusive {
			low.Add(low, big.NewInt(1))
		}
	}
	if !hi.unbounded {
		if high, err = integerBound(spec, hi); err != nil {
			return Invalid, err
		}
		if hi.exclusive {
			high.Sub(high, big.NewInt(1))
		}
	}
	if low != nil && high != nil && low.Cmp(high) > 0 {
		return Nil, nil
	}
	if low == nil || high == nil {
		return T, nil
	}
	if low.Sign() >= 0 {
		n := uint(high.BitLen())
		if n == 0 {
			n = 1
		}
		return smallestEnclosing(KindUnsigned, n), nil
	}
	n := uint(max(signedLen(low), signedLen(high)))
	return smallestEnclosing(KindSigned, n), nil
}

// signedLen is the two's complement width needed to hold v.
func signedLen(v *big.Int) int {
	if v.Sign() >= 0 {
		return v.BitLen() + 1
	}
	t := new(big.Int).Add(v, big.NewInt(1))
	return t.BitLen() + 1
}

func integerBound(spec Form, b bound) (*big.Int, error) {
	v, ok := new(big.Int).SetString(b.atom, 10)
	if !ok {
		return nil, &TypeError{Specifier: spec, cause: fmt.Errorf("%w: integer bound %s", ErrSyntax, b.atom)}
	}
	return v, nil
}

// floatRange returns base unless the interval given by args is empty, in
// which case no value can be stored and the element type is Nil.
func floatRange(spec Form, args []Form, base Widetag) (Widetag, error) {
	lo, hi, err := bounds(spec, args)
	if err != nil {
		return Invalid, err
	}
	if lo.unbounded || hi.unbounded {
		return base, nil
	}
	l, err := parseLispFloat(lo.atom)
	if err != nil {
		return Invalid, &TypeError{Specifier: spec, cause: err}
	}
	h, err := parseLispFloat(hi.atom)
	if err != nil {
		return Invalid, &TypeError{Specifier: spec, cause: err}
	}
	if l > h || (l == h && (lo.exclusive || hi.exclusive)) {
		return Nil, nil
	}
	return base, nil
}

// parseLispFloat accepts the d/f/s/l exponent markers.
func parseLispFloat(text string) (float64, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case 'd', 'D', 'f', 'F', 's', 'S', 'l', 'L':
			return 'e'
		}
		return r
	}, text)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: float bound %s", ErrSyntax, text)
	}
	return v, nil
}
