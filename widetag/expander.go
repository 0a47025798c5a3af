package widetag

import (
	"math/big"
	"sync"
)

// Expander is the type-resolution service consulted for specifiers the
// resolver cannot classify directly. Expand returns the one-level expansion
// of f; ok is false when f names no known type. A known but non-enumerable
// type expands to itself, which resolves to T.
type Expander interface {
	Expand(f Form) (Form, bool)
}

// ExpanderFunc adapts a function to Expander.
type ExpanderFunc func(f Form) (Form, bool)

// Expand implements Expander.
func (fn ExpanderFunc) Expand(f Form) (Form, bool) { return fn(f) }

// Builtin expands the standard type names.
var Builtin Expander = ExpanderFunc(builtinExpand)

var opaqueTypes = map[string]struct{}{
	"array": {}, "simple-array": {}, "vector": {}, "simple-vector": {},
	"string": {}, "simple-string": {}, "base-string": {}, "simple-base-string": {},
	"bit-vector": {}, "simple-bit-vector": {}, "sequence": {}, "list": {},
	"symbol": {}, "keyword": {}, "hash-table": {}, "package": {}, "pathname": {},
	"stream": {}, "structure-object": {}, "standard-object": {}, "ratio": {},
	"bignum": {}, "atom": {}, "extended-char": {}, "random-state": {},
	"readtable": {}, "condition": {}, "class": {}, "simple-condition": {},
}

func builtinExpand(f Form) (Form, bool) {
	switch f.Head() {
	case "mod":
		args := f.Args()
		if len(args) != 1 || args[0].IsList {
			return Form{}, false
		}
		n, ok := new(big.Int).SetString(args[0].Atom, 10)
		if !ok || n.Sign() <= 0 {
			return Form{}, false
		}
		n.Sub(n, big.NewInt(1))
		return List(Sym("integer"), Int(0), Form{Atom: n.String()}), true
	case "boolean":
		return List(Sym("member"), Sym("t"), Sym("nil")), true
	case "null":
		return List(Sym("member"), Sym("nil")), true
	case "word":
		return UnsignedByte(WordBits), true
	case "sb-vm:signed-word", "signed-word":
		return SignedByte(WordBits), true
	case "octet":
		return UnsignedByte(8), true
	}
	if _, ok := opaqueTypes[f.Head()]; ok {
		return f, true
	}
	return Form{}, false
}

// MapExpander lets callers define type aliases on top of another
// Expander. It is safe for concurrent use.
type MapExpander struct {
	mu   sync.RWMutex
	defs map[string]func(args []Form) Form
	next Expander
}

// NewMapExpander returns a MapExpander falling back to next (Builtin if nil).
func NewMapExpander(next Expander) *MapExpander {
	if next == nil {
		next = Builtin
	}
	return &MapExpander{defs: make(map[string]func([]Form) Form), next: next}
}

// Define makes name expand to expansion.
func (m *MapExpander) Define(name string, expansion Form) {
	m.DefineFunc(name, func([]Form) Form { return expansion })
}

// DefineFunc registers a parameterized expansion.
func (m *MapExpander) DefineFunc(name string, fn func(args []Form) Form) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defs[Sym(name).Atom] = fn
}

// Expand implements Expander.
func (m *MapExpander) Expand(f Form) (Form, bool) {
	m.mu.RLock()
	fn, ok := m.defs[f.Head()]
	m.mu.RUnlock()
	if ok {
		return fn(f.Args()), true
	}
	return m.next.Expand(f)
}
