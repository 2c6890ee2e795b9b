package sexp

// Node is a decoded SEXP. The set of implementations is closed: each variant
// below corresponds to one payload layout, and *Unsupported covers every tag
// the decoder does not interpret. Fields holding other nodes are addresses
// in the inspected process; they are decoded lazily.
type Node interface {
	Addr() uint64
	Type() Type
	isNode()
}

type header struct {
	addr uint64
	typ  Type
}

func (h header) Addr() uint64 { return h.addr }
func (h header) Type() Type   { return h.typ }
func (header) isNode()        {}

// Nil is a node tagged NILSXP that is not the R_NilValue sentinel.
type Nil struct{ header }

// Symbol is a SYMSXP. PrintName points to a CHARSXP.
type Symbol struct {
	header
	PrintName uint64
}

// Pair is a LISTSXP cell.
type Pair struct {
	header
	Car, Cdr, Tag uint64
}

// Lang is a LANGSXP cell: Car is the function, Cdr the argument list.
type Lang struct {
	header
	Car, Cdr, Tag uint64
}

// Closure is a CLOSXP.
type Closure struct {
	header
	Formals, Body uint64
}

// Environment is an ENVSXP. Environments are never traversed.
type Environment struct{ header }

// Promise is a PROMSXP. Expr is the unevaluated expression, kept opaque.
type Promise struct {
	header
	Expr uint64
}

// Builtin is a BUILTINSXP. Offset indexes R_FunTab.
type Builtin struct {
	header
	Offset int64
}

// Char is a CHARSXP.
type Char struct {
	header
	Length int64
	Data   uint64
}

// Vector is a logical, integer, or real vector.
type Vector struct {
	header
	Length int64
	Data   uint64
}

// StringVector is a STRSXP. Each element is a pointer to a CHARSXP.
type StringVector struct {
	header
	Length int64
	Data   uint64
}

// ByteCode is a BCODESXP.
type ByteCode struct{ header }

// Unsupported is any node whose tag has no decoding rule,
// including tags unknown to R.
type Unsupported struct{ header }

// elemSize returns the size of one element of v.
func (v *Vector) elemSize(a Arch) int {
	if v.typ == TypeReal {
		return 8
	}
	return a.IntSize
}
