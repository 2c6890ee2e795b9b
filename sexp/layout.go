package sexp

// Layout gives the offsets of SEXPREC fields. All offsets are derived from
// these numbers and the Arch; nothing else in the package hard-codes them.
//
// The default layout is:
//
//    struct SEXPREC {
//        sxpinfo_struct sxpinfo;   // word 0, type in the low TypeMask bits
//        SEXP attrib;              // word 1
//        SEXP gengc_next_node;     // word 2
//        SEXP gengc_prev_node;     // word 3
//        union { ... } u;          // word HeaderWords
//    };
//
// Union members are consecutive pointer-sized words. Vector nodes start the
// union with VectorHeaderInts C ints (length, truelength), followed by the
// element data.
type Layout struct {
	HeaderWords      int    `json:"headerWords"`
	TypeMask         uint32 `json:"typeMask"`
	VectorHeaderInts int    `json:"vectorHeaderInts"`
	FunTabEntrySize  int    `json:"funTabEntrySize"`  // sizeof(FUNTAB)
	FunTabNameOffset int    `json:"funTabNameOffset"` // offsetof(FUNTAB, name)
	MaxStringLen     int    `json:"maxStringLen"`     // longest C string ReadCString will return
}

// Word indices of union members.
const (
	carWord      = 0 // listsxp.carval
	cdrWord      = 1 // listsxp.cdrval
	tagWord      = 2 // listsxp.tagval
	pnameWord    = 0 // symsxp.pname
	formalsWord  = 0 // closxp.formals
	bodyWord     = 1 // closxp.body
	promExprWord = 1 // promsxp.expr
	primOffWord  = 0 // primsxp.offset
)

// DefaultLayout returns the SEXPREC layout used by R on arch a.
func DefaultLayout(a Arch) Layout {
	return Layout{
		HeaderWords:      4,
		TypeMask:         0x1f,
		VectorHeaderInts: 2,
		// name, cfun, code, eval, arity, gram{kind, precedence, rightassoc}
		FunTabEntrySize:  2*a.PointerSize + 6*a.IntSize,
		FunTabNameOffset: 0,
		MaxStringLen:     1 << 16,
	}
}
