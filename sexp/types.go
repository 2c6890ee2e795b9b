package sexp

// Type is a SEXPTYPE tag, as defined in Rinternals.h.
type Type int

const (
	TypeNil         Type = 0  // NILSXP: nil = NULL
	TypeSymbol      Type = 1  // SYMSXP: symbols
	TypePair        Type = 2  // LISTSXP: lists of dotted pairs
	TypeClosure     Type = 3  // CLOSXP: closures
	TypeEnvironment Type = 4  // ENVSXP: environments
	TypePromise     Type = 5  // PROMSXP: promises, [un]evaluated closure arguments
	TypeLang        Type = 6  // LANGSXP: language constructs (special lists)
	TypeSpecial     Type = 7  // SPECIALSXP: special forms
	TypeBuiltin     Type = 8  // BUILTINSXP: builtin non-special forms
	TypeChar        Type = 9  // CHARSXP: "scalar" string type (internal only)
	TypeLogical     Type = 10 // LGLSXP: logical vectors
	TypeInteger     Type = 13 // INTSXP: integer vectors
	TypeReal        Type = 14 // REALSXP: real variables
	TypeComplex     Type = 15 // CPLXSXP: complex variables
	TypeString      Type = 16 // STRSXP: string vectors
	TypeDots        Type = 17 // DOTSXP: dot-dot-dot object
	TypeAny         Type = 18 // ANYSXP: make "any" args work
	TypeList        Type = 19 // VECSXP: generic vectors
	TypeExpression  Type = 20 // EXPRSXP: expressions vectors
	TypeByteCode    Type = 21 // BCODESXP: byte code
	TypeExternalPtr Type = 22 // EXTPTRSXP: external pointer
	TypeWeakRef     Type = 23 // WEAKREFSXP: weak reference
	TypeRaw         Type = 24 // RAWSXP: raw bytes
	TypeS4          Type = 25 // S4SXP: S4 non-vector
	TypeNew         Type = 30 // NEWSXP: fresh node created in new page
	TypeFree        Type = 31 // FREESXP: node released by GC
)

var typeNames = map[Type]string{
	TypeNil:         "NILSXP",
	TypeSymbol:      "SYMSXP",
	TypePair:        "LISTSXP",
	TypeClosure:     "CLOSXP",
	TypeEnvironment: "ENVSXP",
	TypePromise:     "PROMSXP",
	TypeLang:        "LANGSXP",
	TypeSpecial:     "SPECIALSXP",
	TypeBuiltin:     "BUILTINSXP",
	TypeChar:        "CHARSXP",
	TypeLogical:     "LGLSXP",
	TypeInteger:     "INTSXP",
	TypeReal:        "REALSXP",
	TypeComplex:     "CPLXSXP",
	TypeString:      "STRSXP",
	TypeDots:        "DOTSXP",
	TypeAny:         "ANYSXP",
	TypeList:        "VECSXP",
	TypeExpression:  "EXPRSXP",
	TypeByteCode:    "BCODESXP",
	TypeExternalPtr: "EXTPTRSXP",
	TypeWeakRef:     "WEAKREFSXP",
	TypeRaw:         "RAWSXP",
	TypeS4:          "S4SXP",
	TypeNew:         "NEWSXP",
	TypeFree:        "FREESXP",
}

// String returns the SEXPTYPE name of t, or "unknown" if t is not a known tag.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Known reports whether t is one of the tags defined by R.
func (t Type) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// TypeName is a shorthand for Type(tag).String().
func TypeName(tag int) string {
	return Type(tag).String()
}
