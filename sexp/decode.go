package sexp

import (
	"errors"
	"fmt"
)

// Symbols names the global symbols the decoder resolves at start-up.
type Symbols struct {
	Nil     string `json:"nilValue"`     // SEXP variable holding the NULL sentinel
	Unbound string `json:"unboundValue"` // SEXP variable holding the unbound-value sentinel
	FunTab  string `json:"funTab"`       // FUNTAB array of builtin functions
}

// DefaultSymbols are the symbol names used by R.
var DefaultSymbols = Symbols{
	Nil:     "R_NilValue",
	Unbound: "R_UnboundValue",
	FunTab:  "R_FunTab",
}

// DecoderOptions configures NewDecoder. Empty fields take their defaults.
type DecoderOptions struct {
	Symbols Symbols
}

// Decoder decodes nodes of the inspected process's heap.
// A Decoder is immutable after NewDecoder returns.
type Decoder struct {
	mem         *Memory
	nilAddr     uint64
	unboundAddr uint64
	funTab      uint64
}

// NewDecoder resolves the sentinels R_NilValue and R_UnboundValue and the
// address of R_FunTab. These are resolved exactly once; failing to resolve
// any of them is fatal, since without the sentinels the decoder cannot tell
// list terminators from data.
func NewDecoder(mem *Memory, syms SymbolResolver, opts *DecoderOptions) (*Decoder, error) {
	names := DefaultSymbols
	if opts != nil {
		if opts.Symbols.Nil != "" {
			names.Nil = opts.Symbols.Nil
		}
		if opts.Symbols.Unbound != "" {
			names.Unbound = opts.Symbols.Unbound
		}
		if opts.Symbols.FunTab != "" {
			names.FunTab = opts.Symbols.FunTab
		}
	}

	d := &Decoder{mem: mem}
	var err error
	if d.nilAddr, err = resolveVar(mem, syms, names.Nil); err != nil {
		return nil, err
	}
	if d.unboundAddr, err = resolveVar(mem, syms, names.Unbound); err != nil {
		return nil, err
	}
	if d.funTab, err = lookupSymbol(syms, names.FunTab); err != nil {
		return nil, err
	}
	logf("sentinels: %s=0x%x %s=0x%x, %s at 0x%x",
		names.Nil, d.nilAddr, names.Unbound, d.unboundAddr, names.FunTab, d.funTab)
	return d, nil
}

func lookupSymbol(syms SymbolResolver, name string) (uint64, error) {
	addr, err := syms.LookupSymbol(name)
	if err != nil {
		var mse *MissingSymbolError
		if errors.As(err, &mse) {
			return 0, err
		}
		return 0, &MissingSymbolError{Name: name, Err: err}
	}
	return addr, nil
}

// resolveVar returns the value of the global SEXP variable name.
func resolveVar(mem *Memory, syms SymbolResolver, name string) (uint64, error) {
	addr, err := lookupSymbol(syms, name)
	if err != nil {
		return 0, err
	}
	v, err := mem.ReadPointer(addr)
	if err != nil {
		return 0, &MissingSymbolError{Name: name, Err: err}
	}
	if v == 0 {
		return 0, &MissingSymbolError{Name: name, Err: errors.New("variable is NULL, R is not initialized")}
	}
	return v, nil
}

// Memory returns the Memory d reads through.
func (d *Decoder) Memory() *Memory { return d.mem }

// NilAddr returns the address of the R_NilValue sentinel.
func (d *Decoder) NilAddr() uint64 { return d.nilAddr }

// UnboundAddr returns the address of the R_UnboundValue sentinel.
func (d *Decoder) UnboundAddr() uint64 { return d.unboundAddr }

// IsNil reports whether addr is the R_NilValue sentinel.
func (d *Decoder) IsNil(addr uint64) bool { return addr == d.nilAddr }

// IsUnbound reports whether addr is the R_UnboundValue sentinel.
func (d *Decoder) IsUnbound(addr uint64) bool { return addr == d.unboundAddr }

// isNilRef reports whether addr refers to nil: either the sentinel itself or
// any node tagged NILSXP.
func (d *Decoder) isNilRef(addr uint64) (bool, error) {
	if d.IsNil(addr) {
		return true, nil
	}
	t, err := d.mem.ReadType(addr)
	if err != nil {
		return false, err
	}
	return t == TypeNil, nil
}

// Decode reads the node at addr. Only the fields of the node's variant are
// read. Nodes with tags that have no decoding rule decode to *Unsupported.
func (d *Decoder) Decode(addr uint64) (Node, error) {
	t, err := d.mem.ReadType(addr)
	if err != nil {
		return nil, err
	}
	h := header{addr: addr, typ: t}
	verbosef("decode 0x%x: %s", addr, t)

	switch t {
	case TypeNil:
		return &Nil{h}, nil

	case TypeSymbol:
		pname, err := d.mem.ReadField(addr, pnameWord)
		if err != nil {
			return nil, err
		}
		return &Symbol{header: h, PrintName: pname}, nil

	case TypePair, TypeLang:
		var words [3]uint64
		for k, w := range []int{carWord, cdrWord, tagWord} {
			if words[k], err = d.mem.ReadField(addr, w); err != nil {
				return nil, err
			}
		}
		if t == TypeLang {
			return &Lang{header: h, Car: words[0], Cdr: words[1], Tag: words[2]}, nil
		}
		return &Pair{header: h, Car: words[0], Cdr: words[1], Tag: words[2]}, nil

	case TypeClosure:
		formals, err := d.mem.ReadField(addr, formalsWord)
		if err != nil {
			return nil, err
		}
		body, err := d.mem.ReadField(addr, bodyWord)
		if err != nil {
			return nil, err
		}
		return &Closure{header: h, Formals: formals, Body: body}, nil

	case TypeEnvironment:
		return &Environment{h}, nil

	case TypePromise:
		expr, err := d.mem.ReadField(addr, promExprWord)
		if err != nil {
			return nil, err
		}
		return &Promise{header: h, Expr: expr}, nil

	case TypeBuiltin:
		off, err := d.mem.ReadInt(d.mem.FieldAddr(addr, primOffWord))
		if err != nil {
			return nil, err
		}
		return &Builtin{header: h, Offset: off}, nil

	case TypeChar, TypeLogical, TypeInteger, TypeReal, TypeString:
		n, err := d.mem.ReadLength(addr)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("node 0x%x (%s) has negative length %d", addr, t, n)
		}
		data := d.mem.PayloadBase(addr)
		switch t {
		case TypeChar:
			return &Char{header: h, Length: n, Data: data}, nil
		case TypeString:
			return &StringVector{header: h, Length: n, Data: data}, nil
		default:
			return &Vector{header: h, Length: n, Data: data}, nil
		}

	case TypeByteCode:
		return &ByteCode{h}, nil

	default:
		return &Unsupported{h}, nil
	}
}

// CharValue returns the text of the CHARSXP at addr.
func (d *Decoder) CharValue(addr uint64) (string, error) {
	return d.mem.ReadCString(d.mem.PayloadBase(addr))
}

// BuiltinName returns R_FunTab[offset].name.
func (d *Decoder) BuiltinName(offset int64) (string, error) {
	if offset < 0 {
		return "", fmt.Errorf("bad builtin offset %d", offset)
	}
	l := d.mem.Layout
	entry := d.funTab + uint64(offset)*uint64(l.FunTabEntrySize)
	name, err := d.mem.ReadPointer(entry + uint64(l.FunTabNameOffset))
	if err != nil {
		return "", err
	}
	return d.mem.ReadCString(name)
}

// elementBatch is the number of vector elements fetched per memory read.
const elementBatch = 256

// readElements calls fn with the raw bytes of each of the first n elements
// of stride bytes starting at data, or only the first limit elements when
// limit > 0. It reports whether elements were left out.
func (d *Decoder) readElements(data uint64, n int64, stride, limit int, fn func(buf []byte) error) (bool, error) {
	count, truncated := n, false
	if limit > 0 && count > int64(limit) {
		count, truncated = int64(limit), true
	}
	for i := int64(0); i < count; i += elementBatch {
		k := count - i
		if k > elementBatch {
			k = elementBatch
		}
		buf, err := d.mem.ReadBytes(data+uint64(i)*uint64(stride), int(k)*stride)
		if err != nil {
			return false, err
		}
		for j := 0; j < int(k); j++ {
			if err := fn(buf[j*stride : (j+1)*stride]); err != nil {
				return false, err
			}
		}
	}
	return truncated, nil
}

// VectorElements returns the text of v's elements, at most limit of them
// when limit > 0, and whether any were left out.
func (d *Decoder) VectorElements(v *Vector, limit int) ([]string, bool, error) {
	a := d.mem.Arch
	var elems []string
	truncated, err := d.readElements(v.Data, v.Length, v.elemSize(a), limit, func(buf []byte) error {
		switch v.typ {
		case TypeLogical:
			elems = append(elems, formatLogical(a.Int(buf)))
		case TypeInteger:
			elems = append(elems, formatInteger(a.Int(buf)))
		case TypeReal:
			elems = append(elems, formatReal(a.Float64(buf)))
		default:
			return fmt.Errorf("node 0x%x: %s is not an atomic vector", v.addr, v.typ)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return elems, truncated, nil
}

// StringElements returns the text of v's elements, at most limit of them
// when limit > 0, and whether any were left out.
func (d *Decoder) StringElements(v *StringVector, limit int) ([]string, bool, error) {
	a := d.mem.Arch
	var ptrs []uint64
	truncated, err := d.readElements(v.Data, v.Length, a.PointerSize, limit, func(buf []byte) error {
		ptrs = append(ptrs, a.Uintptr(buf))
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	elems := make([]string, len(ptrs))
	for k, p := range ptrs {
		if elems[k], err = d.CharValue(p); err != nil {
			return nil, false, err
		}
	}
	return elems, truncated, nil
}
