package sexp

import (
	"errors"
	"math"
	"testing"
)

const (
	heapBase = 0x10000
	heapSize = 4 << 20
)

var errUnmapped = errors.New("unmapped")

// fakeHeap lays out SEXPREC nodes, byte for byte, the way R does on amd64.
// It implements MemoryReader and SymbolResolver.
type fakeHeap struct {
	arch    Arch
	layout  Layout
	mem     []byte
	next    uint64
	syms    map[string]uint64
	nilNode uint64
	unbound uint64
	env     uint64
}

func newFakeHeap(funNames ...string) *fakeHeap {
	h := &fakeHeap{
		arch:   ArchAMD64,
		layout: DefaultLayout(ArchAMD64),
		mem:    make([]byte, heapSize),
		next:   heapBase + 64,
		syms:   make(map[string]uint64),
	}

	// R_NilValue's car, cdr and tag point to itself.
	h.nilNode = h.node(TypeNil, 0, 0, 0)
	h.setFields(h.nilNode, h.nilNode, h.nilNode, h.nilNode)
	h.unbound = h.node(TypeSymbol, 0, 0, 0)
	h.setFields(h.unbound, h.char(""), h.unbound, h.nilNode)
	h.env = h.node(TypeEnvironment, h.nilNode, h.nilNode, h.nilNode)
	h.global("R_NilValue", h.nilNode)
	h.global("R_UnboundValue", h.unbound)

	tab := h.alloc(len(funNames)*h.layout.FunTabEntrySize + 8)
	for k, name := range funNames {
		entry := tab + uint64(k*h.layout.FunTabEntrySize)
		h.putWord(entry+uint64(h.layout.FunTabNameOffset), h.cstring(name))
	}
	h.syms["R_FunTab"] = tab
	return h
}

func (h *fakeHeap) ReadMemory(buf []byte, addr uint64) (int, error) {
	if addr < heapBase || addr >= heapBase+uint64(len(h.mem)) {
		return 0, errUnmapped
	}
	n := copy(buf, h.mem[addr-heapBase:])
	if n < len(buf) {
		return n, errUnmapped
	}
	return n, nil
}

func (h *fakeHeap) LookupSymbol(name string) (uint64, error) {
	if addr, ok := h.syms[name]; ok {
		return addr, nil
	}
	return 0, &MissingSymbolError{Name: name}
}

func (h *fakeHeap) alloc(size int) uint64 {
	addr := h.next
	h.next += (uint64(size) + 15) &^ 15
	if h.next > heapBase+heapSize {
		panic("fake heap exhausted")
	}
	return addr
}

func (h *fakeHeap) slice(addr uint64, n int) []byte {
	return h.mem[addr-heapBase : addr-heapBase+uint64(n)]
}

func (h *fakeHeap) putWord(addr, v uint64) {
	h.arch.ByteOrder.PutUint64(h.slice(addr, 8), v)
}

func (h *fakeHeap) putInt32(addr uint64, v int32) {
	h.arch.ByteOrder.PutUint32(h.slice(addr, 4), uint32(v))
}

func (h *fakeHeap) unionAddr(node uint64) uint64 {
	return node + uint64(h.layout.HeaderWords*h.arch.PointerSize)
}

func (h *fakeHeap) dataAddr(node uint64) uint64 {
	return h.unionAddr(node) + uint64(h.layout.VectorHeaderInts*h.arch.IntSize)
}

// setType overwrites the node's SEXPTYPE.
func (h *fakeHeap) setType(node uint64, t Type) {
	h.putInt32(node, int32(t))
}

// setFields overwrites the node's union words.
func (h *fakeHeap) setFields(node uint64, words ...uint64) {
	for k, w := range words {
		h.putWord(h.unionAddr(node)+uint64(8*k), w)
	}
}

// global allocates a SEXP variable named name holding value.
func (h *fakeHeap) global(name string, value uint64) {
	v := h.alloc(8)
	h.putWord(v, value)
	h.syms[name] = v
}

// node allocates a non-vector node with three union words.
func (h *fakeHeap) node(t Type, words ...uint64) uint64 {
	addr := h.alloc(h.layout.HeaderWords*8 + 3*8)
	h.setType(addr, t)
	h.setFields(addr, words...)
	return addr
}

// vector allocates a vector node with n elements of stride bytes.
func (h *fakeHeap) vector(t Type, n, stride int) uint64 {
	addr := h.alloc(h.layout.HeaderWords*8 + 8 + n*stride + 1)
	h.setType(addr, t)
	h.putInt32(h.unionAddr(addr), int32(n))
	h.putInt32(h.unionAddr(addr)+4, int32(n))
	return addr
}

func (h *fakeHeap) cstring(s string) uint64 {
	addr := h.alloc(len(s) + 1)
	copy(h.slice(addr, len(s)), s)
	return addr
}

func (h *fakeHeap) char(s string) uint64 {
	addr := h.vector(TypeChar, len(s), 1)
	copy(h.slice(h.dataAddr(addr), len(s)), s)
	return addr
}

func (h *fakeHeap) int32s(t Type, vals []int32) uint64 {
	addr := h.vector(t, len(vals), 4)
	for k, v := range vals {
		h.putInt32(h.dataAddr(addr)+uint64(4*k), v)
	}
	return addr
}

func (h *fakeHeap) ints(vals ...int32) uint64 { return h.int32s(TypeInteger, vals) }
func (h *fakeHeap) logicals(vals ...int32) uint64 { return h.int32s(TypeLogical, vals) }

func (h *fakeHeap) reals(vals ...float64) uint64 {
	addr := h.vector(TypeReal, len(vals), 8)
	for k, v := range vals {
		h.putWord(h.dataAddr(addr)+uint64(8*k), math.Float64bits(v))
	}
	return addr
}

func (h *fakeHeap) strs(vals ...string) uint64 {
	addr := h.vector(TypeString, len(vals), 8)
	for k, v := range vals {
		h.putWord(h.dataAddr(addr)+uint64(8*k), h.char(v))
	}
	return addr
}

func (h *fakeHeap) sym(name string) uint64 {
	return h.node(TypeSymbol, h.char(name), h.unbound, h.nilNode)
}

func (h *fakeHeap) cons(car, cdr, tag uint64) uint64 {
	return h.node(TypePair, car, cdr, tag)
}

// list builds an untagged pair chain terminated by R_NilValue.
func (h *fakeHeap) list(elems ...uint64) uint64 {
	acc := h.nilNode
	for k := len(elems) - 1; k >= 0; k-- {
		acc = h.cons(elems[k], acc, h.nilNode)
	}
	return acc
}

func (h *fakeHeap) lang(fn, args uint64) uint64 {
	return h.node(TypeLang, fn, args, h.nilNode)
}

func (h *fakeHeap) closure(formals, body uint64) uint64 {
	return h.node(TypeClosure, formals, body, h.env)
}

func (h *fakeHeap) promise(expr uint64) uint64 {
	return h.node(TypePromise, h.unbound, expr, h.env)
}

func (h *fakeHeap) builtin(offset int32) uint64 {
	addr := h.node(TypeBuiltin)
	h.putInt32(h.unionAddr(addr), offset)
	return addr
}

func (h *fakeHeap) memory() *Memory {
	return NewMemory(h, h.arch, h.layout)
}

func (h *fakeHeap) decoder(t *testing.T) *Decoder {
	t.Helper()
	d, err := NewDecoder(h.memory(), h, nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	return d
}

func (h *fakeHeap) renderer(t *testing.T, opts *RenderOptions) *Renderer {
	t.Helper()
	return NewRenderer(h.decoder(t), opts)
}
