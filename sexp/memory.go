package sexp

import (
	"bytes"
	"io"
)

// MemoryReader reads the memory of the inspected process.
// ReadMemory is just like io.ReaderAt.ReadAt, but the address is a uint64 so
// that it can address all of 64-bit memory.
type MemoryReader interface {
	ReadMemory(buf []byte, addr uint64) (n int, err error)
}

// SymbolResolver resolves global symbols of the inspected process.
// LookupSymbol returns the address of the named symbol.
type SymbolResolver interface {
	LookupSymbol(name string) (uint64, error)
}

// cstringChunk bounds each read done by ReadCString, so that a read never
// crosses a page boundary the string itself does not cross.
const cstringChunk = 4096

// Memory provides typed reads of the inspected process's memory.
// Every call performs a fresh read; nothing is cached.
type Memory struct {
	Arch   Arch
	Layout Layout
	r      MemoryReader
}

// NewMemory returns a Memory that reads through r.
func NewMemory(r MemoryReader, a Arch, l Layout) *Memory {
	return &Memory{Arch: a, Layout: l, r: r}
}

// read fills buf from addr. A short read is an error.
func (m *Memory) read(buf []byte, addr uint64) error {
	n, err := m.r.ReadMemory(buf, addr)
	if n == len(buf) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return &MemoryReadError{Addr: addr, Size: uint64(len(buf)), Err: err}
}

// ReadBytes reads n raw bytes at addr.
func (m *Memory) ReadBytes(addr uint64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := m.read(buf, addr); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadPointer reads a pointer-sized word at addr.
func (m *Memory) ReadPointer(addr uint64) (uint64, error) {
	buf := make([]byte, m.Arch.PointerSize)
	if err := m.read(buf, addr); err != nil {
		return 0, err
	}
	return m.Arch.Uintptr(buf), nil
}

// ReadInt32 reads a 32-bit signed integer at addr.
func (m *Memory) ReadInt32(addr uint64) (int32, error) {
	var buf [4]byte
	if err := m.read(buf[:], addr); err != nil {
		return 0, err
	}
	return m.Arch.Int32(buf[:]), nil
}

// ReadInt reads a C int at addr.
func (m *Memory) ReadInt(addr uint64) (int64, error) {
	buf := make([]byte, m.Arch.IntSize)
	if err := m.read(buf, addr); err != nil {
		return 0, err
	}
	return m.Arch.Int(buf), nil
}

// ReadFloat64 reads a double at addr.
func (m *Memory) ReadFloat64(addr uint64) (float64, error) {
	var buf [8]byte
	if err := m.read(buf[:], addr); err != nil {
		return 0, err
	}
	return m.Arch.Float64(buf[:]), nil
}

// ReadCString reads a NUL-terminated byte string at addr. Strings longer than
// Layout.MaxStringLen are truncated.
func (m *Memory) ReadCString(addr uint64) (string, error) {
	max := m.Layout.MaxStringLen
	if max <= 0 {
		max = DefaultLayout(m.Arch).MaxStringLen
	}
	var out []byte
	for len(out) < max {
		n := cstringChunk - addr%cstringChunk
		buf := make([]byte, n)
		got, err := m.r.ReadMemory(buf, addr)
		if got > len(buf) {
			got = len(buf)
		}
		// The terminator may come before the end of readable memory.
		if k := bytes.IndexByte(buf[:got], 0); k >= 0 {
			out = append(out, buf[:k]...)
			break
		}
		if got < len(buf) {
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return "", &MemoryReadError{Addr: addr + uint64(got), Size: n - uint64(got), Err: err}
		}
		out = append(out, buf...)
		addr += n
	}
	if len(out) > max {
		verbosef("truncating C string at 0x%x to %d bytes", addr, max)
		out = out[:max]
	}
	return string(out), nil
}

// ReadType reads the SEXPTYPE tag of the node at addr.
func (m *Memory) ReadType(addr uint64) (Type, error) {
	var buf [4]byte
	if err := m.read(buf[:], addr); err != nil {
		return 0, err
	}
	return Type(m.Arch.Uint32(buf[:]) & m.Layout.TypeMask), nil
}

// UnionAddr returns the address of the node's union u.
func (m *Memory) UnionAddr(node uint64) uint64 {
	return node + uint64(m.Layout.HeaderWords*m.Arch.PointerSize)
}

// FieldAddr returns the address of the word'th pointer-sized union member.
func (m *Memory) FieldAddr(node uint64, word int) uint64 {
	return m.UnionAddr(node) + uint64(word*m.Arch.PointerSize)
}

// ReadField reads the word'th pointer-sized union member of node.
func (m *Memory) ReadField(node uint64, word int) (uint64, error) {
	return m.ReadPointer(m.FieldAddr(node, word))
}

// PayloadBase returns the address of a vector node's first element: the union
// address offset by the vector header (length and truelength).
func (m *Memory) PayloadBase(node uint64) uint64 {
	return m.UnionAddr(node) + uint64(m.Layout.VectorHeaderInts*m.Arch.IntSize)
}

// ReadLength reads a vector node's length header.
func (m *Memory) ReadLength(node uint64) (int64, error) {
	return m.ReadInt(m.UnionAddr(node))
}
