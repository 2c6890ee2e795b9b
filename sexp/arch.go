package sexp

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Arch describes the machine the inspected process runs on: how wide its
// pointers and C ints are, and the byte order of its memory.
type Arch struct {
	Name        string
	PointerSize int // 4 or 8
	IntSize     int // sizeof(int); always 4 on the platforms R supports
	ByteOrder   binary.ByteOrder
}

var (
	ArchAMD64   = Arch{Name: "amd64", PointerSize: 8, IntSize: 4, ByteOrder: binary.LittleEndian}
	Arch386     = Arch{Name: "386", PointerSize: 4, IntSize: 4, ByteOrder: binary.LittleEndian}
	ArchARM64   = Arch{Name: "arm64", PointerSize: 8, IntSize: 4, ByteOrder: binary.LittleEndian}
	ArchARM     = Arch{Name: "arm", PointerSize: 4, IntSize: 4, ByteOrder: binary.LittleEndian}
	ArchPPC64LE = Arch{Name: "ppc64le", PointerSize: 8, IntSize: 4, ByteOrder: binary.LittleEndian}
	ArchRISCV64 = Arch{Name: "riscv64", PointerSize: 8, IntSize: 4, ByteOrder: binary.LittleEndian}
)

func (a Arch) String() string {
	if a.Name != "" {
		return a.Name
	}
	return fmt.Sprintf("arch{ptr:%d, int:%d, %v}", a.PointerSize, a.IntSize, a.ByteOrder)
}

// Uintptr decodes a pointer-sized word from buf.
func (a Arch) Uintptr(buf []byte) uint64 {
	switch a.PointerSize {
	case 4:
		return uint64(a.ByteOrder.Uint32(buf))
	case 8:
		return a.ByteOrder.Uint64(buf)
	default:
		panic(fmt.Sprintf("unexpected PointerSize %v", a.PointerSize))
	}
}

// Int decodes a C int from buf.
func (a Arch) Int(buf []byte) int64 {
	switch a.IntSize {
	case 4:
		return int64(int32(a.ByteOrder.Uint32(buf)))
	case 8:
		return int64(a.ByteOrder.Uint64(buf))
	default:
		panic(fmt.Sprintf("unexpected IntSize %v", a.IntSize))
	}
}

// Int32 decodes a 32-bit signed integer from buf.
func (a Arch) Int32(buf []byte) int32 {
	return int32(a.ByteOrder.Uint32(buf))
}

// Uint32 decodes a 32-bit unsigned integer from buf.
func (a Arch) Uint32(buf []byte) uint32 {
	return a.ByteOrder.Uint32(buf)
}

// Float64 decodes an IEEE double from buf.
func (a Arch) Float64(buf []byte) float64 {
	return math.Float64frombits(a.ByteOrder.Uint64(buf))
}
