package sexp

import "fmt"

// MemoryReadError is returned when memory in the inspected process cannot be
// read, e.g., because the address is unmapped or missing from a core file.
type MemoryReadError struct {
	Addr uint64
	Size uint64
	Err  error
}

func (e *MemoryReadError) Error() string {
	return fmt.Sprintf("cannot read %d bytes at 0x%x: %v", e.Size, e.Addr, e.Err)
}

func (e *MemoryReadError) Unwrap() error { return e.Err }

// MissingSymbolError is returned when a global symbol the decoder depends on
// cannot be resolved in the inspected process.
type MissingSymbolError struct {
	Name string
	Err  error // optional cause
}

func (e *MissingSymbolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve global symbol %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("cannot resolve global symbol %s", e.Name)
}

func (e *MissingSymbolError) Unwrap() error { return e.Err }
