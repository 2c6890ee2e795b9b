// Package sexp decodes R heap objects (SEXPs) from the memory of another
// process and renders them as human-readable text.
//
// An R value is a SEXPREC node: a header word holding the node's SEXPTYPE
// tag, a few bookkeeping pointers, and a union whose layout depends on the
// tag. A Memory reads raw words out of the inspected process (a core file or
// a live process, see package target). A Decoder turns an address into a
// Node, which is one of a closed set of variant types (Pair, Symbol, Closure,
// Vector, ...). A Renderer walks Nodes recursively and produces text such as
//
//    <closure: x, y, { +(x, y) }>
//
// Rendering only reads memory. The inspected process is assumed to be stopped
// for the duration of a Render call.
//
// The decoder understands one fixed layout, described by Layout. The layout
// must match the R build being inspected, or fields will be misread. The
// default layout matches R on 32-bit and 64-bit Linux.
//
// Pair chains in the inspected heap are treated as untrusted: Render walks
// them iteratively, stops at cycles, and bounds the nesting depth, so a
// corrupt or cyclic heap cannot exhaust the stack.
package sexp
