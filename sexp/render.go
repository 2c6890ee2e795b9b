package sexp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds the nesting depth Render follows when
// RenderOptions.MaxDepth is zero.
const DefaultMaxDepth = 512

// Markers substituted for parts of the heap that are not rendered.
const (
	cycleMarker    = "<cycle>"
	truncateMarker = "..."
)

// RenderOptions bounds the work done by a single Render call.
type RenderOptions struct {
	// MaxDepth bounds how deeply nested nodes are followed (through car,
	// body, print names, ...). Deeper nodes render as "...".
	MaxDepth int `json:"maxDepth"`

	// MaxElements, if positive, bounds the number of vector elements and
	// list cells rendered. The rest is elided with "...".
	MaxElements int `json:"maxElements"`
}

// Renderer converts nodes to text.
type Renderer struct {
	d    *Decoder
	opts RenderOptions
}

// NewRenderer returns a Renderer that decodes nodes with d.
// opts may be nil.
func NewRenderer(d *Decoder, opts *RenderOptions) *Renderer {
	r := &Renderer{d: d}
	if opts != nil {
		r.opts = *opts
	}
	if r.opts.MaxDepth <= 0 {
		r.opts.MaxDepth = DefaultMaxDepth
	}
	return r
}

// Decoder returns the Decoder used by r.
func (r *Renderer) Decoder() *Decoder { return r.d }

// Render returns the text of the node at addr. Nodes with tags that have no
// rendering rule render as "unsupported type NAME" without failing the call.
// Memory that cannot be read fails the whole call with a *MemoryReadError.
func (r *Renderer) Render(addr uint64) (string, error) {
	w := &walk{r: r, d: r.d, onPath: make(map[uint64]bool)}
	return w.render(addr, 0)
}

// walk is the state of one Render call. onPath holds the nodes between the
// root and the node being rendered; meeting one of them again is a cycle.
type walk struct {
	r      *Renderer
	d      *Decoder
	onPath map[uint64]bool
}

func (w *walk) render(addr uint64, depth int) (string, error) {
	if w.d.IsNil(addr) {
		return "(Nil)", nil
	}
	if w.d.IsUnbound(addr) {
		return "(Unbound)", nil
	}
	if depth > w.r.opts.MaxDepth {
		return truncateMarker, nil
	}
	if w.onPath[addr] {
		return cycleMarker, nil
	}

	n, err := w.d.Decode(addr)
	if err != nil {
		return "", err
	}
	w.onPath[addr] = true
	defer delete(w.onPath, addr)

	switch n := n.(type) {
	case *Nil:
		return "", nil

	case *Symbol:
		return w.render(n.PrintName, depth+1)

	case *Pair:
		return w.chain(n.Car, n.Cdr, n.Tag, depth)

	case *Closure:
		formals, err := w.args(n.Formals, depth)
		if err != nil {
			return "", err
		}
		body, err := w.render(n.Body, depth+1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<closure: %s, { %s }>", formals, body), nil

	case *Environment:
		return "<environment>", nil

	case *Promise:
		return fmt.Sprintf("<promise: 0x%x>", n.Expr), nil

	case *Lang:
		fn, err := w.render(n.Car, depth+1)
		if err != nil {
			return "", err
		}
		args, err := w.args(n.Cdr, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", fn, args), nil

	case *Builtin:
		name, err := w.d.BuiltinName(n.Offset)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(".Primitive(%s)", name), nil

	case *Char:
		return w.d.CharValue(n.Addr())

	case *Vector:
		elems, truncated, err := w.d.VectorElements(n, w.r.opts.MaxElements)
		if err != nil {
			return "", err
		}
		return formatVector(elems, truncated), nil

	case *StringVector:
		elems, truncated, err := w.d.StringElements(n, w.r.opts.MaxElements)
		if err != nil {
			return "", err
		}
		for k, e := range elems {
			elems[k] = `"` + e + `"`
		}
		return formatVector(elems, truncated), nil

	case *ByteCode:
		return "<bytecode>", nil

	case *Unsupported:
		return "unsupported type " + n.Type().String(), nil

	default:
		panic(fmt.Sprintf("unexpected node type %T", n))
	}
}

// args renders the pair chain at addr, e.g. an argument or formals list.
// An empty chain renders as "".
func (w *walk) args(addr uint64, depth int) (string, error) {
	isNil, err := w.d.isNilRef(addr)
	if err != nil || isNil {
		return "", err
	}
	return w.render(addr, depth+1)
}

// chain renders a pair chain whose first cell has the given car, cdr and tag.
// Elements are rendered as "car" or "tag=car" and joined with ", ". The chain
// is walked iteratively along cdr, so its length does not consume stack.
func (w *walk) chain(car, cdr, tag uint64, depth int) (string, error) {
	var parts []string
	var cells []uint64
	defer func() {
		for _, c := range cells {
			delete(w.onPath, c)
		}
	}()

	for {
		text, err := w.render(car, depth+1)
		if err != nil {
			return "", err
		}
		tagIsNil, err := w.d.isNilRef(tag)
		if err != nil {
			return "", err
		}
		if !tagIsNil {
			tagText, err := w.render(tag, depth+1)
			if err != nil {
				return "", err
			}
			text = tagText + "=" + text
		}
		parts = append(parts, text)

		cdrIsNil, err := w.d.isNilRef(cdr)
		if err != nil {
			return "", err
		}
		if cdrIsNil {
			break
		}
		if max := w.r.opts.MaxElements; max > 0 && len(parts) >= max {
			parts = append(parts, truncateMarker)
			break
		}
		if w.onPath[cdr] {
			parts = append(parts, cycleMarker)
			break
		}

		next, err := w.d.Decode(cdr)
		if err != nil {
			return "", err
		}
		p, ok := next.(*Pair)
		if !ok {
			// A dotted tail: render it as a node of its own.
			text, err := w.render(cdr, depth+1)
			if err != nil {
				return "", err
			}
			parts = append(parts, text)
			break
		}
		w.onPath[cdr] = true
		cells = append(cells, cdr)
		car, cdr, tag = p.Car, p.Cdr, p.Tag
	}
	return strings.Join(parts, ", "), nil
}

// formatVector renders vector elements: "c()" when empty, the bare element
// when there is exactly one, and "[e0, e1, ...]" otherwise.
func formatVector(elems []string, truncated bool) string {
	switch {
	case len(elems) == 0 && !truncated:
		return "c()"
	case len(elems) == 1 && !truncated:
		return elems[0]
	}
	if truncated {
		elems = append(elems, truncateMarker)
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// naInteger is NA_INTEGER and NA_LOGICAL.
const naInteger = math.MinInt32

// naRealLow is the low word of NA_REAL, a NaN with payload 1954.
const naRealLow = 1954

func formatLogical(v int64) string {
	switch {
	case v == naInteger:
		return "NA"
	case v != 0:
		return "TRUE"
	default:
		return "FALSE"
	}
}

func formatInteger(v int64) string {
	if v == naInteger {
		return "NA"
	}
	return strconv.FormatInt(v, 10)
}

func formatReal(v float64) string {
	switch {
	case math.IsNaN(v):
		if uint32(math.Float64bits(v)) == naRealLow {
			return "NA"
		}
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	// Like R's print: 7 significant digits, fixed notation unless
	// scientific notation is shorter.
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 7, 64), 64)
	fixed := strconv.FormatFloat(r, 'f', -1, 64)
	if sci := strconv.FormatFloat(r, 'e', -1, 64); len(sci) < len(fixed) {
		return sci
	}
	return fixed
}
