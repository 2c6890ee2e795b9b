package sexp

import "strings"

// Printer is the registration point for a host debugger: given a value whose
// declared static type is R's SEXP, it produces the display string.
// Whether the printer is enabled is owned by the host.
type Printer struct {
	Name    string
	Enabled bool
	r       *Renderer
}

// NewPrinter returns an enabled Printer that renders with r.
func NewPrinter(r *Renderer) *Printer {
	return &Printer{Name: "SEXP", Enabled: true, r: r}
}

// Match reports whether p handles values of the given declared type.
// typeName is a C type as a debugger prints it. Only "SEXP" and
// "struct SEXPREC *", with any qualifiers, match: a pointer to a SEXP is a
// different value.
func (p *Printer) Match(typeName string) bool {
	if !p.Enabled {
		return false
	}
	base, ptrs := splitTypeName(typeName)
	switch base {
	case "SEXP":
		return ptrs == 0
	case "SEXPREC", "struct SEXPREC":
		return ptrs == 1
	}
	return false
}

// Print renders the SEXP at addr, whose declared type is typeName.
// The bool result is false if p does not handle typeName.
func (p *Printer) Print(typeName string, addr uint64) (string, bool, error) {
	if !p.Match(typeName) {
		return "", false, nil
	}
	s, err := p.r.Render(addr)
	if err != nil {
		return "", true, err
	}
	return s, true, nil
}

// splitTypeName strips qualifiers from a C type name and counts its
// pointer levels, e.g. "const struct SEXPREC * const" is
// ("struct SEXPREC", 1).
func splitTypeName(name string) (string, int) {
	var words []string
	ptrs := 0
	for _, w := range strings.Fields(strings.ReplaceAll(name, "*", " * ")) {
		switch w {
		case "const", "volatile", "restrict":
		case "*":
			ptrs++
		default:
			words = append(words, w)
		}
	}
	return strings.Join(words, " "), ptrs
}
