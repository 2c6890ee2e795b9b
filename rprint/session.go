package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tombergan/rcoredump/config"
	"github.com/tombergan/rcoredump/sexp"
	"github.com/tombergan/rcoredump/target"
)

// session renders values of one target.
type session struct {
	t      target.Target
	mem    *sexp.Memory
	dec    *sexp.Decoder
	r      *sexp.Renderer
	p      *sexp.Printer
	out    io.Writer
	logger *slog.Logger
}

func newSession(t target.Target, cfg *config.Config, out io.Writer, logger *slog.Logger) (*session, error) {
	a := t.Arch()
	mem := sexp.NewMemory(t, a, cfg.Layout.Apply(sexp.DefaultLayout(a)))
	dec, err := sexp.NewDecoder(mem, t, cfg.DecoderOptions())
	if err != nil {
		return nil, err
	}
	r := sexp.NewRenderer(dec, &cfg.Render)
	return &session{
		t:      t,
		mem:    mem,
		dec:    dec,
		r:      r,
		p:      sexp.NewPrinter(r),
		out:    out,
		logger: logger,
	}, nil
}

// parseAddr parses a hex (0x-prefixed) or decimal address.
func parseAddr(s string) (uint64, error) {
	addr, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return addr, nil
}

func (s *session) render(addr uint64) error {
	text, err := s.r.Render(addr)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, text)
	return nil
}

func (s *session) dump(addr uint64) error {
	d, err := dumpNode(s.dec, s.r, addr)
	if err != nil {
		return err
	}
	return writeYAML(s.out, d)
}

// lookupVar returns the value of the global variable name, which must be
// declared as a SEXP, and its declared type.
func (s *session) lookupVar(name string) (uint64, string, error) {
	typ, err := s.t.VarType(name)
	switch {
	case errors.Is(err, target.ErrNoType):
		s.logger.Warn("no type information, assuming SEXP", "var", name, "error", err)
		typ = "SEXP"
	case err != nil:
		return 0, "", err
	}
	if !s.p.Match(typ) {
		return 0, "", fmt.Errorf("%s has type %s, not SEXP", name, typ)
	}

	addr, err := s.t.LookupSymbol(name)
	if err != nil {
		return 0, "", err
	}
	v, err := s.mem.ReadPointer(addr)
	if err != nil {
		return 0, "", err
	}
	return v, typ, nil
}

// printVar renders the global SEXP variable name.
func (s *session) printVar(name string) error {
	v, typ, err := s.lookupVar(name)
	if err != nil {
		return err
	}
	text, _, err := s.p.Print(typ, v)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, text)
	return nil
}

// symbolAt prints the symbol containing addr.
func (s *session) symbolAt(addr uint64) error {
	sym, ok := s.t.SymbolAt(addr)
	if !ok {
		return fmt.Errorf("no symbol contains 0x%x", addr)
	}
	if off := addr - sym.Addr; off != 0 {
		fmt.Fprintf(s.out, "%s+0x%x (%s)\n", sym.Name, off, sym.Image)
	} else {
		fmt.Fprintf(s.out, "%s (%s)\n", sym.Name, sym.Image)
	}
	return nil
}

const helpText = `commands:
  ADDR         render the SEXP at ADDR (hex with 0x, or decimal)
  dump ADDR    print the decoded node at ADDR as YAML
  var NAME     render the global SEXP variable NAME
  sym ADDR     print the symbol containing ADDR
  help         print this message
  quit         exit
`

// exec runs one command line. It reports whether the session should end.
func (s *session) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false, nil
	}
	arg := func() (string, error) {
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: %s ARG", fields[0])
		}
		return fields[1], nil
	}

	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprint(s.out, helpText)
		return false, nil
	case "dump", "sym":
		a, err := arg()
		if err != nil {
			return false, err
		}
		addr, err := parseAddr(a)
		if err != nil {
			return false, err
		}
		if fields[0] == "dump" {
			return false, s.dump(addr)
		}
		return false, s.symbolAt(addr)
	case "var":
		name, err := arg()
		if err != nil {
			return false, err
		}
		return false, s.printVar(name)
	}

	if len(fields) != 1 {
		return false, fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	addr, err := parseAddr(fields[0])
	if err != nil {
		return false, fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	return false, s.render(addr)
}
