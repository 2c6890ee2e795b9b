package main

import (
	"fmt"
	"io"

	"github.com/tombergan/rcoredump/sexp"
	"gopkg.in/yaml.v3"
)

// dumpElements bounds the vector elements listed by dumpNode.
const dumpElements = 32

// nodeDump is the YAML form of a decoded node. Addresses are hex strings.
type nodeDump struct {
	Addr      string   `yaml:"addr"`
	Type      string   `yaml:"type"`
	Sentinel  string   `yaml:"sentinel,omitempty"`
	Car       string   `yaml:"car,omitempty"`
	Cdr       string   `yaml:"cdr,omitempty"`
	Tag       string   `yaml:"tag,omitempty"`
	PrintName string   `yaml:"printName,omitempty"`
	Formals   string   `yaml:"formals,omitempty"`
	Body      string   `yaml:"body,omitempty"`
	Expr      string   `yaml:"expr,omitempty"`
	Offset    *int64   `yaml:"offset,omitempty"`
	Name      string   `yaml:"name,omitempty"`
	Length    *int64   `yaml:"length,omitempty"`
	Data      string   `yaml:"data,omitempty"`
	Elements  []string `yaml:"elements,omitempty"`
	Truncated bool     `yaml:"truncated,omitempty"`
	Text      string   `yaml:"text,omitempty"`
	Error     string   `yaml:"error,omitempty"`
}

func hex(addr uint64) string {
	return fmt.Sprintf("0x%x", addr)
}

// dumpNode decodes the node at addr and describes its fields. Errors
// reading the node's fields fail the dump; errors rendering its text are
// recorded in the dump.
func dumpNode(dec *sexp.Decoder, r *sexp.Renderer, addr uint64) (*nodeDump, error) {
	n, err := dec.Decode(addr)
	if err != nil {
		return nil, err
	}
	d := &nodeDump{Addr: hex(addr), Type: n.Type().String()}
	switch {
	case dec.IsNil(addr):
		d.Sentinel = "R_NilValue"
	case dec.IsUnbound(addr):
		d.Sentinel = "R_UnboundValue"
	}

	switch n := n.(type) {
	case *sexp.Symbol:
		d.PrintName = hex(n.PrintName)
		if d.Name, err = dec.CharValue(n.PrintName); err != nil {
			return nil, err
		}
	case *sexp.Pair:
		d.Car, d.Cdr, d.Tag = hex(n.Car), hex(n.Cdr), hex(n.Tag)
	case *sexp.Lang:
		d.Car, d.Cdr, d.Tag = hex(n.Car), hex(n.Cdr), hex(n.Tag)
	case *sexp.Closure:
		d.Formals, d.Body = hex(n.Formals), hex(n.Body)
	case *sexp.Promise:
		d.Expr = hex(n.Expr)
	case *sexp.Builtin:
		d.Offset = &n.Offset
		if d.Name, err = dec.BuiltinName(n.Offset); err != nil {
			return nil, err
		}
	case *sexp.Char:
		d.Length, d.Data = &n.Length, hex(n.Data)
	case *sexp.Vector:
		d.Length, d.Data = &n.Length, hex(n.Data)
		if d.Elements, d.Truncated, err = dec.VectorElements(n, dumpElements); err != nil {
			return nil, err
		}
	case *sexp.StringVector:
		d.Length, d.Data = &n.Length, hex(n.Data)
		if d.Elements, d.Truncated, err = dec.StringElements(n, dumpElements); err != nil {
			return nil, err
		}
	}

	if text, err := r.Render(addr); err != nil {
		d.Error = err.Error()
	} else {
		d.Text = text
	}
	return d, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
