// Package config loads rprint's configuration: the SEXPREC layout of the R
// build being inspected, the names of the symbols the decoder resolves,
// rendering bounds, and the images to load symbols from.
package config

import (
	"errors"

	"github.com/tombergan/rcoredump/sexp"
)

// Schema is the CUE schema configuration files are validated against.
const Schema = `
layout?: close({
	headerWords?:      int & >0
	typeMask?:         int & >0
	vectorHeaderInts?: int & >=0
	funTabEntrySize?:  int & >0
	funTabNameOffset?: int & >=0
	maxStringLen?:     int & >0
})
symbols?: close({
	nilValue?:     string & !=""
	unboundValue?: string & !=""
	funTab?:       string & !=""
})
render?: close({
	maxDepth?:    int & >=0
	maxElements?: int & >=0
})
images?: [...string]
`

// Config is the merged configuration. Zero and nil fields take the
// defaults of the sexp package.
type Config struct {
	Layout  LayoutConfig       `json:"layout"`
	Symbols sexp.Symbols       `json:"symbols"`
	Render  sexp.RenderOptions `json:"render"`
	Images  []string           `json:"images"`
}

// LayoutConfig overrides fields of sexp.DefaultLayout.
type LayoutConfig struct {
	HeaderWords      *int    `json:"headerWords,omitempty"`
	TypeMask         *uint32 `json:"typeMask,omitempty"`
	VectorHeaderInts *int    `json:"vectorHeaderInts,omitempty"`
	FunTabEntrySize  *int    `json:"funTabEntrySize,omitempty"`
	FunTabNameOffset *int    `json:"funTabNameOffset,omitempty"`
	MaxStringLen     *int    `json:"maxStringLen,omitempty"`
}

// Apply returns base with the fields set in l replaced.
func (l LayoutConfig) Apply(base sexp.Layout) sexp.Layout {
	if l.HeaderWords != nil {
		base.HeaderWords = *l.HeaderWords
	}
	if l.TypeMask != nil {
		base.TypeMask = *l.TypeMask
	}
	if l.VectorHeaderInts != nil {
		base.VectorHeaderInts = *l.VectorHeaderInts
	}
	if l.FunTabEntrySize != nil {
		base.FunTabEntrySize = *l.FunTabEntrySize
	}
	if l.FunTabNameOffset != nil {
		base.FunTabNameOffset = *l.FunTabNameOffset
	}
	if l.MaxStringLen != nil {
		base.MaxStringLen = *l.MaxStringLen
	}
	return base
}

// Load reads the configuration files at paths. Values in earlier files take
// precedence. With no paths, Load returns an empty Config.
func Load(paths ...string) (*Config, error) {
	c := &Config{}
	if len(paths) == 0 {
		return c, nil
	}
	loader := NewLoader(paths, Schema)

	fields := []struct {
		path   string
		target any
	}{
		{"layout.headerWords", &c.Layout.HeaderWords},
		{"layout.typeMask", &c.Layout.TypeMask},
		{"layout.vectorHeaderInts", &c.Layout.VectorHeaderInts},
		{"layout.funTabEntrySize", &c.Layout.FunTabEntrySize},
		{"layout.funTabNameOffset", &c.Layout.FunTabNameOffset},
		{"layout.maxStringLen", &c.Layout.MaxStringLen},
		{"symbols.nilValue", &c.Symbols.Nil},
		{"symbols.unboundValue", &c.Symbols.Unbound},
		{"symbols.funTab", &c.Symbols.FunTab},
		{"render.maxDepth", &c.Render.MaxDepth},
		{"render.maxElements", &c.Render.MaxElements},
		{"images", &c.Images},
	}
	for _, f := range fields {
		if err := loader.AssignFirst(f.path, f.target); err != nil && !errors.Is(err, ErrValueNotFound) {
			return nil, err
		}
	}
	return c, nil
}

// DecoderOptions returns the options for sexp.NewDecoder.
func (c *Config) DecoderOptions() *sexp.DecoderOptions {
	return &sexp.DecoderOptions{Symbols: c.Symbols}
}
