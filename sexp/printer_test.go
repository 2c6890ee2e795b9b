package sexp

import "testing"

func TestPrinterMatch(t *testing.T) {
	h := newFakeHeap()
	p := NewPrinter(h.renderer(t, nil))
	if p.Name != "SEXP" || !p.Enabled {
		t.Errorf("NewPrinter=%+v want enabled printer named SEXP", p)
	}

	tests := []struct {
		typeName string
		want     bool
	}{
		{"SEXP", true},
		{"const SEXP", true},
		{"volatile SEXP", true},
		{"struct SEXPREC *", true},
		{"struct SEXPREC*", true},
		{"SEXP const", true},
		{"SEXPREC *", true},
		{"const struct SEXPREC * const", true},
		{"SEXPREC", false},
		{"struct SEXPREC", false},
		{"SEXP *", false},
		{"SEXP **", false},
		{"struct SEXPREC **", false},
		{"R_SEXPTYPE", false},
		{"int", false},
		{"double *", false},
		{"struct Rconn *", false},
		{"", false},
	}
	for _, test := range tests {
		if got := p.Match(test.typeName); got != test.want {
			t.Errorf("Match(%q)=%v want %v", test.typeName, got, test.want)
		}
	}

	p.Enabled = false
	if p.Match("SEXP") {
		t.Errorf("disabled printer matched SEXP")
	}
}

func TestPrinterPrint(t *testing.T) {
	h := newFakeHeap()
	x := h.list(h.sym("a"), h.ints(1, 2))
	p := NewPrinter(h.renderer(t, nil))

	got, ok, err := p.Print("SEXP", x)
	if want := "a, [1, 2]"; err != nil || !ok || got != want {
		t.Errorf("Print(SEXP)=%q,%v,%v want %q", got, ok, err, want)
	}
	if got, ok, err := p.Print("int", x); ok || err != nil || got != "" {
		t.Errorf("Print(int)=%q,%v,%v want not handled", got, ok, err)
	}
	if _, ok, err := p.Print("SEXP", 0xdead0000); !ok || err == nil {
		t.Errorf("Print of unmapped SEXP: handled=%v err=%v want error", ok, err)
	}
}
