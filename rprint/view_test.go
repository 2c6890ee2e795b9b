package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func get(t *testing.T, h http.Handler, url string) (int, string, http.Header) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", url, nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatal(err)
	}
	return rec.Code, string(body), rec.Result().Header
}

func TestViewMain(t *testing.T) {
	s, ft, _ := newTestSession(t)
	h := s.viewHandler()

	code, body, _ := get(t, h, "/")
	if code != http.StatusOK {
		t.Fatalf("GET / = %d", code)
	}
	for _, want := range []string{"amd64", fmt.Sprintf("node?addr=0x%x", ft.nilNode), "PointerSize = 8"} {
		if !strings.Contains(body, want) {
			t.Errorf("GET / missing %q", want)
		}
	}
	if code, _, _ := get(t, h, "/nosuchpage"); code != http.StatusNotFound {
		t.Errorf("GET /nosuchpage = %d want 404", code)
	}
}

func TestViewNode(t *testing.T) {
	s, ft, _ := newTestSession(t)
	h := s.viewHandler()

	code, body, _ := get(t, h, fmt.Sprintf("/node?addr=0x%x", ft.vec))
	if code != http.StatusOK {
		t.Fatalf("GET /node = %d: %s", code, body)
	}
	for _, want := range []string{"INTSXP", "[1, 2]", "<td>length</td>", "<td>[1]</td>"} {
		if !strings.Contains(body, want) {
			t.Errorf("GET /node missing %q:\n%s", want, body)
		}
	}

	// A symbol links to its print name.
	code, body, _ = get(t, h, fmt.Sprintf("/node?addr=0x%x", ft.sym))
	if code != http.StatusOK || !strings.Contains(body, "<td>printname</td>") || !strings.Contains(body, `href="node?addr=0x`) {
		t.Errorf("GET /node of a symbol = %d:\n%s", code, body)
	}

	for _, url := range []string{"/node", "/node?addr=zz", "/node?addr=0xdead"} {
		if code, _, _ := get(t, h, url); code != http.StatusBadRequest {
			t.Errorf("GET %s = %d want 400", url, code)
		}
	}
}

func TestViewVar(t *testing.T) {
	s, ft, _ := newTestSession(t)
	h := s.viewHandler()

	code, _, hdr := get(t, h, "/var?name=R_vec")
	if code != http.StatusFound {
		t.Fatalf("GET /var = %d want 302", code)
	}
	if loc, want := hdr.Get("Location"), fmt.Sprintf("node?addr=0x%x", ft.vec); !strings.HasSuffix(loc, want) {
		t.Errorf("GET /var redirected to %q want %q", loc, want)
	}
	if code, _, _ := get(t, h, "/var?name=R_count"); code != http.StatusNotFound {
		t.Errorf("GET /var of an int = %d want 404", code)
	}
	if code, _, _ := get(t, h, "/var"); code != http.StatusBadRequest {
		t.Errorf("GET /var without a name = %d want 400", code)
	}
}
