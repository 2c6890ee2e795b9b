package main

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/tombergan/rcoredump/sexp"
)

// viewHandler serves pages that browse the target's nodes:
//
//	/             machine parameters and the sentinels
//	/node?addr=A  the decoded node at A, with links to the nodes it refers to
//	/var?name=N   redirects to the node held by the global SEXP variable N
func (s *session) viewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.mainHandler)
	mux.HandleFunc("/node", s.nodeHandler)
	mux.HandleFunc("/var", s.varHandler)
	return mux
}

// nodeLink is a link to the /node page.
type nodeLink struct {
	Addr string
	Href string
}

func linkNode(addr string) *nodeLink {
	if addr == "" {
		return nil
	}
	return &nodeLink{Addr: addr, Href: "node?addr=" + addr}
}

var mainTemplate = template.Must(template.New("main").Parse(`
<html>
	<head>
		<title>R Heap Viewer</title>
	</head>
	<body>
	<code>
		<h2>R Heap Viewer</h2>
		Machine parameters:
		<ul>
			<li>Arch = {{.Arch.Name}}</li>
			<li>ByteOrder = {{.Arch.ByteOrder}}</li>
			<li>PointerSize = {{.Arch.PointerSize}} bytes</li>
			<li>IntSize = {{.Arch.IntSize}} bytes</li>
		</ul>
		Sentinels:
		<ul>
			<li>R_NilValue = <a href="{{.Nil.Href}}">{{.Nil.Addr}}</a></li>
			<li>R_UnboundValue = <a href="{{.Unbound.Href}}">{{.Unbound.Addr}}</a></li>
		</ul>
		<form action="node">Node address: <input name="addr"> <input type="submit" value="Show"></form>
		<form action="var">Global variable: <input name="name"> <input type="submit" value="Show"></form>
	</code>
	</body>
</html>
`))

func (s *session) mainHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "URL not found", http.StatusNotFound)
		return
	}
	info := struct {
		Arch         sexp.Arch
		Nil, Unbound *nodeLink
	}{
		Arch:    s.t.Arch(),
		Nil:     linkNode(hex(s.dec.NilAddr())),
		Unbound: linkNode(hex(s.dec.UnboundAddr())),
	}
	if err := mainTemplate.Execute(w, info); err != nil {
		s.logger.Error("cannot write page", "page", "main", "error", err)
	}
}

// fieldInfo is one row of the /node page. Link is set for fields that
// refer to other nodes.
type fieldInfo struct {
	Name  string
	Link  *nodeLink
	Value string
}

func nodeFields(d *nodeDump) []fieldInfo {
	var fields []fieldInfo
	link := func(name, addr string) {
		if addr != "" {
			fields = append(fields, fieldInfo{Name: name, Link: linkNode(addr)})
		}
	}
	value := func(name, v string) {
		if v != "" {
			fields = append(fields, fieldInfo{Name: name, Value: v})
		}
	}
	value("sentinel", d.Sentinel)
	link("car", d.Car)
	link("cdr", d.Cdr)
	link("tag", d.Tag)
	link("printname", d.PrintName)
	link("formals", d.Formals)
	link("body", d.Body)
	link("expr", d.Expr)
	if d.Offset != nil {
		value("offset", fmt.Sprint(*d.Offset))
	}
	value("name", d.Name)
	if d.Length != nil {
		value("length", fmt.Sprint(*d.Length))
	}
	value("data", d.Data)
	for k, e := range d.Elements {
		value(fmt.Sprintf("[%d]", k), e)
	}
	if d.Truncated {
		value("...", fmt.Sprintf("truncated to %d elements", len(d.Elements)))
	}
	return fields
}

var nodeTemplate = template.Must(template.New("node").Parse(`
<html>
	<head>
		<style>
		table {
			border-collapse:collapse;
		}
		table, td, th {
			border:1px solid grey;
		}
		</style>
		<title>Node {{.Addr}} : {{.Type}}</title>
	</head>
	<body>
	<code>
		<h2>Node {{.Addr}} : {{.Type}}</h2>
		{{if .Error}}
			Cannot render: {{.Error}}
		{{else}}
			{{.Text}}
		{{end}}
		<h3>Fields</h3>
		<table>
			<tr>
				<td>Field</td>
				<td>Value</td>
			</tr>
			{{range .Fields}}
			<tr>
				<td>{{.Name}}</td>
				<td>{{if .Link}}<a href="{{.Link.Href}}">{{.Link.Addr}}</a>{{else}}{{.Value}}{{end}}</td>
			</tr>
			{{end}}
		</table>
	</code>
	</body>
</html>
`))

func (s *session) nodeHandler(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddr(r.URL.Query().Get("addr"))
	if err != nil {
		http.Error(w, "could not parse addr param", http.StatusBadRequest)
		return
	}
	d, err := dumpNode(s.dec, s.r, addr)
	if err != nil {
		http.Error(w, fmt.Sprintf("could not decode node at 0x%x: %v", addr, err), http.StatusBadRequest)
		return
	}
	info := struct {
		*nodeDump
		Fields []fieldInfo
	}{d, nodeFields(d)}
	if err := nodeTemplate.Execute(w, info); err != nil {
		s.logger.Error("cannot write page", "page", "node", "error", err)
	}
}

func (s *session) varHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name param", http.StatusBadRequest)
		return
	}
	v, _, err := s.lookupVar(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "node?addr="+hex(v), http.StatusFound)
}
