// Command rprint renders R objects (SEXPs) in a core file or a live R process.
//
// Usage:
//
//	rprint -core core.1234 [-image /usr/lib/R/lib/libR.so] [ADDR...]
//	rprint -pid 1234 -var R_GlobalEnv
//	rprint -core core.1234 -port 8092
//
// With no addresses or variables and a terminal on stdin, rprint starts an
// interactive prompt; otherwise commands are read from stdin, one per line.
// With -port, rprint instead serves pages that browse nodes by address.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/tombergan/rcoredump/config"
	"github.com/tombergan/rcoredump/logs"
	"github.com/tombergan/rcoredump/sexp"
	"github.com/tombergan/rcoredump/target"
	"golang.org/x/term"
)

// stringsFlag is a flag that may be repeated.
type stringsFlag []string

func (f *stringsFlag) String() string     { return strings.Join(*f, ",") }
func (f *stringsFlag) Set(s string) error { *f = append(*f, s); return nil }

var (
	coreFile    = flag.String("core", "", "core file to inspect")
	pid         = flag.Int("pid", 0, "live process to inspect")
	stop        = flag.Bool("stop", false, "with -pid, stop the process while inspecting it")
	debugLevel  = flag.Int("debuglevel", 0, "debug verbosity level")
	journal     = flag.Bool("journal", false, "also log to the systemd journal")
	dump        = flag.Bool("dump", false, "print decoded nodes as YAML instead of rendering them")
	maxDepth    = flag.Int("maxdepth", 0, "maximum nesting depth to render (0 for the default)")
	maxElements = flag.Int("maxelems", 0, "maximum vector elements and list cells to render (0 for no limit)")
	serverPort  = flag.Int("port", 0, "if nonzero, serve a node browser over HTTP on this port")
	images      stringsFlag
	configFiles stringsFlag
	vars        stringsFlag
)

func init() {
	flag.Var(&images, "image", "executable or shared library to load symbols from (repeatable)")
	flag.Var(&configFiles, "config", "CUE or YAML configuration file (repeatable, earlier files take precedence)")
	flag.Var(&vars, "var", "global SEXP variable to render (repeatable)")
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: rprint (-core FILE | -pid N) [flags] [ADDR...]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if (*coreFile == "") == (*pid == 0) {
		usage()
	}

	level := new(slog.LevelVar)
	if *debugLevel > 0 {
		level.Set(slog.LevelDebug)
	}
	logger := logs.New(os.Stderr, &logs.Options{Level: level, Journal: *journal})
	if *debugLevel > 0 {
		sexp.DebugLogf = logs.DebugLogf(logger, "sexp", *debugLevel)
		target.DebugLogf = logs.DebugLogf(logger, "target", *debugLevel)
	}

	if err := run(logger); err != nil {
		logger.Error("rprint failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(configFiles...)
	if err != nil {
		return err
	}
	if *maxDepth > 0 {
		cfg.Render.MaxDepth = *maxDepth
	}
	if *maxElements > 0 {
		cfg.Render.MaxElements = *maxElements
	}
	opts := &target.OpenOptions{Images: cfg.Images, Stop: *stop}
	if len(images) > 0 {
		opts.Images = images
	}

	var t target.Target
	if *coreFile != "" {
		t, err = target.OpenCore(*coreFile, opts)
	} else {
		t, err = target.Attach(*pid, opts)
	}
	if err != nil {
		return err
	}
	defer t.Close()

	s, err := newSession(t, cfg, os.Stdout, logger)
	if err != nil {
		return err
	}

	if *serverPort != 0 {
		addr := fmt.Sprintf(":%d", *serverPort)
		logger.Info("serving node browser", "addr", addr)
		return http.ListenAndServe(addr, s.viewHandler())
	}

	if len(vars) > 0 || flag.NArg() > 0 {
		failed := false
		for _, name := range vars {
			if err := s.printVar(name); err != nil {
				logger.Error("cannot print variable", "var", name, "error", err)
				failed = true
			}
		}
		for _, arg := range flag.Args() {
			addr, err := parseAddr(arg)
			if err == nil {
				if *dump {
					err = s.dump(addr)
				} else {
					err = s.render(addr)
				}
			}
			if err != nil {
				logger.Error("cannot print address", "addr", arg, "error", err)
				failed = true
			}
		}
		if failed {
			return errors.New("some values could not be printed")
		}
		return nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return s.repl()
	}
	return s.script(os.Stdin)
}

// script runs the commands read from r, one per line.
func (s *session) script(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		quit, err := s.exec(sc.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			break
		}
	}
	return sc.Err()
}
