// Package logs builds the structured logger used by the rprint command.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options configures New.
type Options struct {
	// Level is the minimum level logged. Defaults to slog.LevelInfo.
	Level slog.Leveler

	// Journal also sends records to the systemd journal. Records always go
	// to the journal, and only there, when running as a systemd service.
	Journal bool
}

// New returns a logger writing text records to w and, when enabled, to the
// systemd journal. opts may be nil.
func New(w io.Writer, opts *Options) *slog.Logger {
	if opts == nil {
		opts = &Options{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	var handlers []slog.Handler

	service := isSystemdService()

	// local
	var terminalHandler slog.Handler
	if !service {
		terminalHandler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		})
		handlers = append(handlers, terminalHandler)
	}

	// systemd journal
	if opts.Journal || service {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if terminalHandler != nil {
				record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
				record.Add("error", err)
				_ = terminalHandler.Handle(context.Background(), record)
			}
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// toJournalKey maps an attribute key to a valid journal field name.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}

// isSystemdService reports whether the process runs in the cgroup of a
// systemd service.
func isSystemdService() bool {
	cgroupPath, err := getCgroupPath()
	return err == nil && strings.HasSuffix(path.Dir(cgroupPath), ".service")
}

func getCgroupPath() (string, error) {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) >= 3 {
		return parts[2], nil
	}
	return "", nil
}

// DebugLogf returns a function suitable for the DebugLogf hooks of the sexp
// and target packages. Messages up to maxVerbosity are logged at debug level
// to logger; more verbose messages are dropped.
func DebugLogf(logger *slog.Logger, pkg string, maxVerbosity int) func(verbosityLevel int, format string, args ...interface{}) {
	return func(verbosityLevel int, format string, args ...interface{}) {
		if verbosityLevel > maxVerbosity {
			return
		}
		logger.Debug(fmt.Sprintf(format, args...), "pkg", pkg, "verbosity", verbosityLevel)
	}
}
