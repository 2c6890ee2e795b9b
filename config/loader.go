package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// ErrValueNotFound is returned by AssignFirst when no file defines a path.
var ErrValueNotFound = errors.New("value not found")

// Loader reads configuration files and looks up values in them. Files
// earlier in the list take precedence over later ones.
type Loader struct {
	getRoots func() ([]rootInfo, error)
}

// NewLoader returns a Loader for the CUE (or YAML, by extension) files at
// filePaths, each validated against the closed schema schemaSrc. Files are
// read on first use.
func NewLoader(filePaths []string, schemaSrc string) Loader {
	return Loader{

		getRoots: sync.OnceValues(func() (ret []rootInfo, err error) {

			var schema cue.Value
			if schemaSrc != "" {
				ctx := cuecontext.New()
				schema = ctx.CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, err
				}
			}

			for _, filePath := range filePaths {
				content, err := os.ReadFile(filePath)
				if err != nil {
					return nil, err
				}

				ctx := cuecontext.New()
				var value cue.Value
				switch filepath.Ext(filePath) {
				case ".yaml", ".yml":
					var m map[string]any
					if err := yaml.Unmarshal(content, &m); err != nil {
						return nil, &FileError{Path: filePath, Err: err}
					}
					value = ctx.Encode(m)
				default:
					value = ctx.CompileBytes(
						content,
						cue.Filename(filePath),
					)
				}
				if err = value.Err(); err != nil {
					return nil, &FileError{Path: filePath, Err: err}
				}

				if schema.Exists() {
					if err := schema.Unify(value).Validate(); err != nil {
						return nil, &FileError{Path: filePath, Err: err}
					}
				}

				ret = append(ret, rootInfo{
					value: value,
					path:  filePath,
				})
			}

			return
		}),
	}
}

type rootInfo struct {
	value cue.Value
	path  string
}

// FileError reports a configuration file that cannot be used.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *FileError) Unwrap() error { return e.Err }

// AssignFirst decodes the value at path from the first file that defines it
// into target.
func (l Loader) AssignFirst(path string, target any) error {
	roots, err := l.getRoots()
	if err != nil {
		return err
	}

	cuePath := cue.ParsePath(path)
	for _, info := range roots {
		value := info.value.LookupPath(cuePath)
		if err := value.Err(); err == nil && value.Exists() {
			if err := value.Decode(target); err != nil {
				return &FileError{Path: info.path, Err: err}
			}
			return nil
		}
	}

	return ErrValueNotFound
}
