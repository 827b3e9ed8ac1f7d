// Package sitedata builds the context shared by every template from a
// directory of JSON and YAML files.
package sitedata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/loopbio/complexity/render"
)

// Context maps a data file's name, without extension, to its parsed
// content. It is built once per run and only read afterwards.
type Context map[string]any

// ParseError reports a malformed data file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse context file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type decodeFunc func(data []byte) (any, error)

var decoders = map[string]decodeFunc{
	".json": decodeJSON,
	".yml":  decodeYAML,
	".yaml": decodeYAML,
}

type Loader struct {
	logger *slog.Logger
	quiet  bool
}

func NewLoader(logger *slog.Logger, quiet bool) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, quiet: quiet}
}

// Load reads every .json, .yml and .yaml file directly inside dir. Other
// files and subdirectories are skipped. Entries are visited in lexical
// order, so when two files share a name the later extension wins
// (names.json < names.yaml < names.yml).
func (l *Loader) Load(dir string) (Context, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read context directory %s: %w", dir, err)
	}

	ctx := make(Context)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := filepath.Ext(name)
		decode, ok := decoders[ext]
		if !ok {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read context file %s: %w", path, err)
		}

		value, err := decode(data)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		if value == nil {
			continue
		}

		key := strings.TrimSuffix(name, ext)
		if !render.IsIdentifier(key) {
			l.logger.Warn("context key is not a valid template variable name and will not be visible to templates", "key", key, "file", name)
		}
		if _, dup := ctx[key]; dup {
			l.logger.Warn("context key defined more than once", "key", key, "file", name)
		}
		ctx[key] = value
		l.progress("parsed context file", "file", name, "key", key)
	}

	return ctx, nil
}

func (l *Loader) progress(msg string, args ...any) {
	if l.quiet {
		l.logger.Debug(msg, args...)
		return
	}
	l.logger.Info(msg, args...)
}

func decodeJSON(data []byte) (any, error) {
	return oj.Parse(data)
}

func decodeYAML(data []byte) (any, error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}
