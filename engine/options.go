package engine

import (
	"log/slog"
	"path"
	"path/filepath"

	"github.com/loopbio/complexity/write"
)

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithOutputRoot(root string) Option {
	return func(e *Engine) {
		e.outputRoot = root
	}
}

// WithSearchPaths adds macro and include directories searched after the
// template root.
func WithSearchPaths(dirs ...string) Option {
	return func(e *Engine) {
		e.searchPaths = append(e.searchPaths, dirs...)
	}
}

// WithUnexpanded lists template paths that keep their mirrored location even
// when expansion is on, such as 404.html.
func WithUnexpanded(templatePaths ...string) Option {
	return func(e *Engine) {
		for _, p := range templatePaths {
			e.unexpanded[path.Clean(filepath.ToSlash(p))] = struct{}{}
		}
	}
}

func WithExpand(expand bool) Option {
	return func(e *Engine) {
		e.expand = expand
	}
}

func WithMinify(minify bool) Option {
	return func(e *Engine) {
		e.minify = minify
	}
}

// WithQuiet demotes per-file progress lines to debug level.
func WithQuiet(quiet bool) Option {
	return func(e *Engine) {
		e.quiet = quiet
	}
}

func WithWriter(writer write.Writer) Option {
	return func(e *Engine) {
		e.writer = writer
	}
}
