package render

import (
	"bytes"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	filtersOnce sync.Once
	markdown    = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// Filters available to every template in addition to the pongo2 builtins.
var filters = map[string]pongo2.FilterFunction{
	"markdown": filterMarkdown,
	"kebab":    stringFilter(toKebabCase),
	"snake":    stringFilter(toSnakeCase),
	"humanize": stringFilter(humanize),
}

// pongo2 keeps filters in a package-level registry, so they are installed
// once per process.
func registerFilters() {
	filtersOnce.Do(func() {
		for name, fn := range filters {
			if pongo2.FilterExists(name) {
				_ = pongo2.ReplaceFilter(name, fn)
				continue
			}
			_ = pongo2.RegisterFilter(name, fn)
		}
	})
}

func filterMarkdown(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(in.String()), &buf); err != nil {
		return nil, &pongo2.Error{Sender: "filter:markdown", OrigError: err}
	}
	return pongo2.AsSafeValue(buf.String()), nil
}

func stringFilter(fn func(string) string) pongo2.FilterFunction {
	return func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(fn(in.String())), nil
	}
}
