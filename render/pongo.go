package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/flosch/pongo2/v6"
)

// PongoLoader looks templates up with pongo2, a Django/Jinja2 style engine.
type PongoLoader struct {
	set    *pongo2.TemplateSet
	search *searchPath
}

// NewPongoLoader creates a loader over dirs. Directories that do not exist
// are skipped; at least one must exist.
func NewPongoLoader(dirs ...string) (*PongoLoader, error) {
	registerFilters()

	search := &searchPath{}
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		search.dirs = append(search.dirs, dir)
		search.fsys = append(search.fsys, os.DirFS(dir))
	}
	if len(search.dirs) == 0 {
		return nil, errors.New("no template directory to load from")
	}

	return &PongoLoader{
		set:    pongo2.NewSet("complexity", search),
		search: search,
	}, nil
}

// Dirs returns the directories actually searched, in lookup order.
func (l *PongoLoader) Dirs() []string {
	return l.search.dirs
}

// Lookup parses the named template, or returns the copy parsed earlier by
// this loader.
func (l *PongoLoader) Lookup(name string) (Template, error) {
	tpl, err := l.set.FromCache(name)
	if err != nil {
		return nil, err
	}
	return pongoTemplate{tpl: tpl}, nil
}

type pongoTemplate struct {
	tpl *pongo2.Template
}

// Render executes the template. pongo2 refuses a context with any key that
// is not an identifier, so such keys are left out.
func (t pongoTemplate) Render(data map[string]any) (string, error) {
	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		if IsIdentifier(key) {
			ctx[key] = value
		}
	}
	return t.tpl.Execute(ctx)
}

// searchPath is a pongo2.TemplateLoader resolving slash-separated names
// against an ordered list of directories. Names in extends, include and
// import tags are relative to the search path, not to the including
// template, so the template root shadows the directories after it.
type searchPath struct {
	dirs []string
	fsys []fs.FS
}

func (s *searchPath) Abs(_, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return path.Clean(filepath.ToSlash(name))
}

func (s *searchPath) Get(name string) (io.Reader, error) {
	if filepath.IsAbs(name) {
		content, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(content), nil
	}
	for _, fsys := range s.fsys {
		content, err := fs.ReadFile(fsys, name)
		if err == nil {
			return bytes.NewReader(content), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("template %q not found in %v: %w", name, s.dirs, fs.ErrNotExist)
}
