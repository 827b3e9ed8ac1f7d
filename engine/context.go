package engine

import (
	"io/fs"

	"github.com/loopbio/complexity/render"
)

// Context is what one pass over a template tree reads from and writes to.
type Context struct {
	// TmplFS is rooted at the template root; every regular file in it is a
	// candidate page.
	TmplFS fs.FS
	// Templates resolves the same tree, plus any include directories, by
	// slash-separated name.
	Templates  render.Loader
	OutputRoot string
}

func NewContext(tmplFS fs.FS, templates render.Loader, outputRoot string) Context {
	return Context{
		TmplFS:     tmplFS,
		Templates:  templates,
		OutputRoot: outputRoot,
	}
}
