// Package engine renders a tree of page templates into a tree of output
// files, reshaping page.html into page/index.html along the way.
package engine

import (
	"log/slog"
	"os"

	"github.com/loopbio/complexity/postprocess"
	"github.com/loopbio/complexity/processors"
	"github.com/loopbio/complexity/render"
	"github.com/loopbio/complexity/sitedata"
	"github.com/loopbio/complexity/write"
)

type Engine struct {
	logger         *slog.Logger
	outputRoot     string
	searchPaths    []string
	unexpanded     map[string]struct{}
	expand         bool
	minify         bool
	quiet          bool
	writer         write.Writer
	renderer       *Renderer
	postprocessors *postprocess.Chain
}

func New(opts ...Option) *Engine {
	e := &Engine{
		logger:         slog.Default(),
		outputRoot:     "./www",
		unexpanded:     make(map[string]struct{}),
		expand:         true,
		writer:         write.NewBaseWriter(),
		postprocessors: postprocess.NewChain(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.minify {
		e.AddPostProcessor(processors.NewHTMLMinifier())
	}

	e.renderer = NewRenderer(e.logger, e.writer, e.postprocessors, e.modeFor, e.quiet)

	return e
}

// RenderDir renders every page under templateDir into the output root and
// returns how many files were written. Templates are looked up in
// templateDir first, then in the search paths.
func (e *Engine) RenderDir(templateDir string, data sitedata.Context) (int, error) {
	e.logger.Debug("templates dir", "path", templateDir)

	info, err := os.Stat(templateDir)
	if err != nil {
		return 0, &MissingTemplateRootError{Path: templateDir, Err: err}
	}
	if !info.IsDir() {
		return 0, &MissingTemplateRootError{Path: templateDir}
	}

	dirs := append([]string{templateDir}, e.searchPaths...)
	loader, err := render.NewPongoLoader(dirs...)
	if err != nil {
		return 0, err
	}

	return e.Render(NewContext(os.DirFS(templateDir), loader, e.outputRoot), data)
}

// Render walks ctx.TmplFS and renders each page through ctx.Templates.
func (e *Engine) Render(ctx Context, data sitedata.Context) (int, error) {
	return e.renderer.RenderDir(ctx, data)
}

// AddPostProcessor appends a processor applied to every page before it is
// written. Processors run in the order they are added.
func (e *Engine) AddPostProcessor(processor postprocess.Processor) {
	e.postprocessors.Add(processor)
}

func (e *Engine) AddPostProcessorFunc(fn func(outputPath string, content []byte) ([]byte, error)) {
	e.postprocessors.AddFunc(fn)
}

func (e *Engine) modeFor(templatePath string) RenderMode {
	_, force := e.unexpanded[templatePath]
	return RenderMode{ForceUnexpanded: force, Expand: e.expand}
}
