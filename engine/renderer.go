package engine

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/loopbio/complexity/postprocess"
	"github.com/loopbio/complexity/sitedata"
	"github.com/loopbio/complexity/write"
)

// ModeFunc picks the render mode for a template path.
type ModeFunc func(templatePath string) RenderMode

type Renderer struct {
	logger         *slog.Logger
	writer         write.Writer
	postprocessors *postprocess.Chain
	modeFor        ModeFunc
	quiet          bool
}

func NewRenderer(logger *slog.Logger, writer write.Writer, postprocessors *postprocess.Chain, modeFor ModeFunc, quiet bool) *Renderer {
	return &Renderer{
		logger:         logger,
		writer:         writer,
		postprocessors: postprocessors,
		modeFor:        modeFor,
		quiet:          quiet,
	}
}

// RenderDir visits every regular file of ctx.TmplFS in lexical order and
// renders the ones that are pages. It stops at the first failure; files
// written before it stay on disk.
func (r *Renderer) RenderDir(ctx Context, data sitedata.Context) (int, error) {
	written := 0

	err := fs.WalkDir(ctx.TmplFS, ".", func(templatePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		regular, err := isRegularFile(ctx.TmplFS, templatePath, d)
		if err != nil || !regular {
			return err
		}

		ignored, err := ShouldIgnore(ctx.TmplFS, templatePath)
		if err != nil {
			return err
		}
		if ignored {
			r.progress("skipping ignored template", "template", templatePath)
			return nil
		}

		mode := r.modeFor(templatePath)
		r.logger.Debug("render mode", "template", templatePath, "force_unexpanded", mode.ForceUnexpanded, "expand", mode.Expand)

		ok, err := r.renderFile(ctx, templatePath, mode, data)
		if err != nil {
			return err
		}
		if ok {
			written++
		}
		return nil
	})

	return written, err
}

// renderFile renders one template and writes it to its output path. It
// reports false when the template produced no file.
func (r *Renderer) renderFile(ctx Context, templatePath string, mode RenderMode, data sitedata.Context) (bool, error) {
	// Layouts at the top of the tree are never rendered at all, even though
	// ResolveOutputPath would suppress them anyway.
	if strings.HasPrefix(templatePath, basePrefix) {
		r.logger.Debug("skipping base template", "template", templatePath)
		return false, nil
	}

	name := path.Clean(filepath.ToSlash(templatePath))
	tmpl, err := ctx.Templates.Lookup(name)
	if err != nil {
		return false, &TemplateRenderError{Path: templatePath, Message: "failed to load template", Err: err}
	}

	rendered, err := tmpl.Render(data)
	if err != nil {
		return false, &TemplateRenderError{Path: templatePath, Message: "failed to render template", Err: err}
	}

	outputPath, ok := mode.Resolve(templatePath, ctx.OutputRoot)
	if !ok {
		r.logger.Debug("template has no output", "template", templatePath)
		return false, nil
	}

	content := []byte(rendered)
	if r.postprocessors.HasProcessors() {
		processed, err := r.postprocessors.Process(outputPath, content)
		if err != nil {
			return false, &TemplateRenderError{Path: templatePath, Message: "failed to post-process output", Err: err}
		}
		content = processed
	}

	if err := r.writer.Write(outputPath, content, write.PageOptions); err != nil {
		return false, fmt.Errorf("failed to write output file %s: %w", outputPath, err)
	}

	r.progress("rendered template", "template", templatePath, "output", outputPath)
	return true, nil
}

func (r *Renderer) progress(msg string, args ...any) {
	if r.quiet {
		r.logger.Debug(msg, args...)
		return
	}
	r.logger.Info(msg, args...)
}

// isRegularFile reports whether a walked entry is a file to consider. Links
// to files count; links to directories are not followed.
func isRegularFile(fsys fs.FS, name string, d fs.DirEntry) (bool, error) {
	if d.IsDir() {
		return false, nil
	}
	if d.Type().IsRegular() {
		return true, nil
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
