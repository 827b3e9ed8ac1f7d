package engine

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTemplateRoot = errors.New("missing templates directory")
	ErrTemplateRender      = errors.New("template render failed")
)

// MissingTemplateRootError is returned before any traversal when the
// template root does not exist or is not a directory.
type MissingTemplateRootError struct {
	Path string
	Err  error
}

func (e *MissingTemplateRootError) Error() string {
	msg := fmt.Sprintf("%s: your project is missing a templates/ directory containing your HTML templates", e.Path)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MissingTemplateRootError) Is(target error) bool {
	return target == ErrMissingTemplateRoot
}

func (e *MissingTemplateRootError) Unwrap() error {
	return e.Err
}

// TemplateRenderError carries the template path that could not be located,
// parsed or executed.
type TemplateRenderError struct {
	Path    string
	Message string
	Err     error
}

func (e *TemplateRenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *TemplateRenderError) Is(target error) bool {
	return target == ErrTemplateRender
}

func (e *TemplateRenderError) Unwrap() error {
	return e.Err
}
