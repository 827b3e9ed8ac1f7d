package engine

import (
	"path"
	"path/filepath"
	"strings"
)

const (
	// basePrefix marks layout templates that are only ever included by other
	// templates and never emitted on their own.
	basePrefix = "base"
	indexFile  = "index.html"
)

// RenderMode controls where a single template lands in the output tree.
type RenderMode struct {
	// ForceUnexpanded keeps the template at its mirrored path even when
	// expansion is enabled.
	ForceUnexpanded bool
	// Expand turns page.html into page/index.html.
	Expand bool
}

// Resolve is shorthand for ResolveOutputPath with the mode's flags.
func (m RenderMode) Resolve(templatePath, outputRoot string) (string, bool) {
	return ResolveOutputPath(templatePath, outputRoot, m.ForceUnexpanded, m.Expand)
}

// ResolveOutputPath maps a template path, relative to the template root, to
// the file it renders into under outputRoot. It reports false when the
// template has no output of its own.
//
//	ResolveOutputPath("404.html", "www", true, true)       // www/404.html
//	ResolveOutputPath("index.html", "www", false, true)    // www/index.html
//	ResolveOutputPath("art/page.html", "www", false, true) // www/art/page/index.html
//	ResolveOutputPath("base.html", "www", true, false)     // "", false
func ResolveOutputPath(templatePath, outputRoot string, forceUnexpanded, expand bool) (string, bool) {
	templatePath = path.Clean(filepath.ToSlash(templatePath))
	dir, base := path.Split(templatePath)

	if strings.HasPrefix(base, basePrefix) {
		return "", false
	}

	if forceUnexpanded || base == indexFile || !expand {
		return filepath.Join(outputRoot, filepath.FromSlash(templatePath)), true
	}

	stem, _, _ := strings.Cut(base, ".")
	return filepath.Join(outputRoot, filepath.FromSlash(dir), stem, indexFile), true
}
