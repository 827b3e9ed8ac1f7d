// Package processors provides built-in post-processors for rendered pages.
package processors

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var interTagSpace = regexp.MustCompile(`>\s+<`)

// MinifyHTML removes whitespace runs that sit directly between a closing '>'
// and the next '<'. Whitespace inside text nodes is kept.
//
//	MinifyHTML("<a>  \n <b>text  more</b>  </a>") // "<a><b>text  more</b></a>"
func MinifyHTML(html string) string {
	return interTagSpace.ReplaceAllString(html, "><")
}

// HTMLMinifier is a post-processor applying MinifyHTML.
//
// Example usage:
//
//	eng := engine.New()
//	eng.AddPostProcessor(processors.NewHTMLMinifier())
type HTMLMinifier struct {
	// Extensions limits the processor to output files with these extensions.
	// Empty means every rendered file.
	Extensions []string
}

// NewHTMLMinifier creates a minifier that applies to every rendered file.
func NewHTMLMinifier() *HTMLMinifier {
	return &HTMLMinifier{}
}

// ProcessContent implements the postprocess.Processor interface.
func (m *HTMLMinifier) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if !m.applies(filePath) {
		return content, nil
	}
	return interTagSpace.ReplaceAll(content, []byte("><")), nil
}

func (m *HTMLMinifier) applies(filePath string) bool {
	if len(m.Extensions) == 0 {
		return true
	}
	return slices.Contains(m.Extensions, strings.ToLower(filepath.Ext(filePath)))
}
