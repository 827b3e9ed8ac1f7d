// Package postprocess applies transformations to rendered pages after
// template execution and before they are written to disk, such as collapsing
// inter-tag whitespace.
//
// Example usage:
//
//	import (
//		"github.com/loopbio/complexity/engine"
//		"github.com/loopbio/complexity/processors"
//	)
//
//	eng := engine.New(engine.WithMinify(true))
//	eng.AddPostProcessor(myCustomProcessor)
package postprocess

import "fmt"

// Processor transforms the content of one rendered page. outputPath is the
// file the content is about to be written to; processors that only handle
// some file types return content unchanged for the others.
type Processor interface {
	ProcessContent(outputPath string, content []byte) ([]byte, error)
}

// ProcessorFunc lets a plain function act as a Processor.
type ProcessorFunc func(outputPath string, content []byte) ([]byte, error)

func (f ProcessorFunc) ProcessContent(outputPath string, content []byte) ([]byte, error) {
	return f(outputPath, content)
}

// Chain runs processors in the order they were added. The zero value is an
// empty chain.
type Chain struct {
	processors []Processor
}

func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

func (c *Chain) Add(processor Processor) {
	c.processors = append(c.processors, processor)
}

func (c *Chain) AddFunc(fn func(outputPath string, content []byte) ([]byte, error)) {
	c.Add(ProcessorFunc(fn))
}

// Process feeds content through every processor. The first failure stops
// the chain.
func (c *Chain) Process(outputPath string, content []byte) ([]byte, error) {
	for i, processor := range c.processors {
		processed, err := processor.ProcessContent(outputPath, content)
		if err != nil {
			return nil, fmt.Errorf("post-processor %d failed for %s: %w", i, outputPath, err)
		}
		content = processed
	}
	return content, nil
}

func (c *Chain) HasProcessors() bool {
	return len(c.processors) > 0
}

func (c *Chain) Len() int {
	return len(c.processors)
}
