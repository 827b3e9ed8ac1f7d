// Package write puts rendered pages and copied assets on disk.
package write

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

type Writer interface {
	Write(path string, content []byte, options WriteOptions) error
}

type WriteOptions struct {
	// CreateDirs creates missing parent directories.
	CreateDirs bool
	// Overwrite replaces an existing file instead of failing.
	Overwrite bool
	// Atomic writes through a temporary file and renames it into place, so
	// readers never observe a half-written page.
	Atomic bool
}

// Pages are always overwritten and get their directories created on demand.
var PageOptions = WriteOptions{CreateDirs: true, Overwrite: true, Atomic: true}

type BaseWriter struct{}

func NewBaseWriter() *BaseWriter {
	return &BaseWriter{}
}

func (bw *BaseWriter) Write(path string, content []byte, options WriteOptions) error {
	if options.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}
	}

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists && !options.Overwrite {
		return fmt.Errorf("file already exists and overwrite is false: %s", path)
	}

	if !options.Atomic {
		return os.WriteFile(path, content, 0o644)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return err
	}
	// atomic keeps the mode of a file it replaces but creates new ones 0600.
	if !exists {
		return os.Chmod(path, 0o644)
	}
	return nil
}
