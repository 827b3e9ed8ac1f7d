// Package assets mirrors a project's static files into the output tree.
package assets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/loopbio/complexity/write"
)

// ErrDestinationExists is matched by DestinationExistsError.
var ErrDestinationExists = errors.New("destination already exists")

// DestinationExistsError is returned when an asset directory would be
// copied over an existing path. Directories are never merged.
type DestinationExistsError struct {
	Source      string
	Destination string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("cannot copy %s: %s already exists", e.Source, e.Destination)
}

func (e *DestinationExistsError) Is(target error) bool {
	return target == ErrDestinationExists
}

// SourceDirs are stylesheet sources compiled by other tools; they are not
// published.
var SourceDirs = []string{"scss", "less"}

type Copier struct {
	logger *slog.Logger
	writer write.Writer
	quiet  bool
}

func NewCopier(logger *slog.Logger, writer write.Writer, quiet bool) *Copier {
	if logger == nil {
		logger = slog.Default()
	}
	if writer == nil {
		writer = write.NewBaseWriter()
	}
	return &Copier{logger: logger, writer: writer, quiet: quiet}
}

// Copy mirrors the direct entries of assetsDir into outputDir. Directories
// other than SourceDirs are copied recursively and fail with
// DestinationExistsError if the target exists. Regular files are copied
// over whatever is already there. Anything else is skipped.
func (c *Copier) Copy(assetsDir, outputDir string) error {
	entries, err := os.ReadDir(assetsDir)
	if err != nil {
		return fmt.Errorf("failed to read assets directory %s: %w", assetsDir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		src := filepath.Join(assetsDir, name)
		dst := filepath.Join(outputDir, name)

		// Stat follows symlinks, so a link to a directory is copied as one.
		info, err := os.Stat(src)
		if err != nil {
			return fmt.Errorf("failed to stat asset %s: %w", src, err)
		}

		switch {
		case info.IsDir():
			if slices.Contains(SourceDirs, name) {
				c.logger.Debug("skipping stylesheet sources", "dir", name)
				continue
			}
			c.progress("copying directory", "dir", name, "to", dst)
			if err := c.copyDir(src, dst); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			c.progress("copying file", "file", name, "to", dst, "size", humanize.Bytes(uint64(info.Size())))
			if err := c.copyFile(src, dst); err != nil {
				return err
			}
		default:
			c.logger.Debug("skipping asset", "path", src, "mode", info.Mode().String())
		}
	}

	return nil
}

func (c *Copier) copyDir(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &DestinationExistsError{Source: src, Destination: dst}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", dst, err)
	}

	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return fmt.Errorf("failed to copy directory %s: %w", src, err)
	}
	return nil
}

func (c *Copier) copyFile(src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read asset %s: %w", src, err)
	}
	if err := c.writer.Write(dst, content, write.PageOptions); err != nil {
		return fmt.Errorf("failed to copy asset %s: %w", src, err)
	}
	return nil
}

func (c *Copier) progress(msg string, args ...any) {
	if c.quiet {
		c.logger.Debug(msg, args...)
		return
	}
	c.logger.Info(msg, args...)
}
