// Package site builds a whole project: context data, pages and static
// assets, in that order.
package site

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loopbio/complexity/assets"
	"github.com/loopbio/complexity/config"
	"github.com/loopbio/complexity/engine"
	"github.com/loopbio/complexity/sitedata"
	"github.com/loopbio/complexity/write"
)

// ErrUnsafeClean is returned when cleaning would remove the project itself.
var ErrUnsafeClean = errors.New("refusing to remove output directory")

type Options struct {
	Logger *slog.Logger
	Quiet  bool
	// Clean removes the output directory before building.
	Clean bool
	// DryRun renders every page without writing and skips assets.
	DryRun bool
}

type Result struct {
	RunID    string
	Output   string
	Pages    int
	Changes  []write.Change
	Duration time.Duration
}

// Build renders the project in projectDir as described by project.
func Build(projectDir string, project config.Project, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := project.Resolve(projectDir)
	if err != nil {
		return Result{}, err
	}

	result := Result{RunID: uuid.NewString(), Output: paths.Output}
	logger = logger.With("run_id", result.RunID)
	start := time.Now()

	logger.Info("building site", "project", paths.Project, "output", paths.Output, "dry_run", opts.DryRun)

	if opts.Clean && !opts.DryRun {
		if err := cleanOutput(paths, logger); err != nil {
			return result, err
		}
	}

	data := sitedata.Context{}
	if isDir(paths.Context) {
		data, err = sitedata.NewLoader(logger, opts.Quiet).Load(paths.Context)
		if err != nil {
			return result, err
		}
	} else {
		logger.Debug("no context directory", "path", paths.Context)
	}

	var writer write.Writer = write.NewBaseWriter()
	dryRun := write.NewDryRunWriter()
	if opts.DryRun {
		writer = dryRun
	} else if err := os.MkdirAll(paths.Output, 0o755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	eng := engine.New(
		engine.WithLogger(logger),
		engine.WithOutputRoot(paths.Output),
		engine.WithSearchPaths(paths.Macros...),
		engine.WithUnexpanded(project.UnexpandedList()...),
		engine.WithExpand(project.Expand),
		engine.WithMinify(project.Minify),
		engine.WithQuiet(opts.Quiet),
		engine.WithWriter(writer),
	)

	result.Pages, err = eng.RenderDir(paths.Templates, data)
	if err != nil {
		return result, err
	}

	if opts.DryRun {
		result.Changes = dryRun.Changes()
	} else if isDir(paths.Assets) {
		if err := assets.NewCopier(logger, writer, opts.Quiet).Copy(paths.Assets, paths.Output); err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(start)
	logger.Info("site built", "pages", result.Pages, "duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// cleanOutput removes the output directory. It will not remove the
// project directory or anything containing it.
func cleanOutput(paths config.Paths, logger *slog.Logger) error {
	rel, err := filepath.Rel(paths.Output, paths.Project)
	if err != nil {
		return fmt.Errorf("failed to compare %s with %s: %w", paths.Output, paths.Project, err)
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return fmt.Errorf("%w %s: it contains the project", ErrUnsafeClean, paths.Output)
	}

	logger.Info("removing output directory", "path", paths.Output)
	if err := os.RemoveAll(paths.Output); err != nil {
		return fmt.Errorf("failed to remove output directory: %w", err)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
