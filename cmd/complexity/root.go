package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loopbio/complexity/config"
	"github.com/loopbio/complexity/site"
	"github.com/loopbio/complexity/watch"
	"github.com/loopbio/complexity/write"
)

var (
	quiet     bool
	verbose   bool
	clean     bool
	minify    bool
	noExpand  bool
	dryRun    bool
	watchMode bool
)

func init() {
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.Flags().BoolVar(&clean, "clean", false, "Remove the output directory before building")
	rootCmd.Flags().BoolVar(&minify, "minify", false, "Strip whitespace between HTML tags")
	rootCmd.Flags().BoolVar(&noExpand, "no-expand", false, "Keep page.html as page.html instead of page/index.html")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Render pages and list the files that would be written")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Rebuild the site whenever its sources change")
}

var rootCmd = &cobra.Command{
	Use:           "complexity [project_dir]",
	Short:         "Build a static site from a directory of templates",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir := "."
		if len(args) == 1 {
			projectDir = args[0]
		}

		logger := newLogger()
		slog.SetDefault(logger)

		if dryRun && watchMode {
			return fmt.Errorf("--dry-run and --watch cannot be combined")
		}

		if !watchMode {
			return build(cmd, projectDir, logger, clean)
		}
		return runWatch(cmd, projectDir, logger)
	},
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadProject reads complexity.yml and applies command line overrides.
func loadProject(cmd *cobra.Command, projectDir string) (config.Project, error) {
	project, err := config.ReadProject(projectDir)
	if err != nil {
		return config.Project{}, err
	}
	if cmd.Flags().Changed("minify") {
		project.Minify = minify
	}
	if noExpand {
		project.Expand = false
	}
	return project, nil
}

func build(cmd *cobra.Command, projectDir string, logger *slog.Logger, cleanFirst bool) error {
	project, err := loadProject(cmd, projectDir)
	if err != nil {
		return err
	}

	result, err := site.Build(projectDir, project, site.Options{
		Logger: logger,
		Quiet:  quiet,
		Clean:  cleanFirst,
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	if dryRun {
		printChanges(cmd, result.Changes)
	}
	return nil
}

func printChanges(cmd *cobra.Command, changes []write.Change) {
	out := cmd.OutOrStdout()
	for _, change := range changes {
		fmt.Fprintf(out, "%-9s %s\n", change.Action, change.Path)
	}
}

func runWatch(cmd *cobra.Command, projectDir string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project, err := loadProject(cmd, projectDir)
	if err != nil {
		return err
	}
	paths, err := project.Resolve(projectDir)
	if err != nil {
		return err
	}

	// Asset directories are never merged into an existing copy, so every
	// rebuild after the first starts from an empty output directory.
	first := true
	w, err := watch.New(func(context.Context) error {
		err := build(cmd, projectDir, logger, clean || !first)
		first = false
		return err
	}, watch.WithLogger(logger), watch.WithIgnore(paths.Output))
	if err != nil {
		return err
	}

	for _, dir := range append([]string{paths.Templates, paths.Context, paths.Assets}, paths.Macros...) {
		if err := w.AddTree(dir); err != nil {
			return err
		}
	}
	if err := w.AddFile(filepath.Join(paths.Project, config.FileName)); err != nil {
		return err
	}

	if err := w.Rebuild(ctx); err != nil {
		logger.Error("initial build failed", "error", err)
	}
	return w.Run(ctx)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
