package site

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopbio/complexity/assets"
	"github.com/loopbio/complexity/config"
	"github.com/loopbio/complexity/engine"
	"github.com/loopbio/complexity/sitedata"
	"github.com/loopbio/complexity/write"
)

func discardOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

// newProject lays out a project in <tmp>/project with the default
// ../www output directory.
func newProject(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	projectDir := filepath.Join(root, "project")
	writeFiles(t, projectDir, map[string]string{
		"complexity.yml":         "unexpanded_templates: [404.html]\n",
		"templates/base.html":    "<html>{% block body %}{% endblock %}</html>",
		"templates/index.html":   `{% extends "base.html" %}{% block body %}{% for n in names.people %}<p>{{ n }}</p>{% endfor %}{% endblock %}`,
		"templates/about.html":   `{% extends "base.html" %}{% block body %}{{ site.title }}{% endblock %}`,
		"templates/404.html":     "missing",
		"context/names.json":     `{"people": ["Audrey", "Danny"]}`,
		"context/site.yml":       "title: Complexity\n",
		"assets/css/style.css":   "body {}",
		"assets/scss/style.scss": "$x: 1;",
		"assets/robots.txt":      "User-agent: *",
	})
	return projectDir, filepath.Join(root, "www")
}

func TestBuild(t *testing.T) {
	projectDir, output := newProject(t)

	project, err := config.ReadProject(projectDir)
	require.NoError(t, err)

	result, err := Build(projectDir, project, discardOptions())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, output, result.Output)
	assert.Equal(t, 3, result.Pages)
	assert.Empty(t, result.Changes)

	assert.Equal(t, "<html><p>Audrey</p><p>Danny</p></html>", readFile(t, filepath.Join(output, "index.html")))
	assert.Equal(t, "<html>Complexity</html>", readFile(t, filepath.Join(output, "about", "index.html")))
	assert.Equal(t, "missing", readFile(t, filepath.Join(output, "404.html")))
	assert.Equal(t, "body {}", readFile(t, filepath.Join(output, "css", "style.css")))
	assert.Equal(t, "User-agent: *", readFile(t, filepath.Join(output, "robots.txt")))

	assert.NoFileExists(t, filepath.Join(output, "base.html"))
	assert.NoDirExists(t, filepath.Join(output, "scss"))
}

func TestBuild_RerunNeedsClean(t *testing.T) {
	projectDir, output := newProject(t)
	project, err := config.ReadProject(projectDir)
	require.NoError(t, err)

	_, err = Build(projectDir, project, discardOptions())
	require.NoError(t, err)
	before := readFile(t, filepath.Join(output, "index.html"))

	// Asset directories are never merged into an existing copy.
	_, err = Build(projectDir, project, discardOptions())
	require.ErrorIs(t, err, assets.ErrDestinationExists)

	opts := discardOptions()
	opts.Clean = true
	_, err = Build(projectDir, project, opts)
	require.NoError(t, err)
	assert.Equal(t, before, readFile(t, filepath.Join(output, "index.html")))
}

func TestBuild_CleanRemovesStaleFiles(t *testing.T) {
	projectDir, output := newProject(t)
	writeFiles(t, output, map[string]string{"stale.html": "old"})

	project, err := config.ReadProject(projectDir)
	require.NoError(t, err)

	opts := discardOptions()
	opts.Clean = true
	_, err = Build(projectDir, project, opts)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(output, "stale.html"))
	assert.FileExists(t, filepath.Join(output, "index.html"))
}

func TestBuild_RefusesToCleanProject(t *testing.T) {
	projectDir, _ := newProject(t)

	for _, out := range []string{".", ".."} {
		project := config.Default()
		project.OutputDir = out

		opts := discardOptions()
		opts.Clean = true
		_, err := Build(projectDir, project, opts)
		assert.ErrorIs(t, err, ErrUnsafeClean, "output_dir %q", out)
	}
	assert.DirExists(t, filepath.Join(projectDir, "templates"))
}

func TestBuild_DryRun(t *testing.T) {
	projectDir, output := newProject(t)
	project, err := config.ReadProject(projectDir)
	require.NoError(t, err)
	project.Expand = false

	opts := discardOptions()
	opts.DryRun = true
	result, err := Build(projectDir, project, opts)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Pages)
	require.Len(t, result.Changes, 3)
	assert.Equal(t, filepath.Join(output, "404.html"), result.Changes[0].Path)
	assert.Equal(t, filepath.Join(output, "about.html"), result.Changes[1].Path)
	assert.Equal(t, write.ActionCreate, result.Changes[2].Action)
	assert.NoDirExists(t, output)
}

func TestBuild_WithoutContextOrAssets(t *testing.T) {
	projectDir := filepath.Join(t.TempDir(), "project")
	writeFiles(t, projectDir, map[string]string{
		"templates/index.html": "{{ missing }}ok",
	})

	project := config.Default()
	project.OutputDir = "www"
	project.Minify = true

	result, err := Build(projectDir, project, discardOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, "ok", readFile(t, filepath.Join(projectDir, "www", "index.html")))
}

func TestBuild_Errors(t *testing.T) {
	t.Run("missing templates", func(t *testing.T) {
		projectDir := t.TempDir()
		_, err := Build(projectDir, config.Default(), discardOptions())
		assert.ErrorIs(t, err, engine.ErrMissingTemplateRoot)
	})

	t.Run("bad context file", func(t *testing.T) {
		projectDir, _ := newProject(t)
		writeFiles(t, projectDir, map[string]string{"context/broken.json": "{"})

		_, err := Build(projectDir, config.Default(), discardOptions())
		var parseErr *sitedata.ParseError
		require.True(t, errors.As(err, &parseErr), "got %v", err)
		assert.Equal(t, filepath.Join(projectDir, "context", "broken.json"), parseErr.Path)
	})
}

func TestBuild_ExampleProject(t *testing.T) {
	projectDir := filepath.Join("..", "examples", "gallery")
	project, err := config.ReadProject(projectDir)
	require.NoError(t, err)

	output := t.TempDir()
	project.OutputDir = output
	project.Minify = true

	result, err := Build(projectDir, project, discardOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Pages)

	for _, rel := range []string{
		"index.html",
		"about/index.html",
		"404.html",
		"art/index.html",
		"art/cave-painting/index.html",
		"css/style.css",
		"robots.txt",
	} {
		assert.FileExists(t, filepath.Join(output, filepath.FromSlash(rel)))
	}
	assert.NoDirExists(t, filepath.Join(output, "scss"))

	index := readFile(t, filepath.Join(output, "index.html"))
	assert.Contains(t, index, `<nav><a href="/">Home</a><a href="/art/">Art</a><a href="/about/">About</a></nav>`)
	assert.Contains(t, index, "<em>small</em>")
	assert.Contains(t, index, `<a href="/art/starry-night/">Starry Night</a>`)
	assert.Contains(t, readFile(t, filepath.Join(output, "about", "index.html")), "built from 2 pieces")
}

func TestBuild_ContextFileWithNonIdentifierName(t *testing.T) {
	projectDir, output := newProject(t)
	writeFiles(t, projectDir, map[string]string{
		"context/my-data.json":    `[1, 2, 3]`,
		"context/site.config.yml": "theme: dark\n",
	})

	project, err := config.ReadProject(projectDir)
	require.NoError(t, err)

	result, err := Build(projectDir, project, discardOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, "<html><p>Audrey</p><p>Danny</p></html>", readFile(t, filepath.Join(output, "index.html")))
}
