package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func renderNamed(t *testing.T, loader Loader, name string, data map[string]any) string {
	t.Helper()
	tmpl, err := loader.Lookup(name)
	require.NoError(t, err)
	out, err := tmpl.Render(data)
	require.NoError(t, err)
	return out
}

func TestPongoLoader_ExtendsAndContext(t *testing.T) {
	root := t.TempDir()
	writeTemplates(t, root, map[string]string{
		"base.html":      "<title>{% block title %}{% endblock %}</title>{% block content %}{% endblock %}",
		"art/index.html": `{% extends "base.html" %}{% block title %}Art{% endblock %}{% block content %}{% for n in names %}<li>{{ n }}</li>{% endfor %}{% endblock %}`,
	})

	loader, err := NewPongoLoader(root)
	require.NoError(t, err)

	out := renderNamed(t, loader, "art/index.html", map[string]any{"names": []any{"Audrey", "Danny"}})
	assert.Equal(t, "<title>Art</title><li>Audrey</li><li>Danny</li>", out)
}

func TestPongoLoader_SearchPathOrder(t *testing.T) {
	root := t.TempDir()
	macros := t.TempDir()
	writeTemplates(t, root, map[string]string{
		"page.html":   `{% include "nav.html" %}|{% include "footer.html" %}`,
		"footer.html": "root footer",
	})
	writeTemplates(t, macros, map[string]string{
		"nav.html":    "macro nav",
		"footer.html": "macro footer",
	})

	loader, err := NewPongoLoader(root, filepath.Join(t.TempDir(), "missing"), macros)
	require.NoError(t, err)
	assert.Equal(t, []string{root, macros}, loader.Dirs())

	out := renderNamed(t, loader, "page.html", map[string]any{})
	assert.Equal(t, "macro nav|root footer", out)
}

func TestPongoLoader_Errors(t *testing.T) {
	_, err := NewPongoLoader(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	root := t.TempDir()
	writeTemplates(t, root, map[string]string{
		"broken.html": "{% if %}",
	})
	loader, err := NewPongoLoader(root)
	require.NoError(t, err)

	_, err = loader.Lookup("missing.html")
	assert.Error(t, err)

	_, err = loader.Lookup("broken.html")
	assert.Error(t, err)
}

func TestFilters(t *testing.T) {
	root := t.TempDir()
	writeTemplates(t, root, map[string]string{
		"filters.html": `{{ body|markdown }}|{{ title|kebab }}|{{ title|snake }}|{{ slug|humanize }}`,
	})
	loader, err := NewPongoLoader(root)
	require.NoError(t, err)

	out := renderNamed(t, loader, "filters.html", map[string]any{
		"body":  "# Hi",
		"title": "Static Site Generator",
		"slug":  "pretty_url-expansion",
	})
	assert.Equal(t, "<h1>Hi</h1>\n|static-site-generator|static_site_generator|Pretty Url Expansion", out)
}

func TestToKebabCase_DroppedPunctuation(t *testing.T) {
	assert.Equal(t, "a-b", toKebabCase("a.B"))
	assert.Equal(t, "file-name", toKebabCase("file.Name"))
	assert.Equal(t, "release_notes", toSnakeCase("release!Notes"))
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"hello world", []string{"hello", "world"}},
		{"camelCaseWord", []string{"camel", "Case", "Word"}},
		{"snake_case-kebab", []string{"snake", "case", "kebab"}},
		{"page2go", []string{"page", "2", "go"}},
		{"what's new?", []string{"whats", "new"}},
		{"a.B", []string{"a", "B"}},
		{"v1.2", []string{"v", "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, splitWords(tt.input))
		})
	}
}

func TestPongoLoader_NonIdentifierContextKeys(t *testing.T) {
	root := t.TempDir()
	writeTemplates(t, root, map[string]string{
		"index.html": "{{ names.0 }}|{{ site_config.title }}",
	})
	loader, err := NewPongoLoader(root)
	require.NoError(t, err)

	out := renderNamed(t, loader, "index.html", map[string]any{
		"names":       []any{"Audrey", "Danny"},
		"site_config": map[string]any{"title": "Complexity"},
		"my-data":     []any{1, 2},
		"site.config": map[string]any{"title": "hidden"},
	})
	assert.Equal(t, "Audrey|Complexity", out)
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"names":       true,
		"site_config": true,
		"v2":          true,
		"_private":    true,
		"":            false,
		"my-data":     false,
		"site.config": false,
		"café":        false,
		"two words":   false,
	}

	for key, want := range tests {
		assert.Equal(t, want, IsIdentifier(key), "IsIdentifier(%q)", key)
	}
}
