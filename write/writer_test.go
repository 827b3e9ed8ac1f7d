package write

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseWriter_Write(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
	}{
		{name: "direct", options: WriteOptions{CreateDirs: true, Overwrite: true}},
		{name: "atomic", options: PageOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "art", "page", "index.html")
			writer := NewBaseWriter()

			require.NoError(t, writer.Write(path, []byte("<p>one</p>"), tt.options))
			require.NoError(t, writer.Write(path, []byte("<p>two</p>"), tt.options))

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "<p>two</p>", string(content))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
		})
	}
}

func TestBaseWriter_NoCreateDirs(t *testing.T) {
	dir := t.TempDir()
	err := NewBaseWriter().Write(filepath.Join(dir, "missing", "index.html"), []byte("x"), WriteOptions{Overwrite: true})
	assert.Error(t, err)
}

func TestBaseWriter_NoOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robots.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := NewBaseWriter().Write(path, []byte("new"), WriteOptions{})
	require.Error(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(content))
}

func TestDryRunWriter(t *testing.T) {
	dir := t.TempDir()
	same := filepath.Join(dir, "same.html")
	changed := filepath.Join(dir, "changed.html")
	fresh := filepath.Join(dir, "fresh", "index.html")
	require.NoError(t, os.WriteFile(same, []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(changed, []byte("before"), 0o644))

	writer := NewDryRunWriter()
	require.NoError(t, writer.Write(same, []byte("same"), PageOptions))
	require.NoError(t, writer.Write(changed, []byte("after"), PageOptions))
	require.NoError(t, writer.Write(fresh, []byte("new page"), PageOptions))

	assert.Equal(t, []Change{
		{Path: same, Action: ActionUnchanged, Size: 4},
		{Path: changed, Action: ActionUpdate, Size: 5},
		{Path: fresh, Action: ActionCreate, Size: 8},
	}, writer.Changes())

	_, err := os.Stat(filepath.Dir(fresh))
	assert.True(t, os.IsNotExist(err), "dry run must not create directories")
}
