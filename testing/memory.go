// Package testing holds in-memory fixtures for exercising the generator
// without a real template tree or template engine.
package testing

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// MemoryFS is a read-only fs.FS over files added with WriteFile.
// Directories exist implicitly as parents of files.
type MemoryFS struct {
	files map[string][]byte
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{files: make(map[string][]byte)}
}

// NewTemplateTree returns a MemoryFS holding files and a MockLoader that
// serves the same files as templates.
func NewTemplateTree(files map[string]string) (*MemoryFS, *MockLoader) {
	mfs := NewMemoryFS()
	loader := NewMockLoader()
	for name, body := range files {
		mfs.WriteFile(name, []byte(body))
		loader.AddTemplate(path.Clean(name), body)
	}
	return mfs, loader
}

func (mfs *MemoryFS) WriteFile(name string, data []byte) {
	mfs.files[path.Clean(name)] = data
}

func (mfs *MemoryFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if data, ok := mfs.files[name]; ok {
		return &memoryFile{info: fileInfo{name: path.Base(name), size: int64(len(data))}, r: bytes.NewReader(data)}, nil
	}
	if mfs.isDir(name) {
		entries, _ := mfs.ReadDir(name)
		return &memoryDir{info: fileInfo{name: path.Base(name), dir: true}, entries: entries}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (mfs *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	f, err := mfs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Stat()
}

// ReadDir lists name's children sorted by name, as fs.ReadDirFS requires.
func (mfs *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !mfs.isDir(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	seen := make(map[string]fileInfo)
	for file, data := range mfs.files {
		rest, ok := childPath(name, file)
		if !ok {
			continue
		}
		child, _, nested := strings.Cut(rest, "/")
		if nested {
			seen[child] = fileInfo{name: child, dir: true}
		} else {
			seen[child] = fileInfo{name: child, size: int64(len(data))}
		}
	}

	entries := make([]fs.DirEntry, 0, len(seen))
	for _, info := range seen {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

func (mfs *MemoryFS) isDir(name string) bool {
	if name == "." {
		return true
	}
	for file := range mfs.files {
		if strings.HasPrefix(file, name+"/") {
			return true
		}
	}
	return false
}

func childPath(dir, file string) (string, bool) {
	if dir == "." {
		return file, true
	}
	return strings.CutPrefix(file, dir+"/")
}

type fileInfo struct {
	name string
	size int64
	dir  bool
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return fi.dir }
func (fi fileInfo) Sys() any           { return nil }

func (fi fileInfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

type memoryFile struct {
	info fileInfo
	r    *bytes.Reader
}

func (f *memoryFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memoryFile) Read(b []byte) (int, error) { return f.r.Read(b) }
func (f *memoryFile) Close() error               { return nil }

type memoryDir struct {
	info    fileInfo
	entries []fs.DirEntry
	offset  int
}

func (d *memoryDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *memoryDir) Close() error               { return nil }

func (d *memoryDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

func (d *memoryDir) ReadDir(n int) ([]fs.DirEntry, error) {
	remaining := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return remaining, nil
	}
	if len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > len(remaining) {
		n = len(remaining)
	}
	d.offset += n
	return remaining[:n], nil
}
