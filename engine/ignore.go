package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/loopbio/complexity/config"
)

// sniffLen is how much of a file is inspected to decide whether it is binary.
const sniffLen = 1024

// reservedExtensions are macro fragments and data files. They are pulled in
// by other templates and never rendered as pages.
var reservedExtensions = []string{".j2", ".yml"}

// IsIgnored reports whether a template should be skipped. name is the file
// name or path, head the leading bytes of its content.
func IsIgnored(name string, head []byte) bool {
	if isBinary(head) {
		return true
	}

	base := path.Base(filepath.ToSlash(name))
	// The project file may sit inside the template tree.
	if base == config.FileName {
		return true
	}

	return slices.Contains(reservedExtensions, path.Ext(base))
}

// ShouldIgnore reads the head of name from fsys and applies IsIgnored.
func ShouldIgnore(fsys fs.FS, name string) (bool, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return IsIgnored(name, head[:n]), nil
}

// isBinary guesses from the leading bytes whether content is binary. A NUL
// byte is decisive; otherwise the share of control bytes and, for input that
// is not UTF-8, the share of high bytes decide.
func isBinary(head []byte) bool {
	if len(head) == 0 {
		return false
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return true
	}

	var control, high int
	for _, b := range head {
		switch {
		case b == 0x7f, b < 0x20 && !isTextControl(b):
			control++
		case b >= 0x80:
			high++
		}
	}

	size := float64(len(head))
	if float64(control)/size > 0.3 {
		return true
	}
	if utf8.Valid(trimPartialRune(head)) {
		return false
	}
	return float64(high)/size > 0.3
}

func isTextControl(b byte) bool {
	switch b {
	case '\a', '\b', '\t', '\n', '\f', '\r', 0x1b:
		return true
	}
	return false
}

// trimPartialRune drops a multi-byte sequence cut off by the sniff window.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}
