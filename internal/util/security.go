// BYZRA ⸻ internal/util/security.go
// untrusted names from uploads and the filesystem

package util

import (
	"path/filepath"
	"strings"
	"unicode"
)

// longest name handed back in a download
const maxFilenameRunes = 200

// removes potentially unsafe characters from a filename
func SanitizeFilename(filename string) string {
	// browsers may send full client paths
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)

	// replace unsafe characters
	unsafe := []string{"/", ":", "*", "?", "\"", "<", ">", "|", ";", "&"}
	for _, char := range unsafe {
		filename = strings.ReplaceAll(filename, char, "_")
	}
	filename = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, filename)

	// special cases like hidden files
	if strings.HasPrefix(filename, ".") {
		filename = "_" + filename[1:]
	}

	if r := []rune(filename); len(r) > maxFilenameRunes {
		ext := filepath.Ext(filename)
		keep := maxFilenameRunes - len([]rune(ext))
		if keep < 1 {
			keep, ext = maxFilenameRunes, ""
		}
		filename = string(r[:keep]) + ext
	}

	if filename == "" || filename == "_" {
		return "image"
	}
	return filename
}

// OutputPath places name in dir, or beside source when dir is empty.
func OutputPath(source, dir, name string) string {
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, SanitizeFilename(name))
}
