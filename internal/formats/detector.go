// BYZRA ⸻ internal/formats/detector.go
// image type detection from magic numbers, extension as fallback

package formats

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type FileType struct {
	Extension string // "jpg", "png", etc
	MimeType  string // "image/jpeg", etc
}

// sniffs the declared type of a file on disk
func DetectFile(path string) (FileType, error) {
	file, err := os.Open(path)
	if err != nil {
		return FileType{}, err
	}
	defer file.Close()

	// 12 bytes covers every signature below (RIFF....WEBP is the longest)
	buffer := make([]byte, 12)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileType{}, err
	}

	if ft := DetectBytes(buffer[:n]); ft.MimeType != "" {
		return ft, nil
	}

	// fallback to extension
	if ft := detectByExtension(filepath.Ext(path)); ft.MimeType != "" {
		return ft, nil
	}

	return FileType{}, fmt.Errorf("unknown file type for %s", path)
}

// examines header bytes; zero FileType when nothing matches
func DetectBytes(buffer []byte) FileType {
	switch {
	// JPEG: FF D8 FF
	case bytes.HasPrefix(buffer, []byte{0xFF, 0xD8, 0xFF}):
		return FileType{Extension: "jpg", MimeType: "image/jpeg"}

	// PNG: 89 50 4E 47 0D 0A 1A 0A
	case bytes.HasPrefix(buffer, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return FileType{Extension: "png", MimeType: "image/png"}

	// GIF: 47 49 46 38 (GIF8)
	case bytes.HasPrefix(buffer, []byte("GIF8")):
		return FileType{Extension: "gif", MimeType: "image/gif"}

	// TIFF: 49 49 2A 00 or 4D 4D 00 2A (II* or MM*)
	case bytes.HasPrefix(buffer, []byte{0x49, 0x49, 0x2A, 0x00}),
		bytes.HasPrefix(buffer, []byte{0x4D, 0x4D, 0x00, 0x2A}):
		return FileType{Extension: "tiff", MimeType: "image/tiff"}

	// BMP: 42 4D (BM)
	case bytes.HasPrefix(buffer, []byte("BM")) && len(buffer) >= 6:
		return FileType{Extension: "bmp", MimeType: "image/bmp"}

	// WEBP: RIFF....WEBP
	case len(buffer) >= 12 && bytes.HasPrefix(buffer, []byte("RIFF")) && bytes.Equal(buffer[8:12], []byte("WEBP")):
		return FileType{Extension: "webp", MimeType: "image/webp"}
	}
	return FileType{}
}

// maps file extensions to types (fallback method)
func detectByExtension(ext string) FileType {
	c, err := CodecForExtension(ext)
	if err != nil {
		return FileType{}
	}
	return FileType{Extension: strings.TrimPrefix(strings.ToLower(ext), "."), MimeType: c.MIMEType}
}
