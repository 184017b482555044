// BYZRA ⸻ internal/formats/formats.go
// image codec registry keyed by mime type

package formats

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultMIMEType is used when a file declares no type.
const DefaultMIMEType = "image/jpeg"

// DefaultQuality is the lossy encoding quality (0-100).
const DefaultQuality = 95

// all image codecs, in preference order for extension lookups
var codecs = []*Codec{
	jpegCodec,
	pngCodec,
	gifCodec,
	bmpCodec,
	tiffCodec,
	webpCodec,
}

// appropriate codec for a declared mime type
func GetCodec(mimeType string) (*Codec, error) {
	mt := normalise(mimeType)
	if mt == "" {
		mt = DefaultMIMEType
	}
	for _, c := range codecs {
		if c.MIMEType == mt || slices.Contains(c.Aliases, mt) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no codec for type: %s", mimeType)
}

// codec for a file extension, with or without the leading dot
func CodecForExtension(ext string) (*Codec, error) {
	ext = trimExt(ext)
	for _, c := range codecs {
		if slices.Contains(c.Extensions, ext) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unsupported extension: %s", ext)
}

// list of all supported file extensions
func SupportedFormats() []string {
	var all []string
	for _, c := range codecs {
		all = append(all, c.Extensions...)
	}
	return all
}

// checks if a file extension is supported
func IsSupported(extension string) bool {
	return slices.Contains(SupportedFormats(), trimExt(extension))
}

// IsImageType reports whether a declared media type is an image type.
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(normalise(mimeType), "image/")
}

// lowercases and drops parameters ("image/png; x=y" -> "image/png")
func normalise(mimeType string) string {
	mt, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func trimExt(extension string) string {
	// remove leading dot if present
	if len(extension) > 0 && extension[0] == '.' {
		extension = extension[1:]
	}
	return strings.ToLower(extension)
}
