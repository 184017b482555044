// BYZRA ⸻ internal/formats/image.go
// pixel decode and re-encode per container format

package formats

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // decoder registration only
)

// Codec decodes and re-encodes one container format. Encode is nil for
// formats that can be read but not written.
type Codec struct {
	Name       string
	MIMEType   string
	Aliases    []string
	Extensions []string
	Encode     func(w io.Writer, m image.Image, quality int) error
}

// CanEncode reports whether the codec can write its format.
func (c *Codec) CanEncode() bool { return c.Encode != nil }

var (
	jpegCodec = &Codec{
		Name:       "jpeg",
		MIMEType:   "image/jpeg",
		Aliases:    []string{"image/jpg", "image/pjpeg"},
		Extensions: []string{"jpg", "jpeg", "jpe"},
		Encode: func(w io.Writer, m image.Image, quality int) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: clampQuality(quality)})
		},
	}
	pngCodec = &Codec{
		Name:       "png",
		MIMEType:   "image/png",
		Aliases:    []string{"image/x-png", "image/apng"},
		Extensions: []string{"png"},
		Encode: func(w io.Writer, m image.Image, _ int) error {
			return png.Encode(w, m)
		},
	}
	gifCodec = &Codec{
		Name:       "gif",
		MIMEType:   "image/gif",
		Extensions: []string{"gif"},
		Encode: func(w io.Writer, m image.Image, _ int) error {
			return gif.Encode(w, m, nil)
		},
	}
	bmpCodec = &Codec{
		Name:       "bmp",
		MIMEType:   "image/bmp",
		Aliases:    []string{"image/x-bmp", "image/x-ms-bmp"},
		Extensions: []string{"bmp"},
		Encode: func(w io.Writer, m image.Image, _ int) error {
			return bmp.Encode(w, m)
		},
	}
	tiffCodec = &Codec{
		Name:       "tiff",
		MIMEType:   "image/tiff",
		Aliases:    []string{"image/tif"},
		Extensions: []string{"tiff", "tif"},
		Encode: func(w io.Writer, m image.Image, _ int) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		},
	}
	webpCodec = &Codec{
		Name:       "webp",
		MIMEType:   "image/webp",
		Extensions: []string{"webp"},
	}
)

func clampQuality(q int) int {
	switch {
	case q <= 0:
		return DefaultQuality
	case q > 100:
		return 100
	}
	return q
}

// decodes the pixel grid; the format name is the one the decoder registered
func DecodeImage(data []byte) (image.Image, string, error) {
	m, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return m, format, nil
}

// intrinsic dimensions without decoding pixels
func DecodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg, format, nil
}

// EncodeImage writes m in the codec's format.
func (c *Codec) EncodeImage(m image.Image, quality int) ([]byte, error) {
	if !c.CanEncode() {
		return nil, fmt.Errorf("no encoder for %s", c.MIMEType)
	}
	var buf bytes.Buffer
	if err := c.Encode(&buf, m, quality); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", c.Name, err)
	}
	return buf.Bytes(), nil
}
