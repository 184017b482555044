// BYZRA ⸻ internal/export/export.go
// original and stripped downloads of a loaded image

// Package export produces the two downloads offered for a loaded image: the
// untouched original, and a copy re-encoded from its pixels alone. Nothing
// but pixel data reaches the encoder, so ancillary segments (EXIF, XMP, ICC
// profiles, thumbnails) do not survive. No segment is removed explicitly.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"exifdrop/internal/formats"
)

// Suffix is inserted before the extension of stripped file names.
const Suffix = "_no_metadata"

// Source is the loaded image the transformer reads from.
type Source interface {
	FileName() string
	DeclaredType() string
	Bytes() []byte
}

// Artifact is one download: bytes, suggested name and media type.
type Artifact struct {
	Data     []byte
	Name     string
	MIMEType string
}

// Options tune the stripped export.
type Options struct {
	// Quality for lossy encoders, 1-100; 0 means formats.DefaultQuality.
	Quality int
	// AutoOrient applies Orientation (EXIF values 1-8) to the pixels
	// before encoding, since the tag itself is dropped.
	AutoOrient  bool
	Orientation int
}

// ExportError reports a failed stripped export. No artifact accompanies it.
type ExportError struct {
	Name string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export of %s failed: %v", e.Name, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Original returns the input bytes unchanged under the original name.
func Original(src Source) Artifact {
	data := src.Bytes()
	out := make([]byte, len(data))
	copy(out, data)
	return Artifact{
		Data:     out,
		Name:     src.FileName(),
		MIMEType: declaredOrDefault(src.DeclaredType()),
	}
}

// Stripped decodes the pixel grid at its intrinsic size and re-encodes it
// in the declared format (image/jpeg when none was declared).
func Stripped(src Source, opts Options) (Artifact, error) {
	name := src.FileName()
	mimeType := declaredOrDefault(src.DeclaredType())

	codec, err := formats.GetCodec(mimeType)
	if err != nil {
		return Artifact{}, &ExportError{Name: name, Err: err}
	}
	if !codec.CanEncode() {
		return Artifact{}, &ExportError{Name: name, Err: fmt.Errorf("cannot write %s images", codec.Name)}
	}

	m, _, err := formats.DecodeImage(src.Bytes())
	if err != nil {
		return Artifact{}, &ExportError{Name: name, Err: err}
	}
	if opts.AutoOrient {
		m = orient(m, opts.Orientation)
	}

	data, err := codec.EncodeImage(m, opts.Quality)
	if err != nil {
		return Artifact{}, &ExportError{Name: name, Err: err}
	}

	return Artifact{
		Data:     data,
		Name:     OutputName(name),
		MIMEType: codec.MIMEType,
	}, nil
}

// OutputName inserts Suffix before the extension: photo.jpg ->
// photo_no_metadata.jpg. Names without an extension get the suffix appended.
func OutputName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + Suffix + ext
}

// IsOutputName reports whether name already carries the stripped suffix.
func IsOutputName(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), Suffix)
}

func declaredOrDefault(mimeType string) string {
	if strings.TrimSpace(mimeType) == "" {
		return formats.DefaultMIMEType
	}
	return mimeType
}
