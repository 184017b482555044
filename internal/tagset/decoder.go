// BYZRA ⸻ internal/tagset/decoder.go
// decoder adapter over goexif

package tagset

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
)

func init() {
	// maker notes show up as Canon*/Nikon* fields in the full listing
	exif.RegisterParsers(mknote.All...)
}

// Decoder turns raw file bytes into a TagSet.
type Decoder interface {
	Decode(data []byte) (TagSet, error)
}

// DecodeError is returned when the bytes hold no recognisable metadata
// container or the container is structurally invalid.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "metadata decode failed: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

var errEmpty = errors.New("empty input")

// ExifDecoder reads EXIF, GPS and interoperability IFDs through goexif.
type ExifDecoder struct{}

// Decode implements Decoder. A partially readable container (non-critical
// goexif errors) still yields the tags that were found.
func (ExifDecoder) Decode(data []byte) (ts TagSet, err error) {
	if len(data) == 0 {
		return TagSet{}, &DecodeError{Err: errEmpty}
	}

	// goexif can panic on hostile offsets; treat that as a decode failure
	defer func() {
		if r := recover(); r != nil {
			ts, err = TagSet{}, &DecodeError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		if err == nil {
			err = errors.New("no exif data")
		}
		return TagSet{}, &DecodeError{Err: err}
	}

	w := &walker{tags: make(map[string]Tag)}
	if werr := x.Walk(w); werr != nil {
		return TagSet{}, &DecodeError{Err: werr}
	}
	return FromMap(w.tags), nil
}

type walker struct {
	tags map[string]Tag
}

func (w *walker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if name == "" || tag == nil {
		return nil
	}
	// IFD pointers are container plumbing, not metadata
	switch name {
	case exif.ExifIFDPointer, exif.GPSInfoIFDPointer, exif.InteroperabilityIFDPointer:
		return nil
	}
	w.tags[string(name)] = describe(name, tag)
	return nil
}
