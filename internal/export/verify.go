// BYZRA ⸻ internal/export/verify.go
// residual metadata check on a stripped artifact

package export

import (
	"strings"

	"exifdrop/internal/tagset"
)

// tags that identify the camera or the shot; GPS* is matched by prefix
var identifying = map[string]bool{
	"Make":              true,
	"Model":             true,
	"LensModel":         true,
	"LensMake":          true,
	"BodySerialNumber":  true,
	"DateTimeOriginal":  true,
	"DateTimeDigitized": true,
	"DateTime":          true,
	"Artist":            true,
	"Copyright":         true,
}

// image structure a TIFF encoder writes for any pixel grid; not metadata
var layout = map[string]bool{
	"ImageWidth":                true,
	"ImageLength":               true,
	"BitsPerSample":             true,
	"Compression":               true,
	"PhotometricInterpretation": true,
	"SamplesPerPixel":           true,
	"StripOffsets":              true,
	"RowsPerStrip":              true,
	"StripByteCounts":           true,
	"XResolution":               true,
	"YResolution":               true,
	"ResolutionUnit":            true,
	"PlanarConfiguration":       true,
	"ExtraSamples":              true,
	"SampleFormat":              true,
	"Predictor":                 true,
	"ColorMap":                  true,
	"TileWidth":                 true,
	"TileLength":                true,
	"TileOffsets":               true,
	"TileByteCounts":            true,
}

// Residue is what a decoder still finds in an exported artifact.
type Residue struct {
	Tags        []string
	Identifying []string
}

// Clean reports whether no tag was recovered at all.
func (r Residue) Clean() bool { return len(r.Tags) == 0 }

// Verify runs d over the artifact bytes. A decode failure counts as clean:
// there is no metadata container left to read. Image layout tags are not
// residue.
func Verify(a Artifact, d tagset.Decoder) Residue {
	tags, err := d.Decode(a.Data)
	if err != nil {
		return Residue{}
	}
	var r Residue
	for _, name := range tags.Names() {
		if !layout[name] {
			r.Tags = append(r.Tags, name)
		}
	}
	r.Identifying = Identifying(tags)
	return r
}

// Identifying lists, sorted, the tags that identify the shot or its owner.
func Identifying(tags tagset.TagSet) []string {
	var names []string
	for _, name := range tags.Names() {
		if identifying[name] || strings.HasPrefix(name, "GPS") {
			names = append(names, name)
		}
	}
	return names
}
