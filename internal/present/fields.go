// BYZRA ⸻ internal/present/fields.go
// field tables for the camera and date views

package present

import "exifdrop/internal/tagset"

// FieldSpec describes one presentable field. Format is nil for fields shown
// as their plain text.
type FieldSpec struct {
	TagKey string
	Label  string
	Format func(tagset.Tag) string
}

// render applies the formatter, if any, to a tag
func (f FieldSpec) render(t tagset.Tag) string {
	if f.Format != nil {
		return f.Format(t)
	}
	return t.String()
}

// unit formatters
func aperture(t tagset.Tag) string     { return "f/" + t.String() }
func shutter(t tagset.Tag) string      { return t.String() + "s" }
func millimetres(t tagset.Tag) string  { return t.String() + "mm" }
func exposureBias(t tagset.Tag) string { return t.String() + " EV" }

// CameraFields lists the camera view in display order.
var CameraFields = []FieldSpec{
	{TagKey: "Make", Label: "Camera Make"},
	{TagKey: "Model", Label: "Camera Model"},
	{TagKey: "LensModel", Label: "Lens"},
	{TagKey: "LensMake", Label: "Lens Make"},
	{TagKey: "ISOSpeedRatings", Label: "ISO"},
	{TagKey: "FNumber", Label: "Aperture", Format: aperture},
	{TagKey: "ExposureTime", Label: "Shutter Speed", Format: shutter},
	{TagKey: "FocalLength", Label: "Focal Length", Format: millimetres},
	{TagKey: "ExposureProgram", Label: "Exposure Mode"},
	{TagKey: "MeteringMode", Label: "Metering Mode"},
	{TagKey: "Flash", Label: "Flash"},
	{TagKey: "WhiteBalance", Label: "White Balance"},
	{TagKey: "ExposureBiasValue", Label: "Exposure Comp", Format: exposureBias},
}

// DateFields lists the date view in display order.
var DateFields = []FieldSpec{
	{TagKey: "DateTimeOriginal", Label: "Date Taken"},
	{TagKey: "DateTime", Label: "Date Modified"},
	{TagKey: "DateTimeDigitized", Label: "Date Digitized"},
	{TagKey: "CreateDate", Label: "Create Date"},
	{TagKey: "ModifyDate", Label: "Modify Date"},
	{TagKey: "OffsetTime", Label: "Timezone Offset"},
	{TagKey: "SubSecTime", Label: "Subseconds"},
}

// Relabel returns a copy of fields with labels replaced from labels, keyed
// by tag name. Unknown keys are ignored; the input table is not modified.
func Relabel(fields []FieldSpec, labels map[string]string) []FieldSpec {
	out := make([]FieldSpec, len(fields))
	copy(out, fields)
	for i := range out {
		if l, ok := labels[out[i].TagKey]; ok && l != "" {
			out[i].Label = l
		}
	}
	return out
}

// KnownKeys lists every tag key used by the camera and date tables.
func KnownKeys() []string {
	keys := make([]string, 0, len(CameraFields)+len(DateFields))
	for _, f := range CameraFields {
		keys = append(keys, f.TagKey)
	}
	for _, f := range DateFields {
		keys = append(keys, f.TagKey)
	}
	return keys
}
