// BYZRA ⸻ internal/tagset/describe.go
// raw tiff values -> display descriptions

package tagset

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// enumerated tags rendered as words instead of numbers
var enumDescriptions = map[exif.FieldName]map[int64]string{
	exif.ExposureProgram: {
		0: "Undefined",
		1: "Manual",
		2: "Normal program",
		3: "Aperture priority",
		4: "Shutter priority",
		5: "Creative program",
		6: "Action program",
		7: "Portrait mode",
		8: "Landscape mode",
	},
	exif.MeteringMode: {
		0:   "Unknown",
		1:   "Average",
		2:   "CenterWeightedAverage",
		3:   "Spot",
		4:   "MultiSpot",
		5:   "Pattern",
		6:   "Partial",
		255: "Other",
	},
	exif.WhiteBalance: {
		0: "Auto white balance",
		1: "Manual white balance",
	},
	exif.ExposureMode: {
		0: "Auto exposure",
		1: "Manual exposure",
		2: "Auto bracket",
	},
	exif.SceneCaptureType: {
		0: "Standard",
		1: "Landscape",
		2: "Portrait",
		3: "Night scene",
	},
	exif.Orientation: {
		1: "top-left",
		2: "top-right",
		3: "bottom-right",
		4: "bottom-left",
		5: "left-top",
		6: "right-top",
		7: "right-bottom",
		8: "left-bottom",
	},
	exif.LightSource: {
		0:   "Unknown",
		1:   "Daylight",
		2:   "Fluorescent",
		3:   "Tungsten (incandescent light)",
		4:   "Flash",
		9:   "Fine weather",
		10:  "Cloudy weather",
		11:  "Shade",
		17:  "Standard light A",
		18:  "Standard light B",
		19:  "Standard light C",
		255: "Other light source",
	},
	exif.ColorSpace: {
		1:     "sRGB",
		65535: "Uncalibrated",
	},
	exif.ResolutionUnit: {
		2: "inches",
		3: "centimeters",
	},
	exif.SensingMethod: {
		1: "Undefined",
		2: "One-chip color area sensor",
		3: "Two-chip color area sensor",
		4: "Three-chip color area sensor",
		5: "Color sequential area sensor",
		7: "Trilinear sensor",
		8: "Color sequential linear sensor",
	},
	exif.GPSAltitudeRef: {
		0: "Sea level",
		1: "Sea level reference (negative value)",
	},
}

var refDescriptions = map[string]string{
	"N": "North latitude",
	"S": "South latitude",
	"E": "East longitude",
	"W": "West longitude",
}

// builds the Tag for one goexif field
func describe(name exif.FieldName, t *tiff.Tag) Tag {
	tag := Tag{Name: string(name), Value: rawValue(t)}

	desc, ok := description(name, t)
	if ok {
		tag.Description = desc
		tag.HasDescription = true
	}
	return tag
}

func description(name exif.FieldName, t *tiff.Tag) (string, bool) {
	switch name {
	case exif.GPSLatitude, exif.GPSLongitude:
		deg, err := degrees(t)
		if err != nil {
			return "", false
		}
		return formatFloat(deg), true
	case exif.GPSLatitudeRef, exif.GPSLongitudeRef:
		ref := refValue(t)
		if d, ok := refDescriptions[ref]; ok {
			return d, true
		}
		return ref, ref != ""
	case exif.GPSAltitude:
		f, err := ratFloat(t, 0)
		if err != nil {
			return "", false
		}
		return formatFloat(f) + " m", true
	case exif.ExposureTime:
		num, den, err := t.Rat2(0)
		if err != nil || den == 0 {
			return "", false
		}
		return big.NewRat(num, den).RatString(), true
	case exif.Flash:
		v, err := t.Int64(0)
		if err != nil {
			return "", false
		}
		return flashDescription(v), true
	}

	if words, ok := enumDescriptions[name]; ok && t.Format() == tiff.IntVal && t.Count == 1 {
		if v, err := t.Int64(0); err == nil {
			if w, ok := words[v]; ok {
				return w, true
			}
		}
	}

	switch t.Format() {
	case tiff.StringVal:
		s, err := t.StringVal()
		if err != nil {
			return "", false
		}
		return strings.TrimRight(s, "\x00 "), true
	case tiff.IntVal, tiff.FloatVal, tiff.RatVal:
		return FormatValue(rawValue(t)), true
	case tiff.UndefVal:
		if printable(t.Val) {
			return strings.TrimRight(string(t.Val), "\x00 "), true
		}
		return "", false
	}
	return "", false
}

// raw decoded value, single values unwrapped
func rawValue(t *tiff.Tag) any {
	switch t.Format() {
	case tiff.StringVal:
		s, err := t.StringVal()
		if err != nil {
			return nil
		}
		return strings.TrimRight(s, "\x00")
	case tiff.IntVal:
		return collect(t, func(i int) (any, error) { return t.Int64(i) })
	case tiff.FloatVal:
		return collect(t, func(i int) (any, error) { return t.Float(i) })
	case tiff.RatVal:
		return collect(t, func(i int) (any, error) { return ratFloat(t, i) })
	default:
		b := make([]byte, len(t.Val))
		copy(b, t.Val)
		return b
	}
}

func collect(t *tiff.Tag, at func(int) (any, error)) any {
	n := int(t.Count)
	if n == 1 {
		v, err := at(0)
		if err != nil {
			return nil
		}
		return v
	}
	vals := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := at(i)
		if err != nil {
			break
		}
		vals = append(vals, v)
	}
	return vals
}

func ratFloat(t *tiff.Tag, i int) (float64, error) {
	num, den, err := t.Rat2(i)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return 0, fmt.Errorf("zero denominator in %d", t.Id)
	}
	return float64(num) / float64(den), nil
}

// degrees, minutes, seconds -> unsigned decimal degrees
func degrees(t *tiff.Tag) (float64, error) {
	if t.Count < 3 {
		return 0, fmt.Errorf("expected 3 rationals, got %d", t.Count)
	}
	var parts [3]float64
	for i := range parts {
		f, err := ratFloat(t, i)
		if err != nil {
			return 0, err
		}
		parts[i] = f
	}
	return parts[0] + parts[1]/60 + parts[2]/3600, nil
}

func refValue(t *tiff.Tag) string {
	s, err := t.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimRight(s, "\x00 ")
}

func flashDescription(v int64) string {
	if v&0x20 != 0 {
		return "No flash function"
	}
	var parts []string
	if v&0x1 != 0 {
		parts = append(parts, "Flash fired")
	} else {
		parts = append(parts, "Flash did not fire")
	}
	switch (v >> 3) & 0x3 {
	case 1, 2:
		parts = append(parts, "compulsory flash mode")
	case 3:
		parts = append(parts, "auto mode")
	}
	if v&0x40 != 0 {
		parts = append(parts, "red-eye reduction mode")
	}
	switch (v >> 1) & 0x3 {
	case 2:
		parts = append(parts, "return light not detected")
	case 3:
		parts = append(parts, "return light detected")
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// printable ASCII, allowing trailing NUL padding
func printable(b []byte) bool {
	trimmed := strings.TrimRight(string(b), "\x00")
	if trimmed == "" {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
