package tagset

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"exifdrop/internal/testimg"
)

func TestTagSetIsACopy(t *testing.T) {
	src := map[string]Tag{
		"Make": {Value: "Canon", Description: "Canon", HasDescription: true},
	}
	ts := FromMap(src)
	src["Model"] = Tag{Value: "X"}
	delete(src, "Make")

	if ts.Len() != 1 {
		t.Fatalf("Len = %d after mutating source map; want 1", ts.Len())
	}
	got, ok := ts.Get("Make")
	if !ok || got.Name != "Make" {
		t.Fatalf("Get(Make) = %+v, %v", got, ok)
	}
}

func TestNamesSorted(t *testing.T) {
	ts := New(Tag{Name: "b"}, Tag{Name: "A"}, Tag{Name: "a"}, Tag{Name: ""}, Tag{Name: "C"})
	want := []string{"A", "C", "a", "b"}
	if diff := cmp.Diff(want, ts.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestTagText(t *testing.T) {
	tests := []struct {
		tag      Tag
		want     string
		fromText bool
	}{
		{Tag{Value: int64(3), Description: "Spot", HasDescription: true}, "Spot", true},
		{Tag{Value: "raw", Description: "", HasDescription: true}, "raw", true},
		{Tag{Value: int64(100), HasDescription: true}, "100", false},
		{Tag{Value: []any{int64(1), int64(2)}}, "1, 2", false},
		{Tag{Value: 2.8}, "2.8", false},
		{Tag{Value: []byte{0, 1, 2}}, "[3 bytes]", false},
		{Tag{Value: []byte("0231")}, "0231", false},
	}
	for i, tt := range tests {
		got, fromText := tt.tag.Text()
		if got != tt.want || fromText != tt.fromText {
			t.Errorf("%d. Text() = %q, %v; want %q, %v", i, got, fromText, tt.want, tt.fromText)
		}
	}
}

func TestPresentable(t *testing.T) {
	if (Tag{Name: "x"}).Presentable() {
		t.Error("tag with neither value nor description is presentable")
	}
	if !(Tag{Name: "x", HasDescription: true}).Presentable() {
		t.Error("described tag is not presentable")
	}
}

func TestExifDecoder(t *testing.T) {
	data := testimg.JPEG(16, 8, testimg.Camera()...)
	ts, err := ExifDecoder{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	wantDesc := map[string]string{
		"Make":              "Canon",
		"Model":             "Canon EOS 5D",
		"DateTime":          "2021:06:01 12:00:00",
		"DateTimeOriginal":  "2021:05:31 09:15:42",
		"ExposureTime":      "1/250",
		"FNumber":           "2.8",
		"ISOSpeedRatings":   "100",
		"FocalLength":       "50",
		"ExposureBiasValue": "0",
		"Flash":             "Flash fired, auto mode",
		"GPSLatitudeRef":    "North latitude",
		"GPSLongitudeRef":   "West longitude",
		"GPSAltitude":       "10 m",
	}
	for name, want := range wantDesc {
		tag, ok := ts.Get(name)
		if !ok {
			t.Errorf("tag %s missing", name)
			continue
		}
		if !tag.HasDescription || tag.Description != want {
			t.Errorf("%s description = %q (%v); want %q", name, tag.Description, tag.HasDescription, want)
		}
	}

	if ref, _ := ts.Get("GPSLatitudeRef"); ref.Value != "N" {
		t.Errorf("GPSLatitudeRef value = %#v; want \"N\"", ref.Value)
	}

	for name, want := range map[string]float64{"GPSLatitude": 40.7128, "GPSLongitude": 74.006} {
		tag, _ := ts.Get(name)
		f, err := strconv.ParseFloat(tag.Description, 64)
		if err != nil {
			t.Fatalf("%s description %q: %v", name, tag.Description, err)
		}
		if math.Abs(f-want) > 1e-9 {
			t.Errorf("%s = %v; want %v", name, f, want)
		}
	}

	for _, name := range []string{"ExifIFDPointer", "GPSInfoIFDPointer"} {
		if ts.Has(name) {
			t.Errorf("pointer tag %s leaked into the set", name)
		}
	}
}

func TestExifDecoderNoMetadata(t *testing.T) {
	tests := map[string][]byte{
		"empty":      nil,
		"plain jpeg": testimg.JPEG(4, 4),
		"png":        testimg.PNG(4, 4, ""),
		"garbage":    []byte("definitely not an image"),
	}
	for name, data := range tests {
		ts, err := ExifDecoder{}.Decode(data)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("%s: err = %v; want *DecodeError", name, err)
		}
		if ts.Len() != 0 {
			t.Errorf("%s: got %d tags on failure", name, ts.Len())
		}
	}
}

func TestExifDecoderMalformed(t *testing.T) {
	// a valid APP1 header whose TIFF body points past the end
	tiff := []byte{'I', 'I', 42, 0, 0xff, 0xff, 0, 0}
	data := append([]byte{0xFF, 0xD8}, testimg.APP1(tiff)...)
	data = append(data, 0xFF, 0xD9)

	ts, err := ExifDecoder{}.Decode(data)
	if err == nil {
		t.Fatal("Decode of malformed TIFF succeeded")
	}
	if ts.Len() != 0 {
		t.Errorf("got %d tags from malformed data", ts.Len())
	}
}

func TestFlashDescription(t *testing.T) {
	tests := map[int64]string{
		0x00: "Flash did not fire",
		0x01: "Flash fired",
		0x10: "Flash did not fire, compulsory flash mode",
		0x19: "Flash fired, auto mode",
		0x20: "No flash function",
		0x41: "Flash fired, red-eye reduction mode",
		0x07: "Flash fired, return light detected",
	}
	for v, want := range tests {
		if got := flashDescription(v); got != want {
			t.Errorf("flashDescription(%#x) = %q; want %q", v, got, want)
		}
	}
}
