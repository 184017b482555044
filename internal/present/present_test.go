package present

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"exifdrop/internal/tagset"
	"exifdrop/internal/testimg"
)

func described(name, desc string, value any) tagset.Tag {
	return tagset.Tag{Name: name, Value: value, Description: desc, HasDescription: true}
}

func TestCameraOrderAndFormatting(t *testing.T) {
	// built in reverse table order; output must follow the table
	tags := tagset.New(
		described("ExposureBiasValue", "0", 0.0),
		described("FocalLength", "50", 50.0),
		described("ExposureTime", "1/250", 0.004),
		described("FNumber", "2.8", 2.8),
		described("ISOSpeedRatings", "100", int64(100)),
		tagset.Tag{Name: "LensModel", Value: "EF50mm"}, // no description: skipped
		described("Model", "Canon EOS 5D", "Canon EOS 5D"),
		described("Make", "Canon", "Canon"),
	)

	want := View{
		Items: []Item{
			{"Camera Make", "Canon"},
			{"Camera Model", "Canon EOS 5D"},
			{"ISO", "100"},
			{"Aperture", "f/2.8"},
			{"Shutter Speed", "1/250s"},
			{"Focal Length", "50mm"},
			{"Exposure Comp", "0 EV"},
		},
		Count: 7,
	}
	if diff := cmp.Diff(want, Camera(tags)); diff != "" {
		t.Errorf("Camera() mismatch (-want +got):\n%s", diff)
	}
}

func TestCameraFallsBackToValue(t *testing.T) {
	tags := tagset.New(described("FNumber", "", 4.0))
	got := Camera(tags)
	if got.Count != 1 || got.Items[0].Value != "f/4" {
		t.Errorf("Camera() = %+v; want one f/4 row", got)
	}
}

func TestCameraCountMatchesDescribedFields(t *testing.T) {
	var tags []tagset.Tag
	for i, f := range CameraFields {
		if i%2 == 0 {
			tags = append(tags, described(f.TagKey, "x", "x"))
		} else {
			tags = append(tags, tagset.Tag{Name: f.TagKey, Value: "x"})
		}
	}
	got := Camera(tagset.New(tags...))
	want := (len(CameraFields) + 1) / 2
	if got.Count != want || len(got.Items) != want {
		t.Errorf("Count = %d, items = %d; want %d", got.Count, len(got.Items), want)
	}
}

func TestEmptyViews(t *testing.T) {
	tags := tagset.New(described("Software", "GIMP", "GIMP"))

	if v := Camera(tags); v.Count != 0 || v.Empty != NoCamera {
		t.Errorf("Camera() = %+v", v)
	}
	if v := Dates(tags); v.Count != 0 || v.Empty != NoDates {
		t.Errorf("Dates() = %+v", v)
	}
	if _, ok := GPS(tags); ok {
		t.Error("GPS present without coordinates")
	}
	if v := All(tagset.New(tagset.Tag{Name: "Blob", Value: []byte{1}})); v.Count != 0 || v.Empty != NoMetadata {
		t.Errorf("All() = %+v", v)
	}
}

func TestDates(t *testing.T) {
	tags := tagset.New(
		described("SubSecTime", "042", "042"),
		described("DateTime", "2021:06:01 12:00:00", "2021:06:01 12:00:00"),
		described("DateTimeOriginal", "2021:05:31 09:15:42", "2021:05:31 09:15:42"),
	)
	want := []Item{
		{"Date Taken", "2021:05:31 09:15:42"},
		{"Date Modified", "2021:06:01 12:00:00"},
		{"Subseconds", "042"},
	}
	if diff := cmp.Diff(want, Dates(tags).Items); diff != "" {
		t.Errorf("Dates() mismatch (-want +got):\n%s", diff)
	}
}

func TestAllSortedAndTruncated(t *testing.T) {
	long := strings.Repeat("é", 250)
	exact := strings.Repeat("a", 200)
	tags := tagset.FromMap(map[string]tagset.Tag{
		"Zeta":      described("", "z", "z"),
		"Alpha":     described("", long, long),
		"Mid":       described("", exact, exact),
		"Numbers":   {Value: []any{int64(1), int64(2)}, HasDescription: true},
		"Invisible": {Value: "v"},
	})

	got := All(tags)
	var labels []string
	for _, it := range got.Items {
		labels = append(labels, it.Label)
	}
	if diff := cmp.Diff([]string{"Alpha", "Mid", "Numbers", "Zeta"}, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	alpha := got.Items[0].Value
	if !strings.HasSuffix(alpha, "...") || utf8.RuneCountInString(strings.TrimSuffix(alpha, "...")) != 200 {
		t.Errorf("long value not cut to 200 runes: %d", utf8.RuneCountInString(alpha))
	}
	if got.Items[1].Value != exact {
		t.Error("200-character value was modified")
	}
	if got.Items[2].Value != "1, 2" {
		t.Errorf("Numbers = %q", got.Items[2].Value)
	}

	// display truncation leaves the set alone
	orig, _ := tags.Get("Alpha")
	if orig.Description != long {
		t.Error("TagSet mutated by All")
	}
}

func TestGPS(t *testing.T) {
	tags := tagset.New(
		described("GPSLatitude", "40.7128", 40.7128),
		described("GPSLongitude", "-74.0060", -74.006),
		described("GPSLatitudeRef", "North latitude", "N"),
		described("GPSLongitudeRef", "West longitude", "W"),
		described("GPSAltitude", "10 m", 10.0),
		described("GPSDateStamp", "2021:05:31", "2021:05:31"),
	)
	g, ok := GPS(tags)
	if !ok {
		t.Fatal("GPS absent")
	}
	if !strings.Contains(g.MapURL, "q=40.7128,-74.006") {
		t.Errorf("MapURL = %q", g.MapURL)
	}
	if g.Latitude != "40.712800° N" || g.Longitude != "-74.006000° W" {
		t.Errorf("display = %q, %q", g.Latitude, g.Longitude)
	}
	if g.Altitude != "10 m" || g.GPSDate != "2021:05:31" {
		t.Errorf("optional rows = %q, %q", g.Altitude, g.GPSDate)
	}
	if g.TimeZone != "America/New_York" {
		t.Errorf("TimeZone = %q", g.TimeZone)
	}
}

func TestGPSNeedsAllFour(t *testing.T) {
	full := []tagset.Tag{
		described("GPSLatitude", "1.5", 1.5),
		described("GPSLongitude", "2.5", 2.5),
		described("GPSLatitudeRef", "North latitude", "N"),
		described("GPSLongitudeRef", "East longitude", "E"),
	}
	for skip := range full {
		var partial []tagset.Tag
		for i, tg := range full {
			if i != skip {
				partial = append(partial, tg)
			}
		}
		if _, ok := GPS(tagset.New(partial...)); ok {
			t.Errorf("GPS present without %s", full[skip].Name)
		}
	}
	if _, ok := GPS(tagset.New(full...)); !ok {
		t.Error("GPS absent with all four tags")
	}
}

func TestGPSCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon string
		latRef   string
		lonRef   string
		display  [2]string
		mapURL   string
	}{
		{
			name: "unsigned southern and western",
			lat:  "33.8688", lon: "151.2093", latRef: "S", lonRef: "W",
			display: [2]string{"33.868800° S", "151.209300° W"},
			mapURL:  "https://www.google.com/maps?q=-33.8688,-151.2093",
		},
		{
			name: "already signed kept",
			lat:  "-33.8688", lon: "-74.006", latRef: "S", lonRef: "W",
			display: [2]string{"-33.868800° S", "-74.006000° W"},
			mapURL:  "https://www.google.com/maps?q=-33.8688,-74.006",
		},
		{
			name: "northern and eastern unchanged",
			lat:  "48.8566", lon: "2.3522", latRef: "N", lonRef: "E",
			display: [2]string{"48.856600° N", "2.352200° E"},
			mapURL:  "https://www.google.com/maps?q=48.8566,2.3522",
		},
		{
			name: "not degrees",
			lat:  "unknown", lon: "2.3522", latRef: "N", lonRef: "E",
			display: [2]string{"unknown N", "2.3522 E"},
			mapURL:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := GPS(tagset.New(
				described("GPSLatitude", tt.lat, tt.lat),
				described("GPSLongitude", tt.lon, tt.lon),
				described("GPSLatitudeRef", tt.latRef, tt.latRef),
				described("GPSLongitudeRef", tt.lonRef, tt.lonRef),
			))
			if !ok {
				t.Fatal("GPS absent with all four tags")
			}
			if diff := cmp.Diff(tt.display, [2]string{g.Latitude, g.Longitude}); diff != "" {
				t.Errorf("display mismatch (-want +got):\n%s", diff)
			}
			if g.MapURL != tt.mapURL {
				t.Errorf("MapURL = %q; want %q", g.MapURL, tt.mapURL)
			}
			if tt.mapURL == "" && g.TimeZone != "" {
				t.Errorf("TimeZone = %q without coordinates", g.TimeZone)
			}
		})
	}
}

func TestPresentEmptySet(t *testing.T) {
	v := Present(tagset.TagSet{})
	if v.Camera.Empty != NoCameraAtAll || v.Dates.Empty != NoDatesAtAll || v.All.Empty != NoExifAtAll {
		t.Errorf("sentinels = %q, %q, %q", v.Camera.Empty, v.Dates.Empty, v.All.Empty)
	}
	if v.GPS != nil || v.Camera.Count+v.Dates.Count+v.All.Count != 0 {
		t.Errorf("empty set produced rows: %+v", v)
	}
}

func TestPresentDecodedImage(t *testing.T) {
	tags, err := tagset.ExifDecoder{}.Decode(testimg.JPEG(8, 8, testimg.Camera()...))
	if err != nil {
		t.Fatal(err)
	}
	v := Present(tags)
	if v.Camera.Count != 8 {
		t.Errorf("camera rows = %d; want 8: %+v", v.Camera.Count, v.Camera.Items)
	}
	if v.Dates.Count != 2 {
		t.Errorf("date rows = %d; want 2", v.Dates.Count)
	}
	if v.GPS == nil {
		t.Fatal("GPS view missing")
	}
	if v.GPS.Lon >= 0 {
		t.Errorf("western longitude not negative: %v", v.GPS.Lon)
	}
	if v.All.Count != tags.Len() {
		t.Errorf("all rows = %d; want %d", v.All.Count, tags.Len())
	}
}

func TestRelabel(t *testing.T) {
	p := NewPresenter(map[string]string{"Make": "Brand", "NotAField": "x"})
	got := p.Camera(tagset.New(described("Make", "Canon", "Canon")))
	if got.Items[0].Label != "Brand" {
		t.Errorf("label = %q; want Brand", got.Items[0].Label)
	}
	if CameraFields[0].Label != "Camera Make" {
		t.Error("Relabel modified the shared table")
	}
}
