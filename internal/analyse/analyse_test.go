package analyse

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"exifdrop/internal/present"
	"exifdrop/internal/testimg"
)

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAnalyze(t *testing.T) {
	p := writeImage(t, "cam.jpg", testimg.JPEG(12, 9, testimg.Camera()...))
	r, err := Analyze(p, map[string]string{"Make": "Brand"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.MimeType != "image/jpeg" || r.Dimensions != "12 × 9" {
		t.Errorf("report header = %q %q", r.MimeType, r.Dimensions)
	}
	if r.Views.Camera.Items[0].Label != "Brand" {
		t.Errorf("label override ignored: %+v", r.Views.Camera.Items[0])
	}
	if len(r.SensitiveFields) == 0 || r.Views.GPS == nil {
		t.Fatalf("sensitive %v, gps %v", r.SensitiveFields, r.Views.GPS)
	}
	if !strings.HasPrefix(r.Views.GPS.MapURL, "https://www.google.com/maps?q=40.712") {
		t.Errorf("map url = %q", r.Views.GPS.MapURL)
	}

	text := GenerateReport(r)
	for _, want := range []string{"Camera (8)", "Location", "exifdrop strip"} {
		if !strings.Contains(text, want) {
			t.Errorf("report lacks %q", want)
		}
	}
}

func TestAnalyzeNoMetadata(t *testing.T) {
	p := writeImage(t, "plain.png", testimg.PNG(3, 3, ""))
	r, err := Analyze(p, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	text := GenerateReport(r)
	for _, want := range []string{present.NoCameraAtAll, present.NoExifAtAll, "No identifying metadata"} {
		if !strings.Contains(text, want) {
			t.Errorf("report lacks %q", want)
		}
	}

	raw, err := GenerateJSON(r)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Views struct {
			GPS *struct{} `json:"gps"`
			All struct {
				Count int    `json:"count"`
				Empty string `json:"empty"`
			} `json:"all"`
		} `json:"views"`
		SensitiveFields []string `json:"sensitive_fields"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Views.GPS != nil || decoded.Views.All.Empty != present.NoExifAtAll || decoded.SensitiveFields == nil {
		t.Errorf("json = %s", raw)
	}
}

func TestAnalyzeRejects(t *testing.T) {
	if _, err := Analyze(t.TempDir(), nil, nil); err == nil {
		t.Error("directory analysed")
	}
	p := writeImage(t, "a.txt", []byte("hello"))
	if _, err := Analyze(p, nil, nil); err == nil {
		t.Error("text file analysed")
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("a\nb\x1b[31mc\x00"); got != "a b[31mc" {
		t.Errorf("oneLine = %q", got)
	}
}
