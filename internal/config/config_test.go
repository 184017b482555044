package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	p := write(t, dir, FileName, `
[server]
addr = ":9000"
session_idle = "5m"

[export]
quality = 80
auto_orient = true
output_dir = "~/clean"

[daemon]
min_file_age = "1s"
[daemon.watch]
paths = ["/tmp/in", "#/tmp/disabled"]
[daemon.filter]
extensions = ["JPG", ".png"]
`)

	cfg, err := LoadFrom(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.SessionIdle.Duration != 5*time.Minute {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.MaxUploadMB != 50 {
		t.Errorf("unset max_upload_mb lost its default: %d", cfg.Server.MaxUploadMB)
	}
	if cfg.Export.Quality != 80 || !cfg.Export.AutoOrient || cfg.Export.OutputDir != filepath.Join(dir, "clean") {
		t.Errorf("export = %+v", cfg.Export)
	}
	if diff := cmp.Diff([]string{"/tmp/in"}, cfg.Daemon.Watch.Paths); diff != "" {
		t.Errorf("watch paths (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{".jpg", ".png"}, cfg.Daemon.Filter.Extensions); diff != "" {
		t.Errorf("extensions (-want +got):\n%s", diff)
	}
	if cfg.Daemon.MinFileAge.Duration != time.Second || cfg.Source != p {
		t.Errorf("min age %v, source %q", cfg.Daemon.MinFileAge, cfg.Source)
	}
}

func TestLoadFromRejectsBadQuality(t *testing.T) {
	p := write(t, t.TempDir(), FileName, "[export]\nquality = 150\n")
	if _, err := LoadFrom(p); err == nil {
		t.Error("quality 150 accepted")
	}
	p = write(t, t.TempDir(), FileName, "[server\n")
	if _, err := LoadFrom(p); err == nil {
		t.Error("malformed TOML accepted")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Server.Addr = "0.0.0.0:1234"
	p := filepath.Join(dir, "sub", FileName)
	if err := Save(cfg, p); err != nil {
		t.Fatal(err)
	}
	back, err := LoadFrom(p)
	if err != nil {
		t.Fatal(err)
	}
	if back.Server.Addr != cfg.Server.Addr || back.Server.SessionIdle != cfg.Server.SessionIdle {
		t.Errorf("server after round trip = %+v", back.Server)
	}
}

func TestLoadLabels(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, LabelsFile, `
local cam = "Camera"
return {
  Make = cam .. " Brand",
  Model = string.upper("body"),
  Unknown = "ignored",
  FNumber = 42,
}
`)
	known := []string{"Make", "Model", "FNumber"}
	got, err := LoadLabels([]string{filepath.Join(dir, "missing.lua"), p}, known)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"Make": "Camera Brand", "Model": "BODY"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
}

func TestLoadLabelsErrors(t *testing.T) {
	dir := t.TempDir()
	if m, err := LoadLabels([]string{filepath.Join(dir, "none.lua")}, nil); m != nil || err != nil {
		t.Errorf("no file: %v, %v", m, err)
	}
	notTable := write(t, dir, "a.lua", `return "Make"`)
	if _, err := LoadLabelsFrom(notTable, nil); err == nil {
		t.Error("non-table result accepted")
	}
	noOS := write(t, dir, "b.lua", `os.remove("x") return {}`)
	if _, err := LoadLabelsFrom(noOS, nil); err == nil {
		t.Error("os library reachable from labels.lua")
	}
}

func TestLabelSearchPathsPreferConfigDir(t *testing.T) {
	cfg := Default()
	cfg.Source = filepath.Join("/etc", "exifdrop", FileName)
	paths := LabelSearchPaths(cfg)
	if paths[0] != filepath.Join("/etc", "exifdrop", LabelsFile) {
		t.Errorf("first path = %q", paths[0])
	}
}
