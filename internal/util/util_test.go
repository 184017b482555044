package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":                 "photo.jpg",
		"C:\\Users\\me\\secret.png": "secret.png",
		"../../etc/passwd":          "passwd",
		".hidden.gif":               "_hidden.gif",
		"a<b>c|d.jpg":               "a_b_c_d.jpg",
		"tab\there.jpg":             "tabhere.jpg",
		"":                          "image",
		".":                         "image",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q; want %q", in, got, want)
		}
	}

	long := SanitizeFilename(strings.Repeat("x", 500) + ".jpeg")
	if utf8.RuneCountInString(long) != maxFilenameRunes || !strings.HasSuffix(long, ".jpeg") {
		t.Errorf("long name = %d runes, %q...", utf8.RuneCountInString(long), long[len(long)-8:])
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("/pics/a.jpg", "", "a_no_metadata.jpg"); got != filepath.Join("/pics", "a_no_metadata.jpg") {
		t.Errorf("beside source: %q", got)
	}
	if got := OutputPath("/pics/a.jpg", "/out", "../a.jpg"); got != filepath.Join("/out", "a.jpg") {
		t.Errorf("into dir: %q", got)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.jpg")

	if err := WriteFileAtomic(path, []byte("pixels"), 0o640); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "pixels" {
		t.Fatalf("read back %q, %v", got, err)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}

	// a directory in the way makes the rename fail; nothing else appears
	blocked := filepath.Join(dir, "blocked")
	if err := os.MkdirAll(filepath.Join(blocked, "x"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(blocked, []byte("y"), 0o644); err == nil {
		t.Error("WriteFileAtomic over a non-empty directory succeeded")
	}
	entries, _ = os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".blocked") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	if err := ValidatePath(dir); err == nil {
		t.Error("directory accepted")
	}
	if err := ValidatePath(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	f := filepath.Join(dir, "f")
	os.WriteFile(f, []byte("x"), 0o644)
	if err := ValidatePath(f); err != nil {
		t.Errorf("regular file: %v", err)
	}
}

func TestSHA256(t *testing.T) {
	f := filepath.Join(t.TempDir(), "f")
	os.WriteFile(f, []byte("abc"), 0o644)
	sum, err := FileSHA256(f)
	if err != nil {
		t.Fatal(err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if sum != want || BytesSHA256([]byte("abc")) != want {
		t.Errorf("sha256 = %s", sum)
	}
}

func TestSpinWhile(t *testing.T) {
	n, err := SpinWhile("counting", func() (int, error) { return 42, nil })
	if n != 42 || err != nil {
		t.Errorf("SpinWhile = %d, %v", n, err)
	}
	boom := errors.New("boom")
	if _, err := SpinWhile("failing", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("error not passed through: %v", err)
	}
}

func TestPaletteOverride(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "palette.toml")
	os.WriteFile(p, []byte("[Colors]\nHEAT = \"#00FF00\"\n"), 0o644)

	cfg := loadColorConfig([]string{filepath.Join(dir, "missing.toml"), p})
	if cfg.Colors.HEAT != "#00FF00" {
		t.Errorf("HEAT = %q", cfg.Colors.HEAT)
	}
	if cfg.Colors.CHRM != DefaultPalette().Colors.CHRM {
		t.Errorf("unset key lost its default: %q", cfg.Colors.CHRM)
	}
}
