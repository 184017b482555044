package wipe

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/tiff"

	"exifdrop/internal/export"
	"exifdrop/internal/testimg"
	"exifdrop/internal/util"
)

func TestWipeFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "IMG_0042.jpg")
	data := testimg.JPEG(32, 24, testimg.Camera()...)
	if err := os.WriteFile(src, data, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := WipeFile(src, nil)
	if err != nil {
		t.Fatalf("WipeFile: %v", err)
	}
	if !res.Success {
		t.Fatalf("not successful: %+v", res)
	}
	if want := filepath.Join(dir, "IMG_0042_no_metadata.jpg"); res.OutputPath != want {
		t.Errorf("OutputPath = %q; want %q", res.OutputPath, want)
	}
	if res.TagsFound == 0 || len(res.SensitiveData) == 0 {
		t.Errorf("tags found %d, identifying %v", res.TagsFound, res.SensitiveData)
	}
	if !res.Verification.MetadataRemoved || !res.Verification.FileIntact {
		t.Errorf("verification = %+v", res.Verification)
	}

	after, _ := os.ReadFile(src)
	if !bytes.Equal(after, data) {
		t.Error("original modified")
	}
	clean, _ := os.ReadFile(res.OutputPath)
	if res.OutputHash != util.BytesSHA256(clean) || res.OriginalHash != util.BytesSHA256(data) {
		t.Errorf("hashes = %s / %s", res.OriginalHash, res.OutputHash)
	}

	if _, err := WipeFile(src, nil); !errors.Is(err, ErrOutputExists) {
		t.Errorf("second wipe err = %v; want ErrOutputExists", err)
	}

	report := FormatWipeResult(res)
	if !strings.Contains(report, res.OutputPath) {
		t.Errorf("report does not name the output:\n%s", report)
	}
}

func TestWipeFileTIFF(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scan.tiff")
	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range m.Pix {
		m.Pix[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, m, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := WipeFile(src, nil)
	if err != nil {
		t.Fatalf("WipeFile: %v", err)
	}
	if !res.Success {
		t.Fatalf("tiff strip reported issues: %+v", res.Verification)
	}
	if len(res.Verification.RemainingFields) != 0 {
		t.Errorf("remaining fields = %v", res.Verification.RemainingFields)
	}
	if want := filepath.Join(dir, "scan_no_metadata.tiff"); res.OutputPath != want {
		t.Errorf("OutputPath = %q; want %q", res.OutputPath, want)
	}
}

func TestWipeFileOutputDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "clean")
	src := filepath.Join(dir, "shot.png")
	os.WriteFile(src, testimg.PNG(9, 9, "where I live"), 0o644)

	opts := DefaultWipeOptions()
	opts.OutputDir = out
	res, err := WipeFile(src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(res.OutputPath) != out {
		t.Errorf("output in %q; want %q", filepath.Dir(res.OutputPath), out)
	}
	cleaned, _ := os.ReadFile(res.OutputPath)
	if bytes.Contains(cleaned, []byte("where I live")) {
		t.Error("text chunk survived")
	}
}

func TestWipeFileRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	os.WriteFile(src, []byte("just text"), 0o644)

	_, err := WipeFile(src, nil)
	if err == nil {
		t.Fatal("text file wiped")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("files written on failure: %d entries", len(entries))
	}
}

func TestWipeFileExportFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	// JPEG signature, truncated body: loads, cannot be re-encoded
	src := filepath.Join(dir, "broken.jpg")
	os.WriteFile(src, testimg.JPEG(16, 16)[:40], 0o644)

	_, err := WipeFile(src, nil)
	var ee *export.ExportError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v; want *export.ExportError", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "broken_no_metadata.jpg")); !os.IsNotExist(err) {
		t.Error("partial output left behind")
	}
}

func TestVerifyFile(t *testing.T) {
	dir := t.TempDir()
	tagged := filepath.Join(dir, "tagged.jpg")
	os.WriteFile(tagged, testimg.JPEG(10, 6, testimg.Camera()...), 0o644)

	res, err := VerifyFile(tagged, 10, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.MetadataRemoved || len(res.Identifying) == 0 {
		t.Errorf("tagged file verified clean: %+v", res)
	}

	res, _ = VerifyFile(tagged, 6, 10, false)
	if res.FileIntact {
		t.Error("dimension mismatch not reported")
	}
	res, _ = VerifyFile(tagged, 6, 10, true)
	if !res.FileIntact {
		t.Error("rotated dimensions rejected")
	}

	if _, err := VerifyFile(filepath.Join(dir, "missing.jpg"), 0, 0, false); err == nil {
		t.Error("missing file verified")
	}
}
