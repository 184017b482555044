package main

import (
	"strings"
	"testing"

	"exifdrop/internal/wipe"
)

func TestStripReportShowsVerificationOnce(t *testing.T) {
	failed := &wipe.WipeResult{
		OutputPath: "/tmp/a_no_metadata.jpg",
		Verification: &wipe.VerificationResult{
			FileIntact:      true,
			RemainingFields: []string{"Make"},
		},
	}
	if n := strings.Count(stripReport(failed), "remaining fields"); n != 1 {
		t.Errorf("failed verification printed %d times; want 1", n)
	}

	ok := &wipe.WipeResult{
		Success:    true,
		OutputPath: "/tmp/b_no_metadata.jpg",
		Verification: &wipe.VerificationResult{
			Success:         true,
			FileIntact:      true,
			MetadataRemoved: true,
		},
	}
	if n := strings.Count(stripReport(ok), "verified"); n != 1 {
		t.Errorf("successful verification printed %d times; want 1", n)
	}
}
