// BYZRA ⸻ internal/wipe/verify.go
// checks a stripped file decodes and carries no metadata

package wipe

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"exifdrop/internal/export"
	"exifdrop/internal/formats"
	"exifdrop/internal/tagset"
	"exifdrop/internal/util"
)

// results of a file verification
type VerificationResult struct {
	Success          bool
	FileIntact       bool
	MetadataRemoved  bool
	RemainingFields  []string
	Identifying      []string
	ValidationErrors []string
}

// checks path decodes at wantW x wantH (swapped allowed when rotated, zero
// skips the check) and that no tags can be read back from it
func VerifyFile(path string, wantW, wantH int, rotated bool) (*VerificationResult, error) {
	result := &VerificationResult{
		ValidationErrors: []string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("file not found: %w", err)
	}

	cfg, _, err := formats.DecodeConfig(data)
	result.FileIntact = err == nil
	if err != nil {
		result.ValidationErrors = append(result.ValidationErrors, "File does not decode: "+err.Error())
		return result, nil
	}
	if wantW > 0 && wantH > 0 {
		same := cfg.Width == wantW && cfg.Height == wantH
		swapped := rotated && cfg.Width == wantH && cfg.Height == wantW
		if !same && !swapped {
			result.FileIntact = false
			result.ValidationErrors = append(result.ValidationErrors,
				fmt.Sprintf("Dimensions changed: %dx%d, expected %dx%d", cfg.Width, cfg.Height, wantW, wantH))
		}
	}

	residue := export.Verify(export.Artifact{Data: data}, tagset.ExifDecoder{})
	result.RemainingFields = residue.Tags
	result.Identifying = residue.Identifying
	result.MetadataRemoved = residue.Clean()

	if !result.MetadataRemoved {
		result.ValidationErrors = append(result.ValidationErrors,
			fmt.Sprintf("Found %d fields that should have been removed", len(result.RemainingFields)))
	}

	// overall success
	result.Success = result.FileIntact && result.MetadataRemoved

	return result, nil
}

// user-friendly report of the verification
func FormatVerificationResult(result *VerificationResult) string {
	var sb strings.Builder

	if result.Success {
		sb.WriteString(util.NSH.Render("✓ File successfully processed and verified"))
		sb.WriteString("\n")
		return sb.String()
	}

	if !result.FileIntact {
		sb.WriteString(util.LBL.Render("[!] File integrity check failed. File may be corrupted."))
		sb.WriteString("\n")
		for _, e := range result.ValidationErrors {
			sb.WriteString("  ")
			sb.WriteString(util.NSH.Render("• " + e))
			sb.WriteString("\n")
		}
	}

	if !result.MetadataRemoved {
		message := fmt.Sprintf("[!] Found %d remaining fields (%d identifying) that were not removed.",
			len(result.RemainingFields), len(result.Identifying))
		sb.WriteString(util.LBL.Render(message))
		sb.WriteString("\n")

		for _, field := range result.RemainingFields {
			sb.WriteString("  ")
			sb.WriteString(util.NSH.Render("• " + field))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func humanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
