// BYZRA ⸻ internal/wipe/wipe.go
// strip a file on disk into a clean copy

package wipe

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"exifdrop/internal/export"
	"exifdrop/internal/session"
	"exifdrop/internal/util"
)

// ErrOutputExists is returned when the clean copy would replace a file and
// Overwrite is off.
var ErrOutputExists = errors.New("output file already exists")

type WipeOptions struct {
	// directory for the clean copy; empty means beside the original
	OutputDir string

	// replace an existing clean copy?
	Overwrite bool

	// re-encoding settings
	Export export.Options

	// where the session reports; nil discards
	Logger session.Logger
}

func DefaultWipeOptions() *WipeOptions {
	return &WipeOptions{
		Export: export.Options{Quality: 95},
	}
}

type WipeResult struct {
	Success       bool
	OriginalPath  string
	OutputPath    string
	OriginalSize  int64
	OutputSize    int64
	OriginalHash  string
	OutputHash    string
	TagsFound     int
	SensitiveData []string
	WipeErrors    []string
	Verification  *VerificationResult
}

// writes a metadata-free copy of path; the original is never modified
func WipeFile(path string, options *WipeOptions) (*WipeResult, error) {
	if options == nil {
		options = DefaultWipeOptions()
	}

	result := &WipeResult{
		OriginalPath: path,
		WipeErrors:   []string{},
	}

	if err := util.ValidatePath(path); err != nil {
		return result, fmt.Errorf("invalid input file: %w", err)
	}

	s := session.New(session.Options{Export: options.Export, Logger: options.Logger})
	snap, err := s.LoadFile(path)
	if err != nil {
		return result, err
	}
	result.OriginalSize = snap.Image.Size
	if sum, err := util.FileSHA256(path); err == nil {
		result.OriginalHash = sum
	}
	result.TagsFound = snap.Tags.Len()
	result.SensitiveData = export.Identifying(snap.Tags)

	artifact, _, err := s.ExportStripped()
	if err != nil {
		return result, err
	}

	outputPath := util.OutputPath(path, options.OutputDir, artifact.Name)
	if !options.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			return result, fmt.Errorf("%w: %s", ErrOutputExists, outputPath)
		}
	}
	if err := util.WriteFileAtomic(outputPath, artifact.Data, 0644); err != nil {
		return result, fmt.Errorf("failed to write output file: %w", err)
	}
	result.OutputPath = outputPath
	result.OutputSize = int64(len(artifact.Data))
	result.OutputHash = util.BytesSHA256(artifact.Data)

	verifyResult, err := VerifyFile(outputPath, snap.Image.Width, snap.Image.Height, options.Export.AutoOrient)
	if err != nil {
		result.WipeErrors = append(result.WipeErrors, fmt.Sprintf("[X] Verification failed: %s", err))
	}
	result.Verification = verifyResult

	result.Success = len(result.WipeErrors) == 0 &&
		(result.Verification == nil || result.Verification.Success)

	return result, nil
}

// report of the wipe operation
func FormatWipeResult(result *WipeResult) string {
	var sb strings.Builder

	if len(result.SensitiveData) > 0 {
		message := fmt.Sprintf("[!] Found %d identifying fields among %d tags", len(result.SensitiveData), result.TagsFound)
		sb.WriteString(util.BRH.Render(message))
		sb.WriteString("\n")
	} else if result.TagsFound > 0 {
		sb.WriteString(util.SEC.Render(fmt.Sprintf("[i] Found %d tags, none identifying", result.TagsFound)))
		sb.WriteString("\n")
	} else {
		sb.WriteString(util.SEC.Render("[i] No metadata detected"))
		sb.WriteString("\n")
	}

	if result.Success {
		sb.WriteString(util.SEC.Render("✓ File successfully processed"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(util.BRH.Render("[!] Processing completed with issues..."))
		sb.WriteString("\n")

		for _, err := range result.WipeErrors {
			message := fmt.Sprintf("  • %s", err)
			sb.WriteString(util.NSH.Render(message))
			sb.WriteString("\n")
		}
	}

	if result.OutputPath != "" {
		message := fmt.Sprintf("[i] Output saved to: %s (%s -> %s)", result.OutputPath,
			humanSize(result.OriginalSize), humanSize(result.OutputSize))
		sb.WriteString(util.NSH.Render(message))
		sb.WriteString("\n")
		if result.OriginalHash != "" {
			sb.WriteString(util.SUB.Render("    sha256 " + result.OriginalHash + "  original"))
			sb.WriteString("\n")
		}
		sb.WriteString(util.SUB.Render("    sha256 " + result.OutputHash + "  clean copy"))
		sb.WriteString("\n")
	}

	// verification details
	if result.Verification != nil && !result.Verification.Success {
		sb.WriteString("\n")
		sb.WriteString(FormatVerificationResult(result.Verification))
	}

	return sb.String()
}
