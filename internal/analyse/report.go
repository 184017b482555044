// BYZRA ⸻ internal/analyse/report.go
// format analysis reports

package analyse

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"exifdrop/internal/present"
	"exifdrop/internal/util"
)

func GenerateReport(report *AnalysisReport) string {
	var sb strings.Builder

	// info header
	sb.WriteString(util.NSH.Render(fmt.Sprintf("File: %s", report.Path)) + "\n")
	sb.WriteString(util.NSH.Render(fmt.Sprintf("Type: %s  Size: %s  Dimensions: %s",
		report.MimeType, report.Size, report.Dimensions)) + "\n")
	sb.WriteString(util.SUB.Render(fmt.Sprintf("Processed in %.2fs", report.Elapsed.Seconds())) + "\n\n")

	v := report.Views
	writeSection(&sb, "Camera", v.Camera, nil)
	writeSection(&sb, "Dates", v.Dates, nil)

	if v.GPS != nil {
		sb.WriteString(util.LBL.Render("Location") + "\n")
		for _, it := range v.GPS.Items() {
			writeItem(&sb, it, true)
		}
		if v.GPS.MapURL != "" {
			sb.WriteString(fmt.Sprintf(" %s %s\n", util.ORN.Render("→"), util.SHE.Render(v.GPS.MapURL)))
		}
		sb.WriteString("\n")
	}

	writeSection(&sb, "All Metadata", v.All, report.SensitiveFields)

	// summary and recommendation
	if n := len(report.SensitiveFields); n > 0 {
		sb.WriteString(util.BRH.Render(fmt.Sprintf(
			"[!] Found %d identifying metadata fields.", n)) + "\n")
		sb.WriteString(util.BRH.Render("[!] Consider using 'exifdrop strip' to remove metadata.") + "\n")
	} else {
		sb.WriteString(util.LBL.Render("✓ No identifying metadata detected") + "\n")
	}

	return sb.String()
}

func writeSection(sb *strings.Builder, title string, v present.View, sensitive []string) {
	sb.WriteString(util.LBL.Render(fmt.Sprintf("%s (%d)", title, v.Count)) + "\n")
	if v.Count == 0 {
		sb.WriteString(" " + util.NLL.Render(v.Empty) + "\n\n")
		return
	}
	for _, it := range v.Items {
		writeItem(sb, it, !slices.Contains(sensitive, it.Label))
	}
	sb.WriteString("\n")
}

func writeItem(sb *strings.Builder, it present.Item, plain bool) {
	mark := util.ORN.Render("•")
	if !plain {
		mark = util.ORN.Render("!")
	}
	sb.WriteString(fmt.Sprintf(" %s %s: %s\n", mark, util.NSH.Render(it.Label), oneLine(it.Value)))
}

// file content may carry control characters; keep each row on one line
func oneLine(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

type jsonReport struct {
	File            string        `json:"file"`
	MimeType        string        `json:"mime_type"`
	Size            string        `json:"size"`
	Dimensions      string        `json:"dimensions"`
	ProcessingTime  string        `json:"processing_time"`
	Views           present.Views `json:"views"`
	SensitiveFields []string      `json:"sensitive_fields"`
}

// creates a machine-readable report
func GenerateJSON(report *AnalysisReport) ([]byte, error) {
	sensitive := report.SensitiveFields
	if sensitive == nil {
		sensitive = []string{}
	}
	return json.MarshalIndent(jsonReport{
		File:            report.Path,
		MimeType:        report.MimeType,
		Size:            report.Size,
		Dimensions:      report.Dimensions,
		ProcessingTime:  fmt.Sprintf("%.2fs", report.Elapsed.Seconds()),
		Views:           report.Views,
		SensitiveFields: sensitive,
	}, "", "  ")
}
