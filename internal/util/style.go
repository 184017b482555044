// BYZRA ⸻ internal/util/style.go
// defines CLI visual style, color roles, ornaments, and motion

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

type ColorConfig struct {
	Colors struct {
		CHRM string
		HEAT string
		HOTP string
		GUNM string
		VBLK string
		CSTL string
	}
}

// ╭─ COLOR ROLES ───────────────────────────────╮
var (
	CHRM lipgloss.Color
	HEAT lipgloss.Color
	HOTP lipgloss.Color
	GUNM lipgloss.Color
	VBLK lipgloss.Color
	CSTL lipgloss.Color
)

// ╭─ STYLE DEFINITIONS ─────────────────────────╮
var (
	BRH lipgloss.Style
	LBL lipgloss.Style
	SUB lipgloss.Style
	NSH lipgloss.Style
	SHE lipgloss.Style
	SEC lipgloss.Style
	NLL lipgloss.Style
	ORN lipgloss.Style
)

func init() {
	ApplyPalette(loadColorConfig(PaletteSearchPaths()))
}

// ApplyPalette sets the colour roles and rebuilds every style from them.
func ApplyPalette(config ColorConfig) {
	CHRM = lipgloss.Color(config.Colors.CHRM)
	HEAT = lipgloss.Color(config.Colors.HEAT)
	HOTP = lipgloss.Color(config.Colors.HOTP)
	GUNM = lipgloss.Color(config.Colors.GUNM)
	VBLK = lipgloss.Color(config.Colors.VBLK)
	CSTL = lipgloss.Color(config.Colors.CSTL)

	BRH = lipgloss.NewStyle().Foreground(HOTP).Bold(true)
	LBL = lipgloss.NewStyle().Foreground(HEAT).Bold(true)
	SUB = lipgloss.NewStyle().Foreground(GUNM)
	NSH = lipgloss.NewStyle().Foreground(CHRM).Bold(true)
	SHE = lipgloss.NewStyle().Foreground(CHRM).Bold(true).Underline(true)
	SEC = lipgloss.NewStyle().Foreground(CSTL).Bold(true)
	NLL = lipgloss.NewStyle().Foreground(VBLK).Faint(true)
	ORN = lipgloss.NewStyle().Foreground(GUNM).Bold(true)

	Ornament = ORN.Render("›")
	Divider = SUB.Render(strings.Repeat("─", 48))
}

func PaletteSearchPaths() []string {
	return []string{
		"palette.toml",
		"config/palette.toml",
		filepath.Join(os.Getenv("HOME"), ".exifdrop/config/palette.toml"),
	}
}

// first palette that parses wins; missing keys keep their defaults
func loadColorConfig(paths []string) ColorConfig {
	config := DefaultPalette()
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, &config); err == nil {
			return config
		}
	}
	return config
}

func DefaultPalette() ColorConfig {
	var config ColorConfig
	config.Colors.CHRM = "#C0C0C0"
	config.Colors.HEAT = "#FF5C00"
	config.Colors.HOTP = "#FF007F"
	config.Colors.GUNM = "#444444"
	config.Colors.VBLK = "#121212"
	config.Colors.CSTL = "#88AABB"
	return config
}

// ╭─ ORNAMENT ──────────────────────────────────╮
var (
	Ornament string // prefix UX lines
	Divider  string
)

// ╭─ SPINNER ───────────────────────────────────╮
// busy indicator on stderr while fn runs; cleared before returning
func SpinWhile[T any](label string, fn func() (T, error)) (T, error) {
	s := spinner.New(spinner.WithSpinner(spinner.Meter))
	ticker := time.NewTicker(s.Spinner.FPS)
	defer ticker.Stop()

	type outcome struct {
		out T
		err error
	}
	done := make(chan struct{})
	result := make(chan outcome, 1)

	go func() {
		frame := 0
		frames := s.Spinner.Frames
		for {
			select {
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%s %s", ORN.Render(frames[frame]), LBL.Render(label))
				frame = (frame + 1) % len(frames)
			case <-done:
				return
			}
		}
	}()

	go func() {
		out, err := fn()
		result <- outcome{out, err}
	}()

	res := <-result
	close(done)
	fmt.Fprint(os.Stderr, "\r\033[K")
	return res.out, res.err
}

func SuccessSymbol() string {
	return LBL.Render("[✓]")
}

func WarningSymbol() string {
	return SEC.Render("[!]")
}

func InfoSymbol() string {
	return NSH.Render("[i]")
}

func ErrorSymbol() string {
	return BRH.Render("[X]")
}
