package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stagegate/stagegate/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor forces the plain ASCII profile so every style renders as
// unstyled text. Honors NO_COLOR and piped output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// StateColor returns the lipgloss style for the given activity state.
func StateColor(state domain.ActivityState) lipgloss.Style {
	switch state {
	case domain.ActivityCompleted:
		return StyleGreen
	case domain.ActivityReleased:
		return StyleYellow
	case domain.ActivityUnreleased:
		return StyleDim
	default:
		return StyleDim
	}
}

// StatePill returns a colored state indicator such as "● Released".
func StatePill(state domain.ActivityState) string {
	switch state {
	case domain.ActivityCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.ActivityReleased:
		return StyleYellow.Render("● Released")
	case domain.ActivityUnreleased:
		return StyleDim.Render("○ Pending")
	default:
		return StyleDim.Render(string(state))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
