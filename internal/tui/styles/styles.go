package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Color palette
var (
	AniBlue    = lipgloss.Color("#3DB4F2")
	SlateDark  = lipgloss.Color("#151F2E")
	SlateLight = lipgloss.Color("#2B3A4F")
	DimGray    = lipgloss.Color("#647380")
	LightGray  = lipgloss.Color("#9FADBD")
	White      = lipgloss.Color("#EDF1F5")
	Green      = lipgloss.Color("#7BD555")
	Orange     = lipgloss.Color("#F79A63")
	Red        = lipgloss.Color("#E85D75")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(AniBlue)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(AniBlue)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Skeleton placeholder shown while a listing loads
const SkeletonChar = "░"

var SkeletonStyle = lipgloss.NewStyle().Foreground(SlateLight)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(AniBlue).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(AniBlue)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Badge styles
var (
	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Red).
				Padding(0, 1)
)

// Card styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(AniBlue)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(AniBlue)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(AniBlue).
				Bold(true)
)

// Accent returns a foreground style in the given hex color
func Accent(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// AccentBorder returns a rounded border drawn in the given hex color
func AccentBorder(hex string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(hex))
}

// AccentBadge returns a badge with fg text on an accent background
func AccentBadge(hex, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(hex)).
		Bold(true).
		Padding(0, 1)
}

// ScoreStyle colors a 0-100 score
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 75:
		return lipgloss.NewStyle().Foreground(Green)
	case score >= 60:
		return lipgloss.NewStyle().Foreground(Orange)
	default:
		return lipgloss.NewStyle().Foreground(Red)
	}
}

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// Pad pads or cuts a string to exactly the given display width
func Pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "")
	}
	return runewidth.FillRight(s, width)
}

// Skeleton returns a placeholder bar of the given width
func Skeleton(width int) string {
	if width <= 0 {
		return ""
	}
	return SkeletonStyle.Render(strings.Repeat(SkeletonChar, width))
}
