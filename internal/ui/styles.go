package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/contacts/internal/contact"
)

// formWidth is the content width of the modal form.
const formWidth = 44

var (
	accent = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	danger = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}

	titleText   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedText   = lipgloss.NewStyle().Foreground(dim)
	errorText   = lipgloss.NewStyle().Foreground(danger)
	nameText    = lipgloss.NewStyle().Bold(true)
	noticeText  = lipgloss.NewStyle().Italic(true).Foreground(dim)
	focusedText = lipgloss.NewStyle().Foreground(accent)
)

// Category badge colors. Unknown categories render gray.
var categoryColors = map[contact.Category]lipgloss.AdaptiveColor{
	contact.CategoryPersonal: {Light: "5", Dark: "13"},    // magenta
	contact.CategoryWork:     {Light: "4", Dark: "12"},    // blue
	contact.CategoryFamily:   {Light: "2", Dark: "10"},    // green
	contact.CategoryFriends:  {Light: "208", Dark: "208"}, // orange
	contact.CategoryOther:    {Light: "240", Dark: "245"}, // gray
}

// CategoryBadge returns a styled category label like "[Work]".
func CategoryBadge(c contact.Category) string {
	color, ok := categoryColors[c]
	if !ok {
		color = dim
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Render("[" + string(c) + "]")
}

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent)
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}

// AlertBorder returns a lipgloss style with a red double border.
func AlertBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(danger).
		Padding(0, 1)
}
