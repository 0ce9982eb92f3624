package ui

import (
	"strings"

	"github.com/smileynet/contacts/internal/contact"
)

// CursorMarker is the prefix shown on the selected card.
const CursorMarker = "▸ "

const (
	emailIcon = "✉ "
	phoneIcon = "☎ "
)

// CardLines returns the unstyled lines of a contact card: the name, the
// email, the phone only when set, and the category only when set.
func CardLines(c contact.Contact) []string {
	lines := []string{c.DisplayName(), emailIcon + c.Email}
	if c.HasPhone() {
		lines = append(lines, phoneIcon+c.Phone)
	}
	if c.HasCategory() {
		lines = append(lines, "["+string(c.Category)+"]")
	}
	return lines
}

// cardHeight is the number of rendered lines for c, including the blank separator.
func cardHeight(c contact.Contact) int {
	return len(CardLines(c)) + 1
}

// renderCard renders the styled card for c.
func renderCard(c contact.Contact, selected bool) string {
	name := nameText.Render(c.DisplayName())
	prefix := "  "
	if selected {
		name = nameText.Foreground(accent).Render(c.DisplayName())
		prefix = CursorMarker
	}

	lines := []string{prefix + name, "  " + mutedText.Render(emailIcon+c.Email)}
	if c.HasPhone() {
		lines = append(lines, "  "+mutedText.Render(phoneIcon+c.Phone))
	}
	if c.HasCategory() {
		lines = append(lines, "  "+CategoryBadge(c.Category))
	}
	return strings.Join(lines, "\n")
}
