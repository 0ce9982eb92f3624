package ui

import "github.com/charmbracelet/bubbles/help"

// View identifies which surface currently owns the keyboard.
type View int

const (
	ViewList    View = iota // Browsing contact cards.
	ViewSearch              // Typing in the search box.
	ViewForm                // Create/edit form open.
	ViewAlert               // Form alert waiting for dismissal.
	ViewConfirm             // Delete confirmation open.
)

// HelpBindings returns the help.KeyMap for the given view,
// providing context-aware help bar content.
func HelpBindings(v View) help.KeyMap {
	switch v {
	case ViewSearch:
		return SearchKeyMap()
	case ViewForm:
		return FormKeyMap()
	case ViewAlert:
		return AlertKeyMap()
	case ViewConfirm:
		return ConfirmKeyMap()
	default:
		return ListKeyMap()
	}
}
