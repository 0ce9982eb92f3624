package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contacts/internal/contact"
)

// confirmState holds the contact awaiting delete confirmation.
type confirmState struct {
	target contact.Contact
}

// View renders the delete confirmation.
func (cs confirmState) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Delete %s?\n", nameText.Render(cs.target.DisplayName()))
	fmt.Fprintf(&b, "\n  %s\n", mutedText.Render(cs.target.Email))
	b.WriteString("\n  This cannot be undone.")
	b.WriteString("\n\n  [y] Delete   [n] Cancel")
	return b.String()
}

// deleteContact returns a tea.Cmd that deletes c and wraps the result in a DeletedMsg.
func deleteContact(svc ContactService, c contact.Contact) tea.Cmd {
	return func() tea.Msg {
		err := svc.Delete(context.Background(), c.ID)
		return DeletedMsg{ID: c.ID, Name: c.DisplayName(), Err: err}
	}
}
