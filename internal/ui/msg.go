// Package ui implements the contacts terminal UI: a searchable list of
// contact cards with a modal form for creating and editing contacts.
package ui

import (
	"context"

	"github.com/smileynet/contacts/internal/api"
	"github.com/smileynet/contacts/internal/contact"
)

// FormMode is fixed when a form opens: it either creates or updates.
type FormMode int

const (
	ModeCreate FormMode = iota // Draft has no backend ID yet.
	ModeUpdate                 // Draft edits an existing contact.
)

func (m FormMode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// FormStatus is the lifecycle state of one form instance.
type FormStatus int

const (
	StatusEditing          FormStatus = iota // Accepting input.
	StatusSubmitting                         // Request in flight; input ignored.
	StatusDone                               // Saved; the list closes the form.
	StatusEditingWithError                   // Backend rejected the save; alert shown.
)

// --- Consumer-side interfaces ---

// ContactService is the backend the UI drives. *api.Client implements it.
type ContactService interface {
	List(ctx context.Context, q api.Query) ([]contact.Contact, error)
	Create(ctx context.Context, d contact.Draft) (contact.Contact, error)
	Update(ctx context.Context, id int64, d contact.Draft) (contact.Contact, error)
	Delete(ctx context.Context, id int64) error
}

var _ ContactService = (*api.Client)(nil)

// --- tea.Msg types ---

// RefreshMsg asks the list to reload with the current search and filter.
// Init emits it; Model.Update intercepts it and calls refresh.
type RefreshMsg struct{}

// ContactsLoadedMsg carries the result of one List call.
// Gen identifies the refresh that issued it; only the latest generation applies.
type ContactsLoadedMsg struct {
	Gen      uint64
	Query    api.Query
	Contacts []contact.Contact
	Err      error
}

// SavedMsg reports a successful create or update from form FormID.
type SavedMsg struct {
	FormID  int
	Mode    FormMode
	Contact contact.Contact
}

// SaveFailedMsg reports a failed create or update from form FormID.
type SaveFailedMsg struct {
	FormID int
	Mode   FormMode
	Err    error
}

// DeletedMsg carries the result of a Delete call.
type DeletedMsg struct {
	ID   int64
	Name string
	Err  error
}
