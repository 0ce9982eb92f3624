package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contacts/internal/api"
	"github.com/smileynet/contacts/internal/contact"
)

// NetworkErrorMessage is the alert shown when a save never reached the backend.
const NetworkErrorMessage = "An error occurred while saving the contact"

// textFields is the number of free-text fields; Category is a selector.
const textFields = int(contact.FieldCategory)

// categoryPlaceholder is shown while no category is selected.
const categoryPlaceholder = "Select category"

var placeholders = [textFields]string{
	contact.FieldFirstName: "Ann",
	contact.FieldLastName:  "Lee",
	contact.FieldEmail:     "ann@example.com",
	contact.FieldPhone:     "555-0100",
}

// formState is one open create or edit form. Its id, mode and target are
// fixed when it opens.
type formState struct {
	id       int
	svc      ContactService
	mode     FormMode
	targetID int64
	draft    contact.Draft
	inputs   [textFields]textinput.Model
	focus    contact.Field
	status   FormStatus
	errs     map[contact.Field]string // Per-field validation messages.
	alert    string
}

// newForm seeds a form from existing, or an empty draft when existing is nil.
// The form updates only when existing has been persisted.
func newForm(id int, svc ContactService, existing *contact.Contact) formState {
	f := formState{id: id, svc: svc, mode: ModeCreate}
	if existing != nil {
		f.draft = contact.DraftFrom(*existing)
		if existing.Persisted() {
			f.mode = ModeUpdate
			f.targetID = existing.ID
		}
	}

	for i := range f.inputs {
		field := contact.Field(i)
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.Width = formWidth - 4
		ti.SetValue(f.draft.Get(field))
		f.inputs[i] = ti
	}
	f.inputs[contact.FieldFirstName].Focus()
	return f
}

// Mode returns the fixed mode of the form.
func (f formState) Mode() FormMode { return f.mode }

// Status returns the lifecycle state of the form.
func (f formState) Status() FormStatus { return f.status }

// Draft returns the current draft.
func (f formState) Draft() contact.Draft { return f.draft }

// setField updates one draft field without validating it.
func (f formState) setField(field contact.Field, value string) formState {
	f.draft.Set(field, value)
	if int(field) < textFields {
		f.inputs[field].SetValue(value)
	}
	if _, ok := f.errs[field]; ok {
		errs := make(map[contact.Field]string, len(f.errs))
		for k, v := range f.errs {
			if k != field {
				errs[k] = v
			}
		}
		f.errs = errs
	}
	return f
}

// Update processes messages for the form.
func (f formState) Update(msg tea.Msg) (formState, tea.Cmd) {
	switch msg := msg.(type) {
	case SavedMsg:
		if msg.FormID == f.id {
			f.status = StatusDone
		}
		return f, nil

	case SaveFailedMsg:
		if msg.FormID == f.id {
			f = f.fail(msg.Err)
		}
		return f, nil

	case tea.KeyMsg:
		return f.handleKey(msg)
	}

	// Cursor blinks go to the focused input.
	if int(f.focus) < textFields {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f formState) handleKey(msg tea.KeyMsg) (formState, tea.Cmd) {
	switch f.status {
	case StatusSubmitting, StatusDone:
		return f, nil
	case StatusEditingWithError:
		f.status = StatusEditing
		f.alert = ""
		return f, nil
	}

	last := contact.Fields[len(contact.Fields)-1]
	switch msg.String() {
	case "tab", "down":
		return f.focusField((f.focus + 1) % contact.Field(len(contact.Fields)))
	case "shift+tab", "up":
		return f.focusField((f.focus + contact.Field(len(contact.Fields)) - 1) % contact.Field(len(contact.Fields)))
	case "ctrl+s":
		return f.submit()
	case "enter":
		if f.focus == last {
			return f.submit()
		}
		return f.focusField(f.focus + 1)
	}

	if f.focus == contact.FieldCategory {
		switch msg.String() {
		case "right", " ", "l":
			return f.setField(contact.FieldCategory, string(f.draft.Category.Next())), nil
		case "left", "h":
			return f.setField(contact.FieldCategory, string(f.draft.Category.Prev())), nil
		}
		return f, nil
	}

	var cmd tea.Cmd
	before := f.inputs[f.focus].Value()
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if after := f.inputs[f.focus].Value(); after != before {
		f = f.setField(f.focus, after)
	}
	return f, cmd
}

// focusField moves keyboard focus to field.
func (f formState) focusField(field contact.Field) (formState, tea.Cmd) {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = field
	var cmd tea.Cmd
	if int(field) < textFields {
		cmd = f.inputs[field].Focus()
	}
	return f, cmd
}

// submit validates the draft and, when valid, issues exactly one save.
// Submissions outside the Editing state are ignored.
func (f formState) submit() (formState, tea.Cmd) {
	if f.status != StatusEditing {
		return f, nil
	}

	if err := f.draft.Validate(); err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			f.errs = verr.Fields
			for _, field := range contact.Fields {
				if _, bad := f.errs[field]; bad {
					return f.focusField(field)
				}
			}
		}
		return f, nil
	}

	f.errs = nil
	f.status = StatusSubmitting
	svc, id, mode, formID, draft := f.svc, f.targetID, f.mode, f.id, f.draft
	return f, func() tea.Msg {
		var (
			saved contact.Contact
			err   error
		)
		if mode == ModeUpdate {
			saved, err = svc.Update(context.Background(), id, draft)
		} else {
			saved, err = svc.Create(context.Background(), draft)
		}
		if err != nil {
			return SaveFailedMsg{FormID: formID, Mode: mode, Err: err}
		}
		return SavedMsg{FormID: formID, Mode: mode, Contact: saved}
	}
}

// fail moves the form to EditingWithError with an alert for err.
// The draft is preserved.
func (f formState) fail(err error) formState {
	f.status = StatusEditingWithError
	if apiErr, ok := api.AsError(err); ok {
		f.alert = apiErr.UserMessage()
	} else {
		f.alert = NetworkErrorMessage
	}
	return f
}

// Title returns the form heading for its mode.
func (f formState) Title() string {
	if f.mode == ModeUpdate {
		return "Edit Contact"
	}
	return "Add New Contact"
}

// SubmitLabel returns the submit action label for its mode.
func (f formState) SubmitLabel() string {
	if f.mode == ModeUpdate {
		return "Update Contact"
	}
	return "Create Contact"
}

// View renders the form. spinnerView is shown while a save is in flight.
func (f formState) View(spinnerView string) string {
	if f.status == StatusEditingWithError {
		return AlertBorder().Render(
			errorText.Render(f.alert) + "\n\n" + mutedText.Render("Press any key to continue"))
	}

	var b strings.Builder
	b.WriteString(titleText.Render(f.Title()))
	b.WriteString("\n")

	for _, field := range contact.Fields {
		b.WriteString("\n")
		label := field.Label()
		if field == f.focus {
			b.WriteString(focusedText.Render(label))
		} else {
			b.WriteString(label)
		}
		b.WriteString("\n")

		if field == contact.FieldCategory {
			b.WriteString(f.viewCategory())
		} else {
			b.WriteString(f.inputs[field].View())
		}
		if msg, ok := f.errs[field]; ok {
			b.WriteString("\n")
			b.WriteString(errorText.Render(msg))
		}
	}

	b.WriteString("\n\n")
	if f.status == StatusSubmitting {
		fmt.Fprintf(&b, "%s Saving...", spinnerView)
	} else {
		fmt.Fprintf(&b, "[ctrl+s] %s   [esc] Cancel", f.SubmitLabel())
	}
	return b.String()
}

func (f formState) viewCategory() string {
	label := f.draft.Category.Label(categoryPlaceholder)
	if f.draft.Category == contact.CategoryNone {
		label = mutedText.Render(label)
	}
	if f.focus == contact.FieldCategory {
		return focusedText.Render("‹ ") + label + focusedText.Render(" ›")
	}
	return "  " + label
}
