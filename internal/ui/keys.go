package ui

import "github.com/charmbracelet/bubbles/key"

// listKeys holds key bindings for the contact list.
type listKeys struct {
	Up       key.Binding
	Down     key.Binding
	Search   key.Binding
	Category key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// ShortHelp returns the list bindings for the help bar.
func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Category, k.Add, k.Edit, k.Delete, k.Refresh, k.Quit}
}

// FullHelp returns the list bindings grouped for expanded help.
func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.Category},
		{k.Add, k.Edit, k.Delete},
		{k.Refresh, k.Quit},
	}
}

// searchKeys holds key bindings while the search box has focus.
type searchKeys struct {
	Done  key.Binding
	Clear key.Binding
}

// ShortHelp returns the search bindings for the help bar.
func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Done, k.Clear}
}

// FullHelp returns the search bindings grouped for expanded help.
func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Done, k.Clear}}
}

// formKeys holds key bindings for the contact form.
type formKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Cycle  key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// ShortHelp returns the form bindings for the help bar.
func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Cycle, k.Submit, k.Cancel}
}

// FullHelp returns the form bindings grouped for expanded help.
func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Cycle},
		{k.Submit, k.Cancel},
	}
}

// confirmKeys holds key bindings for the delete confirmation.
type confirmKeys struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns the confirmation bindings for the help bar.
func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns the confirmation bindings grouped for expanded help.
func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// alertKeys holds the single binding that dismisses a blocking alert.
type alertKeys struct {
	AnyKey key.Binding
}

// ShortHelp returns the alert bindings for the help bar.
func (k alertKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.AnyKey}
}

// FullHelp returns the alert bindings grouped for expanded help.
func (k alertKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.AnyKey}}
}

// ListKeyMap returns the key bindings for the contact list.
func ListKeyMap() listKeys {
	return listKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SearchKeyMap returns the key bindings while searching.
func SearchKeyMap() searchKeys {
	return searchKeys{
		Done: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
	}
}

// FormKeyMap returns the key bindings for the contact form.
func FormKeyMap() formKeys {
	return formKeys{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "category"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ConfirmKeyMap returns the key bindings for the delete confirmation.
func ConfirmKeyMap() confirmKeys {
	return confirmKeys{
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "delete"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}

// AlertKeyMap returns the key bindings while an alert is shown.
func AlertKeyMap() alertKeys {
	return alertKeys{
		// "any" is display-only; dismissal happens in formState.Update.
		AnyKey: key.NewBinding(
			key.WithKeys("any"),
			key.WithHelp("any key", "dismiss"),
		),
	}
}
