package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/smileynet/contacts/internal/api"
	"github.com/smileynet/contacts/internal/contact"
)

// headerHeight is the number of lines above the card list.
const headerHeight = 6

// footerHeight is the number of lines reserved for the notice and help bar.
const footerHeight = 2

// Model is the root Bubble Tea model for the contacts TUI. It owns the
// contact collection, the search term and category filter, and at most one
// open form.
type Model struct {
	svc    ContactService
	logger *zap.Logger

	contacts []contact.Contact
	cursor   int
	offset   int // First visible card.
	search   textinput.Model
	category contact.Category
	loading  bool

	gen    uint64             // Generation of the latest refresh.
	cancel context.CancelFunc // Cancels the in-flight fetch, if any.

	editor     *formState    // nil when closed.
	nextFormID int           // Last issued form id.
	confirm    *confirmState // nil when no delete is pending.
	notice     string

	spinner spinner.Model
	help    help.Model
	width   int
	height  int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithSearch sets the initial search term.
func WithSearch(term string) Option {
	return func(m *Model) { m.search.SetValue(term) }
}

// WithCategory sets the initial category filter.
func WithCategory(c contact.Category) Option {
	return func(m *Model) { m.category = c }
}

// NewModel creates a Model backed by svc. The first refresh starts in Init.
func NewModel(svc ContactService, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "Search contacts..."
	search.Width = 32

	m := Model{
		svc:     svc,
		logger:  zap.NewNop(),
		search:  search,
		loading: true,
		spinner: s,
		help:    help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init requests the first refresh.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return RefreshMsg{} }
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m.scrolled(), nil

	case RefreshMsg:
		return m.refresh()

	case ContactsLoadedMsg:
		return m.applyLoaded(msg), nil

	case SavedMsg:
		return m.onSaved(msg)

	case SaveFailedMsg:
		return m.onSaveFailed(msg), nil

	case DeletedMsg:
		return m.onDeleted(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks go to whichever input has focus.
	var cmd tea.Cmd
	switch {
	case m.editor != nil:
		var f formState
		f, cmd = m.editor.Update(msg)
		m.editor = &f
	case m.search.Focused():
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

// busy reports whether a spinner is on screen.
func (m Model) busy() bool {
	return m.loading || (m.editor != nil && m.editor.status == StatusSubmitting)
}

// Query returns the current list scope.
func (m Model) Query() api.Query {
	return api.Query{Search: m.search.Value(), Category: m.category}
}

// refresh starts a List call for the current search and filter. Any
// in-flight fetch is cancelled and its result will be dropped.
func (m Model) refresh() (Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.gen++
	m.loading = true

	gen, q, svc := m.gen, m.Query(), m.svc
	fetch := func() tea.Msg {
		contacts, err := svc.List(ctx, q)
		return ContactsLoadedMsg{Gen: gen, Query: q, Contacts: contacts, Err: err}
	}
	return m, tea.Batch(fetch, m.spinner.Tick)
}

// applyLoaded applies a fetch result if it belongs to the latest refresh.
// A failed fetch keeps the prior collection and is only logged.
func (m Model) applyLoaded(msg ContactsLoadedMsg) Model {
	if msg.Gen != m.gen {
		return m
	}
	m.loading = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.Err != nil {
		if !errors.Is(msg.Err, context.Canceled) {
			m.logger.Warn("refresh failed",
				zap.String("search", msg.Query.Search),
				zap.String("category", string(msg.Query.Category)),
				zap.Error(msg.Err),
			)
		}
		return m
	}

	m.contacts = append([]contact.Contact(nil), msg.Contacts...)
	if m.cursor >= len(m.contacts) {
		m.cursor = max(len(m.contacts)-1, 0)
	}
	return m.scrolled()
}

// Contacts returns the current collection.
func (m Model) Contacts() []contact.Contact {
	return m.contacts
}

// Selected returns the contact under the cursor, if any.
func (m Model) Selected() (contact.Contact, bool) {
	if m.loading || m.cursor < 0 || m.cursor >= len(m.contacts) {
		return contact.Contact{}, false
	}
	return m.contacts[m.cursor], true
}

// EditorOpen reports whether a form is open.
func (m Model) EditorOpen() bool {
	return m.editor != nil
}

// openCreate opens an empty create form. It is a no-op while a form is open.
func (m Model) openCreate() (Model, tea.Cmd) {
	return m.openEditor(nil)
}

// openEdit opens an update form seeded from c. It is a no-op while a form is open.
func (m Model) openEdit(c contact.Contact) (Model, tea.Cmd) {
	return m.openEditor(&c)
}

func (m Model) openEditor(existing *contact.Contact) (Model, tea.Cmd) {
	if m.editor != nil {
		return m, nil
	}
	m.nextFormID++
	f := newForm(m.nextFormID, m.svc, existing)
	m.editor = &f
	return m, textinput.Blink
}

// closeEditor discards the open form and its draft.
func (m Model) closeEditor() Model {
	m.editor = nil
	return m
}

// onSaved closes the form that saved and refreshes the list.
func (m Model) onSaved(msg SavedMsg) (Model, tea.Cmd) {
	if m.editor != nil {
		f, _ := m.editor.Update(msg)
		m.editor = &f
		if f.status == StatusDone {
			m = m.closeEditor()
		}
	}
	m.logger.Info("contact saved",
		zap.String("mode", msg.Mode.String()),
		zap.Int64("id", msg.Contact.ID),
	)
	if msg.Mode == ModeUpdate {
		m.notice = "Contact updated"
	} else {
		m.notice = "Contact created"
	}
	return m.refresh()
}

// onSaveFailed logs a failed save and hands it to the form that issued it.
func (m Model) onSaveFailed(msg SaveFailedMsg) Model {
	if apiErr, ok := api.AsError(msg.Err); ok {
		m.logger.Info("save rejected",
			zap.String("mode", msg.Mode.String()),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
	} else {
		m.logger.Error("save failed", zap.String("mode", msg.Mode.String()), zap.Error(msg.Err))
	}

	if m.editor != nil {
		f, _ := m.editor.Update(msg)
		m.editor = &f
	}
	return m
}

// onDeleted refreshes after a delete, or reports why it failed.
func (m Model) onDeleted(msg DeletedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("delete failed", zap.Int64("id", msg.ID), zap.Error(msg.Err))
		if apiErr, ok := api.AsError(msg.Err); ok {
			m.notice = "Delete failed: " + apiErr.UserMessage()
		} else {
			m.notice = "Delete failed: backend unavailable"
		}
		return m, nil
	}
	m.logger.Info("contact deleted", zap.Int64("id", msg.ID))
	m.notice = "Deleted " + msg.Name
	return m.refresh()
}

// quit cancels any in-flight fetch and exits.
func (m Model) quit() (Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return m, tea.Quit
}

// handleKey routes keys to the form, the confirmation, the search box or the list.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	m.notice = ""

	switch {
	case m.editor != nil:
		return m.handleFormKey(msg)
	case m.confirm != nil:
		return m.handleConfirmKey(msg)
	case m.search.Focused():
		return m.handleSearchKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" && m.editor.status != StatusEditingWithError {
		return m.closeEditor(), nil
	}

	f, cmd := m.editor.Update(msg)
	submitted := m.editor.status != StatusSubmitting && f.status == StatusSubmitting
	m.editor = &f
	if submitted {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		target := m.confirm.target
		m.confirm = nil
		return m, deleteContact(m.svc, target)
	case "n", "esc", "q":
		m.confirm = nil
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		return m, nil
	case "esc":
		m.search.Blur()
		if m.search.Value() == "" {
			return m, nil
		}
		m.search.SetValue("")
		return m.refresh()
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m, refresh := m.refresh()
	return m, tea.Batch(cmd, refresh)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "up", "k":
		return m.moveCursor(-1), nil
	case "down", "j":
		return m.moveCursor(1), nil
	case "/":
		cmd := m.search.Focus()
		return m, cmd
	case "c":
		m.category = m.category.Next()
		return m.refresh()
	case "r":
		return m.refresh()
	case "a":
		return m.openCreate()
	case "e", "enter":
		if c, ok := m.Selected(); ok {
			return m.openEdit(c)
		}
	case "d", "delete":
		if c, ok := m.Selected(); ok {
			m.confirm = &confirmState{target: c}
		}
	}
	return m, nil
}

// moveCursor moves the cursor by delta, wrapping at both ends.
func (m Model) moveCursor(delta int) Model {
	n := len(m.contacts)
	if n == 0 || m.loading {
		return m
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
	return m.scrolled()
}

// listHeight returns the number of lines available for cards.
func (m Model) listHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		return 1
	}
	return h
}

// scrolled adjusts the offset so the card under the cursor is visible.
func (m Model) scrolled() Model {
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	if m.offset >= len(m.contacts) {
		m.offset = max(len(m.contacts)-1, 0)
	}
	h := m.listHeight()
	for m.offset < m.cursor {
		lines := 0
		for i := m.offset; i <= m.cursor; i++ {
			lines += cardHeight(m.contacts[i])
		}
		if lines <= h {
			break
		}
		m.offset++
	}
	return m
}

// currentView reports which surface owns the keyboard.
func (m Model) currentView() View {
	switch {
	case m.editor != nil && m.editor.status == StatusEditingWithError:
		return ViewAlert
	case m.editor != nil:
		return ViewForm
	case m.confirm != nil:
		return ViewConfirm
	case m.search.Focused():
		return ViewSearch
	default:
		return ViewList
	}
}

// View renders the list, or the form as a modal over the screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	helpView := m.help.View(HelpBindings(m.currentView()))

	if m.editor != nil {
		box := FocusedBorder().
			Padding(0, 1).
			Width(formWidth).
			Render(m.editor.View(m.spinner.View()))
		modal := lipgloss.JoinVertical(lipgloss.Center, box, helpView)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	var body string
	if m.confirm != nil {
		body = m.confirm.View()
	} else {
		body = m.viewList()
	}
	body = lipgloss.NewStyle().Height(m.listHeight()).MaxHeight(m.listHeight()).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		noticeText.Render(m.notice),
		helpView,
	)
}

func (m Model) viewHeader() string {
	var b strings.Builder
	b.WriteString(titleText.Render("Contact Management System"))
	b.WriteString("\n")
	b.WriteString(mutedText.Render("Manage your contacts efficiently"))
	b.WriteString("\n\n")

	searchLabel := "Search: "
	if m.search.Focused() {
		searchLabel = focusedText.Render(searchLabel)
	}
	b.WriteString(searchLabel + m.search.View())
	b.WriteString("   Category: " + m.category.Label("All"))
	b.WriteString("\n\n")

	if m.loading {
		fmt.Fprintf(&b, "%s Loading contacts...", m.spinner.View())
	} else {
		fmt.Fprintf(&b, "Contacts (%d)", len(m.contacts))
	}
	return b.String()
}

func (m Model) viewList() string {
	if m.loading {
		return ""
	}
	if len(m.contacts) == 0 {
		if term := m.search.Value(); term != "" {
			return mutedText.Render(fmt.Sprintf("No contacts match %q", term))
		}
		return mutedText.Render("No contacts found. Press a to add one.")
	}

	h := m.listHeight()
	var cards []string
	used := 0
	for i := m.offset; i < len(m.contacts); i++ {
		ch := cardHeight(m.contacts[i])
		if used+ch > h && len(cards) > 0 {
			break
		}
		cards = append(cards, renderCard(m.contacts[i], i == m.cursor))
		used += ch
	}
	return strings.Join(cards, "\n\n")
}
