package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contacts/internal/api"
	"github.com/smileynet/contacts/internal/contact"
)

// cmdTimeout bounds how long execBatch waits for one command. Cursor blink
// and spinner timers take longer and are dropped.
const cmdTimeout = 200 * time.Millisecond

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// execBatch executes a tea.Cmd, flattening batch commands, and returns all
// resulting messages. Commands that do not return within cmdTimeout are skipped.
func execBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(cmdTimeout):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, execBatch(t, c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// isAppMsg reports whether msg is one of the UI's own message types.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case RefreshMsg, ContactsLoadedMsg, SavedMsg, SaveFailedMsg, DeletedMsg:
		return true
	}
	return false
}

// drive feeds the application messages produced by cmd back into m until
// none remain.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		var next []tea.Cmd
		for _, msg := range execBatch(t, cmd) {
			if !isAppMsg(msg) {
				continue
			}
			updated, c := m.Update(msg)
			m = updated.(Model)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
	return m
}

// send delivers msg to m and drives the resulting commands.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	return drive(t, updated.(Model), cmd)
}

// keyRunes builds a key message that types s.
func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// keyType builds a key message for a special key.
func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// loadedModel returns a sized Model that has completed its first refresh.
func loadedModel(t *testing.T, svc ContactService, opts ...Option) Model {
	t.Helper()
	m := NewModel(svc, opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	return drive(t, m, m.Init())
}

var (
	ann = contact.Contact{ID: 1, FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Phone: "555-0100", Category: contact.CategoryWork}
	bo  = contact.Contact{ID: 2, FirstName: "Bo", LastName: "Ng", Email: "bo@x.com"}
)

type updateCall struct {
	ID    int64
	Draft contact.Draft
}

// stubService is an in-memory ContactService that records every call.
type stubService struct {
	mu        sync.Mutex
	contacts  []contact.Contact
	nextID    int64
	listErr   error
	saveErr   error
	deleteErr error

	queries []api.Query
	ctxs    []context.Context
	created []contact.Draft
	updated []updateCall
	deleted []int64
}

func newStub(contacts ...contact.Contact) *stubService {
	return &stubService{contacts: contacts, nextID: 100}
}

func (s *stubService) List(ctx context.Context, q api.Query) ([]contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	s.ctxs = append(s.ctxs, ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.listErr != nil {
		return nil, s.listErr
	}

	out := []contact.Contact{}
	term := strings.ToLower(q.Search)
	for _, c := range s.contacts {
		if q.Category != contact.CategoryNone && c.Category != q.Category {
			continue
		}
		haystack := strings.ToLower(c.FirstName + " " + c.LastName + " " + c.Email)
		if term != "" && !strings.Contains(haystack, term) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *stubService) Create(_ context.Context, d contact.Draft) (contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, d)
	if s.saveErr != nil {
		return contact.Contact{}, s.saveErr
	}
	s.nextID++
	c := contact.Contact{ID: s.nextID, FirstName: d.FirstName, LastName: d.LastName, Email: d.Email, Phone: d.Phone, Category: d.Category}
	s.contacts = append(s.contacts, c)
	return c, nil
}

func (s *stubService) Update(_ context.Context, id int64, d contact.Draft) (contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated = append(s.updated, updateCall{ID: id, Draft: d})
	if s.saveErr != nil {
		return contact.Contact{}, s.saveErr
	}
	for i, c := range s.contacts {
		if c.ID == id {
			s.contacts[i] = contact.Contact{ID: id, FirstName: d.FirstName, LastName: d.LastName, Email: d.Email, Phone: d.Phone, Category: d.Category}
			return s.contacts[i], nil
		}
	}
	return contact.Contact{}, &api.Error{Method: "PATCH", Path: "/update_contact", Status: 404, Message: "Contact not found"}
}

func (s *stubService) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, c := range s.contacts {
		if c.ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubService) lastQuery(t *testing.T) api.Query {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queries) == 0 {
		t.Fatal("no List calls recorded")
	}
	return s.queries[len(s.queries)-1]
}

func (s *stubService) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func (s *stubService) createCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}
