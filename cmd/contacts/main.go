package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/smileynet/contacts/internal/api"
	"github.com/smileynet/contacts/internal/config"
	"github.com/smileynet/contacts/internal/contact"
	"github.com/smileynet/contacts/internal/logging"
	"github.com/smileynet/contacts/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errContactNotFound is returned when a command targets an ID the backend does not list.
var errContactNotFound = errors.New("contact not found")

// Globals holds flags shared by every command.
type Globals struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Config  string           `help:"Config file layered over the user and project config." type:"path"`
	APIURL  string           `name:"api-url" help:"Backend base URL (overrides config and environment)."`
	NoLog   bool             `help:"Disable the diagnostic log file."`
}

// CLI is the top-level command structure for contacts.
type CLI struct {
	Globals

	UI         UICmd     `cmd:"" default:"withargs" help:"Open the interactive contacts TUI."`
	List       ListCmd   `cmd:"" help:"List contacts."`
	Add        AddCmd    `cmd:"" help:"Create a contact."`
	Edit       EditCmd   `cmd:"" help:"Update a contact."`
	Delete     DeleteCmd `cmd:"" help:"Delete a contact."`
	ShowConfig ConfigCmd `cmd:"" name:"config" help:"Print the effective configuration."`
}

// env is the wiring built from Globals for one command invocation.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	client *api.Client
}

// close flushes the logger.
func (e *env) close() {
	_ = e.logger.Sync()
}

// loadConfig loads layered config from the user and project paths, then extra
// when set, with env overrides.
func loadConfig(extra string) (*config.Config, error) {
	paths := config.DefaultPaths()
	if extra != "" {
		if _, err := os.Stat(extra); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		paths = append(paths, extra)
	}
	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads configuration, applies flag overrides and builds the logger and client.
func (g *Globals) setup() (*env, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, err
	}
	if g.APIURL != "" {
		cfg.API.BaseURL = g.APIURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.Nop()
	if !g.NoLog {
		logger, err = logging.New(cfg.Log, cfg.LogFile())
		if err != nil {
			return nil, err
		}
	}

	client, err := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	logger.Debug("configured", zap.String("base_url", client.BaseURL()), zap.Duration("timeout", cfg.API.Timeout))
	return &env{cfg: cfg, logger: logger, client: client}, nil
}

// parseCategory validates a --category flag value.
func parseCategory(s string) (contact.Category, error) {
	c, ok := contact.ParseCategory(s)
	if !ok {
		names := make([]string, 0, len(contact.Categories()))
		for _, known := range contact.Categories() {
			names = append(names, string(known))
		}
		return contact.CategoryNone, fmt.Errorf("unknown category %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return c, nil
}

// --- UI command ---

// UICmd opens the interactive TUI.
type UICmd struct {
	Search   string `help:"Initial search term."`
	Category string `help:"Initial category filter."`
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the TUI.
func (u *UICmd) Run(g *Globals) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("ui: requires a terminal (TTY)")
	}

	cat, err := parseCategory(u.Category)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	defer e.close()

	m := ui.NewModel(e.client,
		ui.WithLogger(e.logger),
		ui.WithSearch(u.Search),
		ui.WithCategory(cat),
	)

	var opts []tea.ProgramOption
	if e.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return u.run(true, tea.NewProgram(m, opts...))
}

// run executes the tea program, enabling testable wiring.
func (u *UICmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("ui: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// --- List command ---

// ListCmd prints contacts as plain-text cards or JSON.
type ListCmd struct {
	Search   string `help:"Only contacts matching this term."`
	Category string `help:"Only contacts in this category."`
	JSON     bool   `name:"json" help:"Print JSON instead of cards."`
}

// Run executes the list command.
func (l *ListCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return l.run(ctx, os.Stdout, e.client)
}

// run lists contacts through svc, enabling testable wiring.
func (l *ListCmd) run(ctx context.Context, w io.Writer, svc ui.ContactService) error {
	cat, err := parseCategory(l.Category)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	contacts, err := svc.List(ctx, api.Query{Search: l.Search, Category: cat})
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	if l.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(contacts)
	}

	for _, c := range contacts {
		printCard(w, c)
	}
	noun := "contacts"
	if len(contacts) == 1 {
		noun = "contact"
	}
	_, _ = fmt.Fprintf(w, "%d %s\n", len(contacts), noun)
	return nil
}

// printCard writes one contact as an indented plain-text card.
func printCard(w io.Writer, c contact.Contact) {
	lines := ui.CardLines(c)
	_, _ = fmt.Fprintf(w, "#%-4d %s\n", c.ID, lines[0])
	for _, line := range lines[1:] {
		_, _ = fmt.Fprintf(w, "      %s\n", line)
	}
	_, _ = fmt.Fprintln(w)
}

// --- Add command ---

// AddCmd creates a contact.
type AddCmd struct {
	First    string `help:"First name." required:""`
	Last     string `help:"Last name." required:""`
	Email    string `help:"Email address." required:""`
	Phone    string `help:"Phone number."`
	Category string `help:"Category: Personal, Work, Family, Friends or Other."`
}

// Run executes the add command.
func (a *AddCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return a.run(ctx, os.Stdout, e.client)
}

// run validates the draft and creates it through svc, enabling testable wiring.
func (a *AddCmd) run(ctx context.Context, w io.Writer, svc ui.ContactService) error {
	cat, err := parseCategory(a.Category)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	d := contact.Draft{FirstName: a.First, LastName: a.Last, Email: a.Email, Phone: a.Phone, Category: cat}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	created, err := svc.Create(ctx, d)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Created contact #%d %s\n", created.ID, created.DisplayName())
	return nil
}

// --- Edit command ---

// EditCmd updates a contact. Omitted flags keep their current values.
type EditCmd struct {
	ID       int64  `arg:"" help:"Contact ID."`
	First    string `help:"New first name."`
	Last     string `help:"New last name."`
	Email    string `help:"New email address."`
	Phone    string `help:"New phone number."`
	Category string `help:"New category."`
}

// Run executes the edit command.
func (c *EditCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.run(ctx, os.Stdout, e.client)
}

// run merges the flags over the listed contact and updates it through svc.
func (c *EditCmd) run(ctx context.Context, w io.Writer, svc ui.ContactService) error {
	current, err := findContact(ctx, svc, c.ID)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	d := contact.DraftFrom(current)
	for field, value := range map[contact.Field]string{
		contact.FieldFirstName: c.First,
		contact.FieldLastName:  c.Last,
		contact.FieldEmail:     c.Email,
		contact.FieldPhone:     c.Phone,
	} {
		if value != "" {
			d.Set(field, value)
		}
	}
	if c.Category != "" {
		cat, err := parseCategory(c.Category)
		if err != nil {
			return fmt.Errorf("edit: %w", err)
		}
		d.Category = cat
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	updated, err := svc.Update(ctx, c.ID, d)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Updated contact #%d %s\n", updated.ID, updated.DisplayName())
	return nil
}

// findContact looks id up in the unscoped contact list.
func findContact(ctx context.Context, svc ui.ContactService, id int64) (contact.Contact, error) {
	contacts, err := svc.List(ctx, api.Query{})
	if err != nil {
		return contact.Contact{}, err
	}
	for _, c := range contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return contact.Contact{}, fmt.Errorf("%w: #%d", errContactNotFound, id)
}

// --- Delete command ---

// DeleteCmd deletes a contact.
type DeleteCmd struct {
	ID int64 `arg:"" help:"Contact ID."`
}

// Run executes the delete command.
func (d *DeleteCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return d.run(ctx, os.Stdout, e.client)
}

// run deletes through svc, enabling testable wiring.
func (d *DeleteCmd) run(ctx context.Context, w io.Writer, svc ui.ContactService) error {
	if err := svc.Delete(ctx, d.ID); err != nil {
		if api.IsNotFound(err) {
			return fmt.Errorf("delete: %w: #%d: %w", errContactNotFound, d.ID, err)
		}
		return fmt.Errorf("delete: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Deleted contact #%d\n", d.ID)
	return nil
}

// --- Config command ---

// ConfigCmd prints the effective configuration as YAML.
type ConfigCmd struct{}

// Run executes the config command.
func (c *ConfigCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if g.APIURL != "" {
		cfg.API.BaseURL = g.APIURL
	}
	return c.run(os.Stdout, cfg)
}

// run validates and prints cfg, enabling testable wiring.
func (c *ConfigCmd) run(w io.Writer, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

const (
	exitSuccess = 0
	exitBackend = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if _, ok := api.AsError(err); ok {
		return exitBackend
	}
	if errors.Is(err, api.ErrUnavailable) || errors.Is(err, api.ErrMalformedResponse) || errors.Is(err, errContactNotFound) {
		return exitBackend
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contacts"),
		kong.Description("Manage contacts stored by the contacts backend."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
